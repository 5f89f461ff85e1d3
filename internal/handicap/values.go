// Package handicap implements the handicap-resolution core of the Team Cup API:
// range-validated value objects, the per-round settings resolver, the Playing
// Handicap formula, and the per-hole stroke allocation.
//
// Everything in this package is a pure function over plain values. Nothing here
// touches the database, the network, or the clock — the handlers layer calls in,
// gets a value or an error back, and owns whatever transaction wraps the result.
// That also makes every function in this package safe to call concurrently
// without any synchronization.
package handicap

import (
	"errors"
	"fmt"
)

// Sentinel errors for out-of-domain inputs. Handlers match these with errors.Is
// to turn them into 400 responses; they are never transient, so retrying with
// the same input always fails the same way.
var (
	ErrHandicapIndexOutOfRange  = errors.New("handicap index out of range")
	ErrSlopeRatingOutOfRange    = errors.New("slope rating out of range")
	ErrInvalidCourseRating      = errors.New("course rating must be positive")
	ErrInvalidAllowance         = errors.New("allowance percentage invalid")
	ErrInvalidOverrideForFormat = errors.New("handicap mode override is only valid for singles rounds")
)

// Domain bounds for the value objects below. The handicap index range and the
// slope range come from the World Handicap System: an index runs from +10 (a
// player ten strokes better than scratch, stored here as -10.0) up to the 54.0
// maximum, and slope ratings are published between 55 and 155.
const (
	MinHandicapIndex = -10.0
	MaxHandicapIndex = 54.0
	MinSlopeRating   = 55
	MaxSlopeRating   = 155
	MinAllowance     = 50
	MaxAllowance     = 100
	AllowanceStep    = 5
)

// Index is a player's portable WHS handicap index, e.g. 14.2.
// Negative values represent "plus" handicaps — players better than scratch.
type Index float64

// NewIndex validates and wraps a raw handicap index value.
func NewIndex(v float64) (Index, error) {
	if v < MinHandicapIndex || v > MaxHandicapIndex {
		return 0, fmt.Errorf("%w: %.1f not in [%.1f, %.1f]",
			ErrHandicapIndexOutOfRange, v, MinHandicapIndex, MaxHandicapIndex)
	}
	return Index(v), nil
}

// Slope is a tee's USGA slope rating — the relative difficulty of the tee for
// a bogey golfer versus a scratch golfer. 113 is the neutral value.
type Slope int

// NewSlope validates and wraps a raw slope rating.
func NewSlope(v int) (Slope, error) {
	if v < MinSlopeRating || v > MaxSlopeRating {
		return 0, fmt.Errorf("%w: %d not in [%d, %d]",
			ErrSlopeRatingOutOfRange, v, MinSlopeRating, MaxSlopeRating)
	}
	return Slope(v), nil
}

// CourseRating is the expected score of a scratch golfer from a given tee,
// e.g. 71.2. It is always positive; there is no published upper bound, so
// only the sign is checked.
type CourseRating float64

// NewCourseRating validates and wraps a raw course rating.
func NewCourseRating(v float64) (CourseRating, error) {
	if v <= 0 {
		return 0, fmt.Errorf("%w: got %.1f", ErrInvalidCourseRating, v)
	}
	return CourseRating(v), nil
}

// Allowance is the percentage of the raw handicap a player actually receives
// for a given format. Valid values are 50, 55, ..., 100 — whole 5% steps,
// matching the WHS allowance tables.
type Allowance int

// NewAllowance validates and wraps a raw allowance percentage.
func NewAllowance(v int) (Allowance, error) {
	if v < MinAllowance || v > MaxAllowance || v%AllowanceStep != 0 {
		return 0, fmt.Errorf("%w: %d is not a multiple of %d in [%d, %d]",
			ErrInvalidAllowance, v, AllowanceStep, MinAllowance, MaxAllowance)
	}
	return Allowance(v), nil
}
