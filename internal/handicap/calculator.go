package handicap

// calculator.go — the WHS Playing Handicap formula.
//
// The Playing Handicap is the integer number of strokes a player receives for
// one specific round from one specific set of tees. It is computed exactly
// once, when tees are assigned to a match, and stored as a snapshot. If the
// player's handicap index changes afterwards the snapshot does NOT move; the
// only way to get a new value is an explicit tee reassignment. That is a
// competition rule (players tee off knowing their strokes), not caching.
// Enforcing the once-only part is the handlers' job; this file just computes.

import "math"

// NeutralSlope is the slope rating of a course of standard difficulty.
// The WHS formula scales the handicap index by slope/113.
const NeutralSlope = 113

// PlayingHandicap applies the WHS formula:
//
//	raw    = index × slope ÷ 113 + (course rating − par)
//	scaled = raw × allowance ÷ 100
//	result = scaled rounded to the nearest integer
//
// All inputs are validated before any arithmetic happens, so an error return
// means nothing was computed and nothing should be stored. A negative result
// is legal — it belongs to a plus-handicap player and means strokes given
// rather than received (see StrokesReceived for how that is treated per hole).
func PlayingHandicap(index float64, slope int, rating float64, par int, allowance int) (int, error) {
	idx, err := NewIndex(index)
	if err != nil {
		return 0, err
	}
	slp, err := NewSlope(slope)
	if err != nil {
		return 0, err
	}
	cr, err := NewCourseRating(rating)
	if err != nil {
		return 0, err
	}
	allow, err := NewAllowance(allowance)
	if err != nil {
		return 0, err
	}

	raw := float64(idx)*float64(slp)/NeutralSlope + (float64(cr) - float64(par))
	scaled := raw * float64(allow) / 100

	return roundHalfUp(scaled), nil
}

// roundHalfUp rounds to the nearest integer with .5 going up (towards +∞):
// 15.5 → 16, -0.5 → 0. The WHS source material available to us does not pin
// down the tie-break, so half-up is the documented choice here — note that it
// differs from math.Round, which rounds halves away from zero (-0.5 → -1).
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
