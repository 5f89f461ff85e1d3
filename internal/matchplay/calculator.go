// Package matchplay turns per-hole gross scores into hole results and a match
// standing. Like the handicap package it is pure: plain values in, a Standing
// or an error out, no I/O, safe for concurrent use.
//
// Match play is scored hole by hole. On each hole the side with the strictly
// lower net score (gross minus handicap strokes received) wins the hole; equal
// nets halve it. The standing is the running count of holes won by each side
// plus the holes halved, and a formatted status line in the traditional
// golf grammar ("Team A leads 2UP", "Team B wins 6&2", "All Square thru 14").
package matchplay

import (
	"errors"
	"fmt"
)

// ErrIncompleteHoleData is returned when a standing is requested over holes
// that are missing scores, out of sequence, or otherwise unusable. A standing
// is all-or-nothing: no partial result is ever produced.
var ErrIncompleteHoleData = errors.New("incomplete hole data")

// MatchHoles is the number of holes in a full match.
const MatchHoles = 18

// HoleResult identifies who took a hole.
type HoleResult string

const (
	HoleWonByTeamA HoleResult = "team_a"
	HoleWonByTeamB HoleResult = "team_b"
	HoleHalved     HoleResult = "halved"
)

// HoleScore is the complete scoring input for one hole: both sides' gross
// scores and the handicap strokes each side receives on that hole.
type HoleScore struct {
	Hole     int // 1..18, in play order
	GrossA   int
	GrossB   int
	StrokesA int
	StrokesB int
}

// Standing is the aggregated state of a match after some number of completed
// holes. TeamAWon + TeamBWon + Halved always equals HolesPlayed.
type Standing struct {
	HolesPlayed int    `json:"holes_played"`
	TeamAWon    int    `json:"team_a_won"`
	TeamBWon    int    `json:"team_b_won"`
	Halved      int    `json:"holes_halved"`
	Status      string `json:"status"`
}

// NetScore is gross strokes minus handicap strokes received on the hole.
func NetScore(gross, strokesReceived int) int {
	return gross - strokesReceived
}

// HoleWinner compares two net scores. Strictly lower wins; ties halve.
// The function is antisymmetric: swapping the arguments swaps A and B results
// and leaves a halve unchanged.
func HoleWinner(netA, netB int) HoleResult {
	switch {
	case netA < netB:
		return HoleWonByTeamA
	case netB < netA:
		return HoleWonByTeamB
	default:
		return HoleHalved
	}
}

// CalculateStanding folds a sequence of completed holes into a Standing.
//
// The input must be complete: holes numbered 1..n in order with no gaps, no
// more than 18 of them, and positive gross scores on both sides of every
// hole. Anything less fails with ErrIncompleteHoleData — a standing computed
// over partial data would misstate the match, so none is produced.
func CalculateStanding(holes []HoleScore) (Standing, error) {
	if len(holes) == 0 {
		return Standing{}, fmt.Errorf("%w: no holes supplied", ErrIncompleteHoleData)
	}
	if len(holes) > MatchHoles {
		return Standing{}, fmt.Errorf("%w: %d holes supplied, match has %d", ErrIncompleteHoleData, len(holes), MatchHoles)
	}

	s := Standing{HolesPlayed: len(holes)}
	for i, h := range holes {
		if h.Hole != i+1 {
			return Standing{}, fmt.Errorf("%w: expected hole %d, got %d", ErrIncompleteHoleData, i+1, h.Hole)
		}
		if h.GrossA <= 0 || h.GrossB <= 0 {
			return Standing{}, fmt.Errorf("%w: hole %d missing a gross score", ErrIncompleteHoleData, h.Hole)
		}
		if h.StrokesA < 0 || h.StrokesB < 0 {
			return Standing{}, fmt.Errorf("%w: hole %d has negative strokes received", ErrIncompleteHoleData, h.Hole)
		}

		switch HoleWinner(NetScore(h.GrossA, h.StrokesA), NetScore(h.GrossB, h.StrokesB)) {
		case HoleWonByTeamA:
			s.TeamAWon++
		case HoleWonByTeamB:
			s.TeamBWon++
		default:
			s.Halved++
		}
	}

	s.Status = FormatStatus(s.TeamAWon, s.TeamBWon, s.HolesPlayed)
	return s, nil
}

// FormatStatus renders the traditional match-play status line.
//
//	"All Square"              — tied after all 18 holes
//	"All Square thru 14"      — tied with holes still to play
//	"Team A wins 6&2"         — margin can no longer be overcome (dormie passed)
//	"Team B leads 3UP"        — leading with the match still alive
//
// Known quirk, kept on purpose: with all 18 holes played and a nonzero
// margin, remaining is 0, so the "wins N&M" branch never fires and the line
// reads "leads NUP" even though the match is over. Scorekeepers have always
// seen it phrased this way in this system; correcting the wording here would
// change recorded standings, so it stays until the product decides otherwise.
func FormatStatus(teamAWon, teamBWon, holesPlayed int) string {
	diff := teamAWon - teamBWon
	remaining := MatchHoles - holesPlayed

	if diff == 0 {
		if holesPlayed == MatchHoles {
			return "All Square"
		}
		return fmt.Sprintf("All Square thru %d", holesPlayed)
	}

	leader := "Team A"
	if diff < 0 {
		leader = "Team B"
		diff = -diff
	}

	if diff >= remaining && remaining > 0 {
		return fmt.Sprintf("%s wins %d&%d", leader, diff, remaining)
	}
	return fmt.Sprintf("%s leads %dUP", leader, diff)
}
