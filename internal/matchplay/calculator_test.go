package matchplay

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNetScore(t *testing.T) {
	require.Equal(t, 4, NetScore(5, 1))
	require.Equal(t, 5, NetScore(5, 0))
	require.Equal(t, 3, NetScore(5, 2))
	// A plus-handicap side receives zero strokes, never negative ones, so
	// net never exceeds gross — but the arithmetic itself is just subtraction.
	require.Equal(t, 6, NetScore(6, 0))
}

func TestHoleWinner(t *testing.T) {
	require.Equal(t, HoleWonByTeamA, HoleWinner(3, 4))
	require.Equal(t, HoleWonByTeamB, HoleWinner(4, 3))
	require.Equal(t, HoleHalved, HoleWinner(4, 4))
}

// Swapping the two net scores swaps the A/B results and leaves halves alone.
func TestHoleWinnerAntisymmetric(t *testing.T) {
	for netA := 1; netA <= 10; netA++ {
		for netB := 1; netB <= 10; netB++ {
			forward := HoleWinner(netA, netB)
			backward := HoleWinner(netB, netA)
			switch forward {
			case HoleWonByTeamA:
				require.Equal(t, HoleWonByTeamB, backward)
			case HoleWonByTeamB:
				require.Equal(t, HoleWonByTeamA, backward)
			default:
				require.Equal(t, HoleHalved, backward)
			}
		}
	}
}

// holesWithResults builds a valid hole sequence producing the requested
// counts: team A wins `aWins` holes, team B wins `bWins`, and `halves` are
// halved, in that order.
func holesWithResults(aWins, bWins, halves int) []HoleScore {
	var holes []HoleScore
	n := 1
	for i := 0; i < aWins; i++ {
		holes = append(holes, HoleScore{Hole: n, GrossA: 4, GrossB: 5})
		n++
	}
	for i := 0; i < bWins; i++ {
		holes = append(holes, HoleScore{Hole: n, GrossA: 5, GrossB: 4})
		n++
	}
	for i := 0; i < halves; i++ {
		holes = append(holes, HoleScore{Hole: n, GrossA: 4, GrossB: 4})
		n++
	}
	return holes
}

func TestCalculateStanding(t *testing.T) {
	tests := []struct {
		name       string
		aWins      int
		bWins      int
		halves     int
		wantStatus string
	}{
		{name: "comfortable lead mid match", aWins: 8, bWins: 3, halves: 1, wantStatus: "Team A leads 5UP"},
		{name: "match decided before 18", aWins: 10, bWins: 4, halves: 2, wantStatus: "Team A wins 6&2"},
		{name: "all square after 18", aWins: 9, bWins: 9, halves: 0, wantStatus: "All Square"},
		{name: "all square mid match", aWins: 3, bWins: 3, halves: 2, wantStatus: "All Square thru 8"},
		{name: "team b leading", aWins: 2, bWins: 5, halves: 1, wantStatus: "Team B leads 3UP"},
		{name: "team b closes it out", aWins: 2, bWins: 10, halves: 3, wantStatus: "Team B wins 8&3"},
		{name: "single hole played", aWins: 1, bWins: 0, halves: 0, wantStatus: "Team A leads 1UP"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			standing, err := CalculateStanding(holesWithResults(tt.aWins, tt.bWins, tt.halves))
			require.NoError(t, err)
			require.Equal(t, tt.aWins, standing.TeamAWon)
			require.Equal(t, tt.bWins, standing.TeamBWon)
			require.Equal(t, tt.halves, standing.Halved)
			require.Equal(t, tt.aWins+tt.bWins+tt.halves, standing.HolesPlayed)
			require.Equal(t, tt.wantStatus, standing.Status)
		})
	}
}

// Strokes received shift the hole result: a worse gross can still win net.
func TestCalculateStandingAppliesStrokes(t *testing.T) {
	holes := []HoleScore{
		// A grosses 5 with a stroke (net 4), B grosses 4 clean — halved.
		{Hole: 1, GrossA: 5, GrossB: 4, StrokesA: 1},
		// A grosses 6 with two strokes (net 4) against B's 5 — A wins.
		{Hole: 2, GrossA: 6, GrossB: 5, StrokesA: 2},
		// No strokes: straight gross comparison, B wins.
		{Hole: 3, GrossA: 5, GrossB: 4},
	}
	standing, err := CalculateStanding(holes)
	require.NoError(t, err)
	require.Equal(t, 1, standing.TeamAWon)
	require.Equal(t, 1, standing.TeamBWon)
	require.Equal(t, 1, standing.Halved)
	require.Equal(t, "All Square thru 3", standing.Status)
}

func TestCalculateStandingRejectsIncompleteData(t *testing.T) {
	tests := []struct {
		name  string
		holes []HoleScore
	}{
		{name: "no holes", holes: nil},
		{name: "gap in hole sequence", holes: []HoleScore{
			{Hole: 1, GrossA: 4, GrossB: 4},
			{Hole: 3, GrossA: 4, GrossB: 4},
		}},
		{name: "does not start at one", holes: []HoleScore{
			{Hole: 2, GrossA: 4, GrossB: 4},
		}},
		{name: "missing gross", holes: []HoleScore{
			{Hole: 1, GrossA: 4},
		}},
		{name: "negative strokes", holes: []HoleScore{
			{Hole: 1, GrossA: 4, GrossB: 4, StrokesB: -1},
		}},
		{name: "more than 18 holes", holes: holesWithResults(10, 9, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CalculateStanding(tt.holes)
			require.ErrorIs(t, err, ErrIncompleteHoleData)
		})
	}
}

func TestFormatStatus(t *testing.T) {
	tests := []struct {
		name        string
		teamAWon    int
		teamBWon    int
		holesPlayed int
		want        string
	}{
		{name: "all square finished", teamAWon: 9, teamBWon: 9, holesPlayed: 18, want: "All Square"},
		{name: "all square thru", teamAWon: 4, teamBWon: 4, holesPlayed: 12, want: "All Square thru 12"},
		{name: "leads", teamAWon: 8, teamBWon: 3, holesPlayed: 12, want: "Team A leads 5UP"},
		{name: "wins early", teamAWon: 10, teamBWon: 4, holesPlayed: 16, want: "Team A wins 6&2"},
		{name: "margin equal to holes remaining", teamAWon: 6, teamBWon: 4, holesPlayed: 16, want: "Team A wins 2&2"},
		{name: "one up with two to play", teamAWon: 5, teamBWon: 4, holesPlayed: 16, want: "Team A leads 1UP"},
		{name: "team b phrasing", teamAWon: 3, teamBWon: 9, holesPlayed: 14, want: "Team B wins 6&4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, FormatStatus(tt.teamAWon, tt.teamBWon, tt.holesPlayed))
		})
	}
}

// Long-standing phrasing quirk: a match that finishes 18 holes with a margin
// still reads "leads", because the win branch requires holes remaining. The
// wording is load-bearing for stored standings, so it must not change.
func TestFormatStatusFinishedMatchStillSaysLeads(t *testing.T) {
	require.Equal(t, "Team A leads 2UP", FormatStatus(10, 8, 18))
	require.Equal(t, "Team B leads 4UP", FormatStatus(7, 11, 18))
}
