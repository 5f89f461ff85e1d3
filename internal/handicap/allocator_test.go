package handicap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStrokesReceived(t *testing.T) {
	tests := []struct {
		name            string
		playingHandicap int
		strokeIndex     int
		want            int
	}{
		// Handicap 16: a stroke on the 16 hardest holes, none on 17 and 18.
		{name: "16 gets a stroke on index 10", playingHandicap: 16, strokeIndex: 10, want: 1},
		{name: "16 gets a stroke on index 16", playingHandicap: 16, strokeIndex: 16, want: 1},
		{name: "16 gets nothing on index 17", playingHandicap: 16, strokeIndex: 17, want: 0},

		// Handicap 20 wraps: second strokes on the 2 hardest holes only.
		{name: "20 doubles up on index 1", playingHandicap: 20, strokeIndex: 1, want: 2},
		{name: "20 doubles up on index 2", playingHandicap: 20, strokeIndex: 2, want: 2},
		{name: "20 single stroke on index 3", playingHandicap: 20, strokeIndex: 3, want: 1},
		{name: "20 single stroke on index 5", playingHandicap: 20, strokeIndex: 5, want: 1},
		{name: "20 single stroke on index 18", playingHandicap: 20, strokeIndex: 18, want: 1},

		// Handicap 36: exactly two strokes everywhere.
		{name: "36 doubles every hole, hardest", playingHandicap: 36, strokeIndex: 1, want: 2},
		{name: "36 doubles every hole, easiest", playingHandicap: 36, strokeIndex: 18, want: 2},

		// Above 36 a third lap starts.
		{name: "40 triples the 4 hardest", playingHandicap: 40, strokeIndex: 4, want: 3},
		{name: "40 doubles the rest", playingHandicap: 40, strokeIndex: 5, want: 2},

		// Zero and plus handicaps receive nothing on any hole.
		{name: "scratch receives nothing", playingHandicap: 0, strokeIndex: 1, want: 0},
		{name: "plus handicap receives nothing", playingHandicap: -3, strokeIndex: 1, want: 0},
		{name: "plus handicap receives nothing on easiest", playingHandicap: -3, strokeIndex: 18, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, StrokesReceived(tt.playingHandicap, tt.strokeIndex))
		})
	}
}

// No strokes are lost or invented: over a full 18 holes, a player receives
// exactly their playing handicap in total.
func TestStrokesReceivedConservation(t *testing.T) {
	for playingHandicap := 0; playingHandicap <= 36; playingHandicap++ {
		total := 0
		for strokeIndex := 1; strokeIndex <= 18; strokeIndex++ {
			total += StrokesReceived(playingHandicap, strokeIndex)
		}
		require.Equal(t, playingHandicap, total, "playing handicap %d", playingHandicap)
	}
}

// The wrap-around keeps conservation holding above 36 as well.
func TestStrokesReceivedConservationAboveTwoLaps(t *testing.T) {
	for _, playingHandicap := range []int{37, 40, 54} {
		total := 0
		for strokeIndex := 1; strokeIndex <= 18; strokeIndex++ {
			total += StrokesReceived(playingHandicap, strokeIndex)
		}
		require.Equal(t, playingHandicap, total, "playing handicap %d", playingHandicap)
	}
}
