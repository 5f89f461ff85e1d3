package handicap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlayingHandicap(t *testing.T) {
	tests := []struct {
		name      string
		index     float64
		slope     int
		rating    float64
		par       int
		allowance int
		want      int
	}{
		{
			// 15 × 125 ÷ 113 = 16.59; + (71.2 − 72) = 15.79; 100% → 16
			name:  "mid handicap full allowance",
			index: 15.0, slope: 125, rating: 71.2, par: 72, allowance: 100,
			want: 16,
		},
		{
			// Same inputs at 95%: 15.79 × 0.95 = 15.00 → 15
			name:  "mid handicap singles stroke play allowance",
			index: 15.0, slope: 125, rating: 71.2, par: 72, allowance: 95,
			want: 15,
		},
		{
			name:  "scratch player neutral course",
			index: 0.0, slope: 113, rating: 72.0, par: 72, allowance: 100,
			want: 0,
		},
		{
			// Plus handicap: result goes negative (strokes given, not received)
			name:  "plus handicap produces negative result",
			index: -4.0, slope: 113, rating: 72.0, par: 72, allowance: 100,
			want: -4,
		},
		{
			name:  "maximum index",
			index: 54.0, slope: 113, rating: 72.0, par: 72, allowance: 100,
			want: 54,
		},
		{
			// 50% foursomes allowance halves everything before rounding
			name:  "foursomes allowance",
			index: 20.0, slope: 113, rating: 72.0, par: 72, allowance: 50,
			want: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PlayingHandicap(tt.index, tt.slope, tt.rating, tt.par, tt.allowance)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestPlayingHandicapValidation(t *testing.T) {
	tests := []struct {
		name      string
		index     float64
		slope     int
		rating    float64
		par       int
		allowance int
		wantErr   error
	}{
		{name: "index below range", index: -10.1, slope: 113, rating: 72, par: 72, allowance: 100, wantErr: ErrHandicapIndexOutOfRange},
		{name: "index above range", index: 54.1, slope: 113, rating: 72, par: 72, allowance: 100, wantErr: ErrHandicapIndexOutOfRange},
		{name: "slope below range", index: 10, slope: 54, rating: 72, par: 72, allowance: 100, wantErr: ErrSlopeRatingOutOfRange},
		{name: "slope above range", index: 10, slope: 156, rating: 72, par: 72, allowance: 100, wantErr: ErrSlopeRatingOutOfRange},
		{name: "zero course rating", index: 10, slope: 113, rating: 0, par: 72, allowance: 100, wantErr: ErrInvalidCourseRating},
		{name: "negative course rating", index: 10, slope: 113, rating: -71.2, par: 72, allowance: 100, wantErr: ErrInvalidCourseRating},
		{name: "allowance below range", index: 10, slope: 113, rating: 72, par: 72, allowance: 45, wantErr: ErrInvalidAllowance},
		{name: "allowance above range", index: 10, slope: 113, rating: 72, par: 72, allowance: 105, wantErr: ErrInvalidAllowance},
		{name: "allowance off the 5 percent grid", index: 10, slope: 113, rating: 72, par: 72, allowance: 97, wantErr: ErrInvalidAllowance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PlayingHandicap(tt.index, tt.slope, tt.rating, tt.par, tt.allowance)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	// Boundary values are inside the domain, not outside it.
	t.Run("boundaries are valid", func(t *testing.T) {
		for _, index := range []float64{-10.0, 54.0} {
			_, err := PlayingHandicap(index, 113, 72, 72, 100)
			require.NoError(t, err)
		}
		for _, slope := range []int{55, 155} {
			_, err := PlayingHandicap(10, slope, 72, 72, 100)
			require.NoError(t, err)
		}
		for _, allowance := range []int{50, 100} {
			_, err := PlayingHandicap(10, 113, 72, 72, allowance)
			require.NoError(t, err)
		}
	})
}

// Half-up rounding: .5 always moves towards +∞, which matters on the
// negative side where math.Round would pull -0.5 down to -1.
func TestPlayingHandicapRoundsHalfUp(t *testing.T) {
	// Neutral slope and rating == par make the scaled value equal the index,
	// so the .5 cases can be driven directly.
	tests := []struct {
		index float64
		want  int
	}{
		{10.5, 11},
		{10.4, 10},
		{10.6, 11},
		{0.5, 1},
		{-0.5, 0},
		{-1.5, -1},
		{-2.4, -2},
		{-2.6, -3},
	}
	for _, tt := range tests {
		got, err := PlayingHandicap(tt.index, NeutralSlope, 72.0, 72, 100)
		require.NoError(t, err)
		require.Equal(t, tt.want, got, "index %.1f", tt.index)
	}
}

// The formula is non-decreasing in the handicap index with everything else
// fixed: a weaker player never receives fewer strokes.
func TestPlayingHandicapMonotonicInIndex(t *testing.T) {
	prev := -1 << 30
	for index := -10.0; index <= 54.0; index += 0.1 {
		got, err := PlayingHandicap(index, 131, 71.4, 72, 95)
		require.NoError(t, err)
		require.GreaterOrEqual(t, got, prev, "index %.1f", index)
		prev = got
	}
}
