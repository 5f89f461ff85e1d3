package scorecard

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// fullCard builds a complete 18-hole card where every hole scores base.
func fullCard(base int) map[int]int {
	card := make(map[int]int, Holes)
	for hole := 1; hole <= Holes; hole++ {
		card[hole] = base
	}
	return card
}

func TestMismatchesAgreedCardIsClean(t *testing.T) {
	entered := fullCard(4)
	marked := fullCard(4)

	require.Empty(t, Mismatches(entered, marked))
	require.True(t, ReadyToSubmit(entered, marked))
}

func TestMismatchesDisagreementsListedAscending(t *testing.T) {
	entered := fullCard(4)
	marked := fullCard(4)
	marked[17] = 6
	marked[3] = 5
	marked[9] = 3

	require.Equal(t, []int{3, 9, 17}, Mismatches(entered, marked))
	require.False(t, ReadyToSubmit(entered, marked))
}

func TestMismatchesMissingEntriesCountAsMismatch(t *testing.T) {
	tests := []struct {
		name    string
		entered map[int]int
		marked  map[int]int
		want    []int
	}{
		{
			name:    "hole missing from entered card",
			entered: func() map[int]int { c := fullCard(5); delete(c, 7); return c }(),
			marked:  fullCard(5),
			want:    []int{7},
		},
		{
			name:    "hole missing from marker annotations",
			entered: fullCard(5),
			marked:  func() map[int]int { c := fullCard(5); delete(c, 12); return c }(),
			want:    []int{12},
		},
		{
			name:    "hole missing from both sides still a mismatch",
			entered: func() map[int]int { c := fullCard(5); delete(c, 1); return c }(),
			marked:  func() map[int]int { c := fullCard(5); delete(c, 1); return c }(),
			want:    []int{1},
		},
		{
			name:    "missing and disagreeing holes combined",
			entered: func() map[int]int { c := fullCard(5); delete(c, 2); c[15] = 4; return c }(),
			marked:  fullCard(5),
			want:    []int{2, 15},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Mismatches(tc.entered, tc.marked))
			require.False(t, ReadyToSubmit(tc.entered, tc.marked))
		})
	}
}

func TestMismatchesEmptyCardsFailEveryHole(t *testing.T) {
	got := Mismatches(map[int]int{}, map[int]int{})
	require.Len(t, got, Holes)
	for i, hole := range got {
		require.Equal(t, i+1, hole)
	}
	require.False(t, ReadyToSubmit(nil, nil))
}

func TestMismatchesKeysOutsideCardIgnored(t *testing.T) {
	entered := fullCard(4)
	marked := fullCard(4)
	entered[19] = 4
	marked[0] = 4
	marked[-3] = 2

	require.Empty(t, Mismatches(entered, marked))
	require.True(t, ReadyToSubmit(entered, marked))
}
