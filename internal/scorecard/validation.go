// Package scorecard implements the dual scorecard check used before a player
// may submit their card: the player's own entered gross scores are compared,
// hole by hole, against the scores the marker recorded for them.
//
// The two players in a match each run this comparison over their OWN card and
// their OWN marker annotations. The checks are completely independent — one
// side submitting (or failing to) never blocks the other, so there is no
// shared state and no locking anywhere in this package. Both functions are
// pure comparisons over the two maps they are handed.
package scorecard

// Holes is the number of holes a complete card covers.
const Holes = 18

// Mismatches returns the hole numbers (ascending) where the player's entered
// gross score and the marker's annotation disagree. A hole missing from
// either map counts as a mismatch: until both numbers exist and agree, the
// hole is not verified. Keys outside 1..18 are ignored.
func Mismatches(entered, marked map[int]int) []int {
	var holes []int
	for hole := 1; hole <= Holes; hole++ {
		e, haveEntry := entered[hole]
		m, haveMark := marked[hole]
		if !haveEntry || !haveMark || e != m {
			holes = append(holes, hole)
		}
	}
	return holes
}

// ReadyToSubmit reports whether the player may submit their card: every one
// of the 18 holes has both an entered score and a marker annotation, and the
// two agree on all of them.
func ReadyToSubmit(entered, marked map[int]int) bool {
	return len(Mismatches(entered, marked)) == 0
}
