package handicap

// allocator.go — distributes Playing Handicap strokes across the 18 holes.
//
// Every hole on a course carries a stroke index from 1 (hardest) to 18
// (easiest). A player with a Playing Handicap of N receives their strokes on
// the N hardest holes: handicap 16 means one stroke on each hole with stroke
// index 1..16 and nothing on 17 and 18. Above 18 the allocation wraps: a
// 20-handicapper gets one stroke everywhere plus a second stroke on the two
// hardest holes, and so on for each full lap of 18.

// StrokesReceived returns how many handicap strokes a player receives on the
// hole with the given stroke index (1..18), for the given Playing Handicap.
//
// A playing handicap of zero or below returns 0 for every hole. For plus
// handicaps this is a deliberate conservative reading: whether such a player
// should give strokes back on specific holes is not settled in our rules
// material, so no strokes move in either direction until it is.
func StrokesReceived(playingHandicap, strokeIndex int) int {
	if playingHandicap <= 0 {
		return 0
	}

	strokes := 0
	if playingHandicap >= strokeIndex {
		strokes++
	}

	// Wrap-around for handicaps above 18: every full extra lap of 18 adds a
	// stroke on every hole, and the remainder is dealt out hardest-first.
	if playingHandicap > 18 {
		over := playingHandicap - 18
		strokes += over / 18
		if over%18 >= strokeIndex {
			strokes++
		}
	}

	return strokes
}
