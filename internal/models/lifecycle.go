package models

// lifecycle.go — transition rules for the Round and Match state machines.
//
// Both machines are strictly forward-only and advance one step at a time:
//
//	Round: pending_teams → pending_matches → scheduled → in_progress → completed
//	Match: scheduled → in_progress → completed
//
// There is deliberately no backward or cancellation transition — none is
// defined in the competition rules, and inventing one here would let a
// completed round reopen and its snapshots and scores drift. If cancellation
// ever becomes a requirement it needs its own rules, not a reverse edge.
//
// Tee assignment (which is also the moment Playing Handicap snapshots are
// computed) is only legal while a round is in pending_matches or scheduled;
// score entry is only legal while it is in_progress.

// roundOrder fixes the position of each round status in the forward chain.
var roundOrder = map[RoundStatus]int{
	RoundStatusPendingTeams:   0,
	RoundStatusPendingMatches: 1,
	RoundStatusScheduled:      2,
	RoundStatusInProgress:     3,
	RoundStatusCompleted:      4,
}

// Next returns the status that follows s in the round lifecycle.
// ok is false when s is terminal (completed) or unknown.
func (s RoundStatus) Next() (RoundStatus, bool) {
	switch s {
	case RoundStatusPendingTeams:
		return RoundStatusPendingMatches, true
	case RoundStatusPendingMatches:
		return RoundStatusScheduled, true
	case RoundStatusScheduled:
		return RoundStatusInProgress, true
	case RoundStatusInProgress:
		return RoundStatusCompleted, true
	default:
		return "", false
	}
}

// CanAdvanceTo reports whether moving from s to next is a legal transition —
// exactly one step forward, never backward, never skipping.
func (s RoundStatus) CanAdvanceTo(next RoundStatus) bool {
	from, okFrom := roundOrder[s]
	to, okTo := roundOrder[next]
	return okFrom && okTo && to == from+1
}

// AllowsTeeAssignment reports whether tees (and therefore Playing Handicap
// snapshots) may be assigned while the round is in this state. The window is
// pending_matches through scheduled: sides are settled but play has not begun.
func (s RoundStatus) AllowsTeeAssignment() bool {
	return s == RoundStatusPendingMatches || s == RoundStatusScheduled
}

// AllowsScoring reports whether gross scores may be entered in this state.
func (s RoundStatus) AllowsScoring() bool {
	return s == RoundStatusInProgress
}

// Terminal reports whether the round can never change state again.
func (s RoundStatus) Terminal() bool {
	return s == RoundStatusCompleted
}

// Next returns the status that follows s in the match lifecycle.
// ok is false when s is terminal (completed) or unknown.
func (s MatchStatus) Next() (MatchStatus, bool) {
	switch s {
	case MatchStatusScheduled:
		return MatchStatusInProgress, true
	case MatchStatusInProgress:
		return MatchStatusCompleted, true
	default:
		return "", false
	}
}

// CanAdvanceTo reports whether moving from s to next is a legal match
// transition — one step forward only, same rule as rounds.
func (s MatchStatus) CanAdvanceTo(next MatchStatus) bool {
	n, ok := s.Next()
	return ok && n == next
}
