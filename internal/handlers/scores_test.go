package handlers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/openfairway/team-cup/internal/models"
	"github.com/openfairway/team-cup/internal/scorecard"
)

// cardFixture builds a full 18-hole card for one player: their own entries,
// the marker's matching annotations, and the side's counting scores. On the
// holes listed in partnersBall the partner's (better) ball counted for the
// side, so the side's gross is lower than what this player wrote on their
// own card — the normal fourball situation.
func cardFixture(partnersBall map[int]bool) (entries []models.PlayerHoleEntry, annotations []models.MarkerAnnotation, sideScores []models.HoleScore) {
	matchID := uuid.New()
	playerID := uuid.New()
	markerID := uuid.New()

	for hole := 1; hole <= scorecard.Holes; hole++ {
		ownGross := 5
		sideGross := ownGross
		if partnersBall[hole] {
			sideGross = 4
		}
		entries = append(entries, models.PlayerHoleEntry{
			MatchID:    matchID,
			PlayerID:   playerID,
			HoleNumber: hole,
			Gross:      ownGross,
		})
		annotations = append(annotations, models.MarkerAnnotation{
			MatchID:    matchID,
			PlayerID:   playerID,
			HoleNumber: hole,
			Gross:      ownGross,
			MarkerID:   markerID,
		})
		sideScores = append(sideScores, models.HoleScore{
			MatchID:    matchID,
			HoleNumber: hole,
			Side:       models.TeamSideA,
			Gross:      sideGross,
		})
	}
	return entries, annotations, sideScores
}

func TestSubmissionComparesPlayersOwnCard(t *testing.T) {
	// Partner's ball counted on a third of the holes, so the side's scores
	// disagree with this player's card there.
	partnersBall := map[int]bool{2: true, 5: true, 8: true, 11: true, 14: true, 17: true}
	entries, annotations, sideScores := cardFixture(partnersBall)

	// The player's own card agrees with the marker on every hole, so the
	// submission gate clears even though the side's counting scores differ.
	require.Empty(t, scorecard.Mismatches(playerCard(entries), markerCard(annotations)))
	require.True(t, scorecard.ReadyToSubmit(playerCard(entries), markerCard(annotations)))

	// Comparing the side's counting scores instead would block submission on
	// exactly the partner's-ball holes.
	sideCard := map[int]int{}
	for _, hs := range sideScores {
		sideCard[hs.HoleNumber] = hs.Gross
	}
	require.Equal(t, []int{2, 5, 8, 11, 14, 17}, scorecard.Mismatches(sideCard, markerCard(annotations)))
}

func TestSubmissionBlockedOnMarkerDisagreement(t *testing.T) {
	entries, annotations, _ := cardFixture(nil)

	// The marker recorded a different gross on hole 7.
	for i := range annotations {
		if annotations[i].HoleNumber == 7 {
			annotations[i].Gross++
		}
	}

	require.Equal(t, []int{7}, scorecard.Mismatches(playerCard(entries), markerCard(annotations)))
	require.False(t, scorecard.ReadyToSubmit(playerCard(entries), markerCard(annotations)))
}

func TestSubmissionRequiresFullCard(t *testing.T) {
	entries, annotations, _ := cardFixture(nil)

	// Hole 12 never made it onto the player's card.
	var partial []models.PlayerHoleEntry
	for _, e := range entries {
		if e.HoleNumber != 12 {
			partial = append(partial, e)
		}
	}

	require.Equal(t, []int{12}, scorecard.Mismatches(playerCard(partial), markerCard(annotations)))
	require.False(t, scorecard.ReadyToSubmit(playerCard(partial), markerCard(annotations)))
}
