// scores.go — handlers for live scoring: per-hole gross entry, each player's
// own card, the marker's independent annotations, scorecard submission, and
// the match standing.
//
// Scoring data flows through three stages:
//  1. A side's counting gross score for a hole is entered; the engine turns
//     it into strokes received + net using the counting player's Playing
//     Handicap snapshot and the hole's stroke index. Separately, every player
//     records their OWN gross per hole on their own card — in fourball these
//     differ on any hole where the partner's ball counted.
//  2. The marker independently records each player's gross per hole. A player
//     may submit once all 18 holes of their own card agree with the marker
//     (internal/scorecard); the side's counting scores play no part in the
//     check, and the two players' checks are independent — neither blocks
//     the other.
//  3. The standing is recomputed over the completed prefix of holes after
//     every entry, stored, and pushed to websocket followers of the match.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/openfairway/team-cup/internal/handicap"
	"github.com/openfairway/team-cup/internal/matchplay"
	"github.com/openfairway/team-cup/internal/models"
	"github.com/openfairway/team-cup/internal/scorecard"
	"github.com/openfairway/team-cup/internal/websocket"
)

// EnterScoreRequest is the JSON body for POST /api/v1/matches/:id/holes.
// PlayerID names whose ball counted for the side on this hole — in singles
// that is simply the side's player; in fourball it is the partner whose score
// is taken; in foursomes it is the side's nominated player, whose snapshot
// carries the (50%-allowance) team handicap.
type EnterScoreRequest struct {
	HoleNumber int    `json:"hole_number" validate:"required,min=1,max=18"`
	Side       string `json:"side" validate:"required,oneof=team_a team_b"`
	PlayerID   string `json:"player_id" validate:"required,uuid4"`
	Gross      int    `json:"gross" validate:"required,min=1,max=20"`
}

// CardEntryRequest is the JSON body for POST /api/v1/matches/:id/cards —
// one hole of the authenticated player's own card. In foursomes the side
// plays one ball, so both partners record the shared gross here.
type CardEntryRequest struct {
	HoleNumber int `json:"hole_number" validate:"required,min=1,max=18"`
	Gross      int `json:"gross" validate:"required,min=1,max=20"`
}

// AnnotateScoreRequest is the JSON body for POST /api/v1/matches/:id/annotations —
// the marker's record of one player's gross on one hole.
type AnnotateScoreRequest struct {
	PlayerID   string `json:"player_id" validate:"required,uuid4"`
	HoleNumber int    `json:"hole_number" validate:"required,min=1,max=18"`
	Gross      int    `json:"gross" validate:"required,min=1,max=20"`
}

// HoleScoreResponse mirrors one per-side hole record.
type HoleScoreResponse struct {
	HoleNumber      int    `json:"hole_number"`
	Side            string `json:"side"`
	Gross           int    `json:"gross"`
	StrokesReceived int    `json:"strokes_received"`
	Net             int    `json:"net"`
	Verified        bool   `json:"verified"`
}

// StandingResponse mirrors a stored match standing.
type StandingResponse struct {
	MatchID     string `json:"match_id"`
	HolesPlayed int    `json:"holes_played"`
	TeamAWon    int    `json:"team_a_won"`
	TeamBWon    int    `json:"team_b_won"`
	Halved      int    `json:"holes_halved"`
	Status      string `json:"status"`
}

// EnterHoleScore returns a handler for POST /api/v1/matches/:id/holes.
// Any player in the match may enter scores while the round is in_progress.
// The strokes received and net score are derived here — clients only ever
// send gross strokes, never net.
func EnterHoleScore(db *gorm.DB, hub *websocket.Hub, log *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := currentUser(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid user ID"})
		}
		matchID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid match ID"})
		}

		var req EnterScoreRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		if err := validate.Struct(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		match, round, _, status := loadMatchContext(db, matchID)
		if status != matchCtxOK {
			return respondMatchContextError(c, status)
		}
		if !round.Status.AllowsScoring() {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": fmt.Sprintf("scores cannot be entered while the round is %s", round.Status),
			})
		}

		// Only participants of this match may enter its scores.
		var enterer models.MatchPlayer
		if err := db.Where("match_id = ? AND user_id = ?", matchID, userID).First(&enterer).Error; err != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "only match players can enter scores"})
		}

		// The counting player supplies the Playing Handicap snapshot and the
		// tee whose stroke indexes decide where strokes land.
		countingID, _ := uuid.Parse(req.PlayerID)
		var counting models.MatchPlayer
		if err := db.Where("match_id = ? AND user_id = ? AND side = ?", matchID, countingID, models.TeamSide(req.Side)).First(&counting).Error; err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "player is not on that side of this match"})
		}
		if counting.PlayingHandicap == nil || counting.TeeID == nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "player has no tee assigned yet"})
		}

		var hole models.Hole
		if err := db.Where("tee_id = ? AND hole_number = ?", *counting.TeeID, req.HoleNumber).First(&hole).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "hole not found for the assigned tee"})
		}

		strokes := handicap.StrokesReceived(*counting.PlayingHandicap, hole.StrokeIndex)
		net := matchplay.NetScore(req.Gross, strokes)

		txErr := db.Transaction(func(tx *gorm.DB) error {
			var existing models.HoleScore
			err := tx.Where("match_id = ? AND hole_number = ? AND side = ?", matchID, req.HoleNumber, models.TeamSide(req.Side)).First(&existing).Error
			switch {
			case err == nil:
				if existing.Verified {
					return fmt.Errorf("hole %d is verified and can no longer change", req.HoleNumber)
				}
				return tx.Model(&existing).Updates(map[string]interface{}{
					"gross":            req.Gross,
					"strokes_received": strokes,
					"net":              net,
					"entered_by":       userID,
				}).Error
			case errors.Is(err, gorm.ErrRecordNotFound):
				return tx.Create(&models.HoleScore{
					MatchID:         matchID,
					HoleNumber:      req.HoleNumber,
					Side:            models.TeamSide(req.Side),
					Gross:           req.Gross,
					StrokesReceived: strokes,
					Net:             net,
					EnteredBy:       userID,
				}).Error
			default:
				return err
			}
		})
		if txErr != nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": txErr.Error()})
		}

		// First score flips the match to in_progress.
		if match.Status == models.MatchStatusScheduled {
			db.Model(match).Update("status", models.MatchStatusInProgress)
		}

		// Recompute and push the standing over whatever prefix of holes is
		// now complete. A hole with only one side entered simply isn't part
		// of the prefix yet; that is not an error here.
		if standing, ok := recalcStanding(db, hub, matchID, log); ok {
			log.WithFields(logrus.Fields{
				"match_id": matchID,
				"status":   standing.Status,
			}).Debug("standing updated")
		}

		return c.Status(fiber.StatusCreated).JSON(HoleScoreResponse{
			HoleNumber:      req.HoleNumber,
			Side:            req.Side,
			Gross:           req.Gross,
			StrokesReceived: strokes,
			Net:             net,
		})
	}
}

// EnterCardScore returns a handler for POST /api/v1/matches/:id/cards.
// The authenticated player records their own gross for one hole. These rows
// are the "entered" half of the dual scorecard check; they stay editable
// until the player submits.
func EnterCardScore(db *gorm.DB, log *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := currentUser(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid user ID"})
		}
		matchID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid match ID"})
		}

		var req CardEntryRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		if err := validate.Struct(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		_, round, _, status := loadMatchContext(db, matchID)
		if status != matchCtxOK {
			return respondMatchContextError(c, status)
		}
		if !round.Status.AllowsScoring() {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": fmt.Sprintf("card entries cannot be recorded while the round is %s", round.Status),
			})
		}

		var mp models.MatchPlayer
		if err := db.Where("match_id = ? AND user_id = ?", matchID, userID).First(&mp).Error; err != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "only match players can record a card"})
		}
		if mp.CardSubmitted {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "card already submitted"})
		}

		txErr := db.Transaction(func(tx *gorm.DB) error {
			var existing models.PlayerHoleEntry
			err := tx.Where("match_id = ? AND player_id = ? AND hole_number = ?", matchID, userID, req.HoleNumber).First(&existing).Error
			switch {
			case err == nil:
				return tx.Model(&existing).Update("gross", req.Gross).Error
			case errors.Is(err, gorm.ErrRecordNotFound):
				return tx.Create(&models.PlayerHoleEntry{
					MatchID:    matchID,
					PlayerID:   userID,
					HoleNumber: req.HoleNumber,
					Gross:      req.Gross,
				}).Error
			default:
				return err
			}
		})
		if txErr != nil {
			log.WithError(txErr).Error("failed to record card entry")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to record card entry"})
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// AnnotateScore returns a handler for POST /api/v1/matches/:id/annotations.
// The marker (any match participant other than the player being scored)
// records the player's gross for a hole. Annotations stay editable until the
// player submits — after that the card is settled and edits are refused.
func AnnotateScore(db *gorm.DB, log *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := currentUser(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid user ID"})
		}
		matchID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid match ID"})
		}

		var req AnnotateScoreRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		if err := validate.Struct(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		_, round, _, status := loadMatchContext(db, matchID)
		if status != matchCtxOK {
			return respondMatchContextError(c, status)
		}
		if !round.Status.AllowsScoring() {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": fmt.Sprintf("annotations cannot be recorded while the round is %s", round.Status),
			})
		}

		playerID, _ := uuid.Parse(req.PlayerID)
		if playerID == userID {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "players cannot mark their own card"})
		}

		// Both the marker and the player must be in the match.
		var marker, subject models.MatchPlayer
		if err := db.Where("match_id = ? AND user_id = ?", matchID, userID).First(&marker).Error; err != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "only match players can mark cards"})
		}
		if err := db.Where("match_id = ? AND user_id = ?", matchID, playerID).First(&subject).Error; err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "player is not in this match"})
		}
		if subject.CardSubmitted {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "card already submitted; annotations are settled"})
		}

		txErr := db.Transaction(func(tx *gorm.DB) error {
			var existing models.MarkerAnnotation
			err := tx.Where("match_id = ? AND player_id = ? AND hole_number = ?", matchID, playerID, req.HoleNumber).First(&existing).Error
			switch {
			case err == nil:
				return tx.Model(&existing).Updates(map[string]interface{}{
					"gross":     req.Gross,
					"marker_id": userID,
				}).Error
			case errors.Is(err, gorm.ErrRecordNotFound):
				return tx.Create(&models.MarkerAnnotation{
					MatchID:    matchID,
					PlayerID:   playerID,
					HoleNumber: req.HoleNumber,
					Gross:      req.Gross,
					MarkerID:   userID,
				}).Error
			default:
				return err
			}
		})
		if txErr != nil {
			log.WithError(txErr).Error("failed to record annotation")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to record annotation"})
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// SubmitCard returns a handler for POST /api/v1/matches/:id/submit.
// The authenticated player submits their own card. Submission succeeds only
// when all 18 holes of their own entries (PlayerHoleEntry, not the side's
// counting scores) agree with the marker's annotations — internal/scorecard
// does the comparison. The opposing player's submission
// state plays no part in this check; once BOTH players of a singles match
// (or all four in a team match) have submitted, the hole records are frozen
// and the match is completed with its final standing.
func SubmitCard(db *gorm.DB, hub *websocket.Hub, log *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := currentUser(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid user ID"})
		}
		matchID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid match ID"})
		}

		match, round, _, status := loadMatchContext(db, matchID)
		if status != matchCtxOK {
			return respondMatchContextError(c, status)
		}
		if !round.Status.AllowsScoring() {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": fmt.Sprintf("cards cannot be submitted while the round is %s", round.Status),
			})
		}

		var mp models.MatchPlayer
		if err := db.Where("match_id = ? AND user_id = ?", matchID, userID).First(&mp).Error; err != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "only match players can submit a card"})
		}
		if mp.CardSubmitted {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "card already submitted"})
		}

		// The player's OWN card, not the side's counting scores — in fourball
		// those diverge on every hole where the partner's ball counted, so
		// comparing the side's scores here would deadlock submission.
		var entries []models.PlayerHoleEntry
		db.Where("match_id = ? AND player_id = ?", matchID, userID).Find(&entries)

		// The marker's record of the same player.
		var annotations []models.MarkerAnnotation
		db.Where("match_id = ? AND player_id = ?", matchID, userID).Find(&annotations)

		if mismatches := scorecard.Mismatches(playerCard(entries), markerCard(annotations)); len(mismatches) > 0 {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error":            "card does not match the marker's annotations",
				"mismatched_holes": mismatches,
			})
		}

		txErr := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&mp).Update("card_submitted", true).Error; err != nil {
				return err
			}

			// When every player of the match has submitted, the hole records
			// freeze and the match is complete.
			var outstanding int64
			if err := tx.Model(&models.MatchPlayer{}).
				Where("match_id = ? AND card_submitted = false", matchID).
				Count(&outstanding).Error; err != nil {
				return err
			}
			if outstanding == 0 {
				if err := tx.Model(&models.HoleScore{}).
					Where("match_id = ?", matchID).
					Update("verified", true).Error; err != nil {
					return err
				}
				if err := tx.Model(match).Update("status", models.MatchStatusCompleted).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if txErr != nil {
			log.WithError(txErr).Error("failed to submit card")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to submit card"})
		}

		recalcStanding(db, hub, matchID, log)

		log.WithFields(logrus.Fields{
			"match_id": matchID,
			"user_id":  userID,
		}).Info("scorecard submitted")

		return c.JSON(fiber.Map{"submitted": true})
	}
}

// GetStanding returns a handler for GET /api/v1/matches/:id/standing.
// Responds with the stored standing, recomputing it first so the caller
// always sees the current state of the completed holes.
func GetStanding(db *gorm.DB, hub *websocket.Hub, log *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		matchID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid match ID"})
		}
		if _, _, _, status := loadMatchContext(db, matchID); status != matchCtxOK {
			return respondMatchContextError(c, status)
		}

		standing, ok := recalcStanding(db, hub, matchID, log)
		if !ok {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "no completed holes to calculate a standing from"})
		}

		return c.JSON(StandingResponse{
			MatchID:     matchID.String(),
			HolesPlayed: standing.HolesPlayed,
			TeamAWon:    standing.TeamAWon,
			TeamBWon:    standing.TeamBWon,
			Halved:      standing.Halved,
			Status:      standing.Status,
		})
	}
}

// playerCard converts a player's own hole entries into the map form the
// scorecard comparison consumes.
func playerCard(entries []models.PlayerHoleEntry) map[int]int {
	card := make(map[int]int, len(entries))
	for _, e := range entries {
		card[e.HoleNumber] = e.Gross
	}
	return card
}

// markerCard converts the marker's annotations for one player into the map
// form the scorecard comparison consumes.
func markerCard(annotations []models.MarkerAnnotation) map[int]int {
	card := make(map[int]int, len(annotations))
	for _, a := range annotations {
		card[a.HoleNumber] = a.Gross
	}
	return card
}

// recalcStanding assembles the completed prefix of holes (both sides entered,
// holes 1..n with no gap), runs the match-play calculator over it, stores the
// result, and broadcasts it to followers. ok is false when no complete
// prefix exists yet.
//
// The prefix rule is what keeps the engine's all-or-nothing contract intact:
// the calculator is never handed a hole with half its data, so it never has
// to guess.
func recalcStanding(db *gorm.DB, hub *websocket.Hub, matchID uuid.UUID, log *logrus.Logger) (*matchplay.Standing, bool) {
	var scores []models.HoleScore
	if err := db.Where("match_id = ?", matchID).Order("hole_number").Find(&scores).Error; err != nil {
		log.WithError(err).Error("failed to load hole scores")
		return nil, false
	}

	bySide := map[int]map[models.TeamSide]models.HoleScore{}
	for _, s := range scores {
		if bySide[s.HoleNumber] == nil {
			bySide[s.HoleNumber] = map[models.TeamSide]models.HoleScore{}
		}
		bySide[s.HoleNumber][s.Side] = s
	}

	var holes []matchplay.HoleScore
	for n := 1; n <= matchplay.MatchHoles; n++ {
		pair, ok := bySide[n]
		if !ok {
			break
		}
		a, okA := pair[models.TeamSideA]
		b, okB := pair[models.TeamSideB]
		if !okA || !okB {
			break
		}
		holes = append(holes, matchplay.HoleScore{
			Hole:     n,
			GrossA:   a.Gross,
			GrossB:   b.Gross,
			StrokesA: a.StrokesReceived,
			StrokesB: b.StrokesReceived,
		})
	}
	if len(holes) == 0 {
		return nil, false
	}

	standing, err := matchplay.CalculateStanding(holes)
	if err != nil {
		// The prefix construction above should make this unreachable; log it
		// rather than surface a broken standing.
		log.WithError(err).Error("standing calculation rejected assembled holes")
		return nil, false
	}

	// Upsert the stored standing for the match.
	var stored models.MatchStanding
	err = db.Where("match_id = ?", matchID).First(&stored).Error
	switch {
	case err == nil:
		db.Model(&stored).Updates(map[string]interface{}{
			"holes_played": standing.HolesPlayed,
			"team_a_won":   standing.TeamAWon,
			"team_b_won":   standing.TeamBWon,
			"halved":       standing.Halved,
			"status":       standing.Status,
		})
	case errors.Is(err, gorm.ErrRecordNotFound):
		db.Create(&models.MatchStanding{
			MatchID:     matchID,
			HolesPlayed: standing.HolesPlayed,
			TeamAWon:    standing.TeamAWon,
			TeamBWon:    standing.TeamBWon,
			Halved:      standing.Halved,
			Status:      standing.Status,
		})
	default:
		log.WithError(err).Error("failed to load stored standing")
		return nil, false
	}

	if payload, err := json.Marshal(StandingResponse{
		MatchID:     matchID.String(),
		HolesPlayed: standing.HolesPlayed,
		TeamAWon:    standing.TeamAWon,
		TeamBWon:    standing.TeamBWon,
		Halved:      standing.Halved,
		Status:      standing.Status,
	}); err == nil {
		hub.BroadcastToMatch(matchID.String(), payload)
	}

	return &standing, true
}
