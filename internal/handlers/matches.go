// matches.go — handlers for matches: forming pairings within a round,
// assigning tees, and the Playing Handicap snapshot that assignment creates.
//
// The snapshot rule, end to end:
//   - While a round is in pending_matches or scheduled, an organizer assigns
//     each match player a tee. At that moment — and only then — the player's
//     Playing Handicap is computed from their current handicap index, the
//     tee's slope/rating/par, and the round's resolved allowance, and written
//     next to the tee in the same database transaction. If the commit fails,
//     no snapshot exists and the assignment never happened.
//   - Once a snapshot exists, a second assignment through the same endpoint
//     is refused. Index changes after assignment do not touch the snapshot.
//   - The reassignment endpoint is the single deliberate exception: it
//     replaces tee and snapshot together, again atomically.
package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/openfairway/team-cup/internal/handicap"
	"github.com/openfairway/team-cup/internal/models"
)

// playersPerSide is how many players each side fields in a given format.
var playersPerSide = map[handicap.Format]int{
	handicap.FormatSingles:   1,
	handicap.FormatFourball:  2,
	handicap.FormatFoursomes: 2,
}

// CreateMatchRequest is the JSON body for POST /api/v1/rounds/:id/matches.
type CreateMatchRequest struct {
	Players []MatchPlayerSpec `json:"players" validate:"required,min=2,max=4,dive"`
}

// MatchPlayerSpec names one participant and their side.
type MatchPlayerSpec struct {
	UserID string `json:"user_id" validate:"required,uuid4"`
	Side   string `json:"side" validate:"required,oneof=team_a team_b"`
}

// AssignTeesRequest is the JSON body for POST /api/v1/matches/:id/tees.
// Each entry pins one player of the match to one tee set.
type AssignTeesRequest struct {
	Assignments []TeeAssignment `json:"assignments" validate:"required,min=1,max=4,dive"`
}

// TeeAssignment pairs a match player with the tee they will play from.
type TeeAssignment struct {
	UserID string `json:"user_id" validate:"required,uuid4"`
	TeeID  string `json:"tee_id" validate:"required,uuid4"`
}

// ReassignTeeRequest is the JSON body for PUT /api/v1/matches/:id/players/:userID/tee.
type ReassignTeeRequest struct {
	TeeID string `json:"tee_id" validate:"required,uuid4"`
}

// MatchPlayerResponse mirrors one match player, snapshot included.
type MatchPlayerResponse struct {
	UserID          string   `json:"user_id"`
	PlayerName      string   `json:"player_name"`
	Side            string   `json:"side"`
	TeeID           *string  `json:"tee_id"`
	PlayingHandicap *int     `json:"playing_handicap"`
	IndexAtAssign   *float64 `json:"index_at_assignment"`
	CardSubmitted   bool     `json:"card_submitted"`
}

// MatchResponse mirrors one match with its players.
type MatchResponse struct {
	ID      string                `json:"id"`
	RoundID string                `json:"round_id"`
	Status  string                `json:"status"`
	Players []MatchPlayerResponse `json:"players"`
}

func matchResponse(match *models.Match) MatchResponse {
	resp := MatchResponse{
		ID:      match.ID.String(),
		RoundID: match.RoundID.String(),
		Status:  string(match.Status),
		Players: make([]MatchPlayerResponse, 0, len(match.Players)),
	}
	for _, p := range match.Players {
		var teeID *string
		if p.TeeID != nil {
			s := p.TeeID.String()
			teeID = &s
		}
		resp.Players = append(resp.Players, MatchPlayerResponse{
			UserID:          p.UserID.String(),
			PlayerName:      p.User.DisplayName,
			Side:            string(p.Side),
			TeeID:           teeID,
			PlayingHandicap: p.PlayingHandicap,
			IndexAtAssign:   p.IndexAtAssignment,
			CardSubmitted:   p.CardSubmitted,
		})
	}
	return resp
}

// CreateMatch returns a handler for POST /api/v1/rounds/:id/matches.
// Organizer-only. The round must be in pending_matches, every named player
// must hold an approved enrollment on the side they are listed for, and the
// side sizes must fit the round's format (1v1 singles, 2v2 otherwise).
func CreateMatch(db *gorm.DB, log *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, userRole, err := currentUser(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid user ID"})
		}
		roundID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid round ID"})
		}

		var req CreateMatchRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		if err := validate.Struct(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		var round models.Round
		if err := db.First(&round, "id = ?", roundID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "round not found"})
		}
		if !isCompetitionOrganizer(db, round.CompetitionID, userID, userRole) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "not authorized to manage this competition"})
		}
		if round.Status != models.RoundStatusPendingMatches {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": fmt.Sprintf("matches can only be formed while the round is pending_matches (currently %s)", round.Status),
			})
		}

		// Side sizes must fit the format exactly.
		perSide := playersPerSide[round.Format]
		counts := map[models.TeamSide]int{}
		for _, spec := range req.Players {
			counts[models.TeamSide(spec.Side)]++
		}
		if counts[models.TeamSideA] != perSide || counts[models.TeamSideB] != perSide {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("%s requires exactly %d player(s) per side", round.Format, perSide),
			})
		}

		var created models.Match
		txErr := db.Transaction(func(tx *gorm.DB) error {
			match := models.Match{RoundID: roundID, Status: models.MatchStatusScheduled}
			if err := tx.Create(&match).Error; err != nil {
				return err
			}

			for _, spec := range req.Players {
				playerID, _ := uuid.Parse(spec.UserID)

				// The player must be approved into the competition on the
				// side the pairing puts them on.
				var enrollment models.Enrollment
				err := tx.Where("competition_id = ? AND user_id = ? AND status = ? AND side = ?",
					round.CompetitionID, playerID, models.EnrollmentStatusApproved, models.TeamSide(spec.Side)).
					First(&enrollment).Error
				if err != nil {
					return fmt.Errorf("user %s is not an approved %s player in this competition", spec.UserID, spec.Side)
				}

				mp := models.MatchPlayer{
					MatchID: match.ID,
					UserID:  playerID,
					Side:    models.TeamSide(spec.Side),
				}
				if err := tx.Create(&mp).Error; err != nil {
					return err
				}
			}

			created = match
			return nil
		})
		if txErr != nil {
			log.WithError(txErr).Warn("failed to create match")
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": txErr.Error()})
		}

		db.Preload("Players.User").First(&created, "id = ?", created.ID)
		return c.Status(fiber.StatusCreated).JSON(matchResponse(&created))
	}
}

// AssignTees returns a handler for POST /api/v1/matches/:id/tees.
// Organizer-only, and only while the round allows tee assignment
// (pending_matches or scheduled). For every listed player this computes and
// stores their Playing Handicap snapshot alongside the tee, all inside one
// transaction — either every assignment and snapshot commits or none do.
//
// Players who already have a snapshot are refused here; that is what keeps
// the snapshot a once-only fact. ReassignTee below is the explicit way to
// redo one.
func AssignTees(db *gorm.DB, log *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, userRole, err := currentUser(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid user ID"})
		}
		matchID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid match ID"})
		}

		var req AssignTeesRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		if err := validate.Struct(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		match, round, comp, status := loadMatchContext(db, matchID)
		if status != matchCtxOK {
			return respondMatchContextError(c, status)
		}
		if !isCompetitionOrganizer(db, round.CompetitionID, userID, userRole) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "not authorized to manage this competition"})
		}
		if !round.Status.AllowsTeeAssignment() {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": fmt.Sprintf("tees cannot be assigned while the round is %s", round.Status),
			})
		}

		settings, err := handicap.Resolve(overridesForRound(round), comp.PlayMode)
		if err != nil {
			// Stored rounds are validated at creation; reaching this means
			// the row was tampered with outside the API.
			log.WithError(err).Error("stored round failed handicap resolution")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to resolve handicap settings"})
		}

		txErr := db.Transaction(func(tx *gorm.DB) error {
			for _, a := range req.Assignments {
				playerID, _ := uuid.Parse(a.UserID)
				teeID, _ := uuid.Parse(a.TeeID)
				if err := snapshotPlayingHandicap(tx, match, round, playerID, teeID, settings, false); err != nil {
					return err
				}
			}
			return nil
		})
		if txErr != nil {
			if errors.Is(txErr, errSnapshotExists) {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": txErr.Error()})
			}
			if isHandicapDomainError(txErr) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": txErr.Error()})
			}
			log.WithError(txErr).Warn("tee assignment failed")
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": txErr.Error()})
		}

		db.Preload("Players.User").First(match, "id = ?", match.ID)
		return c.JSON(matchResponse(match))
	}
}

// ReassignTee returns a handler for PUT /api/v1/matches/:id/players/:userID/tee.
// Organizer-only, same round-state window as assignment. This is the one
// sanctioned way to replace an existing Playing Handicap snapshot: the old
// tee and snapshot are discarded and a fresh pair is computed and stored
// atomically, from the handicap index current at reassignment time.
func ReassignTee(db *gorm.DB, log *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, userRole, err := currentUser(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid user ID"})
		}
		matchID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid match ID"})
		}
		playerID, err := uuid.Parse(c.Params("userID"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid player ID"})
		}

		var req ReassignTeeRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		if err := validate.Struct(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		match, round, comp, status := loadMatchContext(db, matchID)
		if status != matchCtxOK {
			return respondMatchContextError(c, status)
		}
		if !isCompetitionOrganizer(db, round.CompetitionID, userID, userRole) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "not authorized to manage this competition"})
		}
		if !round.Status.AllowsTeeAssignment() {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": fmt.Sprintf("tees cannot be reassigned while the round is %s", round.Status),
			})
		}

		settings, err := handicap.Resolve(overridesForRound(round), comp.PlayMode)
		if err != nil {
			log.WithError(err).Error("stored round failed handicap resolution")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to resolve handicap settings"})
		}

		teeID, _ := uuid.Parse(req.TeeID)
		txErr := db.Transaction(func(tx *gorm.DB) error {
			return snapshotPlayingHandicap(tx, match, round, playerID, teeID, settings, true)
		})
		if txErr != nil {
			if isHandicapDomainError(txErr) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": txErr.Error()})
			}
			log.WithError(txErr).Warn("tee reassignment failed")
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": txErr.Error()})
		}

		log.WithFields(logrus.Fields{
			"match_id": matchID,
			"user_id":  playerID,
			"tee_id":   teeID,
		}).Info("tee reassigned, playing handicap recomputed")

		db.Preload("Players.User").First(match, "id = ?", match.ID)
		return c.JSON(matchResponse(match))
	}
}

// errSnapshotExists guards the once-only snapshot rule in AssignTees.
var errSnapshotExists = errors.New("playing handicap already assigned; use the reassignment endpoint to replace it")

// snapshotPlayingHandicap computes one player's Playing Handicap for the
// given tee and writes tee + snapshot + the index it was computed from in a
// single UPDATE. With replace false an existing snapshot is an error (the
// plain-assignment path); with replace true it is overwritten (the explicit
// reassignment path).
func snapshotPlayingHandicap(tx *gorm.DB, match *models.Match, round *models.Round, playerID, teeID uuid.UUID, settings handicap.Settings, replace bool) error {
	var mp models.MatchPlayer
	if err := tx.Where("match_id = ? AND user_id = ?", match.ID, playerID).First(&mp).Error; err != nil {
		return fmt.Errorf("user %s is not in this match", playerID)
	}
	if mp.PlayingHandicap != nil && !replace {
		return fmt.Errorf("%w (user %s)", errSnapshotExists, playerID)
	}

	var tee models.Tee
	if err := tx.First(&tee, "id = ?", teeID).Error; err != nil {
		return fmt.Errorf("tee %s not found", teeID)
	}
	if tee.CourseID != round.CourseID {
		return fmt.Errorf("tee %s does not belong to the round's course", teeID)
	}

	var enrollment models.Enrollment
	if err := tx.Where("competition_id = ? AND user_id = ?", round.CompetitionID, playerID).First(&enrollment).Error; err != nil {
		return fmt.Errorf("no enrollment found for user %s", playerID)
	}
	if enrollment.HandicapIndex == nil {
		return fmt.Errorf("user %s has no handicap index on file", playerID)
	}
	index := *enrollment.HandicapIndex

	playingHandicap, err := handicap.PlayingHandicap(index, tee.SlopeRating, tee.CourseRating, tee.Par, int(settings.Allowance))
	if err != nil {
		return err
	}

	return tx.Model(&mp).Updates(map[string]interface{}{
		"tee_id":              teeID,
		"playing_handicap":    playingHandicap,
		"index_at_assignment": index,
	}).Error
}

// isHandicapDomainError reports whether err is one of the engine's
// input-validation errors — the caller supplied out-of-domain data, so the
// right response is a 400, not a 500.
func isHandicapDomainError(err error) bool {
	return errors.Is(err, handicap.ErrHandicapIndexOutOfRange) ||
		errors.Is(err, handicap.ErrSlopeRatingOutOfRange) ||
		errors.Is(err, handicap.ErrInvalidCourseRating) ||
		errors.Is(err, handicap.ErrInvalidAllowance)
}

// Status codes used by loadMatchContext to tell its callers what was missing.
const (
	matchCtxOK = iota
	matchCtxNoMatch
	matchCtxNoRound
	matchCtxNoCompetition
)

// loadMatchContext fetches a match together with its round and competition —
// the three records nearly every match handler needs.
func loadMatchContext(db *gorm.DB, matchID uuid.UUID) (*models.Match, *models.Round, *models.Competition, int) {
	var match models.Match
	if err := db.First(&match, "id = ?", matchID).Error; err != nil {
		return nil, nil, nil, matchCtxNoMatch
	}
	var round models.Round
	if err := db.First(&round, "id = ?", match.RoundID).Error; err != nil {
		return nil, nil, nil, matchCtxNoRound
	}
	var comp models.Competition
	if err := db.First(&comp, "id = ?", round.CompetitionID).Error; err != nil {
		return nil, nil, nil, matchCtxNoCompetition
	}
	return &match, &round, &comp, matchCtxOK
}

// respondMatchContextError maps a loadMatchContext failure to a response.
func respondMatchContextError(c *fiber.Ctx, status int) error {
	switch status {
	case matchCtxNoMatch:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "match not found"})
	case matchCtxNoRound:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "round not found"})
	default:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "competition not found"})
	}
}
