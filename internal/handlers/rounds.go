// rounds.go — handlers for rounds: creating them under a competition and
// walking them through their lifecycle.
//
// A round's two optional handicap settings (mode override, allowance
// override) are pushed through the resolver at creation time. That way an
// illegal configuration — a mode override on a fourball round, an allowance
// that isn't a 5% step — is rejected with a 400 before anything is persisted,
// and every stored round is guaranteed resolvable at tee-assignment time.
package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/openfairway/team-cup/internal/handicap"
	"github.com/openfairway/team-cup/internal/models"
)

// CreateRoundRequest is the JSON body for POST /api/v1/competitions/:id/rounds.
type CreateRoundRequest struct {
	CourseID     string  `json:"course_id" validate:"required,uuid4"`
	PlayedOn     string  `json:"played_on" validate:"required,datetime=2006-01-02"`
	Slot         string  `json:"slot" validate:"required,oneof=morning afternoon"`
	Format       string  `json:"format" validate:"required,oneof=singles fourball foursomes"`
	HandicapMode *string `json:"handicap_mode" validate:"omitempty,oneof=stroke_play match_play"` // Singles only
	Allowance    *int    `json:"allowance"`                                                       // Domain-checked by the resolver, not a tag
}

// RoundResponse mirrors one round for clients, with the resolved handicap
// settings included so the client never re-implements the precedence chain.
type RoundResponse struct {
	ID                string  `json:"id"`
	CompetitionID     string  `json:"competition_id"`
	CourseID          string  `json:"course_id"`
	PlayedOn          string  `json:"played_on"`
	Slot              string  `json:"slot"`
	Format            string  `json:"format"`
	HandicapMode      *string `json:"handicap_mode"` // The raw override, if any
	Allowance         *int    `json:"allowance"`     // The raw override, if any
	ResolvedMode      string  `json:"resolved_mode"`
	ResolvedAllowance int     `json:"resolved_allowance"`
	Status            string  `json:"status"`
}

// overridesForRound adapts a stored round into the resolver's input shape.
func overridesForRound(round *models.Round) handicap.RoundOverrides {
	return handicap.RoundOverrides{
		Format:    round.Format,
		Mode:      round.HandicapMode,
		Allowance: round.AllowanceOverride,
	}
}

// roundResponse builds the response DTO for a round, resolving its effective
// settings against the competition default.
func roundResponse(round *models.Round, competitionMode handicap.Mode) RoundResponse {
	resp := RoundResponse{
		ID:            round.ID.String(),
		CompetitionID: round.CompetitionID.String(),
		CourseID:      round.CourseID.String(),
		PlayedOn:      round.PlayedOn.UTC().Format("2006-01-02"),
		Slot:          string(round.Slot),
		Format:        string(round.Format),
		Allowance:     round.AllowanceOverride,
		Status:        string(round.Status),
	}
	if round.HandicapMode != nil {
		s := string(*round.HandicapMode)
		resp.HandicapMode = &s
	}
	// Stored rounds were validated on the way in, so this cannot fail; the
	// zero Settings on the error path keeps the response well-formed anyway.
	settings, _ := handicap.Resolve(overridesForRound(round), competitionMode)
	resp.ResolvedMode = string(settings.Mode)
	resp.ResolvedAllowance = int(settings.Allowance)
	return resp
}

// CreateRound returns a handler for POST /api/v1/competitions/:id/rounds.
// Organizer-only. New rounds always start in pending_teams.
func CreateRound(db *gorm.DB, log *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, userRole, err := currentUser(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid user ID"})
		}
		compID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid competition ID"})
		}
		if !isCompetitionOrganizer(db, compID, userID, userRole) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "not authorized to manage this competition"})
		}

		var req CreateRoundRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		if err := validate.Struct(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		var comp models.Competition
		if err := db.First(&comp, "id = ?", compID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "competition not found"})
		}

		courseID, _ := uuid.Parse(req.CourseID)
		var course models.Course
		if err := db.First(&course, "id = ?", courseID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "course not found"})
		}

		playedOn, _ := time.Parse("2006-01-02", req.PlayedOn)

		var modeOverride *handicap.Mode
		if req.HandicapMode != nil {
			m := handicap.Mode(*req.HandicapMode)
			modeOverride = &m
		}

		// Run the settings through the resolver before persisting anything —
		// this is where a mode override on a team-format round, or an
		// off-table allowance, gets bounced.
		overrides := handicap.RoundOverrides{
			Format:    handicap.Format(req.Format),
			Mode:      modeOverride,
			Allowance: req.Allowance,
		}
		if _, err := handicap.Resolve(overrides, comp.PlayMode); err != nil {
			if errors.Is(err, handicap.ErrInvalidOverrideForFormat) || errors.Is(err, handicap.ErrInvalidAllowance) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to resolve handicap settings"})
		}

		round := models.Round{
			CompetitionID:     compID,
			CourseID:          courseID,
			PlayedOn:          playedOn,
			Slot:              models.SessionSlot(req.Slot),
			Format:            handicap.Format(req.Format),
			HandicapMode:      modeOverride,
			AllowanceOverride: req.Allowance,
			Status:            models.RoundStatusPendingTeams,
		}
		if err := db.Create(&round).Error; err != nil {
			log.WithError(err).Error("failed to create round")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create round"})
		}

		log.WithFields(logrus.Fields{
			"round_id":       round.ID,
			"competition_id": compID,
			"format":         round.Format,
		}).Info("round created")

		return c.Status(fiber.StatusCreated).JSON(roundResponse(&round, comp.PlayMode))
	}
}

// GetRounds returns a handler for GET /api/v1/competitions/:id/rounds.
func GetRounds(db *gorm.DB, log *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		compID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid competition ID"})
		}

		var comp models.Competition
		if err := db.First(&comp, "id = ?", compID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "competition not found"})
		}

		var rounds []models.Round
		if err := db.Where("competition_id = ?", compID).Order("played_on, slot").Find(&rounds).Error; err != nil {
			log.WithError(err).Error("failed to fetch rounds")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch rounds"})
		}

		response := make([]RoundResponse, 0, len(rounds))
		for i := range rounds {
			response = append(response, roundResponse(&rounds[i], comp.PlayMode))
		}
		return c.JSON(response)
	}
}

// AdvanceRound returns a handler for POST /api/v1/rounds/:id/advance.
// Organizer-only. Moves the round exactly one step forward in its lifecycle;
// there is no way to skip states, go back, or leave completed.
func AdvanceRound(db *gorm.DB, log *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, userRole, err := currentUser(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid user ID"})
		}
		roundID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid round ID"})
		}

		var round models.Round
		if err := db.First(&round, "id = ?", roundID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "round not found"})
		}
		if !isCompetitionOrganizer(db, round.CompetitionID, userID, userRole) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "not authorized to manage this competition"})
		}

		prev := round.Status
		next, ok := round.Status.Next()
		if !ok {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "round is already completed"})
		}

		if err := db.Model(&round).Update("status", next).Error; err != nil {
			log.WithError(err).Error("failed to advance round")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to advance round"})
		}

		log.WithFields(logrus.Fields{
			"round_id": round.ID,
			"from":     prev,
			"to":       next,
		}).Info("round advanced")

		return c.JSON(fiber.Map{"id": round.ID.String(), "status": string(next)})
	}
}
