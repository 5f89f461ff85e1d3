// Package handlers contains the Fiber route handlers for the Team Cup API.
// This file covers /api/v1/competitions — listing and creating competitions —
// and the enrollment approval workflow beneath them.
//
// Each exported function follows the handler-factory pattern: it takes its
// dependencies (*gorm.DB, *logrus.Logger) and returns a fiber.Handler. That
// keeps dependencies explicit and out of package globals.
//
// --- Permission model ---
//  1. Route-level (middleware.RequireRole): only "admin" and "organizer"
//     global roles may create competitions. All authenticated users can read.
//  2. Resource-level (isCompetitionOrganizer, below): only the creator of a
//     competition (or a global admin) may manage it — approve enrollments,
//     schedule rounds, form matches, assign tees.
package handlers

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/openfairway/team-cup/internal/handicap"
	"github.com/openfairway/team-cup/internal/models"
)

// validate is the shared request validator. validator.New is safe for
// concurrent use, so one instance serves every handler.
var validate = validator.New()

// CompetitionResponse is what clients receive for a competition. A dedicated
// response struct (instead of the raw GORM model) controls exactly which
// fields are serialised and lets us add computed fields like PlayerCount.
type CompetitionResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	PlayMode    string  `json:"play_mode"` // Default handicap mode rounds inherit: "stroke_play" or "match_play"
	Status      string  `json:"status"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	CreatorName string  `json:"creator_name"`
	PlayerCount int64   `json:"player_count"` // Approved enrollments only
	CreatedAt   string  `json:"created_at"`
}

// CreateCompetitionRequest is the JSON body for POST /api/v1/competitions.
type CreateCompetitionRequest struct {
	Name        string  `json:"name" validate:"required,max=120"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	PlayMode    string  `json:"play_mode" validate:"required,oneof=stroke_play match_play"`
	StartDate   *string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate     *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

// EnrollmentRequest is the JSON body for requesting enrollment in a
// competition. The handicap index travels with the request so the organizer
// can see it when deciding.
type EnrollmentRequest struct {
	HandicapIndex *float64 `json:"handicap_index" validate:"omitempty,gte=-10,lte=54"`
}

// DecideEnrollmentRequest is the JSON body for an organizer's decision.
type DecideEnrollmentRequest struct {
	Approve bool    `json:"approve"`
	Side    *string `json:"side" validate:"omitempty,oneof=team_a team_b"` // Required on approval
}

// EnrollmentResponse mirrors one enrollment row for clients.
type EnrollmentResponse struct {
	ID            string   `json:"id"`
	PlayerName    string   `json:"player_name"`
	Status        string   `json:"status"`
	Side          *string  `json:"side"`
	HandicapIndex *float64 `json:"handicap_index"`
}

// formatOptionalDate converts a *time.Time to a *string in "2006-01-02"
// format, preserving nil.
func formatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format("2006-01-02")
	return &s
}

// parseOptionalDate parses an optional "YYYY-MM-DD" string, preserving nil
// and treating the empty string as absent.
func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// currentUser reads the authenticated user's ID and role out of the request
// context, where the Auth middleware put them.
func currentUser(c *fiber.Ctx) (uuid.UUID, string, error) {
	userIDStr, _ := c.Locals("userID").(string)
	userRole, _ := c.Locals("userRole").(string)
	userID, err := uuid.Parse(userIDStr)
	return userID, userRole, err
}

// GetCompetitions returns a handler for GET /api/v1/competitions.
// Admins see everything; everyone else sees competitions they created or are
// enrolled in.
func GetCompetitions(db *gorm.DB, log *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, userRole, err := currentUser(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid user ID"})
		}

		var competitions []models.Competition
		query := db.Preload("Creator")
		if userRole == "admin" {
			query = query.Find(&competitions)
		} else {
			query = query.
				Joins("LEFT JOIN enrollments ON enrollments.competition_id = competitions.id").
				Where("competitions.created_by = ? OR enrollments.user_id = ?", userID, userID).
				Distinct().
				Find(&competitions)
		}
		if query.Error != nil {
			log.WithError(query.Error).Error("failed to fetch competitions")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch competitions"})
		}

		response := make([]CompetitionResponse, 0, len(competitions))
		for _, comp := range competitions {
			var playerCount int64
			db.Model(&models.Enrollment{}).
				Where("competition_id = ? AND status = ?", comp.ID, models.EnrollmentStatusApproved).
				Count(&playerCount)

			response = append(response, CompetitionResponse{
				ID:          comp.ID.String(),
				Name:        comp.Name,
				Description: comp.Description,
				PlayMode:    string(comp.PlayMode),
				Status:      string(comp.Status),
				StartDate:   formatOptionalDate(comp.StartDate),
				EndDate:     formatOptionalDate(comp.EndDate),
				CreatorName: comp.Creator.DisplayName,
				PlayerCount: playerCount,
				CreatedAt:   comp.CreatedAt.UTC().Format(time.RFC3339),
			})
		}

		return c.JSON(response)
	}
}

// CreateCompetition returns a handler for POST /api/v1/competitions.
// Requires the "admin" or "organizer" role (enforced on the route).
func CreateCompetition(db *gorm.DB, log *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := currentUser(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid user ID"})
		}

		var req CreateCompetitionRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		if err := validate.Struct(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		startDate, err := parseOptionalDate(req.StartDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "start_date must be in YYYY-MM-DD format"})
		}
		endDate, err := parseOptionalDate(req.EndDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "end_date must be in YYYY-MM-DD format"})
		}

		comp := models.Competition{
			Name:        req.Name,
			Description: req.Description,
			PlayMode:    handicap.Mode(req.PlayMode),
			Status:      models.CompetitionStatusUpcoming,
			StartDate:   startDate,
			EndDate:     endDate,
			CreatedBy:   userID,
		}
		if err := db.Create(&comp).Error; err != nil {
			log.WithError(err).Error("failed to create competition")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create competition"})
		}

		var creator models.User
		db.First(&creator, "id = ?", userID)

		log.WithFields(logrus.Fields{
			"competition_id": comp.ID,
			"created_by":     userID,
		}).Info("competition created")

		return c.Status(fiber.StatusCreated).JSON(CompetitionResponse{
			ID:          comp.ID.String(),
			Name:        comp.Name,
			Description: comp.Description,
			PlayMode:    string(comp.PlayMode),
			Status:      string(comp.Status),
			StartDate:   formatOptionalDate(comp.StartDate),
			EndDate:     formatOptionalDate(comp.EndDate),
			CreatorName: creator.DisplayName,
			PlayerCount: 0,
			CreatedAt:   comp.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
}

// RequestEnrollment returns a handler for POST /api/v1/competitions/:id/enrollments.
// Any authenticated player can request enrollment; it lands in "pending"
// until an organizer decides.
func RequestEnrollment(db *gorm.DB, log *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := currentUser(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid user ID"})
		}
		compID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid competition ID"})
		}

		var req EnrollmentRequest
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

		enrollment := models.Enrollment{
			CompetitionID: compID,
			UserID:        userID,
			Status:        models.EnrollmentStatusPending,
			HandicapIndex: req.HandicapIndex,
		}
		if err := db.Create(&enrollment).Error; err != nil {
			// The unique index on (competition_id, user_id) turns a repeat
			// request into a conflict rather than a duplicate row.
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "already enrolled or enrollment pending"})
		}

		log.WithFields(logrus.Fields{
			"competition_id": compID,
			"user_id":        userID,
		}).Info("enrollment requested")

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":     enrollment.ID.String(),
			"status": string(enrollment.Status),
		})
	}
}

// DecideEnrollment returns a handler for PATCH /api/v1/enrollments/:id.
// Organizer-only: approves (with a side assignment) or rejects a pending
// enrollment.
func DecideEnrollment(db *gorm.DB, log *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, userRole, err := currentUser(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid user ID"})
		}
		enrollmentID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid enrollment ID"})
		}

		var req DecideEnrollmentRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		if err := validate.Struct(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		if req.Approve && req.Side == nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "side is required when approving"})
		}

		var enrollment models.Enrollment
		if err := db.First(&enrollment, "id = ?", enrollmentID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "enrollment not found"})
		}
		if !isCompetitionOrganizer(db, enrollment.CompetitionID, userID, userRole) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "not authorized to manage this competition"})
		}
		if enrollment.Status != models.EnrollmentStatusPending {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "enrollment already decided"})
		}

		updates := map[string]interface{}{
			"status":     models.EnrollmentStatusRejected,
			"decided_by": userID,
		}
		if req.Approve {
			updates["status"] = models.EnrollmentStatusApproved
			updates["side"] = models.TeamSide(*req.Side)
		}
		if err := db.Model(&enrollment).Updates(updates).Error; err != nil {
			log.WithError(err).Error("failed to update enrollment")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update enrollment"})
		}

		return c.JSON(fiber.Map{"id": enrollment.ID.String(), "status": updates["status"]})
	}
}

// GetEnrollments returns a handler for GET /api/v1/competitions/:id/enrollments.
// Organizer-only: lists every enrollment for the competition so pending
// requests can be reviewed.
func GetEnrollments(db *gorm.DB, log *logrus.Logger) fiber.Handler {
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

		var enrollments []models.Enrollment
		if err := db.Preload("User").Where("competition_id = ?", compID).Find(&enrollments).Error; err != nil {
			log.WithError(err).Error("failed to fetch enrollments")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch enrollments"})
		}

		response := make([]EnrollmentResponse, 0, len(enrollments))
		for _, e := range enrollments {
			var side *string
			if e.Side != nil {
				s := string(*e.Side)
				side = &s
			}
			response = append(response, EnrollmentResponse{
				ID:            e.ID.String(),
				PlayerName:    e.User.DisplayName,
				Status:        string(e.Status),
				Side:          side,
				HandicapIndex: e.HandicapIndex,
			})
		}
		return c.JSON(response)
	}
}

// isCompetitionOrganizer reports whether a user may manage a competition.
// Global admins may manage any competition; everyone else must be its
// creator. Call this at the top of every handler that mutates competition
// state (enrollment decisions, rounds, matches, tees).
func isCompetitionOrganizer(db *gorm.DB, competitionID, userID uuid.UUID, userRole string) bool {
	if userRole == "admin" {
		return true
	}
	var comp models.Competition
	err := db.Select("created_by").First(&comp, "id = ?", competitionID).Error
	return err == nil && comp.CreatedBy == userID
}
