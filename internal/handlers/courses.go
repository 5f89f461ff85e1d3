// courses.go — handlers for course reference data: courses, their tee sets,
// and per-hole details. Tees carry the course rating / slope / par that feed
// the Playing Handicap formula, and holes carry the stroke indexes that
// decide where handicap strokes land.
package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/openfairway/team-cup/internal/handicap"
	"github.com/openfairway/team-cup/internal/models"
)

// CreateCourseRequest is the JSON body for POST /api/v1/courses: a course
// with its tee sets and their 18 holes, created in one shot.
type CreateCourseRequest struct {
	Name    string           `json:"name" validate:"required,max=120"`
	City    string           `json:"city" validate:"omitempty,max=120"`
	Country string           `json:"country" validate:"omitempty,max=120"`
	Tees    []CreateTeeInput `json:"tees" validate:"required,min=1,dive"`
}

// CreateTeeInput describes one tee set.
type CreateTeeInput struct {
	Name         string            `json:"name" validate:"required,max=40"`
	CourseRating float64           `json:"course_rating" validate:"required,gt=0"`
	SlopeRating  int               `json:"slope_rating" validate:"required,min=55,max=155"`
	Par          int               `json:"par" validate:"required,min=27,max=80"`
	Holes        []CreateHoleInput `json:"holes" validate:"required,len=18,dive"`
}

// CreateHoleInput describes one hole on a tee set.
type CreateHoleInput struct {
	HoleNumber  int  `json:"hole_number" validate:"required,min=1,max=18"`
	Par         int  `json:"par" validate:"required,min=3,max=6"`
	StrokeIndex int  `json:"stroke_index" validate:"required,min=1,max=18"`
	Yardage     *int `json:"yardage" validate:"omitempty,min=50,max=800"`
}

// validateTeeHoles enforces what struct tags can't: the 18 holes must be
// numbered 1..18 exactly once each, and their stroke indexes must be a
// permutation of 1..18 — every rank used once, or stroke allocation breaks.
func validateTeeHoles(holes []CreateHoleInput) error {
	seenNumber := map[int]bool{}
	seenIndex := map[int]bool{}
	for _, h := range holes {
		if seenNumber[h.HoleNumber] {
			return fmt.Errorf("hole number %d appears twice", h.HoleNumber)
		}
		if seenIndex[h.StrokeIndex] {
			return fmt.Errorf("stroke index %d appears twice", h.StrokeIndex)
		}
		seenNumber[h.HoleNumber] = true
		seenIndex[h.StrokeIndex] = true
	}
	return nil
}

// CreateCourse returns a handler for POST /api/v1/courses.
// Requires the "admin" or "organizer" role (enforced on the route).
func CreateCourse(db *gorm.DB, log *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req CreateCourseRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		if err := validate.Struct(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		for _, tee := range req.Tees {
			if _, err := handicap.NewSlope(tee.SlopeRating); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
			}
			if _, err := handicap.NewCourseRating(tee.CourseRating); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
			}
			if err := validateTeeHoles(tee.Holes); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": fmt.Sprintf("tee %q: %s", tee.Name, err),
				})
			}
		}

		var created models.Course
		txErr := db.Transaction(func(tx *gorm.DB) error {
			course := models.Course{
				Name:    req.Name,
				City:    req.City,
				Country: req.Country,
			}
			if err := tx.Create(&course).Error; err != nil {
				return err
			}
			for _, teeInput := range req.Tees {
				tee := models.Tee{
					CourseID:     course.ID,
					Name:         teeInput.Name,
					CourseRating: teeInput.CourseRating,
					SlopeRating:  teeInput.SlopeRating,
					Par:          teeInput.Par,
				}
				if err := tx.Create(&tee).Error; err != nil {
					return err
				}
				for _, holeInput := range teeInput.Holes {
					hole := models.Hole{
						TeeID:       tee.ID,
						HoleNumber:  holeInput.HoleNumber,
						Par:         holeInput.Par,
						StrokeIndex: holeInput.StrokeIndex,
						Yardage:     holeInput.Yardage,
					}
					if err := tx.Create(&hole).Error; err != nil {
						return err
					}
				}
			}
			created = course
			return nil
		})
		if txErr != nil {
			log.WithError(txErr).Error("failed to create course")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create course"})
		}

		log.WithField("course_id", created.ID).Info("course created")
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": created.ID.String(), "name": created.Name})
	}
}

// GetCourses returns a handler for GET /api/v1/courses, with tees and holes
// preloaded so clients can render a full scorecard.
func GetCourses(db *gorm.DB, log *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var courses []models.Course
		if err := db.Preload("Tees.Holes").Find(&courses).Error; err != nil {
			log.WithError(err).Error("failed to fetch courses")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch courses"})
		}
		return c.JSON(courses)
	}
}
