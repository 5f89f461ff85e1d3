// Entry point for the Team Cup API server. cmd/ holds executable binaries;
// internal/ holds the packages they are assembled from.
package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	// Request logging: method, path, status, duration per request.
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/sirupsen/logrus"

	"github.com/openfairway/team-cup/internal/config"
	"github.com/openfairway/team-cup/internal/database"
	"github.com/openfairway/team-cup/internal/handlers"
	"github.com/openfairway/team-cup/internal/middleware"
	"github.com/openfairway/team-cup/internal/websocket"
)

func main() {
	cfg := config.Load()

	// Structured application logger; request logging is handled separately
	// by the fiber middleware below.
	log := logrus.New()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}

	// Apply any pending schema migrations before accepting traffic, so the
	// schema always matches the models this binary was built with.
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}

	// The hub fans live standing updates out to spectators; it runs its own
	// event loop in a goroutine for the life of the process.
	hub := websocket.NewHub()
	go hub.Run()

	app := fiber.New(fiber.Config{
		AppName: "Team Cup API",
	})

	// Global middleware, in order: request logging, then CORS. Lock the CORS
	// origin down per environment before production.
	app.Use(fiberlogger.New())
	app.Use(cors.New())

	// Public liveness probe.
	app.Get("/health", handlers.HealthCheck)

	// Public spectator feed: live standings for one match, pushed through the
	// hub as holes are scored.
	app.Get("/ws/matches/:id", handlers.UpgradeMatchSocket(db), handlers.MatchUpdates(hub, log))

	// Everything under /api/v1 requires a valid bearer token; Auth also
	// lazily syncs the user into our database.
	api := app.Group("/api/v1", middleware.Auth(cfg, db))

	// Course reference data.
	api.Get("/courses", handlers.GetCourses(db, log))
	api.Post("/courses", middleware.RequireRole("admin", "organizer"), handlers.CreateCourse(db, log))

	// Competitions and the enrollment approval workflow.
	api.Get("/competitions", handlers.GetCompetitions(db, log))
	api.Post("/competitions", middleware.RequireRole("admin", "organizer"), handlers.CreateCompetition(db, log))
	api.Get("/competitions/:id/enrollments", handlers.GetEnrollments(db, log))
	api.Post("/competitions/:id/enrollments", handlers.RequestEnrollment(db, log))
	api.Patch("/enrollments/:id", handlers.DecideEnrollment(db, log))

	// Rounds: creation (handicap overrides validated up front) and the
	// forward-only lifecycle.
	api.Get("/competitions/:id/rounds", handlers.GetRounds(db, log))
	api.Post("/competitions/:id/rounds", handlers.CreateRound(db, log))
	api.Post("/rounds/:id/advance", handlers.AdvanceRound(db, log))

	// Matches: pairings, tee assignment (= Playing Handicap snapshot), and
	// the explicit reassignment path.
	api.Post("/rounds/:id/matches", handlers.CreateMatch(db, log))
	api.Post("/matches/:id/tees", handlers.AssignTees(db, log))
	api.Put("/matches/:id/players/:userID/tee", handlers.ReassignTee(db, log))

	// Live scoring: gross entry, each player's own card, marker annotations,
	// card submission, and the match standing.
	api.Post("/matches/:id/holes", handlers.EnterHoleScore(db, hub, log))
	api.Post("/matches/:id/cards", handlers.EnterCardScore(db, log))
	api.Post("/matches/:id/annotations", handlers.AnnotateScore(db, log))
	api.Post("/matches/:id/submit", handlers.SubmitCard(db, hub, log))
	api.Get("/matches/:id/standing", handlers.GetStanding(db, hub, log))

	log.WithField("port", cfg.Port).Info("starting server")
	log.Fatal(app.Listen(":" + cfg.Port))
}
