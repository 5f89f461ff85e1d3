// websocket.go — the live-standing feed. Spectators open a websocket on
// GET /ws/matches/:id and receive the JSON standing pushed by recalcStanding
// every time a hole is scored on that match.
package handlers

import (
	"github.com/gofiber/fiber/v2"
	ws "github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/openfairway/team-cup/internal/models"
	"github.com/openfairway/team-cup/internal/websocket"
)

// UpgradeMatchSocket gates the websocket route: the request must be a
// websocket upgrade and name a match that exists. Checked here, before the
// upgrade, so a bad match ID gets a normal HTTP error instead of a socket
// that opens and immediately closes.
func UpgradeMatchSocket(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !ws.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		matchID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid match ID"})
		}
		var match models.Match
		if err := db.First(&match, "id = ?", matchID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "match not found"})
		}
		c.Locals("matchID", matchID.String())
		return c.Next()
	}
}

// MatchUpdates returns the websocket handler for GET /ws/matches/:id.
// It registers the connection with the hub, then writes every broadcast
// standing out to the socket until either side disconnects. The read
// goroutine exists only to notice the client closing the connection.
func MatchUpdates(hub *websocket.Hub, log *logrus.Logger) fiber.Handler {
	return ws.New(func(conn *ws.Conn) {
		matchID, _ := conn.Locals("matchID").(string)

		client := &websocket.Client{
			MatchID: matchID,
			Send:    make(chan []byte, 64),
		}
		hub.Register(client)
		// Unregister is a no-op when the hub already dropped the client
		// for falling behind.
		defer hub.Unregister(client)

		log.WithField("match_id", matchID).Debug("spectator connected")

		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case msg, ok := <-client.Send:
				if !ok {
					// Dropped by the hub for not keeping up.
					return
				}
				if err := conn.WriteMessage(ws.TextMessage, msg); err != nil {
					return
				}
			case <-closed:
				return
			}
		}
	})
}
