// Package websocket implements a hub for pushing live match standings to
// connected clients. Spectators following a match get the new standing the
// moment a hole is scored, without polling the standings endpoint.
package websocket

// Client is one connected spectator. Each client follows exactly one match.
type Client struct {
	MatchID string      // Which match this client is following
	Send    chan []byte // Outgoing messages; the hub writes, the socket goroutine drains
}

// Message is one unit of data to fan out to everyone following a match —
// typically a JSON-encoded MatchStanding.
type Message struct {
	MatchID string
	Data    []byte
}

// Hub tracks all active clients, grouped by match ID. Registration,
// unregistration, and broadcasts all flow through channels into the single
// Run goroutine — the clients map is only ever touched there, so it needs
// no locking.
type Hub struct {
	// clients: matchID → set of connected clients. map[*Client]bool as a set
	// is the usual Go idiom.
	clients map[string]map[*Client]bool

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client
}

// NewHub creates an empty hub. The broadcast channel is buffered so a burst
// of score entries doesn't block the handlers; register/unregister stay
// unbuffered because those need to complete before the caller proceeds.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run is the hub's event loop; call it once in its own goroutine
// ("go hub.Run()"). It processes one event at a time forever.
func (h *Hub) Run() {
	for {
		select {

		case client := <-h.register:
			if h.clients[client.MatchID] == nil {
				h.clients[client.MatchID] = make(map[*Client]bool)
			}
			h.clients[client.MatchID][client] = true

		case client := <-h.unregister:
			h.drop(client)

		case msg := <-h.broadcast:
			for client := range h.clients[msg.MatchID] {
				select {
				case client.Send <- msg.Data:
				default:
					// Client's buffer is full — it is too slow to keep up.
					// Drop it rather than stall every other follower.
					h.drop(client)
				}
			}
		}
	}
}

// drop removes a client and closes its Send channel, signalling the socket
// writer goroutine to stop. Safe to call twice for the same client: the
// membership check prevents a double close. Only called from Run.
func (h *Hub) drop(client *Client) {
	clients, ok := h.clients[client.MatchID]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	close(client.Send)
	if len(clients) == 0 {
		delete(h.clients, client.MatchID)
	}
}

// BroadcastToMatch sends data to every client following the given match.
// Handlers call this after recalculating a standing.
func (h *Hub) BroadcastToMatch(matchID string, data []byte) {
	h.broadcast <- &Message{MatchID: matchID, Data: data}
}

// Register adds a client to the hub when its socket opens.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client when its socket closes. A no-op for clients
// the hub has already dropped.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}
