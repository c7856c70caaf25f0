package realtime

import (
	"go.uber.org/zap"

	"github.com/chirpnet/chirp/pkg/logging"
)

type clientSet map[*Client]bool

// Hub tracks live websocket connections keyed by user. A user may hold
// several connections at once (multiple tabs, multiple devices); a push
// goes to all of them. All map mutation happens on the Run goroutine.
type Hub struct {
	users map[int64]clientSet

	register   chan *Client
	unregister chan *Client
	outbound   chan targetedMessage

	logger *zap.Logger
}

type targetedMessage struct {
	userID  int64
	message []byte
}

// NewHub creates a hub. Run must be started before clients connect.
func NewHub() *Hub {
	return &Hub{
		users:      make(map[int64]clientSet),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		outbound:   make(chan targetedMessage, 256),
		logger:     logging.WithComponent("realtime"),
	}
}

// Run owns the connection registry. It loops until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			if h.users[client.userID] == nil {
				h.users[client.userID] = make(clientSet)
			}
			h.users[client.userID][client] = true
			h.logger.Debug("Client connected",
				zap.Int64("user_id", client.userID),
				zap.Int("connections", len(h.users[client.userID])))

		case client := <-h.unregister:
			if h.users[client.userID][client] {
				h.disconnect(client)
			}

		case msg := <-h.outbound:
			for client := range h.users[msg.userID] {
				select {
				case client.send <- msg.message:
				default:
					// The client stopped draining; drop it rather
					// than block every other delivery
					h.disconnect(client)
				}
			}
		}
	}
}

func (h *Hub) disconnect(client *Client) {
	delete(h.users[client.userID], client)
	if len(h.users[client.userID]) == 0 {
		delete(h.users, client.userID)
	}
	close(client.send)
}

// BroadcastToUser queues a message for every live connection of one
// user. Safe to call from any goroutine. With no live connection, or a
// saturated hub, the message is dropped; persisted state is the source
// of truth.
func (h *Hub) BroadcastToUser(userID int64, message []byte) {
	select {
	case h.outbound <- targetedMessage{userID: userID, message: message}:
	default:
		h.logger.Warn("Realtime queue full, dropping push",
			zap.Int64("user_id", userID))
	}
}
