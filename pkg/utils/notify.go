package utils

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// Notifier manages active WebSocket connections and pushes mission
// lifecycle events to their owners.
type Notifier struct {
	mu    sync.RWMutex
	conns map[uuid.UUID]*websocket.Conn
}

// DefaultNotifier is the package-level notifier instance.
var DefaultNotifier = NewNotifier()

// NewNotifier creates a new Notifier.
func NewNotifier() *Notifier {
	return &Notifier{
		conns: make(map[uuid.UUID]*websocket.Conn),
	}
}

// Register registers a websocket connection for a user.
func (n *Notifier) Register(userID uuid.UUID, conn *websocket.Conn) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.conns[userID] = conn
	log.Printf("event=ws_register user=%s total_connections=%d", userID.String(), len(n.conns))
}

// Unregister removes the websocket connection for a user.
func (n *Notifier) Unregister(userID uuid.UUID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if conn, ok := n.conns[userID]; ok {
		_ = conn.Close()
		delete(n.conns, userID)
	}
	log.Printf("event=ws_unregister user=%s total_connections=%d", userID.String(), len(n.conns))
}

// Send sends a JSON-serializable payload to the user's websocket
// connection. Users without a live connection are skipped silently.
func (n *Notifier) Send(userID uuid.UUID, payload interface{}) error {
	n.mu.RLock()
	conn, ok := n.conns[userID]
	n.mu.RUnlock()
	if !ok {
		return nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Printf("event=ws_send_failed user=%s err=%v", userID.String(), err)
		n.Unregister(userID)
		return err
	}
	return nil
}

// NotifyEvent pushes a named mission event with a data payload.
func (n *Notifier) NotifyEvent(userID uuid.UUID, event string, data interface{}) {
	_ = n.Send(userID, map[string]interface{}{
		"event":     event,
		"data":      data,
		"timestamp": time.Now(),
	})
}
