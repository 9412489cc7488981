package websocket

import (
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

type Client struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
}

// TransitionEvent is pushed to both parties of a request whenever its
// status changes.
type TransitionEvent struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id"`
	NewStatus string `json:"new_status"`
}

// PaymentEvent is pushed when a fee settles without moving the status,
// so clients never see a transition event for a state that did not change.
type PaymentEvent struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id"`
	Fee       string `json:"fee"`
}

var clients = make(map[uuid.UUID]*websocket.Conn)
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)

func RunHub() {
	for {
		select {
		case client := <-Register:
			log.Printf("Client registered: %s", client.UserID)
			clientsMu.Lock()
			clients[client.UserID] = client.Conn
			clientsMu.Unlock()
		case client := <-Unregister:
			log.Printf("Client unregistered: %s", client.UserID)
			clientsMu.Lock()
			if conn, ok := clients[client.UserID]; ok && conn == client.Conn {
				delete(clients, client.UserID)
			}
			clientsMu.Unlock()
		}
	}
}

// PushTransition delivers a status-change event to one user if they are
// connected. Fire-and-forget: a write failure drops the connection.
func PushTransition(userID, requestID uuid.UUID, newStatus string) {
	pushEvent(userID, TransitionEvent{
		Type:      "transition_occurred",
		RequestID: requestID.String(),
		NewStatus: newStatus,
	})
}

// PushPaymentSettled announces a settled fee to one user if they are
// connected.
func PushPaymentSettled(userID, requestID uuid.UUID, fee string) {
	pushEvent(userID, PaymentEvent{
		Type:      "payment_settled",
		RequestID: requestID.String(),
		Fee:       fee,
	})
}

func pushEvent(userID uuid.UUID, event interface{}) {
	clientsMu.RLock()
	conn, ok := clients[userID]
	clientsMu.RUnlock()
	if !ok {
		return
	}

	if err := conn.WriteJSON(event); err != nil {
		log.Printf("Error pushing event to client %s: %v", userID, err)
		conn.Close()
		clientsMu.Lock()
		if c, stillThere := clients[userID]; stillThere && c == conn {
			delete(clients, userID)
		}
		clientsMu.Unlock()
	}
}
