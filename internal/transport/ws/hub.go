package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgVisitStarted      MessageType = "visit_started"
	MsgSubmissionCreated MessageType = "submission_created"
	MsgFormUpdated       MessageType = "form_updated"
	MsgError             MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans live form activity out to builder dashboards. Any number of
// watchers can observe one form; a slow watcher just drops messages, it
// never backpressures the respondent path.
type Hub struct {
	watchers map[string]map[*Connection]bool // formID -> connections

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents one dashboard WebSocket connection
type Connection struct {
	FormID string
	Send   chan []byte
	Hub    *Hub
}

// BroadcastMessage is a message to broadcast to a form's watchers
type BroadcastMessage struct {
	FormID  string
	Message *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		watchers:   make(map[string]map[*Connection]bool),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.watchers[conn.FormID] == nil {
				h.watchers[conn.FormID] = make(map[*Connection]bool)
			}
			h.watchers[conn.FormID][conn] = true
			h.mu.Unlock()
			log.Printf("dashboard watcher connected to form %s", conn.FormID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.watchers[conn.FormID]; ok {
				if conns[conn] {
					delete(conns, conn)
					close(conn.Send)
					if len(conns) == 0 {
						delete(h.watchers, conn.FormID)
					}
					log.Printf("dashboard watcher disconnected from form %s", conn.FormID)
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)
			for conn := range h.watchers[msg.FormID] {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastToForm sends a message to all watchers of a form (implements
// service.Broadcaster).
func (h *Hub) BroadcastToForm(formID string, msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("broadcast payload marshal failed: %v", err)
		return
	}
	h.broadcast <- &BroadcastMessage{
		FormID: formID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}
