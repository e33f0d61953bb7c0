package server

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/airdraw/internal/app"
)

const writeWait = 2 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// EventSource publishes canvas events.
type EventSource interface {
	Subscribe() <-chan app.FrameEvent
	Unsubscribe(ch <-chan app.FrameEvent)
	State() app.State
}

// EventsHandler forwards canvas events to websocket clients as JSON. Each
// client first receives the current state, then one message per event.
type EventsHandler struct {
	source EventSource
}

// NewEventsHandler creates a new EventsHandler reading from source.
func NewEventsHandler(source EventSource) *EventsHandler {
	return &EventsHandler{source: source}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	events := h.source.Subscribe()
	defer h.source.Unsubscribe(events)

	// Clients never send anything; reading only detects the close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	hello := app.FrameEvent{Kind: app.EventState, State: h.source.State()}
	if err := h.send(conn, hello); err != nil {
		return
	}

	for {
		select {
		case <-closed:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := h.send(conn, ev); err != nil {
				return
			}
		}
	}
}

func (h *EventsHandler) send(conn *websocket.Conn, ev app.FrameEvent) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(ev)
}
