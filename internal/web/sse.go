package web

import (
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/sse"

	"github.com/visitdesk/visitdesk/internal/models"
)

// heartbeatInterval keeps proxies from timing out idle SSE connections
const heartbeatInterval = 15 * time.Second

// SSEManager handles server-sent events to connected list views. Each client
// gets a buffered event channel; a slow client drops events rather than
// blocking the notifier.
type SSEManager struct {
	clients  map[string]chan sse.Event
	mu       sync.RWMutex
	shutdown chan struct{}
	once     sync.Once
}

// NewSSEManager creates a new server-sent events manager
func NewSSEManager() *SSEManager {
	return &SSEManager{
		clients:  make(map[string]chan sse.Event),
		shutdown: make(chan struct{}),
	}
}

// ServeHTTP implements the http.Handler interface for SSE connections
func (sm *SSEManager) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache, no-transform")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx proxy buffering

	clientID := fmt.Sprintf("%d", time.Now().UnixNano())
	events := make(chan sse.Event, 8)

	sm.mu.Lock()
	sm.clients[clientID] = events
	sm.mu.Unlock()

	defer func() {
		sm.mu.Lock()
		delete(sm.clients, clientID)
		sm.mu.Unlock()
		log.Printf("SSE client disconnected: %s", clientID)
	}()

	log.Printf("SSE client connected: %s from %s", clientID, r.RemoteAddr)

	// Retry directive plus an initial event so the client can load current
	// data immediately
	fmt.Fprintf(w, "retry: 5000\n")
	sse.Encode(w, sse.Event{
		Event: "connected",
		Data:  map[string]string{"id": clientID},
	})
	flusher.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	done := r.Context().Done()

	for {
		select {
		case <-done:
			return
		case <-sm.shutdown:
			return
		case <-heartbeat.C:
			// Comment line as a lightweight ping
			if _, err := fmt.Fprintf(w, ": heartbeat %s\n\n", time.Now().Format(time.RFC3339)); err != nil {
				log.Printf("Error sending heartbeat to client %s: %v", clientID, err)
				return
			}
			flusher.Flush()
		case event := <-events:
			if err := sse.Encode(w, event); err != nil {
				log.Printf("Error sending SSE event to client %s: %v", clientID, err)
				return
			}
			flusher.Flush()
		}
	}
}

// NotifyVisitUpdate broadcasts an update event to all connected clients.
// The event carries no payload; list views refetch the partial on trigger.
func (sm *SSEManager) NotifyVisitUpdate(visit *models.Visit) {
	event := sse.Event{
		Id:    fmt.Sprintf("%d", time.Now().UnixNano()),
		Event: "update",
		Data:  "Update available",
	}

	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for id, events := range sm.clients {
		select {
		case events <- event:
		default:
			log.Printf("Dropping update event for slow SSE client %s", id)
		}
	}
}

// ClientCount returns the number of connected clients
func (sm *SSEManager) ClientCount() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.clients)
}

// Shutdown disconnects all clients
func (sm *SSEManager) Shutdown() {
	sm.once.Do(func() {
		close(sm.shutdown)
	})
}
