package live

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/avvvet/animalia/internal/comm"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	writeWait  = 10 * time.Second
	sendBuffer = 16
)

type client struct {
	roomID int
	conn   *websocket.Conn
	send   chan comm.Event
	done   chan struct{}
}

// Hub keeps the websocket connections watching a room's leaderboard.
type Hub struct {
	connMap  sync.Map // socketId -> *client
	upgrader websocket.Upgrader
}

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Publish lets the hub stand in for the broker when NATS is not configured.
func (h *Hub) Publish(_ context.Context, event comm.Event) error {
	h.Deliver(event)
	return nil
}

// Deliver queues the event for every socket of the event's room. A socket
// whose buffer is full misses the event.
func (h *Hub) Deliver(event comm.Event) {
	h.connMap.Range(func(key, value any) bool {
		c := value.(*client)
		if !event.ForRoom(c.roomID) {
			return true
		}
		select {
		case c.send <- event:
		default:
			log.Warnf("live socket %s is slow, dropping %s", key, event.Type)
		}
		return true
	})
}

// Count returns the number of sockets watching roomID.
func (h *Hub) Count(roomID int) int {
	n := 0
	h.connMap.Range(func(_, value any) bool {
		if value.(*client).roomID == roomID {
			n++
		}
		return true
	})
	return n
}

// ServeRoom upgrades the request and streams roomID's events until the
// client goes away.
func (h *Hub) ServeRoom(w http.ResponseWriter, r *http.Request, roomID int) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("Failed to upgrade to WebSocket: %v", err)
		return
	}

	socketId := uuid.New().String()
	c := &client{
		roomID: roomID,
		conn:   conn,
		send:   make(chan comm.Event, sendBuffer),
		done:   make(chan struct{}),
	}
	h.connMap.Store(socketId, c)
	log.Infof("live socket %s watching room %d", socketId, roomID)

	go h.writeLoop(socketId, c)

	defer func() {
		h.connMap.Delete(socketId)
		close(c.done)
		conn.Close()
		log.Infof("live socket %s closed", socketId)
	}()

	// the feed is one way, reading only detects the close
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Errorf("WebSocket unexpected close error for socket %s: %v", socketId, err)
			}
			return
		}
	}
}

func (h *Hub) writeLoop(socketId string, c *client) {
	for {
		select {
		case event := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(event); err != nil {
				log.Errorf("live socket %s write failed: %v", socketId, err)
				return
			}
		case <-c.done:
			return
		}
	}
}
