package livepreview

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/resume/model"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Client is one websocket subscribed to one resume. Clients only listen;
// anything they send is discarded.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	docID  string
	userID string
	send   chan []byte
	joined chan struct{}

	// seen is the newest revision sent so far. Only Run touches it.
	seen time.Time
}

func newClient(hub *Hub, conn *websocket.Conn, docID, userID string) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		docID:  docID,
		userID: userID,
		send:   make(chan []byte, sendBuffer),
		joined: make(chan struct{}),
	}
}

// Loader fetches the current copy of the watched resume.
type Loader func(ctx context.Context) (model.Resume, error)

// Serve upgrades the request, joins the resume's room, sends the current
// render from load and then streams every later commit until the socket
// closes. The snapshot is loaded after joining so no commit falls between
// the two.
func Serve(hub *Hub, upgrader *websocket.Upgrader, w http.ResponseWriter, r *http.Request, docID, userID string, load Loader) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := newClient(hub, conn, docID, userID)
	if !hub.join(c) {
		_ = conn.Close()
		return nil
	}

	go c.writePump()
	go c.readPump()

	doc, err := load(r.Context())
	switch {
	case errors.Is(err, resumes.ErrNotFound):
		hub.reject(c, Message{Type: DeletedType, DocumentID: docID})
	case err != nil:
		telemetry.Error("live preview load failed", map[string]any{"resume_id": docID, "error": err.Error()})
		hub.reject(c, Message{Type: ErrorType, DocumentID: docID, Error: "failed to fetch resume"})
	default:
		hub.prime(c, doc)
	}
	return nil
}

func (c *Client) readPump() {
	defer func() {
		c.hub.leave(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				telemetry.Error("live preview read failed", map[string]any{"resume_id": c.docID, "error": err.Error()})
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
