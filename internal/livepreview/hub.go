// Package livepreview pushes a freshly rendered resume to every open editor
// after each committed change.
package livepreview

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/resume/model"
	"resume-builder/resume/render"
)

const (
	RenderType  = "render"
	DeletedType = "deleted"
	ErrorType   = "error"

	sendBuffer      = 32
	broadcastBuffer = 256
)

// Message is the frame sent to subscribers.
type Message struct {
	Type       string    `json:"type"`
	DocumentID string    `json:"documentId"`
	HTML       string    `json:"html,omitempty"`
	Width      int       `json:"width,omitempty"`
	Height     int       `json:"height,omitempty"`
	UpdatedAt  time.Time `json:"updatedAt,omitempty"`
	Error      string    `json:"error,omitempty"`
}

type frame struct {
	docID     string
	payload   []byte
	updatedAt time.Time
	closing   bool
	// target narrows delivery to one client of the room.
	target *Client
}

// Hub fans rendered snapshots out to the subscribers of each resume.
// Frames for one resume are delivered in publish order, and a client never
// receives a revision older than one it has already been sent.
type Hub struct {
	Registry *render.Registry

	register   chan *Client
	unregister chan *Client
	broadcast  chan frame
	done       chan struct{}

	mu    sync.RWMutex
	rooms map[string]map[*Client]bool
}

// NewHub constructs a Hub. Run must be started before clients connect.
func NewHub(registry *render.Registry) *Hub {
	if registry == nil {
		registry = render.NewRegistry(nil)
	}
	return &Hub{
		Registry:   registry,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan frame, broadcastBuffer),
		done:       make(chan struct{}),
		rooms:      make(map[string]map[*Client]bool),
	}
}

// Run serves the hub until ctx is done, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for docID, clients := range h.rooms {
				for c := range clients {
					close(c.send)
				}
				delete(h.rooms, docID)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			if h.rooms[c.docID] == nil {
				h.rooms[c.docID] = make(map[*Client]bool)
			}
			h.rooms[c.docID][c] = true
			h.mu.Unlock()
			close(c.joined)
			telemetry.Info("live preview joined", map[string]any{"resume_id": c.docID, "user_id": c.userID})

		case c := <-h.unregister:
			h.drop(c)

		case f := <-h.broadcast:
			for _, c := range h.targets(f) {
				if !f.closing && f.updatedAt.Before(c.seen) {
					continue
				}
				select {
				case c.send <- f.payload:
				default:
					telemetry.Error("live preview client lagging", map[string]any{"resume_id": c.docID, "user_id": c.userID})
					h.drop(c)
					continue
				}
				if f.closing {
					h.drop(c)
					continue
				}
				if f.updatedAt.After(c.seen) {
					c.seen = f.updatedAt
				}
			}
		}
	}
}

func (h *Hub) targets(f frame) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	room := h.rooms[f.docID]
	if f.target != nil {
		if room[f.target] {
			return []*Client{f.target}
		}
		return nil
	}
	out := make([]*Client, 0, len(room))
	for c := range room {
		out = append(out, c)
	}
	return out
}

// join adds c to its room and returns once c counts as a subscriber. It
// reports false once the hub has stopped.
func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
	case <-h.done:
		return false
	}
	select {
	case <-c.joined:
		return true
	case <-h.done:
		return false
	}
}

// prime sends c the snapshot it opens with. Commits already queued for the
// room are delivered first; prime is skipped if one of them was newer.
func (h *Hub) prime(c *Client, doc model.Resume) {
	h.deliver(frame{
		docID:     doc.ID,
		payload:   h.encode(h.renderMessage(doc)),
		updatedAt: doc.UpdatedAt,
		target:    c,
	})
}

// reject sends c a final frame and disconnects it.
func (h *Hub) reject(c *Client, msg Message) {
	h.deliver(frame{docID: c.docID, payload: h.encode(msg), closing: true, target: c})
}

// deliver queues f, waiting for room in the queue.
func (h *Hub) deliver(f frame) {
	if f.payload == nil {
		return
	}
	select {
	case h.broadcast <- f:
	case <-h.done:
	}
}

func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) drop(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room := h.rooms[c.docID]
	if _, ok := room[c]; !ok {
		return
	}
	delete(room, c)
	close(c.send)
	if len(room) == 0 {
		delete(h.rooms, c.docID)
	}
}

// Subscribers reports how many clients watch docID.
func (h *Hub) Subscribers(docID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[docID])
}

// Publish renders doc and queues it for its subscribers. Nothing is rendered
// when nobody is watching.
func (h *Hub) Publish(doc model.Resume) {
	if h.Subscribers(doc.ID) == 0 {
		return
	}
	h.enqueue(frame{docID: doc.ID, payload: h.encode(h.renderMessage(doc)), updatedAt: doc.UpdatedAt})
}

// Removed tells subscribers the resume is gone and disconnects them.
func (h *Hub) Removed(id string) {
	if h.Subscribers(id) == 0 {
		return
	}
	h.enqueue(frame{
		docID:   id,
		payload: h.encode(Message{Type: DeletedType, DocumentID: id}),
		closing: true,
	})
}

func (h *Hub) enqueue(f frame) {
	if f.payload == nil {
		return
	}
	select {
	case h.broadcast <- f:
	default:
		telemetry.Error("live preview queue full", map[string]any{"resume_id": f.docID})
	}
}

func (h *Hub) renderMessage(doc model.Resume) Message {
	layout, err := h.Registry.Render(doc)
	if err != nil {
		telemetry.Error("live preview render failed", map[string]any{
			"resume_id":   doc.ID,
			"template_id": doc.TemplateID,
			"error":       err.Error(),
		})
		return Message{Type: ErrorType, DocumentID: doc.ID, Error: "render failed"}
	}
	metrics.IncPreviewRender()
	return Message{
		Type:       RenderType,
		DocumentID: doc.ID,
		HTML:       string(layout.HTML),
		Width:      layout.Width,
		Height:     layout.Height,
		UpdatedAt:  doc.UpdatedAt,
	}
}

func (h *Hub) encode(msg Message) []byte {
	payload, err := json.Marshal(msg)
	if err != nil {
		telemetry.Error("live preview marshal failed", map[string]any{"resume_id": msg.DocumentID, "error": err.Error()})
		return nil
	}
	return payload
}
