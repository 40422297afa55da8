package livepreview

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/resume/model"
)

// ResumeSource loads a resume owned by a user.
type ResumeSource interface {
	Get(ctx context.Context, userID, id string) (model.Resume, error)
}

// Handler upgrades live preview connections.
type Handler struct {
	Hub      *Hub
	Resumes  ResumeSource
	upgrader *websocket.Upgrader
}

// NewHandler constructs a Handler. Browsers are accepted from the listed
// origins; "*" accepts any origin.
func NewHandler(hub *Hub, src ResumeSource, allowedOrigins []string) *Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &Handler{
		Hub:     hub,
		Resumes: src,
		upgrader: &websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed["*"] || allowed[origin]
			},
		},
	}
}

// RegisterRoutes attaches the live preview route to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/resumes/:id/live", h.live)
}

func (h *Handler) live(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.ResumeIDKey, id)
	userID := middleware.UserIDFromContext(c)

	if _, err := h.Resumes.Get(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, resumes.ErrNotFound) {
			respond.ResumeNotFound(c)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch resume", nil)
		return
	}

	load := func(ctx context.Context) (model.Resume, error) {
		return h.Resumes.Get(ctx, userID, id)
	}
	if err := Serve(h.Hub, h.upgrader, c.Writer, c.Request, id, userID, load); err != nil {
		// The upgrader has already written the HTTP error.
		telemetry.Error("live preview upgrade failed", map[string]any{"resume_id": id, "error": err.Error()})
		c.Abort()
	}
}
