package exports

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/resume/export"
	"resume-builder/resume/preview"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches export routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resumes/:id/export", h.export)
	rg.GET("/resumes/:id/exports", h.history)
	rg.GET("/resumes/:id/exports/:exportId", h.download)
}

func (h *Handler) export(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.ResumeIDKey, id)

	scale := preview.FullScale
	if v := c.Query("scale"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed <= 0 {
			respond.Error(c, http.StatusBadRequest, "validation_error", "scale must be a positive number", nil)
			return
		}
		scale = parsed
	}

	res, err := h.Svc.Export(c.Request.Context(), middleware.UserIDFromContext(c), id, scale)
	if err != nil {
		if errors.Is(err, resumes.ErrNotFound) {
			respond.ResumeNotFound(c)
			return
		}
		details := map[string]any{}
		var fault *export.Fault
		if errors.As(err, &fault) {
			details["step"] = fault.Step
		}
		respond.Error(c, http.StatusInternalServerError, "export_failed", "There was a problem creating your PDF. Please try again.", details)
		return
	}

	c.Set(middleware.TemplateKey, res.Record.TemplateID)
	c.Header("X-Export-Id", res.Record.ID)
	respond.Attachment(c, res.Artifact.FileName, res.Artifact.ContentType, res.Artifact.Data)
}

func (h *Handler) history(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.ResumeIDKey, id)

	limit := 20
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}

	recs, err := h.Svc.History(c.Request.Context(), middleware.UserIDFromContext(c), id, limit)
	if err != nil {
		if errors.Is(err, resumes.ErrNotFound) {
			respond.ResumeNotFound(c)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list exports", nil)
		return
	}
	respond.JSON(c, http.StatusOK, recs)
}

func (h *Handler) download(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.ResumeIDKey, id)

	rec, rc, err := h.Svc.Open(c.Request.Context(), middleware.UserIDFromContext(c), id, c.Param("exportId"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "export not found", nil)
		case errors.Is(err, ErrNotArchived):
			respond.Error(c, http.StatusGone, "not_archived", "export was not kept", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to open export", nil)
		}
		return
	}
	defer rc.Close()

	respond.AttachmentStream(c, rec.FileName, export.ContentType, rec.SizeBytes, rc)
}
