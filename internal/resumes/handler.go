package resumes

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/resume/editor"
	"resume-builder/resume/model"
	"resume-builder/resume/preview"
	"resume-builder/resume/render"
)

const maxBodySize = 1 << 20 // 1MB

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc      *Service
	Registry *render.Registry
}

// NewHandler constructs a Handler. A nil registry uses the default templates.
func NewHandler(svc *Service, registry *render.Registry) *Handler {
	if registry == nil {
		registry = render.NewRegistry(nil)
	}
	return &Handler{Svc: svc, Registry: registry}
}

// RegisterRoutes attaches resume routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/templates", h.templates)
	rg.POST("/resumes", h.create)
	rg.GET("/resumes", h.list)
	rg.GET("/resumes/:id", h.get)
	rg.PUT("/resumes/:id", h.replace)
	rg.PATCH("/resumes/:id", h.patch)
	rg.DELETE("/resumes/:id", h.delete)
	rg.GET("/resumes/:id/preview", h.preview)
	rg.PATCH("/resumes/:id/personal", h.personal)
	rg.PATCH("/resumes/:id/contact", h.contact)
	rg.POST("/resumes/:id/:section", h.addEntry)
	rg.PATCH("/resumes/:id/:section/:index", h.updateEntry)
	rg.DELETE("/resumes/:id/:section/:index", h.removeEntry)
}

func (h *Handler) templates(c *gin.Context) {
	respond.JSON(c, http.StatusOK, render.Catalog())
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
			return
		}
	}

	session := h.session(c)
	doc, err := session.Svc.Create(c.Request.Context(), session.User, req.TemplateID)
	if err != nil {
		writeError(c, err, "failed to create resume")
		return
	}
	c.Set(middleware.ResumeIDKey, doc.ID)
	c.Set(middleware.TemplateKey, doc.TemplateID)
	respond.JSON(c, http.StatusCreated, doc)
}

const (
	defaultListLimit = 20
	maxListLimit     = 50
)

func (h *Handler) list(c *gin.Context) {
	// Repos differ on what a zero limit means, so the handler never passes one.
	limit := queryInt(c, "limit", defaultListLimit)
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := queryInt(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	docs, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c), limit, offset)
	if err != nil {
		writeError(c, err, "failed to list resumes")
		return
	}

	resp := make([]SummaryResponse, 0, len(docs))
	for _, doc := range docs {
		resp = append(resp, toSummary(doc))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) get(c *gin.Context) {
	session := h.session(c)
	doc, err := session.Open(c.Request.Context(), h.resumeID(c))
	if err != nil {
		writeError(c, err, "failed to fetch resume")
		return
	}
	respond.JSON(c, http.StatusOK, doc)
}

func (h *Handler) replace(c *gin.Context) {
	id := h.resumeID(c)
	raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read body", nil)
		return
	}
	if err := model.ValidateJSON(raw); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	var doc model.Resume
	if err := json.Unmarshal(raw, &doc); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if doc.ID != "" && doc.ID != id {
		respond.Error(c, http.StatusBadRequest, "validation_error", "id does not match path", nil)
		return
	}
	doc.ID = id

	session := h.session(c)
	saved, err := session.Save(c.Request.Context(), doc)
	if err != nil {
		writeError(c, err, "failed to save resume")
		return
	}
	c.Set(middleware.TemplateKey, saved.TemplateID)
	respond.JSON(c, http.StatusOK, saved)
}

func (h *Handler) patch(c *gin.Context) {
	var req patchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	ms := []Mutation{}
	if req.Title != nil {
		ms = append(ms, SetTitle(strings.TrimSpace(*req.Title)))
	}
	if req.TemplateID != nil {
		c.Set(middleware.TemplateKey, *req.TemplateID)
		ms = append(ms, SetTemplate(*req.TemplateID))
	}
	if len(ms) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "no fields to update", nil)
		return
	}
	h.apply(c, Chain(ms...), http.StatusOK)
}

func (h *Handler) delete(c *gin.Context) {
	session := h.session(c)
	if err := session.Delete(c.Request.Context(), h.resumeID(c)); err != nil {
		writeError(c, err, "failed to delete resume")
		return
	}
	respond.NoContent(c)
}

func (h *Handler) preview(c *gin.Context) {
	scale := preview.FullScale
	if v := c.Query("scale"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed <= 0 {
			respond.Error(c, http.StatusBadRequest, "validation_error", "scale must be a positive number", nil)
			return
		}
		scale = parsed
	}

	doc, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), h.resumeID(c))
	if err != nil {
		writeError(c, err, "failed to fetch resume")
		return
	}
	c.Set(middleware.TemplateKey, doc.TemplateID)

	layout, err := h.Registry.Render(doc)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "render_failed", "failed to render resume", nil)
		return
	}
	metrics.IncPreviewRender()

	respond.HTML(c, http.StatusOK, preview.Present(layout, scale))
}

func (h *Handler) personal(c *gin.Context) {
	c.Set(middleware.SectionKey, "personal")
	fields, ok := bindFields(c)
	if !ok {
		return
	}
	ms := make([]Mutation, 0, len(fields))
	for _, k := range sortedKeys(fields) {
		ms = append(ms, SetPersonal(k, fields[k]))
	}
	h.apply(c, Chain(ms...), http.StatusOK)
}

func (h *Handler) contact(c *gin.Context) {
	c.Set(middleware.SectionKey, "contact")
	fields, ok := bindFields(c)
	if !ok {
		return
	}
	ms := make([]Mutation, 0, len(fields))
	for _, k := range sortedKeys(fields) {
		ms = append(ms, SetContact(k, fields[k]))
	}
	h.apply(c, Chain(ms...), http.StatusOK)
}

func (h *Handler) addEntry(c *gin.Context) {
	section := c.Param("section")
	c.Set(middleware.SectionKey, section)
	ed, ok := editor.Lookup(section)
	if !ok {
		respond.Error(c, http.StatusNotFound, "not_found", "unknown section", nil)
		return
	}

	session := h.session(c)
	doc, err := session.Apply(c.Request.Context(), h.resumeID(c), AddEntry(section))
	if err != nil {
		writeError(c, err, "failed to update resume")
		return
	}
	respond.JSON(c, http.StatusCreated, addEntryResponse{Index: ed.Len(doc) - 1, Resume: doc})
}

func (h *Handler) updateEntry(c *gin.Context) {
	section, index, ok := sectionIndex(c)
	if !ok {
		return
	}
	fields, ok := bindFields(c)
	if !ok {
		return
	}
	ms := make([]Mutation, 0, len(fields))
	for _, k := range sortedKeys(fields) {
		ms = append(ms, UpdateEntry(section, index, k, fields[k]))
	}
	h.apply(c, Chain(ms...), http.StatusOK)
}

func (h *Handler) removeEntry(c *gin.Context) {
	section, index, ok := sectionIndex(c)
	if !ok {
		return
	}
	h.apply(c, RemoveEntry(section, index), http.StatusOK)
}

func (h *Handler) apply(c *gin.Context, m Mutation, status int) {
	session := h.session(c)
	doc, err := session.Apply(c.Request.Context(), h.resumeID(c), m)
	if err != nil {
		writeError(c, err, "failed to update resume")
		return
	}
	respond.JSON(c, status, doc)
}

func (h *Handler) session(c *gin.Context) *Session {
	return NewSession(h.Svc, middleware.UserIDFromContext(c))
}

func (h *Handler) resumeID(c *gin.Context) string {
	id := strings.TrimSpace(c.Param("id"))
	c.Set(middleware.ResumeIDKey, id)
	return id
}

func sectionIndex(c *gin.Context) (string, int, bool) {
	section := c.Param("section")
	c.Set(middleware.SectionKey, section)
	if _, ok := editor.Lookup(section); !ok {
		respond.Error(c, http.StatusNotFound, "not_found", "unknown section", nil)
		return "", 0, false
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "index must be a non-negative integer", nil)
		return "", 0, false
	}
	return section, index, true
}

// bindFields decodes a flat, non-empty JSON object, keeping numbers as
// json.Number.
func bindFields(c *gin.Context) (map[string]any, bool) {
	raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read body", nil)
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	fields := map[string]any{}
	if err := dec.Decode(&fields); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "body must be a JSON object", nil)
		return nil, false
	}
	if len(fields) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "no fields to update", nil)
		return nil, false
	}
	return fields, true
}

// sortedKeys fixes the order fields are applied in, so "current" is seen
// before "endDate".
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func queryInt(c *gin.Context, key string, def int) int {
	if v := c.Query(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.ResumeNotFound(c)
	case errors.Is(err, ErrInvalidInput), errors.Is(err, model.ErrInvalidDocument):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
