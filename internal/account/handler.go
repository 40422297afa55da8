package account

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

const guestHeader = "X-Guest-Id"

// Handler serves the caller's identity and the guest claim.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.me)
	rg.POST("/account/claim-guest", h.claimGuest)
}

type meResponse struct {
	UserID  string `json:"userId"`
	IsGuest bool   `json:"isGuest"`
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	// CanClaim is set for a signed-in caller that still sends a guest id,
	// which is when the client should offer to import guest resumes.
	CanClaim bool `json:"canClaim"`
}

func (h *Handler) me(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
		return
	}
	guest := middleware.IsGuest(c)
	respond.JSON(c, http.StatusOK, meResponse{
		UserID:   userID,
		IsGuest:  guest,
		Email:    middleware.UserEmailFromContext(c),
		Name:     middleware.UserNameFromContext(c),
		CanClaim: !guest && validGuestID(c.GetHeader(guestHeader)),
	})
}

func (h *Handler) claimGuest(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}
	owner := strings.TrimSpace(middleware.UserIDFromContext(c))
	if owner == "" || middleware.IsGuest(c) {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "login required", nil)
		return
	}

	guestID := strings.TrimSpace(c.GetHeader(guestHeader))
	switch {
	case guestID == "":
		respond.Error(c, http.StatusBadRequest, "validation_error", "missing X-Guest-Id header", []map[string]string{
			{"field": guestHeader, "issue": "required"},
		})
		return
	case !validGuestID(guestID):
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid guest id", []map[string]string{
			{"field": guestHeader, "issue": "invalid"},
		})
		return
	}

	result, err := h.Svc.ClaimGuest(c.Request.Context(), middleware.GuestPrefix+guestID, owner)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to claim guest resumes", nil)
		return
	}
	respond.JSON(c, http.StatusOK, result)
}

func validGuestID(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	_, err := uuid.Parse(raw)
	return err == nil
}
