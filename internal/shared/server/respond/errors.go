package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/telemetry"
)

// DashboardPath is where clients send the user when a resume is gone.
const DashboardPath = "/dashboard"

// ErrorBody defines the standardized error object.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// context keys set by the middleware package, copied in a log line
var logContextKeys = map[string]string{
	"requestId":  "request_id",
	"userId":     "user_id",
	"resumeId":   "resume_id",
	"section":    "section",
	"templateId": "template_id",
}

// Error logs and sends a standardized error response, aborting the chain.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	fields := map[string]any{
		"status":  status,
		"code":    code,
		"message": message,
		"path":    c.Request.URL.Path,
		"method":  c.Request.Method,
	}
	for key, field := range logContextKeys {
		if v := c.GetString(key); v != "" {
			fields[field] = v
		}
	}
	if isGuest, ok := c.Get("isGuest"); ok {
		fields["is_guest"] = isGuest
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{Code: code, Message: message, Details: details},
	})
}

// ResumeNotFound is the 404 for a resume that is missing or not the caller's.
// It carries a redirect hint back to the dashboard.
func ResumeNotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "not_found", "resume not found", map[string]any{"redirect": DashboardPath})
}
