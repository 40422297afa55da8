package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"resume-builder/internal/shared/auth"
)

func TestAuthAllowsOptionsWithoutIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Auth("dev"))
	router.OPTIONS("/api/v1/resumes/:id", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/resumes/resume_1", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
}

func TestAuthResolvesIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")

	router := gin.New()
	router.Use(Auth("dev"))
	router.GET("/api/v1/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": UserIDFromContext(c), "guest": IsGuest(c)})
	})
	router.GET("/api/v1/templates", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	token, err := auth.SignJWT(auth.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user-7"}})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	cases := []struct {
		name   string
		setup  func(r *http.Request)
		target string
		status int
		body   string
	}{
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }, "/api/v1/whoami", 200, `{"guest":false,"userId":"user-7"}`},
		{"guest", func(r *http.Request) { r.Header.Set("X-Guest-Id", "g1") }, "/api/v1/whoami", 200, `{"guest":true,"userId":"guest:g1"}`},
		{"bad token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, "/api/v1/whoami", 401, ""},
		{"missing", func(r *http.Request) {}, "/api/v1/whoami", 401, ""},
		{"websocket query", func(r *http.Request) { r.Header.Set("Upgrade", "websocket") }, "/api/v1/whoami?guestId=g2", 200, `{"guest":true,"userId":"guest:g2"}`},
		{"query ignored without upgrade", func(r *http.Request) {}, "/api/v1/whoami?guestId=g2", 401, ""},
		{"public", func(r *http.Request) {}, "/api/v1/templates", 200, ""},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.target, nil)
		tc.setup(req)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != tc.status {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.status, resp.Code)
		}
		if tc.body != "" && resp.Body.String() != tc.body {
			t.Fatalf("%s: unexpected body %s", tc.name, resp.Body.String())
		}
	}
}
