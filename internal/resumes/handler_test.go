package resumes_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/bootstrap"
	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/config"
	"resume-builder/resume/model"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Port:            "0",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		LocalStoreDir:   t.TempDir(),
		Env:             "dev",
		ObjectStoreType: "local",
	}

	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	return app.Router
}

func do(t *testing.T, router http.Handler, method, path, guest string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if guest != "" {
		req.Header.Set("X-Guest-Id", guest)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

type errorEnvelope struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func TestTemplatesCatalogIsPublic(t *testing.T) {
	router := newTestRouter(t)

	resp := do(t, router, http.MethodGet, "/api/v1/templates", "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	entries := decode[[]struct {
		ID     string   `json:"id"`
		Colors []string `json:"colors"`
	}](t, resp)
	if len(entries) != 4 || entries[0].ID != "modern" || entries[3].ID != "minimal" {
		t.Fatalf("unexpected catalog: %+v", entries)
	}
}

func TestResumeLifecycle(t *testing.T) {
	router := newTestRouter(t)

	resp := do(t, router, http.MethodPost, "/api/v1/resumes", "g1", map[string]string{"templateId": "creative"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
	created := decode[model.Resume](t, resp)
	if created.ID == "" || created.TemplateID != "creative" {
		t.Fatalf("unexpected resume: %+v", created)
	}
	base := "/api/v1/resumes/" + created.ID

	resp = do(t, router, http.MethodPatch, base+"/personal", "g1", map[string]string{"firstName": "Ada", "lastName": "Lovelace"})
	if resp.Code != http.StatusOK {
		t.Fatalf("personal: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	resp = do(t, router, http.MethodPatch, base+"/contact", "g1", map[string]string{"email": "ada@example.com"})
	if resp.Code != http.StatusOK {
		t.Fatalf("contact: expected 200, got %d", resp.Code)
	}

	resp = do(t, router, http.MethodPost, base+"/skills", "g1", nil)
	if resp.Code != http.StatusCreated {
		t.Fatalf("add skill: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	added := decode[struct {
		Index  int          `json:"index"`
		Resume model.Resume `json:"resume"`
	}](t, resp)
	if added.Index != 0 || added.Resume.Skills[0].Level != 3 {
		t.Fatalf("unexpected new skill: %+v", added)
	}

	resp = do(t, router, http.MethodPatch, base+"/skills/0", "g1", `{"name": "Analytical Engines", "level": 5}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("update skill: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	resp = do(t, router, http.MethodPost, base+"/experience", "g1", nil)
	if resp.Code != http.StatusCreated {
		t.Fatalf("add experience: expected 201, got %d", resp.Code)
	}
	resp = do(t, router, http.MethodPatch, base+"/experience/0", "g1", `{"company": "Babbage & Co", "endDate": "1843", "current": true}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("update experience: expected 200, got %d", resp.Code)
	}

	resp = do(t, router, http.MethodGet, base, "g1", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", resp.Code)
	}
	got := decode[model.Resume](t, resp)
	if got.PersonalInfo.FirstName != "Ada" || got.PersonalInfo.Contact.Email != "ada@example.com" {
		t.Fatalf("personal info not saved: %+v", got.PersonalInfo)
	}
	if got.Skills[0].Name != "Analytical Engines" || got.Skills[0].Level != 5 {
		t.Fatalf("skill not saved: %+v", got.Skills[0])
	}
	if got.Experience[0].EndDate != model.Present || !got.Experience[0].Current {
		t.Fatalf("current experience should end at Present: %+v", got.Experience[0])
	}

	resp = do(t, router, http.MethodGet, base+"/preview?scale=0.6", "g1", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("preview: expected 200, got %d", resp.Code)
	}
	html := resp.Body.String()
	if !strings.Contains(html, "scale(0.6)") || !strings.Contains(html, `data-template="creative"`) {
		t.Fatalf("unexpected preview: %s", html)
	}

	resp = do(t, router, http.MethodGet, "/api/v1/resumes", "g1", nil)
	list := decode[[]struct {
		ResumeID string `json:"resumeId"`
		Name     string `json:"name"`
	}](t, resp)
	if len(list) != 1 || list[0].Name != "Ada Lovelace" {
		t.Fatalf("unexpected list: %+v", list)
	}

	resp = do(t, router, http.MethodDelete, base+"/skills/0", "g1", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("remove skill: expected 200, got %d", resp.Code)
	}
	if after := decode[model.Resume](t, resp); len(after.Skills) != 0 {
		t.Fatalf("skill not removed: %+v", after.Skills)
	}

	resp = do(t, router, http.MethodDelete, base, "g1", nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", resp.Code)
	}
	resp = do(t, router, http.MethodGet, base, "g1", nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.Code)
	}
}

func TestMissingResumeRedirectsToDashboard(t *testing.T) {
	router := newTestRouter(t)

	resp := do(t, router, http.MethodGet, "/api/v1/resumes/resume_missing", "g1", nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	env := decode[errorEnvelope](t, resp)
	if env.Error.Code != "not_found" || env.Error.Details["redirect"] != "/dashboard" {
		t.Fatalf("unexpected error: %+v", env)
	}
}

func TestResumesAreScopedToOwner(t *testing.T) {
	router := newTestRouter(t)

	resp := do(t, router, http.MethodPost, "/api/v1/resumes", "owner", nil)
	created := decode[model.Resume](t, resp)

	resp = do(t, router, http.MethodGet, "/api/v1/resumes/"+created.ID, "someone-else", nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for another user, got %d", resp.Code)
	}
	resp = do(t, router, http.MethodGet, "/api/v1/resumes/"+created.ID, "", nil)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %d", resp.Code)
	}
}

func TestReplaceValidatesSchema(t *testing.T) {
	router := newTestRouter(t)

	resp := do(t, router, http.MethodPost, "/api/v1/resumes", "g1", nil)
	created := decode[model.Resume](t, resp)
	path := "/api/v1/resumes/" + created.ID

	resp = do(t, router, http.MethodPut, path, "g1", `{"personalInfo": {"firstName": 7}}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for schema violation, got %d", resp.Code)
	}

	created.Title = "Engine Notes"
	created.Projects = []model.Project{{ID: "proj_1", Name: "Difference Engine"}}
	resp = do(t, router, http.MethodPut, path, "g1", created)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	saved := decode[model.Resume](t, resp)
	if saved.Title != "Engine Notes" || len(saved.Projects) != 1 {
		t.Fatalf("unexpected saved resume: %+v", saved)
	}
	if !saved.UpdatedAt.After(created.UpdatedAt) && !saved.UpdatedAt.Equal(created.UpdatedAt) {
		t.Fatalf("updatedAt went backwards")
	}
}

func TestSectionRoutesRejectBadInput(t *testing.T) {
	router := newTestRouter(t)

	resp := do(t, router, http.MethodPost, "/api/v1/resumes", "g1", nil)
	created := decode[model.Resume](t, resp)
	base := "/api/v1/resumes/" + created.ID

	if resp := do(t, router, http.MethodPost, base+"/hobbies", "g1", nil); resp.Code != http.StatusNotFound {
		t.Fatalf("unknown section: expected 404, got %d", resp.Code)
	}
	if resp := do(t, router, http.MethodPatch, base+"/skills/0", "g1", `{"name": "Go"}`); resp.Code != http.StatusBadRequest {
		t.Fatalf("out of range: expected 400, got %d", resp.Code)
	}
	if resp := do(t, router, http.MethodPatch, base+"/skills/x", "g1", `{}`); resp.Code != http.StatusBadRequest {
		t.Fatalf("bad index: expected 400, got %d", resp.Code)
	}
	if resp := do(t, router, http.MethodGet, base+"/preview?scale=-1", "g1", nil); resp.Code != http.StatusBadRequest {
		t.Fatalf("bad scale: expected 400, got %d", resp.Code)
	}
}

func TestListLimitDefaultsAndCaps(t *testing.T) {
	router := newTestRouter(t)

	for i := 0; i < 22; i++ {
		if resp := do(t, router, http.MethodPost, "/api/v1/resumes", "g1", nil); resp.Code != http.StatusCreated {
			t.Fatalf("create %d: expected 201, got %d", i, resp.Code)
		}
	}

	cases := map[string]int{
		"":           20,
		"?limit=0":   20,
		"?limit=-5":  20,
		"?limit=abc": 20,
		"?limit=3":   3,
		"?limit=500": 22,
		"?offset=-1": 20,
		"?offset=20": 2,
	}
	for query, want := range cases {
		resp := do(t, router, http.MethodGet, "/api/v1/resumes"+query, "g1", nil)
		if resp.Code != http.StatusOK {
			t.Fatalf("%q: expected 200, got %d", query, resp.Code)
		}
		if got := decode[[]resumes.SummaryResponse](t, resp); len(got) != want {
			t.Fatalf("%q: expected %d resumes, got %d", query, want, len(got))
		}
	}
}

func TestEmptyEditsAreRejected(t *testing.T) {
	router := newTestRouter(t)

	resp := do(t, router, http.MethodPost, "/api/v1/resumes", "g1", nil)
	created := decode[model.Resume](t, resp)
	base := "/api/v1/resumes/" + created.ID
	if resp := do(t, router, http.MethodPost, base+"/skills", "g1", nil); resp.Code != http.StatusCreated {
		t.Fatalf("add skill: expected 201, got %d", resp.Code)
	}
	before := decode[model.Resume](t, do(t, router, http.MethodGet, base, "g1", nil))

	for _, path := range []string{base, base + "/personal", base + "/contact", base + "/skills/0"} {
		resp := do(t, router, http.MethodPatch, path, "g1", `{}`)
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", path, resp.Code)
		}
		if env := decode[errorEnvelope](t, resp); env.Error.Code != "validation_error" {
			t.Fatalf("%s: unexpected error code %q", path, env.Error.Code)
		}
	}

	after := decode[model.Resume](t, do(t, router, http.MethodGet, base, "g1", nil))
	if !after.UpdatedAt.Equal(before.UpdatedAt) {
		t.Fatalf("updatedAt moved from %v to %v", before.UpdatedAt, after.UpdatedAt)
	}
}
