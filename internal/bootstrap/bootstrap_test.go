package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/deptportal/internal/config"
	"github.com/yigit/deptportal/internal/docstore/memory"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("STORE_DRIVER", config.DriverMemory)
	t.Setenv("JWT_SECRET", "integration-secret-0123456789")
	t.Setenv("SERVER_STORAGE_PATH", t.TempDir())
	cfg, err := config.LoadConfig("does-not-exist.yaml")
	require.NoError(t, err)
	require.NoError(t, cfg.ValidateServer())
	return cfg
}

func newTestRouter(t *testing.T) (*gin.Engine, *Dependencies) {
	t.Helper()
	cfg := testConfig(t)
	deps, err := BuildDependencies(cfg, memory.New(), zerolog.Nop())
	require.NoError(t, err)
	router := SetupRouter(cfg, deps, zerolog.Nop())
	gin.SetMode(gin.TestMode)
	return router, deps
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func call(t *testing.T, router *gin.Engine, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") != "" && bytes.HasPrefix(bytes.TrimSpace(w.Body.Bytes()), []byte("{")) {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func adminToken(t *testing.T, router *gin.Engine, deps *Dependencies) string {
	t.Helper()
	_, _, err := deps.Services.Auth.EnsureAdmin(context.Background(), "", "admin@example.edu", "Dept Admin", "initial123")
	require.NoError(t, err)

	w, env := call(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "admin@example.edu", "password": "initial123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var auth struct {
		Token struct {
			AccessToken string `json:"accessToken"`
		} `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &auth))
	require.NotEmpty(t, auth.Token.AccessToken)
	return auth.Token.AccessToken
}

func TestRouter_HealthAndPing(t *testing.T) {
	router, _ := newTestRouter(t)

	w, _ := call(t, router, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env := call(t, router, http.MethodGet, "/api/v1/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","store":"memory"}`, string(env.Data))
}

func TestRouter_HealthReportsStoreDown(t *testing.T) {
	cfg := testConfig(t)
	store := memory.New()
	deps, err := BuildDependencies(cfg, store, zerolog.Nop())
	require.NoError(t, err)
	router := SetupRouter(cfg, deps, zerolog.Nop())

	store.SetUnavailable(assert.AnError)
	w, env := call(t, router, http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.False(t, env.Success)
}

func TestRouter_WritesRequireAdmin(t *testing.T) {
	router, deps := newTestRouter(t)
	body := map[string]any{"name": "Dr. Pramod", "isActive": true}

	w, _ := call(t, router, http.MethodPost, "/api/v1/faculty", "", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// a signed-up viewer is authenticated but not an admin
	w, env := call(t, router, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"name": "Ann Viewer", "email": "ann@example.edu", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var viewer struct {
		Token struct {
			AccessToken string `json:"accessToken"`
		} `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &viewer))
	w, _ = call(t, router, http.MethodPost, "/api/v1/faculty", viewer.Token.AccessToken, body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	token := adminToken(t, router, deps)
	w, _ = call(t, router, http.MethodPost, "/api/v1/faculty", token, body)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, env = call(t, router, http.MethodGet, "/api/v1/faculty", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, 1, list.Total)
}

func TestRouter_LogoutRevokesToken(t *testing.T) {
	router, deps := newTestRouter(t)
	token := adminToken(t, router, deps)

	w, _ := call(t, router, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = call(t, router, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env := call(t, router, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "AUTH_007", env.Error.Code)
}

func TestRouter_ContentCRUD(t *testing.T) {
	router, deps := newTestRouter(t)
	token := adminToken(t, router, deps)

	w, env := call(t, router, http.MethodPost, "/api/v1/events", token, map[string]any{
		"title": "AI Workshop", "type": "Workshop", "location": "Seminar Hall",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "workshop", created.Type)

	w, _ = call(t, router, http.MethodPatch, "/api/v1/events/"+created.ID, token, map[string]any{"location": "Main Auditorium"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, env = call(t, router, http.MethodGet, "/api/v1/events/"+created.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), "Main Auditorium")

	w, _ = call(t, router, http.MethodDelete, "/api/v1/events/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env = call(t, router, http.MethodGet, "/api/v1/events/"+created.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
}

func TestRouter_CertificationsAPIAndPage(t *testing.T) {
	router, deps := newTestRouter(t)
	token := adminToken(t, router, deps)

	w, _ := call(t, router, http.MethodPost, "/api/v1/certifications", "", map[string]any{"title": "CCNA", "type": "student"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env := call(t, router, http.MethodPost, "/api/v1/certifications", token, map[string]any{
		"title": "CCNA", "type": "Student", "issuer": "Cisco",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "student", created.Type)

	_, _ = call(t, router, http.MethodPost, "/api/v1/certifications", token, map[string]any{"title": "NPTEL Deep Learning", "type": "faculty"})

	w, env = call(t, router, http.MethodGet, "/api/v1/certifications?type=STUDENT", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, 1, list.Total)

	w, _ = call(t, router, http.MethodGet, "/academics/certifications", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "CCNA")

	for _, path := range []string{"/academics/certifications/student", "/academics/research/journal", "/academics/achievements/student"} {
		w, _ = call(t, router, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestRouter_FacultyTextKeptVerbatim(t *testing.T) {
	router, deps := newTestRouter(t)
	token := adminToken(t, router, deps)

	bio := "2024-01-01T10:00:00+05:30"
	w, env := call(t, router, http.MethodPost, "/api/v1/faculty", token, map[string]any{
		"name": "Dr. Pramod", "designation": "Professor and HOD", "bio": bio,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))

	w, env = call(t, router, http.MethodGet, "/api/v1/faculty/"+created.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		Faculty struct {
			Bio string `json:"bio"`
		} `json:"faculty"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, bio, got.Faculty.Bio)
}

func TestRouter_UnknownPaths(t *testing.T) {
	router, _ := newTestRouter(t)

	w, env := call(t, router, http.MethodGet, "/api/v1/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)

	w, _ = call(t, router, http.MethodGet, "/definitely/not/here", "", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestRouter_SwaggerDoc(t *testing.T) {
	router, _ := newTestRouter(t)

	w, _ := call(t, router, http.MethodGet, "/swagger/doc.json", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Department Portal API")
}

func TestNewMailer_DefaultsResetURL(t *testing.T) {
	cfg := testConfig(t)
	for _, provider := range []string{config.EmailProviderNone, config.EmailProviderSMTP, config.EmailProviderSendGrid} {
		cfg.Email.Provider = provider
		assert.NotNil(t, NewMailer(cfg, zerolog.Nop()), provider)
	}
}
