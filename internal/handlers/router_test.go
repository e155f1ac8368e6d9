package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/brunocorregedoria/reforma2/internal/config"
	"github.com/brunocorregedoria/reforma2/internal/database"
	"github.com/brunocorregedoria/reforma2/internal/models"
	"github.com/brunocorregedoria/reforma2/internal/websocket"
)

func newTestRouter(t *testing.T) *Router {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := gormDB.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{
		Env:         "test",
		Port:        "0",
		JWTSecret:   "test-secret",
		UploadDir:   t.TempDir(),
		FrontendURL: "*",
	}
	hub := websocket.NewHub()
	go hub.Run()

	return NewRouter(&database.DB{DB: gormDB}, cfg, hub)
}

// doJSON sends a JSON request through the router and decodes the response
func doJSON(t *testing.T, router *Router, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	var decoded map[string]interface{}
	if rr.Body.Len() > 0 {
		_ = json.Unmarshal(rr.Body.Bytes(), &decoded)
	}
	return rr, decoded
}

// registerUser creates a user through the API and returns its token
func registerUser(t *testing.T, router *Router, name, email string, role models.Role) string {
	t.Helper()
	rr, body := doJSON(t, router, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"name":     name,
		"email":    email,
		"password": "secret123",
		"role":     role,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d (%s)", email, rr.Code, rr.Body.String())
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("register %s: no token in response", email)
	}
	return token
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(t)

	rr, body := doJSON(t, router, http.MethodGet, "/health", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %v", body["status"])
	}
	if body["version"] != Version {
		t.Errorf("expected version %s, got %v", Version, body["version"])
	}
	if body["timestamp"] == nil {
		t.Error("missing timestamp")
	}
}

func TestRegisterLoginProfileFlow(t *testing.T) {
	router := newTestRouter(t)

	token := registerUser(t, router, "Alice", "alice@example.com", models.RoleManager)

	rr, body := doJSON(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "secret123",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", rr.Code)
	}
	if body["token"] == nil {
		t.Error("login response missing token")
	}

	rr, body = doJSON(t, router, http.MethodGet, "/api/auth/profile", token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("profile: expected 200, got %d", rr.Code)
	}
	user, _ := body["user"].(map[string]interface{})
	if user == nil || user["email"] != "alice@example.com" {
		t.Errorf("unexpected profile payload: %v", body)
	}
	if _, leaked := user["password"]; leaked {
		t.Error("password hash leaked in profile response")
	}
}

func TestMissingTokenIs401(t *testing.T) {
	router := newTestRouter(t)

	rr, _ := doJSON(t, router, http.MethodGet, "/api/projects", "", nil)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", rr.Code)
	}
}

func TestInvalidTokenIs403(t *testing.T) {
	router := newTestRouter(t)

	rr, _ := doJSON(t, router, http.MethodGet, "/api/projects", "garbage.token.here", nil)
	if rr.Code != http.StatusForbidden {
		t.Errorf("expected 403 with invalid token, got %d", rr.Code)
	}
}

func TestDeletedUserTokenIs403(t *testing.T) {
	router := newTestRouter(t)

	token := registerUser(t, router, "Ghost", "ghost@example.com", models.RoleAdmin)
	if err := router.db.Where("email = ?", "ghost@example.com").Delete(&models.User{}).Error; err != nil {
		t.Fatalf("delete user: %v", err)
	}

	rr, _ := doJSON(t, router, http.MethodGet, "/api/projects", token, nil)
	if rr.Code != http.StatusForbidden {
		t.Errorf("expected 403 for a deleted user's token, got %d", rr.Code)
	}
}

func TestRoleGuard(t *testing.T) {
	router := newTestRouter(t)

	viewer := registerUser(t, router, "Victor", "viewer@example.com", models.RoleViewer)
	manager := registerUser(t, router, "Marcos", "manager@example.com", models.RoleManager)

	payload := map[string]string{"name": "Kitchen remodel", "client": "Silva"}

	rr, _ := doJSON(t, router, http.MethodPost, "/api/projects", viewer, payload)
	if rr.Code != http.StatusForbidden {
		t.Errorf("viewer creating project: expected 403, got %d", rr.Code)
	}

	rr, body := doJSON(t, router, http.MethodPost, "/api/projects", manager, payload)
	if rr.Code != http.StatusCreated {
		t.Fatalf("manager creating project: expected 201, got %d (%s)", rr.Code, rr.Body.String())
	}
	project, _ := body["project"].(map[string]interface{})
	if project == nil || project["status"] != "planned" {
		t.Errorf("unexpected create response: %v", body)
	}

	// Viewers may still read.
	rr, _ = doJSON(t, router, http.MethodGet, "/api/projects", viewer, nil)
	if rr.Code != http.StatusOK {
		t.Errorf("viewer listing projects: expected 200, got %d", rr.Code)
	}

	// Only admins delete projects.
	id := uint(project["id"].(float64))
	rr, _ = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/projects/%d", id), manager, nil)
	if rr.Code != http.StatusForbidden {
		t.Errorf("manager deleting project: expected 403, got %d", rr.Code)
	}
}

func TestProjectListEnvelope(t *testing.T) {
	router := newTestRouter(t)
	manager := registerUser(t, router, "M", "m@example.com", models.RoleManager)

	for i := 0; i < 3; i++ {
		rr, _ := doJSON(t, router, http.MethodPost, "/api/projects", manager, map[string]string{
			"name":   fmt.Sprintf("Project %d", i),
			"client": "C",
		})
		if rr.Code != http.StatusCreated {
			t.Fatalf("create project: %d", rr.Code)
		}
	}

	rr, body := doJSON(t, router, http.MethodGet, "/api/projects?page=1&limit=2", manager, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	projects, _ := body["projects"].([]interface{})
	if len(projects) != 2 {
		t.Errorf("expected 2 projects on the page, got %d", len(projects))
	}
	pagination, _ := body["pagination"].(map[string]interface{})
	if pagination == nil || pagination["total"] != float64(3) || pagination["pages"] != float64(2) {
		t.Errorf("unexpected pagination: %v", pagination)
	}
}
