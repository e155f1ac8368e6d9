package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/brunocorregedoria/reforma2/internal/models"
)

// waitForLogs polls for audit rows since the write happens off the request path
func waitForLogs(t *testing.T, router *Router, entity, action string) []models.Log {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		var logs []models.Log
		router.db.Where("entity = ? AND action = ?", entity, action).Find(&logs)
		if len(logs) > 0 {
			return logs
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("no %s/%s audit rows written within deadline", entity, action)
	return nil
}

func TestAuditLogOnCreate(t *testing.T) {
	router := newTestRouter(t)
	manager := registerUser(t, router, "M", "audit-m@example.com", models.RoleManager)

	rr, body := doJSON(t, router, http.MethodPost, "/api/projects", manager, map[string]string{
		"name": "Audited project", "client": "C",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create project: %d", rr.Code)
	}
	project := body["project"].(map[string]interface{})
	projectID := uint(project["id"].(float64))

	logs := waitForLogs(t, router, "Project", models.ActionCreate)
	entry := logs[0]
	if entry.EntityID != projectID {
		t.Errorf("expected entity id %d, got %d", projectID, entry.EntityID)
	}
	if entry.UserID == nil {
		t.Error("audit row missing the acting user")
	}
	if entry.NewValue == nil {
		t.Error("audit row missing the new value")
	}
}

func TestAuditLogOnUpdateCapturesOldValue(t *testing.T) {
	router := newTestRouter(t)
	manager := registerUser(t, router, "M", "audit-u@example.com", models.RoleManager)

	rr, body := doJSON(t, router, http.MethodPost, "/api/projects", manager, map[string]string{
		"name": "Before", "client": "C",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create project: %d", rr.Code)
	}
	project := body["project"].(map[string]interface{})
	id := uint(project["id"].(float64))

	rr, _ = doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/projects/%d", id), manager, map[string]string{
		"name": "After",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("update project: %d", rr.Code)
	}

	logs := waitForLogs(t, router, "Project", models.ActionUpdate)
	entry := logs[0]
	if entry.EntityID != id {
		t.Errorf("expected entity id %d, got %d", id, entry.EntityID)
	}
	if entry.OldValue == nil {
		t.Fatal("update audit row missing the old value")
	}
	var old map[string]interface{}
	if err := json.Unmarshal(entry.OldValue, &old); err != nil {
		t.Fatalf("unmarshal old value: %v", err)
	}
	if old["name"] != "Before" {
		t.Errorf("old value does not hold the pre-mutation name: %v", old["name"])
	}
}

func TestAuditLogSkipsListReads(t *testing.T) {
	router := newTestRouter(t)
	manager := registerUser(t, router, "M", "audit-l@example.com", models.RoleManager)

	rr, body := doJSON(t, router, http.MethodPost, "/api/projects", manager, map[string]string{
		"name": "Listed project", "client": "C",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create project: %d", rr.Code)
	}
	project := body["project"].(map[string]interface{})
	id := uint(project["id"].(float64))

	// A list has no single entity, so it must not be logged.
	rr, _ = doJSON(t, router, http.MethodGet, "/api/projects", manager, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("list projects: %d", rr.Code)
	}
	time.Sleep(100 * time.Millisecond)
	var count int64
	router.db.Model(&models.Log{}).Where("entity = ? AND action = ?", "Project", models.ActionRead).Count(&count)
	if count != 0 {
		t.Fatalf("list GET produced %d read audit rows", count)
	}

	// Reading one entity still is.
	rr, _ = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/projects/%d", id), manager, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("get project: %d", rr.Code)
	}
	logs := waitForLogs(t, router, "Project", models.ActionRead)
	if logs[0].EntityID != id {
		t.Errorf("expected entity id %d, got %d", id, logs[0].EntityID)
	}
	if logs[0].UserID == nil {
		t.Error("read audit row missing the acting user")
	}
}

func TestAuditLogCapsRecordedBody(t *testing.T) {
	router := newTestRouter(t)
	manager := registerUser(t, router, "M", "audit-c@example.com", models.RoleManager)

	rr, body := doJSON(t, router, http.MethodPost, "/api/projects", manager, map[string]string{
		"name": "Small", "client": "C",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create project: %d", rr.Code)
	}
	project := body["project"].(map[string]interface{})
	id := uint(project["id"].(float64))

	// An update body past the capture cap still reaches the handler whole,
	// but is not carried into the log row.
	rr, _ = doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/projects/%d", id), manager, map[string]string{
		"description": strings.Repeat("x", (1<<20)+256),
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("update project: %d (%s)", rr.Code, rr.Body.String())
	}

	logs := waitForLogs(t, router, "Project", models.ActionUpdate)
	entry := logs[0]
	if entry.EntityID != id {
		t.Errorf("expected entity id %d, got %d", id, entry.EntityID)
	}
	if entry.NewValue != nil {
		t.Errorf("oversized body was recorded on the audit row (%d bytes)", len(entry.NewValue))
	}
}

func TestAuditLogSkipsFailedRequests(t *testing.T) {
	router := newTestRouter(t)
	manager := registerUser(t, router, "M", "audit-f@example.com", models.RoleManager)

	// Missing client fails validation, so nothing must be logged.
	rr, _ := doJSON(t, router, http.MethodPost, "/api/projects", manager, map[string]string{
		"name": "Invalid",
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	time.Sleep(100 * time.Millisecond)
	var count int64
	router.db.Model(&models.Log{}).Where("entity = ? AND action = ?", "Project", models.ActionCreate).Count(&count)
	if count != 0 {
		t.Errorf("failed request produced %d audit rows", count)
	}
}
