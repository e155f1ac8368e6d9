package services

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/brunocorregedoria/reforma2/internal/models"
)

func TestProjectCreateForcesPlanned(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProjectService(db)

	project, err := svc.Create(CreateProjectInput{Name: "Kitchen remodel", Client: "Silva"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if project.Status != models.StatusPlanned {
		t.Errorf("expected status planned, got %s", project.Status)
	}
}

func TestProjectCreateValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProjectService(db)

	if _, err := svc.Create(CreateProjectInput{Name: "No client"}); err == nil {
		t.Error("missing client was accepted")
	}

	start := time.Now()
	end := start.Add(-24 * time.Hour)
	_, err := svc.Create(CreateProjectInput{
		Name: "Bad dates", Client: "C",
		StartDate: &start, ExpectedEndDate: &end,
	})
	if err == nil {
		t.Error("end date before start date was accepted")
	}
}

func TestProjectListPagination(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProjectService(db)

	for i := 0; i < 25; i++ {
		if _, err := svc.Create(CreateProjectInput{
			Name:   fmt.Sprintf("Project %02d", i),
			Client: "Client",
		}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	projects, pagination, err := svc.List(ProjectListOptions{Page: 2, Limit: 10})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(projects) != 10 {
		t.Errorf("expected 10 projects on page 2, got %d", len(projects))
	}
	if pagination.Total != 25 {
		t.Errorf("expected total 25, got %d", pagination.Total)
	}
	if pagination.Pages != 3 {
		t.Errorf("expected 3 pages, got %d", pagination.Pages)
	}

	// Last page carries the remainder.
	projects, _, err = svc.List(ProjectListOptions{Page: 3, Limit: 10})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(projects) != 5 {
		t.Errorf("expected 5 projects on page 3, got %d", len(projects))
	}
}

func TestProjectSearch(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProjectService(db)

	if _, err := svc.Create(CreateProjectInput{Name: "Oak Street Renovation", Client: "Silva"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.Create(CreateProjectInput{Name: "Pine Avenue Facade", Client: "Souza"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	projects, _, err := svc.List(ProjectListOptions{Search: "oak"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(projects) != 1 || projects[0].Name != "Oak Street Renovation" {
		t.Errorf("case-insensitive search failed, got %d results", len(projects))
	}
}

func TestProjectUpdatePartial(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProjectService(db)

	project := createTestProject(t, db, "Original")

	status := models.StatusInProgress
	updated, err := svc.Update(project.ID, UpdateProjectInput{Status: &status})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	// Omitted fields stay untouched.
	if updated.Name != "Original" || updated.Client != "Test Client" {
		t.Errorf("omitted fields were changed: %s / %s", updated.Name, updated.Client)
	}
	if updated.Status != models.StatusInProgress {
		t.Errorf("expected status in_progress, got %s", updated.Status)
	}

	bad := models.Status("finished")
	if _, err := svc.Update(project.ID, UpdateProjectInput{Status: &bad}); err == nil {
		t.Error("invalid status was accepted")
	}
}

func TestProjectDeleteWithWorkOrders(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProjectService(db)
	project := createTestProject(t, db, "Busy project")

	woSvc := NewWorkOrderService(db)
	if _, err := woSvc.Create(CreateWorkOrderInput{ProjectID: project.ID, Title: "Demolition"}); err != nil {
		t.Fatalf("create work order: %v", err)
	}

	err := svc.Delete(project.ID)
	if err == nil {
		t.Fatal("project with work orders was deleted")
	}
	if status := StatusOf(err); status != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", status)
	}

	// Still present.
	if _, err := svc.GetByID(project.ID); err != nil {
		t.Errorf("project disappeared after rejected delete: %v", err)
	}
}

func TestProjectStats(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProjectService(db)
	project := createTestProject(t, db, "Stats project")

	woSvc := NewWorkOrderService(db)
	first, err := woSvc.Create(CreateWorkOrderInput{ProjectID: project.ID, Title: "A", EstimatedCost: 100})
	if err != nil {
		t.Fatalf("create work order: %v", err)
	}
	if _, err := woSvc.Create(CreateWorkOrderInput{ProjectID: project.ID, Title: "B", EstimatedCost: 50}); err != nil {
		t.Fatalf("create work order: %v", err)
	}

	status := models.StatusCompleted
	actual := 120.0
	if _, err := woSvc.Update(first.ID, UpdateWorkOrderInput{Status: &status, ActualCost: &actual}); err != nil {
		t.Fatalf("update work order: %v", err)
	}

	stats, err := svc.Stats(project.ID)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalWorkOrders != 2 {
		t.Errorf("expected 2 work orders, got %d", stats.TotalWorkOrders)
	}
	if stats.WorkOrdersByStatus[models.StatusCompleted] != 1 || stats.WorkOrdersByStatus[models.StatusPlanned] != 1 {
		t.Errorf("unexpected status breakdown: %v", stats.WorkOrdersByStatus)
	}
	if stats.TotalEstimatedCost != 150 {
		t.Errorf("expected estimated cost 150, got %.2f", stats.TotalEstimatedCost)
	}
	if stats.TotalActualCost != 120 {
		t.Errorf("expected actual cost 120, got %.2f", stats.TotalActualCost)
	}
}
