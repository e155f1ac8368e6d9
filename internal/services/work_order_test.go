package services

import (
	"net/http"
	"testing"

	"github.com/brunocorregedoria/reforma2/internal/models"
)

func TestWorkOrderCreateWithMaterials(t *testing.T) {
	db := setupTestDB(t)
	project := createTestProject(t, db, "Materials project")

	matSvc := NewMaterialService(db)
	tile, err := matSvc.Create(CreateMaterialInput{Name: "Tile", Unit: "box", UnitCost: 25.50, Stock: 10})
	if err != nil {
		t.Fatalf("create material: %v", err)
	}

	svc := NewWorkOrderService(db)
	workOrder, err := svc.Create(CreateWorkOrderInput{
		ProjectID: project.ID,
		Title:     "Bathroom tiling",
		Materials: []MaterialEntry{
			{MaterialID: tile.ID, Quantity: 3},
			{MaterialID: 9999, Quantity: 1}, // unknown, skipped silently
		},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if len(workOrder.MaterialUsages) != 1 {
		t.Fatalf("expected 1 usage, got %d", len(workOrder.MaterialUsages))
	}
	usage := workOrder.MaterialUsages[0]
	if usage.TotalCost != 76.50 {
		t.Errorf("expected frozen total cost 76.50, got %.2f", usage.TotalCost)
	}

	// Frozen cost does not follow later unit cost changes.
	newCost := 99.0
	if _, err := matSvc.Update(tile.ID, UpdateMaterialInput{UnitCost: &newCost}); err != nil {
		t.Fatalf("update material: %v", err)
	}
	reloaded, err := svc.GetByID(workOrder.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if reloaded.MaterialUsages[0].TotalCost != 76.50 {
		t.Errorf("usage cost changed after unit cost update: %.2f", reloaded.MaterialUsages[0].TotalCost)
	}
}

func TestWorkOrderCreateMissingProject(t *testing.T) {
	db := setupTestDB(t)
	svc := NewWorkOrderService(db)

	_, err := svc.Create(CreateWorkOrderInput{ProjectID: 123, Title: "Orphan"})
	if err == nil {
		t.Fatal("work order created against a missing project")
	}
	if status := StatusOf(err); status != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", status)
	}
}

func TestWorkOrderCreateMissingResponsible(t *testing.T) {
	db := setupTestDB(t)
	project := createTestProject(t, db, "P")
	svc := NewWorkOrderService(db)

	ghost := uint(77)
	_, err := svc.Create(CreateWorkOrderInput{ProjectID: project.ID, Title: "T", ResponsibleID: &ghost})
	if err == nil {
		t.Fatal("work order created with a missing responsible user")
	}
	if status := StatusOf(err); status != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", status)
	}
}

func TestWorkOrderDeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	project := createTestProject(t, db, "Cascade project")

	svc := NewWorkOrderService(db)
	workOrder, err := svc.Create(CreateWorkOrderInput{ProjectID: project.ID, Title: "Doomed"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	cpSvc := NewCheckpointService(db)
	if _, err := cpSvc.Create(CreateCheckpointInput{WorkOrderID: workOrder.ID, Name: "Step 1"}); err != nil {
		t.Fatalf("create checkpoint: %v", err)
	}

	if err := svc.Delete(workOrder.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	var cpCount int64
	db.Model(&models.Checkpoint{}).Where("work_order_id = ?", workOrder.ID).Count(&cpCount)
	if cpCount != 0 {
		t.Errorf("expected 0 checkpoints after cascade delete, got %d", cpCount)
	}

	if _, err := svc.GetByID(workOrder.ID); StatusOf(err) != http.StatusNotFound {
		t.Error("work order still present after delete")
	}
}

func TestWorkOrderStats(t *testing.T) {
	db := setupTestDB(t)
	project := createTestProject(t, db, "Stats")

	svc := NewWorkOrderService(db)
	workOrder, err := svc.Create(CreateWorkOrderInput{ProjectID: project.ID, Title: "T"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	cpSvc := NewCheckpointService(db)
	first, err := cpSvc.Create(CreateCheckpointInput{WorkOrderID: workOrder.ID, Name: "One"})
	if err != nil {
		t.Fatalf("create checkpoint: %v", err)
	}
	if _, err := cpSvc.Create(CreateCheckpointInput{WorkOrderID: workOrder.ID, Name: "Two"}); err != nil {
		t.Fatalf("create checkpoint: %v", err)
	}
	if _, err := cpSvc.Complete(first.ID); err != nil {
		t.Fatalf("complete checkpoint: %v", err)
	}

	stats, err := svc.Stats(workOrder.ID)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalCheckpoints != 2 || stats.CompletedCheckpoints != 1 {
		t.Errorf("unexpected checkpoint stats: %d/%d", stats.CompletedCheckpoints, stats.TotalCheckpoints)
	}
}
