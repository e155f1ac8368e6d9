package services

import (
	"net/http"
	"testing"
)

func TestMaterialStockAddAndSubtract(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMaterialService(db)

	material, err := svc.Create(CreateMaterialInput{Name: "Cement", Unit: "bag", UnitCost: 12, Stock: 5})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	material, err = svc.UpdateStock(material.ID, 10, StockAdd)
	if err != nil {
		t.Fatalf("UpdateStock add failed: %v", err)
	}
	if material.Stock != 15 {
		t.Errorf("expected stock 15, got %d", material.Stock)
	}

	material, err = svc.UpdateStock(material.ID, 15, StockSubtract)
	if err != nil {
		t.Fatalf("UpdateStock subtract failed: %v", err)
	}
	if material.Stock != 0 {
		t.Errorf("expected stock 0, got %d", material.Stock)
	}
}

func TestMaterialStockCannotGoNegative(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMaterialService(db)

	material, err := svc.Create(CreateMaterialInput{Name: "Sand", Unit: "kg", Stock: 3})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := svc.UpdateStock(material.ID, 4, StockSubtract); err == nil {
		t.Fatal("stock went negative")
	}

	// Rejected adjustment leaves the stock unchanged.
	reloaded, err := svc.GetByID(material.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if reloaded.Stock != 3 {
		t.Errorf("expected stock 3 after rejected subtract, got %d", reloaded.Stock)
	}
}

func TestMaterialStockValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMaterialService(db)

	material, err := svc.Create(CreateMaterialInput{Name: "Gravel", Unit: "kg", Stock: 1})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := svc.UpdateStock(material.ID, 0, StockAdd); err == nil {
		t.Error("zero quantity was accepted")
	}
	if _, err := svc.UpdateStock(material.ID, 1, "multiply"); err == nil {
		t.Error("unknown operation was accepted")
	}
}

func TestMaterialDeleteWithUsages(t *testing.T) {
	db := setupTestDB(t)
	project := createTestProject(t, db, "P")

	svc := NewMaterialService(db)
	material, err := svc.Create(CreateMaterialInput{Name: "Pipe", Unit: "m", UnitCost: 2})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	woSvc := NewWorkOrderService(db)
	if _, err := woSvc.Create(CreateWorkOrderInput{
		ProjectID: project.ID,
		Title:     "Plumbing",
		Materials: []MaterialEntry{{MaterialID: material.ID, Quantity: 5}},
	}); err != nil {
		t.Fatalf("create work order: %v", err)
	}

	err = svc.Delete(material.ID)
	if err == nil {
		t.Fatal("used material was deleted")
	}
	if status := StatusOf(err); status != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", status)
	}
}
