package services

import "testing"

func TestVendorCRUD(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVendorService(db)

	if _, err := svc.Create(CreateVendorInput{TaxID: "1"}); err == nil {
		t.Error("vendor without name was accepted")
	}

	vendor, err := svc.Create(CreateVendorInput{Name: "Central Supplies", TaxID: "12.345.678/0001-90"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	contact := "sales@central.example"
	updated, err := svc.Update(vendor.ID, UpdateVendorInput{Contact: &contact})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Contact != contact || updated.Name != "Central Supplies" {
		t.Errorf("unexpected vendor after update: %+v", updated)
	}

	vendors, _, err := svc.List(VendorListOptions{Search: "central"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(vendors) != 1 {
		t.Errorf("expected 1 search hit, got %d", len(vendors))
	}

	if err := svc.Delete(vendor.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := svc.GetByID(vendor.ID); err == nil {
		t.Error("vendor still present after delete")
	}
}
