package services

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/brunocorregedoria/reforma2/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Use a unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func createTestProject(t *testing.T, db *gorm.DB, name string) *models.Project {
	t.Helper()
	svc := NewProjectService(db)
	project, err := svc.Create(CreateProjectInput{Name: name, Client: "Test Client"})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	return project
}
