package main

import (
	"fmt"
	"log"
	"time"

	"github.com/brunocorregedoria/reforma2/internal/config"
	"github.com/brunocorregedoria/reforma2/internal/database"
	"github.com/brunocorregedoria/reforma2/internal/models"
	"github.com/brunocorregedoria/reforma2/internal/utils"
)

func main() {
	fmt.Println("Reforma Demo Data Seeder")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	fmt.Println("Running database migrations...")
	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	var userCount int64
	db.Model(&models.User{}).Count(&userCount)
	if userCount > 0 {
		fmt.Printf("Database already has %d users. Seed anyway? (y/N): ", userCount)
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("Aborted. Database not modified.")
			return
		}
	}

	fmt.Println("Creating demo data...")

	// 1. Users, one per role
	hashed, err := utils.HashPassword("reforma123")
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}
	users := []models.User{
		{Name: "Alice Admin", Email: "admin@reforma.local", Password: hashed, Role: models.RoleAdmin},
		{Name: "Marcos Manager", Email: "manager@reforma.local", Password: hashed, Role: models.RoleManager},
		{Name: "Tina Technician", Email: "tech@reforma.local", Password: hashed, Role: models.RoleTechnician},
		{Name: "Victor Viewer", Email: "viewer@reforma.local", Password: hashed, Role: models.RoleViewer},
	}
	for i := range users {
		if err := db.Create(&users[i]).Error; err != nil {
			log.Printf("Failed to create user %s: %v", users[i].Email, err)
		} else {
			fmt.Printf("  created user %s (%s)\n", users[i].Email, users[i].Role)
		}
	}

	// 2. Project with two work orders
	start := time.Now().UTC()
	end := start.AddDate(0, 3, 0)
	project := models.Project{
		Name:            "Oak Street Apartment Renovation",
		Address:         "142 Oak Street, Unit 3B",
		Description:     "Full kitchen and bathroom renovation",
		Client:          "Silva Family",
		Status:          models.StatusInProgress,
		StartDate:       &start,
		ExpectedEndDate: &end,
	}
	if err := db.Create(&project).Error; err != nil {
		log.Fatalf("Failed to create project: %v", err)
	}
	fmt.Printf("  created project %q\n", project.Name)

	workOrders := []models.WorkOrder{
		{
			ProjectID:     project.ID,
			Title:         "Kitchen demolition and plumbing rough-in",
			ServiceType:   "plumbing",
			Status:        models.StatusInProgress,
			OpenedAt:      start,
			ResponsibleID: &users[2].ID,
			EstimatedCost: 4500,
		},
		{
			ProjectID:     project.ID,
			Title:         "Bathroom tiling",
			ServiceType:   "finishing",
			Status:        models.StatusPlanned,
			OpenedAt:      start,
			EstimatedCost: 2800,
		},
	}
	for i := range workOrders {
		if err := db.Create(&workOrders[i]).Error; err != nil {
			log.Fatalf("Failed to create work order: %v", err)
		}
		fmt.Printf("  created work order %q\n", workOrders[i].Title)
	}

	// 3. Checkpoints on the first work order
	checkpoints := []models.Checkpoint{
		{WorkOrderID: &workOrders[0].ID, Name: "Shut off water supply", Position: 1, Type: models.CheckpointSafety},
		{WorkOrderID: &workOrders[0].ID, Name: "Remove old cabinets", Position: 2, Type: models.CheckpointInspection},
		{WorkOrderID: &workOrders[0].ID, Name: "Pressure-test new lines", Position: 3, Type: models.CheckpointQuality},
	}
	for i := range checkpoints {
		if err := db.Create(&checkpoints[i]).Error; err != nil {
			log.Fatalf("Failed to create checkpoint: %v", err)
		}
	}
	fmt.Printf("  created %d checkpoints\n", len(checkpoints))

	// 4. Materials and one usage
	materials := []models.Material{
		{Name: "PEX pipe 3/4\"", Unit: "m", UnitCost: 2.35, Stock: 120},
		{Name: "Ceramic tile 60x60", Unit: "box", UnitCost: 28.90, Stock: 40},
		{Name: "Thinset mortar", Unit: "bag", UnitCost: 14.50, Stock: 25},
	}
	for i := range materials {
		if err := db.Create(&materials[i]).Error; err != nil {
			log.Fatalf("Failed to create material: %v", err)
		}
	}
	usage := models.MaterialUsage{
		WorkOrderID: workOrders[0].ID,
		MaterialID:  materials[0].ID,
		Quantity:    30,
		TotalCost:   materials[0].UnitCost * 30,
	}
	if err := db.Create(&usage).Error; err != nil {
		log.Fatalf("Failed to create material usage: %v", err)
	}
	fmt.Printf("  created %d materials and 1 usage\n", len(materials))

	// 5. Vendors
	vendors := []models.Vendor{
		{Name: "Central Building Supplies", TaxID: "12.345.678/0001-90", Contact: "sales@centralbuild.example"},
		{Name: "ProPlumb Wholesale", TaxID: "98.765.432/0001-10", Contact: "+1 555 0142"},
	}
	for i := range vendors {
		if err := db.Create(&vendors[i]).Error; err != nil {
			log.Fatalf("Failed to create vendor: %v", err)
		}
	}
	fmt.Printf("  created %d vendors\n", len(vendors))

	fmt.Println()
	fmt.Println("Done. Log in with admin@reforma.local / reforma123")
}
