package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/brunocorregedoria/reforma2/internal/models"
)

// Stock adjustment operations accepted by UpdateStock
const (
	StockAdd      = "add"
	StockSubtract = "subtract"
)

// MaterialService handles material CRUD and stock adjustments
type MaterialService struct {
	db *gorm.DB
}

// NewMaterialService creates a MaterialService
func NewMaterialService(db *gorm.DB) *MaterialService {
	return &MaterialService{db: db}
}

// materialSearchColumns are the columns matched by the list search term
var materialSearchColumns = []string{"name", "unit"}

// CreateMaterialInput carries the fields accepted on creation
type CreateMaterialInput struct {
	Name     string  `json:"name"`
	Unit     string  `json:"unit"`
	UnitCost float64 `json:"unit_cost"`
	Stock    int     `json:"stock"`
}

// Create persists a new material
func (s *MaterialService) Create(input CreateMaterialInput) (*models.Material, error) {
	if input.Name == "" || input.Unit == "" {
		return nil, NewValidationError("name and unit are required")
	}
	if input.UnitCost < 0 {
		return nil, NewValidationError("unit cost cannot be negative")
	}

	material := models.Material{
		Name:     input.Name,
		Unit:     input.Unit,
		UnitCost: input.UnitCost,
		Stock:    input.Stock,
	}
	if err := s.db.Create(&material).Error; err != nil {
		return nil, NewInternalError("failed to create material")
	}
	return &material, nil
}

// MaterialListOptions filters and paginates the material list
type MaterialListOptions struct {
	Page   int
	Limit  int
	Search string
}

// List returns one page of materials ordered by name
func (s *MaterialService) List(opts MaterialListOptions) ([]models.Material, Pagination, error) {
	if opts.Page < 1 {
		opts.Page = defaultPage
	}
	if opts.Limit < 1 {
		opts.Limit = defaultLimit
	}

	query := s.db.Model(&models.Material{})
	query = applySearch(query, opts.Search, materialSearchColumns)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, Pagination{}, NewInternalError("failed to count materials")
	}

	var materials []models.Material
	err := paginate(query, opts.Page, opts.Limit).
		Order("name ASC").
		Find(&materials).Error
	if err != nil {
		return nil, Pagination{}, NewInternalError("failed to list materials")
	}

	return materials, NewPagination(total, opts.Page, opts.Limit), nil
}

// GetByID returns a material with its usages and their work orders expanded
func (s *MaterialService) GetByID(id uint) (*models.Material, error) {
	var material models.Material
	err := s.db.Preload("Usages.WorkOrder").First(&material, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("material not found")
		}
		return nil, NewInternalError("failed to load material")
	}
	return &material, nil
}

// UpdateMaterialInput carries optional fields; nil leaves the stored value
// untouched.
type UpdateMaterialInput struct {
	Name     *string  `json:"name"`
	Unit     *string  `json:"unit"`
	UnitCost *float64 `json:"unit_cost"`
	Stock    *int     `json:"stock"`
}

// Update applies the provided fields. Existing material usages keep their
// frozen total cost when the unit cost changes.
func (s *MaterialService) Update(id uint, input UpdateMaterialInput) (*models.Material, error) {
	var material models.Material
	if err := s.db.First(&material, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("material not found")
		}
		return nil, NewInternalError("failed to load material")
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, NewValidationError("name cannot be empty")
		}
		material.Name = *input.Name
	}
	if input.Unit != nil {
		if *input.Unit == "" {
			return nil, NewValidationError("unit cannot be empty")
		}
		material.Unit = *input.Unit
	}
	if input.UnitCost != nil {
		if *input.UnitCost < 0 {
			return nil, NewValidationError("unit cost cannot be negative")
		}
		material.UnitCost = *input.UnitCost
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, NewValidationError("stock cannot be negative")
		}
		material.Stock = *input.Stock
	}

	if err := s.db.Save(&material).Error; err != nil {
		return nil, NewInternalError("failed to update material")
	}
	return &material, nil
}

// Delete removes a material unless it is referenced by any usage
func (s *MaterialService) Delete(id uint) error {
	var material models.Material
	if err := s.db.First(&material, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("material not found")
		}
		return NewInternalError("failed to load material")
	}

	var count int64
	if err := s.db.Model(&models.MaterialUsage{}).Where("material_id = ?", id).Count(&count).Error; err != nil {
		return NewInternalError("failed to check material usages")
	}
	if count > 0 {
		return NewConflictError("cannot delete material that has been used")
	}

	if err := s.db.Delete(&material).Error; err != nil {
		return NewInternalError("failed to delete material")
	}
	return nil
}

// UpdateStock adjusts the stock by quantity according to the operation flag.
// Subtracting below zero is rejected and leaves the stock unchanged.
func (s *MaterialService) UpdateStock(id uint, quantity int, operation string) (*models.Material, error) {
	if quantity <= 0 {
		return nil, NewValidationError("quantity must be a positive integer")
	}

	var material models.Material
	if err := s.db.First(&material, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("material not found")
		}
		return nil, NewInternalError("failed to load material")
	}

	switch operation {
	case StockAdd:
		material.Stock += quantity
	case StockSubtract:
		if material.Stock-quantity < 0 {
			return nil, NewValidationError("stock cannot go negative")
		}
		material.Stock -= quantity
	default:
		return nil, NewValidationError("operation must be add or subtract")
	}

	if err := s.db.Save(&material).Error; err != nil {
		return nil, NewInternalError("failed to update stock")
	}
	return &material, nil
}
