package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/brunocorregedoria/reforma2/internal/models"
)

// WorkOrderService handles work order CRUD, material consumption and stats
type WorkOrderService struct {
	db *gorm.DB
}

// NewWorkOrderService creates a WorkOrderService
func NewWorkOrderService(db *gorm.DB) *WorkOrderService {
	return &WorkOrderService{db: db}
}

// workOrderSearchColumns are the columns matched by the list search term
var workOrderSearchColumns = []string{"title", "description", "service_type"}

// MaterialEntry references a material consumed when creating a work order
type MaterialEntry struct {
	MaterialID uint `json:"material_id"`
	Quantity   int  `json:"quantity"`
}

// CreateWorkOrderInput carries the fields accepted on creation. Status is
// forced to planned and the opening date to now.
type CreateWorkOrderInput struct {
	ProjectID     uint            `json:"project_id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	ServiceType   string          `json:"service_type"`
	ExpectedStart *time.Time      `json:"expected_start"`
	ExpectedEnd   *time.Time      `json:"expected_end"`
	ResponsibleID *uint           `json:"responsible_id"`
	EstimatedCost float64         `json:"estimated_cost"`
	Materials     []MaterialEntry `json:"materials"`
}

// Create persists a work order and one material usage per resolvable entry
// in Materials. The usage cost freezes the material's unit cost at this
// moment; entries referencing unknown materials are skipped silently.
func (s *WorkOrderService) Create(input CreateWorkOrderInput) (*models.WorkOrder, error) {
	if input.Title == "" {
		return nil, NewValidationError("title is required")
	}
	if input.EstimatedCost < 0 {
		return nil, NewValidationError("estimated cost cannot be negative")
	}

	var project models.Project
	if err := s.db.First(&project, input.ProjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("project not found")
		}
		return nil, NewInternalError("failed to load project")
	}

	if input.ResponsibleID != nil {
		var responsible models.User
		if err := s.db.First(&responsible, *input.ResponsibleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, NewNotFoundError("responsible user not found")
			}
			return nil, NewInternalError("failed to load responsible user")
		}
	}

	workOrder := models.WorkOrder{
		ProjectID:     input.ProjectID,
		Title:         input.Title,
		Description:   input.Description,
		ServiceType:   input.ServiceType,
		Status:        models.StatusPlanned,
		OpenedAt:      time.Now().UTC(),
		ExpectedStart: input.ExpectedStart,
		ExpectedEnd:   input.ExpectedEnd,
		ResponsibleID: input.ResponsibleID,
		EstimatedCost: input.EstimatedCost,
	}
	if err := s.db.Create(&workOrder).Error; err != nil {
		return nil, NewInternalError("failed to create work order")
	}

	for _, entry := range input.Materials {
		var material models.Material
		if err := s.db.First(&material, entry.MaterialID).Error; err != nil {
			// Unknown materials are skipped, not rejected
			continue
		}
		usage := models.MaterialUsage{
			WorkOrderID: workOrder.ID,
			MaterialID:  material.ID,
			Quantity:    entry.Quantity,
			TotalCost:   material.UnitCost * float64(entry.Quantity),
		}
		if err := s.db.Create(&usage).Error; err != nil {
			return nil, NewInternalError("failed to record material usage")
		}
	}

	return s.GetByID(workOrder.ID)
}

// WorkOrderListOptions filters and paginates the work order list
type WorkOrderListOptions struct {
	Page          int
	Limit         int
	Status        string
	ProjectID     uint
	ResponsibleID uint
	Search        string
}

// List returns one page of work orders, newest first, with related records
// expanded.
func (s *WorkOrderService) List(opts WorkOrderListOptions) ([]models.WorkOrder, Pagination, error) {
	if opts.Page < 1 {
		opts.Page = defaultPage
	}
	if opts.Limit < 1 {
		opts.Limit = defaultLimit
	}

	query := s.db.Model(&models.WorkOrder{})
	if opts.Status != "" {
		query = query.Where("status = ?", opts.Status)
	}
	if opts.ProjectID != 0 {
		query = query.Where("project_id = ?", opts.ProjectID)
	}
	if opts.ResponsibleID != 0 {
		query = query.Where("responsible_id = ?", opts.ResponsibleID)
	}
	query = applySearch(query, opts.Search, workOrderSearchColumns)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, Pagination{}, NewInternalError("failed to count work orders")
	}

	var workOrders []models.WorkOrder
	err := paginate(query, opts.Page, opts.Limit).
		Preload("Project").
		Preload("Responsible").
		Preload("Checkpoints").
		Preload("MaterialUsages.Material").
		Order("created_at DESC").
		Find(&workOrders).Error
	if err != nil {
		return nil, Pagination{}, NewInternalError("failed to list work orders")
	}

	return workOrders, NewPagination(total, opts.Page, opts.Limit), nil
}

// GetByID returns a work order with all related records expanded
func (s *WorkOrderService) GetByID(id uint) (*models.WorkOrder, error) {
	var workOrder models.WorkOrder
	err := s.db.
		Preload("Project").
		Preload("Responsible").
		Preload("Checkpoints").
		Preload("MaterialUsages.Material").
		Preload("Attachments.Uploader").
		First(&workOrder, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("work order not found")
		}
		return nil, NewInternalError("failed to load work order")
	}
	return &workOrder, nil
}

// UpdateWorkOrderInput carries optional fields; nil leaves the stored value
// untouched.
type UpdateWorkOrderInput struct {
	Title         *string        `json:"title"`
	Description   *string        `json:"description"`
	ServiceType   *string        `json:"service_type"`
	Status        *models.Status `json:"status"`
	ExpectedStart *time.Time     `json:"expected_start"`
	ExpectedEnd   *time.Time     `json:"expected_end"`
	ResponsibleID *uint          `json:"responsible_id"`
	EstimatedCost *float64       `json:"estimated_cost"`
	ActualCost    *float64       `json:"actual_cost"`
}

// Update applies the provided fields and returns the updated work order
func (s *WorkOrderService) Update(id uint, input UpdateWorkOrderInput) (*models.WorkOrder, error) {
	var workOrder models.WorkOrder
	if err := s.db.First(&workOrder, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("work order not found")
		}
		return nil, NewInternalError("failed to load work order")
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, NewValidationError("title cannot be empty")
		}
		workOrder.Title = *input.Title
	}
	if input.Description != nil {
		workOrder.Description = *input.Description
	}
	if input.ServiceType != nil {
		workOrder.ServiceType = *input.ServiceType
	}
	if input.Status != nil {
		if !models.ValidStatus(*input.Status) {
			return nil, NewValidationError("invalid status")
		}
		workOrder.Status = *input.Status
	}
	if input.ExpectedStart != nil {
		workOrder.ExpectedStart = input.ExpectedStart
	}
	if input.ExpectedEnd != nil {
		workOrder.ExpectedEnd = input.ExpectedEnd
	}
	if input.ResponsibleID != nil {
		var responsible models.User
		if err := s.db.First(&responsible, *input.ResponsibleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, NewNotFoundError("responsible user not found")
			}
			return nil, NewInternalError("failed to load responsible user")
		}
		workOrder.ResponsibleID = input.ResponsibleID
	}
	if input.EstimatedCost != nil {
		if *input.EstimatedCost < 0 {
			return nil, NewValidationError("estimated cost cannot be negative")
		}
		workOrder.EstimatedCost = *input.EstimatedCost
	}
	if input.ActualCost != nil {
		if *input.ActualCost < 0 {
			return nil, NewValidationError("actual cost cannot be negative")
		}
		workOrder.ActualCost = *input.ActualCost
	}

	if err := s.db.Save(&workOrder).Error; err != nil {
		return nil, NewInternalError("failed to update work order")
	}
	return s.GetByID(id)
}

// Delete removes a work order together with its checkpoints, material usages
// and attachment rows in one transaction.
func (s *WorkOrderService) Delete(id uint) error {
	var workOrder models.WorkOrder
	if err := s.db.First(&workOrder, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("work order not found")
		}
		return NewInternalError("failed to load work order")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("work_order_id = ?", id).Delete(&models.Checkpoint{}).Error; err != nil {
			return err
		}
		if err := tx.Where("work_order_id = ?", id).Delete(&models.MaterialUsage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("work_order_id = ?", id).Delete(&models.Attachment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&workOrder).Error
	})
	if err != nil {
		return NewInternalError("failed to delete work order")
	}
	return nil
}

// WorkOrderStats aggregates the work order's child records in memory
type WorkOrderStats struct {
	TotalCheckpoints     int                           `json:"total_checkpoints"`
	CompletedCheckpoints int                           `json:"completed_checkpoints"`
	TotalMaterials       int                           `json:"total_materials"`
	MaterialCost         float64                       `json:"material_cost"`
	TotalAttachments     int                           `json:"total_attachments"`
	AttachmentsByType    map[models.AttachmentType]int `json:"attachments_by_type"`
}

// Stats computes checkpoint progress, material cost and attachment counts
func (s *WorkOrderService) Stats(id uint) (*WorkOrderStats, error) {
	var workOrder models.WorkOrder
	err := s.db.
		Preload("Checkpoints").
		Preload("MaterialUsages").
		Preload("Attachments").
		First(&workOrder, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("work order not found")
		}
		return nil, NewInternalError("failed to load work order")
	}

	stats := &WorkOrderStats{
		TotalCheckpoints:  len(workOrder.Checkpoints),
		TotalMaterials:    len(workOrder.MaterialUsages),
		TotalAttachments:  len(workOrder.Attachments),
		AttachmentsByType: make(map[models.AttachmentType]int),
	}
	for _, cp := range workOrder.Checkpoints {
		if cp.Completed {
			stats.CompletedCheckpoints++
		}
	}
	for _, mu := range workOrder.MaterialUsages {
		stats.MaterialCost += mu.TotalCost
	}
	for _, att := range workOrder.Attachments {
		stats.AttachmentsByType[att.Type]++
	}
	return stats, nil
}
