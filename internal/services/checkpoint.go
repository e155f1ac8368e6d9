package services

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/brunocorregedoria/reforma2/internal/models"
)

// CheckpointService handles checkpoint CRUD, completion and templates
type CheckpointService struct {
	db *gorm.DB
}

// NewCheckpointService creates a CheckpointService
func NewCheckpointService(db *gorm.DB) *CheckpointService {
	return &CheckpointService{db: db}
}

// CreateCheckpointInput carries the fields accepted on creation
type CreateCheckpointInput struct {
	WorkOrderID uint                  `json:"work_order_id"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Position    int                   `json:"order"`
	Type        models.CheckpointType `json:"type"`
	Pattern     datatypes.JSON        `json:"pattern"`
}

// Create persists a checkpoint attached to an existing work order
func (s *CheckpointService) Create(input CreateCheckpointInput) (*models.Checkpoint, error) {
	if input.Name == "" {
		return nil, NewValidationError("name is required")
	}

	var workOrder models.WorkOrder
	if err := s.db.First(&workOrder, input.WorkOrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("work order not found")
		}
		return nil, NewInternalError("failed to load work order")
	}

	position := input.Position
	if position < 1 {
		position = 1
	}
	cpType := input.Type
	if cpType == "" {
		cpType = models.CheckpointInspection
	}
	if !models.ValidCheckpointType(cpType) {
		return nil, NewValidationError("invalid checkpoint type")
	}

	checkpoint := models.Checkpoint{
		WorkOrderID: &input.WorkOrderID,
		Name:        input.Name,
		Description: input.Description,
		Position:    position,
		Type:        cpType,
		Pattern:     input.Pattern,
	}
	if err := s.db.Create(&checkpoint).Error; err != nil {
		return nil, NewInternalError("failed to create checkpoint")
	}
	return &checkpoint, nil
}

// CheckpointListOptions filters the checkpoint list
type CheckpointListOptions struct {
	WorkOrderID uint
	Type        string
}

// List returns checkpoints ordered by position then creation time. The list
// is not paginated.
func (s *CheckpointService) List(opts CheckpointListOptions) ([]models.Checkpoint, error) {
	query := s.db.Model(&models.Checkpoint{})
	if opts.WorkOrderID != 0 {
		query = query.Where("work_order_id = ?", opts.WorkOrderID)
	}
	if opts.Type != "" {
		query = query.Where("type = ?", opts.Type)
	}

	var checkpoints []models.Checkpoint
	err := query.
		Preload("WorkOrder").
		Order("position ASC, created_at ASC").
		Find(&checkpoints).Error
	if err != nil {
		return nil, NewInternalError("failed to list checkpoints")
	}
	return checkpoints, nil
}

// GetByID returns a checkpoint with its work order expanded
func (s *CheckpointService) GetByID(id uint) (*models.Checkpoint, error) {
	var checkpoint models.Checkpoint
	err := s.db.Preload("WorkOrder").First(&checkpoint, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("checkpoint not found")
		}
		return nil, NewInternalError("failed to load checkpoint")
	}
	return &checkpoint, nil
}

// UpdateCheckpointInput carries optional fields; nil leaves the stored value
// untouched.
type UpdateCheckpointInput struct {
	Name        *string                `json:"name"`
	Description *string                `json:"description"`
	Position    *int                   `json:"order"`
	Type        *models.CheckpointType `json:"type"`
	Pattern     datatypes.JSON         `json:"pattern"`
	Completed   *bool                  `json:"completed"`
}

// Update applies the provided fields. The completion timestamp is stamped on
// a false-to-true transition and cleared on true-to-false.
func (s *CheckpointService) Update(id uint, input UpdateCheckpointInput) (*models.Checkpoint, error) {
	checkpoint, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, NewValidationError("name cannot be empty")
		}
		checkpoint.Name = *input.Name
	}
	if input.Description != nil {
		checkpoint.Description = *input.Description
	}
	if input.Position != nil {
		checkpoint.Position = *input.Position
	}
	if input.Type != nil {
		if !models.ValidCheckpointType(*input.Type) {
			return nil, NewValidationError("invalid checkpoint type")
		}
		checkpoint.Type = *input.Type
	}
	if input.Pattern != nil {
		checkpoint.Pattern = input.Pattern
	}
	if input.Completed != nil {
		switch {
		case *input.Completed && !checkpoint.Completed:
			now := time.Now().UTC()
			checkpoint.CompletedAt = &now
		case !*input.Completed && checkpoint.Completed:
			checkpoint.CompletedAt = nil
		}
		checkpoint.Completed = *input.Completed
	}

	if err := s.db.Save(checkpoint).Error; err != nil {
		return nil, NewInternalError("failed to update checkpoint")
	}
	return checkpoint, nil
}

// Delete removes a checkpoint
func (s *CheckpointService) Delete(id uint) error {
	checkpoint, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(checkpoint).Error; err != nil {
		return NewInternalError("failed to delete checkpoint")
	}
	return nil
}

// Complete marks a checkpoint as completed exactly once, stamping the
// completion time. Completing an already completed checkpoint conflicts.
func (s *CheckpointService) Complete(id uint) (*models.Checkpoint, error) {
	checkpoint, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if checkpoint.Completed {
		return nil, NewConflictError("checkpoint already completed")
	}

	now := time.Now().UTC()
	checkpoint.Completed = true
	checkpoint.CompletedAt = &now
	if err := s.db.Save(checkpoint).Error; err != nil {
		return nil, NewInternalError("failed to complete checkpoint")
	}
	return checkpoint, nil
}

// TemplateItem is one checkpoint in a reusable checklist template
type TemplateItem struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Type        models.CheckpointType  `json:"type"`
	Pattern     map[string]interface{} `json:"pattern"`
}

// CreateTemplate bulk-creates an ordered checkpoint sequence with no work
// order attached. Each pattern payload is marked with the template flag and
// the service type so templates can be found and instantiated later.
func (s *CheckpointService) CreateTemplate(serviceType string, items []TemplateItem) ([]models.Checkpoint, error) {
	if serviceType == "" {
		return nil, NewValidationError("service_type is required")
	}
	if len(items) == 0 {
		return nil, NewValidationError("checkpoints are required")
	}

	created := make([]models.Checkpoint, 0, len(items))
	for i, item := range items {
		if item.Name == "" {
			return nil, NewValidationError("checkpoint name is required")
		}
		cpType := item.Type
		if cpType == "" {
			cpType = models.CheckpointInspection
		}
		if !models.ValidCheckpointType(cpType) {
			return nil, NewValidationError("invalid checkpoint type")
		}

		pattern := map[string]interface{}{}
		for k, v := range item.Pattern {
			pattern[k] = v
		}
		pattern["template"] = true
		pattern["service_type"] = serviceType
		raw, err := json.Marshal(pattern)
		if err != nil {
			return nil, NewInternalError("failed to encode pattern")
		}

		checkpoint := models.Checkpoint{
			WorkOrderID: nil,
			Name:        item.Name,
			Description: item.Description,
			Position:    i + 1,
			Type:        cpType,
			Pattern:     datatypes.JSON(raw),
		}
		if err := s.db.Create(&checkpoint).Error; err != nil {
			return nil, NewInternalError("failed to create template checkpoint")
		}
		created = append(created, checkpoint)
	}
	return created, nil
}
