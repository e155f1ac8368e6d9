package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/brunocorregedoria/reforma2/internal/models"
)

// ProjectService handles project CRUD and aggregate statistics
type ProjectService struct {
	db *gorm.DB
}

// NewProjectService creates a ProjectService
func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

// projectSearchColumns are the columns matched by the list search term
var projectSearchColumns = []string{"name", "client", "address"}

// CreateProjectInput carries the fields accepted on creation. Status is
// always forced to planned.
type CreateProjectInput struct {
	Name            string     `json:"name"`
	Address         string     `json:"address"`
	Description     string     `json:"description"`
	Client          string     `json:"client"`
	StartDate       *time.Time `json:"start_date"`
	ExpectedEndDate *time.Time `json:"expected_end_date"`
}

// validateProjectDates rejects an expected end on or before the start
func validateProjectDates(start, end *time.Time) error {
	if start != nil && end != nil && !end.After(*start) {
		return NewValidationError("end date must be after start date")
	}
	return nil
}

// Create persists a new project in planned status
func (s *ProjectService) Create(input CreateProjectInput) (*models.Project, error) {
	if input.Name == "" || input.Client == "" {
		return nil, NewValidationError("name and client are required")
	}
	if err := validateProjectDates(input.StartDate, input.ExpectedEndDate); err != nil {
		return nil, err
	}

	project := models.Project{
		Name:            input.Name,
		Address:         input.Address,
		Description:     input.Description,
		Client:          input.Client,
		Status:          models.StatusPlanned,
		StartDate:       input.StartDate,
		ExpectedEndDate: input.ExpectedEndDate,
	}
	if err := s.db.Create(&project).Error; err != nil {
		return nil, NewInternalError("failed to create project")
	}
	return &project, nil
}

// ProjectListOptions filters and paginates the project list
type ProjectListOptions struct {
	Page   int
	Limit  int
	Status string
	Search string
}

// List returns one page of projects, newest first, with work orders and
// their responsible users expanded.
func (s *ProjectService) List(opts ProjectListOptions) ([]models.Project, Pagination, error) {
	if opts.Page < 1 {
		opts.Page = defaultPage
	}
	if opts.Limit < 1 {
		opts.Limit = defaultLimit
	}

	query := s.db.Model(&models.Project{})
	if opts.Status != "" {
		query = query.Where("status = ?", opts.Status)
	}
	query = applySearch(query, opts.Search, projectSearchColumns)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, Pagination{}, NewInternalError("failed to count projects")
	}

	var projects []models.Project
	err := paginate(query, opts.Page, opts.Limit).
		Preload("WorkOrders.Responsible").
		Order("created_at DESC").
		Find(&projects).Error
	if err != nil {
		return nil, Pagination{}, NewInternalError("failed to list projects")
	}

	return projects, NewPagination(total, opts.Page, opts.Limit), nil
}

// GetByID returns a project with its work orders expanded
func (s *ProjectService) GetByID(id uint) (*models.Project, error) {
	var project models.Project
	err := s.db.Preload("WorkOrders.Responsible").First(&project, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("project not found")
		}
		return nil, NewInternalError("failed to load project")
	}
	return &project, nil
}

// UpdateProjectInput carries optional fields; nil leaves the stored value
// untouched.
type UpdateProjectInput struct {
	Name            *string        `json:"name"`
	Address         *string        `json:"address"`
	Description     *string        `json:"description"`
	Client          *string        `json:"client"`
	Status          *models.Status `json:"status"`
	StartDate       *time.Time     `json:"start_date"`
	ExpectedEndDate *time.Time     `json:"expected_end_date"`
}

// Update applies the provided fields and returns the updated project
func (s *ProjectService) Update(id uint, input UpdateProjectInput) (*models.Project, error) {
	var project models.Project
	if err := s.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("project not found")
		}
		return nil, NewInternalError("failed to load project")
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, NewValidationError("name cannot be empty")
		}
		project.Name = *input.Name
	}
	if input.Address != nil {
		project.Address = *input.Address
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Client != nil {
		if *input.Client == "" {
			return nil, NewValidationError("client cannot be empty")
		}
		project.Client = *input.Client
	}
	if input.Status != nil {
		if !models.ValidStatus(*input.Status) {
			return nil, NewValidationError("invalid status")
		}
		project.Status = *input.Status
	}
	if input.StartDate != nil {
		project.StartDate = input.StartDate
	}
	if input.ExpectedEndDate != nil {
		project.ExpectedEndDate = input.ExpectedEndDate
	}
	if err := validateProjectDates(project.StartDate, project.ExpectedEndDate); err != nil {
		return nil, err
	}

	if err := s.db.Save(&project).Error; err != nil {
		return nil, NewInternalError("failed to update project")
	}
	return &project, nil
}

// Delete removes a project. A project still owning work orders is not
// deletable.
func (s *ProjectService) Delete(id uint) error {
	var project models.Project
	if err := s.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("project not found")
		}
		return NewInternalError("failed to load project")
	}

	var count int64
	if err := s.db.Model(&models.WorkOrder{}).Where("project_id = ?", id).Count(&count).Error; err != nil {
		return NewInternalError("failed to check work orders")
	}
	if count > 0 {
		return NewConflictError("cannot delete project with associated work orders")
	}

	if err := s.db.Delete(&project).Error; err != nil {
		return NewInternalError("failed to delete project")
	}
	return nil
}

// ProjectStats aggregates the project's work orders in memory
type ProjectStats struct {
	TotalWorkOrders    int                   `json:"total_work_orders"`
	WorkOrdersByStatus map[models.Status]int `json:"work_orders_by_status"`
	TotalEstimatedCost float64               `json:"total_estimated_cost"`
	TotalActualCost    float64               `json:"total_actual_cost"`
}

// Stats computes counts by status and summed costs across the project's
// work orders.
func (s *ProjectService) Stats(id uint) (*ProjectStats, error) {
	var project models.Project
	err := s.db.Preload("WorkOrders").First(&project, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("project not found")
		}
		return nil, NewInternalError("failed to load project")
	}

	stats := &ProjectStats{
		TotalWorkOrders:    len(project.WorkOrders),
		WorkOrdersByStatus: make(map[models.Status]int),
	}
	for _, wo := range project.WorkOrders {
		stats.WorkOrdersByStatus[wo.Status]++
		stats.TotalEstimatedCost += wo.EstimatedCost
		stats.TotalActualCost += wo.ActualCost
	}
	return stats, nil
}
