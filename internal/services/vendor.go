package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/brunocorregedoria/reforma2/internal/models"
)

// VendorService handles vendor CRUD
type VendorService struct {
	db *gorm.DB
}

// NewVendorService creates a VendorService
func NewVendorService(db *gorm.DB) *VendorService {
	return &VendorService{db: db}
}

// vendorSearchColumns are the columns matched by the list search term
var vendorSearchColumns = []string{"name", "tax_id", "contact"}

// CreateVendorInput carries the fields accepted on creation
type CreateVendorInput struct {
	Name    string `json:"name"`
	TaxID   string `json:"tax_id"`
	Contact string `json:"contact"`
	Address string `json:"address"`
}

// Create persists a new vendor
func (s *VendorService) Create(input CreateVendorInput) (*models.Vendor, error) {
	if input.Name == "" {
		return nil, NewValidationError("name is required")
	}

	vendor := models.Vendor{
		Name:    input.Name,
		TaxID:   input.TaxID,
		Contact: input.Contact,
		Address: input.Address,
	}
	if err := s.db.Create(&vendor).Error; err != nil {
		return nil, NewInternalError("failed to create vendor")
	}
	return &vendor, nil
}

// VendorListOptions filters and paginates the vendor list
type VendorListOptions struct {
	Page   int
	Limit  int
	Search string
}

// List returns one page of vendors ordered by name
func (s *VendorService) List(opts VendorListOptions) ([]models.Vendor, Pagination, error) {
	if opts.Page < 1 {
		opts.Page = defaultPage
	}
	if opts.Limit < 1 {
		opts.Limit = defaultLimit
	}

	query := s.db.Model(&models.Vendor{})
	query = applySearch(query, opts.Search, vendorSearchColumns)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, Pagination{}, NewInternalError("failed to count vendors")
	}

	var vendors []models.Vendor
	err := paginate(query, opts.Page, opts.Limit).
		Order("name ASC").
		Find(&vendors).Error
	if err != nil {
		return nil, Pagination{}, NewInternalError("failed to list vendors")
	}

	return vendors, NewPagination(total, opts.Page, opts.Limit), nil
}

// GetByID returns a vendor
func (s *VendorService) GetByID(id uint) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := s.db.First(&vendor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("vendor not found")
		}
		return nil, NewInternalError("failed to load vendor")
	}
	return &vendor, nil
}

// UpdateVendorInput carries optional fields; nil leaves the stored value
// untouched.
type UpdateVendorInput struct {
	Name    *string `json:"name"`
	TaxID   *string `json:"tax_id"`
	Contact *string `json:"contact"`
	Address *string `json:"address"`
}

// Update applies the provided fields and returns the updated vendor
func (s *VendorService) Update(id uint, input UpdateVendorInput) (*models.Vendor, error) {
	vendor, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, NewValidationError("name cannot be empty")
		}
		vendor.Name = *input.Name
	}
	if input.TaxID != nil {
		vendor.TaxID = *input.TaxID
	}
	if input.Contact != nil {
		vendor.Contact = *input.Contact
	}
	if input.Address != nil {
		vendor.Address = *input.Address
	}

	if err := s.db.Save(vendor).Error; err != nil {
		return nil, NewInternalError("failed to update vendor")
	}
	return vendor, nil
}

// Delete removes a vendor
func (s *VendorService) Delete(id uint) error {
	vendor, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(vendor).Error; err != nil {
		return NewInternalError("failed to delete vendor")
	}
	return nil
}
