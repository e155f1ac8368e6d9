package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/brunocorregedoria/reforma2/internal/models"
	"github.com/brunocorregedoria/reforma2/internal/utils"
)

// MaxUploadSize limits a single uploaded file to 10 MB
const MaxUploadSize = 10 << 20

// allowedMimeTypes is the upload allow-list: images, PDF, Word docs and
// plain text.
var allowedMimeTypes = []string{
	"image/jpeg",
	"image/jpg",
	"image/png",
	"image/gif",
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"text/plain",
}

// mimeAllowed checks the upload allow-list
func mimeAllowed(mimeType string) bool {
	for _, allowed := range allowedMimeTypes {
		if mimeType == allowed {
			return true
		}
	}
	return false
}

// AttachmentService handles the attachment lifecycle: upload to disk,
// metadata extraction, download and deletion.
type AttachmentService struct {
	db        *gorm.DB
	uploadDir string
}

// NewAttachmentService creates an AttachmentService storing files under
// uploadDir.
func NewAttachmentService(db *gorm.DB, uploadDir string) *AttachmentService {
	return &AttachmentService{db: db, uploadDir: uploadDir}
}

// fileMetadata is the always-present portion of the metadata payload
type fileMetadata struct {
	OriginalName string    `json:"original_name"`
	Size         int64     `json:"size"`
	MimeType     string    `json:"mime_type"`
	UploadDate   time.Time `json:"upload_date"`
}

// attachmentMetadata is the full metadata payload stored on the row
type attachmentMetadata struct {
	File fileMetadata         `json:"file"`
	Exif *utils.ImageMetadata `json:"exif,omitempty"`
}

// UploadInput carries one multipart file plus its target work order
type UploadInput struct {
	WorkOrderID uint
	Type        models.AttachmentType
	UserID      uint
	File        multipart.File
	Header      *multipart.FileHeader
}

// Upload validates the MIME type against the allow-list, stores the file
// under a collision-resistant name and persists the attachment row. EXIF
// extraction for images is best-effort; its failure never aborts the upload.
func (s *AttachmentService) Upload(input UploadInput) (*models.Attachment, error) {
	if input.Header == nil {
		return nil, NewValidationError("no file was sent")
	}
	if input.Header.Size > MaxUploadSize {
		return nil, NewValidationError("file exceeds the 10MB size limit")
	}

	mimeType := strings.TrimSpace(strings.Split(input.Header.Header.Get("Content-Type"), ";")[0])
	if !mimeAllowed(mimeType) {
		return nil, NewUnsupportedMediaError("file type not allowed")
	}

	attType := input.Type
	if attType == "" {
		attType = models.AttachmentPhoto
	}
	if !models.ValidAttachmentType(attType) {
		return nil, NewValidationError("invalid attachment type")
	}

	var workOrder models.WorkOrder
	if err := s.db.First(&workOrder, input.WorkOrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("work order not found")
		}
		return nil, NewInternalError("failed to load work order")
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, NewInternalError("failed to prepare upload directory")
	}

	ext := filepath.Ext(input.Header.Filename)
	name := fmt.Sprintf("file-%d-%s%s", time.Now().UnixMilli(), uuid.New().String(), ext)
	path := filepath.Join(s.uploadDir, name)

	dst, err := os.Create(path)
	if err != nil {
		return nil, NewInternalError("failed to store file")
	}
	written, err := io.Copy(dst, input.File)
	dst.Close()
	if err != nil {
		os.Remove(path)
		return nil, NewInternalError("failed to store file")
	}

	meta := attachmentMetadata{
		File: fileMetadata{
			OriginalName: input.Header.Filename,
			Size:         written,
			MimeType:     mimeType,
			UploadDate:   time.Now().UTC(),
		},
	}
	if strings.HasPrefix(mimeType, "image/") {
		exifMeta, err := utils.ExtractImageMetadata(path)
		if err != nil {
			log.Printf("EXIF extraction failed for %s: %v", name, err)
		} else {
			meta.Exif = exifMeta
		}
	}

	rawMeta, err := json.Marshal(meta)
	if err != nil {
		os.Remove(path)
		return nil, NewInternalError("failed to encode metadata")
	}

	userID := input.UserID
	attachment := models.Attachment{
		WorkOrderID: input.WorkOrderID,
		Type:        attType,
		FilePath:    path,
		UploadedBy:  &userID,
		UploadedAt:  time.Now().UTC(),
		Metadata:    datatypes.JSON(rawMeta),
	}
	if err := s.db.Create(&attachment).Error; err != nil {
		os.Remove(path)
		return nil, NewInternalError("failed to create attachment")
	}

	return s.GetByID(attachment.ID)
}

// AttachmentListOptions filters the attachment list
type AttachmentListOptions struct {
	WorkOrderID uint
	Type        string
}

// List returns attachments newest-upload first. The list is not paginated.
func (s *AttachmentService) List(opts AttachmentListOptions) ([]models.Attachment, error) {
	query := s.db.Model(&models.Attachment{})
	if opts.WorkOrderID != 0 {
		query = query.Where("work_order_id = ?", opts.WorkOrderID)
	}
	if opts.Type != "" {
		query = query.Where("type = ?", opts.Type)
	}

	var attachments []models.Attachment
	err := query.
		Preload("Uploader").
		Preload("WorkOrder").
		Order("uploaded_at DESC").
		Find(&attachments).Error
	if err != nil {
		return nil, NewInternalError("failed to list attachments")
	}
	return attachments, nil
}

// GetByID returns an attachment with its uploader and work order expanded
func (s *AttachmentService) GetByID(id uint) (*models.Attachment, error) {
	var attachment models.Attachment
	err := s.db.Preload("Uploader").Preload("WorkOrder").First(&attachment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("attachment not found")
		}
		return nil, NewInternalError("failed to load attachment")
	}
	return &attachment, nil
}

// Download re-validates that the file still exists on disk and returns the
// attachment together with the name the client should save it as.
func (s *AttachmentService) Download(id uint) (*models.Attachment, string, error) {
	attachment, err := s.GetByID(id)
	if err != nil {
		return nil, "", err
	}

	if _, err := os.Stat(attachment.FilePath); err != nil {
		return nil, "", NewNotFoundError("file not found on server")
	}

	return attachment, s.downloadName(attachment), nil
}

// downloadName prefers the stored original filename over the disk name
func (s *AttachmentService) downloadName(attachment *models.Attachment) string {
	var meta attachmentMetadata
	if err := json.Unmarshal(attachment.Metadata, &meta); err == nil && meta.File.OriginalName != "" {
		return meta.File.OriginalName
	}
	return filepath.Base(attachment.FilePath)
}

// Delete removes the attachment row, then attempts to unlink the file. The
// row goes first so a failed delete never leaves it pointing at a vanished
// file; a file already missing on disk is tolerated.
func (s *AttachmentService) Delete(id uint) error {
	attachment, err := s.GetByID(id)
	if err != nil {
		return err
	}

	if err := s.db.Delete(attachment).Error; err != nil {
		return NewInternalError("failed to delete attachment")
	}

	if err := os.Remove(attachment.FilePath); err != nil {
		log.Printf("Attachment file already removed from disk: %v", err)
	}
	return nil
}
