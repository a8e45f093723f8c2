package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/dto"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/models"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Upload is an image file attached to an issue.
type Upload struct {
	Filename string
	Size     int64
	Body     io.Reader
}

// IssueService handles the photo issue flow: upload the picture, then record
// the issue with its public URL. Issues never feed into reports.
type IssueService struct {
	db        *gorm.DB
	store     storage.BlobStore
	validator *Validator
	now       func() time.Time
}

// NewIssueService builds the service. A nil store disables uploads.
func NewIssueService(db *gorm.DB, store storage.BlobStore, validator *Validator) *IssueService {
	return &IssueService{db: db, store: store, validator: validator, now: time.Now}
}

func (s *IssueService) Enabled() bool {
	return s.store != nil
}

func (s *IssueService) Create(ctx context.Context, userID uuid.UUID, req *dto.CreateIssueRequest, file Upload) (*models.Issue, error) {
	if s.store == nil {
		return nil, storage.ErrStorageDisabled
	}

	req.Description = strings.TrimSpace(req.Description)
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	if file.Body == nil {
		return nil, apperr.Invalid("image", "image is required")
	}
	if !storage.IsImage(file.Filename) {
		return nil, apperr.Invalid("image", storage.ErrUnsupportedType.Error())
	}
	if file.Size > storage.MaxUploadSize {
		return nil, apperr.Invalid("image", "image must be 10MB or smaller")
	}

	name := fmt.Sprintf("issues/%d-%s%s", s.now().UnixMilli(), uuid.NewString(), strings.ToLower(filepath.Ext(file.Filename)))
	imageURL, err := s.store.Upload(ctx, name, file.Body)
	if err != nil {
		return nil, fmt.Errorf("upload issue image: %w", err)
	}

	issue := models.Issue{
		ID:          uuid.New(),
		UserID:      userID,
		Description: req.Description,
		ImageURL:    imageURL,
		Resolved:    false,
	}
	if err := s.db.WithContext(ctx).Create(&issue).Error; err != nil {
		return nil, apperr.Persistence("create issue", err)
	}
	return &issue, nil
}

func (s *IssueService) ListMine(ctx context.Context, userID uuid.UUID) ([]models.Issue, error) {
	issues := []models.Issue{}
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&issues).Error; err != nil {
		return nil, apperr.Persistence("list issues", err)
	}
	return issues, nil
}
