package repository

import (
	"context"
	"errors"

	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("profile already exists")
)

// ProfileRepository reads and writes user profiles (identity -> role).
type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Create inserts a profile. An empty role defaults to person.
func (r *ProfileRepository) Create(ctx context.Context, uid uuid.UUID, email string, role models.Role) (*models.UserProfile, error) {
	if role == "" {
		role = models.RolePerson
	}
	if !role.Valid() {
		return nil, apperr.Invalid("role", "role must be person or cleaner")
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.UserProfile{}).Where("uid = ?", uid).Count(&count).Error; err != nil {
		return nil, apperr.Persistence("create profile", err)
	}
	if count > 0 {
		return nil, ErrProfileExists
	}

	profile := models.UserProfile{
		UID:   uid,
		Email: email,
		Role:  role,
	}
	if err := r.db.WithContext(ctx).Create(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrProfileExists
		}
		return nil, apperr.Persistence("create profile", err)
	}
	return &profile, nil
}

func (r *ProfileRepository) Get(ctx context.Context, uid uuid.UUID) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := r.db.WithContext(ctx).First(&profile, "uid = ?", uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, apperr.Persistence("get profile", err)
	}
	return &profile, nil
}

func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := r.db.WithContext(ctx).First(&profile, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, apperr.Persistence("get profile", err)
	}
	return &profile, nil
}

// List returns every profile. Used by the admin view only.
func (r *ProfileRepository) List(ctx context.Context) ([]models.UserProfile, error) {
	profiles := []models.UserProfile{}
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&profiles).Error; err != nil {
		return nil, apperr.Persistence("list profiles", err)
	}
	return profiles, nil
}

// SetRole is the out-of-band administrative role change.
func (r *ProfileRepository) SetRole(ctx context.Context, uid uuid.UUID, role models.Role) error {
	if !role.Valid() {
		return apperr.Invalid("role", "role must be person or cleaner")
	}
	result := r.db.WithContext(ctx).Model(&models.UserProfile{}).Where("uid = ?", uid).Update("role", role)
	if result.Error != nil {
		return apperr.Persistence("set role", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}
