package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Issue is a photo-backed problem report uploaded from the camera flow.
type Issue struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Description string    `gorm:"type:text;not null" json:"description"`
	ImageURL    string    `gorm:"type:text;not null" json:"image_url"`
	Resolved    bool      `gorm:"not null;default:false" json:"resolved"`
	CreatedAt   time.Time `json:"created_at"`
}

func (i *Issue) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (Issue) TableName() string {
	return "issues"
}
