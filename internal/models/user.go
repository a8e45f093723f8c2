package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the authorization role attached to a user profile.
type Role string

const (
	RolePerson  Role = "person"
	RoleCleaner Role = "cleaner"
)

func (r Role) Valid() bool {
	return r == RolePerson || r == RoleCleaner
}

// Account holds sign-in credentials. Its ID is the identity every other record refers to.
type Account struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password     string         `gorm:"not null" json:"-"`
	AuthProvider string         `gorm:"size:50;default:'email'" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (Account) TableName() string {
	return "accounts"
}

// UserProfile maps an identity to its role. Stored in the "users" table.
type UserProfile struct {
	UID       uuid.UUID `gorm:"type:uuid;primaryKey;column:uid" json:"uid"`
	Email     string    `gorm:"not null;size:255" json:"email"`
	Role      Role      `gorm:"not null;size:20;default:'person'" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (UserProfile) TableName() string {
	return "users"
}
