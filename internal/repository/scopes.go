package repository

import (
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ForReporter returns a GORM scope that filters reports by author.
func ForReporter(reporterID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("reporter_id = ?", reporterID)
	}
}

// CleanerOnly restricts a write to rows the actor may touch: the actor must hold
// the cleaner role in the profiles table at the time of the write.
func CleanerOnly(actorID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("EXISTS (SELECT 1 FROM users WHERE users.uid = ? AND users.role = ?)", actorID, models.RoleCleaner)
	}
}
