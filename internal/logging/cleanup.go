package logging

import (
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/models"
	"gorm.io/gorm"
)

// StartCleanup purges system_logs older than retention immediately and then
// once a day until done is closed.
func StartCleanup(db *gorm.DB, retention time.Duration, done chan struct{}) {
	purge := func() {
		if _, err := PurgeOlderThan(db, time.Now().Add(-retention)); err != nil {
			slog.Error("log cleanup failed", "error", err, "action", "log_cleanup")
		}
	}
	go func() {
		purge()
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				purge()
			case <-done:
				return
			}
		}
	}()
}

// PurgeOlderThan removes log rows written before cutoff.
func PurgeOlderThan(db *gorm.DB, cutoff time.Time) (int64, error) {
	result := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected > 0 {
		slog.Info("log cleanup completed", "deleted", result.RowsAffected)
	}
	return result.RowsAffected, nil
}
