package services

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/models"
)

var ErrInvalidTransition = errors.New("status change not allowed")

// CanTransition reports whether a report may move from one status to another.
// Re-applying the current status is always allowed. Without forwardOnly any
// valid target is accepted; with it a report can only advance
// (Pending -> In Progress -> Cleaned, or Pending -> Cleaned directly).
func CanTransition(from, to models.ReportStatus, forwardOnly bool) bool {
	if !to.Valid() {
		return false
	}
	if from == to || !forwardOnly {
		return true
	}
	return to.Rank() > from.Rank()
}
