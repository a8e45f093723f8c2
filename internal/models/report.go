package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReportStatus is the lifecycle state of a sanitation report.
type ReportStatus string

const (
	StatusPending    ReportStatus = "Pending"
	StatusInProgress ReportStatus = "In Progress"
	StatusCleaned    ReportStatus = "Cleaned"
)

// ReportStatuses lists every valid status in lifecycle order.
var ReportStatuses = []ReportStatus{StatusPending, StatusInProgress, StatusCleaned}

func (s ReportStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCleaned:
		return true
	}
	return false
}

// Rank orders statuses along the lifecycle. Unknown statuses rank -1.
func (s ReportStatus) Rank() int {
	for i, st := range ReportStatuses {
		if st == s {
			return i
		}
	}
	return -1
}

// Report is a single campus sanitation issue submission.
type Report struct {
	ID            uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Location      string       `gorm:"not null;size:255" json:"location"`
	Description   string       `gorm:"type:text;not null" json:"description"`
	Status        ReportStatus `gorm:"not null;size:20;index" json:"status"`
	Date          string       `gorm:"not null;size:10" json:"date"`
	ReporterID    *uuid.UUID   `gorm:"type:uuid;index" json:"reporter_id,omitempty"`
	ReporterEmail string       `gorm:"size:255" json:"reporter_email,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (Report) TableName() string {
	return "reports"
}
