package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/models"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/realtime"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

var (
	ErrReportNotFound  = errors.New("report not found")
	ErrLiveUnavailable = errors.New("live report updates not configured")
)

// ReportFilter narrows a report query. A nil ReporterID means every report.
type ReportFilter struct {
	ReporterID *uuid.UUID
}

func (f ReportFilter) matches(event realtime.ReportEvent) bool {
	if f.ReporterID == nil {
		return true
	}
	return event.ReporterID != nil && *event.ReporterID == *f.ReporterID
}

// NewReport carries the caller-supplied fields of a report. Status and date
// are always assigned by the repository.
type NewReport struct {
	Location      string
	Description   string
	ReporterID    *uuid.UUID
	ReporterEmail string
}

type ReportRepository struct {
	db     *gorm.DB
	broker *realtime.Broker
	now    func() time.Time
}

func NewReportRepository(db *gorm.DB, broker *realtime.Broker) *ReportRepository {
	return &ReportRepository{db: db, broker: broker, now: time.Now}
}

// WithClock replaces the time source used for report dates and update stamps.
func (r *ReportRepository) WithClock(now func() time.Time) *ReportRepository {
	r.now = now
	return r
}

func (r *ReportRepository) List(ctx context.Context, filter ReportFilter) ([]models.Report, error) {
	query := r.db.WithContext(ctx).Model(&models.Report{})
	if filter.ReporterID != nil {
		query = query.Scopes(ForReporter(*filter.ReporterID))
	}

	reports := []models.Report{}
	if err := query.Order("created_at DESC").Find(&reports).Error; err != nil {
		return nil, apperr.Persistence("list reports", err)
	}
	return reports, nil
}

func (r *ReportRepository) Get(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	var report models.Report
	if err := r.db.WithContext(ctx).First(&report, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, apperr.Persistence("get report", err)
	}
	return &report, nil
}

// Add stores a new report with status Pending and today's (UTC) date.
func (r *ReportRepository) Add(ctx context.Context, in NewReport) (*models.Report, error) {
	report := models.Report{
		ID:            uuid.New(),
		Location:      in.Location,
		Description:   in.Description,
		Status:        models.StatusPending,
		Date:          r.now().UTC().Format(dateLayout),
		ReporterID:    in.ReporterID,
		ReporterEmail: in.ReporterEmail,
	}

	if err := r.db.WithContext(ctx).Create(&report).Error; err != nil {
		return nil, apperr.Persistence("add report", err)
	}

	r.publish(realtime.ReportEvent{Type: realtime.EventCreated, ReportID: report.ID, ReporterID: report.ReporterID})
	return &report, nil
}

// UpdateStatus writes the status field and update timestamp. It performs no
// role check; see UpdateStatusAs.
func (r *ReportRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ReportStatus) error {
	return r.updateStatus(ctx, id, status, nil)
}

// UpdateStatusAs writes the status only if actorID currently holds the cleaner
// role. A refused write yields a PersistenceError wrapping ErrPermissionDenied.
func (r *ReportRepository) UpdateStatusAs(ctx context.Context, actorID, id uuid.UUID, status models.ReportStatus) error {
	return r.updateStatus(ctx, id, status, CleanerOnly(actorID))
}

func (r *ReportRepository) updateStatus(ctx context.Context, id uuid.UUID, status models.ReportStatus, rule func(*gorm.DB) *gorm.DB) error {
	if !status.Valid() {
		return apperr.Invalid("status", "status must be one of Pending, In Progress, Cleaned")
	}

	query := r.db.WithContext(ctx).Model(&models.Report{}).Where("id = ?", id)
	if rule != nil {
		query = query.Scopes(rule)
	}
	result := query.Updates(map[string]interface{}{
		"status":     status,
		"updated_at": r.now().UTC(),
	})
	if result.Error != nil {
		return apperr.Persistence("update report status", result.Error)
	}

	report, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if result.RowsAffected == 0 {
		return apperr.Persistence("update report status", apperr.ErrPermissionDenied)
	}

	r.publish(realtime.ReportEvent{Type: realtime.EventUpdated, ReportID: report.ID, ReporterID: report.ReporterID})
	return nil
}

func (r *ReportRepository) publish(event realtime.ReportEvent) {
	if r.broker == nil {
		return
	}
	if err := r.broker.Publish(event); err != nil {
		slog.Error("report change not broadcast", "report_id", event.ReportID.String(), "action", string(event.Type), "error", err)
	}
}
