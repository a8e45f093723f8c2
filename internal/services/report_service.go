package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/dto"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/models"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/repository"
	"github.com/google/uuid"
)

type ReportService struct {
	reports     *repository.ReportRepository
	profiles    *repository.ProfileRepository
	validator   *Validator
	forwardOnly bool
}

func NewReportService(reports *repository.ReportRepository, profiles *repository.ProfileRepository, validator *Validator, forwardOnly bool) *ReportService {
	return &ReportService{
		reports:     reports,
		profiles:    profiles,
		validator:   validator,
		forwardOnly: forwardOnly,
	}
}

// AddReport files a new report for reporterID. Status and date are assigned
// by the repository regardless of input.
func (s *ReportService) AddReport(ctx context.Context, reporterID uuid.UUID, reporterEmail string, req *dto.CreateReportRequest) (*models.Report, error) {
	req.Location = strings.TrimSpace(req.Location)
	req.Description = strings.TrimSpace(req.Description)
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	return s.reports.Add(ctx, repository.NewReport{
		Location:      req.Location,
		Description:   req.Description,
		ReporterID:    &reporterID,
		ReporterEmail: reporterEmail,
	})
}

// IsCleaner reports whether uid's profile holds the cleaner role. A missing
// profile is not an error; it just is not a cleaner.
func (s *ReportService) IsCleaner(ctx context.Context, uid uuid.UUID) (bool, error) {
	profile, err := s.profiles.Get(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return false, nil
		}
		return false, err
	}
	return profile.Role == models.RoleCleaner, nil
}

// UpdateStatus changes a report's status on behalf of actorID. The role check
// here is explicit; the repository applies the same rule again on write.
func (s *ReportService) UpdateStatus(ctx context.Context, actorID, reportID uuid.UUID, req *dto.UpdateStatusRequest) (*models.Report, error) {
	req.Status = strings.TrimSpace(req.Status)
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	status := models.ReportStatus(req.Status)
	if !status.Valid() {
		return nil, apperr.Invalid("status", "status must be one of Pending, In Progress, Cleaned")
	}

	cleaner, err := s.IsCleaner(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !cleaner {
		return nil, apperr.ErrForbidden
	}

	current, err := s.reports.Get(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(current.Status, status, s.forwardOnly) {
		return nil, ErrInvalidTransition
	}

	if err := s.reports.UpdateStatusAs(ctx, actorID, reportID, status); err != nil {
		return nil, err
	}

	slog.Info("report status updated",
		"report_id", reportID.String(),
		"user_id", actorID.String(),
		"action", "update_status",
		"from", string(current.Status),
		"to", string(status),
	)
	return s.reports.Get(ctx, reportID)
}

// Get returns a report visible to the caller: its own reports, or any report for a cleaner.
func (s *ReportService) Get(ctx context.Context, actorID, reportID uuid.UUID) (*models.Report, error) {
	report, err := s.reports.Get(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.ReporterID != nil && *report.ReporterID == actorID {
		return report, nil
	}
	cleaner, err := s.IsCleaner(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !cleaner {
		return nil, apperr.ErrForbidden
	}
	return report, nil
}

func (s *ReportService) ListMine(ctx context.Context, reporterID uuid.UUID) ([]models.Report, error) {
	return s.reports.List(ctx, repository.ReportFilter{ReporterID: &reporterID})
}

func (s *ReportService) ListAll(ctx context.Context) ([]models.Report, error) {
	return s.reports.List(ctx, repository.ReportFilter{})
}

// WatchMine opens a live subscription to the caller's own reports.
func (s *ReportService) WatchMine(ctx context.Context, reporterID uuid.UUID) (*repository.Subscription, error) {
	return s.reports.Watch(ctx, repository.ReportFilter{ReporterID: &reporterID})
}

// WatchAll opens a live subscription to every report.
func (s *ReportService) WatchAll(ctx context.Context) (*repository.Subscription, error) {
	return s.reports.Watch(ctx, repository.ReportFilter{})
}
