package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/repository"
	"github.com/xuri/excelize/v2"
)

const reportSheet = "Reports"

var reportColumns = []interface{}{"ID", "Location", "Description", "Status", "Date", "Reporter Email", "Updated At"}

type ExportService struct {
	reports *repository.ReportRepository
}

func NewExportService(reports *repository.ReportRepository) *ExportService {
	return &ExportService{reports: reports}
}

// ReportsXLSX renders every report into a single-sheet workbook, newest first.
func (s *ExportService) ReportsXLSX(ctx context.Context) (*bytes.Buffer, error) {
	reports, err := s.reports.List(ctx, repository.ReportFilter{})
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(reportSheet, "A1", &reportColumns); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	if err := f.SetCellStyle(reportSheet, "A1", "G1", header); err != nil {
		return nil, fmt.Errorf("apply header style: %w", err)
	}

	for i, r := range reports {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			r.ID.String(),
			r.Location,
			r.Description,
			string(r.Status),
			r.Date,
			r.ReporterEmail,
			r.UpdatedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		if err := f.SetSheetRow(reportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(reportSheet, "A", "A", 38); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(reportSheet, "B", "C", 40); err != nil {
		return nil, err
	}

	return f.WriteToBuffer()
}
