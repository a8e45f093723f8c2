package dto

import "github.com/ahmetcoskunkizilkaya/cleancampus/internal/models"

type CreateReportRequest struct {
	Location    string `json:"location" validate:"required"`
	Description string `json:"description" validate:"required"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type ReportListResponse struct {
	Reports []models.Report `json:"reports"`
	Total   int             `json:"total"`
}

type SetRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=person cleaner"`
}

type CreateIssueRequest struct {
	Description string `form:"description" validate:"required"`
}
