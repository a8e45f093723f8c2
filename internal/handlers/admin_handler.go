package handlers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/dto"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/models"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/repository"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AdminHandler struct {
	profiles      *repository.ProfileRepository
	exportService *services.ExportService
	validator     *services.Validator
}

func NewAdminHandler(profiles *repository.ProfileRepository, exportService *services.ExportService, validator *services.Validator) *AdminHandler {
	return &AdminHandler{profiles: profiles, exportService: exportService, validator: validator}
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	profiles, err := h.profiles.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"users": profiles, "total": len(profiles)})
}

func (h *AdminHandler) SetRole(c *fiber.Ctx) error {
	uid, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid user ID")
	}

	var req dto.SetRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	if err := h.validator.Struct(&req); err != nil {
		return respondError(c, err)
	}

	if err := h.profiles.SetRole(c.UserContext(), uid, models.Role(req.Role)); err != nil {
		return respondError(c, err)
	}
	slog.Info("role changed", "user_id", uid.String(), "action", "set_role", "role", req.Role)

	profile, err := h.profiles.Get(c.UserContext(), uid)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// ExportReports streams every report as an XLSX workbook.
func (h *AdminHandler) ExportReports(c *fiber.Ctx) error {
	buf, err := h.exportService.ReportsXLSX(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}

	filename := fmt.Sprintf("reports-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}
