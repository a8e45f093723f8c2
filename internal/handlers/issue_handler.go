package handlers

import (
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/dto"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/identity"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/services"
	"github.com/gofiber/fiber/v2"
)

type IssueHandler struct {
	issueService *services.IssueService
}

func NewIssueHandler(issueService *services.IssueService) *IssueHandler {
	return &IssueHandler{issueService: issueService}
}

// Create accepts multipart/form-data with an "image" file and a "description" field.
func (h *IssueHandler) Create(c *fiber.Ctx) error {
	uid, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	if !h.issueService.Enabled() {
		return errorJSON(c, fiber.StatusServiceUnavailable, "Photo uploads are not available")
	}

	var req dto.CreateIssueRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	file, err := c.FormFile("image")
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "image is required")
	}
	src, err := file.Open()
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Could not read image")
	}
	defer src.Close()

	issue, err := h.issueService.Create(c.UserContext(), uid, &req, services.Upload{
		Filename: file.Filename,
		Size:     file.Size,
		Body:     src,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(issue)
}

func (h *IssueHandler) ListMine(c *fiber.Ctx) error {
	uid, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	issues, err := h.issueService.ListMine(c.UserContext(), uid)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"issues": issues, "total": len(issues)})
}
