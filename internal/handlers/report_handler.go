package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/dto"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/identity"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/models"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/repository"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const defaultKeepAlive = 25 * time.Second

type ReportHandler struct {
	reportService *services.ReportService
	// streams end when this context is cancelled, independent of the request
	baseCtx   context.Context
	keepAlive time.Duration
}

func NewReportHandler(baseCtx context.Context, reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		baseCtx:       baseCtx,
		keepAlive:     defaultKeepAlive,
	}
}

func (h *ReportHandler) Create(c *fiber.Ctx) error {
	uid, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	report, err := h.reportService.AddReport(c.UserContext(), uid, identity.GetEmail(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

func (h *ReportHandler) ListMine(c *fiber.Ctx) error {
	uid, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	reports, err := h.reportService.ListMine(c.UserContext(), uid)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ReportListResponse{Reports: reports, Total: len(reports)})
}

func (h *ReportHandler) ListAll(c *fiber.Ctx) error {
	reports, err := h.reportService.ListAll(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ReportListResponse{Reports: reports, Total: len(reports)})
}

func (h *ReportHandler) Get(c *fiber.Ctx) error {
	uid, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid report ID")
	}

	report, err := h.reportService.Get(c.UserContext(), uid, reportID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

func (h *ReportHandler) UpdateStatus(c *fiber.Ctx) error {
	uid, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid report ID")
	}

	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	report, err := h.reportService.UpdateStatus(c.UserContext(), uid, reportID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// StreamMine pushes the caller's reports as server-sent events until the client goes away.
func (h *ReportHandler) StreamMine(c *fiber.Ctx) error {
	uid, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	return h.stream(c, func(ctx context.Context) (*repository.Subscription, error) {
		return h.reportService.WatchMine(ctx, uid)
	})
}

// StreamAll pushes every report. Mounted behind CleanerRequired.
func (h *ReportHandler) StreamAll(c *fiber.Ctx) error {
	return h.stream(c, h.reportService.WatchAll)
}

func (h *ReportHandler) stream(c *fiber.Ctx, open func(ctx context.Context) (*repository.Subscription, error)) error {
	// The fiber context is recycled once the handler returns, so the
	// subscription lives on the handler's base context instead.
	ctx, cancel := context.WithCancel(h.baseCtx)
	sub, err := open(ctx)
	if err != nil {
		cancel()
		return respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set("X-Accel-Buffering", "no")

	keepAlive := h.keepAlive
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cancel()
		defer sub.Close()

		ticker := time.NewTicker(keepAlive)
		defer ticker.Stop()

		for {
			select {
			case reports, ok := <-sub.Updates():
				if !ok {
					return
				}
				if err := writeReportsEvent(w, reports); err != nil {
					slog.Debug("report stream closed", "error", err)
					return
				}
			case <-sub.Errors():
				if err := writeErrorEvent(w); err != nil {
					return
				}
			case <-ticker.C:
				if _, err := w.WriteString(": ping\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	})
	return nil
}

func writeReportsEvent(w *bufio.Writer, reports []models.Report) error {
	data, err := json.Marshal(reports)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: reports\ndata: %s\n\n", data); err != nil {
		return err
	}
	return w.Flush()
}

// writeErrorEvent tells the client its last snapshot may be stale. The stream
// stays open and the next change re-sends the full list.
func writeErrorEvent(w *bufio.Writer) error {
	data, err := json.Marshal(dto.ErrorResponse{Error: true, Message: "Could not refresh reports"})
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: error\ndata: %s\n\n", data); err != nil {
		return err
	}
	return w.Flush()
}
