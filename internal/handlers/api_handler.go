package handlers

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/hr-dashboard/internal/models"
	"alfredoptarigan/hr-dashboard/internal/services"
	"alfredoptarigan/hr-dashboard/internal/views"
)

// APIHandler serves the JSON endpoints under /api/v1.
type APIHandler struct {
	dashboard services.DashboardService
	worker    services.Worker
}

func NewAPIHandler(dashboard services.DashboardService, worker services.Worker) *APIHandler {
	return &APIHandler{
		dashboard: dashboard,
		worker:    worker,
	}
}

// HandleHealth handles GET /api/v1/health
func (h *APIHandler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "healthy",
		"time":   time.Now(),
	})
}

// HandleStatus handles GET /api/v1/status
func (h *APIHandler) HandleStatus(c *fiber.Ctx) error {
	overview, err := h.dashboard.Overview(currentSession(c))
	if err != nil {
		return err
	}

	return c.JSON(overview.StatusResponse())
}

// HandleProcess handles POST /api/v1/process
func (h *APIHandler) HandleProcess(c *fiber.Ctx) error {
	var req models.SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid request payload")
	}

	if req.SheetURL == "" {
		return jsonError(c, fiber.StatusBadRequest, "sheet_url is required")
	}

	run, err := h.dashboard.StartRun(currentSession(c), req.SheetURL)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidSheetURL):
			return jsonError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrAlreadyProcessing):
			return jsonError(c, fiber.StatusConflict, err.Error())
		case errors.Is(err, services.ErrSessionNotFound):
			return jsonError(c, fiber.StatusUnauthorized, "authentication required")
		default:
			return err
		}
	}

	h.worker.EnqueueJob(run.ID)

	return c.Status(fiber.StatusAccepted).JSON(models.SubmitResponse{
		RunID:  run.ID.String(),
		Status: string(run.Status),
	})
}

// HandleCandidates handles GET /api/v1/candidates
func (h *APIHandler) HandleCandidates(c *fiber.Ctx) error {
	results, err := h.dashboard.Results(c.UserContext(), currentSession(c))
	if err != nil {
		if errors.Is(err, services.ErrResultsUnavailable) {
			return jsonError(c, fiber.StatusConflict, err.Error())
		}
		return err
	}

	return c.JSON(results.View.Response())
}

// HandleNotFound renders the 404 page, or a JSON 404 under /api.
func HandleNotFound(c *fiber.Ctx) error {
	log.Printf("⚠️  404: no route for %s %s\n", c.Method(), c.OriginalURL())

	if strings.HasPrefix(c.Path(), "/api/") {
		return jsonError(c, fiber.StatusNotFound, "Not found")
	}

	return c.Status(fiber.StatusNotFound).Render(views.PageNotFound, views.NotFoundPage{
		Path: c.Path(),
	}, views.Layout)
}
