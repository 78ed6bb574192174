package handlers

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/hr-dashboard/internal/models"
	"alfredoptarigan/hr-dashboard/internal/services"
	"alfredoptarigan/hr-dashboard/internal/views"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var toastAlreadyProcessing = models.Toast{
	Title:       "Already processing",
	Description: "Wait for the current sheet to finish before submitting another one",
	Variant:     models.ToastDestructive,
}

type DashboardHandler struct {
	dashboard services.DashboardService
	reports   services.ReportService
	toasts    services.ToastService
	worker    services.Worker
}

func NewDashboardHandler(
	dashboard services.DashboardService,
	reports services.ReportService,
	toasts services.ToastService,
	worker services.Worker,
) *DashboardHandler {
	return &DashboardHandler{
		dashboard: dashboard,
		reports:   reports,
		toasts:    toasts,
		worker:    worker,
	}
}

// HandleShowProcess handles GET /dashboard
func (h *DashboardHandler) HandleShowProcess(c *fiber.Ctx) error {
	return h.renderProcess(c, fiber.StatusOK, "")
}

// HandleProcess handles POST /dashboard/process
func (h *DashboardHandler) HandleProcess(c *fiber.Ctx) error {
	session := currentSession(c)

	var req models.SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		h.toasts.Push(session.ID, services.ToastInvalidURL)
		return h.renderProcess(c, fiber.StatusBadRequest, "")
	}

	run, err := h.dashboard.StartRun(session, req.SheetURL)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidSheetURL):
			return h.renderProcess(c, fiber.StatusBadRequest, req.SheetURL)
		case errors.Is(err, services.ErrAlreadyProcessing):
			h.toasts.Push(session.ID, toastAlreadyProcessing)
			return c.Redirect("/dashboard", fiber.StatusSeeOther)
		case errors.Is(err, services.ErrSessionNotFound):
			return c.Redirect("/login", fiber.StatusSeeOther)
		default:
			return fmt.Errorf("failed to start run: %w", err)
		}
	}

	h.worker.EnqueueJob(run.ID)
	return c.Redirect("/dashboard", fiber.StatusSeeOther)
}

// HandleShowResults handles GET /dashboard/results
func (h *DashboardHandler) HandleShowResults(c *fiber.Ctx) error {
	session := currentSession(c)

	results, err := h.dashboard.Results(c.UserContext(), session)
	if err != nil {
		if errors.Is(err, services.ErrResultsUnavailable) {
			return c.Redirect("/dashboard")
		}
		return err
	}

	if results.View.FetchErr != nil {
		h.toasts.Push(session.ID, services.ToastShortlistUnavailable)
	}

	return c.Render(views.PageResults, views.NewResultsPage(
		session,
		results.LastRun,
		h.toasts.Drain(session.ID),
		results.View.Rows(),
		string(results.View.Source),
	), views.Layout)
}

// HandleDownloadReport handles GET /dashboard/report.xlsx
func (h *DashboardHandler) HandleDownloadReport(c *fiber.Ctx) error {
	session := currentSession(c)

	results, err := h.dashboard.Results(c.UserContext(), session)
	if err != nil {
		if errors.Is(err, services.ErrResultsUnavailable) {
			return c.Redirect("/dashboard")
		}
		return err
	}

	buf, err := h.reports.Build(session.Email, results)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}

	filename := fmt.Sprintf("hr-summary-%s.xlsx", time.Now().Format("20060102-150405"))
	log.Printf("📊 Summary report %s generated for session %s\n", filename, session.ID)

	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, xlsxContentType)
	return c.Send(buf.Bytes())
}

func (h *DashboardHandler) renderProcess(c *fiber.Ctx, status int, sheetURL string) error {
	overview, err := h.dashboard.Overview(currentSession(c))
	if err != nil {
		return err
	}

	return c.Status(status).Render(views.PageDashboard, views.NewDashboardPage(
		overview.Session,
		overview.LastRun,
		overview.Toasts,
		sheetURL,
	), views.Layout)
}
