// Package views holds the dashboard's HTML pages and the view models bound to them.
package views

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gofiber/template/html/v2"

	"alfredoptarigan/hr-dashboard/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names; each page renders inside Layout.
const (
	Layout        = "layout"
	PageLogin     = "login"
	PageDashboard = "dashboard"
	PageResults   = "results"
	PageNotFound  = "notfound"
)

// NewEngine returns the fiber view engine over the embedded templates.
func NewEngine() *html.Engine {
	templates, err := fs.Sub(templateFS, "templates")
	if err != nil {
		panic(err)
	}
	return html.NewFileSystem(http.FS(templates), ".html")
}

// Page carries what every page's layout needs.
type Page struct {
	Toasts      []models.Toast
	AutoRefresh int
}

type LoginPage struct {
	Page
	Email string
	Year  int
}

// Shell is the header and tab bar shared by the signed-in pages.
type Shell struct {
	Page
	Email            string
	Tab              string
	ResultsAvailable bool
	LastRun          *models.Run
}

type DashboardPage struct {
	Shell
	Phase    models.Phase
	SheetURL string
}

type ResultsPage struct {
	Shell
	Stats  models.ProcessingStats
	Rows   []models.CandidateRow
	Source string
}

type NotFoundPage struct {
	Page
	Path string
}

func (LoginPage) Title() string     { return "Login" }
func (DashboardPage) Title() string { return "Dashboard" }
func (ResultsPage) Title() string   { return "Results" }
func (NotFoundPage) Title() string  { return "Page not found" }

const processingRefreshSeconds = 3

func NewDashboardPage(session *models.Session, lastRun *models.Run, toasts []models.Toast, sheetURL string) DashboardPage {
	page := DashboardPage{
		Shell: Shell{
			Page:             Page{Toasts: toasts},
			Email:            session.Email,
			Tab:              "process",
			ResultsAvailable: session.ResultsAvailable(),
			LastRun:          lastRun,
		},
		Phase:    session.Phase,
		SheetURL: sheetURL,
	}
	if session.Phase == models.PhaseProcessing {
		page.AutoRefresh = processingRefreshSeconds
	}
	return page
}

func NewResultsPage(session *models.Session, lastRun *models.Run, toasts []models.Toast, rows []models.CandidateRow, source string) ResultsPage {
	return ResultsPage{
		Shell: Shell{
			Page:             Page{Toasts: toasts},
			Email:            session.Email,
			Tab:              "results",
			ResultsAvailable: session.ResultsAvailable(),
			LastRun:          lastRun,
		},
		Stats:  session.Stats(),
		Rows:   rows,
		Source: source,
	}
}
