package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// Routes bundles the handlers mounted on the app.
type Routes struct {
	Auth      *AuthMiddleware
	Login     *AuthHandler
	Dashboard *DashboardHandler
	API       *APIHandler
}

func (r *Routes) Register(app *fiber.App) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/dashboard")
	})

	app.Get("/login", r.Login.HandleShowLogin)
	app.Post("/login", r.Login.HandleLogin)
	app.Post("/logout", r.Login.HandleLogout)

	dashboard := app.Group("/dashboard", r.Auth.RequirePage)
	dashboard.Get("/", r.Dashboard.HandleShowProcess)
	dashboard.Post("/process", r.Dashboard.HandleProcess)
	dashboard.Get("/results", r.Dashboard.HandleShowResults)
	dashboard.Get("/report.xlsx", r.Dashboard.HandleDownloadReport)

	api := app.Group("/api/v1")
	api.Get("/health", r.API.HandleHealth)
	api.Get("/status", r.Auth.RequireAPI, r.API.HandleStatus)
	api.Post("/process", r.Auth.RequireAPI, r.API.HandleProcess)
	api.Get("/candidates", r.Auth.RequireAPI, r.API.HandleCandidates)

	app.Use(HandleNotFound)
}
