package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/hr-dashboard/internal/models"
	"alfredoptarigan/hr-dashboard/internal/services"
	"alfredoptarigan/hr-dashboard/internal/views"
)

var (
	toastEmailRequired = models.Toast{
		Title:       "Email required",
		Description: "Please enter your email address",
		Variant:     models.ToastDestructive,
	}
	toastLoginFailed = models.Toast{
		Title:       "Login failed",
		Description: "Something went wrong while signing you in. Please try again.",
		Variant:     models.ToastDestructive,
	}
)

type AuthHandler struct {
	sessions services.SessionService
	auth     *AuthMiddleware
}

func NewAuthHandler(sessions services.SessionService, auth *AuthMiddleware) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		auth:     auth,
	}
}

// HandleShowLogin handles GET /login
func (h *AuthHandler) HandleShowLogin(c *fiber.Ctx) error {
	if _, ok := h.auth.lookup(c); ok {
		return c.Redirect("/dashboard")
	}

	var toasts []models.Toast
	if c.Query("logged_out") == "1" {
		toasts = append(toasts, services.ToastLoggedOut)
	}

	return h.renderLogin(c, fiber.StatusOK, "", toasts...)
}

// HandleLogin handles POST /login
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return h.renderLogin(c, fiber.StatusBadRequest, "", toastEmailRequired)
	}

	session, err := h.sessions.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailRequired) {
			return h.renderLogin(c, fiber.StatusBadRequest, req.Email, toastEmailRequired)
		}
		log.Printf("❌ Login failed for %s: %v\n", req.Email, err)
		return h.renderLogin(c, fiber.StatusBadGateway, req.Email, toastLoginFailed)
	}

	h.auth.setCookie(c, session)
	return c.Redirect("/dashboard", fiber.StatusSeeOther)
}

// HandleLogout handles POST /logout
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	if id, err := uuid.Parse(c.Cookies(h.auth.cookie.Name)); err == nil {
		if err := h.sessions.Logout(id); err != nil {
			log.Printf("⚠️  Logout of session %s: %v\n", id, err)
		}
	}

	h.auth.clearCookie(c)
	return c.Redirect("/login?logged_out=1", fiber.StatusSeeOther)
}

func (h *AuthHandler) renderLogin(c *fiber.Ctx, status int, email string, toasts ...models.Toast) error {
	return c.Status(status).Render(views.PageLogin, views.LoginPage{
		Page:  views.Page{Toasts: toasts},
		Email: email,
		Year:  time.Now().Year(),
	}, views.Layout)
}
