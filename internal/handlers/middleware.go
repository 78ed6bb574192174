package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/hr-dashboard/internal/models"
	"alfredoptarigan/hr-dashboard/internal/services"
)

const localsSession = "session"

// CookieConfig controls the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
}

type AuthMiddleware struct {
	sessions services.SessionService
	cookie   CookieConfig
}

func NewAuthMiddleware(sessions services.SessionService, cookie CookieConfig) *AuthMiddleware {
	return &AuthMiddleware{
		sessions: sessions,
		cookie:   cookie,
	}
}

// RequirePage guards HTML routes; visitors without a live session go to /login.
func (m *AuthMiddleware) RequirePage(c *fiber.Ctx) error {
	session, ok := m.lookup(c)
	if !ok {
		return c.Redirect("/login")
	}

	c.Locals(localsSession, session)
	return c.Next()
}

// RequireAPI guards JSON routes.
func (m *AuthMiddleware) RequireAPI(c *fiber.Ctx) error {
	session, ok := m.lookup(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "authentication required")
	}

	c.Locals(localsSession, session)
	return c.Next()
}

func (m *AuthMiddleware) lookup(c *fiber.Ctx) (*models.Session, bool) {
	raw := c.Cookies(m.cookie.Name)
	if raw == "" {
		return nil, false
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		m.clearCookie(c)
		return nil, false
	}

	session, err := m.sessions.Get(id)
	if err != nil {
		if !errors.Is(err, services.ErrSessionNotFound) && !errors.Is(err, services.ErrSessionExpired) {
			log.Printf("❌ Failed to resolve session %s: %v\n", id, err)
		}
		m.clearCookie(c)
		return nil, false
	}

	return session, true
}

func (m *AuthMiddleware) setCookie(c *fiber.Ctx, session *models.Session) {
	c.Cookie(&fiber.Cookie{
		Name:     m.cookie.Name,
		Value:    session.ID.String(),
		Path:     "/",
		Expires:  session.ExpiresAt,
		HTTPOnly: true,
		Secure:   m.cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (m *AuthMiddleware) clearCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     m.cookie.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   m.cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func currentSession(c *fiber.Ctx) *models.Session {
	session, _ := c.Locals(localsSession).(*models.Session)
	return session
}

func jsonError(c *fiber.Ctx, code int, msg string) error {
	return c.Status(code).JSON(fiber.Map{
		"error": msg,
		"code":  code,
	})
}

// ErrorHandler is the app-wide fiber error handler.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	if code >= fiber.StatusInternalServerError {
		log.Printf("❌ %s %s: %v\n", c.Method(), c.Path(), err)
	}

	return jsonError(c, code, err.Error())
}
