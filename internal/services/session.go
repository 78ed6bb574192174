package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/hr-dashboard/internal/models"
	"alfredoptarigan/hr-dashboard/internal/repositories"
)

var (
	ErrEmailRequired   = errors.New("email is required")
	ErrLoginRejected   = errors.New("login rejected")
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

var ToastLoggedOut = models.Toast{
	Title:       "Logged out",
	Description: "You have been logged out successfully",
	Variant:     models.ToastDefault,
}

// SessionService owns the signed-in state: a session is created on login and
// removed on logout or expiry.
type SessionService interface {
	Login(ctx context.Context, email, password string) (*models.Session, error)
	Get(id uuid.UUID) (*models.Session, error)
	Logout(id uuid.UUID) error
	PurgeExpired() (int64, error)
}

type sessionService struct {
	sessionRepo repositories.SessionRepository
	backend     BackendClient
	toasts      ToastService
	ttl         time.Duration
	now         func() time.Time
}

func NewSessionService(
	sessionRepo repositories.SessionRepository,
	backend BackendClient,
	toasts ToastService,
	ttl time.Duration,
) SessionService {
	return &sessionService{
		sessionRepo: sessionRepo,
		backend:     backend,
		toasts:      toasts,
		ttl:         ttl,
		now:         time.Now,
	}
}

func (s *sessionService) Login(ctx context.Context, email, password string) (*models.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrEmailRequired
	}

	result, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if !result.Success {
		return nil, ErrLoginRejected
	}

	now := s.now()
	session := &models.Session{
		ID:        uuid.New(),
		Email:     email,
		Phase:     models.PhaseIdle,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.sessionRepo.Create(session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	log.Printf("🔑 Session %s created for %s\n", session.ID, email)
	return session, nil
}

func (s *sessionService) Get(id uuid.UUID) (*models.Session, error) {
	session, err := s.sessionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if session.Expired(s.now()) {
		if err := s.teardown(id); err != nil {
			log.Printf("⚠️  Failed to remove expired session %s: %v\n", id, err)
		}
		return nil, ErrSessionExpired
	}

	return session, nil
}

func (s *sessionService) Logout(id uuid.UUID) error {
	if err := s.teardown(id); err != nil {
		return err
	}

	log.Printf("👋 Session %s logged out\n", id)
	return nil
}

func (s *sessionService) PurgeExpired() (int64, error) {
	removed, err := s.sessionRepo.DeleteExpired(s.now())
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		log.Printf("🧹 Removed %d expired sessions\n", removed)
	}
	return removed, nil
}

func (s *sessionService) teardown(id uuid.UUID) error {
	s.toasts.Clear(id)
	if err := s.sessionRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
