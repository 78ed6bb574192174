package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/hr-dashboard/internal/models"
)

type SessionRepository interface {
	Create(session *models.Session) error
	FindByID(id uuid.UUID) (*models.Session, error)
	// TransitionPhase moves the session to `to` only if its current phase is one of `from`.
	TransitionPhase(id uuid.UUID, from []models.Phase, to models.Phase) error
	Complete(id uuid.UUID, runID uuid.UUID, stats models.ProcessingStats) error
	Delete(id uuid.UUID) error
	DeleteExpired(now time.Time) (int64, error)
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(session *models.Session) error {
	if err := r.db.Create(session).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *sessionRepository) FindByID(id uuid.UUID) (*models.Session, error) {
	var session models.Session
	if err := r.db.Where("id = ?", id).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	return &session, nil
}

func (r *sessionRepository) TransitionPhase(id uuid.UUID, from []models.Phase, to models.Phase) error {
	result := r.db.Model(&models.Session{}).
		Where("id = ? AND phase IN ?", id, from).
		Updates(map[string]interface{}{
			"phase":      to,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update phase: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return r.missOrConflict(id)
	}

	return nil
}

func (r *sessionRepository) Complete(id uuid.UUID, runID uuid.UUID, stats models.ProcessingStats) error {
	result := r.db.Model(&models.Session{}).
		Where("id = ? AND phase = ?", id, models.PhaseProcessing).
		Updates(map[string]interface{}{
			"phase":                  models.PhaseComplete,
			"candidates_processed":   stats.CandidatesProcessed,
			"candidates_shortlisted": stats.CandidatesShortlisted,
			"calls_scheduled":        stats.CallsScheduled,
			"last_run_id":            runID,
			"updated_at":             time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to complete session: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return r.missOrConflict(id)
	}

	return nil
}

func (r *sessionRepository) Delete(id uuid.UUID) error {
	if err := r.db.Where("id = ?", id).Delete(&models.Session{}).Error; err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *sessionRepository) DeleteExpired(now time.Time) (int64, error) {
	result := r.db.Where("expires_at < ?", now).Delete(&models.Session{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// missOrConflict explains why a guarded update touched no rows.
func (r *sessionRepository) missOrConflict(id uuid.UUID) error {
	if _, err := r.FindByID(id); err != nil {
		return err
	}
	return ErrPhaseConflict
}
