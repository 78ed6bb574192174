package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/hr-dashboard/internal/models"
)

type RunRepository interface {
	Create(run *models.Run) error
	FindByID(id uuid.UUID) (*models.Run, error)
	// Claim moves a queued run to processing. It fails with ErrAlreadyClaimed otherwise.
	Claim(id uuid.UUID) error
	UpdateResult(id uuid.UUID, data *RunUpdateData) error
	SaveCandidates(runID uuid.UUID, candidates []models.Candidate) error
	FindCandidates(runID uuid.UUID) ([]models.Candidate, error)
	FindPendingJobs(limit int) ([]models.Run, error)
	// FindStaleRuns returns runs still processing that were last touched before cutoff.
	FindStaleRuns(cutoff time.Time, limit int) ([]models.Run, error)
}

// RunUpdateData is the outcome of a processed run. A fallback outcome marks the run failed.
type RunUpdateData struct {
	Stats        models.ProcessingStats
	Fallback     bool
	Message      *string
	ErrorMessage *string
}

type runRepository struct {
	db *gorm.DB
}

func NewRunRepository(db *gorm.DB) RunRepository {
	return &runRepository{db: db}
}

func (r *runRepository) Create(run *models.Run) error {
	if err := r.db.Create(run).Error; err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

func (r *runRepository) FindByID(id uuid.UUID) (*models.Run, error) {
	var run models.Run
	if err := r.db.Where("id = ?", id).First(&run).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("run %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find run: %w", err)
	}
	return &run, nil
}

func (r *runRepository) Claim(id uuid.UUID) error {
	result := r.db.Model(&models.Run{}).
		Where("id = ? AND status = ?", id, models.RunQueued).
		Updates(map[string]interface{}{
			"status":     models.RunProcessing,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to claim run: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		if _, err := r.FindByID(id); err != nil {
			return err
		}
		return ErrAlreadyClaimed
	}

	return nil
}

func (r *runRepository) UpdateResult(id uuid.UUID, data *RunUpdateData) error {
	status := models.RunCompleted
	if data.Fallback {
		status = models.RunFailed
	}

	updates := map[string]interface{}{
		"status":                 status,
		"fallback":               data.Fallback,
		"candidates_processed":   data.Stats.CandidatesProcessed,
		"candidates_shortlisted": data.Stats.CandidatesShortlisted,
		"calls_scheduled":        data.Stats.CallsScheduled,
		"updated_at":             time.Now(),
	}

	if data.Message != nil {
		updates["message"] = *data.Message
	}
	if data.ErrorMessage != nil {
		updates["error_message"] = *data.ErrorMessage
	}

	result := r.db.Model(&models.Run{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update result: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("run %s: %w", id, ErrNotFound)
	}

	return nil
}

func (r *runRepository) SaveCandidates(runID uuid.UUID, candidates []models.Candidate) error {
	if len(candidates) == 0 {
		return nil
	}

	rows := make([]models.RunCandidate, 0, len(candidates))
	for i, c := range candidates {
		rows = append(rows, models.NewRunCandidate(runID, i, c))
	}

	if err := r.db.Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to save run candidates: %w", err)
	}

	return nil
}

func (r *runRepository) FindCandidates(runID uuid.UUID) ([]models.Candidate, error) {
	var rows []models.RunCandidate
	err := r.db.
		Where("run_id = ?", runID).
		Order("position ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find run candidates: %w", err)
	}

	candidates := make([]models.Candidate, 0, len(rows))
	for _, row := range rows {
		candidates = append(candidates, row.Candidate())
	}

	return candidates, nil
}

func (r *runRepository) FindPendingJobs(limit int) ([]models.Run, error) {
	var runs []models.Run
	err := r.db.
		Where("status = ?", models.RunQueued).
		Order("created_at ASC").
		Limit(limit).
		Find(&runs).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find pending jobs: %w", err)
	}

	return runs, nil
}

func (r *runRepository) FindStaleRuns(cutoff time.Time, limit int) ([]models.Run, error) {
	var runs []models.Run
	err := r.db.
		Where("status = ? AND updated_at < ?", models.RunProcessing, cutoff).
		Order("updated_at ASC").
		Limit(limit).
		Find(&runs).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find stale runs: %w", err)
	}

	return runs, nil
}
