package repositories

import (
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/hr-dashboard/internal/models"
)

// In-memory repositories back the dashboard when DB_DRIVER=memory and in tests.

type memorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]models.Session
}

func NewMemorySessionRepository() SessionRepository {
	return &memorySessionRepository{sessions: make(map[uuid.UUID]models.Session)}
}

func (r *memorySessionRepository) Create(session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	if _, exists := r.sessions[session.ID]; exists {
		return fmt.Errorf("failed to create session: duplicate id %s", session.ID)
	}
	if session.Phase == "" {
		session.Phase = models.PhaseIdle
	}

	now := time.Now()
	session.CreatedAt = now
	session.UpdatedAt = now
	r.sessions[session.ID] = *session
	return nil
}

func (r *memorySessionRepository) FindByID(id uuid.UUID) (*models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return &session, nil
}

func (r *memorySessionRepository) TransitionPhase(id uuid.UUID, from []models.Phase, to models.Phase) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[id]
	if !ok {
		return fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	if !slices.Contains(from, session.Phase) {
		return ErrPhaseConflict
	}

	session.Phase = to
	session.UpdatedAt = time.Now()
	r.sessions[id] = session
	return nil
}

func (r *memorySessionRepository) Complete(id uuid.UUID, runID uuid.UUID, stats models.ProcessingStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[id]
	if !ok {
		return fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	if session.Phase != models.PhaseProcessing {
		return ErrPhaseConflict
	}

	session.Phase = models.PhaseComplete
	session.CandidatesProcessed = stats.CandidatesProcessed
	session.CandidatesShortlisted = stats.CandidatesShortlisted
	session.CallsScheduled = stats.CallsScheduled
	session.LastRunID = &runID
	session.UpdatedAt = time.Now()
	r.sessions[id] = session
	return nil
}

func (r *memorySessionRepository) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
	return nil
}

func (r *memorySessionRepository) DeleteExpired(now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for id, session := range r.sessions {
		if session.ExpiresAt.Before(now) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed, nil
}

type memoryRunRepository struct {
	mu         sync.RWMutex
	runs       map[uuid.UUID]models.Run
	candidates map[uuid.UUID][]models.Candidate
}

func NewMemoryRunRepository() RunRepository {
	return &memoryRunRepository{
		runs:       make(map[uuid.UUID]models.Run),
		candidates: make(map[uuid.UUID][]models.Candidate),
	}
}

func (r *memoryRunRepository) Create(run *models.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.Status == "" {
		run.Status = models.RunQueued
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	run.UpdatedAt = run.CreatedAt
	r.runs[run.ID] = *run
	return nil
}

func (r *memoryRunRepository) FindByID(id uuid.UUID) (*models.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, ok := r.runs[id]
	if !ok {
		return nil, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	return &run, nil
}

func (r *memoryRunRepository) Claim(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	run, ok := r.runs[id]
	if !ok {
		return fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	if run.Status != models.RunQueued {
		return ErrAlreadyClaimed
	}

	run.Status = models.RunProcessing
	run.UpdatedAt = time.Now()
	r.runs[id] = run
	return nil
}

func (r *memoryRunRepository) UpdateResult(id uuid.UUID, data *RunUpdateData) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	run, ok := r.runs[id]
	if !ok {
		return fmt.Errorf("run %s: %w", id, ErrNotFound)
	}

	run.Status = models.RunCompleted
	if data.Fallback {
		run.Status = models.RunFailed
	}
	run.Fallback = data.Fallback
	run.CandidatesProcessed = data.Stats.CandidatesProcessed
	run.CandidatesShortlisted = data.Stats.CandidatesShortlisted
	run.CallsScheduled = data.Stats.CallsScheduled
	if data.Message != nil {
		run.Message = data.Message
	}
	if data.ErrorMessage != nil {
		run.ErrorMessage = data.ErrorMessage
	}
	run.UpdatedAt = time.Now()
	r.runs[id] = run
	return nil
}

func (r *memoryRunRepository) SaveCandidates(runID uuid.UUID, candidates []models.Candidate) error {
	if len(candidates) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.candidates[runID] = append(r.candidates[runID], candidates...)
	return nil
}

func (r *memoryRunRepository) FindCandidates(runID uuid.UUID) ([]models.Candidate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.candidates[runID]), nil
}

func (r *memoryRunRepository) FindPendingJobs(limit int) ([]models.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var pending []models.Run
	for _, run := range r.runs {
		if run.Status == models.RunQueued {
			pending = append(pending, run)
		}
	}

	sort.Slice(pending, func(i, j int) bool {
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})

	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

func (r *memoryRunRepository) FindStaleRuns(cutoff time.Time, limit int) ([]models.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var stale []models.Run
	for _, run := range r.runs {
		if run.Status == models.RunProcessing && run.UpdatedAt.Before(cutoff) {
			stale = append(stale, run)
		}
	}

	sort.Slice(stale, func(i, j int) bool {
		return stale[i].UpdatedAt.Before(stale[j].UpdatedAt)
	})

	if limit > 0 && len(stale) > limit {
		stale = stale[:limit]
	}
	return stale, nil
}
