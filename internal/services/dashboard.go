package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/hr-dashboard/internal/models"
	"alfredoptarigan/hr-dashboard/internal/repositories"
)

var (
	ErrAlreadyProcessing  = errors.New("a sheet is already being processed")
	ErrResultsUnavailable = errors.New("results are available once processing completes")
	ErrRunStale           = errors.New("run was not finished in time")
)

const staleRunBatch = 10

// Overview is the dashboard state for one page view.
type Overview struct {
	Session *models.Session
	LastRun *models.Run
	Toasts  []models.Toast
}

func (o *Overview) StatusResponse() models.StatusResponse {
	resp := models.StatusResponse{
		Phase:            o.Session.Phase,
		Stats:            o.Session.Stats(),
		ResultsAvailable: o.Session.ResultsAvailable(),
		Toasts:           o.Toasts,
	}
	if o.LastRun != nil {
		resp.LastRun = &models.RunSummary{
			ID:           o.LastRun.ID.String(),
			Status:       o.LastRun.Status,
			Fallback:     o.LastRun.Fallback,
			ErrorMessage: o.LastRun.ErrorMessage,
		}
	}
	return resp
}

// Results backs the results tab and the summary report.
type Results struct {
	Stats   models.ProcessingStats
	LastRun *models.Run
	View    CandidateView
}

// DashboardService drives the per-session state machine:
// idle -> processing -> complete, and complete -> processing on a new submission.
type DashboardService interface {
	Overview(session *models.Session) (*Overview, error)
	StartRun(session *models.Session, sheetURL string) (*models.Run, error)
	ProcessRun(ctx context.Context, runID uuid.UUID) error
	RecoverStaleRuns(cutoff time.Time) (int, error)
	Results(ctx context.Context, session *models.Session) (*Results, error)
}

type dashboardService struct {
	sessionRepo repositories.SessionRepository
	runRepo     repositories.RunRepository
	sheet       SheetService
	candidates  CandidateService
	toasts      ToastService
}

func NewDashboardService(
	sessionRepo repositories.SessionRepository,
	runRepo repositories.RunRepository,
	sheet SheetService,
	candidates CandidateService,
	toasts ToastService,
) DashboardService {
	return &dashboardService{
		sessionRepo: sessionRepo,
		runRepo:     runRepo,
		sheet:       sheet,
		candidates:  candidates,
		toasts:      toasts,
	}
}

func (d *dashboardService) Overview(session *models.Session) (*Overview, error) {
	overview := &Overview{
		Session: session,
		Toasts:  d.toasts.Drain(session.ID),
	}

	if session.LastRunID != nil {
		run, err := d.runRepo.FindByID(*session.LastRunID)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("failed to load last run: %w", err)
		}
		overview.LastRun = run
	}

	return overview, nil
}

// StartRun validates the URL, moves the session to processing and records a queued
// run. The caller enqueues the returned run.
func (d *dashboardService) StartRun(session *models.Session, sheetURL string) (*models.Run, error) {
	sheetURL, err := d.sheet.ValidateSheetURL(sheetURL)
	if err != nil {
		d.toasts.Push(session.ID, ToastInvalidURL)
		return nil, err
	}

	previous := session.Phase
	err = d.sessionRepo.TransitionPhase(
		session.ID,
		[]models.Phase{models.PhaseIdle, models.PhaseComplete},
		models.PhaseProcessing,
	)
	if err != nil {
		if errors.Is(err, repositories.ErrPhaseConflict) {
			return nil, ErrAlreadyProcessing
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to start processing: %w", err)
	}

	run := &models.Run{
		ID:        uuid.New(),
		SessionID: session.ID,
		SheetURL:  sheetURL,
		Status:    models.RunQueued,
	}

	if err := d.runRepo.Create(run); err != nil {
		revertErr := d.sessionRepo.TransitionPhase(session.ID, []models.Phase{models.PhaseProcessing}, previous)
		if revertErr != nil {
			log.Printf("⚠️  Failed to revert session %s to %s: %v\n", session.ID, previous, revertErr)
		}
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	session.Phase = models.PhaseProcessing
	log.Printf("📥 Run %s queued for session %s\n", run.ID, session.ID)
	return run, nil
}

// ProcessRun submits a queued run to the backend and records the outcome. Runs
// already claimed by another worker are skipped.
func (d *dashboardService) ProcessRun(ctx context.Context, runID uuid.UUID) error {
	if err := d.runRepo.Claim(runID); err != nil {
		if errors.Is(err, repositories.ErrAlreadyClaimed) {
			log.Printf("⏭️  Run %s already claimed, skipping\n", runID)
			return nil
		}
		return fmt.Errorf("failed to claim run: %w", err)
	}

	run, err := d.runRepo.FindByID(runID)
	if err != nil {
		// the run stays in processing until RecoverStaleRuns fails it
		return fmt.Errorf("failed to get run: %w", err)
	}

	var outcome SubmitOutcome
	err = d.sheet.Submit(ctx, run.SheetURL,
		func() { log.Printf("🔄 Processing sheet for run %s\n", run.ID) },
		func(o SubmitOutcome) { outcome = o },
	)
	if err != nil {
		outcome = SubmitOutcome{
			Stats:    models.FallbackStats,
			Fallback: true,
			Err:      err,
			Toast:    ToastProcessingFailed,
		}
	}

	if err := d.record(run, outcome); err != nil {
		d.fail(run, err, true)
		return err
	}
	return nil
}

// RecoverStaleRuns fails runs left in processing since before cutoff, after a
// crash or a failed write. Their sessions complete with fallback stats unless
// they already settled for that run.
func (d *dashboardService) RecoverStaleRuns(cutoff time.Time) (int, error) {
	runs, err := d.runRepo.FindStaleRuns(cutoff, staleRunBatch)
	if err != nil {
		return 0, err
	}

	for i := range runs {
		run := &runs[i]

		completeSession := true
		session, err := d.sessionRepo.FindByID(run.SessionID)
		switch {
		case err != nil:
			completeSession = false
		case session.LastRunID != nil && *session.LastRunID == run.ID:
			completeSession = false
		}

		log.Printf("🧯 Recovering stale run %s\n", run.ID)
		d.fail(run, ErrRunStale, completeSession)
	}

	return len(runs), nil
}

// fail marks the run failed with fallback stats and, when completeSession is set,
// moves its session to complete so it can submit again.
func (d *dashboardService) fail(run *models.Run, cause error, completeSession bool) {
	msg := cause.Error()
	update := &repositories.RunUpdateData{
		Stats:        models.FallbackStats,
		Fallback:     true,
		ErrorMessage: &msg,
	}
	if err := d.runRepo.UpdateResult(run.ID, update); err != nil {
		log.Printf("⚠️  Failed to mark run %s failed: %v\n", run.ID, err)
	}

	if !completeSession {
		return
	}

	err := d.sessionRepo.Complete(run.SessionID, run.ID, models.FallbackStats)
	switch {
	case err == nil:
		d.toasts.Push(run.SessionID, ToastProcessingFailed)
	case errors.Is(err, repositories.ErrNotFound), errors.Is(err, repositories.ErrPhaseConflict):
		log.Printf("⚠️  Session %s no longer waiting on run %s\n", run.SessionID, run.ID)
	default:
		log.Printf("❌ Failed to complete session %s after run %s failed: %v\n", run.SessionID, run.ID, err)
	}
}

func (d *dashboardService) record(run *models.Run, outcome SubmitOutcome) error {
	update := &repositories.RunUpdateData{
		Stats:    outcome.Stats,
		Fallback: outcome.Fallback,
	}
	if outcome.Message != "" {
		update.Message = &outcome.Message
	}
	if outcome.Err != nil {
		msg := outcome.Err.Error()
		update.ErrorMessage = &msg
	}

	if err := d.runRepo.UpdateResult(run.ID, update); err != nil {
		return fmt.Errorf("failed to save run result: %w", err)
	}

	if err := d.runRepo.SaveCandidates(run.ID, outcome.Candidates); err != nil {
		return fmt.Errorf("failed to save run candidates: %w", err)
	}

	if err := d.sessionRepo.Complete(run.SessionID, run.ID, outcome.Stats); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			log.Printf("⚠️  Session %s ended before run %s finished\n", run.SessionID, run.ID)
			return nil
		}
		return fmt.Errorf("failed to complete session: %w", err)
	}

	d.toasts.Push(run.SessionID, outcome.Toast)

	if outcome.Fallback {
		log.Printf("⚠️  Run %s finished with fallback stats\n", run.ID)
	} else {
		log.Printf("✅ Run %s completed\n", run.ID)
	}
	return nil
}

func (d *dashboardService) Results(ctx context.Context, session *models.Session) (*Results, error) {
	if !session.ResultsAvailable() {
		return nil, ErrResultsUnavailable
	}

	results := &Results{Stats: session.Stats()}

	var explicit []models.Candidate
	if session.LastRunID != nil {
		run, err := d.runRepo.FindByID(*session.LastRunID)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("failed to load last run: %w", err)
		}
		results.LastRun = run

		explicit, err = d.runRepo.FindCandidates(*session.LastRunID)
		if err != nil {
			return nil, fmt.Errorf("failed to load run candidates: %w", err)
		}
	}

	results.View = d.candidates.Resolve(ctx, explicit)
	return results, nil
}
