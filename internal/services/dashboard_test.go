package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/hr-dashboard/internal/models"
	"alfredoptarigan/hr-dashboard/internal/repositories"
)

type dashboardFixture struct {
	backend     *fakeBackend
	sessionRepo repositories.SessionRepository
	runRepo     repositories.RunRepository
	toasts      ToastService
	sessions    SessionService
	dashboard   DashboardService
}

func newDashboardFixture(backend *fakeBackend) *dashboardFixture {
	return newDashboardFixtureWithRuns(backend, repositories.NewMemoryRunRepository())
}

func newDashboardFixtureWithRuns(backend *fakeBackend, runRepo repositories.RunRepository) *dashboardFixture {
	f := &dashboardFixture{
		backend:     backend,
		sessionRepo: repositories.NewMemorySessionRepository(),
		runRepo:     runRepo,
		toasts:      NewToastService(),
	}
	f.sessions = NewSessionService(f.sessionRepo, backend, f.toasts, time.Hour)
	f.dashboard = NewDashboardService(
		f.sessionRepo,
		f.runRepo,
		NewSheetService(backend, "docs.google.com/spreadsheets"),
		NewCandidateService(backend),
		f.toasts,
	)
	return f
}

func (f *dashboardFixture) login(t *testing.T) *models.Session {
	t.Helper()
	session, err := f.sessions.Login(context.Background(), "hr@example.com", "secret")
	require.NoError(t, err)
	return session
}

func (f *dashboardFixture) reload(t *testing.T, session *models.Session) *models.Session {
	t.Helper()
	fresh, err := f.sessions.Get(session.ID)
	require.NoError(t, err)
	return fresh
}

func TestDashboard_InvalidURLLeavesSessionIdle(t *testing.T) {
	f := newDashboardFixture(&fakeBackend{})
	session := f.login(t)

	_, err := f.dashboard.StartRun(session, "https://example.com/not-a-sheet")
	assert.ErrorIs(t, err, ErrInvalidSheetURL)

	assert.Equal(t, models.PhaseIdle, f.reload(t, session).Phase)
	assert.Equal(t, []models.Toast{ToastInvalidURL}, f.toasts.Drain(session.ID))

	pending, err := f.runRepo.FindPendingJobs(10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestDashboard_FullCycleWithMaskedFailure(t *testing.T) {
	f := newDashboardFixture(&fakeBackend{runErr: errBackendDown, shortlistErr: errBackendDown})
	session := f.login(t)

	run, err := f.dashboard.StartRun(session, validSheet)
	require.NoError(t, err)
	assert.Equal(t, models.PhaseProcessing, f.reload(t, session).Phase)

	_, err = f.dashboard.Results(context.Background(), f.reload(t, session))
	assert.ErrorIs(t, err, ErrResultsUnavailable)

	_, err = f.dashboard.StartRun(f.reload(t, session), validSheet)
	assert.ErrorIs(t, err, ErrAlreadyProcessing)

	require.NoError(t, f.dashboard.ProcessRun(context.Background(), run.ID))

	session = f.reload(t, session)
	assert.Equal(t, models.PhaseComplete, session.Phase)
	assert.Equal(t, models.FallbackStats, session.Stats())

	overview, err := f.dashboard.Overview(session)
	require.NoError(t, err)
	assert.Equal(t, []models.Toast{ToastProcessingFailed}, overview.Toasts)
	require.NotNil(t, overview.LastRun)
	assert.True(t, overview.LastRun.Fallback)
	assert.Equal(t, models.RunFailed, overview.LastRun.Status)

	status := overview.StatusResponse()
	assert.True(t, status.ResultsAvailable)
	require.NotNil(t, status.LastRun)
	require.NotNil(t, status.LastRun.ErrorMessage)

	results, err := f.dashboard.Results(context.Background(), session)
	require.NoError(t, err)
	assert.Equal(t, SourceDemo, results.View.Source)
	assert.Len(t, results.View.Rows(), 3)
	assert.ErrorIs(t, results.View.FetchErr, errBackendDown)
	assert.Empty(t, f.toasts.Drain(session.ID), "results leave toasts to the page that shows them")
}

func TestDashboard_RunCandidatesTakePrecedence(t *testing.T) {
	backend := &fakeBackend{
		runResp: &models.RunResponse{
			CandidatesProcessed:   intPtr(4),
			CandidatesShortlisted: intPtr(2),
			CallsScheduled:        intPtr(1),
			Candidates: []models.Candidate{
				{ID: "x", Name: "Xi", MatchScore: 90},
				{ID: "y", Name: "Yu", MatchScore: 89},
			},
		},
		shortlist: DemoCandidates(),
	}
	f := newDashboardFixture(backend)
	session := f.login(t)

	run, err := f.dashboard.StartRun(session, validSheet)
	require.NoError(t, err)
	require.NoError(t, f.dashboard.ProcessRun(context.Background(), run.ID))

	session = f.reload(t, session)
	assert.Equal(t, models.ProcessingStats{CandidatesProcessed: 4, CandidatesShortlisted: 2, CallsScheduled: 1}, session.Stats())

	results, err := f.dashboard.Results(context.Background(), session)
	require.NoError(t, err)

	rows := results.View.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, models.TierHigh, rows[0].Tier)
	assert.Equal(t, models.TierMedium, rows[1].Tier)
	_, shortlistCalls := backend.calls()
	assert.Zero(t, shortlistCalls)
}

func TestDashboard_CompleteAllowsResubmission(t *testing.T) {
	f := newDashboardFixture(&fakeBackend{})
	session := f.login(t)

	run, err := f.dashboard.StartRun(session, validSheet)
	require.NoError(t, err)
	require.NoError(t, f.dashboard.ProcessRun(context.Background(), run.ID))

	session = f.reload(t, session)
	require.Equal(t, models.PhaseComplete, session.Phase)

	_, err = f.dashboard.StartRun(session, validSheet)
	require.NoError(t, err)
	assert.Equal(t, models.PhaseProcessing, f.reload(t, session).Phase)
}

func TestDashboard_ProcessRunSkipsClaimedRun(t *testing.T) {
	backend := &fakeBackend{}
	f := newDashboardFixture(backend)
	session := f.login(t)

	run, err := f.dashboard.StartRun(session, validSheet)
	require.NoError(t, err)

	require.NoError(t, f.dashboard.ProcessRun(context.Background(), run.ID))
	require.NoError(t, f.dashboard.ProcessRun(context.Background(), run.ID))

	runCalls, _ := backend.calls()
	assert.Equal(t, 1, runCalls)
}

func TestDashboard_ProcessRunAfterLogout(t *testing.T) {
	f := newDashboardFixture(&fakeBackend{})
	session := f.login(t)

	run, err := f.dashboard.StartRun(session, validSheet)
	require.NoError(t, err)
	require.NoError(t, f.sessions.Logout(session.ID))

	assert.NoError(t, f.dashboard.ProcessRun(context.Background(), run.ID))

	stored, err := f.runRepo.FindByID(run.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RunCompleted, stored.Status)
}

func TestDashboard_FailedResultWriteStillCompletesSession(t *testing.T) {
	runRepo := &flakyRunRepository{
		RunRepository:    repositories.NewMemoryRunRepository(),
		failUpdateResult: 1,
	}
	f := newDashboardFixtureWithRuns(&fakeBackend{}, runRepo)
	session := f.login(t)

	run, err := f.dashboard.StartRun(session, validSheet)
	require.NoError(t, err)

	err = f.dashboard.ProcessRun(context.Background(), run.ID)
	assert.ErrorIs(t, err, errWriteFailed)

	session = f.reload(t, session)
	assert.Equal(t, models.PhaseComplete, session.Phase)
	assert.Equal(t, models.FallbackStats, session.Stats())

	stored, err := f.runRepo.FindByID(run.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RunFailed, stored.Status)
	assert.True(t, stored.Fallback)

	overview, err := f.dashboard.Overview(session)
	require.NoError(t, err)
	assert.Equal(t, []models.Toast{ToastProcessingFailed}, overview.Toasts)

	_, err = f.dashboard.StartRun(session, validSheet)
	assert.NoError(t, err)
}

func TestDashboard_RecoverStaleRuns(t *testing.T) {
	runRepo := &flakyRunRepository{
		RunRepository: repositories.NewMemoryRunRepository(),
		failFindByID:  1,
	}
	f := newDashboardFixtureWithRuns(&fakeBackend{}, runRepo)
	session := f.login(t)

	run, err := f.dashboard.StartRun(session, validSheet)
	require.NoError(t, err)

	// claimed, then lost before anything was recorded
	assert.ErrorIs(t, f.dashboard.ProcessRun(context.Background(), run.ID), errWriteFailed)
	assert.Equal(t, models.PhaseProcessing, f.reload(t, session).Phase)

	recovered, err := f.dashboard.RecoverStaleRuns(time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, recovered)

	recovered, err = f.dashboard.RecoverStaleRuns(time.Now().Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, 1, recovered)

	session = f.reload(t, session)
	assert.Equal(t, models.PhaseComplete, session.Phase)
	require.NotNil(t, session.LastRunID)
	assert.Equal(t, run.ID, *session.LastRunID)

	stored, err := f.runRepo.FindByID(run.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RunFailed, stored.Status)
	require.NotNil(t, stored.ErrorMessage)
	assert.Equal(t, ErrRunStale.Error(), *stored.ErrorMessage)
}

func TestDashboard_RecoverStaleRunLeavesNewerRunAlone(t *testing.T) {
	runRepo := &flakyRunRepository{
		RunRepository:    repositories.NewMemoryRunRepository(),
		failUpdateResult: 2,
	}
	f := newDashboardFixtureWithRuns(&fakeBackend{}, runRepo)
	session := f.login(t)

	first, err := f.dashboard.StartRun(session, validSheet)
	require.NoError(t, err)
	require.Error(t, f.dashboard.ProcessRun(context.Background(), first.ID))

	// the session settled on the first run, which is still stuck in processing
	session = f.reload(t, session)
	require.Equal(t, models.PhaseComplete, session.Phase)

	_, err = f.dashboard.StartRun(session, validSheet)
	require.NoError(t, err)

	recovered, err := f.dashboard.RecoverStaleRuns(time.Now().Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, 1, recovered)

	assert.Equal(t, models.PhaseProcessing, f.reload(t, session).Phase)

	stored, err := f.runRepo.FindByID(first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RunFailed, stored.Status)
}
