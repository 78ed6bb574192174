package services

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"alfredoptarigan/hr-dashboard/internal/models"
	"alfredoptarigan/hr-dashboard/internal/repositories"
)

var (
	errBackendDown = errors.New("backend down")
	errWriteFailed = errors.New("db write failed")
)

type fakeBackend struct {
	mu sync.Mutex

	loginErr     error
	loginResult  *LoginResult
	runResp      *models.RunResponse
	runErr       error
	shortlist    []models.Candidate
	shortlistErr error

	loginCalls     int
	runCalls       int
	shortlistCalls int
	lastSheetURL   string
}

func (f *fakeBackend) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.loginCalls++
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	if f.loginResult != nil {
		return f.loginResult, nil
	}
	return &LoginResult{Success: true}, nil
}

func (f *fakeBackend) ProcessResumes(ctx context.Context, sheetURL string) (*models.RunResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.runCalls++
	f.lastSheetURL = sheetURL
	if f.runErr != nil {
		return nil, f.runErr
	}
	if f.runResp != nil {
		return f.runResp, nil
	}
	return &models.RunResponse{}, nil
}

func (f *fakeBackend) Shortlisted(ctx context.Context) ([]models.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.shortlistCalls++
	if f.shortlistErr != nil {
		return nil, f.shortlistErr
	}
	return f.shortlist, nil
}

func (f *fakeBackend) calls() (run, shortlist int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.runCalls, f.shortlistCalls
}

func intPtr(v int) *int {
	return &v
}

// flakyRunRepository fails the first N calls of the chosen methods.
type flakyRunRepository struct {
	repositories.RunRepository

	mu               sync.Mutex
	failUpdateResult int
	failFindByID     int
}

func (r *flakyRunRepository) UpdateResult(id uuid.UUID, data *repositories.RunUpdateData) error {
	r.mu.Lock()
	if r.failUpdateResult > 0 {
		r.failUpdateResult--
		r.mu.Unlock()
		return errWriteFailed
	}
	r.mu.Unlock()
	return r.RunRepository.UpdateResult(id, data)
}

func (r *flakyRunRepository) FindByID(id uuid.UUID) (*models.Run, error) {
	r.mu.Lock()
	if r.failFindByID > 0 {
		r.failFindByID--
		r.mu.Unlock()
		return nil, errWriteFailed
	}
	r.mu.Unlock()
	return r.RunRepository.FindByID(id)
}
