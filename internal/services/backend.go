package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"alfredoptarigan/hr-dashboard/internal/models"
)

// BackendClient talks to the resume processing backend.
type BackendClient interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	ProcessResumes(ctx context.Context, sheetURL string) (*models.RunResponse, error)
	Shortlisted(ctx context.Context) ([]models.Candidate, error)
}

type LoginResult struct {
	Success bool `json:"success"`
}

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.StatusCode)
}

type backendClient struct {
	baseURL          string
	http             *http.Client
	loginDelay       time.Duration
	shortlistRetries int
}

func NewBackendClient(baseURL string, timeout, loginDelay time.Duration, shortlistRetries int) BackendClient {
	if shortlistRetries < 0 {
		shortlistRetries = 0
	}

	return &backendClient{
		baseURL:          strings.TrimRight(baseURL, "/"),
		http:             &http.Client{Timeout: timeout},
		loginDelay:       loginDelay,
		shortlistRetries: shortlistRetries,
	}
}

// Login is a stand-in until the backend exposes an auth endpoint: credentials are
// not checked and the call succeeds once the configured delay has passed.
func (b *backendClient) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	timer := time.NewTimer(b.loginDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("login cancelled: %w", ctx.Err())
	case <-timer.C:
		return &LoginResult{Success: true}, nil
	}
}

// ProcessResumes implements BackendClient. It is not retried.
func (b *backendClient) ProcessResumes(ctx context.Context, sheetURL string) (*models.RunResponse, error) {
	payload := models.SubmitRequest{SheetURL: sheetURL}

	var resp models.RunResponse
	if err := b.do(ctx, http.MethodPost, "/run", payload, &resp); err != nil {
		log.Printf("❌ Backend /run failed: %v\n", err)
		return nil, fmt.Errorf("failed to process sheet: %w", err)
	}

	return &resp, nil
}

// Shortlisted implements BackendClient. A failed fetch is retried shortlistRetries times.
func (b *backendClient) Shortlisted(ctx context.Context) ([]models.Candidate, error) {
	attempts := b.shortlistRetries + 1
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		var resp models.ShortlistResponse
		err := b.do(ctx, http.MethodGet, "/shortlisted", nil, &resp)
		if err == nil {
			return resp.Candidates, nil
		}

		lastErr = err

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
		}

		if attempt < attempts {
			log.Printf("⚠️  Shortlist fetch attempt %d failed: %v. Retrying...\n", attempt, err)
		}
	}

	return nil, fmt.Errorf("failed to fetch shortlist after %d attempts: %w", attempts, lastErr)
}

func (b *backendClient) do(ctx context.Context, method, path string, payload any, v any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := b.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode}
	}

	if v == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
