package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"alfredoptarigan/hr-dashboard/internal/models"
)

var ErrInvalidSheetURL = errors.New("please enter a valid Google Sheets URL")

var (
	ToastInvalidURL = models.Toast{
		Title:       "Invalid URL",
		Description: "Please enter a valid Google Sheets URL",
		Variant:     models.ToastDestructive,
	}
	ToastProcessingComplete = models.Toast{
		Title:       "Processing complete",
		Description: "The sheet has been processed successfully",
		Variant:     models.ToastDefault,
	}
	ToastProcessingFailed = models.Toast{
		Title:       "Processing failed",
		Description: "There was an error processing the sheet. Please try again.",
		Variant:     models.ToastDestructive,
	}
)

// SubmitOutcome is what a submission reports on completion. When Fallback is set the
// backend call failed, Stats hold models.FallbackStats and Err holds the cause.
type SubmitOutcome struct {
	Stats      models.ProcessingStats
	Fallback   bool
	Message    string
	Candidates []models.Candidate
	Err        error
	Toast      models.Toast
}

type SheetService interface {
	ValidateSheetURL(sheetURL string) (string, error)
	// Submit validates the URL, then calls onStart and onComplete exactly once each.
	// An invalid URL returns ErrInvalidSheetURL and neither callback fires.
	Submit(ctx context.Context, sheetURL string, onStart func(), onComplete func(SubmitOutcome)) error
}

type sheetService struct {
	backend      BackendClient
	requiredHost string
}

func NewSheetService(backend BackendClient, requiredHost string) SheetService {
	return &sheetService{
		backend:      backend,
		requiredHost: requiredHost,
	}
}

func (s *sheetService) ValidateSheetURL(sheetURL string) (string, error) {
	sheetURL = strings.TrimSpace(sheetURL)
	if sheetURL == "" || !strings.Contains(sheetURL, s.requiredHost) {
		return "", ErrInvalidSheetURL
	}
	return sheetURL, nil
}

func (s *sheetService) Submit(ctx context.Context, sheetURL string, onStart func(), onComplete func(SubmitOutcome)) error {
	sheetURL, err := s.ValidateSheetURL(sheetURL)
	if err != nil {
		return err
	}

	if onStart != nil {
		onStart()
	}

	outcome := s.process(ctx, sheetURL)
	if onComplete != nil {
		onComplete(outcome)
	}

	return nil
}

func (s *sheetService) process(ctx context.Context, sheetURL string) SubmitOutcome {
	resp, err := s.backend.ProcessResumes(ctx, sheetURL)
	if err != nil {
		log.Printf("⚠️  Sheet processing failed, reporting fallback stats: %v\n", err)
		return SubmitOutcome{
			Stats:    models.FallbackStats,
			Fallback: true,
			Message:  "Processing complete",
			Err:      fmt.Errorf("process sheet: %w", err),
			Toast:    ToastProcessingFailed,
		}
	}

	message := resp.Message
	if message == "" {
		message = "Processing complete"
	}

	return SubmitOutcome{
		Stats:      statsFromResponse(resp),
		Message:    message,
		Candidates: resp.Candidates,
		Toast:      ToastProcessingComplete,
	}
}

// statsFromResponse uses the backend counters only when all three are present.
func statsFromResponse(resp *models.RunResponse) models.ProcessingStats {
	if resp.CandidatesProcessed == nil || resp.CandidatesShortlisted == nil || resp.CallsScheduled == nil {
		return models.FallbackStats
	}

	return models.ProcessingStats{
		CandidatesProcessed:   *resp.CandidatesProcessed,
		CandidatesShortlisted: *resp.CandidatesShortlisted,
		CallsScheduled:        *resp.CallsScheduled,
	}
}
