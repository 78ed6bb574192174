package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/hr-dashboard/internal/models"
)

const validSheet = "https://docs.google.com/spreadsheets/d/1AbC/edit"

func TestSheetService_RejectsInvalidURLBeforeNetwork(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"https://example.com/sheet",
		"docs.google.com/document/d/1",
		"https://drive.google.com/spreadsheets",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			backend := &fakeBackend{}
			svc := NewSheetService(backend, "docs.google.com/spreadsheets")

			started, completed := 0, 0
			err := svc.Submit(context.Background(), input,
				func() { started++ },
				func(SubmitOutcome) { completed++ },
			)

			assert.ErrorIs(t, err, ErrInvalidSheetURL)
			assert.Zero(t, started)
			assert.Zero(t, completed)
			runCalls, _ := backend.calls()
			assert.Zero(t, runCalls)
		})
	}
}

func TestSheetService_ValidateTrimsWhitespace(t *testing.T) {
	svc := NewSheetService(&fakeBackend{}, "docs.google.com/spreadsheets")

	got, err := svc.ValidateSheetURL("  " + validSheet + "\n")
	require.NoError(t, err)
	assert.Equal(t, validSheet, got)
}

func TestSheetService_FailureReportsFallbackExactlyOnce(t *testing.T) {
	backend := &fakeBackend{runErr: errBackendDown}
	svc := NewSheetService(backend, "docs.google.com/spreadsheets")

	var outcomes []SubmitOutcome
	started := 0
	err := svc.Submit(context.Background(), validSheet,
		func() { started++ },
		func(o SubmitOutcome) { outcomes = append(outcomes, o) },
	)
	require.NoError(t, err)

	assert.Equal(t, 1, started)
	require.Len(t, outcomes, 1)
	assert.Equal(t, models.ProcessingStats{CandidatesProcessed: 15, CandidatesShortlisted: 8, CallsScheduled: 8}, outcomes[0].Stats)
	assert.True(t, outcomes[0].Fallback)
	assert.ErrorIs(t, outcomes[0].Err, errBackendDown)
	assert.Equal(t, ToastProcessingFailed, outcomes[0].Toast)
	assert.Equal(t, validSheet, backend.lastSheetURL)
}

func TestSheetService_SuccessUsesResponseCounters(t *testing.T) {
	backend := &fakeBackend{runResp: &models.RunResponse{
		Message:               "Processed",
		CandidatesProcessed:   intPtr(30),
		CandidatesShortlisted: intPtr(12),
		CallsScheduled:        intPtr(10),
		Candidates:            []models.Candidate{{ID: "1", Name: "Ada", MatchScore: 95}},
	}}
	svc := NewSheetService(backend, "docs.google.com/spreadsheets")

	var outcome SubmitOutcome
	require.NoError(t, svc.Submit(context.Background(), validSheet, nil, func(o SubmitOutcome) { outcome = o }))

	assert.False(t, outcome.Fallback)
	assert.NoError(t, outcome.Err)
	assert.Equal(t, models.ProcessingStats{CandidatesProcessed: 30, CandidatesShortlisted: 12, CallsScheduled: 10}, outcome.Stats)
	assert.Equal(t, "Processed", outcome.Message)
	assert.Len(t, outcome.Candidates, 1)
	assert.Equal(t, ToastProcessingComplete, outcome.Toast)
}

func TestSheetService_SuccessWithoutCountersUsesDefaults(t *testing.T) {
	backend := &fakeBackend{runResp: &models.RunResponse{CandidatesProcessed: intPtr(3)}}
	svc := NewSheetService(backend, "docs.google.com/spreadsheets")

	var outcome SubmitOutcome
	require.NoError(t, svc.Submit(context.Background(), validSheet, nil, func(o SubmitOutcome) { outcome = o }))

	assert.False(t, outcome.Fallback)
	assert.Equal(t, models.FallbackStats, outcome.Stats)
	assert.Equal(t, "Processing complete", outcome.Message)
}
