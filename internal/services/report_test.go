package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"alfredoptarigan/hr-dashboard/internal/models"
)

func TestReportService_Build(t *testing.T) {
	svc := &reportService{now: func() time.Time { return time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC) }}

	results := &Results{
		Stats: models.FallbackStats,
		LastRun: &models.Run{
			ID:       uuid.New(),
			SheetURL: validSheet,
			Fallback: true,
		},
		View: CandidateView{Source: SourceDemo, Candidates: DemoCandidates()},
	}

	buf, err := svc.Build("hr@example.com", results)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SummarySheet, CandidatesSheet}, f.GetSheetList())

	generated, err := f.GetCellValue(SummarySheet, "B3")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01 09:30:00", generated)

	processed, err := f.GetCellValue(SummarySheet, "B6")
	require.NoError(t, err)
	assert.Equal(t, "15", processed)

	fallback, err := f.GetCellValue(SummarySheet, "B9")
	require.NoError(t, err)
	assert.Contains(t, fallback, "Yes")

	rows, err := f.GetRows(CandidatesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Name", "Email", "Phone", "Experience", "Match Score", "Tier"}, rows[0])
	assert.Equal(t, "Sarah Johnson", rows[1][0])
	assert.Equal(t, "92", rows[1][4])
	assert.Equal(t, "90+", rows[1][5])
	assert.Equal(t, "Below 80", rows[3][5])
}

func TestReportService_BuildWithoutRun(t *testing.T) {
	svc := NewReportService()

	buf, err := svc.Build("hr@example.com", &Results{
		View: CandidateView{Source: SourceExplicit, Candidates: []models.Candidate{{Name: "Solo", MatchScore: 85}}},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	tier, err := f.GetCellValue(CandidatesSheet, "F2")
	require.NoError(t, err)
	assert.Equal(t, "80-89", tier)
}
