package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"alfredoptarigan/hr-dashboard/internal/models"
)

const (
	SummarySheet    = "Summary"
	CandidatesSheet = "Shortlisted Candidates"
)

var tierLabels = map[models.ScoreTier]string{
	models.TierHigh:   "90+",
	models.TierMedium: "80-89",
	models.TierLow:    "Below 80",
}

var tierFills = map[models.ScoreTier]string{
	models.TierHigh:   "DCFCE7",
	models.TierMedium: "CCFBF1",
	models.TierLow:    "FEF3C7",
}

// ReportService renders the downloadable summary workbook.
type ReportService interface {
	Build(email string, results *Results) (*bytes.Buffer, error)
}

type reportService struct {
	now func() time.Time
}

func NewReportService() ReportService {
	return &reportService{now: time.Now}
}

func (r *reportService) Build(email string, results *Results) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return nil, fmt.Errorf("failed to rename summary sheet: %w", err)
	}
	if _, err := f.NewSheet(CandidatesSheet); err != nil {
		return nil, fmt.Errorf("failed to create candidates sheet: %w", err)
	}

	if err := r.writeSummary(f, email, results); err != nil {
		return nil, fmt.Errorf("failed to write summary sheet: %w", err)
	}
	if err := writeCandidates(f, results.View); err != nil {
		return nil, fmt.Errorf("failed to write candidates sheet: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return buf, nil
}

func (r *reportService) writeSummary(f *excelize.File, email string, results *Results) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"2563EB"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	if err := f.SetColWidth(SummarySheet, "A", "A", 28); err != nil {
		return err
	}
	if err := f.SetColWidth(SummarySheet, "B", "B", 40); err != nil {
		return err
	}

	if err := f.SetCellValue(SummarySheet, "A1", "Resume Processing Summary"); err != nil {
		return err
	}
	if err := f.MergeCell(SummarySheet, "A1", "B1"); err != nil {
		return err
	}
	if err := f.SetCellStyle(SummarySheet, "A1", "B1", headerStyle); err != nil {
		return err
	}

	fallback := "No"
	if results.LastRun != nil && results.LastRun.Fallback {
		fallback = "Yes (backend unavailable)"
	}

	sheetURL := ""
	if results.LastRun != nil {
		sheetURL = results.LastRun.SheetURL
	}

	rows := [][2]interface{}{
		{"Generated:", r.now().Format("2006-01-02 15:04:05")},
		{"Prepared for:", email},
		{"Sheet URL:", sheetURL},
		{"Candidates processed:", results.Stats.CandidatesProcessed},
		{"Candidates shortlisted:", results.Stats.CandidatesShortlisted},
		{"Calls scheduled:", results.Stats.CallsScheduled},
		{"Fallback statistics:", fallback},
		{"Candidate source:", string(results.View.Source)},
	}

	for i, row := range rows {
		line := i + 3
		label := fmt.Sprintf("A%d", line)
		if err := f.SetCellValue(SummarySheet, label, row[0]); err != nil {
			return err
		}
		if err := f.SetCellStyle(SummarySheet, label, label, labelStyle); err != nil {
			return err
		}
		if err := f.SetCellValue(SummarySheet, fmt.Sprintf("B%d", line), row[1]); err != nil {
			return err
		}
	}

	return nil
}

func writeCandidates(f *excelize.File, view CandidateView) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"2563EB"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	tierStyles := make(map[models.ScoreTier]int, len(tierFills))
	for tier, color := range tierFills {
		style, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
		if err != nil {
			return err
		}
		tierStyles[tier] = style
	}

	headers := []string{"Name", "Email", "Phone", "Experience", "Match Score", "Tier"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(CandidatesSheet, cell, header); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(CandidatesSheet, "A1", "F1", headerStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(CandidatesSheet, "A", "D", 24); err != nil {
		return err
	}

	for i, row := range view.Rows() {
		line := i + 2
		values := []interface{}{row.Name, row.Email, row.Phone, row.Experience, row.MatchScore, tierLabels[row.Tier]}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, line)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(CandidatesSheet, cell, value); err != nil {
				return err
			}
		}

		scoreCell := fmt.Sprintf("E%d", line)
		if err := f.SetCellStyle(CandidatesSheet, scoreCell, scoreCell, tierStyles[row.Tier]); err != nil {
			return err
		}
	}

	return nil
}
