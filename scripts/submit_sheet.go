package main

import (
	"context"
	"log"
	"os"
	"strings"

	"alfredoptarigan/hr-dashboard/internal/config"
	"alfredoptarigan/hr-dashboard/internal/models"
	"alfredoptarigan/hr-dashboard/internal/services"
)

// Submits one or more sheet URLs to the processing backend and prints the
// resulting shortlist:
//
//	go run ./scripts/submit_sheet.go https://docs.google.com/spreadsheets/d/...
func main() {
	sheetURLs := os.Args[1:]
	if len(sheetURLs) == 0 {
		log.Fatalf("❌ Usage: submit_sheet <google-sheets-url>...")
	}

	log.Println("🚀 Starting sheet submission...")

	// Load configuration
	cfg := config.Load()

	backend := services.NewBackendClient(
		cfg.Backend.URL,
		cfg.Backend.Timeout,
		0,
		cfg.Backend.ShortlistRetries,
	)
	sheets := services.NewSheetService(backend, cfg.Sheet.RequiredHost)
	candidates := services.NewCandidateService(backend)

	ctx := context.Background()

	successCount := 0
	failCount := 0
	var returned []models.Candidate

	for _, sheetURL := range sheetURLs {
		log.Printf("\n📄 Processing: %s", sheetURL)

		var outcome services.SubmitOutcome
		err := sheets.Submit(ctx, sheetURL,
			func() { log.Printf("   🔄 Sent to %s", cfg.Backend.URL) },
			func(o services.SubmitOutcome) { outcome = o },
		)
		if err != nil {
			log.Printf("   ⚠️  %v, skipping...", err)
			failCount++
			continue
		}

		if outcome.Fallback {
			log.Printf("   ❌ Backend failed: %v", outcome.Err)
			failCount++
			continue
		}

		if outcome.Message != "" {
			log.Printf("   💬 %s", outcome.Message)
		}
		log.Printf("   ✅ Processed %d, shortlisted %d, calls scheduled %d",
			outcome.Stats.CandidatesProcessed,
			outcome.Stats.CandidatesShortlisted,
			outcome.Stats.CallsScheduled,
		)
		returned = append(returned, outcome.Candidates...)
		successCount++
	}

	view := candidates.Resolve(ctx, returned)
	if view.FetchErr != nil {
		log.Printf("⚠️  Could not fetch shortlist: %v", view.FetchErr)
	}

	log.Println("\n" + strings.Repeat("=", 60))
	log.Printf("📋 Shortlisted candidates (%s):", view.Source)
	for _, row := range view.Rows() {
		log.Printf("   %-24s %-28s %3d%%  %s", row.Name, row.Email, row.MatchScore, row.Tier)
	}
	log.Println(strings.Repeat("=", 60))

	log.Printf("📊 Submission Summary:")
	log.Printf("   ✅ Successful: %d sheets", successCount)
	log.Printf("   ❌ Failed: %d sheets", failCount)

	if failCount > 0 {
		log.Println("⚠️  Some sheets failed to process. Please check the logs above.")
		os.Exit(1)
	}

	log.Println("✅ All sheets processed successfully!")
}
