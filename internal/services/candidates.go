package services

import (
	"context"
	"log"
	"slices"

	"alfredoptarigan/hr-dashboard/internal/models"
)

type CandidateSource string

const (
	SourceExplicit CandidateSource = "explicit"
	SourceBackend  CandidateSource = "backend"
	SourceDemo     CandidateSource = "demo"
)

var ToastShortlistUnavailable = models.Toast{
	Title:       "Could not load candidates",
	Description: "The shortlist service is unavailable. Showing demo candidates instead.",
	Variant:     models.ToastDestructive,
}

// CandidateView is the list the results table renders and where it came from.
type CandidateView struct {
	Source     CandidateSource
	Candidates []models.Candidate
	FetchErr   error
}

func (v CandidateView) Rows() []models.CandidateRow {
	rows := make([]models.CandidateRow, 0, len(v.Candidates))
	for _, c := range v.Candidates {
		rows = append(rows, models.NewCandidateRow(c))
	}
	return rows
}

func (v CandidateView) Response() models.CandidatesResponse {
	resp := models.CandidatesResponse{
		Source:     string(v.Source),
		Candidates: v.Rows(),
	}
	if v.FetchErr != nil {
		msg := v.FetchErr.Error()
		resp.FetchError = &msg
	}
	return resp
}

type CandidateService interface {
	// Resolve picks what to display: a non-empty explicit list, else the backend
	// shortlist when it is non-empty, else the demo rows. Fetch errors never fail it.
	Resolve(ctx context.Context, explicit []models.Candidate) CandidateView
}

type candidateService struct {
	backend BackendClient
}

func NewCandidateService(backend BackendClient) CandidateService {
	return &candidateService{backend: backend}
}

func (s *candidateService) Resolve(ctx context.Context, explicit []models.Candidate) CandidateView {
	if len(explicit) > 0 {
		return CandidateView{Source: SourceExplicit, Candidates: explicit}
	}

	fetched, err := s.backend.Shortlisted(ctx)
	if err != nil {
		log.Printf("⚠️  Failed to fetch shortlist, using demo candidates: %v\n", err)
		return CandidateView{Source: SourceDemo, Candidates: DemoCandidates(), FetchErr: err}
	}

	if len(fetched) == 0 {
		return CandidateView{Source: SourceDemo, Candidates: DemoCandidates()}
	}

	return CandidateView{Source: SourceBackend, Candidates: fetched}
}

var demoCandidates = []models.Candidate{
	{
		ID:         "1",
		Name:       "Sarah Johnson",
		Email:      "sarah.j@example.com",
		Phone:      "+1 (555) 123-4567",
		Experience: "5 years",
		MatchScore: 92,
	},
	{
		ID:         "2",
		Name:       "Michael Chen",
		Email:      "m.chen@example.com",
		Phone:      "+1 (555) 234-5678",
		Experience: "3 years",
		MatchScore: 88,
	},
	{
		ID:         "3",
		Name:       "Emma Rodriguez",
		Email:      "emma.r@example.com",
		Phone:      "+1 (555) 345-6789",
		Experience: "4 years",
		MatchScore: 76,
	},
}

// DemoCandidates returns a fresh copy of the placeholder rows.
func DemoCandidates() []models.Candidate {
	return slices.Clone(demoCandidates)
}
