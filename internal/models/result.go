package models

type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type SubmitRequest struct {
	SheetURL string `json:"sheet_url" form:"sheet_url"`
}

type SubmitResponse struct {
	RunID  string `json:"run_id"`
	Status string `json:"status"`
}

// RunResponse is the body returned by the backend's POST /run.
type RunResponse struct {
	Message               string      `json:"message,omitempty"`
	CandidatesProcessed   *int        `json:"candidates_processed,omitempty"`
	CandidatesShortlisted *int        `json:"candidates_shortlisted,omitempty"`
	CallsScheduled        *int        `json:"calls_scheduled,omitempty"`
	Candidates            []Candidate `json:"candidates,omitempty"`
}

// ShortlistResponse is the body returned by the backend's GET /shortlisted.
type ShortlistResponse struct {
	Candidates []Candidate `json:"candidates"`
}

type StatusResponse struct {
	Phase            Phase           `json:"phase"`
	Stats            ProcessingStats `json:"stats"`
	ResultsAvailable bool            `json:"results_available"`
	LastRun          *RunSummary     `json:"last_run,omitempty"`
	Toasts           []Toast         `json:"toasts"`
}

type RunSummary struct {
	ID           string    `json:"id"`
	Status       RunStatus `json:"status"`
	Fallback     bool      `json:"fallback"`
	ErrorMessage *string   `json:"error_message,omitempty"`
}

// CandidateRow is a candidate as shown in the results table.
type CandidateRow struct {
	ID         string    `json:"id,omitempty"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Experience string    `json:"experience,omitempty"`
	MatchScore int       `json:"match_score"`
	Tier       ScoreTier `json:"tier"`
}

func NewCandidateRow(c Candidate) CandidateRow {
	return CandidateRow{
		ID:         c.ID,
		Name:       c.Name,
		Email:      c.Email,
		Phone:      c.Phone,
		Experience: c.Experience,
		MatchScore: c.MatchScore,
		Tier:       c.Tier(),
	}
}

// TierClass is used by the templates.
func (r CandidateRow) TierClass() string {
	return r.Tier.CSSClass()
}

type CandidatesResponse struct {
	Source     string         `json:"source"`
	Candidates []CandidateRow `json:"candidates"`
	FetchError *string        `json:"fetch_error,omitempty"`
}
