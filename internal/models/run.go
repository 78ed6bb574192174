package models

import (
	"time"

	"github.com/google/uuid"
)

type RunStatus string

const (
	RunQueued     RunStatus = "queued"
	RunProcessing RunStatus = "processing"
	RunCompleted  RunStatus = "completed"
	RunFailed     RunStatus = "failed"
)

// Run is one sheet submission made from the dashboard.
type Run struct {
	ID                    uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	SessionID             uuid.UUID `gorm:"type:uuid;not null;index" json:"session_id"`
	SheetURL              string    `gorm:"type:text;not null" json:"sheet_url"`
	Status                RunStatus `gorm:"not null;default:'queued'" json:"status"`
	Fallback              bool      `gorm:"not null;default:false" json:"fallback"`
	CandidatesProcessed   int       `gorm:"not null;default:0" json:"candidates_processed"`
	CandidatesShortlisted int       `gorm:"not null;default:0" json:"candidates_shortlisted"`
	CallsScheduled        int       `gorm:"not null;default:0" json:"calls_scheduled"`
	Message               *string   `gorm:"type:text" json:"message,omitempty"`
	ErrorMessage          *string   `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt             time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt             time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Candidates []RunCandidate `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Run) TableName() string {
	return "runs"
}

func (r *Run) Stats() ProcessingStats {
	return ProcessingStats{
		CandidatesProcessed:   r.CandidatesProcessed,
		CandidatesShortlisted: r.CandidatesShortlisted,
		CallsScheduled:        r.CallsScheduled,
	}
}

// RunCandidate is a candidate returned inline by the backend for a run.
type RunCandidate struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	RunID       uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Position    int       `gorm:"not null" json:"-"`
	CandidateID string    `gorm:"type:text" json:"id"`
	Name        string    `gorm:"type:text" json:"name"`
	Email       string    `gorm:"type:text" json:"email"`
	Phone       string    `gorm:"type:text" json:"phone"`
	Experience  string    `gorm:"type:text" json:"experience"`
	MatchScore  int       `gorm:"not null;default:0" json:"match_score"`
}

func (RunCandidate) TableName() string {
	return "run_candidates"
}

func (rc RunCandidate) Candidate() Candidate {
	return Candidate{
		ID:         rc.CandidateID,
		Name:       rc.Name,
		Email:      rc.Email,
		Phone:      rc.Phone,
		Experience: rc.Experience,
		MatchScore: rc.MatchScore,
	}
}

func NewRunCandidate(runID uuid.UUID, position int, c Candidate) RunCandidate {
	return RunCandidate{
		RunID:       runID,
		Position:    position,
		CandidateID: c.ID,
		Name:        c.Name,
		Email:       c.Email,
		Phone:       c.Phone,
		Experience:  c.Experience,
		MatchScore:  c.MatchScore,
	}
}
