package models

import (
	"time"

	"github.com/google/uuid"
)

type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseProcessing Phase = "processing"
	PhaseComplete   Phase = "complete"
)

// Session is a signed-in recruiter together with the dashboard state.
type Session struct {
	ID                    uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Email                 string     `gorm:"type:text;not null" json:"email"`
	Phase                 Phase      `gorm:"type:text;not null;default:'idle'" json:"phase"`
	CandidatesProcessed   int        `gorm:"not null;default:0" json:"candidates_processed"`
	CandidatesShortlisted int        `gorm:"not null;default:0" json:"candidates_shortlisted"`
	CallsScheduled        int        `gorm:"not null;default:0" json:"calls_scheduled"`
	LastRunID             *uuid.UUID `gorm:"type:uuid" json:"last_run_id,omitempty"`
	ExpiresAt             time.Time  `gorm:"type:timestamp;not null" json:"expires_at"`
	CreatedAt             time.Time  `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt             time.Time  `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (Session) TableName() string {
	return "sessions"
}

// Stats returns the counters stored on the session.
func (s *Session) Stats() ProcessingStats {
	return ProcessingStats{
		CandidatesProcessed:   s.CandidatesProcessed,
		CandidatesShortlisted: s.CandidatesShortlisted,
		CallsScheduled:        s.CallsScheduled,
	}
}

// ResultsAvailable reports whether the results tab is enabled.
func (s *Session) ResultsAvailable() bool {
	return s.Phase == PhaseComplete
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
