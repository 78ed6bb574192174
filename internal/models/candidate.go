package models

import (
	"encoding/json"
	"fmt"
)

// Candidate is a shortlisted applicant as reported by the processing backend.
type Candidate struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Experience string `json:"experience,omitempty"`
	MatchScore int    `json:"match_score"`
}

// UnmarshalJSON is the only place candidate payloads are decoded. It accepts the
// legacy camelCase "matchScore" key; "match_score" wins when both are sent.
func (c *Candidate) UnmarshalJSON(data []byte) error {
	var wire struct {
		ID          json.RawMessage `json:"id"`
		Name        string          `json:"name"`
		Email       string          `json:"email"`
		Phone       string          `json:"phone"`
		Experience  string          `json:"experience"`
		MatchScore  *float64        `json:"match_score"`
		LegacyScore *float64        `json:"matchScore"`
	}

	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("decode candidate: %w", err)
	}

	id, err := decodeID(wire.ID)
	if err != nil {
		return err
	}

	*c = Candidate{
		ID:         id,
		Name:       wire.Name,
		Email:      wire.Email,
		Phone:      wire.Phone,
		Experience: wire.Experience,
	}

	switch {
	case wire.MatchScore != nil:
		c.MatchScore = int(*wire.MatchScore)
	case wire.LegacyScore != nil:
		c.MatchScore = int(*wire.LegacyScore)
	}

	return nil
}

// Tier classifies the candidate's match score.
func (c Candidate) Tier() ScoreTier {
	return ClassifyScore(c.MatchScore)
}

// decodeID accepts string or numeric ids, the backend has sent both.
func decodeID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("decode candidate id: %w", err)
	}
	return n.String(), nil
}

// ScoreTier is the colour bucket a match score falls into.
type ScoreTier string

const (
	TierHigh   ScoreTier = "high"
	TierMedium ScoreTier = "medium"
	TierLow    ScoreTier = "low"
)

const (
	highTierMin   = 90
	mediumTierMin = 80
)

// ClassifyScore buckets a score: >= 90 high, >= 80 medium, anything else low.
func ClassifyScore(score int) ScoreTier {
	switch {
	case score >= highTierMin:
		return TierHigh
	case score >= mediumTierMin:
		return TierMedium
	default:
		return TierLow
	}
}

// CSSClass returns the badge classes used by the results table.
func (t ScoreTier) CSSClass() string {
	switch t {
	case TierHigh:
		return "text-green-600 bg-green-50 px-2 py-1 rounded-md"
	case TierMedium:
		return "text-teal-600 bg-teal-50 px-2 py-1 rounded-md"
	default:
		return "text-amber-600 bg-amber-50 px-2 py-1 rounded-md"
	}
}
