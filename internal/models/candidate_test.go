package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyScore(t *testing.T) {
	tests := []struct {
		name  string
		score int
		want  ScoreTier
	}{
		{name: "perfect score", score: 100, want: TierHigh},
		{name: "exactly ninety", score: 90, want: TierHigh},
		{name: "just below ninety", score: 89, want: TierMedium},
		{name: "exactly eighty", score: 80, want: TierMedium},
		{name: "just below eighty", score: 79, want: TierLow},
		{name: "zero", score: 0, want: TierLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyScore(tt.score))
		})
	}
}

func TestScoreTierCSSClass(t *testing.T) {
	assert.Contains(t, TierHigh.CSSClass(), "text-green-600")
	assert.Contains(t, TierMedium.CSSClass(), "text-teal-600")
	assert.Contains(t, TierLow.CSSClass(), "text-amber-600")
}

func TestCandidateUnmarshal_SnakeCaseScore(t *testing.T) {
	var c Candidate
	err := json.Unmarshal([]byte(`{"id":"7","name":"Ada","email":"ada@example.com","phone":"1","experience":"2 years","match_score":91}`), &c)
	require.NoError(t, err)

	assert.Equal(t, Candidate{
		ID:         "7",
		Name:       "Ada",
		Email:      "ada@example.com",
		Phone:      "1",
		Experience: "2 years",
		MatchScore: 91,
	}, c)
	assert.Equal(t, TierHigh, c.Tier())
}

func TestCandidateUnmarshal_LegacyCamelCaseScore(t *testing.T) {
	var c Candidate
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Bo","email":"bo@example.com","phone":"2","matchScore":84}`), &c))

	assert.Equal(t, 84, c.MatchScore)
	assert.Empty(t, c.ID)
	assert.Empty(t, c.Experience)
}

func TestCandidateUnmarshal_SnakeCaseWinsOverLegacy(t *testing.T) {
	var c Candidate
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Cy","match_score":70,"matchScore":95}`), &c))

	assert.Equal(t, 70, c.MatchScore)
}

func TestCandidateUnmarshal_NumericID(t *testing.T) {
	var c Candidate
	require.NoError(t, json.Unmarshal([]byte(`{"id":42,"name":"Di","match_score":88}`), &c))

	assert.Equal(t, "42", c.ID)
}

func TestCandidateUnmarshal_InvalidID(t *testing.T) {
	var c Candidate
	err := json.Unmarshal([]byte(`{"id":{"nested":true},"name":"Ed"}`), &c)

	assert.Error(t, err)
}

func TestCandidateMarshal_EmitsCanonicalKey(t *testing.T) {
	raw, err := json.Marshal(Candidate{Name: "Fa", MatchScore: 77})
	require.NoError(t, err)

	assert.Contains(t, string(raw), `"match_score":77`)
	assert.NotContains(t, string(raw), "matchScore")
}

func TestNewCandidateRow(t *testing.T) {
	row := NewCandidateRow(Candidate{ID: "1", Name: "Gi", MatchScore: 80})

	assert.Equal(t, TierMedium, row.Tier)
	assert.Equal(t, TierMedium.CSSClass(), row.TierClass())
}
