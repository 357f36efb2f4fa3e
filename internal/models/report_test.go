package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReportArtifact(t *testing.T) {
	now := time.Date(2026, 3, 10, 7, 5, 0, 0, time.UTC)
	artifact := NewReportArtifact(now)

	assert.NotEmpty(t, artifact.ID)
	assert.Equal(t, "Tuesday, 10 March 2026", artifact.Date)
	assert.NotNil(t, artifact.KeyPoints)
	assert.NotNil(t, artifact.EconomicData)
	assert.Equal(t, now, artifact.Timestamp)

	// IDs are unique per artifact.
	assert.NotEqual(t, artifact.ID, NewReportArtifact(now).ID)
}

func TestReportArtifactNormalizeAfterRoundTrip(t *testing.T) {
	raw := `{"id":"x","summary":"s","timestamp":"2026-03-10T07:05:00Z","source":"claude","ai_insights":{"confidence":130}}`

	var artifact ReportArtifact
	require.NoError(t, json.Unmarshal([]byte(raw), &artifact))
	assert.Nil(t, artifact.KeyPoints)

	artifact.Normalize()

	assert.NotNil(t, artifact.KeyPoints)
	assert.NotNil(t, artifact.EconomicData)
	assert.Equal(t, 100, artifact.AIInsights.Confidence)
}

func TestSourceCached(t *testing.T) {
	assert.Equal(t, Source("claude+cached"), SourceClaude.Cached())
	assert.Equal(t, Source("mock+cached"), SourceMock.Cached())
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0, ClampScore(-5))
	assert.Equal(t, 0, ClampScore(0))
	assert.Equal(t, 60, ClampScore(60))
	assert.Equal(t, 100, ClampScore(100))
	assert.Equal(t, 100, ClampScore(150))
}

func TestParseRating(t *testing.T) {
	assert.Equal(t, RatingBuy, ParseRating("BUY"))
	assert.Equal(t, RatingSell, ParseRating("SELL"))
	assert.Equal(t, RatingHold, ParseRating("HOLD"))
	assert.Equal(t, RatingHold, ParseRating("STRONG BUY"))
	assert.Equal(t, RatingHold, ParseRating(""))
}

func TestCurrencyAnalysisNormalize(t *testing.T) {
	technical := 140
	analysis := CurrencyAnalysis{
		Currency:         "EUR",
		FundamentalScore: -10,
		TechnicalScore:   &technical,
		Confidence:       180,
	}

	analysis.Normalize()

	assert.Equal(t, 0, analysis.FundamentalScore)
	assert.Equal(t, 100, *analysis.TechnicalScore)
	assert.Equal(t, 100, analysis.Confidence)
	assert.Equal(t, RatingHold, analysis.AIRating)
	assert.NotNil(t, analysis.KeyFactors)
}
