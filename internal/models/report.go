package models

import (
	"time"

	"github.com/google/uuid"
)

// Impact classifies the market effect of a recap key point.
type Impact string

const (
	ImpactPositive  Impact = "positive"
	ImpactNegative  Impact = "negative"
	ImpactNeutral   Impact = "neutral"
	ImpactImportant Impact = "important"
)

// Source identifies which backend produced an artifact.
type Source string

const (
	SourceClaude Source = "claude"
	SourceGemini Source = "gemini"
	SourceMock   Source = "mock"
)

// Cached marks a source as served from the report cache rather than
// freshly generated, e.g. "claude+cached".
func (s Source) Cached() Source {
	return s + "+cached"
}

// KeyPoint is a single highlighted market event in a daily recap.
type KeyPoint struct {
	Title       string `json:"title"`
	Impact      Impact `json:"impact"`
	Description string `json:"description"`
}

// AIInsights holds the structured advisory fields extracted from the
// AI response.
type AIInsights struct {
	Sentiment      string `json:"sentiment"`
	Confidence     int    `json:"confidence"`
	MainTrend      string `json:"main_trend"`
	Recommendation string `json:"recommendation"`
}

// IndicatorObservation is the most recent usable value for one
// economic indicator series.
type IndicatorObservation struct {
	Value float64 `json:"value"`
	Date  string  `json:"date"`
}

// ReportArtifact is a structured daily market recap. KeyPoints and
// EconomicData are never nil so renderers never branch on absence.
type ReportArtifact struct {
	ID             string                          `json:"id"`
	Date           string                          `json:"date"`
	Session        string                          `json:"session,omitempty"`
	Summary        string                          `json:"summary"`
	KeyPoints      []KeyPoint                      `json:"key_points"`
	AIInsights     AIInsights                      `json:"ai_insights"`
	EconomicData   map[string]IndicatorObservation `json:"economic_data"`
	Timestamp      time.Time                       `json:"timestamp"`
	RawReport      string                          `json:"raw_report,omitempty"`
	Source         Source                          `json:"source"`
	NextGeneration string                          `json:"next_generation,omitempty"`
}

// NewReportArtifact creates an artifact with a fresh ID and the
// non-nil collection invariants in place.
func NewReportArtifact(now time.Time) *ReportArtifact {
	return &ReportArtifact{
		ID:           uuid.New().String(),
		Date:         now.UTC().Format("Monday, 2 January 2006"),
		KeyPoints:    []KeyPoint{},
		EconomicData: map[string]IndicatorObservation{},
		Timestamp:    now.UTC(),
	}
}

// Normalize enforces the structural invariants on an artifact that
// round-tripped through storage (nil collections deserialize as nil).
func (a *ReportArtifact) Normalize() {
	if a.KeyPoints == nil {
		a.KeyPoints = []KeyPoint{}
	}
	if a.EconomicData == nil {
		a.EconomicData = map[string]IndicatorObservation{}
	}
	a.AIInsights.Confidence = ClampScore(a.AIInsights.Confidence)
}

// ClampScore bounds confidence and score values to [0,100].
func ClampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
