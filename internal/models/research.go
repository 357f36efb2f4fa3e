package models

import "time"

// DeepResearch is a structured on-demand research report for a market
// topic. KeyFindings and TradingRecommendations are never nil.
type DeepResearch struct {
	Topic                  string    `json:"topic"`
	Summary                string    `json:"summary"`
	KeyFindings            []string  `json:"key_findings"`
	TradingRecommendations []string  `json:"trading_recommendations"`
	Confidence             int       `json:"confidence"`
	Timestamp              time.Time `json:"timestamp"`
	Source                 Source    `json:"source"`
	RawResearch            string    `json:"raw_research,omitempty"`
}

// Normalize enforces the structural invariants after deserialization.
func (r *DeepResearch) Normalize() {
	if r.KeyFindings == nil {
		r.KeyFindings = []string{}
	}
	if r.TradingRecommendations == nil {
		r.TradingRecommendations = []string{}
	}
	r.Confidence = ClampScore(r.Confidence)
}
