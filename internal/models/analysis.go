package models

import "time"

// Rating is the closed set of advisory ratings for a currency.
type Rating string

const (
	RatingBuy  Rating = "BUY"
	RatingSell Rating = "SELL"
	RatingHold Rating = "HOLD"
)

// ParseRating maps a free-form token onto the closed rating set,
// defaulting to HOLD for anything unrecognized.
func ParseRating(token string) Rating {
	switch Rating(token) {
	case RatingBuy, RatingSell, RatingHold:
		return Rating(token)
	default:
		return RatingHold
	}
}

// DefaultConfidence is used when no confidence percentage can be
// extracted from the AI response.
const DefaultConfidence = 75

// CurrencyAnalysis is a structured fundamental analysis for a single
// currency. KeyFactors always holds exactly four entries, padded with
// generic fallback strings when extraction comes up short.
type CurrencyAnalysis struct {
	Currency         string    `json:"currency"`
	FundamentalScore int       `json:"fundamental_score"`
	TechnicalScore   *int      `json:"technical_score,omitempty"`
	Sentiment        string    `json:"sentiment"`
	KeyFactors       []string  `json:"key_factors"`
	Forecast         string    `json:"forecast"`
	AIRating         Rating    `json:"ai_rating"`
	Confidence       int       `json:"confidence"`
	Timestamp        time.Time `json:"timestamp"`
	Source           Source    `json:"source"`
	RawAnalysis      string    `json:"raw_analysis,omitempty"`
}

// Normalize enforces the structural invariants after deserialization.
func (c *CurrencyAnalysis) Normalize() {
	if c.KeyFactors == nil {
		c.KeyFactors = []string{}
	}
	if c.AIRating == "" {
		c.AIRating = RatingHold
	}
	c.FundamentalScore = ClampScore(c.FundamentalScore)
	c.Confidence = ClampScore(c.Confidence)
	if c.TechnicalScore != nil {
		clamped := ClampScore(*c.TechnicalScore)
		c.TechnicalScore = &clamped
	}
}
