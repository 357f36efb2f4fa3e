package textproc

import (
	"strings"

	"github.com/ternarybob/forexai/internal/models"
)

// Polarity cue vocabularies. The earliest cue in the text wins; text
// containing neither reads as neutral.
var (
	positiveCues = []string{
		"rise", "rally", "support", "strong", "favorable", "hawkish",
		"gain", "improve", "bullish", "upbeat",
	}
	negativeCues = []string{
		"fall", "drop", "pressure", "weak", "unfavorable", "dovish",
		"decline", "bearish", "deteriorat", "downbeat",
	}
)

// DetectImpact scans text for the polarity vocabulary and returns the
// impact of the earliest match.
func DetectImpact(text string) models.Impact {
	lower := strings.ToLower(text)

	earliest := -1
	impact := models.ImpactNeutral

	for _, cue := range positiveCues {
		if idx := strings.Index(lower, cue); idx >= 0 && (earliest < 0 || idx < earliest) {
			earliest = idx
			impact = models.ImpactPositive
		}
	}
	for _, cue := range negativeCues {
		if idx := strings.Index(lower, cue); idx >= 0 && (earliest < 0 || idx < earliest) {
			earliest = idx
			impact = models.ImpactNegative
		}
	}

	return impact
}
