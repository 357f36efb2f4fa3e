package interfaces

import (
	"context"

	"github.com/ternarybob/forexai/internal/models"
)

// ReportService is the consumer-facing advisory API. All operations
// are total from the caller's point of view: every failure mode is
// absorbed internally and answered with degraded (mock) content, so
// presentational consumers never see an error state.
type ReportService interface {
	// GetDailyRecap returns the current daily market recap, generating
	// a fresh one when the scheduling policy allows it.
	GetDailyRecap(ctx context.Context) *models.ReportArtifact

	// GetCurrencyAnalysis returns the fundamental analysis for a
	// currency code, regenerating when the cached entry has expired.
	GetCurrencyAnalysis(ctx context.Context, currency string) *models.CurrencyAnalysis

	// ConductDeepResearch runs an on-demand research report for a market
	// topic. Results are request-scoped and never cached.
	ConductDeepResearch(ctx context.Context, topic string) *models.DeepResearch
}
