package interfaces

import (
	"context"
	"errors"

	"github.com/ternarybob/forexai/internal/models"
)

// ErrCacheMiss is returned when no entry exists for the requested key.
// Corrupt entries are reported as misses so the caller regenerates.
var ErrCacheMiss = errors.New("cache miss")

// ReportCache is the key-value store for generated artifacts: one
// well-known key for the daily recap, one key per currency code for
// analyses. Writes are all-or-nothing per key, last write wins.
type ReportCache interface {
	// GetRecap returns the cached daily recap, or ErrCacheMiss.
	GetRecap(ctx context.Context) (*models.ReportArtifact, error)

	// SetRecap stores the daily recap, replacing any previous entry.
	SetRecap(ctx context.Context, artifact *models.ReportArtifact) error

	// GetAnalysis returns the cached analysis for a currency code, or
	// ErrCacheMiss.
	GetAnalysis(ctx context.Context, currency string) (*models.CurrencyAnalysis, error)

	// SetAnalysis stores the analysis for a currency code.
	SetAnalysis(ctx context.Context, currency string, analysis *models.CurrencyAnalysis) error
}
