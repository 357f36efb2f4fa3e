package interfaces

import (
	"context"

	"github.com/ternarybob/forexai/internal/models"
)

// IndicatorSource fetches the latest observation for a single economic
// indicator series. A nil observation with nil error means the series
// exists but currently has no usable value.
type IndicatorSource interface {
	LatestObservation(ctx context.Context, seriesID string) (*models.IndicatorObservation, error)
}
