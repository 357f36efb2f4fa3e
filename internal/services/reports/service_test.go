package reports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/forexai/internal/interfaces"
	"github.com/ternarybob/forexai/internal/models"
	"github.com/ternarybob/forexai/internal/storage/memory"
)

// stubGateway implements interfaces.TextGenerator for testing
type stubGateway struct {
	result *interfaces.GenerateResult
	err    error
	calls  int
}

func (g *stubGateway) GenerateText(ctx context.Context, prompt string) (*interfaces.GenerateResult, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return g.result, nil
}

func (g *stubGateway) Configured() bool {
	return true
}

// stubIndicators implements interfaces.IndicatorSource for testing
type stubIndicators struct {
	observations map[string]*models.IndicatorObservation
	err          error
}

func (s *stubIndicators) LatestObservation(ctx context.Context, seriesID string) (*models.IndicatorObservation, error) {
	if obs, ok := s.observations[seriesID]; ok {
		return obs, nil
	}
	if s.err != nil {
		return nil, s.err
	}
	return nil, nil
}

const recapResponse = `Macroeconomic Context: Currency markets consolidated after the latest central bank decisions, with European data beating expectations.

EUR/USD: The pair staged a rally after upbeat euro-area manufacturing figures.

GBP/USD: Sterling came under pressure following soft retail sales.

Sentiment: Cautiously optimistic

Main Trend: Broad dollar consolidation

Recommendation: Favor euro strength on dips

Confidence: 82%`

const analysisResponse = `Monetary Policy: The Federal Reserve holds a data-dependent stance with one cut priced in.

Economic Indicators: Growth remains above trend while core inflation cools gradually.

Political Stability: The institutional backdrop is stable heading into the budget cycle.

Trade Balance: The goods deficit narrowed on stronger exports.

Sentiment: Constructive

Fundamental Score: 81/100

Technical Score: 64

Forecast: The dollar should stay supported over the coming quarter as rate differentials persist.

Rating: BUY

Confidence: 77%`

func newTestService(t *testing.T, gateway *stubGateway, indicators interfaces.IndicatorSource, now time.Time) (*Service, *memory.ReportCache) {
	t.Helper()
	cache := memory.NewReportCache()
	svc := NewService(cache, gateway, indicators, nil, arbor.NewLogger(),
		WithClock(func() time.Time { return now }))
	return svc, cache
}

func TestGetDailyRecapGeneratesInsideWindow(t *testing.T) {
	gateway := &stubGateway{result: &interfaces.GenerateResult{Text: recapResponse, Provider: "claude"}}
	svc, cache := newTestService(t, gateway, nil, utc(10, 7, 10))

	artifact := svc.GetDailyRecap(context.Background())
	require.NotNil(t, artifact)

	assert.Equal(t, models.SourceClaude, artifact.Source)
	assert.Equal(t, "European Open", artifact.Session)
	assert.Contains(t, artifact.Summary, "Currency markets consolidated")
	assert.Equal(t, 82, artifact.AIInsights.Confidence)
	assert.Equal(t, "Cautiously optimistic", artifact.AIInsights.Sentiment)
	assert.Equal(t, "12:00 UTC", artifact.NextGeneration)

	require.Len(t, artifact.KeyPoints, 2)
	assert.Equal(t, "EUR/USD", artifact.KeyPoints[0].Title)
	assert.Equal(t, models.ImpactPositive, artifact.KeyPoints[0].Impact)
	assert.Equal(t, "GBP/USD", artifact.KeyPoints[1].Title)
	assert.Equal(t, models.ImpactNegative, artifact.KeyPoints[1].Impact)

	cached, err := cache.GetRecap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, artifact.ID, cached.ID)
}

func TestGetDailyRecapReturnsCacheWithinSlot(t *testing.T) {
	gateway := &stubGateway{result: &interfaces.GenerateResult{Text: recapResponse, Provider: "claude"}}
	now := utc(10, 7, 10)
	cache := memory.NewReportCache()
	svc := NewService(cache, gateway, nil, nil, arbor.NewLogger(),
		WithClock(func() time.Time { return now }))

	first := svc.GetDailyRecap(context.Background())
	require.Equal(t, 1, gateway.calls)

	// Later in the same slot: served from cache, gateway untouched.
	now = utc(10, 10, 30)
	second := svc.GetDailyRecap(context.Background())

	assert.Equal(t, 1, gateway.calls)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, models.SourceClaude, second.Source)
}

func TestGetDailyRecapStaleBetweenWindows(t *testing.T) {
	gateway := &stubGateway{result: &interfaces.GenerateResult{Text: recapResponse, Provider: "claude"}}
	now := utc(10, 7, 10)
	cache := memory.NewReportCache()
	svc := NewService(cache, gateway, nil, nil, arbor.NewLogger(),
		WithClock(func() time.Time { return now }))

	svc.GetDailyRecap(context.Background())
	require.Equal(t, 1, gateway.calls)

	// Afternoon, outside any window: previous report, marked cached.
	now = utc(10, 14, 0)
	stale := svc.GetDailyRecap(context.Background())

	assert.Equal(t, 1, gateway.calls)
	assert.Equal(t, models.Source("claude+cached"), stale.Source)
	assert.Equal(t, "17:00 UTC", stale.NextGeneration)

	// The cached entry itself is untouched.
	cached, err := cache.GetRecap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.SourceClaude, cached.Source)
}

func TestGetDailyRecapPlaceholderOutsideWindowNotCached(t *testing.T) {
	gateway := &stubGateway{result: &interfaces.GenerateResult{Text: recapResponse, Provider: "claude"}}
	svc, cache := newTestService(t, gateway, nil, utc(10, 9, 0))

	artifact := svc.GetDailyRecap(context.Background())

	assert.Equal(t, 0, gateway.calls)
	assert.Equal(t, models.SourceMock, artifact.Source)
	assert.Equal(t, "12:00 UTC", artifact.NextGeneration)

	// Placeholders must not block generation later in the same slot.
	_, err := cache.GetRecap(context.Background())
	assert.ErrorIs(t, err, interfaces.ErrCacheMiss)
}

func TestGetDailyRecapGatewayFailureFallsBackToMock(t *testing.T) {
	gateway := &stubGateway{err: errors.New("upstream unavailable")}
	now := utc(10, 12, 15)
	cache := memory.NewReportCache()
	svc := NewService(cache, gateway, nil, nil, arbor.NewLogger(),
		WithClock(func() time.Time { return now }))

	artifact := svc.GetDailyRecap(context.Background())

	assert.Equal(t, models.SourceMock, artifact.Source)
	assert.Equal(t, "American Open", artifact.Session)
	require.Len(t, artifact.KeyPoints, 3)

	// The fallback is cached so repeated failures in the same slot do
	// not hammer the gateway.
	now = utc(10, 12, 25)
	svc.GetDailyRecap(context.Background())
	assert.Equal(t, 1, gateway.calls)
}

func TestGetDailyRecapPartialIndicatorResults(t *testing.T) {
	gateway := &stubGateway{result: &interfaces.GenerateResult{Text: recapResponse, Provider: "claude"}}
	indicators := &stubIndicators{
		observations: map[string]*models.IndicatorObservation{
			"FEDFUNDS": {Value: 4.25, Date: "2026-02-01"},
			"UNRATE":   {Value: 4.1, Date: "2026-02-01"},
		},
		err: errors.New("series unavailable"),
	}
	svc, _ := newTestService(t, gateway, indicators, utc(10, 7, 0))

	artifact := svc.GetDailyRecap(context.Background())

	require.Len(t, artifact.EconomicData, 2)
	assert.Equal(t, 4.25, artifact.EconomicData["FEDFUNDS"].Value)
	assert.Equal(t, 4.1, artifact.EconomicData["UNRATE"].Value)
}

func TestGetCurrencyAnalysisFreshCache(t *testing.T) {
	gateway := &stubGateway{result: &interfaces.GenerateResult{Text: analysisResponse, Provider: "claude"}}
	now := utc(10, 12, 0)
	cache := memory.NewReportCache()
	svc := NewService(cache, gateway, nil, nil, arbor.NewLogger(),
		WithClock(func() time.Time { return now }))

	existing := MockAnalysis("EUR", now.Add(-3*time.Hour))
	require.NoError(t, cache.SetAnalysis(context.Background(), "EUR", existing))

	analysis := svc.GetCurrencyAnalysis(context.Background(), "EUR")

	assert.Equal(t, 0, gateway.calls)
	assert.Equal(t, models.SourceMock, analysis.Source)
	assert.Equal(t, existing.Forecast, analysis.Forecast)
}

func TestGetCurrencyAnalysisExpiredRegenerates(t *testing.T) {
	gateway := &stubGateway{result: &interfaces.GenerateResult{Text: analysisResponse, Provider: "claude"}}
	now := utc(10, 12, 0)
	cache := memory.NewReportCache()
	svc := NewService(cache, gateway, nil, nil, arbor.NewLogger(),
		WithClock(func() time.Time { return now }))

	stale := MockAnalysis("USD", now.Add(-5*time.Hour))
	require.NoError(t, cache.SetAnalysis(context.Background(), "USD", stale))

	analysis := svc.GetCurrencyAnalysis(context.Background(), "USD")

	require.Equal(t, 1, gateway.calls)
	assert.Equal(t, "USD", analysis.Currency)
	assert.Equal(t, models.SourceClaude, analysis.Source)
	assert.Equal(t, 81, analysis.FundamentalScore)
	require.NotNil(t, analysis.TechnicalScore)
	assert.Equal(t, 64, *analysis.TechnicalScore)
	assert.Equal(t, models.RatingBuy, analysis.AIRating)
	assert.Equal(t, 77, analysis.Confidence)
	require.Len(t, analysis.KeyFactors, 4)
	assert.Contains(t, analysis.KeyFactors[0], "Federal Reserve")

	cached, err := cache.GetAnalysis(context.Background(), "USD")
	require.NoError(t, err)
	assert.Equal(t, now, cached.Timestamp)
}

func TestGetCurrencyAnalysisGatewayFailureFallsBackToMock(t *testing.T) {
	gateway := &stubGateway{err: errors.New("upstream unavailable")}
	svc, cache := newTestService(t, gateway, nil, utc(10, 12, 0))

	analysis := svc.GetCurrencyAnalysis(context.Background(), "GBP")

	assert.Equal(t, models.SourceMock, analysis.Source)
	assert.Equal(t, models.RatingBuy, analysis.AIRating)
	require.Len(t, analysis.KeyFactors, 4)

	cached, err := cache.GetAnalysis(context.Background(), "GBP")
	require.NoError(t, err)
	assert.Equal(t, models.SourceMock, cached.Source)
}

func TestGetCurrencyAnalysisNormalizesCurrencyCode(t *testing.T) {
	gateway := &stubGateway{err: errors.New("upstream unavailable")}
	svc, _ := newTestService(t, gateway, nil, utc(10, 12, 0))

	analysis := svc.GetCurrencyAnalysis(context.Background(), " eur ")

	assert.Equal(t, "EUR", analysis.Currency)
}

const researchResponse = `Summary: Central bank rate divergence has become the dominant driver of major pair direction this quarter.

Key Findings: The Fed-ECB policy gap correlates strongly with EUR/USD direction.
Carry positioning has concentrated in USD/JPY.
Volatility clusters around scheduled rate decisions.

Trading Recommendations: Favor EUR/USD shorts while the policy gap persists.
Keep USD/JPY exposure hedged ahead of BoJ meetings.

Confidence: 71%`

func TestConductDeepResearchGenerates(t *testing.T) {
	gateway := &stubGateway{result: &interfaces.GenerateResult{Text: researchResponse, Provider: "claude"}}
	svc, _ := newTestService(t, gateway, nil, utc(10, 9, 0))

	research := svc.ConductDeepResearch(context.Background(), "central bank rate divergence")
	require.NotNil(t, research)

	assert.Equal(t, "central bank rate divergence", research.Topic)
	assert.Equal(t, models.SourceClaude, research.Source)
	assert.Contains(t, research.Summary, "dominant driver")
	assert.Equal(t, 71, research.Confidence)

	require.Len(t, research.KeyFindings, 3)
	assert.Contains(t, research.KeyFindings[0], "Fed-ECB policy gap")
	require.Len(t, research.TradingRecommendations, 2)
	assert.Contains(t, research.TradingRecommendations[1], "USD/JPY")
}

func TestConductDeepResearchGatewayFailureFallsBackToMock(t *testing.T) {
	gateway := &stubGateway{err: errors.New("upstream unavailable")}
	svc, _ := newTestService(t, gateway, nil, utc(10, 9, 0))

	research := svc.ConductDeepResearch(context.Background(), "oil price shocks")

	assert.Equal(t, models.SourceMock, research.Source)
	assert.Equal(t, "oil price shocks", research.Topic)
	assert.Contains(t, research.Summary, "oil price shocks")
	assert.NotEmpty(t, research.KeyFindings)
	assert.NotEmpty(t, research.TradingRecommendations)
}

func TestConductDeepResearchNeverCached(t *testing.T) {
	gateway := &stubGateway{result: &interfaces.GenerateResult{Text: researchResponse, Provider: "claude"}}
	svc, _ := newTestService(t, gateway, nil, utc(10, 9, 0))

	svc.ConductDeepResearch(context.Background(), "central bank rate divergence")
	svc.ConductDeepResearch(context.Background(), "central bank rate divergence")

	// Research is request-scoped: every call goes to the gateway.
	assert.Equal(t, 2, gateway.calls)
}

func TestGetDailyRecapCorruptCacheTreatedAsMiss(t *testing.T) {
	gateway := &stubGateway{result: &interfaces.GenerateResult{Text: recapResponse, Provider: "claude"}}
	now := utc(10, 7, 10)
	cache := memory.NewReportCache()
	cache.Corrupt()
	svc := NewService(cache, gateway, nil, nil, arbor.NewLogger(),
		WithClock(func() time.Time { return now }))

	artifact := svc.GetDailyRecap(context.Background())

	assert.Equal(t, 1, gateway.calls)
	assert.Equal(t, models.SourceClaude, artifact.Source)
}
