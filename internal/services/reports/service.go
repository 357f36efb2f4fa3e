package reports

import (
	"context"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/forexai/internal/fred"
	"github.com/ternarybob/forexai/internal/interfaces"
	"github.com/ternarybob/forexai/internal/models"
	"github.com/ternarybob/forexai/internal/services/textproc"
)

// AnalysisTTL is how long a cached currency analysis stays valid.
const AnalysisTTL = 4 * time.Hour

// Service implements interfaces.ReportService: it schedules, caches,
// generates, and degrades. Its operations never return an error to the
// caller; every failure path ends at the mock generator.
type Service struct {
	cache      interfaces.ReportCache
	gateway    interfaces.TextGenerator
	indicators interfaces.IndicatorSource
	events     interfaces.EventService
	logger     arbor.ILogger

	now         func() time.Time
	analysisTTL time.Duration
}

// Option configures the Service.
type Option func(*Service)

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithAnalysisTTL overrides the analysis cache validity period.
func WithAnalysisTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.analysisTTL = ttl
	}
}

// NewService creates the report service. The indicator source and
// event service may be nil; generation then proceeds without economic
// data and without event publication.
func NewService(
	cache interfaces.ReportCache,
	gateway interfaces.TextGenerator,
	indicators interfaces.IndicatorSource,
	events interfaces.EventService,
	logger arbor.ILogger,
	opts ...Option,
) *Service {
	s := &Service{
		cache:       cache,
		gateway:     gateway,
		indicators:  indicators,
		events:      events,
		logger:      logger,
		now:         time.Now,
		analysisTTL: AnalysisTTL,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// GetDailyRecap returns the current daily recap per the scheduling
// decision table. Total: never returns an error.
func (s *Service) GetDailyRecap(ctx context.Context) *models.ReportArtifact {
	now := s.now().UTC()

	var last *Generation
	cached, err := s.cache.GetRecap(ctx)
	if err == nil {
		cached.Normalize()
		last = &Generation{At: cached.Timestamp}
	} else if err != interfaces.ErrCacheMiss {
		s.logger.Warn().Err(err).Msg("Recap cache read failed, treating as miss")
	}

	switch Decide(now, last) {
	case UseCache:
		return cached

	case UseStale:
		stale := *cached
		stale.Source = cached.Source.Cached()
		stale.NextGeneration = FormatNextWindow(now)
		return &stale

	case UsePlaceholder:
		placeholder := MockRecap(now)
		placeholder.NextGeneration = FormatNextWindow(now)
		return placeholder

	default: // Generate
		artifact := s.generateRecap(ctx, now)
		if err := s.cache.SetRecap(ctx, artifact); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to cache daily recap")
		}
		s.publish(ctx, interfaces.EventReportGenerated, artifact)
		return artifact
	}
}

// generateRecap runs the full pipeline: indicators -> prompt ->
// gateway -> normalize -> extract -> artifact. Any failure degrades to
// the mock generator.
func (s *Service) generateRecap(ctx context.Context, now time.Time) *models.ReportArtifact {
	economicData := s.fetchIndicators(ctx, fred.RecapIndicators)

	result, err := s.gateway.GenerateText(ctx, BuildDailyRecapPrompt(economicData))
	if err != nil {
		s.logger.Warn().Err(err).Msg("Recap generation failed, serving mock content")
		fallback := MockRecap(now)
		fallback.Session = SlotAt(now).Session()
		fallback.EconomicData = economicData
		fallback.NextGeneration = FormatNextWindow(now)
		return fallback
	}

	parsed := textproc.ExtractReport(textproc.Normalize(result.Text))

	artifact := models.NewReportArtifact(now)
	artifact.Session = SlotAt(now).Session()
	artifact.Summary = parsed.Summary
	artifact.KeyPoints = parsed.KeyPoints
	artifact.AIInsights = models.AIInsights{
		Sentiment:      parsed.Sentiment,
		Confidence:     parsed.Confidence,
		MainTrend:      parsed.MainTrend,
		Recommendation: parsed.Recommendation,
	}
	artifact.EconomicData = economicData
	artifact.RawReport = result.Text
	artifact.Source = models.Source(result.Provider)
	artifact.NextGeneration = FormatNextWindow(now)

	s.logger.Info().
		Str("session", artifact.Session).
		Str("source", string(artifact.Source)).
		Int("key_points", len(artifact.KeyPoints)).
		Msg("Daily recap generated")

	return artifact
}

// GetCurrencyAnalysis returns the analysis for a currency code,
// regenerating when the cached entry is older than the validity
// period. Total: never returns an error.
func (s *Service) GetCurrencyAnalysis(ctx context.Context, currency string) *models.CurrencyAnalysis {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	now := s.now().UTC()

	cached, err := s.cache.GetAnalysis(ctx, currency)
	if err == nil && now.Sub(cached.Timestamp) < s.analysisTTL {
		cached.Normalize()
		return cached
	}
	if err != nil && err != interfaces.ErrCacheMiss {
		s.logger.Warn().Err(err).Str("currency", currency).Msg("Analysis cache read failed, treating as miss")
	}

	analysis := s.generateAnalysis(ctx, currency, now)
	if err := s.cache.SetAnalysis(ctx, currency, analysis); err != nil {
		s.logger.Warn().Err(err).Str("currency", currency).Msg("Failed to cache currency analysis")
	}
	s.publish(ctx, interfaces.EventAnalysisGenerated, analysis)

	return analysis
}

func (s *Service) generateAnalysis(ctx context.Context, currency string, now time.Time) *models.CurrencyAnalysis {
	indicators := s.fetchIndicators(ctx, fred.CurrencyIndicators[currency])

	result, err := s.gateway.GenerateText(ctx, BuildCurrencyAnalysisPrompt(currency, indicators))
	if err != nil {
		s.logger.Warn().Err(err).Str("currency", currency).Msg("Analysis generation failed, serving mock content")
		return MockAnalysis(currency, now)
	}

	parsed := textproc.ExtractCurrencyAnalysis(textproc.Normalize(result.Text))

	analysis := &models.CurrencyAnalysis{
		Currency:         currency,
		FundamentalScore: parsed.FundamentalScore,
		TechnicalScore:   parsed.TechnicalScore,
		Sentiment:        parsed.Sentiment,
		KeyFactors:       parsed.KeyFactors,
		Forecast:         parsed.Forecast,
		AIRating:         parsed.Rating,
		Confidence:       parsed.Confidence,
		Timestamp:        now,
		Source:           models.Source(result.Provider),
		RawAnalysis:      result.Text,
	}

	s.logger.Info().
		Str("currency", currency).
		Str("rating", string(analysis.AIRating)).
		Int("confidence", analysis.Confidence).
		Msg("Currency analysis generated")

	return analysis
}

// ConductDeepResearch generates an on-demand research report for a
// market topic. Research has no schedule or cache: every call hits the
// gateway, and failures degrade to the mock report. Total: never
// returns an error.
func (s *Service) ConductDeepResearch(ctx context.Context, topic string) *models.DeepResearch {
	topic = strings.TrimSpace(topic)
	now := s.now().UTC()

	result, err := s.gateway.GenerateText(ctx, BuildDeepResearchPrompt(topic))
	if err != nil {
		s.logger.Warn().Err(err).Str("topic", topic).Msg("Deep research failed, serving mock content")
		return MockResearch(topic, now)
	}

	parsed := textproc.ExtractDeepResearch(textproc.Normalize(result.Text))

	research := &models.DeepResearch{
		Topic:                  topic,
		Summary:                parsed.Summary,
		KeyFindings:            parsed.KeyFindings,
		TradingRecommendations: parsed.TradingRecommendations,
		Confidence:             parsed.Confidence,
		Timestamp:              now,
		Source:                 models.Source(result.Provider),
		RawResearch:            result.Text,
	}

	s.logger.Info().
		Str("topic", topic).
		Int("key_findings", len(research.KeyFindings)).
		Msg("Deep research completed")

	return research
}

// fetchIndicators fans out per series. Failures are isolated: the
// result holds only the series that succeeded, and a completely failed
// fan-out yields an empty (non-nil) map.
func (s *Service) fetchIndicators(ctx context.Context, seriesIDs []string) map[string]models.IndicatorObservation {
	data := map[string]models.IndicatorObservation{}
	if s.indicators == nil {
		return data
	}

	for _, seriesID := range seriesIDs {
		obs, err := s.indicators.LatestObservation(ctx, seriesID)
		if err != nil {
			s.logger.Warn().Err(err).Str("series_id", seriesID).Msg("Indicator fetch failed, continuing")
			continue
		}
		if obs == nil {
			continue
		}
		data[seriesID] = *obs
	}

	return data
}

func (s *Service) publish(ctx context.Context, eventType interfaces.EventType, payload interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, interfaces.Event{Type: eventType, Payload: payload}); err != nil {
		s.logger.Warn().Err(err).Str("event_type", string(eventType)).Msg("Event publish failed")
	}
}
