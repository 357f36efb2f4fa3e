package reports

import (
	"time"

	"github.com/ternarybob/forexai/internal/models"
)

// Deterministic placeholder content, substituted whenever live
// generation is unavailable or fails, and shown before the first
// scheduled generation of a new day.

var mockKeyPoints = []models.KeyPoint{
	{
		Title:       "ECB holds policy rates",
		Impact:      models.ImpactPositive,
		Description: "The European Central Bank kept its key rate at 4.25%, in line with market expectations.",
	},
	{
		Title:       "US dollar under pressure",
		Impact:      models.ImpactNegative,
		Description: "The DXY slips 0.3% amid uncertainty over the Fed's next policy move.",
	},
	{
		Title:       "Sterling extends gains",
		Impact:      models.ImpactPositive,
		Description: "GBP/USD adds 0.45% on the back of favorable UK inflation data.",
	},
}

// MockRecap returns the placeholder daily recap.
func MockRecap(now time.Time) *models.ReportArtifact {
	artifact := models.NewReportArtifact(now)
	artifact.Summary = "Forex markets are showing heightened volatility following the latest ECB statements " +
		"on euro-area inflation. EUR/USD holds a moderately bullish bias."
	artifact.KeyPoints = append(artifact.KeyPoints, mockKeyPoints...)
	artifact.AIInsights = models.AIInsights{
		Sentiment:      "Cautiously optimistic",
		Confidence:     78,
		MainTrend:      "Broad US dollar softness against European currencies",
		Recommendation: "Watch Wednesday's Fed announcements for trend confirmation",
	}
	artifact.Source = models.SourceMock
	return artifact
}

type mockAnalysis struct {
	fundamentalScore int
	technicalScore   int
	sentiment        string
	keyFactors       []string
	forecast         string
	rating           models.Rating
	confidence       int
}

var mockAnalysisData = map[string]mockAnalysis{
	"EUR": {
		fundamentalScore: 78,
		technicalScore:   65,
		sentiment:        "Moderately bullish",
		keyFactors: []string{
			"Balanced ECB monetary policy",
			"Euro-area inflation cooling toward target",
			"Solid current account surplus",
			"Improving growth momentum",
		},
		forecast: "The euro should hold its upward trajectory against the US dollar, supported by a " +
			"balanced ECB policy stance and solid economic fundamentals.",
		rating:     models.RatingBuy,
		confidence: 76,
	},
	"USD": {
		fundamentalScore: 72,
		technicalScore:   58,
		sentiment:        "Slightly bearish",
		keyFactors: []string{
			"Fed policy path uncertainty",
			"Sticky core inflation",
			"Resilient labor market",
			"Widening fiscal deficit",
		},
		forecast: "The US dollar faces short-term headwinds but remains underpinned by solid long-term " +
			"economic fundamentals.",
		rating:     models.RatingHold,
		confidence: 68,
	},
	"GBP": {
		fundamentalScore: 71,
		technicalScore:   73,
		sentiment:        "Bullish",
		keyFactors: []string{
			"Firm Bank of England policy stance",
			"UK inflation surprising to the downside",
			"Improving post-Brexit trade relations",
			"Stable political backdrop",
		},
		forecast: "Sterling benefits from a firm Bank of England stance and an improving trade " +
			"relationship with its main partners.",
		rating:     models.RatingBuy,
		confidence: 73,
	},
}

// MockResearch returns the placeholder deep research report for a
// topic.
func MockResearch(topic string, now time.Time) *models.DeepResearch {
	return &models.DeepResearch{
		Topic:   topic,
		Summary: "In-depth research on " + topic + " and its impact on forex markets.",
		KeyFindings: []string{
			"Significant historical impact on currency volatility",
			"Strong correlations with central bank policy",
			"Implications for medium-term trading strategies",
		},
		TradingRecommendations: []string{
			"Watch key support and resistance levels",
			"Apply strict risk management",
			"Consider hedges on long positions",
		},
		Confidence: 82,
		Timestamp:  now.UTC(),
		Source:     models.SourceMock,
	}
}

// MockAnalysis returns the placeholder analysis for a currency code,
// falling back to the USD entry for unknown codes.
func MockAnalysis(currency string, now time.Time) *models.CurrencyAnalysis {
	data, ok := mockAnalysisData[currency]
	if !ok {
		data = mockAnalysisData["USD"]
	}

	technical := data.technicalScore
	return &models.CurrencyAnalysis{
		Currency:         currency,
		FundamentalScore: data.fundamentalScore,
		TechnicalScore:   &technical,
		Sentiment:        data.sentiment,
		KeyFactors:       append([]string{}, data.keyFactors...),
		Forecast:         data.forecast,
		AIRating:         data.rating,
		Confidence:       data.confidence,
		Timestamp:        now.UTC(),
		Source:           models.SourceMock,
	}
}
