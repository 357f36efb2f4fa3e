package reports

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ternarybob/forexai/internal/models"
)

// The prompts pin the exact labeled-section contract the extractor
// parses. One fixed contract; the model is told to keep every label on
// its own line.

const dailyRecapPromptHeader = `Analyze today's forex market movements focusing on major currency pairs.
Respond using exactly these labeled sections, each label on its own line:
Macroeconomic Context: (key economic events and central bank policy implications)
EUR/USD: GBP/USD: USD/JPY: (one short paragraph per pair, covering only pairs with notable moves)
Sentiment: (one short phrase)
Main Trend: (one sentence)
Recommendation: (one actionable sentence)
Confidence: (a percentage)
Keep the analysis concise and actionable for forex traders.`

const currencyAnalysisPromptHeader = `Provide a comprehensive fundamental analysis for %s.
Respond using exactly these labeled sections, each label on its own line:
Monetary Policy: Economic Indicators: Political Stability: Trade Balance: (one short paragraph each)
Sentiment: (one short phrase)
Fundamental Score: (an integer from 0 to 100)
Forecast: (a short outlook paragraph)
Rating: (exactly one of BUY, SELL, HOLD)
Confidence: (a percentage)
Be specific about key support and resistance levels in the forecast.`

const deepResearchPromptHeader = `Conduct deep research on %s and its impact on forex markets.
Analyze historical correlations, current market dynamics, and provide forward-looking insights.
Respond using exactly these labeled sections, each label on its own line:
Summary: (a short overview paragraph)
Key Findings: (up to four findings, one per line)
Trading Recommendations: (up to four specific recommendations for major currency pairs, one per line)
Confidence: (a percentage)`

// BuildDeepResearchPrompt embeds the research topic in the prompt.
func BuildDeepResearchPrompt(topic string) string {
	return fmt.Sprintf(deepResearchPromptHeader, topic)
}

// BuildDailyRecapPrompt embeds the fetched indicator values in the
// recap prompt.
func BuildDailyRecapPrompt(economicData map[string]models.IndicatorObservation) string {
	var b strings.Builder
	b.WriteString(dailyRecapPromptHeader)
	b.WriteString("\n\nRecent economic data:\n")
	b.WriteString(renderIndicators(economicData))
	b.WriteString("\nAnalyze this data and provide a complete daily forex market recap.")
	return b.String()
}

// BuildCurrencyAnalysisPrompt embeds the currency's indicator values in
// the analysis prompt.
func BuildCurrencyAnalysisPrompt(currency string, indicators map[string]models.IndicatorObservation) string {
	var b strings.Builder
	fmt.Fprintf(&b, currencyAnalysisPromptHeader, currency)
	fmt.Fprintf(&b, "\n\nEconomic indicators for %s:\n", currency)
	b.WriteString(renderIndicators(indicators))
	b.WriteString("\nProvide a complete fundamental analysis of this currency.")
	return b.String()
}

func renderIndicators(indicators map[string]models.IndicatorObservation) string {
	if len(indicators) == 0 {
		return "(no indicator data available)\n"
	}
	data, err := json.MarshalIndent(indicators, "", "  ")
	if err != nil {
		return "(no indicator data available)\n"
	}
	return string(data) + "\n"
}
