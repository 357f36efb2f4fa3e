package textproc

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ternarybob/forexai/internal/models"
)

// Per-field length caps, applied after normalization.
const (
	maxTitle          = 80
	maxDescription    = 200
	maxFactor         = 120
	maxSummary        = 400
	maxTrend          = 150
	maxRecommendation = 200
	maxSentiment      = 60
	maxForecast       = 300

	// minParagraph discards trivial fragments during paragraph-split
	// fallback extraction.
	minParagraph = 40

	// maxKeyPoints bounds recap key points.
	maxKeyPoints = 3

	// keyFactorCount is the fixed number of analysis key factors.
	keyFactorCount = 4

	// maxResearchItems bounds research findings and recommendations.
	maxResearchItems = 4

	// defaultFundamentalScore substitutes for an unparseable score.
	defaultFundamentalScore = 70
)

// ParsedReport holds the semantic fields extracted from a daily recap
// response.
type ParsedReport struct {
	Summary        string
	KeyPoints      []models.KeyPoint
	Sentiment      string
	MainTrend      string
	Recommendation string
	Confidence     int
}

// ParsedResearch holds the semantic fields extracted from a deep
// research response.
type ParsedResearch struct {
	Summary                string
	KeyFindings            []string
	TradingRecommendations []string
	Confidence             int
}

// ParsedAnalysis holds the semantic fields extracted from a currency
// analysis response.
type ParsedAnalysis struct {
	FundamentalScore int
	TechnicalScore   *int
	Sentiment        string
	KeyFactors       []string
	Forecast         string
	Rating           models.Rating
	Confidence       int
}

// The fixed label contract the prompts request. Extraction captures
// the text between one label and the next recognized label (or end of
// text), case-insensitive, tolerant of missing labels.
var (
	pairLabels = []string{"EUR/USD", "GBP/USD", "USD/JPY", "USD/CHF", "AUD/USD", "USD/CAD"}

	reportLabels = append(append([]string{"Macroeconomic Context"}, pairLabels...),
		"Sentiment", "Main Trend", "Recommendation", "Confidence")

	factorLabels = []string{"Monetary Policy", "Economic Indicators", "Political Stability", "Trade Balance"}

	analysisLabels = append(append([]string{}, factorLabels...),
		"Sentiment", "Fundamental Score", "Technical Score", "Forecast", "Rating", "Confidence")

	researchLabels = []string{"Summary", "Key Findings", "Trading Recommendations", "Confidence"}
)

// GenericFactors substitute for missing extracted content so
// downstream renderers never branch on absence.
var GenericFactors = []string{
	"Central bank policy direction",
	"Inflation trajectory",
	"Economic growth momentum",
	"Global risk sentiment",
}

var (
	ratingRe     = regexp.MustCompile(`(?i)\b(BUY|SELL|HOLD)\b`)
	percentRe    = regexp.MustCompile(`(\d{1,3})\s*(?:%|percent|pour cent)`)
	bareNumberRe = regexp.MustCompile(`\d{1,3}`)
)

type sectionMark struct {
	label string
	start int
	end   int
}

// captureSections locates every known label in the text and returns
// the content between each label and the next one found.
func captureSections(text string, labels []string) map[string]string {
	var marks []sectionMark
	for _, label := range labels {
		re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(label) + `\s*:`)
		if loc := re.FindStringIndex(text); loc != nil {
			marks = append(marks, sectionMark{label: label, start: loc[0], end: loc[1]})
		}
	}

	sort.Slice(marks, func(i, j int) bool { return marks[i].start < marks[j].start })

	sections := make(map[string]string, len(marks))
	for i, m := range marks {
		end := len(text)
		if i+1 < len(marks) {
			end = marks[i+1].start
		}
		content := strings.TrimSpace(text[m.end:end])
		if content != "" {
			sections[m.label] = content
		}
	}

	return sections
}

// ExtractReport parses normalized recap text via an ordered list of
// extraction strategies: labeled sections, paragraph splitting, then a
// static placeholder. It never fails and always returns a structurally
// valid result.
func ExtractReport(text string) ParsedReport {
	strategies := []func(string) (*ParsedReport, bool){
		labeledReport,
		paragraphReport,
	}

	for _, strategy := range strategies {
		if report, ok := strategy(text); ok {
			return *report
		}
	}
	return placeholderReport()
}

func labeledReport(text string) (*ParsedReport, bool) {
	sections := captureSections(text, reportLabels)
	if len(sections) == 0 {
		return nil, false
	}

	report := &ParsedReport{
		Summary:    Truncate(sections["Macroeconomic Context"], maxSummary),
		KeyPoints:  []models.KeyPoint{},
		Sentiment:  Truncate(sections["Sentiment"], maxSentiment),
		MainTrend:  Truncate(sections["Main Trend"], maxTrend),
		Confidence: extractConfidence(sections["Confidence"], sections["Recommendation"]),
	}

	if rec := sections["Recommendation"]; rec != "" {
		report.Recommendation = Truncate(rec, maxRecommendation)
	}

	for _, pair := range pairLabels {
		content, ok := sections[pair]
		if !ok {
			continue
		}
		report.KeyPoints = append(report.KeyPoints, models.KeyPoint{
			Title:       Truncate(pair, maxTitle),
			Impact:      DetectImpact(content),
			Description: Truncate(content, maxDescription),
		})
		if len(report.KeyPoints) == maxKeyPoints {
			break
		}
	}

	if report.Summary == "" {
		report.Summary = Truncate(text, maxSummary)
	}

	return report, true
}

func paragraphReport(text string) (*ParsedReport, bool) {
	paragraphs := splitParagraphs(text)
	if len(paragraphs) == 0 {
		return nil, false
	}

	report := &ParsedReport{
		Summary:    Truncate(paragraphs[0], maxSummary),
		KeyPoints:  []models.KeyPoint{},
		Sentiment:  "Mixed",
		MainTrend:  "No dominant trend identified",
		Confidence: models.DefaultConfidence,
	}

	for i, paragraph := range paragraphs[1:] {
		if i == maxKeyPoints {
			break
		}
		report.KeyPoints = append(report.KeyPoints, models.KeyPoint{
			Title:       "Market development " + strconv.Itoa(i+1),
			Impact:      DetectImpact(paragraph),
			Description: Truncate(paragraph, maxDescription),
		})
	}

	return report, true
}

func placeholderReport() ParsedReport {
	return ParsedReport{
		Summary:        "Market commentary is temporarily unavailable. The next scheduled report will include a full recap of major currency pairs.",
		KeyPoints:      []models.KeyPoint{},
		Sentiment:      "Neutral",
		MainTrend:      "Awaiting fresh market data",
		Recommendation: "Monitor upcoming central bank announcements before positioning",
		Confidence:     models.DefaultConfidence,
	}
}

// ExtractDeepResearch parses normalized research text via the same
// strategy chain as ExtractReport. Findings and recommendations come
// back one per line of their sections, never nil.
func ExtractDeepResearch(text string) ParsedResearch {
	strategies := []func(string) (*ParsedResearch, bool){
		labeledResearch,
		paragraphResearch,
	}

	for _, strategy := range strategies {
		if research, ok := strategy(text); ok {
			return *research
		}
	}
	return placeholderResearch()
}

func labeledResearch(text string) (*ParsedResearch, bool) {
	sections := captureSections(text, researchLabels)
	if len(sections) == 0 {
		return nil, false
	}

	research := &ParsedResearch{
		Summary:                Truncate(sections["Summary"], maxSummary),
		KeyFindings:            splitItems(sections["Key Findings"], maxResearchItems),
		TradingRecommendations: splitItems(sections["Trading Recommendations"], maxResearchItems),
		Confidence:             extractConfidence(sections["Confidence"], sections["Summary"]),
	}

	if research.Summary == "" {
		research.Summary = Truncate(text, maxSummary)
	}

	return research, true
}

func paragraphResearch(text string) (*ParsedResearch, bool) {
	paragraphs := splitParagraphs(text)
	if len(paragraphs) == 0 {
		return nil, false
	}

	research := &ParsedResearch{
		Summary:                Truncate(paragraphs[0], maxSummary),
		KeyFindings:            []string{},
		TradingRecommendations: []string{},
		Confidence:             extractConfidence("", text),
	}

	for i, paragraph := range paragraphs[1:] {
		if i == maxResearchItems {
			break
		}
		research.KeyFindings = append(research.KeyFindings, Truncate(paragraph, maxFactor))
	}

	return research, true
}

func placeholderResearch() ParsedResearch {
	return ParsedResearch{
		Summary:                "Research is temporarily unavailable. The topic will be reassessed with the next data refresh.",
		KeyFindings:            []string{},
		TradingRecommendations: []string{},
		Confidence:             models.DefaultConfidence,
	}
}

// splitItems turns a section into one entry per line, capped.
func splitItems(section string, max int) []string {
	items := []string{}
	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		items = append(items, Truncate(line, maxFactor))
		if len(items) == max {
			break
		}
	}
	return items
}

// ExtractCurrencyAnalysis parses normalized analysis text via the same
// three-tier strategy chain as ExtractReport. KeyFactors always comes
// back with exactly four entries.
func ExtractCurrencyAnalysis(text string) ParsedAnalysis {
	strategies := []func(string) (*ParsedAnalysis, bool){
		labeledAnalysis,
		paragraphAnalysis,
	}

	for _, strategy := range strategies {
		if analysis, ok := strategy(text); ok {
			padFactors(analysis)
			return *analysis
		}
	}

	analysis := placeholderAnalysis()
	padFactors(&analysis)
	return analysis
}

func labeledAnalysis(text string) (*ParsedAnalysis, bool) {
	sections := captureSections(text, analysisLabels)
	if len(sections) == 0 {
		return nil, false
	}

	analysis := &ParsedAnalysis{
		FundamentalScore: extractScore(sections["Fundamental Score"], defaultFundamentalScore),
		Sentiment:        Truncate(sections["Sentiment"], maxSentiment),
		KeyFactors:       []string{},
		Forecast:         Truncate(sections["Forecast"], maxForecast),
		Rating:           extractRating(sections["Rating"], sections["Forecast"]),
		Confidence:       extractConfidence(sections["Confidence"], sections["Rating"]),
	}

	// Technical analysis is excluded by some backends by design, so the
	// score stays nil rather than defaulting.
	if technical, ok := sections["Technical Score"]; ok {
		score := extractScore(technical, defaultFundamentalScore)
		analysis.TechnicalScore = &score
	}

	for _, label := range factorLabels {
		if content, ok := sections[label]; ok {
			analysis.KeyFactors = append(analysis.KeyFactors, Truncate(content, maxFactor))
		}
	}

	return analysis, true
}

func paragraphAnalysis(text string) (*ParsedAnalysis, bool) {
	paragraphs := splitParagraphs(text)
	if len(paragraphs) == 0 {
		return nil, false
	}

	analysis := &ParsedAnalysis{
		FundamentalScore: defaultFundamentalScore,
		Sentiment:        "Mixed",
		KeyFactors:       []string{},
		Forecast:         Truncate(paragraphs[0], maxForecast),
		Rating:           extractRating(text),
		Confidence:       extractConfidence("", text),
	}

	for i, paragraph := range paragraphs {
		if i == keyFactorCount {
			break
		}
		analysis.KeyFactors = append(analysis.KeyFactors, Truncate(paragraph, maxFactor))
	}

	return analysis, true
}

func placeholderAnalysis() ParsedAnalysis {
	return ParsedAnalysis{
		FundamentalScore: defaultFundamentalScore,
		Sentiment:        "Neutral",
		KeyFactors:       []string{},
		Forecast:         "Analysis is temporarily unavailable. Fundamentals will be reassessed with the next data refresh.",
		Rating:           models.RatingHold,
		Confidence:       models.DefaultConfidence,
	}
}

// padFactors fills KeyFactors up to the fixed count with generic
// fallback strings.
func padFactors(analysis *ParsedAnalysis) {
	for i := 0; len(analysis.KeyFactors) < keyFactorCount; i++ {
		candidate := GenericFactors[i%len(GenericFactors)]
		if !contains(analysis.KeyFactors, candidate) {
			analysis.KeyFactors = append(analysis.KeyFactors, candidate)
		}
	}
	analysis.KeyFactors = analysis.KeyFactors[:keyFactorCount]
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func splitParagraphs(text string) []string {
	var paragraphs []string
	for _, p := range strings.Split(text, "\n\n") {
		p = strings.TrimSpace(p)
		if len(p) >= minParagraph {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// extractRating matches the closed rating set against the given
// sections in order, defaulting to HOLD.
func extractRating(sections ...string) models.Rating {
	for _, section := range sections {
		if match := ratingRe.FindString(section); match != "" {
			return models.ParseRating(strings.ToUpper(match))
		}
	}
	return models.RatingHold
}

// extractConfidence finds a percentage in the dedicated confidence
// section or adjacent to the rating, clamped to [0,100], defaulting
// to 75. Only the dedicated section may carry a bare number without a
// unit; elsewhere that would match unrelated figures.
func extractConfidence(dedicated, adjacent string) int {
	for _, section := range []string{dedicated, adjacent} {
		if match := percentRe.FindStringSubmatch(section); match != nil {
			value, err := strconv.Atoi(match[1])
			if err == nil {
				return models.ClampScore(value)
			}
		}
	}
	if match := bareNumberRe.FindString(dedicated); match != "" {
		if value, err := strconv.Atoi(match); err == nil {
			return models.ClampScore(value)
		}
	}
	return models.DefaultConfidence
}

// extractScore reads the first integer out of a score section, clamped
// to [0,100]. Handles "78", "78/100", and "78 out of 100".
func extractScore(section string, fallback int) int {
	if match := bareNumberRe.FindString(section); match != "" {
		if value, err := strconv.Atoi(match); err == nil {
			return models.ClampScore(value)
		}
	}
	return fallback
}
