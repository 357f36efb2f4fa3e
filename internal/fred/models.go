// Package fred provides a client for the FRED (Federal Reserve Economic
// Data) API. This package centralizes all economic-indicator fetches for
// the application.
package fred

import "fmt"

// MissingValue is the sentinel FRED returns for observations that have
// no published value yet.
const MissingValue = "."

// Observation is a single (date, value) pair from a FRED series.
type Observation struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

// observationsResponse is the wire format of /fred/series/observations.
type observationsResponse struct {
	Count        int           `json:"count"`
	Observations []Observation `json:"observations"`
}

// APIError represents an error from the FRED API.
type APIError struct {
	StatusCode int
	Message    string
	SeriesID   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("FRED API error: %s (status: %d, series: %s)", e.Message, e.StatusCode, e.SeriesID)
}

// Indicator series watched for the daily recap, grouped by economy.
var RecapIndicators = []string{
	"FEDFUNDS", "CPIAUCSL", "UNRATE", // US
	"ECBREFI", "EA19CPHAINMEI", // Euro area
	"JPNINTDSGDPM193N", "GBRCPIALLMINMEI", // Japan, UK
}

// CurrencyIndicators maps a currency code to the indicator series that
// inform its fundamental analysis.
var CurrencyIndicators = map[string][]string{
	"USD": {"FEDFUNDS", "CPIAUCSL", "UNRATE", "GDP"},
	"EUR": {"ECBREFI", "EA19CPHAINMEI"},
	"GBP": {"INTDSRUKM193N", "GBRCPIALLMINMEI"},
	"JPY": {"JPNINTDSGDPM193N", "JPNCPIALLMINMEI"},
	"CAD": {"INTDSRCAM193N", "CANCPIALLMINMEI"},
	"AUD": {"INTDSRAUQ193N", "AUSCPIALLQINMEI"},
	"CHF": {"INTDSRCHM193N"},
}
