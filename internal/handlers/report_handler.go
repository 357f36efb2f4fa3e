package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/forexai/internal/interfaces"
)

// ReportHandler serves the daily recap and currency analysis
// endpoints. Both delegate to the report service, which is total, so
// these handlers always answer 200 with a well-formed artifact.
type ReportHandler struct {
	reports interfaces.ReportService
	logger  arbor.ILogger
}

func NewReportHandler(reports interfaces.ReportService, logger arbor.ILogger) *ReportHandler {
	return &ReportHandler{
		reports: reports,
		logger:  logger,
	}
}

// GetRecapHandler handles GET /api/recap
func (h *ReportHandler) GetRecapHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	artifact := h.reports.GetDailyRecap(r.Context())
	WriteJSON(w, http.StatusOK, artifact)
}

// GetAnalysisHandler handles GET /api/analysis/{code}. An unknown
// currency code still answers with default content rather than an
// error, so the consumer UI never renders an empty panel.
func (h *ReportHandler) GetAnalysisHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	code := strings.TrimPrefix(r.URL.Path, "/api/analysis/")
	code = strings.Trim(code, "/")
	if code == "" || strings.Contains(code, "/") {
		WriteError(w, http.StatusBadRequest, "currency code required, e.g. /api/analysis/EUR")
		return
	}

	analysis := h.reports.GetCurrencyAnalysis(r.Context(), code)
	WriteJSON(w, http.StatusOK, analysis)
}

// GetResearchHandler handles GET /api/research/{topic}. The topic is
// the URL-decoded remainder of the path.
func (h *ReportHandler) GetResearchHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	topic := strings.TrimPrefix(r.URL.Path, "/api/research/")
	topic = strings.Trim(topic, "/")
	if decoded, err := url.PathUnescape(topic); err == nil {
		topic = decoded
	}
	if strings.TrimSpace(topic) == "" {
		WriteError(w, http.StatusBadRequest, "research topic required, e.g. /api/research/ECB%20rate%20policy")
		return
	}

	research := h.reports.ConductDeepResearch(r.Context(), topic)
	WriteJSON(w, http.StatusOK, research)
}
