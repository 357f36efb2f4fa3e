// Package memory provides an in-memory ReportCache used by tests and
// by deployments that run without a persistence directory.
package memory

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/ternarybob/forexai/internal/interfaces"
	"github.com/ternarybob/forexai/internal/models"
)

const recapKey = "recap:daily"

// ReportCache is a map-backed ReportCache. Values round-trip through
// JSON so callers can never mutate a cached entry in place, matching
// the persistent implementation.
type ReportCache struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewReportCache creates an empty in-memory cache.
func NewReportCache() *ReportCache {
	return &ReportCache{
		entries: make(map[string][]byte),
	}
}

func analysisKey(currency string) string {
	return "analysis:" + strings.ToUpper(strings.TrimSpace(currency))
}

// GetRecap returns the cached daily recap, or ErrCacheMiss.
func (c *ReportCache) GetRecap(ctx context.Context) (*models.ReportArtifact, error) {
	var artifact models.ReportArtifact
	if err := c.get(recapKey, &artifact); err != nil {
		return nil, err
	}
	artifact.Normalize()
	return &artifact, nil
}

// SetRecap stores the daily recap, replacing any previous entry.
func (c *ReportCache) SetRecap(ctx context.Context, artifact *models.ReportArtifact) error {
	return c.set(recapKey, artifact)
}

// GetAnalysis returns the cached analysis for a currency code, or
// ErrCacheMiss.
func (c *ReportCache) GetAnalysis(ctx context.Context, currency string) (*models.CurrencyAnalysis, error) {
	var analysis models.CurrencyAnalysis
	if err := c.get(analysisKey(currency), &analysis); err != nil {
		return nil, err
	}
	analysis.Normalize()
	return &analysis, nil
}

// SetAnalysis stores the analysis for a currency code.
func (c *ReportCache) SetAnalysis(ctx context.Context, currency string, analysis *models.CurrencyAnalysis) error {
	return c.set(analysisKey(currency), analysis)
}

// Corrupt injects a malformed payload under the recap key, for tests.
func (c *ReportCache) Corrupt() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[recapKey] = []byte("{not json")
}

func (c *ReportCache) get(key string, out interface{}) error {
	c.mu.RLock()
	payload, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return interfaces.ErrCacheMiss
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return interfaces.ErrCacheMiss
	}
	return nil
}

func (c *ReportCache) set(key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.entries[key] = payload
	c.mu.Unlock()
	return nil
}
