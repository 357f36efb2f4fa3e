package badger

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/forexai/internal/interfaces"
	"github.com/ternarybob/forexai/internal/models"
)

const recapKey = "recap:daily"

// cacheRecord wraps the JSON-encoded artifact. Keeping the payload as
// raw JSON lets a record written by an older build decode as a miss
// instead of poisoning reads.
type cacheRecord struct {
	Key       string `badgerhold:"key"`
	Payload   []byte
	UpdatedAt time.Time
}

// ReportCacheStorage implements interfaces.ReportCache for Badger.
type ReportCacheStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewReportCacheStorage creates a new ReportCacheStorage instance
func NewReportCacheStorage(db *BadgerDB, logger arbor.ILogger) interfaces.ReportCache {
	return &ReportCacheStorage{
		db:     db,
		logger: logger,
	}
}

func analysisKey(currency string) string {
	return "analysis:" + strings.ToUpper(strings.TrimSpace(currency))
}

// GetRecap returns the cached daily recap, or ErrCacheMiss.
func (s *ReportCacheStorage) GetRecap(ctx context.Context) (*models.ReportArtifact, error) {
	var artifact models.ReportArtifact
	if err := s.get(recapKey, &artifact); err != nil {
		return nil, err
	}
	artifact.Normalize()
	return &artifact, nil
}

// SetRecap stores the daily recap, replacing any previous entry.
func (s *ReportCacheStorage) SetRecap(ctx context.Context, artifact *models.ReportArtifact) error {
	return s.set(recapKey, artifact)
}

// GetAnalysis returns the cached analysis for a currency code, or
// ErrCacheMiss.
func (s *ReportCacheStorage) GetAnalysis(ctx context.Context, currency string) (*models.CurrencyAnalysis, error) {
	var analysis models.CurrencyAnalysis
	if err := s.get(analysisKey(currency), &analysis); err != nil {
		return nil, err
	}
	analysis.Normalize()
	return &analysis, nil
}

// SetAnalysis stores the analysis for a currency code.
func (s *ReportCacheStorage) SetAnalysis(ctx context.Context, currency string, analysis *models.CurrencyAnalysis) error {
	return s.set(analysisKey(currency), analysis)
}

func (s *ReportCacheStorage) get(key string, out interface{}) error {
	var record cacheRecord
	err := s.db.Store().Get(key, &record)
	if err == badgerhold.ErrNotFound {
		return interfaces.ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("failed to read cache record: %w", err)
	}

	if err := json.Unmarshal(record.Payload, out); err != nil {
		// Corrupt entries are misses; the caller regenerates and the
		// next write replaces the bad record.
		s.logger.Warn().Err(err).Str("key", key).Msg("Corrupt cache record, treating as miss")
		return interfaces.ErrCacheMiss
	}

	return nil
}

func (s *ReportCacheStorage) set(key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache record: %w", err)
	}

	record := cacheRecord{
		Key:       key,
		Payload:   payload,
		UpdatedAt: time.Now().UTC(),
	}

	if err := s.db.Store().Upsert(key, &record); err != nil {
		return fmt.Errorf("failed to write cache record: %w", err)
	}

	s.logger.Debug().Str("key", key).Int("bytes", len(payload)).Msg("Cache record written")
	return nil
}
