package badger

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/forexai/internal/interfaces"
	"github.com/ternarybob/forexai/internal/models"
)

func newTestCache(t *testing.T) interfaces.ReportCache {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "badger-test")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	options := badgerhold.DefaultOptions
	options.Dir = tmpDir
	options.ValueDir = tmpDir
	options.Logger = nil

	store, err := badgerhold.Open(options)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	db := &BadgerDB{store: store}
	return NewReportCacheStorage(db, arbor.NewLogger())
}

func TestRecapRoundTrip(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	if _, err := cache.GetRecap(ctx); err != interfaces.ErrCacheMiss {
		t.Fatalf("expected cache miss on empty store, got %v", err)
	}

	artifact := models.NewReportArtifact(time.Date(2026, 3, 10, 7, 5, 0, 0, time.UTC))
	artifact.Session = "European Open"
	artifact.Summary = "The dollar consolidated"
	artifact.Source = models.SourceClaude
	artifact.KeyPoints = append(artifact.KeyPoints, models.KeyPoint{
		Title:       "EUR/USD",
		Impact:      models.ImpactPositive,
		Description: "Euro gains on data",
	})

	if err := cache.SetRecap(ctx, artifact); err != nil {
		t.Fatalf("failed to store recap: %v", err)
	}

	got, err := cache.GetRecap(ctx)
	if err != nil {
		t.Fatalf("failed to read recap: %v", err)
	}

	if got.ID != artifact.ID {
		t.Errorf("ID mismatch: got %s, want %s", got.ID, artifact.ID)
	}
	if got.Summary != artifact.Summary {
		t.Errorf("Summary mismatch: got %q", got.Summary)
	}
	if len(got.KeyPoints) != 1 || got.KeyPoints[0].Title != "EUR/USD" {
		t.Errorf("KeyPoints did not survive the round trip: %+v", got.KeyPoints)
	}
	if !got.Timestamp.Equal(artifact.Timestamp) {
		t.Errorf("Timestamp mismatch: got %v, want %v", got.Timestamp, artifact.Timestamp)
	}
}

func TestRecapOverwrite(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	first := models.NewReportArtifact(time.Now())
	first.Summary = "first"
	second := models.NewReportArtifact(time.Now())
	second.Summary = "second"

	if err := cache.SetRecap(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := cache.SetRecap(ctx, second); err != nil {
		t.Fatal(err)
	}

	got, err := cache.GetRecap(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got.Summary != "second" {
		t.Errorf("expected last write to win, got %q", got.Summary)
	}
}

func TestAnalysisKeyedByCurrency(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	eur := &models.CurrencyAnalysis{Currency: "EUR", FundamentalScore: 78, AIRating: models.RatingBuy, Timestamp: time.Now().UTC()}
	usd := &models.CurrencyAnalysis{Currency: "USD", FundamentalScore: 72, AIRating: models.RatingHold, Timestamp: time.Now().UTC()}

	if err := cache.SetAnalysis(ctx, "EUR", eur); err != nil {
		t.Fatal(err)
	}
	if err := cache.SetAnalysis(ctx, "USD", usd); err != nil {
		t.Fatal(err)
	}

	got, err := cache.GetAnalysis(ctx, "EUR")
	if err != nil {
		t.Fatal(err)
	}
	if got.Currency != "EUR" || got.FundamentalScore != 78 {
		t.Errorf("wrong analysis returned: %+v", got)
	}

	// Lookup is case-insensitive on the currency code.
	got, err = cache.GetAnalysis(ctx, "usd")
	if err != nil {
		t.Fatal(err)
	}
	if got.Currency != "USD" {
		t.Errorf("expected USD analysis, got %+v", got)
	}

	if _, err := cache.GetAnalysis(ctx, "GBP"); err != interfaces.ErrCacheMiss {
		t.Errorf("expected cache miss for unknown currency, got %v", err)
	}
}

func TestNormalizeOnRead(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	// Nil collections deserialize as nil; Normalize restores the
	// non-nil invariants.
	artifact := &models.ReportArtifact{ID: "raw", Timestamp: time.Now().UTC()}
	if err := cache.SetRecap(ctx, artifact); err != nil {
		t.Fatal(err)
	}

	got, err := cache.GetRecap(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got.KeyPoints == nil {
		t.Error("KeyPoints should never be nil after a read")
	}
	if got.EconomicData == nil {
		t.Error("EconomicData should never be nil after a read")
	}
}
