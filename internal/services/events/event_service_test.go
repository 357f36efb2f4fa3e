package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/forexai/internal/interfaces"
)

func TestSubscribeNilHandler(t *testing.T) {
	svc := NewService(arbor.NewLogger())

	if err := svc.Subscribe(interfaces.EventReportGenerated, nil); err == nil {
		t.Fatal("expected error for nil handler")
	}
}

func TestPublishReachesAllSubscribers(t *testing.T) {
	svc := NewService(arbor.NewLogger())

	var wg sync.WaitGroup
	wg.Add(2)

	var mu sync.Mutex
	received := 0

	handler := func(ctx context.Context, event interfaces.Event) error {
		defer wg.Done()
		mu.Lock()
		received++
		mu.Unlock()
		return nil
	}

	if err := svc.Subscribe(interfaces.EventReportGenerated, handler); err != nil {
		t.Fatal(err)
	}
	if err := svc.Subscribe(interfaces.EventReportGenerated, handler); err != nil {
		t.Fatal(err)
	}

	if err := svc.Publish(context.Background(), interfaces.Event{Type: interfaces.EventReportGenerated}); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for handlers")
	}

	mu.Lock()
	defer mu.Unlock()
	if received != 2 {
		t.Errorf("expected 2 deliveries, got %d", received)
	}
}

func TestPublishWrongTypeNotDelivered(t *testing.T) {
	svc := NewService(arbor.NewLogger())

	delivered := make(chan struct{}, 1)
	err := svc.Subscribe(interfaces.EventAnalysisGenerated, func(ctx context.Context, event interfaces.Event) error {
		delivered <- struct{}{}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.Publish(context.Background(), interfaces.Event{Type: interfaces.EventReportGenerated}); err != nil {
		t.Fatal(err)
	}

	select {
	case <-delivered:
		t.Fatal("handler received an event of the wrong type")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestCloseDropsSubscribers(t *testing.T) {
	svc := NewService(arbor.NewLogger())

	delivered := make(chan struct{}, 1)
	err := svc.Subscribe(interfaces.EventReportGenerated, func(ctx context.Context, event interfaces.Event) error {
		delivered <- struct{}{}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.Close(); err != nil {
		t.Fatal(err)
	}

	if err := svc.Publish(context.Background(), interfaces.Event{Type: interfaces.EventReportGenerated}); err != nil {
		t.Fatal(err)
	}

	select {
	case <-delivered:
		t.Fatal("handler received an event after Close")
	case <-time.After(100 * time.Millisecond):
	}
}
