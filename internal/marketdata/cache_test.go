package marketdata

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"finance-assistant/internal/logger"
	"finance-assistant/internal/types"
)

func TestMain(m *testing.M) {
	logger.InitWithConfig(logger.LogConfig{Level: "ERROR", Format: "text"})
	os.Exit(m.Run())
}

// countingProvider returns a fixed series and counts upstream calls.
type countingProvider struct {
	mu    sync.Mutex
	calls int
	bars  []types.Bar
	err   error
}

func (p *countingProvider) History(_ context.Context, _, _ string) ([]types.Bar, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	return p.bars, nil
}

func (p *countingProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func TestCachedHistoryHit(t *testing.T) {
	inner := &countingProvider{bars: []types.Bar{{Ts: 1, Close: 100}}}
	cached := NewCachedHistory(inner, time.Minute)
	ctx := context.Background()

	first, err := cached.History(ctx, "AAPL", "6mo")
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := cached.History(ctx, "AAPL", "6mo")
	if err != nil {
		t.Fatalf("second call: %v", err)
	}

	if inner.callCount() != 1 {
		t.Errorf("upstream called %d times, want 1", inner.callCount())
	}
	if len(first) != 1 || len(second) != 1 || second[0].Close != 100 {
		t.Errorf("unexpected bars: %v / %v", first, second)
	}
}

func TestCachedHistoryKeyIncludesRange(t *testing.T) {
	inner := &countingProvider{bars: []types.Bar{{Ts: 1, Close: 100}}}
	cached := NewCachedHistory(inner, time.Minute)
	ctx := context.Background()

	cached.History(ctx, "AAPL", "6mo")
	cached.History(ctx, "AAPL", "1y")

	if inner.callCount() != 2 {
		t.Errorf("different ranges must miss, upstream called %d times", inner.callCount())
	}
}

func TestCachedHistoryExpiry(t *testing.T) {
	inner := &countingProvider{bars: []types.Bar{{Ts: 1, Close: 100}}}
	cached := NewCachedHistory(inner, 50*time.Millisecond)
	ctx := context.Background()

	cached.History(ctx, "AAPL", "6mo")
	time.Sleep(100 * time.Millisecond)
	cached.History(ctx, "AAPL", "6mo")

	if inner.callCount() != 2 {
		t.Errorf("expired entry should refetch, upstream called %d times", inner.callCount())
	}
}

func TestCachedHistoryDoesNotCacheErrors(t *testing.T) {
	inner := &countingProvider{err: errors.New("upstream down")}
	cached := NewCachedHistory(inner, time.Minute)
	ctx := context.Background()

	if _, err := cached.History(ctx, "AAPL", "6mo"); err == nil {
		t.Fatal("expected error from failing upstream")
	}

	inner.mu.Lock()
	inner.err = nil
	inner.bars = []types.Bar{{Ts: 1, Close: 100}}
	inner.mu.Unlock()

	bars, err := cached.History(ctx, "AAPL", "6mo")
	if err != nil {
		t.Fatalf("recovered upstream: %v", err)
	}
	if len(bars) != 1 {
		t.Errorf("got %d bars after recovery, want 1", len(bars))
	}
	if inner.callCount() != 2 {
		t.Errorf("upstream called %d times, want 2", inner.callCount())
	}
}

func TestHistoryCacheCleanup(t *testing.T) {
	cache := newHistoryCache(50 * time.Millisecond)

	cache.set("AAPL|6mo", []types.Bar{{Ts: 1}})
	cache.set("MSFT|6mo", []types.Bar{{Ts: 2}})

	time.Sleep(100 * time.Millisecond)
	cache.cleanup()

	cache.mu.RLock()
	count := len(cache.data)
	cache.mu.RUnlock()
	if count != 0 {
		t.Errorf("expected 0 entries after cleanup, got %d", count)
	}
}
