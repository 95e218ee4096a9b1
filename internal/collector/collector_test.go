package collector

import (
	"context"
	"errors"
	"testing"

	"MarketPulse/internal/model"
)

func instruments(symbols ...string) []model.Instrument {
	out := make([]model.Instrument, len(symbols))
	for i, s := range symbols {
		out[i] = model.Instrument{Symbol: s, Name: s}
	}
	return out
}

func TestCollectAll_AllSymbolsPresent(t *testing.T) {
	fetcher := &MockFetcher{Price: 100}
	c := NewCollector(fetcher, 3, 1000, 10)

	insts := instruments("GC", "SI", "CL", "NG", "KOL")
	results := c.CollectAll(context.Background(), insts)

	if len(results) != len(insts) {
		t.Fatalf("expected %d results, got %d", len(insts), len(results))
	}
	for _, inst := range insts {
		series, ok := results[inst.Symbol]
		if !ok {
			t.Fatalf("missing result for %s", inst.Symbol)
		}
		if series.Len() != 10 {
			t.Errorf("%s: expected 10 bars, got %d", inst.Symbol, series.Len())
		}
	}
}

func TestCollectAll_FailedSymbolDegrades(t *testing.T) {
	fetcher := &MockFetcher{
		Price: 100,
		Errs:  map[string]error{"BAD": errors.New("upstream 500")},
	}
	c := NewCollector(fetcher, 2, 1000, 10)

	results := c.CollectAll(context.Background(), instruments("OK1", "BAD", "OK2"))

	if len(results) != 3 {
		t.Fatalf("a failed symbol must not shrink the result map, got %d entries", len(results))
	}
	if results["BAD"].Len() != 0 {
		t.Error("failed symbol must land as an empty series")
	}
	if results["OK1"].Len() == 0 || results["OK2"].Len() == 0 {
		t.Error("healthy symbols must still be fetched")
	}
}

func TestCollectAll_FixedSeriesWins(t *testing.T) {
	fixed := GenerateMockSeries("PIN", 200, 5)
	fetcher := &MockFetcher{
		Price:  100,
		Series: map[string]model.PriceSeries{"PIN": fixed},
	}
	c := NewCollector(fetcher, 1, 1000, 10)

	results := c.CollectAll(context.Background(), instruments("PIN"))
	if results["PIN"].Len() != 5 {
		t.Errorf("fixture series must be returned verbatim, got %d bars", results["PIN"].Len())
	}
}

func TestCollectAll_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewCollector(&MockFetcher{Price: 100}, 2, 1, 10)
	results := c.CollectAll(ctx, instruments("A", "B"))

	// Cancellation degrades to empty series, it never loses symbols.
	if len(results) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(results))
	}
}

func TestNewCollector_Defaults(t *testing.T) {
	c := NewCollector(&MockFetcher{}, 0, 0, 0)
	if c.Workers != 4 || c.Days != 30 {
		t.Errorf("defaults: workers=%d days=%d", c.Workers, c.Days)
	}
}

func TestGenerateMockSeries(t *testing.T) {
	s := GenerateMockSeries("TEST", 100, 20)
	if s.Len() != 20 || s.Symbol != "TEST" {
		t.Fatalf("unexpected series: %s/%d", s.Symbol, s.Len())
	}
	price, ok := s.LatestClose()
	if !ok || price <= 0 {
		t.Errorf("latest close: %v ok=%v", price, ok)
	}
}
