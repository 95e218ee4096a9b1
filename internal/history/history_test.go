package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"MarketPulse/internal/model"
)

func TestNewManager_FreshStart(t *testing.T) {
	m, err := NewManager(filepath.Join(t.TempDir(), "last_run.json"))
	if err != nil {
		t.Fatalf("missing state file must not be an error: %v", err)
	}
	if m.Previous() != nil {
		t.Error("fresh manager must have no previous run")
	}
}

func TestRecordAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "last_run.json")

	m, err := NewManager(path)
	if err != nil {
		t.Fatal(err)
	}
	summary := model.RunSummary{
		GeneratedAt:  time.Date(2025, 1, 17, 8, 0, 0, 0, time.UTC),
		Tracked:      15,
		Evaluated:    14,
		Gainers:      9,
		Losers:       5,
		BreadthPct:   64.29,
		BreadthValid: true,
		TopSymbol:    "RELIANCE.NS",
		TopChangePct: 4.2,
	}
	if err := m.Record(summary); err != nil {
		t.Fatalf("record: %v", err)
	}

	// The same manager serves the new summary.
	prev := m.Previous()
	if prev == nil || prev.TopSymbol != "RELIANCE.NS" {
		t.Fatalf("previous after record: %+v", prev)
	}

	// A fresh manager reloads it from disk.
	reloaded, err := NewManager(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	got := reloaded.Previous()
	if got == nil {
		t.Fatal("expected persisted summary")
	}
	if got.BreadthPct != 64.29 || !got.BreadthValid || got.Evaluated != 14 {
		t.Errorf("reloaded summary: %+v", got)
	}
	if !got.GeneratedAt.Equal(summary.GeneratedAt) {
		t.Errorf("generated_at: got %v, want %v", got.GeneratedAt, summary.GeneratedAt)
	}
}

func TestPrevious_ReturnsCopy(t *testing.T) {
	m, err := NewManager(filepath.Join(t.TempDir(), "last_run.json"))
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Record(model.RunSummary{BreadthPct: 50, BreadthValid: true}); err != nil {
		t.Fatal(err)
	}

	prev := m.Previous()
	prev.BreadthPct = 0
	if m.Previous().BreadthPct != 50 {
		t.Error("mutating the returned summary must not affect the stored one")
	}
}

func TestNewManager_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_run.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewManager(path); err == nil {
		t.Error("corrupt state file must surface an error")
	}
}
