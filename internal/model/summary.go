package model

import "time"

// RunSummary is the persisted snapshot of one completed report run, kept so
// the next report can show a run-over-run comparison line.
type RunSummary struct {
	GeneratedAt  time.Time `json:"generated_at"`
	Tracked      int       `json:"tracked"`
	Evaluated    int       `json:"evaluated"`
	Gainers      int       `json:"gainers"`
	Losers       int       `json:"losers"`
	BreadthPct   float64   `json:"breadth_pct"`
	BreadthValid bool      `json:"breadth_valid"`
	TopSymbol    string    `json:"top_symbol"`
	TopChangePct float64   `json:"top_change_pct"`
}
