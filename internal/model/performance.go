package model

// Change is a percentage change that may be unavailable. Unavailability
// (empty series, insufficient history, zero reference price) is a
// first-class result, not an error.
type Change struct {
	Pct   float64
	Valid bool
}

// PctChange builds an available change value.
func PctChange(pct float64) Change { return Change{Pct: pct, Valid: true} }

// Unavailable is the sentinel for a change that could not be computed.
var Unavailable = Change{}

// PerformanceRecord holds one instrument's derived metrics for a run.
// Records are created fresh per run and never mutated afterwards.
type PerformanceRecord struct {
	Symbol   string
	Name     string
	Price    float64
	HasPrice bool
	Changes  map[string]Change // keyed by timeframe name
}

// ChangeFor returns the record's change for the named timeframe.
// Missing entries read as Unavailable.
func (r PerformanceRecord) ChangeFor(timeframe string) Change {
	return r.Changes[timeframe]
}

// Direction selects the sort order of a leaderboard.
type Direction string

const (
	Gainers Direction = "gainers"
	Losers  Direction = "losers"
)

// Leaderboard is a ranked, size-bounded, directionally sorted list of
// performance records for one timeframe.
type Leaderboard struct {
	Role      string
	Timeframe string
	Direction Direction
	Records   []PerformanceRecord
}

// Top returns the leading record. ok is false for an empty board.
func (l Leaderboard) Top() (rec PerformanceRecord, ok bool) {
	if len(l.Records) == 0 {
		return PerformanceRecord{}, false
	}
	return l.Records[0], true
}

// MarketStats aggregates breadth statistics over an evaluated record pool.
// Records whose change is Unavailable are excluded from Evaluated.
type MarketStats struct {
	Timeframe string
	Tracked   int
	Evaluated int
	Gainers   int
	Losers    int
	Breadth   Change // fraction of evaluated records with a positive change
}
