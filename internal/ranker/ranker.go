package ranker

import (
	"sort"

	"MarketPulse/internal/calculator"
	"MarketPulse/internal/model"

	"github.com/samber/lo"
)

// Rank builds a leaderboard over the given records for one timeframe.
// Records whose change for byTimeframe is Unavailable are dropped before
// sorting and never appear on a board. Gainers sort descending, losers
// ascending; ties are broken by symbol in ascending lexical order so that
// equal changes (common with +0.00% days) rank deterministically.
// limit < 0 means unbounded; fewer qualifying records than limit returns
// all of them without padding.
func Rank(role string, records []model.PerformanceRecord, byTimeframe string, dir model.Direction, limit int) model.Leaderboard {
	qualified := lo.Filter(records, func(r model.PerformanceRecord, _ int) bool {
		return r.ChangeFor(byTimeframe).Valid
	})
	sort.SliceStable(qualified, func(i, j int) bool {
		a := qualified[i].ChangeFor(byTimeframe).Pct
		b := qualified[j].ChangeFor(byTimeframe).Pct
		if a != b {
			if dir == model.Losers {
				return a < b
			}
			return a > b
		}
		return qualified[i].Symbol < qualified[j].Symbol
	})
	if limit >= 0 && len(qualified) > limit {
		qualified = qualified[:limit]
	}
	return model.Leaderboard{Role: role, Timeframe: byTimeframe, Direction: dir, Records: qualified}
}

// FilterPool carves a per-group leaderboard out of an already-ranked full
// pool. Because the pool order is preserved, a symbol's position in its
// group board is always consistent with its position in the overall
// ranking.
func FilterPool(pool model.Leaderboard, role string, members map[string]bool, limit int) model.Leaderboard {
	records := lo.Filter(pool.Records, func(r model.PerformanceRecord, _ int) bool {
		return members[r.Symbol]
	})
	if limit >= 0 && len(records) > limit {
		records = records[:limit]
	}
	return model.Leaderboard{Role: role, Timeframe: pool.Timeframe, Direction: pool.Direction, Records: records}
}

// Stats aggregates breadth statistics for one timeframe over a record
// pool. Unavailable records count toward Tracked but not Evaluated.
// Breadth (percent of evaluated records with a positive change) is
// Unavailable when nothing was evaluated.
func Stats(records []model.PerformanceRecord, byTimeframe string) model.MarketStats {
	evaluated := lo.Filter(records, func(r model.PerformanceRecord, _ int) bool {
		return r.ChangeFor(byTimeframe).Valid
	})
	stats := model.MarketStats{
		Timeframe: byTimeframe,
		Tracked:   len(records),
		Evaluated: len(evaluated),
		Gainers: lo.CountBy(evaluated, func(r model.PerformanceRecord) bool {
			return r.ChangeFor(byTimeframe).Pct > 0
		}),
		Losers: lo.CountBy(evaluated, func(r model.PerformanceRecord) bool {
			return r.ChangeFor(byTimeframe).Pct < 0
		}),
	}
	if stats.Evaluated > 0 {
		pct := float64(stats.Gainers) / float64(stats.Evaluated) * 100
		stats.Breadth = model.PctChange(calculator.RoundPct(pct))
	}
	return stats
}
