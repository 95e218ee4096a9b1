package engine

import (
	"MarketPulse/internal/calculator"
	"MarketPulse/internal/insight"
	"MarketPulse/internal/model"
	"MarketPulse/internal/ranker"
)

// indexWeekBars is the bar distance used for the index week-over-week
// comparison table.
const indexWeekBars = 5

// Engine is the performance analytics core: one batch pass over a
// materialized set of price series, producing ranked leaderboards,
// aggregate stats and rule-derived insights. It holds no mutable state;
// identical inputs always produce identical outputs.
type Engine struct {
	Groups     []model.Group
	Timeframes []model.Timeframe
	BottomN    int
	Thresholds insight.Thresholds
}

// RankedGroup pairs a group with its leaderboard, in configuration order.
type RankedGroup struct {
	Group model.Group
	Board model.Leaderboard
}

// IndexChanges is the week-over-week day table for one index.
type IndexChanges struct {
	Name    string
	Symbol  string
	Changes []calculator.DayChange
}

// Output is everything one engine run derives for the report layer.
type Output struct {
	RankedGroups []RankedGroup
	Bottom       model.Leaderboard
	TopGainers   model.Leaderboard
	Stats        model.MarketStats
	IndexChanges []IndexChanges
	Insights     []model.Insight
}

// Instruments returns every tracked instrument across all groups, with
// duplicates removed (a symbol may appear in several groups).
func (e *Engine) Instruments() []model.Instrument {
	seen := make(map[string]bool)
	var all []model.Instrument
	for _, g := range e.Groups {
		for _, inst := range g.Instruments {
			if seen[inst.Symbol] {
				continue
			}
			seen[inst.Symbol] = true
			all = append(all, inst)
		}
	}
	return all
}

// dayTimeframe picks the shortest configured lookback, used for the
// overall gainer/loser boards and breadth stats.
func (e *Engine) dayTimeframe() string {
	if len(e.Timeframes) == 0 {
		return model.TimeframeDay
	}
	best := e.Timeframes[0]
	for _, tf := range e.Timeframes[1:] {
		if tf.Bars < best.Bars {
			best = tf
		}
	}
	return best.Name
}

// Run executes one batch pass over the fetched series. Symbols whose
// series are missing or empty degrade to Unavailable metrics; they never
// abort the run.
func (e *Engine) Run(series map[string]model.PriceSeries) Output {
	dayTF := e.dayTimeframe()

	// Derive one immutable record per instrument, reusing a single
	// fetched series for every timeframe.
	records := make(map[string]model.PerformanceRecord)
	var equityPool []model.PerformanceRecord
	for _, g := range e.Groups {
		if g.Kind == model.KindIndex {
			continue
		}
		for _, inst := range g.Instruments {
			if _, ok := records[inst.Symbol]; ok {
				continue
			}
			rec := calculator.BuildRecord(inst, series[inst.Symbol], e.Timeframes)
			records[inst.Symbol] = rec
			if g.Kind == model.KindEquity {
				equityPool = append(equityPool, rec)
			}
		}
	}

	out := Output{
		Stats: ranker.Stats(equityPool, dayTF),
	}

	boards := make(map[string]model.Leaderboard)
	for _, g := range e.Groups {
		switch g.Kind {
		case model.KindIndex:
			for _, inst := range g.Instruments {
				out.IndexChanges = append(out.IndexChanges, IndexChanges{
					Name:    inst.DisplayName(),
					Symbol:  inst.Symbol,
					Changes: calculator.WeekOverWeekByDay(series[inst.Symbol], indexWeekBars),
				})
			}
		case model.KindEquity:
			// Rank the combined equity pool first, then carve out the
			// group, so group boards stay consistent with the overall
			// ranking.
			pool := ranker.Rank(g.Name, equityPool, g.RankBy, model.Gainers, -1)
			board := ranker.FilterPool(pool, g.Name, g.MemberSet(), g.TopN)
			boards[g.Name] = board
			out.RankedGroups = append(out.RankedGroups, RankedGroup{Group: g, Board: board})
		default:
			groupRecords := make([]model.PerformanceRecord, 0, len(g.Instruments))
			for _, inst := range g.Instruments {
				groupRecords = append(groupRecords, records[inst.Symbol])
			}
			board := ranker.Rank(g.Name, groupRecords, g.RankBy, model.Gainers, g.TopN)
			boards[g.Name] = board
			out.RankedGroups = append(out.RankedGroups, RankedGroup{Group: g, Board: board})
			if g.Kind == model.KindCommodity {
				if _, ok := boards[insight.RoleCommodities]; !ok {
					boards[insight.RoleCommodities] = board
				}
			}
		}
	}

	out.TopGainers = ranker.Rank(insight.RoleTopGainers, equityPool, dayTF, model.Gainers, e.BottomN)
	out.Bottom = ranker.Rank(insight.RoleBottom, equityPool, dayTF, model.Losers, e.BottomN)
	boards[insight.RoleTopGainers] = out.TopGainers
	boards[insight.RoleBottom] = out.Bottom

	out.Insights = insight.Evaluate(insight.Inputs{
		Leaderboards: boards,
		Stats:        map[string]model.MarketStats{insight.RoleEquities: out.Stats},
	}, e.Thresholds)

	return out
}
