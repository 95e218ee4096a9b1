package scheduler

import (
	"context"
	"testing"
	"time"

	"MarketPulse/internal/engine"
	"MarketPulse/internal/model"
)

func TestRegisterAll_CronSpecs(t *testing.T) {
	s := NewScheduler(context.Background(), nil, nil, nil, nil, nil, nil, nil)
	if err := s.RegisterAll("0 0 8 * * 6", "0 30 18 * * 1-5"); err != nil {
		t.Fatalf("valid cron specs rejected: %v", err)
	}

	s = NewScheduler(context.Background(), nil, nil, nil, nil, nil, nil, nil)
	if err := s.RegisterAll("not a cron spec", "0 30 18 * * 1-5"); err == nil {
		t.Error("invalid weekly cron spec must fail registration")
	}
}

func TestTrimSeries(t *testing.T) {
	bars := make([]model.PriceBar, 10)
	for i := range bars {
		bars[i] = model.PriceBar{Close: float64(i)}
	}
	s := model.PriceSeries{Symbol: "X", Bars: bars}

	trimmed := trimSeries(s, 4)
	if trimmed.Len() != 4 {
		t.Fatalf("expected 4 bars, got %d", trimmed.Len())
	}
	if trimmed.Bars[0].Close != 6 {
		t.Errorf("trim must keep the most recent bars, first close %v", trimmed.Bars[0].Close)
	}
	if got := trimSeries(s, 20); got.Len() != 10 {
		t.Errorf("series shorter than n must pass through, got %d bars", got.Len())
	}
}

func TestBuildSummary(t *testing.T) {
	out := engine.Output{
		Stats: model.MarketStats{
			Tracked: 5, Evaluated: 4, Gainers: 3, Losers: 1,
			Breadth: model.PctChange(75.0),
		},
		TopGainers: model.Leaderboard{
			Timeframe: model.TimeframeDay,
			Records: []model.PerformanceRecord{{
				Symbol:  "L1",
				Changes: map[string]model.Change{model.TimeframeDay: model.PctChange(4.2)},
			}},
		},
	}

	sum := buildSummary(out)
	if sum.Tracked != 5 || sum.Evaluated != 4 {
		t.Errorf("counts: %+v", sum)
	}
	if !sum.BreadthValid || sum.BreadthPct != 75.0 {
		t.Errorf("breadth: %+v", sum)
	}
	if sum.TopSymbol != "L1" || sum.TopChangePct != 4.2 {
		t.Errorf("top gainer: %+v", sum)
	}
	if time.Since(sum.GeneratedAt) > time.Minute {
		t.Error("generated_at not set")
	}

	empty := buildSummary(engine.Output{})
	if empty.BreadthValid || empty.TopSymbol != "" {
		t.Errorf("empty run summary: %+v", empty)
	}
}
