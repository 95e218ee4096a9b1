package scheduler

import (
	"context"
	"fmt"
	"html/template"
	"log"
	"time"

	"MarketPulse/internal/collector"
	"MarketPulse/internal/engine"
	"MarketPulse/internal/history"
	"MarketPulse/internal/mailer"
	"MarketPulse/internal/model"
	"MarketPulse/internal/recorder"
	"MarketPulse/internal/report"

	"github.com/robfig/cron/v3"
)

// Scheduler manages the report cron tasks and runs the pipeline:
// collect series, run the analytics engine, assemble the report, deliver
// it, and record the run.
type Scheduler struct {
	Cron       *cron.Cron
	Collector  *collector.Collector
	Engine     *engine.Engine
	Assembler  *report.Assembler
	Charts     report.ChartRenderer
	Mailer     *mailer.Mailer
	Recorder   recorder.Recorder
	History    *history.Manager
	Ctx        context.Context
	RunTimeout time.Duration
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, eng *engine.Engine,
	asm *report.Assembler, charts report.ChartRenderer, m *mailer.Mailer,
	rec recorder.Recorder, hist *history.Manager) *Scheduler {
	return &Scheduler{
		Cron:       cron.New(cron.WithSeconds()),
		Collector:  col,
		Engine:     eng,
		Assembler:  asm,
		Charts:     charts,
		Mailer:     m,
		Recorder:   rec,
		History:    hist,
		Ctx:        ctx,
		RunTimeout: 10 * time.Minute,
	}
}

// RegisterAll registers the weekly report and daily digest tasks.
func (s *Scheduler) RegisterAll(weeklyCron, dailyCron string) error {
	if _, err := s.Cron.AddFunc(weeklyCron, s.weeklyTask); err != nil {
		return fmt.Errorf("register weekly task: %w", err)
	}
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunWeeklyNow executes the weekly report immediately (manual trigger /
// RUN_ON_START).
func (s *Scheduler) RunWeeklyNow() {
	s.weeklyTask()
}

func (s *Scheduler) weeklyTask() {
	log.Println("[INFO] running weekly report")
	s.runReport(true)
}

func (s *Scheduler) dailyTask() {
	log.Println("[INFO] running daily digest")
	s.runReport(false)
}

// runReport executes one full pipeline pass. Per-symbol fetch failures
// degrade to placeholder content; only delivery failure is a run error.
func (s *Scheduler) runReport(withCharts bool) {
	ctx, cancel := context.WithTimeout(s.Ctx, s.RunTimeout)
	defer cancel()

	series := s.Collector.CollectAll(ctx, s.Engine.Instruments())
	out := s.Engine.Run(series)

	data := report.Data{
		GeneratedAt: time.Now(),
		Stats:       out.Stats,
		Insights:    out.Insights,
		Comparison:  report.BuildComparison(s.History.Previous(), out.Stats),
	}
	for _, rg := range out.RankedGroups {
		title := fmt.Sprintf("Top %d %s Performers (%s)", rg.Group.TopN, rg.Group.Label, rg.Board.Timeframe)
		data.Sections = append(data.Sections, report.BuildSection(title, rg.Board, s.Engine.Timeframes))
	}
	data.Sections = append(data.Sections,
		report.BuildSection(fmt.Sprintf("Bottom %d Performers (%s)", s.Engine.BottomN, out.Bottom.Timeframe),
			out.Bottom, s.Engine.Timeframes))
	for _, ic := range out.IndexChanges {
		data.IndexTables = append(data.IndexTables, report.BuildIndexTable(ic.Name, ic.Changes))
	}
	if withCharts {
		data.Charts = s.buildCharts(out, series)
	}

	doc, err := s.Assembler.Build(data)
	if err != nil {
		log.Printf("[ERROR] assemble report: %v", err)
		return
	}

	delivered := true
	if err := s.Mailer.SendWithRetry(ctx, doc.Subject, doc.HTML, 3); err != nil {
		delivered = false
		log.Printf("[ERROR] deliver report: %v", err)
	}

	if err := s.Recorder.RecordRun(&recorder.RunRecord{
		Stats:        out.Stats,
		Leaderboards: s.allBoards(out),
		Insights:     out.Insights,
		Delivered:    delivered,
	}); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}

	if err := s.History.Record(buildSummary(out)); err != nil {
		log.Printf("[ERROR] save run summary: %v", err)
	}
}

// buildCharts renders the commodity and index price charts.
func (s *Scheduler) buildCharts(out engine.Output, series map[string]model.PriceSeries) []template.HTML {
	var charts []template.HTML
	for _, rg := range out.RankedGroups {
		if rg.Group.Kind != model.KindCommodity {
			continue
		}
		var lines []report.ChartSeries
		for _, rec := range rg.Board.Records {
			lines = append(lines, report.SeriesForChart(rec.Name, trimSeries(series[rec.Symbol], 8)))
		}
		if svg := s.Charts.Render(fmt.Sprintf("Top %d %s", rg.Group.TopN, rg.Group.Label), lines); svg != "" {
			charts = append(charts, svg)
		}
	}
	var indexLines []report.ChartSeries
	for _, ic := range out.IndexChanges {
		indexLines = append(indexLines, report.SeriesForChart(ic.Name, trimSeries(series[ic.Symbol], 10)))
	}
	if svg := s.Charts.Render("Index Prices, Last Two Weeks", indexLines); svg != "" {
		charts = append(charts, svg)
	}
	return charts
}

// allBoards flattens the run's leaderboards for the recorder.
func (s *Scheduler) allBoards(out engine.Output) []model.Leaderboard {
	boards := make([]model.Leaderboard, 0, len(out.RankedGroups)+2)
	for _, rg := range out.RankedGroups {
		boards = append(boards, rg.Board)
	}
	boards = append(boards, out.TopGainers, out.Bottom)
	return boards
}

// trimSeries keeps the most recent n bars for charting.
func trimSeries(s model.PriceSeries, n int) model.PriceSeries {
	if s.Len() > n {
		s.Bars = s.Bars[s.Len()-n:]
	}
	return s
}

// buildSummary condenses a run for the history file.
func buildSummary(out engine.Output) model.RunSummary {
	summary := model.RunSummary{
		GeneratedAt: time.Now(),
		Tracked:     out.Stats.Tracked,
		Evaluated:   out.Stats.Evaluated,
		Gainers:     out.Stats.Gainers,
		Losers:      out.Stats.Losers,
	}
	if out.Stats.Breadth.Valid {
		summary.BreadthPct = out.Stats.Breadth.Pct
		summary.BreadthValid = true
	}
	if top, ok := out.TopGainers.Top(); ok {
		summary.TopSymbol = top.Symbol
		if chg := top.ChangeFor(out.TopGainers.Timeframe); chg.Valid {
			summary.TopChangePct = chg.Pct
		}
	}
	return summary
}
