package recorder

import "MarketPulse/internal/model"

// RunRecord holds everything persisted for one completed report run.
type RunRecord struct {
	Stats        model.MarketStats
	Leaderboards []model.Leaderboard
	Insights     []model.Insight
	Delivered    bool
}

// Recorder persists run history for later analysis.
type Recorder interface {
	RecordRun(rec *RunRecord) error
	Close() error
}
