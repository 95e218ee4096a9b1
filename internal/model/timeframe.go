package model

// Timeframe is a named lookback expressed in trading-bar count, not
// calendar days (markets are closed on weekends and holidays).
type Timeframe struct {
	Name string
	Bars int
}

// Default timeframe names used across leaderboards and insight rules.
const (
	TimeframeDay   = "1-day"
	TimeframeWeek  = "1-week"
	TimeframeMonth = "1-month"
)

// DefaultTimeframes covers the standard report lookbacks.
var DefaultTimeframes = []Timeframe{
	{Name: TimeframeDay, Bars: 1},
	{Name: TimeframeWeek, Bars: 5},
	{Name: TimeframeMonth, Bars: 21},
}
