package calculator

import (
	"time"

	"MarketPulse/internal/model"
)

// DayChange is one row of an index week-over-week comparison table: the
// change from a baseline day's close to the close weekBars later.
type DayChange struct {
	Day    string // weekday name of the baseline bar
	Date   time.Time
	Change model.Change
}

// WeekOverWeekByDay walks the series and pairs each bar with the bar
// weekBars later, producing a per-day week-over-week change table.
// Series shorter than weekBars+1 bars yield an empty table. A zero
// baseline close produces an Unavailable row rather than a fault.
func WeekOverWeekByDay(series model.PriceSeries, weekBars int) []DayChange {
	if weekBars <= 0 || series.Len() <= weekBars {
		return nil
	}
	changes := make([]DayChange, 0, series.Len()-weekBars)
	for i := 0; i+weekBars < series.Len(); i++ {
		base := series.Bars[i]
		later := series.Bars[i+weekBars]
		row := DayChange{Day: base.Date.Weekday().String(), Date: base.Date}
		if base.Close != 0 {
			row.Change = model.PctChange(RoundPct((later.Close - base.Close) / base.Close * 100))
		}
		changes = append(changes, row)
	}
	return changes
}
