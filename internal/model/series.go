package model

import "time"

// PriceBar represents a single daily candlestick bar.
type PriceBar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries holds the ordered daily bars for one instrument.
// A series may be empty or shorter than any requested lookback; both are
// valid states that callers must handle, never assumed-non-empty.
type PriceSeries struct {
	Symbol    string
	Bars      []PriceBar
	FetchedAt time.Time
}

// Len returns the number of bars in the series.
func (s PriceSeries) Len() int { return len(s.Bars) }

// LatestClose returns the most recent close. ok is false for an empty series.
func (s PriceSeries) LatestClose() (close float64, ok bool) {
	if len(s.Bars) == 0 {
		return 0, false
	}
	return s.Bars[len(s.Bars)-1].Close, true
}

// CloseAt returns the close offsetBack bars before the latest bar.
// ok is false when the series does not reach that far back.
func (s PriceSeries) CloseAt(offsetBack int) (close float64, ok bool) {
	idx := len(s.Bars) - 1 - offsetBack
	if offsetBack < 0 || idx < 0 {
		return 0, false
	}
	return s.Bars[idx].Close, true
}
