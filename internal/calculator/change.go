package calculator

import (
	"errors"
	"log"

	"MarketPulse/internal/model"

	"github.com/shopspring/decimal"
)

// ErrInvalidOffset reports a zero or negative lookback offset, which is a
// programming/configuration error rather than a data condition.
var ErrInvalidOffset = errors.New("lookback offset must be positive")

// Compute returns the percentage change between the latest close and the
// close offsetBars bars earlier: (latest - ref) / ref * 100.
//
// Results are rounded to 2 decimal places with round-half-to-even
// (banker's rounding), so 0.125 rounds to 0.12 and 0.135 to 0.14.
//
// An empty series, a series shorter than offsetBars+1, or a reference
// close of exactly zero all yield model.Unavailable with a nil error:
// partial data is a normal market condition, not a failure.
func Compute(series model.PriceSeries, offsetBars int) (model.Change, error) {
	if offsetBars <= 0 {
		return model.Unavailable, ErrInvalidOffset
	}
	latest, ok := series.LatestClose()
	if !ok {
		return model.Unavailable, nil
	}
	ref, ok := series.CloseAt(offsetBars)
	if !ok {
		return model.Unavailable, nil
	}
	if ref == 0 {
		return model.Unavailable, nil
	}
	return model.PctChange(RoundPct((latest - ref) / ref * 100)), nil
}

// RoundPct rounds a raw percentage to 2 decimals, half-to-even.
func RoundPct(raw float64) float64 {
	v, _ := decimal.NewFromFloat(raw).RoundBank(2).Float64()
	return v
}

// BuildRecord derives all requested timeframe changes for one instrument
// from a single fetched series. Timeframes the series cannot cover come
// back Unavailable; a misconfigured offset is logged and skipped.
func BuildRecord(inst model.Instrument, series model.PriceSeries, timeframes []model.Timeframe) model.PerformanceRecord {
	rec := model.PerformanceRecord{
		Symbol:  inst.Symbol,
		Name:    inst.DisplayName(),
		Changes: make(map[string]model.Change, len(timeframes)),
	}
	if price, ok := series.LatestClose(); ok {
		rec.Price = price
		rec.HasPrice = true
	}
	for _, tf := range timeframes {
		chg, err := Compute(series, tf.Bars)
		if err != nil {
			log.Printf("[WARN] timeframe %q for %s: %v", tf.Name, inst.Symbol, err)
			chg = model.Unavailable
		}
		rec.Changes[tf.Name] = chg
	}
	return rec
}
