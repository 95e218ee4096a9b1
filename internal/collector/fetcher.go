package collector

import (
	"context"

	"MarketPulse/internal/model"
)

// Fetcher defines the interface for fetching daily price history.
// Implementations return the bars they have, oldest first; an empty
// series is a valid response for an unknown or suspended symbol.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, days int) (model.PriceSeries, error)
	Name() string
}
