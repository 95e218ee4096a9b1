package collector

import (
	"context"
	"log"
	"sync"
	"time"

	"MarketPulse/internal/model"

	"golang.org/x/time/rate"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Series map[string]model.PriceSeries
	Errs   map[string]error
	Price  float64
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, symbol string, days int) (model.PriceSeries, error) {
	if err, ok := m.Errs[symbol]; ok {
		return model.PriceSeries{Symbol: symbol}, err
	}
	if s, ok := m.Series[symbol]; ok {
		return s, nil
	}
	return GenerateMockSeries(symbol, m.Price, days), nil
}

// GenerateMockSeries builds a gently trending series around basePrice.
func GenerateMockSeries(symbol string, basePrice float64, count int) model.PriceSeries {
	bars := make([]model.PriceBar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.PriceBar{
			Date:   time.Now().AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return model.PriceSeries{Symbol: symbol, Bars: bars, FetchedAt: time.Now()}
}

// Collector fans fetches out over a bounded worker pool. Per-symbol
// failures never abort the batch: the failed symbol lands in the result
// map as an empty series and the engine degrades to Unavailable metrics
// for it.
type Collector struct {
	Fetcher Fetcher
	Workers int
	Days    int
	limiter *rate.Limiter
}

// NewCollector creates a Collector. workers bounds fetch concurrency;
// ratePerSec paces requests against the upstream provider.
func NewCollector(fetcher Fetcher, workers int, ratePerSec float64, days int) *Collector {
	if workers <= 0 {
		workers = 4
	}
	if ratePerSec <= 0 {
		ratePerSec = 5
	}
	if days <= 0 {
		days = 30
	}
	return &Collector{
		Fetcher: fetcher,
		Workers: workers,
		Days:    days,
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), 1),
	}
}

// CollectAll fetches daily history for every instrument and returns the
// materialized series keyed by symbol. Completion order is irrelevant;
// every requested symbol is present in the result, empty on failure.
func (c *Collector) CollectAll(ctx context.Context, instruments []model.Instrument) map[string]model.PriceSeries {
	results := make(map[string]model.PriceSeries, len(instruments))
	var mu sync.Mutex
	var wg sync.WaitGroup

	jobs := make(chan model.Instrument)
	for i := 0; i < c.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for inst := range jobs {
				series := c.fetchOne(ctx, inst.Symbol)
				mu.Lock()
				results[inst.Symbol] = series
				mu.Unlock()
			}
		}()
	}

	for _, inst := range instruments {
		jobs <- inst
	}
	close(jobs)
	wg.Wait()

	return results
}

func (c *Collector) fetchOne(ctx context.Context, symbol string) model.PriceSeries {
	if err := c.limiter.Wait(ctx); err != nil {
		log.Printf("[WARN] fetch %s cancelled: %v", symbol, err)
		return model.PriceSeries{Symbol: symbol}
	}
	series, err := c.Fetcher.FetchDailyBars(ctx, symbol, c.Days)
	if err != nil {
		log.Printf("[WARN] fetch %s: %v", symbol, err)
		return model.PriceSeries{Symbol: symbol}
	}
	if series.Len() == 0 {
		log.Printf("[WARN] fetch %s: no bars returned", symbol)
	}
	return series
}
