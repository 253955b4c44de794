package collector

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"FundRadar/internal/model"
)

// HistoryCache memoizes history fetches for the duration of one analysis
// run, so that an index shared by several funds is fetched once. Failed
// fetches are not cached: the next caller retries.
type HistoryCache struct {
	fetcher Fetcher

	mu    sync.Mutex
	store map[string][]model.PricePoint
}

// NewHistoryCache wraps a fetcher with run-scoped memoization.
func NewHistoryCache(fetcher Fetcher) *HistoryCache {
	return &HistoryCache{
		fetcher: fetcher,
		store:   make(map[string][]model.PricePoint),
	}
}

func (c *HistoryCache) get(key string, fetch func() ([]model.PricePoint, error)) []model.PricePoint {
	c.mu.Lock()
	if series, ok := c.store[key]; ok {
		c.mu.Unlock()
		return series
	}
	c.mu.Unlock()

	series, err := fetch()
	if err != nil {
		log.Printf("[WARN] history fetch %s failed: %v", key, err)
		return nil
	}
	series = normalizeSeries(series)

	c.mu.Lock()
	c.store[key] = series
	c.mu.Unlock()
	return series
}

// IndexHistory returns daily closes for an index, empty on failure.
func (c *HistoryCache) IndexHistory(code string, market model.Market, days int) []model.PricePoint {
	key := fmt.Sprintf("index_%s_%s_%d", code, market, days)
	return c.get(key, func() ([]model.PricePoint, error) {
		return c.fetcher.FetchIndexHistory(code, market, days)
	})
}

// VolumeHistory returns daily turnover amounts for an A-share index.
func (c *HistoryCache) VolumeHistory(code string, days int) []model.PricePoint {
	key := fmt.Sprintf("volume_%s_%d", code, days)
	return c.get(key, func() ([]model.PricePoint, error) {
		return c.fetcher.FetchVolumeHistory(code, days)
	})
}

// FundNavHistory returns a fund's unit NAV series, empty on failure.
func (c *HistoryCache) FundNavHistory(code string, days int) []model.PricePoint {
	key := fmt.Sprintf("nav_%s_%d", code, days)
	return c.get(key, func() ([]model.PricePoint, error) {
		return c.fetcher.FetchFundNavHistory(code, days)
	})
}

// ValuationHistory returns an index's PE or PB series as raw values.
func (c *HistoryCache) ValuationHistory(code, indicator string, years int) []float64 {
	key := fmt.Sprintf("val_%s_%s_%d", code, indicator, years)
	series := c.get(key, func() ([]model.PricePoint, error) {
		return c.fetcher.FetchValuationHistory(code, indicator, years)
	})
	return model.Closes(series)
}

// normalizeSeries sorts ascending by date, truncates timestamps to
// midnight and drops duplicate calendar days, keeping the last value
// seen for each day. Some providers stamp daily bars with the market
// open time; date comparisons downstream expect whole days.
func normalizeSeries(series []model.PricePoint) []model.PricePoint {
	if len(series) == 0 {
		return series
	}
	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})
	out := series[:0:0]
	for _, p := range series {
		day := time.Date(p.Date.Year(), p.Date.Month(), p.Date.Day(), 0, 0, 0, 0, p.Date.Location())
		p.Date = day
		if n := len(out); n > 0 && out[n-1].Date.Equal(day) {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	return out
}
