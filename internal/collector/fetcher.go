package collector

import "FundRadar/internal/model"

// Fetcher defines the interface for acquiring market and fund data.
// Implementations return errors for transport failures; the HistoryCache
// layer above converts those into empty series so downstream engines
// only ever deal with "no data" as a value.
type Fetcher interface {
	// FetchIndexHistory returns daily closes for an index, oldest first.
	FetchIndexHistory(code string, market model.Market, days int) ([]model.PricePoint, error)
	// FetchVolumeHistory returns daily turnover in yuan, A-share only.
	FetchVolumeHistory(code string, days int) ([]model.PricePoint, error)
	// FetchIndexQuote returns a live snapshot of an index.
	FetchIndexQuote(code, name string, market model.Market) (*model.IndexQuote, error)
	// FetchFundNavHistory returns per-date unit NAVs, oldest first.
	FetchFundNavHistory(code string, days int) ([]model.PricePoint, error)
	// FetchFundCurrentNav returns the latest published NAV of a fund.
	FetchFundCurrentNav(code string) (*model.FundNav, error)
	// FetchValuationHistory returns a PE or PB series for an index.
	// indicator is "pe" or "pb".
	FetchValuationHistory(code, indicator string, years int) ([]model.PricePoint, error)
	Name() string
}
