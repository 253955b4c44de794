package model

import "time"

// Market identifies which exchange universe a symbol belongs to.
type Market string

const (
	MarketAShare Market = "a_share"
	MarketUS     Market = "us"
)

// PricePoint is one (date, value) observation of a price, NAV or
// valuation series. Series are kept ascending by date with unique dates.
type PricePoint struct {
	Date  time.Time
	Value float64
}

// IndexQuote is a live snapshot of a single index.
type IndexQuote struct {
	Code      string
	Name      string
	Market    Market
	Price     float64
	Change    float64
	ChangePct float64
	Amount    float64 // turnover in yuan, A-share only
	FetchedAt time.Time
}

// FundNav is the latest published NAV of an open-end fund.
type FundNav struct {
	Nav          float64
	NavDate      string
	DayChangePct *float64
}

// Closes extracts the value column of a series.
func Closes(series []PricePoint) []float64 {
	values := make([]float64, len(series))
	for i, p := range series {
		values[i] = p.Value
	}
	return values
}
