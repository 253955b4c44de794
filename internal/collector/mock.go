package collector

import (
	"fmt"
	"time"

	"FundRadar/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	IndexSeries     map[string][]model.PricePoint
	VolumeSeries    map[string][]model.PricePoint
	NavSeries       map[string][]model.PricePoint
	ValuationSeries map[string][]model.PricePoint
	Quotes          map[string]*model.IndexQuote
	CurrentNavs     map[string]*model.FundNav
	Err             error

	IndexCalls int
	NavCalls   int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchIndexHistory(code string, _ model.Market, days int) ([]model.PricePoint, error) {
	m.IndexCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	if series, ok := m.IndexSeries[code]; ok {
		return series, nil
	}
	return generateMockSeries(100, days), nil
}

func (m *MockFetcher) FetchVolumeHistory(code string, days int) ([]model.PricePoint, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if series, ok := m.VolumeSeries[code]; ok {
		return series, nil
	}
	return generateMockSeries(1e9, days), nil
}

func (m *MockFetcher) FetchIndexQuote(code, name string, market model.Market) (*model.IndexQuote, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if quote, ok := m.Quotes[code]; ok {
		return quote, nil
	}
	return &model.IndexQuote{Code: code, Name: name, Market: market, Price: 100, FetchedAt: time.Now()}, nil
}

func (m *MockFetcher) FetchFundNavHistory(code string, days int) ([]model.PricePoint, error) {
	m.NavCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	if series, ok := m.NavSeries[code]; ok {
		return series, nil
	}
	return nil, fmt.Errorf("mock: no nav series for %s", code)
}

func (m *MockFetcher) FetchFundCurrentNav(code string) (*model.FundNav, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if nav, ok := m.CurrentNavs[code]; ok {
		return nav, nil
	}
	return nil, fmt.Errorf("mock: no current nav for %s", code)
}

func (m *MockFetcher) FetchValuationHistory(code, indicator string, _ int) ([]model.PricePoint, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if series, ok := m.ValuationSeries[code+"_"+indicator]; ok {
		return series, nil
	}
	return nil, fmt.Errorf("mock: no %s series for %s", indicator, code)
}

func generateMockSeries(base float64, count int) []model.PricePoint {
	points := make([]model.PricePoint, count)
	for i := 0; i < count; i++ {
		points[i] = model.PricePoint{
			Date:  time.Now().AddDate(0, 0, -(count - i)),
			Value: base * (1 + float64(i-count/2)*0.001),
		}
	}
	return points
}
