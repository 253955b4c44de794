package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"FundRadar/internal/model"
)

// LiveFetcher implements Fetcher against public market-data endpoints:
// eastmoney for A-share indices and open-end funds, Yahoo Finance for US
// indices (see yahoo.go).
type LiveFetcher struct {
	Client *http.Client
}

// NewLiveFetcher creates a fetcher with optional proxy support.
func NewLiveFetcher(proxyURL string) *LiveFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &LiveFetcher{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *LiveFetcher) Name() string { return "live" }

// secid maps an index code to eastmoney's market-prefixed id. Shenzhen
// index codes start with 399.
func secid(code string) string {
	if strings.HasPrefix(code, "399") {
		return "0." + code
	}
	return "1." + code
}

func (f *LiveFetcher) getJSON(rawURL string, referer string, out interface{}) error {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	if referer != "" {
		req.Header.Set("Referer", referer)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request %s: status %d", rawURL, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", rawURL, err)
	}
	return nil
}

type emKlineResponse struct {
	Data *struct {
		Klines []string `json:"klines"`
	} `json:"data"`
}

// fetchKlines pulls daily bars; each kline is "date,close,amount".
func (f *LiveFetcher) fetchKlines(code string, days int) ([]model.PricePoint, []model.PricePoint, error) {
	beg := time.Now().AddDate(0, 0, -days).Format("20060102")
	u := fmt.Sprintf("https://push2his.eastmoney.com/api/qt/stock/kline/get?secid=%s"+
		"&klt=101&fqt=1&beg=%s&end=20500101&fields1=f1,f2,f3&fields2=f51,f53,f57",
		secid(code), beg)

	var out emKlineResponse
	if err := f.getJSON(u, "", &out); err != nil {
		return nil, nil, err
	}
	if out.Data == nil || len(out.Data.Klines) == 0 {
		return nil, nil, fmt.Errorf("no kline data for %s", code)
	}

	closes := make([]model.PricePoint, 0, len(out.Data.Klines))
	amounts := make([]model.PricePoint, 0, len(out.Data.Klines))
	for _, line := range out.Data.Klines {
		parts := strings.Split(line, ",")
		if len(parts) < 2 {
			continue
		}
		date, err := time.Parse("2006-01-02", parts[0])
		if err != nil {
			continue
		}
		if close, err := strconv.ParseFloat(parts[1], 64); err == nil {
			closes = append(closes, model.PricePoint{Date: date, Value: close})
		}
		if len(parts) >= 3 {
			if amount, err := strconv.ParseFloat(parts[2], 64); err == nil {
				amounts = append(amounts, model.PricePoint{Date: date, Value: amount})
			}
		}
	}
	return closes, amounts, nil
}

func (f *LiveFetcher) FetchIndexHistory(code string, market model.Market, days int) ([]model.PricePoint, error) {
	if market == model.MarketUS {
		return f.fetchYahooHistory(code, days)
	}
	closes, _, err := f.fetchKlines(code, days)
	return closes, err
}

func (f *LiveFetcher) FetchVolumeHistory(code string, days int) ([]model.PricePoint, error) {
	_, amounts, err := f.fetchKlines(code, days)
	return amounts, err
}

type emQuoteResponse struct {
	Data *struct {
		Price     float64 `json:"f43"`
		Amount    float64 `json:"f48"`
		Change    float64 `json:"f169"`
		ChangePct float64 `json:"f170"`
	} `json:"data"`
}

func (f *LiveFetcher) FetchIndexQuote(code, name string, market model.Market) (*model.IndexQuote, error) {
	if market == model.MarketUS {
		return f.fetchYahooQuote(code, name)
	}
	u := fmt.Sprintf("https://push2.eastmoney.com/api/qt/stock/get?secid=%s&fields=f43,f48,f169,f170", secid(code))
	var out emQuoteResponse
	if err := f.getJSON(u, "", &out); err != nil {
		return nil, err
	}
	if out.Data == nil || out.Data.Price == 0 {
		return nil, fmt.Errorf("no quote data for %s", code)
	}
	// Prices arrive scaled by 100.
	return &model.IndexQuote{
		Code:      code,
		Name:      name,
		Market:    model.MarketAShare,
		Price:     out.Data.Price / 100,
		Change:    out.Data.Change / 100,
		ChangePct: out.Data.ChangePct / 100,
		Amount:    out.Data.Amount,
		FetchedAt: time.Now(),
	}, nil
}

type emNavResponse struct {
	Data *struct {
		List []struct {
			Date string `json:"FSRQ"`
			Nav  string `json:"DWJZ"`
		} `json:"LSJZList"`
	} `json:"Data"`
}

func (f *LiveFetcher) FetchFundNavHistory(code string, days int) ([]model.PricePoint, error) {
	u := fmt.Sprintf("https://api.fund.eastmoney.com/f10/lsjz?fundCode=%s&pageIndex=1&pageSize=%d", code, days+20)
	var out emNavResponse
	if err := f.getJSON(u, "https://fundf10.eastmoney.com/", &out); err != nil {
		return nil, err
	}
	if out.Data == nil || len(out.Data.List) == 0 {
		return nil, fmt.Errorf("no nav history for fund %s", code)
	}
	cutoff := time.Now().AddDate(0, 0, -days)
	series := make([]model.PricePoint, 0, len(out.Data.List))
	for _, row := range out.Data.List {
		date, err := time.Parse("2006-01-02", row.Date)
		if err != nil || date.Before(cutoff) {
			continue
		}
		nav, err := strconv.ParseFloat(row.Nav, 64)
		if err != nil || nav <= 0 {
			continue
		}
		series = append(series, model.PricePoint{Date: date, Value: nav})
	}
	return series, nil
}

type fundgzPayload struct {
	Nav       string `json:"dwjz"`
	NavDate   string `json:"jzrq"`
	EstChgPct string `json:"gszzl"`
}

func (f *LiveFetcher) FetchFundCurrentNav(code string) (*model.FundNav, error) {
	u := fmt.Sprintf("https://fundgz.1234567.com.cn/js/%s.js?rt=%d", code, time.Now().UnixMilli())
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request fund nav: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	// Response is a JSONP wrapper: jsonpgz({...});
	text := strings.TrimSpace(string(body))
	text = strings.TrimPrefix(text, "jsonpgz(")
	text = strings.TrimSuffix(text, ");")
	var payload fundgzPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, fmt.Errorf("decode fund nav for %s: %w", code, err)
	}
	nav, err := strconv.ParseFloat(payload.Nav, 64)
	if err != nil || nav <= 0 {
		return nil, fmt.Errorf("invalid nav %q for fund %s", payload.Nav, code)
	}
	result := &model.FundNav{Nav: nav, NavDate: payload.NavDate}
	if pct, err := strconv.ParseFloat(payload.EstChgPct, 64); err == nil {
		result.DayChangePct = &pct
	}
	return result, nil
}

type djValuationResponse struct {
	Data *struct {
		Items []struct {
			TsMillis int64   `json:"ts"`
			PE       float64 `json:"pe"`
			PB       float64 `json:"pb"`
		} `json:"index_eva_growths"`
	} `json:"data"`
}

func (f *LiveFetcher) FetchValuationHistory(code, indicator string, years int) ([]model.PricePoint, error) {
	u := fmt.Sprintf("https://danjuanfunds.com/djapi/index_eva/%s_history/SH%s?day=all", indicator, code)
	if strings.HasPrefix(code, "399") {
		u = fmt.Sprintf("https://danjuanfunds.com/djapi/index_eva/%s_history/SZ%s?day=all", indicator, code)
	}
	var out djValuationResponse
	if err := f.getJSON(u, "https://danjuanfunds.com/", &out); err != nil {
		return nil, err
	}
	if out.Data == nil || len(out.Data.Items) == 0 {
		return nil, fmt.Errorf("no %s history for index %s", indicator, code)
	}
	cutoff := time.Now().AddDate(-years, 0, 0)
	series := make([]model.PricePoint, 0, len(out.Data.Items))
	for _, item := range out.Data.Items {
		date := time.UnixMilli(item.TsMillis)
		if date.Before(cutoff) {
			continue
		}
		value := item.PE
		if indicator == "pb" {
			value = item.PB
		}
		if value > 0 {
			series = append(series, model.PricePoint{Date: date, Value: value})
		}
	}
	return series, nil
}
