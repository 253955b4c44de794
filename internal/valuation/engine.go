package valuation

import (
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"FundRadar/internal/collector"
	"FundRadar/internal/config"
	"FundRadar/internal/model"
)

// Engine values fund positions against live NAV data, falling back to
// index-based estimation when NAVs are unavailable. QDII funds tracking
// a US index always use the index path because their published NAV lags
// a day behind.
type Engine struct {
	Fetcher collector.Fetcher
	Cache   *collector.HistoryCache
	Mapping map[string]config.IndexMapping
	NavDays int

	// Now is replaceable in tests.
	Now func() time.Time
}

// NewEngine wires a valuation engine over a shared history cache.
func NewEngine(fetcher collector.Fetcher, cache *collector.HistoryCache, mapping map[string]config.IndexMapping, navDays int) *Engine {
	if navDays <= 0 {
		navDays = 60
	}
	return &Engine{
		Fetcher: fetcher,
		Cache:   cache,
		Mapping: mapping,
		NavDays: navDays,
		Now:     time.Now,
	}
}

// navOn returns the NAV effective on target: the latest point at or
// before target, or the earliest point when target predates the series.
func navOn(history []model.PricePoint, target time.Time) (float64, bool) {
	if len(history) == 0 {
		return 0, false
	}
	for i := len(history) - 1; i >= 0; i-- {
		if !history[i].Date.After(target) {
			return history[i].Value, true
		}
	}
	return history[0].Value, true
}

// confirmDate applies the 15:00 cutoff rule: an order placed before
// 15:00 on a trading day confirms at that day's NAV, anything else
// confirms at the next trading day. No later trading day means the NAV
// is not yet published.
func confirmDate(orderTime time.Time, history []model.PricePoint) (time.Time, bool) {
	isTradingDay := false
	for _, p := range history {
		if sameDay(p.Date, orderTime) {
			isTradingDay = true
			break
		}
	}
	if isTradingDay && orderTime.Hour() < 15 {
		return time.Date(orderTime.Year(), orderTime.Month(), orderTime.Day(), 0, 0, 0, 0, orderTime.Location()), true
	}
	dayEnd := time.Date(orderTime.Year(), orderTime.Month(), orderTime.Day(), 23, 59, 59, 0, orderTime.Location())
	for _, p := range history {
		if p.Date.After(dayEnd) {
			return p.Date, true
		}
	}
	return time.Time{}, false
}

// ValuateByNav reconstructs shares from each buy transaction's confirmed
// NAV. Returns nil when NAV data cannot support the calculation, so the
// caller can fall back to index estimation.
func (e *Engine) ValuateByNav(pos *model.FundPosition) *model.ValuationResult {
	if pos.Code == "" || len(pos.BuyTransactions) == 0 {
		return nil
	}
	current, err := e.Fetcher.FetchFundCurrentNav(pos.Code)
	if err != nil || current == nil || current.Nav <= 0 {
		return nil
	}
	history := e.Cache.FundNavHistory(pos.Code, e.NavDays)
	if len(history) == 0 {
		return nil
	}

	result := &model.ValuationResult{
		Name:          pos.Name,
		Code:          pos.Code,
		TotalInvested: pos.NetInvested,
		CalcMethod:    model.CalcByNav,
		CurrentNav:    current.Nav,
		NavDate:       current.NavDate,
		DayChangePct:  current.DayChangePct,
	}

	var totalShares, totalCost, unconfirmed float64
	for _, tx := range pos.BuyTransactions {
		if tx.Amount <= 0 {
			continue
		}
		orderTime, ok := ParseOrderTime(tx.OrderTime)
		if !ok {
			unconfirmed += tx.Amount
			result.Details = append(result.Details, model.CalcDetail{
				OrderTime: tx.OrderTime,
				Amount:    tx.Amount,
				Note:      "时间解析失败，按原金额计入",
			})
			continue
		}
		confirm, ok := confirmDate(orderTime, history)
		if !ok {
			unconfirmed += tx.Amount
			result.Details = append(result.Details, model.CalcDetail{
				OrderTime: tx.OrderTime,
				Amount:    tx.Amount,
				Note:      "净值待更新，按原金额计入",
			})
			continue
		}
		buyNav, ok := navOn(history, confirm)
		if !ok || buyNav <= 0 {
			unconfirmed += tx.Amount
			result.Details = append(result.Details, model.CalcDetail{
				OrderTime:   tx.OrderTime,
				ConfirmDate: confirm.Format("2006-01-02"),
				Amount:      tx.Amount,
				Note:        "无法获取确认净值，按原金额计入",
			})
			continue
		}
		shares := tx.Amount / buyNav
		totalShares += shares
		totalCost += tx.Amount
		result.Details = append(result.Details, model.CalcDetail{
			OrderTime:   tx.OrderTime,
			ConfirmDate: confirm.Format("2006-01-02"),
			Amount:      tx.Amount,
			Nav:         round4(buyNav),
			Shares:      round2(shares),
		})
	}

	if totalShares <= 0 && unconfirmed <= 0 {
		return nil
	}

	confirmedValue := totalShares * current.Nav
	marketValue := confirmedValue + unconfirmed
	profit := confirmedValue - totalCost
	actualCost := totalCost + unconfirmed
	profitPct := 0.0
	if actualCost > 0 {
		profitPct = profit / actualCost * 100
	}

	result.TotalShares = round2(totalShares)
	if totalShares > 0 {
		result.AvgCost = round4(totalCost / totalShares)
	}
	result.MarketValue = round2(marketValue)
	result.Profit = round2(profit)
	result.ProfitPct = round2(profitPct)
	result.UnconfirmedAmount = unconfirmed
	return result
}

// ValuateByIndex estimates each buy as amount grown by the tracking
// index's move since purchase, scaled by the tracking ratio. Always
// returns a result; missing data degrades to a breakeven passthrough
// with an explanatory note.
func (e *Engine) ValuateByIndex(pos *model.FundPosition) *model.ValuationResult {
	result := &model.ValuationResult{
		Name:          pos.Name,
		Code:          pos.Code,
		TotalInvested: pos.NetInvested,
		CalcMethod:    model.CalcByIndex,
	}
	passthrough := func(note string) *model.ValuationResult {
		result.MarketValue = pos.NetInvested
		result.Profit = 0
		result.ProfitPct = 0
		result.Note = note
		return result
	}

	if pos.Code == "" {
		return passthrough("缺少基金代码")
	}
	mapping, ok := e.Mapping[pos.Code]
	if !ok {
		return passthrough("未配置跟踪指数")
	}
	result.TrackingIndex = mapping.IndexName
	result.TrackingRatio = mapping.TrackingRatio

	history := e.Cache.IndexHistory(mapping.IndexCode, mapping.Market, e.NavDays)
	if len(history) == 0 {
		return passthrough(fmt.Sprintf("无法获取指数 %s 历史数据", mapping.IndexCode))
	}
	today, ok := navOn(history, e.Now())
	if !ok || today <= 0 {
		return passthrough("无法获取今日指数")
	}
	result.IndexToday = today

	var totalMarketValue float64
	for _, tx := range pos.BuyTransactions {
		if tx.Amount <= 0 {
			continue
		}
		orderDate, ok := ParseOrderDate(tx.OrderTime)
		if !ok {
			totalMarketValue += tx.Amount
			result.Details = append(result.Details, model.CalcDetail{
				OrderTime:   tx.OrderTime,
				Amount:      tx.Amount,
				MarketValue: tx.Amount,
				Note:        "日期解析失败",
			})
			continue
		}
		buyValue, ok := navOn(history, orderDate)
		if !ok || buyValue <= 0 {
			totalMarketValue += tx.Amount
			result.Details = append(result.Details, model.CalcDetail{
				OrderTime:   tx.OrderTime,
				Amount:      tx.Amount,
				MarketValue: tx.Amount,
				Note:        "无法获取买入日指数",
			})
			continue
		}
		indexChange := (today - buyValue) / buyValue
		fundChange := indexChange * mapping.TrackingRatio
		marketValue := tx.Amount * (1 + fundChange)
		totalMarketValue += marketValue
		result.Details = append(result.Details, model.CalcDetail{
			OrderTime:      tx.OrderTime,
			Amount:         tx.Amount,
			IndexBuy:       round2(buyValue),
			IndexToday:     round2(today),
			IndexChangePct: round2(indexChange * 100),
			FundChangePct:  round2(fundChange * 100),
			MarketValue:    round2(marketValue),
		})
	}

	profit := totalMarketValue - pos.NetInvested
	profitPct := 0.0
	if pos.NetInvested > 0 {
		profitPct = profit / pos.NetInvested * 100
	}
	result.MarketValue = round2(totalMarketValue)
	result.Profit = round2(profit)
	result.ProfitPct = round2(profitPct)
	return result
}

// EstimateTodayChange looks up today's move of a fund's tracking index
// from live quotes and scales it by the tracking ratio. The Nasdaq-100
// is approximated by the composite when only that quote is available.
func (e *Engine) EstimateTodayChange(fundCode string, quotes []*model.IndexQuote) (pct *float64, indexName string) {
	mapping, ok := e.Mapping[fundCode]
	if !ok {
		return nil, ""
	}
	indexName = mapping.IndexName

	var indexPct *float64
	for _, q := range quotes {
		if q.Code == mapping.IndexCode && q.Market == mapping.Market {
			v := q.ChangePct
			indexPct = &v
			break
		}
	}
	if indexPct == nil && mapping.IndexCode == "^NDX" {
		for _, q := range quotes {
			if q.Code == "^IXIC" {
				v := q.ChangePct
				indexPct = &v
				indexName = "纳斯达克(近似)"
				break
			}
		}
	}
	if indexPct == nil {
		return nil, indexName
	}
	est := round2(*indexPct * mapping.TrackingRatio)
	return &est, indexName
}

// ValuatePortfolio values every position. A-share funds use NAV
// reconstruction with index fallback; funds mapped to a US index use
// the index path directly. Funds come back sorted by market value.
func (e *Engine) ValuatePortfolio(p *model.Portfolio, quotes []*model.IndexQuote) *model.PortfolioValuation {
	out := &model.PortfolioValuation{
		UpdatedAt: e.Now().Format("2006-01-02 15:04:05"),
	}

	var totalInvested, totalMarketValue, todayProfit float64
	hasTodayEstimate := false

	names := make([]string, 0, len(p.Funds))
	for name := range p.Funds {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		pos := p.Funds[name]
		log.Printf("[INFO] 计算估值: %s", pos.Name)

		isQDII := false
		if m, ok := e.Mapping[pos.Code]; ok && m.Market == model.MarketUS {
			isQDII = true
		}

		var result *model.ValuationResult
		if isQDII {
			result = e.ValuateByIndex(pos)
		} else {
			result = e.ValuateByNav(pos)
			if result == nil {
				result = e.ValuateByIndex(pos)
			}
		}

		if len(quotes) > 0 && result.Code != "" {
			est, indexName := e.EstimateTodayChange(result.Code, quotes)
			result.TodayEstimatedPct = est
			if result.TrackingIndex == "" {
				result.TrackingIndex = indexName
			}
			if est != nil && result.MarketValue > 0 {
				profit := round2(result.MarketValue * *est / 100)
				result.TodayEstimatedProfit = &profit
				todayProfit += profit
				hasTodayEstimate = true
			}
		}

		out.Funds = append(out.Funds, result)
		totalInvested += result.TotalInvested
		totalMarketValue += result.MarketValue
	}

	sort.SliceStable(out.Funds, func(i, j int) bool {
		return out.Funds[i].MarketValue > out.Funds[j].MarketValue
	})

	totalProfit := totalMarketValue - totalInvested
	out.Summary = model.ValuationSummary{
		TotalInvested:    round2(totalInvested),
		TotalMarketValue: round2(totalMarketValue),
		TotalProfit:      round2(totalProfit),
		FundCount:        len(out.Funds),
	}
	if totalInvested > 0 {
		out.Summary.TotalProfitPct = round2(totalProfit / totalInvested * 100)
	}
	if hasTodayEstimate {
		profit := round2(todayProfit)
		out.Summary.TodayEstimatedProfit = &profit
		if totalMarketValue > 0 {
			pct := round2(todayProfit / totalMarketValue * 100)
			out.Summary.TodayEstimatedPct = &pct
		}
	}
	return out
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
