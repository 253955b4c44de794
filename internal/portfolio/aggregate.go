package portfolio

import (
	"log"
	"math"
	"regexp"
	"strings"
	"time"

	"FundRadar/internal/model"
)

// CodeResolver maps a fund's display name to its trading code. Empty
// string means unresolved; the fund then degrades to index estimation
// or passthrough downstream.
type CodeResolver interface {
	Resolve(fundName string) string
}

var parenRe = regexp.MustCompile(`\(.*?\)|（.*?）`)

// MapResolver resolves through a configured name→code table, with a
// cleaned-name fallback that ignores parenthesized suffixes and trailing
// share-class letters.
type MapResolver struct {
	Mapping map[string]string
}

func (r *MapResolver) Resolve(fundName string) string {
	if code, ok := r.Mapping[fundName]; ok {
		return code
	}
	clean := cleanFundName(fundName)
	for name, code := range r.Mapping {
		if cleanFundName(name) == clean {
			return code
		}
	}
	return ""
}

func cleanFundName(name string) string {
	s := parenRe.ReplaceAllString(name, "")
	s = strings.TrimSpace(s)
	if n := len(s); n > 0 {
		if c := s[n-1]; c >= 'A' && c <= 'Z' {
			s = s[:n-1]
		}
	}
	return s
}

// Aggregate folds raw transaction records into per-fund positions.
// Cleared positions (net invested <= 0) are dropped. Buy-side detail is
// retained per transaction so valuation can reconstruct shares.
func Aggregate(records []model.TransactionRecord, resolver CodeResolver) *model.Portfolio {
	type bucket struct {
		buy  float64
		sell float64
		txs  []model.TransactionRecord
	}
	buckets := make(map[string]*bucket)
	order := make([]string, 0)

	for _, rec := range records {
		if rec.FundName == "" || rec.Amount <= 0 {
			continue
		}
		b, ok := buckets[rec.FundName]
		if !ok {
			b = &bucket{}
			buckets[rec.FundName] = b
			order = append(order, rec.FundName)
		}
		b.txs = append(b.txs, rec)
		switch {
		case rec.Action.IsBuy():
			b.buy += rec.Amount
		case rec.Action.IsSell():
			b.sell += rec.Amount
		}
	}

	p := &model.Portfolio{
		Funds:     make(map[string]*model.FundPosition),
		UpdatedAt: time.Now().Format("2006-01-02 15:04:05"),
	}

	for _, name := range order {
		b := buckets[name]
		net := b.buy - b.sell
		if net <= 0 {
			log.Printf("[INFO] 跳过已清仓基金: %s", name)
			continue
		}

		code := ""
		if resolver != nil {
			code = resolver.Resolve(name)
		}
		if code == "" {
			log.Printf("[WARN] 未找到基金代码: %s", name)
		}

		pos := &model.FundPosition{
			Code:             code,
			Name:             name,
			TotalInvested:    round2(b.buy),
			TotalRedeemed:    round2(b.sell),
			NetInvested:      round2(net),
			TransactionCount: len(b.txs),
		}
		for _, tx := range b.txs {
			if !tx.Action.IsBuy() {
				continue
			}
			pos.BuyTransactions = append(pos.BuyTransactions, model.Transaction{
				OrderTime: tx.Time,
				Amount:    tx.Amount,
			})
			if pos.FirstBuy == "" || tx.Time < pos.FirstBuy {
				pos.FirstBuy = tx.Time
			}
			if tx.Time > pos.LastBuy {
				pos.LastBuy = tx.Time
			}
		}

		p.Funds[name] = pos
		p.Summary.TotalInvested += b.buy
		p.Summary.TotalRedeemed += b.sell
		p.Summary.FundCount++
	}

	p.Summary.TotalInvested = round2(p.Summary.TotalInvested)
	p.Summary.TotalRedeemed = round2(p.Summary.TotalRedeemed)
	p.Summary.NetInvested = round2(p.Summary.TotalInvested - p.Summary.TotalRedeemed)
	return p
}

// Weights returns each fund's share of total invested capital as a
// percentage, keyed by fund name.
func Weights(p *model.Portfolio) map[string]float64 {
	weights := make(map[string]float64, len(p.Funds))
	total := 0.0
	for _, pos := range p.Funds {
		total += pos.TotalInvested
	}
	if total <= 0 {
		return weights
	}
	for name, pos := range p.Funds {
		weights[name] = pos.TotalInvested / total * 100
	}
	return weights
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
