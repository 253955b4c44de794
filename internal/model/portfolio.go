package model

// TxAction classifies a raw portfolio transaction.
type TxAction string

const (
	TxBuy        TxAction = "buy"
	TxAutoInvest TxAction = "auto_invest"
	TxSell       TxAction = "sell"
	TxRedeem     TxAction = "redeem"
	TxDividend   TxAction = "dividend"
)

// IsBuy reports whether the action adds money to a position.
func (a TxAction) IsBuy() bool { return a == TxBuy || a == TxAutoInvest }

// IsSell reports whether the action takes money out of a position.
func (a TxAction) IsSell() bool { return a == TxSell || a == TxRedeem }

// TransactionRecord is one raw record from an imported bill, before
// aggregation into positions.
type TransactionRecord struct {
	Time     string   `json:"time"` // "2006/01/02 15:04" or "2006-01-02 15:04:05"
	FundName string   `json:"fund_name"`
	Action   TxAction `json:"action"`
	Amount   float64  `json:"amount"`
}

// Transaction is a single confirmed-or-pending buy kept inside a position.
// OrderTime stays a string: it is the source of truth from the bill and
// may be a bare date or unparseable; the valuation engine decides.
type Transaction struct {
	OrderTime string  `json:"date"`
	Amount    float64 `json:"amount"`
}

// FundPosition is the durable per-fund holding reconstructed from
// transactions. Code may be empty when no fund code could be resolved;
// valuation then degrades to index estimation or passthrough.
type FundPosition struct {
	Code             string        `json:"code"`
	Name             string        `json:"name"`
	TotalInvested    float64       `json:"total_invested"`
	TotalRedeemed    float64       `json:"total_redeemed"`
	NetInvested      float64       `json:"net_invested"`
	TransactionCount int           `json:"transaction_count"`
	FirstBuy         string        `json:"first_buy,omitempty"`
	LastBuy          string        `json:"last_buy,omitempty"`
	BuyTransactions  []Transaction `json:"buy_transactions"`
}

// PortfolioSummary aggregates invested amounts across all positions.
type PortfolioSummary struct {
	TotalInvested float64 `json:"total_invested"`
	TotalRedeemed float64 `json:"total_redeemed"`
	NetInvested   float64 `json:"net_invested"`
	FundCount     int     `json:"fund_count"`
}

// Portfolio is the durable state persisted between runs.
type Portfolio struct {
	Funds     map[string]*FundPosition `json:"funds"`
	Summary   PortfolioSummary         `json:"summary"`
	UpdatedAt string                   `json:"updated_at"`
	Source    string                   `json:"source,omitempty"`
}
