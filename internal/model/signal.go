package model

// SignalAction is the categorical output of the smart-signal scoring.
type SignalAction string

const (
	ActionBuy    SignalAction = "buy"
	ActionHold   SignalAction = "hold"
	ActionWatch  SignalAction = "watch"
	ActionReduce SignalAction = "reduce"
	ActionSell   SignalAction = "sell"
)

// SmartSignal is the additive buy/sell score breakdown for one index.
// SellScore may go negative through the bull-pullback adjustment; only
// NetScore = BuyScore - SellScore is consumed downstream.
type SmartSignal struct {
	Action     SignalAction `json:"action"`
	Confidence int          `json:"confidence"` // 1-5
	BuyScore   int          `json:"buy_score"`
	SellScore  int          `json:"sell_score"`
	NetScore   int          `json:"net_score"`
	Reasons    []string     `json:"reasons"`
}

// PeriodChanges holds trailing returns in percent; nil when history is
// too short for the window.
type PeriodChanges struct {
	D5  *float64 `json:"5d"`
	D10 *float64 `json:"10d"`
	D20 *float64 `json:"20d"`
	D30 *float64 `json:"30d"`
}

// MovingAverages holds simple moving averages; nil when history is too
// short for the window.
type MovingAverages struct {
	MA5  *float64 `json:"ma5"`
	MA10 *float64 `json:"ma10"`
	MA20 *float64 `json:"ma20"`
	MA60 *float64 `json:"ma60"`
}

// TrendSnapshot is the per-index technical picture for one run.
type TrendSnapshot struct {
	Code          string         `json:"code"`
	Name          string         `json:"name"`
	Market        Market         `json:"market"`
	Price         float64        `json:"price"`
	Changes       PeriodChanges  `json:"changes"`
	MAs           MovingAverages `json:"mas"`
	MA20Slope     *float64       `json:"ma20_slope,omitempty"`
	DaysBelowMA10 int            `json:"days_below_ma10"`
	RSI           *float64       `json:"rsi,omitempty"`
	VolumeRatio   *float64       `json:"volume_ratio,omitempty"` // percent, 100 = flat vs 5d avg
	Signal        *SmartSignal   `json:"smart_signal,omitempty"`
	Err           string         `json:"error,omitempty"`
}

// RecAction is a portfolio-contextual recommendation.
type RecAction string

const (
	RecStrongBuy     RecAction = "strong_buy"
	RecBuyDip        RecAction = "buy_dip"
	RecAccumulate    RecAction = "accumulate"
	RecSmallPosition RecAction = "small_position"
	RecHold          RecAction = "hold"
	RecWait          RecAction = "wait"
	RecTrim          RecAction = "trim"
	RecReduce        RecAction = "reduce"
	RecTakeProfit    RecAction = "take_profit"
)

// RecMetrics carries the classified inputs behind a recommendation.
type RecMetrics struct {
	TrendStrength  string   `json:"trend_strength"`  // strong / medium / weak
	ValuationLevel string   `json:"valuation_level"` // low / medium / high
	PositionBand   string   `json:"position_band"`   // heavy / medium / light / empty
	NetScore       int      `json:"net_score"`
	Percentile     *float64 `json:"percentile,omitempty"`
	WeightPct      float64  `json:"weight_pct"`
}

// Recommendation combines trend, valuation and position weight for one
// tracked index.
type Recommendation struct {
	IndexCode      string     `json:"index_code"`
	IndexName      string     `json:"index_name"`
	Action         RecAction  `json:"action"`
	Confidence     int        `json:"confidence"` // 1-5
	Context        string     `json:"context"`
	Reasoning      []string   `json:"reasoning"`
	RiskWarnings   []string   `json:"risk_warning,omitempty"`
	PositionAdvice string     `json:"position_advice"`
	Metrics        RecMetrics `json:"metrics"`
}
