package model

// SentimentSignal is the direction a single sentiment indicator points.
type SentimentSignal string

const (
	SentimentVeryBullish SentimentSignal = "very_bullish"
	SentimentBullish     SentimentSignal = "bullish"
	SentimentNeutral     SentimentSignal = "neutral"
	SentimentBearish     SentimentSignal = "bearish"
	SentimentVeryBearish SentimentSignal = "very_bearish"
)

// BreadthStats is the raw advance/decline picture of the A-share market.
type BreadthStats struct {
	RiseCount  int     `json:"rise_count"`
	FallCount  int     `json:"fall_count"`
	FlatCount  int     `json:"flat_count"`
	LimitUp    int     `json:"limit_up"`
	LimitDown  int     `json:"limit_down"`
	NetHighLow int     `json:"net_high_low"` // 20d new highs minus new lows
	RiseRatio  float64 `json:"rise_ratio"`   // advancers / decliners
}

// BreadthSignal is the scored interpretation of BreadthStats.
type BreadthSignal struct {
	Stats       BreadthStats    `json:"breadth"`
	Score       int             `json:"score"`
	Signal      SentimentSignal `json:"signal"`
	Description string          `json:"description"`
}

// SentimentSummary is the weighted composite market-sentiment score,
// in [-100, 100].
type SentimentSummary struct {
	Score       int             `json:"score"`
	Signal      SentimentSignal `json:"signal"`
	Description string          `json:"description"`
}
