package domain

type InsightType string

const (
	InsightRevenueGrowth InsightType = "revenue_growth"
	InsightPlatformGap   InsightType = "platform_gap"
	InsightConcentration InsightType = "revenue_concentration"
	InsightMargin        InsightType = "profit_margin"
	InsightSeasonality   InsightType = "seasonality"
)

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Weight ordena prioridades: high > medium > low
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Insight é uma observação qualitativa derivada dos agregados
type Insight struct {
	Type            InsightType `json:"type"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	Sentiment       Sentiment   `json:"sentiment"`
	Value           float64     `json:"value"`
	Actionable      bool        `json:"actionable"`
	Recommendations []string    `json:"recommendations"`
	Priority        Priority    `json:"priority"`
}
