package domain

// AnalyticsQuery são os filtros comuns das telas de análise
type AnalyticsQuery struct {
	Timeframe   Timeframe
	PlatformIDs []string
	StoreIDs    []string
	// Critério do ranking (revenue, profit, margin, transactionCount, quantity)
	RankBy string
	Limit  int
}

// SummaryReport é o resumo do dashboard: período atual, anterior e variações
type SummaryReport struct {
	Periods  Periods                     `json:"periods"`
	Current  Aggregate                   `json:"current"`
	Previous Aggregate                   `json:"previous"`
	Changes  map[MetricName]ChangeMetric `json:"changes"`
	Coercion *CoercionSummary            `json:"coercion,omitempty"`
	// Truncated indica agregados parciais: algum período tinha mais vendas que RowsLimit
	Truncated bool   `json:"truncated"`
	RowsLimit uint64 `json:"rows_limit,omitempty"`
}

// CoercionSummary informa quantas linhas precisaram de correção na leitura
type CoercionSummary struct {
	RowsSeen    int            `json:"rows_seen"`
	RowsCoerced int            `json:"rows_coerced"`
	FieldIssues map[string]int `json:"field_issues,omitempty"`
}

// GroupPerformance é um grupo ranqueado com a variação em relação ao período anterior
type GroupPerformance struct {
	Position int            `json:"position"`
	Current  GroupAggregate `json:"current"`
	// Previous é nil quando o grupo não vendeu no período anterior
	Previous *Aggregate                  `json:"previous,omitempty"`
	Changes  map[MetricName]ChangeMetric `json:"changes"`
	Share    float64                     `json:"share"` // participação na receita total (%)
}

type PerformanceReport struct {
	Periods Periods            `json:"periods"`
	RankBy  string             `json:"rank_by"`
	Total   Aggregate          `json:"total"`
	Groups  []GroupPerformance `json:"groups"`
	// Truncated indica agregados parciais: algum período tinha mais vendas que RowsLimit
	Truncated bool   `json:"truncated"`
	RowsLimit uint64 `json:"rows_limit,omitempty"`
}

type InsightsReport struct {
	Periods       Periods          `json:"periods"`
	Insights      []Insight        `json:"insights"`
	MonthlySeries []GroupAggregate `json:"monthly_series"`
	// Truncated indica agregados parciais: algum período tinha mais vendas que RowsLimit
	Truncated bool   `json:"truncated"`
	RowsLimit uint64 `json:"rows_limit,omitempty"`
}
