package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MetricName identifica um campo numérico comparável do Aggregate
type MetricName string

const (
	MetricTotalRevenue     MetricName = "totalRevenue"
	MetricTotalProfit      MetricName = "totalProfit"
	MetricTotalQuantity    MetricName = "totalQuantity"
	MetricTransactionCount MetricName = "transactionCount"
	MetricCompletedCount   MetricName = "completedCount"
	MetricCompletedRevenue MetricName = "completedRevenue"
	MetricCompletedProfit  MetricName = "completedProfit"
	MetricAvgOrderValue    MetricName = "avgOrderValue"
	MetricProfitMargin     MetricName = "profitMargin"
	MetricCompletionRate   MetricName = "completionRate"
)

var ComparableMetrics = []MetricName{
	MetricTotalRevenue,
	MetricTotalProfit,
	MetricTotalQuantity,
	MetricTransactionCount,
	MetricCompletedCount,
	MetricCompletedRevenue,
	MetricCompletedProfit,
	MetricAvgOrderValue,
	MetricProfitMargin,
	MetricCompletionRate,
}

// Aggregate reúne as métricas somadas e derivadas de um conjunto de transações.
// É efêmero: calculado por requisição e nunca persistido.
type Aggregate struct {
	TotalRevenue     decimal.Decimal        `json:"total_revenue"`
	TotalProfit      decimal.Decimal        `json:"total_profit"`
	TotalQuantity    int                    `json:"total_quantity"`
	TransactionCount int                    `json:"transaction_count"`
	CompletedCount   int                    `json:"completed_count"`
	CompletedRevenue decimal.Decimal        `json:"completed_revenue"`
	CompletedProfit  decimal.Decimal        `json:"completed_profit"`
	AvgOrderValue    decimal.Decimal        `json:"avg_order_value"`
	ProfitMargin     decimal.Decimal        `json:"profit_margin"`
	CompletionRate   decimal.Decimal        `json:"completion_rate"`
	StatusCounts     map[DeliveryStatus]int `json:"status_counts,omitempty"`
}

// Metric retorna o valor de uma métrica comparável
func (a Aggregate) Metric(name MetricName) decimal.Decimal {
	switch name {
	case MetricTotalRevenue:
		return a.TotalRevenue
	case MetricTotalProfit:
		return a.TotalProfit
	case MetricTotalQuantity:
		return decimal.NewFromInt(int64(a.TotalQuantity))
	case MetricTransactionCount:
		return decimal.NewFromInt(int64(a.TransactionCount))
	case MetricCompletedCount:
		return decimal.NewFromInt(int64(a.CompletedCount))
	case MetricCompletedRevenue:
		return a.CompletedRevenue
	case MetricCompletedProfit:
		return a.CompletedProfit
	case MetricAvgOrderValue:
		return a.AvgOrderValue
	case MetricProfitMargin:
		return a.ProfitMargin
	case MetricCompletionRate:
		return a.CompletionRate
	}
	return decimal.Zero
}

// IsZero indica um Aggregate sem nenhuma transação
func (a Aggregate) IsZero() bool {
	return a.TransactionCount == 0 && a.TotalRevenue.IsZero() && a.TotalProfit.IsZero()
}

// GroupAggregate é o Aggregate de uma chave de agrupamento (plataforma, loja, SKU, mês)
type GroupAggregate struct {
	Key   string `json:"key"`
	Label string `json:"label,omitempty"`
	Aggregate
	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`
}

// Direction é o sentido de uma variação percentual
type Direction string

const (
	DirectionIncrease Direction = "increase"
	DirectionDecrease Direction = "decrease"
	DirectionFlat     Direction = "flat"
)

// ChangeMetric é a variação percentual de uma métrica entre dois períodos
type ChangeMetric struct {
	Value     float64   `json:"value"`
	Direction Direction `json:"direction"`
}
