// Package aggregating concentra a soma de transações em métricas.
// Todas as telas de análise usam este mesmo agregador.
package aggregating

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/sales-analytics-api/internal/domain"
)

// GroupKey define por qual chave as transações são agrupadas
type GroupKey string

const (
	GroupByPlatform GroupKey = "platform"
	GroupByStore    GroupKey = "store"
	GroupByProduct  GroupKey = "product"
	GroupByMonth    GroupKey = "month"
)

// MonthLayout é o formato da chave de agrupamento mensal
const MonthLayout = "2006-01"

var hundred = decimal.NewFromInt(100)

// CompletionPredicate decide quais status contam como venda concluída
type CompletionPredicate func(domain.DeliveryStatus) bool

// CompletedOnly é o predicado padrão: apenas Completed
func CompletedOnly(s domain.DeliveryStatus) bool {
	return s == domain.DeliveryStatusCompleted
}

// Aggregator soma transações. O valor zero usa CompletedOnly.
type Aggregator struct {
	IsCompleted CompletionPredicate
}

func New(isCompleted CompletionPredicate) Aggregator {
	return Aggregator{IsCompleted: isCompleted}
}

func (a Aggregator) completed(s domain.DeliveryStatus) bool {
	if a.IsCompleted == nil {
		return CompletedOnly(s)
	}
	return a.IsCompleted(s)
}

// Aggregate soma as transações com o predicado padrão
func Aggregate(rows []domain.Transaction) domain.Aggregate {
	return Aggregator{}.Aggregate(rows)
}

// GroupBy agrupa com o predicado padrão
func GroupBy(rows []domain.Transaction, key GroupKey) map[string]*domain.GroupAggregate {
	return Aggregator{}.GroupBy(rows, key)
}

// MonthlySeries monta a série mensal com o predicado padrão
func MonthlySeries(rows []domain.Transaction, from, to time.Time) []domain.GroupAggregate {
	return Aggregator{}.MonthlySeries(rows, from, to)
}

// accumulator guarda só as somas; as razões são calculadas no fim da passada
type accumulator struct {
	revenue          decimal.Decimal
	profit           decimal.Decimal
	quantity         int
	count            int
	completedCount   int
	completedRevenue decimal.Decimal
	completedProfit  decimal.Decimal
	statuses         map[domain.DeliveryStatus]int
}

func (acc *accumulator) add(t *domain.Transaction, completed bool) {
	acc.revenue = acc.revenue.Add(t.SellingPrice)
	acc.profit = acc.profit.Add(t.Profit)
	acc.quantity += t.Quantity
	acc.count++

	if acc.statuses == nil {
		acc.statuses = make(map[domain.DeliveryStatus]int)
	}
	acc.statuses[t.DeliveryStatus]++

	if completed {
		acc.completedCount++
		acc.completedRevenue = acc.completedRevenue.Add(t.SellingPrice)
		acc.completedProfit = acc.completedProfit.Add(t.Profit)
	}
}

func (acc *accumulator) result() domain.Aggregate {
	agg := domain.Aggregate{
		TotalRevenue:     acc.revenue,
		TotalProfit:      acc.profit,
		TotalQuantity:    acc.quantity,
		TransactionCount: acc.count,
		CompletedCount:   acc.completedCount,
		CompletedRevenue: acc.completedRevenue,
		CompletedProfit:  acc.completedProfit,
		StatusCounts:     acc.statuses,
	}

	if acc.completedCount > 0 {
		agg.AvgOrderValue = acc.completedRevenue.Div(decimal.NewFromInt(int64(acc.completedCount)))
	}
	if !acc.revenue.IsZero() {
		agg.ProfitMargin = acc.profit.Div(acc.revenue).Mul(hundred)
	}
	if acc.count > 0 {
		agg.CompletionRate = decimal.NewFromInt(int64(acc.completedCount)).
			Div(decimal.NewFromInt(int64(acc.count))).
			Mul(hundred)
	}

	return agg
}

// Aggregate percorre as linhas uma única vez. Entrada vazia devolve o Aggregate zerado.
func (a Aggregator) Aggregate(rows []domain.Transaction) domain.Aggregate {
	var acc accumulator
	for i := range rows {
		acc.add(&rows[i], a.completed(rows[i].DeliveryStatus))
	}
	return acc.result()
}

type groupState struct {
	acc       accumulator
	label     string
	firstSeen time.Time
	lastSeen  time.Time
}

// GroupBy devolve um GroupAggregate por chave distinta. Cada linha cai em exatamente um grupo.
func (a Aggregator) GroupBy(rows []domain.Transaction, key GroupKey) map[string]*domain.GroupAggregate {
	states := make(map[string]*groupState)

	for i := range rows {
		t := &rows[i]
		k := keyOf(t, key)

		st, ok := states[k]
		if !ok {
			st = &groupState{firstSeen: t.OccurredAt, lastSeen: t.OccurredAt}
			states[k] = st
		}
		if key == GroupByProduct && st.label == "" {
			st.label = t.ProductName
		}
		if t.OccurredAt.Before(st.firstSeen) {
			st.firstSeen = t.OccurredAt
		}
		if t.OccurredAt.After(st.lastSeen) {
			st.lastSeen = t.OccurredAt
		}

		st.acc.add(t, a.completed(t.DeliveryStatus))
	}

	groups := make(map[string]*domain.GroupAggregate, len(states))
	for k, st := range states {
		groups[k] = &domain.GroupAggregate{
			Key:       k,
			Label:     st.label,
			Aggregate: st.acc.result(),
			FirstSeen: st.firstSeen,
			LastSeen:  st.lastSeen,
		}
	}

	return groups
}

// MonthlySeries devolve um grupo por mês do calendário (UTC) entre from e to (inclusive),
// em ordem cronológica. Meses sem venda entram zerados.
func (a Aggregator) MonthlySeries(rows []domain.Transaction, from, to time.Time) []domain.GroupAggregate {
	if to.Before(from) {
		return nil
	}

	byMonth := a.GroupBy(rows, GroupByMonth)

	from, to = from.UTC(), to.UTC()
	cursor := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, time.UTC)

	var series []domain.GroupAggregate
	for !cursor.After(last) {
		k := cursor.Format(MonthLayout)
		if g, ok := byMonth[k]; ok {
			series = append(series, *g)
		} else {
			series = append(series, domain.GroupAggregate{Key: k})
		}
		cursor = cursor.AddDate(0, 1, 0)
	}

	return series
}

// Values extrai apenas os Aggregates de uma lista de grupos, mantendo a ordem
func Values(groups []domain.GroupAggregate) []domain.Aggregate {
	out := make([]domain.Aggregate, len(groups))
	for i := range groups {
		out[i] = groups[i].Aggregate
	}
	return out
}

func keyOf(t *domain.Transaction, key GroupKey) string {
	switch key {
	case GroupByPlatform:
		return t.PlatformID
	case GroupByStore:
		return t.StoreID
	case GroupByProduct:
		return t.ProductSKU
	case GroupByMonth:
		return t.OccurredAt.UTC().Format(MonthLayout)
	}
	return ""
}
