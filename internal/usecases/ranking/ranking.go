package ranking

import (
	"slices"
	"strings"

	"github.com/vfg2006/sales-analytics-api/internal/domain"
)

// Metric é o critério de ordenação do ranking
type Metric string

const (
	ByRevenue          Metric = "revenue"
	ByProfit           Metric = "profit"
	ByMargin           Metric = "margin"
	ByTransactionCount Metric = "transactionCount"
	ByQuantity         Metric = "quantity"
)

var metricFields = map[Metric]domain.MetricName{
	ByRevenue:          domain.MetricTotalRevenue,
	ByProfit:           domain.MetricTotalProfit,
	ByMargin:           domain.MetricProfitMargin,
	ByTransactionCount: domain.MetricTransactionCount,
	ByQuantity:         domain.MetricTotalQuantity,
}

// ParseMetric aceita o critério vindo da query string; vazio significa receita
func ParseMetric(s string) (Metric, bool) {
	if strings.TrimSpace(s) == "" {
		return ByRevenue, true
	}
	m := Metric(strings.TrimSpace(s))
	_, ok := metricFields[m]
	return m, ok
}

// Rank ordena os grupos de forma decrescente pela métrica. Empates são resolvidos
// pela chave em ordem lexical crescente, então a saída é sempre a mesma.
func Rank(groups map[string]*domain.GroupAggregate, by Metric) []domain.GroupAggregate {
	list := make([]domain.GroupAggregate, 0, len(groups))
	for _, g := range groups {
		if g != nil {
			list = append(list, *g)
		}
	}
	return RankList(list, by)
}

// RankList ordena uma cópia da lista recebida
func RankList(groups []domain.GroupAggregate, by Metric) []domain.GroupAggregate {
	field, ok := metricFields[by]
	if !ok {
		field = domain.MetricTotalRevenue
	}

	ranked := slices.Clone(groups)
	slices.SortFunc(ranked, func(a, b domain.GroupAggregate) int {
		if c := b.Metric(field).Cmp(a.Metric(field)); c != 0 {
			return c
		}
		return strings.Compare(a.Key, b.Key)
	})

	return ranked
}

// Top devolve os n primeiros do ranking (ou todos, se houver menos)
func Top(ranked []domain.GroupAggregate, n int) []domain.GroupAggregate {
	if n < 0 {
		n = 0
	}
	if n >= len(ranked) {
		return ranked
	}
	return ranked[:n]
}

// Positions devolve a posição (1-based) de cada chave no ranking
func Positions(ranked []domain.GroupAggregate) map[string]int {
	positions := make(map[string]int, len(ranked))
	for i, g := range ranked {
		positions[g.Key] = i + 1
	}
	return positions
}
