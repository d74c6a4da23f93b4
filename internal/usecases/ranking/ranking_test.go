package ranking

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-analytics-api/internal/domain"
)

func group(key string, revenue, profit, margin int64, count int) *domain.GroupAggregate {
	return &domain.GroupAggregate{
		Key: key,
		Aggregate: domain.Aggregate{
			TotalRevenue:     decimal.NewFromInt(revenue),
			TotalProfit:      decimal.NewFromInt(profit),
			ProfitMargin:     decimal.NewFromInt(margin),
			TransactionCount: count,
			TotalQuantity:    count * 2,
		},
	}
}

func keys(ranked []domain.GroupAggregate) []string {
	out := make([]string, len(ranked))
	for i, g := range ranked {
		out[i] = g.Key
	}
	return out
}

func TestRank(t *testing.T) {
	groups := map[string]*domain.GroupAggregate{
		"shopee":        group("shopee", 500, 50, 10, 9),
		"amazon":        group("amazon", 500, 120, 24, 3),
		"mercado-livre": group("mercado-livre", 900, 90, 10, 7),
		"magalu":        group("magalu", 100, 40, 40, 3),
	}

	tests := []struct {
		by   Metric
		want []string
	}{
		{ByRevenue, []string{"mercado-livre", "amazon", "shopee", "magalu"}},
		{ByProfit, []string{"amazon", "mercado-livre", "shopee", "magalu"}},
		{ByMargin, []string{"magalu", "amazon", "mercado-livre", "shopee"}},
		{ByTransactionCount, []string{"shopee", "mercado-livre", "amazon", "magalu"}},
		{ByQuantity, []string{"shopee", "mercado-livre", "amazon", "magalu"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.by), func(t *testing.T) {
			assert.Equal(t, tt.want, keys(Rank(groups, tt.by)))
		})
	}
}

func TestRank_Deterministic(t *testing.T) {
	groups := map[string]*domain.GroupAggregate{}
	for _, k := range []string{"e", "b", "d", "a", "c", "f", "g"} {
		groups[k] = group(k, 100, 10, 10, 1)
	}

	first := keys(Rank(groups, ByRevenue))
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, keys(Rank(groups, ByRevenue)))
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f", "g"}, first)
}

func TestRankList_DoesNotMutateInput(t *testing.T) {
	input := []domain.GroupAggregate{*group("b", 1, 0, 0, 0), *group("a", 2, 0, 0, 0)}

	ranked := RankList(input, ByRevenue)

	assert.Equal(t, []string{"a", "b"}, keys(ranked))
	assert.Equal(t, []string{"b", "a"}, keys(input))
}

func TestTop(t *testing.T) {
	ranked := RankList([]domain.GroupAggregate{
		*group("a", 3, 0, 0, 0), *group("b", 2, 0, 0, 0), *group("c", 1, 0, 0, 0),
	}, ByRevenue)

	assert.Equal(t, []string{"a", "b"}, keys(Top(ranked, 2)))
	assert.Len(t, Top(ranked, 10), 3)
	assert.Empty(t, Top(ranked, -1))

	positions := Positions(ranked)
	require.Len(t, positions, 3)
	assert.Equal(t, 1, positions["a"])
	assert.Equal(t, 3, positions["c"])
}

func TestParseMetric(t *testing.T) {
	m, ok := ParseMetric("")
	assert.True(t, ok)
	assert.Equal(t, ByRevenue, m)

	m, ok = ParseMetric("margin")
	assert.True(t, ok)
	assert.Equal(t, ByMargin, m)

	_, ok = ParseMetric("likes")
	assert.False(t, ok)
}
