package comparing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/sales-analytics-api/internal/domain"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/aggregating"
)

func sample() domain.Aggregate {
	return domain.Aggregate{
		TotalRevenue:     decimal.NewFromInt(150),
		TotalProfit:      decimal.NewFromInt(15),
		TotalQuantity:    4,
		TransactionCount: 2,
		CompletedCount:   1,
		CompletedRevenue: decimal.NewFromInt(100),
		CompletedProfit:  decimal.NewFromInt(20),
		AvgOrderValue:    decimal.NewFromInt(100),
		ProfitMargin:     decimal.NewFromInt(10),
		CompletionRate:   decimal.NewFromInt(50),
	}
}

func TestCompare_SameAggregateIsFlat(t *testing.T) {
	x := sample()

	changes := Compare(x, x)

	assert.Len(t, changes, len(domain.ComparableMetrics))
	for name, c := range changes {
		assert.Zero(t, c.Value, "métrica %s", name)
		assert.Equal(t, domain.DirectionFlat, c.Direction, "métrica %s", name)
	}
}

func TestCompare_AgainstZeroAggregate(t *testing.T) {
	x := sample()
	x.TotalProfit = decimal.Zero
	x.CompletedCount = 0

	changes := Compare(x, domain.Aggregate{})

	for _, name := range domain.ComparableMetrics {
		c := changes[name]
		if x.Metric(name).IsZero() {
			assert.Zero(t, c.Value, "métrica %s", name)
			assert.Equal(t, domain.DirectionFlat, c.Direction)
		} else {
			assert.Equal(t, 100.0, c.Value, "métrica %s", name)
			assert.Equal(t, domain.DirectionIncrease, c.Direction)
		}
	}
}

func TestCompareWithPolicy_CustomZeroBaseline(t *testing.T) {
	policy := Policy{ZeroBaseline: decimal.Zero}

	changes := CompareWithPolicy(sample(), domain.Aggregate{}, policy)

	assert.Zero(t, changes[domain.MetricTotalRevenue].Value)
	assert.Equal(t, domain.DirectionFlat, changes[domain.MetricTotalRevenue].Direction)
}

func TestPercentChange(t *testing.T) {
	tests := []struct {
		name     string
		current  string
		previous string
		want     string
	}{
		{"crescimento", "100", "80", "25"},
		{"queda", "60", "80", "-25"},
		{"estável", "80", "80", "0"},
		{"base zero com atual positivo", "10", "0", "100"},
		{"base zero com atual zero", "0", "0", "0"},
		{"base negativa", "-5", "-10", "-50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PercentChange(decimal.RequireFromString(tt.current), decimal.RequireFromString(tt.previous))
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "obtido %s", got)
		})
	}
}

func TestCompare_EndToEndScenario(t *testing.T) {
	current := aggregating.Aggregate([]domain.Transaction{
		{SellingPrice: decimal.NewFromInt(100), Profit: decimal.NewFromInt(20), Quantity: 1, DeliveryStatus: domain.DeliveryStatusCompleted},
		{SellingPrice: decimal.NewFromInt(50), Profit: decimal.NewFromInt(-5), Quantity: 1, DeliveryStatus: domain.DeliveryStatusCancelled},
	})
	previous := aggregating.Aggregate([]domain.Transaction{
		{SellingPrice: decimal.NewFromInt(80), Profit: decimal.NewFromInt(10), Quantity: 1, DeliveryStatus: domain.DeliveryStatusCompleted},
	})

	changes := Compare(current, previous)

	assert.True(t, current.TotalRevenue.Equal(decimal.NewFromInt(150)))
	assert.True(t, current.CompletedRevenue.Equal(decimal.NewFromInt(100)))
	assert.InDelta(t, 10.0, current.ProfitMargin.InexactFloat64(), 0.0001)
	assert.Equal(t, 25.0, changes[domain.MetricCompletedRevenue].Value)
	assert.Equal(t, domain.DirectionIncrease, changes[domain.MetricCompletedRevenue].Direction)
	assert.Equal(t, 87.5, changes[domain.MetricTotalRevenue].Value)
}
