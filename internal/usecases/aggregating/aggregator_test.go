package aggregating

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-analytics-api/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func tx(selling, profit string, status domain.DeliveryStatus) domain.Transaction {
	return domain.Transaction{
		SellingPrice:   dec(selling),
		Profit:         dec(profit),
		Quantity:       1,
		DeliveryStatus: status,
		OccurredAt:     time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC),
	}
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "esperado %s, obtido %s", want, got.String())
}

func TestAggregate_Empty(t *testing.T) {
	agg := Aggregate(nil)

	assert.True(t, agg.IsZero())
	for _, m := range domain.ComparableMetrics {
		assert.True(t, agg.Metric(m).IsZero(), "métrica %s", m)
	}
	assert.Equal(t, agg, Aggregate([]domain.Transaction{}))
}

func TestAggregate_CurrentPeriodScenario(t *testing.T) {
	rows := []domain.Transaction{
		tx("100", "20", domain.DeliveryStatusCompleted),
		tx("50", "-5", domain.DeliveryStatusCancelled),
	}

	agg := Aggregate(rows)

	assertDecimal(t, "150", agg.TotalRevenue)
	assertDecimal(t, "15", agg.TotalProfit)
	assertDecimal(t, "100", agg.CompletedRevenue)
	assertDecimal(t, "20", agg.CompletedProfit)
	assertDecimal(t, "100", agg.AvgOrderValue)
	assertDecimal(t, "10", agg.ProfitMargin)
	assertDecimal(t, "50", agg.CompletionRate)
	assert.Equal(t, 2, agg.TransactionCount)
	assert.Equal(t, 1, agg.CompletedCount)
	assert.Equal(t, 2, agg.TotalQuantity)
	assert.Equal(t, 1, agg.StatusCounts[domain.DeliveryStatusCompleted])
	assert.Equal(t, 1, agg.StatusCounts[domain.DeliveryStatusCancelled])
}

func TestAggregate_NoCompletedKeepsAvgOrderValueZero(t *testing.T) {
	agg := Aggregate([]domain.Transaction{
		tx("10", "2", domain.DeliveryStatusShipping),
		tx("0", "0", domain.DeliveryStatusReturned),
	})

	assert.True(t, agg.AvgOrderValue.IsZero())
	assert.True(t, agg.CompletionRate.IsZero())
	assertDecimal(t, "20", agg.ProfitMargin)
}

func TestAggregate_ZeroRevenueKeepsMarginZero(t *testing.T) {
	agg := Aggregate([]domain.Transaction{tx("0", "-3", domain.DeliveryStatusCompleted)})

	assert.True(t, agg.ProfitMargin.IsZero())
	assertDecimal(t, "-3", agg.TotalProfit)
}

func TestAggregate_ExactDecimalSum(t *testing.T) {
	var rows []domain.Transaction
	want := decimal.Zero
	for i := 0; i < 1000; i++ {
		price := fmt.Sprintf("0.%02d", i%100)
		rows = append(rows, tx(price, "0", domain.DeliveryStatusCompleted))
		want = want.Add(dec(price))
	}
	rows = append(rows, tx("0.1", "0", domain.DeliveryStatusCompleted), tx("0.2", "0", domain.DeliveryStatusCompleted))
	want = want.Add(dec("0.3"))

	agg := Aggregate(rows)

	assert.True(t, want.Equal(agg.TotalRevenue), "esperado %s, obtido %s", want, agg.TotalRevenue)
	assertDecimal(t, "495.3", agg.TotalRevenue)
}

func TestAggregator_CustomCompletionPredicate(t *testing.T) {
	rows := []domain.Transaction{
		tx("100", "20", domain.DeliveryStatusCompleted),
		tx("40", "10", domain.DeliveryStatusShipping),
		tx("30", "5", domain.DeliveryStatusPendingConfirmation),
	}

	agg := New(func(s domain.DeliveryStatus) bool {
		return s == domain.DeliveryStatusCompleted || s == domain.DeliveryStatusShipping
	}).Aggregate(rows)

	assert.Equal(t, 2, agg.CompletedCount)
	assertDecimal(t, "140", agg.CompletedRevenue)
	assertDecimal(t, "70", agg.AvgOrderValue)
}

func TestGroupBy_PartitionsRows(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var rows []domain.Transaction
	platforms := []string{"shopee", "mercado-livre", "amazon"}
	for i := 0; i < 31; i++ {
		r := tx("10", "1", domain.DeliveryStatusCompleted)
		r.PlatformID = platforms[i%len(platforms)]
		r.StoreID = fmt.Sprintf("store-%d", i%4)
		r.ProductSKU = fmt.Sprintf("SKU-%d", i%5)
		r.ProductName = "Produto " + r.ProductSKU
		r.OccurredAt = base.AddDate(0, 0, i*9)
		rows = append(rows, r)
	}

	for _, key := range []GroupKey{GroupByPlatform, GroupByStore, GroupByProduct, GroupByMonth} {
		t.Run(string(key), func(t *testing.T) {
			groups := GroupBy(rows, key)

			total := 0
			revenue := decimal.Zero
			for k, g := range groups {
				assert.Equal(t, k, g.Key)
				total += g.TransactionCount
				revenue = revenue.Add(g.TotalRevenue)
			}
			assert.Equal(t, len(rows), total)
			assertDecimal(t, "310", revenue)
		})
	}
}

func TestGroupBy_FirstAndLastSeen(t *testing.T) {
	jan := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 7, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)

	rows := []domain.Transaction{
		{ProductSKU: "A", ProductName: "Caneca", SellingPrice: dec("10"), Quantity: 2, OccurredAt: feb},
		{ProductSKU: "A", ProductName: "Caneca", SellingPrice: dec("10"), Quantity: 1, OccurredAt: mar},
		{ProductSKU: "A", ProductName: "Caneca", SellingPrice: dec("10"), Quantity: 1, OccurredAt: jan},
		{ProductSKU: "B", ProductName: "Copo", SellingPrice: dec("5"), Quantity: 1, OccurredAt: feb},
	}

	groups := GroupBy(rows, GroupByProduct)

	require.Len(t, groups, 2)
	assert.Equal(t, jan, groups["A"].FirstSeen)
	assert.Equal(t, mar, groups["A"].LastSeen)
	assert.Equal(t, "Caneca", groups["A"].Label)
	assert.Equal(t, 4, groups["A"].TotalQuantity)
	assert.Equal(t, feb, groups["B"].FirstSeen)
	assert.Equal(t, feb, groups["B"].LastSeen)
}

func TestMonthlySeries_FillsEmptyMonths(t *testing.T) {
	rows := []domain.Transaction{
		{SellingPrice: dec("100"), Quantity: 1, OccurredAt: time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)},
		{SellingPrice: dec("50"), Quantity: 1, OccurredAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{SellingPrice: dec("70"), Quantity: 1, OccurredAt: time.Date(2024, 4, 30, 23, 0, 0, 0, time.UTC)},
	}

	series := MonthlySeries(rows,
		time.Date(2023, 12, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC))

	require.Len(t, series, 5)
	keys := make([]string, len(series))
	for i, s := range series {
		keys[i] = s.Key
	}
	assert.Equal(t, []string{"2023-12", "2024-01", "2024-02", "2024-03", "2024-04"}, keys)
	assert.True(t, series[0].IsZero())
	assertDecimal(t, "150", series[1].TotalRevenue)
	assert.True(t, series[2].IsZero())
	assertDecimal(t, "70", series[4].TotalRevenue)

	values := Values(series)
	require.Len(t, values, 5)
	assertDecimal(t, "150", values[1].TotalRevenue)
}

func TestMonthlySeries_InvertedRange(t *testing.T) {
	now := time.Now()
	assert.Nil(t, MonthlySeries(nil, now, now.AddDate(0, -1, 0)))
}
