package aggregating

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-analytics-api/internal/domain"
)

func TestCoerce_ValidRow(t *testing.T) {
	raw := domain.RawTransaction{
		Line:           2,
		ID:             " tx-1 ",
		PlatformID:     "shopee",
		StoreID:        "loja-centro",
		ProductSKU:     "SKU-1",
		ProductName:    "Caneca",
		SellingPrice:   "120.50",
		CostPrice:      "80",
		Quantity:       "3",
		DeliveryStatus: "completed",
		OccurredAt:     "2024-05-01T10:30:00Z",
	}

	got, issues := Coerce(raw)

	assert.Empty(t, issues)
	assert.Equal(t, "tx-1", got.ID)
	assertDecimal(t, "120.5", got.SellingPrice)
	assertDecimal(t, "80", got.CostPrice)
	assertDecimal(t, "40.5", got.Profit)
	assert.Equal(t, 3, got.Quantity)
	assert.Equal(t, domain.DeliveryStatusCompleted, got.DeliveryStatus)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC), got.OccurredAt)
}

func TestCoerce_ExplicitProfitWins(t *testing.T) {
	got, issues := Coerce(domain.RawTransaction{
		SellingPrice:   "100",
		CostPrice:      "60",
		Profit:         "35",
		Quantity:       "1",
		DeliveryStatus: "Shipping",
		OccurredAt:     "2024-05-01",
	})

	assert.Empty(t, issues)
	assertDecimal(t, "35", got.Profit)
}

func TestCoerce_BrazilianMoneyFormat(t *testing.T) {
	got, issues := Coerce(domain.RawTransaction{
		SellingPrice:   "R$ 1.234,56",
		CostPrice:      "234,56",
		Quantity:       "1",
		DeliveryStatus: "Completed",
		OccurredAt:     "15/03/2024",
	})

	assert.Empty(t, issues)
	assertDecimal(t, "1234.56", got.SellingPrice)
	assertDecimal(t, "1000", got.Profit)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), got.OccurredAt)
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in            string
		want          string
		wantOK        bool
		wantAmbiguous bool
	}{
		{"1234.56", "1234.56", true, false},
		{"1234,56", "1234.56", true, false},
		{"1.234,56", "1234.56", true, false},
		{"1,234.56", "1234.56", true, false},
		{"R$ 1.234.567,89", "1234567.89", true, false},
		{"1,234,567.89", "1234567.89", true, false},
		{"1.234.567", "1234567", true, false},
		{"1,234", "1234", true, true},
		{"1.234", "1234", true, true},
		{"0,500", "0.5", true, false},
		{"-1,5", "-1.5", true, false},
		{"100.00", "100", true, false},
		{"1.234,56,7", "0", false, false},
		{"", "0", false, false},
		{"abc", "0", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok, ambiguous := ParseMoney(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantAmbiguous, ambiguous)
			assertDecimal(t, tt.want, got)
		})
	}
}

func TestCoerce_USMoneyFormat(t *testing.T) {
	got, issues := Coerce(domain.RawTransaction{
		SellingPrice:   "1,234.56",
		CostPrice:      "1,000.00",
		Quantity:       "1",
		DeliveryStatus: "Completed",
		OccurredAt:     "2024-03-15",
	})

	assert.Empty(t, issues)
	assertDecimal(t, "1234.56", got.SellingPrice)
	assertDecimal(t, "1000", got.CostPrice)
	assertDecimal(t, "234.56", got.Profit)
}

func TestCoerce_AmbiguousMoneyIsReported(t *testing.T) {
	got, issues := Coerce(domain.RawTransaction{
		Line:           7,
		SellingPrice:   "1,234",
		CostPrice:      "200",
		Quantity:       "1",
		DeliveryStatus: "Completed",
		OccurredAt:     "2024-03-15",
	})

	require.Len(t, issues, 1)
	assert.Equal(t, CoercionIssue{Line: 7, Field: FieldSellingPrice, Value: "1,234"}, issues[0])
	assertDecimal(t, "1234", got.SellingPrice)
	assertDecimal(t, "1034", got.Profit)
}

func TestCoerce_CorruptFields(t *testing.T) {
	tests := []struct {
		name       string
		raw        domain.RawTransaction
		wantFields []string
		check      func(t *testing.T, got domain.Transaction)
	}{
		{
			name: "preço de venda não numérico vira zero e lucro também",
			raw: domain.RawTransaction{
				SellingPrice: "abc", CostPrice: "10", Quantity: "1",
				DeliveryStatus: "Completed", OccurredAt: "2024-01-01",
			},
			wantFields: []string{FieldSellingPrice, FieldProfit},
			check: func(t *testing.T, got domain.Transaction) {
				assert.True(t, got.SellingPrice.IsZero())
				assert.True(t, got.Profit.IsZero())
				assertDecimal(t, "10", got.CostPrice)
			},
		},
		{
			name: "custo negativo vira zero",
			raw: domain.RawTransaction{
				SellingPrice: "10", CostPrice: "-4", Quantity: "1",
				DeliveryStatus: "Completed", OccurredAt: "2024-01-01",
			},
			wantFields: []string{FieldCostPrice, FieldProfit},
			check: func(t *testing.T, got domain.Transaction) {
				assert.True(t, got.CostPrice.IsZero())
				assert.True(t, got.Profit.IsZero())
			},
		},
		{
			name: "lucro inválido é derivado de venda menos custo",
			raw: domain.RawTransaction{
				SellingPrice: "10", CostPrice: "4", Profit: "n/a", Quantity: "1",
				DeliveryStatus: "Completed", OccurredAt: "2024-01-01",
			},
			wantFields: []string{FieldProfit},
			check: func(t *testing.T, got domain.Transaction) {
				assertDecimal(t, "6", got.Profit)
			},
		},
		{
			name: "quantidade inválida vira 1",
			raw: domain.RawTransaction{
				SellingPrice: "10", CostPrice: "4", Quantity: "0",
				DeliveryStatus: "Completed", OccurredAt: "2024-01-01",
			},
			wantFields: []string{FieldQuantity},
			check: func(t *testing.T, got domain.Transaction) {
				assert.Equal(t, 1, got.Quantity)
			},
		},
		{
			name: "status desconhecido vira PendingConfirmation",
			raw: domain.RawTransaction{
				SellingPrice: "10", CostPrice: "4", Quantity: "2",
				DeliveryStatus: "perdido", OccurredAt: "2024-01-01",
			},
			wantFields: []string{FieldDeliveryStatus},
			check: func(t *testing.T, got domain.Transaction) {
				assert.Equal(t, domain.DeliveryStatusPendingConfirmation, got.DeliveryStatus)
			},
		},
		{
			name: "data inválida vira tempo zero",
			raw: domain.RawTransaction{
				SellingPrice: "10", CostPrice: "4", Quantity: "2",
				DeliveryStatus: "Returned", OccurredAt: "ontem",
			},
			wantFields: []string{FieldOccurredAt},
			check: func(t *testing.T, got domain.Transaction) {
				assert.True(t, got.OccurredAt.IsZero())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, issues := Coerce(tt.raw)

			fields := make([]string, len(issues))
			for i, issue := range issues {
				fields[i] = issue.Field
			}
			assert.ElementsMatch(t, tt.wantFields, fields)
			tt.check(t, got)
		})
	}
}

func TestCoerceAll_CorruptRowDoesNotZeroReport(t *testing.T) {
	rows := []domain.RawTransaction{
		{Line: 1, SellingPrice: "100", CostPrice: "80", Quantity: "1", DeliveryStatus: "Completed", OccurredAt: "2024-02-01"},
		{Line: 2, SellingPrice: "#VALUE!", CostPrice: "", Quantity: "x", DeliveryStatus: "", OccurredAt: "2024-02-02"},
		{Line: 3, SellingPrice: "50", CostPrice: "30", Quantity: "2", DeliveryStatus: "Completed", OccurredAt: "2024-02-03"},
	}

	txs, report := CoerceAll(rows)

	require.Len(t, txs, 3)
	assert.Equal(t, 3, report.RowsSeen)
	assert.Equal(t, 1, report.RowsCoerced)
	assert.True(t, report.HasIssues())
	assert.Equal(t, 1, report.FieldIssues[FieldSellingPrice])
	assert.Equal(t, 1, report.FieldIssues[FieldQuantity])
	for _, issue := range report.Issues {
		assert.Equal(t, 2, issue.Line)
	}

	agg := Aggregate(txs)
	assertDecimal(t, "150", agg.TotalRevenue)
	assertDecimal(t, "40", agg.TotalProfit)
	assert.Equal(t, 2, agg.CompletedCount)
	assert.Equal(t, 3, agg.TransactionCount)
}
