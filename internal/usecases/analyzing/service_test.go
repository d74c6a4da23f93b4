package analyzing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-analytics-api/infrastructure/repository/mocks"
	"github.com/vfg2006/sales-analytics-api/internal/domain"
	catalogmocks "github.com/vfg2006/sales-analytics-api/internal/usecases/cataloging/mocks"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/insighting"
	"go.uber.org/mock/gomock"
)

var now = time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

func raw(platform, store, sku, selling, cost, status string, at time.Time) domain.RawTransaction {
	return domain.RawTransaction{
		PlatformID:     platform,
		StoreID:        store,
		ProductSKU:     sku,
		ProductName:    "Produto " + sku,
		SellingPrice:   selling,
		CostPrice:      cost,
		Quantity:       "1",
		DeliveryStatus: status,
		OccurredAt:     at.Format(time.RFC3339),
	}
}

func session(role int, stores ...string) *domain.Session {
	return &domain.Session{ID: "s", Claims: &domain.Claims{UserID: 1, UserRoleID: role, UserStoreIDs: stores}}
}

type fixture struct {
	svc     *Service
	txRepo  *mocks.MockTransactionRepository
	catalog *catalogmocks.MockCataloger
}

func newFixture(t *testing.T, opts Options) fixture {
	ctrl := gomock.NewController(t)
	f := fixture{
		txRepo:  mocks.NewMockTransactionRepository(ctrl),
		catalog: catalogmocks.NewMockCataloger(ctrl),
	}
	f.svc = NewService(f.txRepo, f.catalog, insighting.NewGenerator(insighting.DefaultThresholds()), opts)
	f.svc.now = func() time.Time { return now }
	return f
}

// expectPeriods responde ListRaw conforme o período pedido: fim exclusivo é o período anterior
func (f fixture) expectPeriods(current, previous []domain.RawTransaction) {
	f.txRepo.EXPECT().ListRaw(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, filters domain.TransactionFilters) ([]domain.RawTransaction, error) {
			if filters.EndExclusive {
				return previous, nil
			}
			return current, nil
		}).Times(2)
}

func TestService_Summary(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{})

	day := now.AddDate(0, 0, -1)
	prevDay := now.AddDate(0, 0, -40)
	f.expectPeriods(
		[]domain.RawTransaction{
			raw("p1", "st1", "A", "100", "60", "Completed", day),
			raw("p2", "st1", "B", "50", "30", "Completed", day),
			raw("p1", "st1", "C", "30", "20", "Cancelled", day),
		},
		[]domain.RawTransaction{
			raw("p1", "st1", "A", "80", "50", "Completed", prevDay),
			raw("p1", "st1", "B", "20", "10", "Shipping", prevDay),
		},
	)

	report, err := f.svc.Summary(ctx, session(domain.RoleAdmin), domain.AnalyticsQuery{Timeframe: "90d"})
	require.NoError(t, err)

	assert.Equal(t, domain.Timeframe90Days, report.Periods.Timeframe)
	assert.False(t, report.Periods.Defaulted)
	assert.True(t, decimal.NewFromInt(180).Equal(report.Current.TotalRevenue))
	assert.True(t, decimal.NewFromInt(150).Equal(report.Current.CompletedRevenue))
	assert.True(t, decimal.NewFromInt(100).Equal(report.Previous.TotalRevenue))
	assert.Equal(t, 80.0, report.Changes[domain.MetricTotalRevenue].Value)
	assert.Equal(t, domain.DirectionIncrease, report.Changes[domain.MetricTotalRevenue].Direction)
	assert.Equal(t, 87.5, report.Changes[domain.MetricCompletedRevenue].Value)
	assert.Nil(t, report.Coercion)
}

func TestService_Summary_FiltersAndBoundaries(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{MaxRows: 1000})

	var seen []domain.TransactionFilters
	f.txRepo.EXPECT().ListRaw(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, filters domain.TransactionFilters) ([]domain.RawTransaction, error) {
			seen = append(seen, filters)
			return nil, nil
		}).Times(2)

	report, err := f.svc.Summary(ctx, session(domain.RoleViewer, "st1"), domain.AnalyticsQuery{Timeframe: "7d", PlatformIDs: []string{"p1"}})
	require.NoError(t, err)
	assert.True(t, report.Current.IsZero())
	assert.Equal(t, domain.DirectionFlat, report.Changes[domain.MetricTotalRevenue].Direction)
	assert.False(t, report.Truncated)

	require.Len(t, seen, 2)
	for _, filters := range seen {
		assert.Equal(t, []string{"st1"}, filters.StoreIDs)
		assert.Equal(t, []string{"p1"}, filters.PlatformIDs)
		assert.Equal(t, 1001, filters.Limit)

		if filters.EndExclusive {
			assert.Equal(t, report.Periods.Previous.Start, *filters.StartDate)
			assert.Equal(t, report.Periods.Current.Start, *filters.EndDate)
		} else {
			assert.Equal(t, report.Periods.Current.Start, *filters.StartDate)
			assert.Equal(t, now, *filters.EndDate)
		}
	}
}

func TestService_RowsLimit(t *testing.T) {
	day := now.AddDate(0, 0, -1)
	current := []domain.RawTransaction{
		raw("p1", "st1", "A", "100", "60", "Completed", day),
		raw("p1", "st1", "B", "100", "60", "Completed", day),
		raw("p2", "st1", "C", "100", "60", "Completed", day),
	}

	t.Run("período acima do limite marca o relatório como parcial", func(t *testing.T) {
		f := newFixture(t, Options{MaxRows: 2})
		f.expectPeriods(current, nil)

		report, err := f.svc.Summary(context.Background(), session(domain.RoleAdmin), domain.AnalyticsQuery{Timeframe: "30d"})
		require.NoError(t, err)
		assert.True(t, report.Truncated)
		assert.Equal(t, uint64(2), report.RowsLimit)
		assert.Equal(t, 2, report.Current.TransactionCount)
	})

	t.Run("exatamente no limite não é parcial", func(t *testing.T) {
		f := newFixture(t, Options{MaxRows: 3})
		f.expectPeriods(current, nil)

		report, err := f.svc.Summary(context.Background(), session(domain.RoleAdmin), domain.AnalyticsQuery{Timeframe: "30d"})
		require.NoError(t, err)
		assert.False(t, report.Truncated)
		assert.Zero(t, report.RowsLimit)
		assert.True(t, decimal.NewFromInt(300).Equal(report.Current.TotalRevenue))
	})

	t.Run("ranking também informa o corte", func(t *testing.T) {
		f := newFixture(t, Options{MaxRows: 2})
		f.expectPeriods(current, nil)
		f.catalog.EXPECT().Names(gomock.Any()).Return(map[string]string{}, map[string]string{}, nil).AnyTimes()

		report, err := f.svc.Platforms(context.Background(), session(domain.RoleAdmin), domain.AnalyticsQuery{Timeframe: "30d"})
		require.NoError(t, err)
		assert.True(t, report.Truncated)
		assert.Equal(t, uint64(2), report.RowsLimit)
	})

	t.Run("insights somam o corte de qualquer uma das buscas", func(t *testing.T) {
		f := newFixture(t, Options{MaxRows: 2, SeasonalityMonths: 12})
		f.txRepo.EXPECT().ListRaw(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, filters domain.TransactionFilters) ([]domain.RawTransaction, error) {
				assert.Equal(t, 3, filters.Limit)
				if filters.EndExclusive {
					return nil, nil
				}
				return current, nil
			}).Times(3)
		f.catalog.EXPECT().Names(gomock.Any()).Return(map[string]string{}, map[string]string{}, nil).AnyTimes()

		report, err := f.svc.Insights(context.Background(), session(domain.RoleAdmin), domain.AnalyticsQuery{Timeframe: "30d"})
		require.NoError(t, err)
		assert.True(t, report.Truncated)
		assert.Equal(t, uint64(2), report.RowsLimit)
	})
}

func TestService_Summary_DefaultsAndCoercion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{})

	bad := raw("p1", "st1", "A", "abc", "10", "Perdido", now.AddDate(0, 0, -1))
	f.expectPeriods([]domain.RawTransaction{bad}, nil)

	report, err := f.svc.Summary(ctx, session(domain.RoleAdmin), domain.AnalyticsQuery{Timeframe: "2w"})
	require.NoError(t, err)
	assert.True(t, report.Periods.Defaulted)
	assert.Equal(t, domain.Timeframe30Days, report.Periods.Timeframe)
	assert.Equal(t, 30, report.Periods.Days)

	require.NotNil(t, report.Coercion)
	assert.Equal(t, 1, report.Coercion.RowsCoerced)
	assert.Equal(t, 1, report.Coercion.FieldIssues["delivery_status"])
	assert.Equal(t, 0, report.Current.CompletedCount)
	assert.Equal(t, 1, report.Current.TransactionCount)
}

func TestService_Summary_CustomCompletedStatuses(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{CompletedStatuses: []domain.DeliveryStatus{domain.DeliveryStatusCompleted, domain.DeliveryStatusShipping}})

	day := now.AddDate(0, 0, -1)
	f.expectPeriods([]domain.RawTransaction{
		raw("p1", "st1", "A", "100", "60", "Completed", day),
		raw("p1", "st1", "B", "50", "30", "Shipping", day),
	}, nil)

	report, err := f.svc.Summary(ctx, session(domain.RoleAdmin), domain.AnalyticsQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Current.CompletedCount)
	assert.True(t, decimal.NewFromInt(75).Equal(report.Current.AvgOrderValue))
}

func TestService_Summary_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("loja fora do escopo", func(t *testing.T) {
		f := newFixture(t, Options{})
		_, err := f.svc.Summary(ctx, session(domain.RoleViewer, "st1"), domain.AnalyticsQuery{StoreIDs: []string{"st2"}})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("erro do banco", func(t *testing.T) {
		f := newFixture(t, Options{})
		dbErr := errors.New("conexão perdida")
		f.txRepo.EXPECT().ListRaw(gomock.Any(), gomock.Any()).Return(nil, dbErr).MinTimes(1).MaxTimes(2)

		_, err := f.svc.Summary(ctx, session(domain.RoleAdmin), domain.AnalyticsQuery{})
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestService_Platforms(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{})

	day := now.AddDate(0, 0, -2)
	f.expectPeriods(
		[]domain.RawTransaction{
			raw("p1", "st1", "A", "300", "200", "Completed", day),
			raw("p2", "st1", "B", "100", "50", "Completed", day),
			raw("p3", "st1", "C", "100", "90", "Completed", day),
		},
		[]domain.RawTransaction{
			raw("p1", "st1", "A", "150", "100", "Completed", now.AddDate(0, 0, -45)),
		},
	)
	f.catalog.EXPECT().Names(gomock.Any()).Return(
		map[string]string{"p1": "Shopee", "p2": "Mercado Livre"},
		map[string]string{"st1": "Centro"},
		nil,
	)

	report, err := f.svc.Platforms(ctx, session(domain.RoleAdmin), domain.AnalyticsQuery{Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, "revenue", report.RankBy)
	require.Len(t, report.Groups, 3)

	first := report.Groups[0]
	assert.Equal(t, 1, first.Position)
	assert.Equal(t, "p1", first.Current.Key)
	assert.Equal(t, "Shopee", first.Current.Label)
	assert.Equal(t, 60.0, first.Share)
	require.NotNil(t, first.Previous)
	assert.Equal(t, 100.0, first.Changes[domain.MetricTotalRevenue].Value)

	// empate em receita: p2 antes de p3 pela chave
	assert.Equal(t, "p2", report.Groups[1].Current.Key)
	assert.Nil(t, report.Groups[1].Previous)
	assert.Equal(t, 100.0, report.Groups[1].Changes[domain.MetricTotalRevenue].Value)
	assert.Equal(t, "p3", report.Groups[2].Current.Key)
	assert.Empty(t, report.Groups[2].Current.Label)
}

func TestService_Products_RankByProfitWithLimit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{})

	day := now.AddDate(0, 0, -2)
	f.expectPeriods([]domain.RawTransaction{
		raw("p1", "st1", "A", "300", "290", "Completed", day),
		raw("p1", "st1", "B", "100", "20", "Completed", day),
		raw("p1", "st1", "C", "100", "60", "Completed", day),
	}, nil)

	report, err := f.svc.Products(ctx, session(domain.RoleAdmin), domain.AnalyticsQuery{RankBy: "profit", Limit: 2})
	require.NoError(t, err)
	require.Len(t, report.Groups, 2)
	assert.Equal(t, "B", report.Groups[0].Current.Key)
	assert.Equal(t, "Produto B", report.Groups[0].Current.Label)
	assert.Equal(t, "C", report.Groups[1].Current.Key)
	assert.True(t, decimal.NewFromInt(500).Equal(report.Total.TotalRevenue))
}

func TestService_Platforms_InvalidRankBy(t *testing.T) {
	f := newFixture(t, Options{})
	_, err := f.svc.Platforms(context.Background(), session(domain.RoleAdmin), domain.AnalyticsQuery{RankBy: "likes"})
	assert.ErrorIs(t, err, ErrInvalidQuery)
}

func TestService_Insights(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{SeasonalityMonths: 12})

	day := now.AddDate(0, 0, -3)
	current := []domain.RawTransaction{
		raw("p1", "st1", "A", "1000", "900", "Completed", day),
		raw("p2", "st1", "B", "100", "90", "Completed", day),
	}
	f.txRepo.EXPECT().ListRaw(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, filters domain.TransactionFilters) ([]domain.RawTransaction, error) {
			if filters.EndExclusive {
				return nil, nil
			}
			return current, nil
		}).Times(3)
	f.catalog.EXPECT().Names(gomock.Any()).Return(map[string]string{"p1": "Shopee"}, map[string]string{}, nil)

	report, err := f.svc.Insights(ctx, session(domain.RoleAdmin), domain.AnalyticsQuery{Timeframe: "30d"})
	require.NoError(t, err)
	assert.Len(t, report.MonthlySeries, 12)
	assert.Equal(t, "2023-07", report.MonthlySeries[0].Key)
	assert.Equal(t, "2024-06", report.MonthlySeries[11].Key)

	types := make(map[domain.InsightType]domain.Insight)
	for _, insight := range report.Insights {
		types[insight.Type] = insight
	}
	// sem vendas no período anterior a regra de crescimento não se aplica
	assert.NotContains(t, types, domain.InsightRevenueGrowth)
	require.Contains(t, types, domain.InsightMargin)
	assert.Equal(t, domain.SentimentNegative, types[domain.InsightMargin].Sentiment)
	require.Contains(t, types, domain.InsightPlatformGap)
	assert.Contains(t, types[domain.InsightPlatformGap].Description, "Shopee")
	require.Contains(t, types, domain.InsightConcentration)
	assert.Contains(t, types[domain.InsightConcentration].Description, "principais produtos")
	assert.Contains(t, types, domain.InsightSeasonality)
	assert.Equal(t, domain.PriorityHigh, report.Insights[0].Priority)
}
