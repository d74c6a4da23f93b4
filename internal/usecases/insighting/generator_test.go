package insighting

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-analytics-api/internal/domain"
)

func revenueAgg(revenue, profit int64) domain.Aggregate {
	agg := domain.Aggregate{
		TotalRevenue: decimal.NewFromInt(revenue),
		TotalProfit:  decimal.NewFromInt(profit),
	}
	if revenue != 0 {
		agg.ProfitMargin = agg.TotalProfit.Div(agg.TotalRevenue).Mul(decimal.NewFromInt(100))
	}
	return agg
}

func groups(revenues ...int64) []domain.GroupAggregate {
	out := make([]domain.GroupAggregate, len(revenues))
	for i, r := range revenues {
		out[i] = domain.GroupAggregate{
			Key:       string(rune('a' + i)),
			Aggregate: domain.Aggregate{TotalRevenue: decimal.NewFromInt(r)},
		}
	}
	return out
}

func find(t *testing.T, insights []domain.Insight, typ domain.InsightType) domain.Insight {
	t.Helper()
	for _, i := range insights {
		if i.Type == typ {
			return i
		}
	}
	require.Failf(t, "insight não encontrado", "%s", typ)
	return domain.Insight{}
}

func has(insights []domain.Insight, typ domain.InsightType) bool {
	for _, i := range insights {
		if i.Type == typ {
			return true
		}
	}
	return false
}

func TestGenerate_MarginScenario(t *testing.T) {
	g := NewGenerator(DefaultThresholds())

	insights := g.Generate(revenueAgg(1000, 300), nil, nil, nil)

	margin := find(t, insights, domain.InsightMargin)
	assert.Equal(t, 30.0, margin.Value)
	assert.Equal(t, domain.SentimentPositive, margin.Sentiment)
	assert.False(t, margin.Actionable)
	assert.Equal(t, domain.PriorityLow, margin.Priority)
	assert.Empty(t, margin.Recommendations)
}

func TestGenerate_ConcentrationScenario(t *testing.T) {
	g := NewGenerator(DefaultThresholds())
	current := revenueAgg(1000, 200)
	ranked := groups(300, 250, 150, 120, 80, 60, 40)

	insights := g.Generate(current, nil, ranked, nil)

	c := find(t, insights, domain.InsightConcentration)
	assert.Equal(t, 90.0, c.Value)
	assert.Equal(t, domain.SentimentNegative, c.Sentiment)
	assert.True(t, c.Actionable)
	assert.Equal(t, domain.PriorityHigh, c.Priority)
	assert.NotEmpty(t, c.Recommendations)
}

func TestGenerateFrom_ConcentrationGroups(t *testing.T) {
	g := NewGenerator(DefaultThresholds())
	current := revenueAgg(1000, 300)
	platforms := groups(700, 300)
	products := groups(100, 100, 100, 100, 100, 100, 100, 100, 100, 100)

	t.Run("ranking de produtos mede a concentração", func(t *testing.T) {
		insights := g.GenerateFrom(Input{
			Current:             current,
			RankedGroups:        platforms,
			ConcentrationGroups: products,
			ConcentrationLabel:  "produtos",
		})

		c := find(t, insights, domain.InsightConcentration)
		assert.Equal(t, 50.0, c.Value)
		assert.Equal(t, domain.SentimentPositive, c.Sentiment)
		assert.False(t, c.Actionable)
		assert.Contains(t, c.Description, "Os 5 principais produtos")

		gap := find(t, insights, domain.InsightPlatformGap)
		assert.InDelta(t, 57.14, gap.Value, 0.01)
	})

	t.Run("sem grupos próprios usa o ranking principal", func(t *testing.T) {
		insights := g.GenerateFrom(Input{Current: current, RankedGroups: platforms})

		c := find(t, insights, domain.InsightConcentration)
		assert.Equal(t, 100.0, c.Value)
		assert.Equal(t, domain.SentimentNegative, c.Sentiment)
		assert.Contains(t, c.Description, "Os 2 principais grupos")
	})
}

func TestGenerate_OptionalInputsSuppressRules(t *testing.T) {
	g := NewGenerator(DefaultThresholds())

	insights := g.Generate(domain.Aggregate{}, nil, groups(10), make([]domain.Aggregate, 5))

	assert.False(t, has(insights, domain.InsightRevenueGrowth))
	assert.False(t, has(insights, domain.InsightPlatformGap))
	assert.False(t, has(insights, domain.InsightSeasonality))
	assert.True(t, has(insights, domain.InsightConcentration))
	assert.True(t, has(insights, domain.InsightMargin))

	c := find(t, insights, domain.InsightConcentration)
	assert.Zero(t, c.Value)
}

func TestGenerate_RevenueGrowth(t *testing.T) {
	tests := []struct {
		name          string
		current       int64
		previous      int64
		wantValue     float64
		wantSentiment domain.Sentiment
		wantPriority  domain.Priority
		wantAction    bool
	}{
		{"forte crescimento", 150, 100, 50, domain.SentimentPositive, domain.PriorityLow, false},
		{"crescimento no limite", 110, 100, 10, domain.SentimentNeutral, domain.PriorityLow, false},
		{"estável", 100, 100, 0, domain.SentimentNeutral, domain.PriorityLow, false},
		{"queda leve", 95, 100, -5, domain.SentimentNegative, domain.PriorityMedium, true},
		{"queda no limite", 90, 100, -10, domain.SentimentNegative, domain.PriorityMedium, true},
		{"queda forte", 50, 100, -50, domain.SentimentNegative, domain.PriorityHigh, true},
		{"base zero", 100, 0, 100, domain.SentimentPositive, domain.PriorityLow, false},
	}

	g := NewGenerator(DefaultThresholds())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := revenueAgg(tt.previous, 0)
			insights := g.Generate(revenueAgg(tt.current, 0), &prev, nil, nil)

			growth := find(t, insights, domain.InsightRevenueGrowth)
			assert.Equal(t, tt.wantValue, growth.Value)
			assert.Equal(t, tt.wantSentiment, growth.Sentiment)
			assert.Equal(t, tt.wantPriority, growth.Priority)
			assert.Equal(t, tt.wantAction, growth.Actionable)
		})
	}
}

func TestGenerate_PlatformGap(t *testing.T) {
	tests := []struct {
		name          string
		ranked        []domain.GroupAggregate
		wantValue     float64
		wantAction    bool
		wantPriority  domain.Priority
		wantSentiment domain.Sentiment
	}{
		{"plataformas equilibradas", groups(100, 80), 20, false, domain.PriorityLow, domain.SentimentPositive},
		{"diferença relevante", groups(100, 60, 40), 60, true, domain.PriorityMedium, domain.SentimentNeutral},
		{"diferença crítica", groups(100, 50, 20), 80, true, domain.PriorityHigh, domain.SentimentNegative},
		{"sem receita", groups(0, 0), 0, false, domain.PriorityLow, domain.SentimentPositive},
	}

	g := NewGenerator(DefaultThresholds())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			insights := g.Generate(revenueAgg(1000, 300), nil, tt.ranked, nil)

			gap := find(t, insights, domain.InsightPlatformGap)
			assert.Equal(t, tt.wantValue, gap.Value)
			assert.Equal(t, tt.wantAction, gap.Actionable)
			assert.Equal(t, tt.wantPriority, gap.Priority)
			assert.Equal(t, tt.wantSentiment, gap.Sentiment)
		})
	}
}

func TestGenerate_MarginBands(t *testing.T) {
	tests := []struct {
		name          string
		profit        int64
		wantSentiment domain.Sentiment
		wantPriority  domain.Priority
		wantAction    bool
	}{
		{"saudável", 250, domain.SentimentPositive, domain.PriorityLow, false},
		{"atenção", 150, domain.SentimentNeutral, domain.PriorityLow, false},
		{"baixa", 100, domain.SentimentNegative, domain.PriorityMedium, true},
		{"negativa", -10, domain.SentimentNegative, domain.PriorityHigh, true},
	}

	g := NewGenerator(DefaultThresholds())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := find(t, g.Generate(revenueAgg(1000, tt.profit), nil, nil, nil), domain.InsightMargin)
			assert.Equal(t, tt.wantSentiment, m.Sentiment)
			assert.Equal(t, tt.wantPriority, m.Priority)
			assert.Equal(t, tt.wantAction, m.Actionable)
		})
	}
}

func TestGenerate_Seasonality(t *testing.T) {
	g := NewGenerator(DefaultThresholds())

	flat := []domain.Aggregate{
		revenueAgg(100, 0), revenueAgg(100, 0), revenueAgg(100, 0),
		revenueAgg(100, 0), revenueAgg(100, 0), revenueAgg(100, 0),
	}
	s := find(t, g.Generate(revenueAgg(600, 150), nil, nil, flat), domain.InsightSeasonality)
	assert.Zero(t, s.Value)
	assert.False(t, s.Actionable)
	assert.Equal(t, domain.PriorityLow, s.Priority)

	// média 100, desvio populacional 100 -> CV 100%
	volatile := []domain.Aggregate{
		revenueAgg(0, 0), revenueAgg(200, 0), revenueAgg(0, 0),
		revenueAgg(200, 0), revenueAgg(0, 0), revenueAgg(200, 0),
	}
	s = find(t, g.Generate(revenueAgg(600, 150), nil, nil, volatile), domain.InsightSeasonality)
	assert.InDelta(t, 100.0, s.Value, 0.0001)
	assert.True(t, s.Actionable)
	assert.Equal(t, domain.SentimentNeutral, s.Sentiment)
	assert.Equal(t, domain.PriorityMedium, s.Priority)

	empty := make([]domain.Aggregate, 6)
	s = find(t, g.Generate(domain.Aggregate{}, nil, nil, empty), domain.InsightSeasonality)
	assert.Zero(t, s.Value)
}

func TestGenerate_SortedByPriorityStable(t *testing.T) {
	g := NewGenerator(DefaultThresholds())
	prev := revenueAgg(1000, 0)

	// queda forte (alta), gap 60 (média), concentração 100 (alta), margem 10 (média)
	insights := g.Generate(revenueAgg(500, 50), &prev, groups(300, 120), nil)

	types := make([]domain.InsightType, len(insights))
	for i, in := range insights {
		types[i] = in.Type
	}
	assert.Equal(t, []domain.InsightType{
		domain.InsightRevenueGrowth,
		domain.InsightConcentration,
		domain.InsightPlatformGap,
		domain.InsightMargin,
	}, types)

	for i := 1; i < len(insights); i++ {
		assert.GreaterOrEqual(t, insights[i-1].Priority.Weight(), insights[i].Priority.Weight())
	}
}

func TestGenerate_CustomThresholds(t *testing.T) {
	th := DefaultThresholds()
	th.MarginHealthy = 40
	th.ConcentrationTopN = 1

	insights := NewGenerator(th).Generate(revenueAgg(1000, 300), nil, groups(500, 500), nil)

	assert.Equal(t, domain.SentimentNeutral, find(t, insights, domain.InsightMargin).Sentiment)
	assert.Equal(t, 50.0, find(t, insights, domain.InsightConcentration).Value)
}
