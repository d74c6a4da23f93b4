// Package comparing calcula a variação percentual entre dois Aggregates
package comparing

import (
	"github.com/shopspring/decimal"
	"github.com/vfg2006/sales-analytics-api/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Policy define o que reportar quando o valor anterior é zero.
// Com atual também zero a variação é sempre 0.
type Policy struct {
	ZeroBaseline decimal.Decimal
}

// DefaultPolicy trata crescimento a partir de zero como 100%
func DefaultPolicy() Policy {
	return Policy{ZeroBaseline: hundred}
}

// Compare aplica a política padrão a todas as métricas comparáveis
func Compare(current, previous domain.Aggregate) map[domain.MetricName]domain.ChangeMetric {
	return CompareWithPolicy(current, previous, DefaultPolicy())
}

func CompareWithPolicy(current, previous domain.Aggregate, policy Policy) map[domain.MetricName]domain.ChangeMetric {
	changes := make(map[domain.MetricName]domain.ChangeMetric, len(domain.ComparableMetrics))
	for _, name := range domain.ComparableMetrics {
		changes[name] = policy.Change(current.Metric(name), previous.Metric(name))
	}
	return changes
}

// PercentChange calcula (c - p) / p * 100 com a política padrão
func PercentChange(current, previous decimal.Decimal) decimal.Decimal {
	return DefaultPolicy().PercentChange(current, previous)
}

func (p Policy) PercentChange(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		if current.IsZero() {
			return decimal.Zero
		}
		return p.ZeroBaseline
	}
	return current.Sub(previous).Div(previous).Mul(hundred)
}

// Change monta o ChangeMetric; o arredondamento fica para a apresentação
func (p Policy) Change(current, previous decimal.Decimal) domain.ChangeMetric {
	pct := p.PercentChange(current, previous)
	return domain.ChangeMetric{
		Value:     pct.InexactFloat64(),
		Direction: DirectionOf(pct),
	}
}

func DirectionOf(pct decimal.Decimal) domain.Direction {
	switch pct.Sign() {
	case 1:
		return domain.DirectionIncrease
	case -1:
		return domain.DirectionDecrease
	}
	return domain.DirectionFlat
}
