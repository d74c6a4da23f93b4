package exporting

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/sales-analytics-api/internal/domain"
)

const dateLayoutBR = "02/01/2006"

// formatBRL formata valores no padrão brasileiro: R$ 1.234,56
func formatBRL(v decimal.Decimal) string {
	sign := ""
	if v.IsNegative() {
		sign = "-"
		v = v.Abs()
	}

	fixed := v.StringFixed(2)
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	return fmt.Sprintf("%sR$ %s,%s", sign, b.String(), fracPart)
}

// formatPercent formata com uma casa e vírgula decimal
func formatPercent(v float64) string {
	return strings.Replace(fmt.Sprintf("%.1f%%", v), ".", ",", 1)
}

// formatChange inclui o sinal explícito: +12,5% / -3,0% / 0,0%
func formatChange(c domain.ChangeMetric) string {
	if c.Direction == domain.DirectionIncrease {
		return "+" + formatPercent(c.Value)
	}
	return formatPercent(c.Value)
}

func formatPeriod(b domain.PeriodBounds) string {
	return b.Start.Format(dateLayoutBR) + " a " + b.End.Format(dateLayoutBR)
}

var timeframeLabels = map[domain.Timeframe]string{
	domain.Timeframe7Days:  "últimos 7 dias",
	domain.Timeframe30Days: "últimos 30 dias",
	domain.Timeframe90Days: "últimos 90 dias",
	domain.Timeframe1Year:  "último ano",
}

func timeframeLabel(tf domain.Timeframe) string {
	if label, ok := timeframeLabels[tf]; ok {
		return label
	}
	return string(tf)
}

func truncationNotice(limit uint64) string {
	return fmt.Sprintf("Atenção: o período tem mais de %d vendas; os valores são parciais", limit)
}
