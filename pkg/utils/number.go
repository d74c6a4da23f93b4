package utils

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Percent devolve part/total em pontos percentuais, arredondado em duas casas. Total zero vale 0.
func Percent(part, total decimal.Decimal) float64 {
	if total.IsZero() {
		return 0
	}
	return part.Div(total).Mul(hundred).Round(2).InexactFloat64()
}
