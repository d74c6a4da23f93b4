// Package period calcula os intervalos de comparação (período atual e anterior)
package period

import (
	"strings"
	"time"

	"github.com/vfg2006/sales-analytics-api/internal/domain"
)

const day = 24 * time.Hour

var timeframeDays = map[domain.Timeframe]int{
	domain.Timeframe7Days:  7,
	domain.Timeframe30Days: 30,
	domain.Timeframe90Days: 90,
	domain.Timeframe1Year:  365,
}

// ParseTimeframe normaliza o texto recebido na query string
func ParseTimeframe(s string) (domain.Timeframe, bool) {
	tf := domain.Timeframe(strings.ToLower(strings.TrimSpace(s)))
	_, ok := timeframeDays[tf]
	return tf, ok
}

// Days retorna a quantidade de dias do timeframe e se ele é conhecido
func Days(tf domain.Timeframe) (int, bool) {
	d, ok := timeframeDays[tf]
	return d, ok
}

// Resolve monta o período atual {now-D, now} e o anterior {now-2D, now-D}.
// Timeframe desconhecido cai em 30 dias com Defaulted marcado; quem chama decide como registrar.
func Resolve(tf domain.Timeframe, now time.Time) domain.Periods {
	d, ok := timeframeDays[tf]
	if !ok {
		p := ResolveDays(timeframeDays[domain.DefaultTimeframe], now)
		p.Timeframe = domain.DefaultTimeframe
		p.Defaulted = true
		return p
	}

	p := ResolveDays(d, now)
	p.Timeframe = tf
	return p
}

// ResolveDays aplica o mesmo contrato para uma quantidade arbitrária de dias (negativo vira 0)
func ResolveDays(days int, now time.Time) domain.Periods {
	if days < 0 {
		days = 0
	}

	length := time.Duration(days) * day
	currentStart := now.Add(-length)

	return domain.Periods{
		Days: days,
		Current: domain.PeriodBounds{
			Start: currentStart,
			End:   now,
		},
		Previous: domain.PeriodBounds{
			Start: currentStart.Add(-length),
			End:   currentStart,
		},
	}
}
