package domain

import "time"

// Timeframe é o período simbólico escolhido no dashboard ("7d", "30d", "90d", "1y")
type Timeframe string

const (
	Timeframe7Days  Timeframe = "7d"
	Timeframe30Days Timeframe = "30d"
	Timeframe90Days Timeframe = "90d"
	Timeframe1Year  Timeframe = "1y"

	DefaultTimeframe = Timeframe30Days
)

// PeriodBounds é um intervalo de datas com Start <= End
type PeriodBounds struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (p PeriodBounds) Duration() time.Duration {
	return p.End.Sub(p.Start)
}

// Contains considera o intervalo fechado nas duas pontas
func (p PeriodBounds) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// Periods agrupa o período atual e o período anterior de mesmo tamanho.
// Previous.End == Current.Start.
type Periods struct {
	Timeframe Timeframe    `json:"timeframe"`
	Days      int          `json:"days"`
	Current   PeriodBounds `json:"current"`
	Previous  PeriodBounds `json:"previous"`
	// Defaulted indica que o timeframe informado era desconhecido e caiu no padrão de 30 dias
	Defaulted bool `json:"defaulted,omitempty"`
}
