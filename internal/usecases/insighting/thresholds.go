package insighting

// Thresholds reúne os limites usados pelas regras de insight, em pontos percentuais.
// Carregado da seção "insights" da configuração.
type Thresholds struct {
	// Crescimento de receita acima disso é positivo
	GrowthPositive float64 `mapstructure:"insight_growth_positive"`
	// Queda de receita abaixo disso tem prioridade alta
	GrowthHighRiskDrop float64 `mapstructure:"insight_growth_high_risk_drop"`

	// Diferença entre a melhor e a pior plataforma
	PlatformGapActionable float64 `mapstructure:"insight_platform_gap_actionable"`
	PlatformGapHigh       float64 `mapstructure:"insight_platform_gap_high"`

	// Participação dos N maiores grupos na receita total
	ConcentrationNegative   float64 `mapstructure:"insight_concentration_negative"`
	ConcentrationNeutral    float64 `mapstructure:"insight_concentration_neutral"`
	ConcentrationActionable float64 `mapstructure:"insight_concentration_actionable"`
	ConcentrationTopN       int     `mapstructure:"insight_concentration_top_n"`

	MarginHealthy float64 `mapstructure:"insight_margin_healthy"`
	MarginWarning float64 `mapstructure:"insight_margin_warning"`

	// Coeficiente de variação da receita mensal
	SeasonalityCV        float64 `mapstructure:"insight_seasonality_cv"`
	SeasonalityMinMonths int     `mapstructure:"insight_seasonality_min_months"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		GrowthPositive:          10,
		GrowthHighRiskDrop:      -10,
		PlatformGapActionable:   50,
		PlatformGapHigh:         70,
		ConcentrationNegative:   80,
		ConcentrationNeutral:    60,
		ConcentrationActionable: 70,
		ConcentrationTopN:       5,
		MarginHealthy:           25,
		MarginWarning:           15,
		SeasonalityCV:           30,
		SeasonalityMinMonths:    6,
	}
}
