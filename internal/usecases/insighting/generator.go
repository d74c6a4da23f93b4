// Package insighting deriva observações qualitativas a partir dos agregados de vendas
package insighting

import (
	"fmt"
	"math"
	"slices"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/sales-analytics-api/internal/domain"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/comparing"
)

var hundred = decimal.NewFromInt(100)

// Generator aplica as regras de insight com limites configuráveis
type Generator struct {
	Thresholds Thresholds
}

func NewGenerator(thresholds Thresholds) *Generator {
	return &Generator{Thresholds: thresholds}
}

// Input reúne as entradas do gerador. ConcentrationGroups vazio usa RankedGroups na regra de
// concentração; com poucas plataformas o top N cobre tudo e a concentração é sempre 100%, por isso
// quem chama pode passar um ranking mais granular (produtos).
type Input struct {
	Current             domain.Aggregate
	Previous            *domain.Aggregate
	RankedGroups        []domain.GroupAggregate
	ConcentrationGroups []domain.GroupAggregate
	// ConcentrationLabel nomeia os grupos na descrição ("produtos"); vazio vira "grupos"
	ConcentrationLabel string
	MonthlySeries      []domain.Aggregate
}

// Generate devolve os insights ordenados por prioridade (alta primeiro); empates mantêm
// a ordem de geração. Entradas opcionais ausentes apenas suprimem a regra correspondente.
func (g *Generator) Generate(
	current domain.Aggregate,
	previous *domain.Aggregate,
	rankedGroups []domain.GroupAggregate,
	monthlySeries []domain.Aggregate,
) []domain.Insight {
	return g.GenerateFrom(Input{
		Current:       current,
		Previous:      previous,
		RankedGroups:  rankedGroups,
		MonthlySeries: monthlySeries,
	})
}

func (g *Generator) GenerateFrom(in Input) []domain.Insight {
	insights := make([]domain.Insight, 0, 5)

	if in.Previous != nil {
		insights = append(insights, g.revenueGrowth(in.Current, *in.Previous))
	}
	if len(in.RankedGroups) > 1 {
		insights = append(insights, g.platformGap(in.RankedGroups))
	}

	concentrationGroups, label := in.ConcentrationGroups, in.ConcentrationLabel
	if len(concentrationGroups) == 0 {
		concentrationGroups = in.RankedGroups
	}
	if label == "" {
		label = "grupos"
	}
	insights = append(insights, g.concentration(in.Current, concentrationGroups, label))
	insights = append(insights, g.margin(in.Current))
	if len(in.MonthlySeries) > 0 && len(in.MonthlySeries) >= g.Thresholds.SeasonalityMinMonths {
		insights = append(insights, g.seasonality(in.MonthlySeries))
	}

	slices.SortStableFunc(insights, func(a, b domain.Insight) int {
		return b.Priority.Weight() - a.Priority.Weight()
	})

	return insights
}

func (g *Generator) revenueGrowth(current, previous domain.Aggregate) domain.Insight {
	change := comparing.PercentChange(current.TotalRevenue, previous.TotalRevenue).InexactFloat64()
	th := g.Thresholds

	insight := domain.Insight{
		Type:       domain.InsightRevenueGrowth,
		Value:      change,
		Actionable: change < 0,
	}

	switch {
	case change > th.GrowthPositive:
		insight.Sentiment = domain.SentimentPositive
		insight.Title = "Receita em crescimento"
		insight.Description = fmt.Sprintf("A receita cresceu %.1f%% em relação ao período anterior.", change)
		insight.Recommendations = []string{
			"Reforce o estoque dos produtos mais vendidos",
			"Mantenha as campanhas que sustentaram o crescimento",
		}
	case change >= 0:
		insight.Sentiment = domain.SentimentNeutral
		insight.Title = "Receita estável"
		insight.Description = fmt.Sprintf("A receita variou %.1f%% em relação ao período anterior.", change)
		insight.Recommendations = []string{
			"Teste promoções nas plataformas com maior tráfego",
		}
	default:
		insight.Sentiment = domain.SentimentNegative
		insight.Title = "Receita em queda"
		insight.Description = fmt.Sprintf("A receita caiu %.1f%% em relação ao período anterior.", math.Abs(change))
		insight.Recommendations = []string{
			"Revise preços e anúncios dos produtos com maior queda",
			"Verifique cancelamentos e devoluções do período",
		}
	}

	switch {
	case change < th.GrowthHighRiskDrop:
		insight.Priority = domain.PriorityHigh
	case change < 0:
		insight.Priority = domain.PriorityMedium
	default:
		insight.Priority = domain.PriorityLow
	}

	return insight
}

func (g *Generator) platformGap(ranked []domain.GroupAggregate) domain.Insight {
	top, bottom := ranked[0], ranked[len(ranked)-1]
	th := g.Thresholds

	gap := 0.0
	if !top.TotalRevenue.IsZero() {
		gap = top.TotalRevenue.Sub(bottom.TotalRevenue).Div(top.TotalRevenue).Mul(hundred).InexactFloat64()
	}

	insight := domain.Insight{
		Type:  domain.InsightPlatformGap,
		Title: "Diferença entre plataformas",
		Description: fmt.Sprintf("%s fatura %.1f%% a mais que %s.",
			displayName(top), gap, displayName(bottom)),
		Value:      gap,
		Actionable: gap > th.PlatformGapActionable,
	}

	switch {
	case gap > th.PlatformGapHigh:
		insight.Sentiment = domain.SentimentNegative
		insight.Priority = domain.PriorityHigh
	case gap > th.PlatformGapActionable:
		insight.Sentiment = domain.SentimentNeutral
		insight.Priority = domain.PriorityMedium
	default:
		insight.Sentiment = domain.SentimentPositive
		insight.Priority = domain.PriorityLow
	}

	if insight.Actionable {
		insight.Recommendations = []string{
			fmt.Sprintf("Replique em %s as práticas que funcionam em %s", displayName(bottom), displayName(top)),
			"Avalie se vale manter o catálogo completo nas plataformas de menor desempenho",
		}
	}

	return insight
}

func (g *Generator) concentration(current domain.Aggregate, ranked []domain.GroupAggregate, label string) domain.Insight {
	th := g.Thresholds

	topRevenue := decimal.Zero
	for i := 0; i < len(ranked) && i < th.ConcentrationTopN; i++ {
		topRevenue = topRevenue.Add(ranked[i].TotalRevenue)
	}

	share := 0.0
	if !current.TotalRevenue.IsZero() {
		share = topRevenue.Div(current.TotalRevenue).Mul(hundred).InexactFloat64()
	}

	insight := domain.Insight{
		Type:  domain.InsightConcentration,
		Title: "Concentração de receita",
		Description: fmt.Sprintf("Os %d principais %s respondem por %.1f%% da receita.",
			min(th.ConcentrationTopN, len(ranked)), label, share),
		Value:      share,
		Actionable: share > th.ConcentrationActionable,
	}

	switch {
	case share > th.ConcentrationNegative:
		insight.Sentiment = domain.SentimentNegative
		insight.Priority = domain.PriorityHigh
	case share > th.ConcentrationNeutral:
		insight.Sentiment = domain.SentimentNeutral
		insight.Priority = domain.PriorityMedium
	default:
		insight.Sentiment = domain.SentimentPositive
		insight.Priority = domain.PriorityLow
	}

	if insight.Actionable {
		insight.Recommendations = []string{
			"Diversifique os canais de venda para reduzir a dependência",
			"Invista na divulgação dos grupos de menor participação",
		}
	}

	return insight
}

func (g *Generator) margin(current domain.Aggregate) domain.Insight {
	margin := current.ProfitMargin.InexactFloat64()
	th := g.Thresholds

	insight := domain.Insight{
		Type:        domain.InsightMargin,
		Title:       "Margem de lucro",
		Description: fmt.Sprintf("A margem de lucro do período é de %.1f%%.", margin),
		Value:       margin,
		Actionable:  margin < th.MarginWarning,
	}

	switch {
	case margin >= th.MarginHealthy:
		insight.Sentiment = domain.SentimentPositive
	case margin >= th.MarginWarning:
		insight.Sentiment = domain.SentimentNeutral
	default:
		insight.Sentiment = domain.SentimentNegative
	}

	switch {
	case margin < 0:
		insight.Priority = domain.PriorityHigh
	case margin < th.MarginWarning:
		insight.Priority = domain.PriorityMedium
	default:
		insight.Priority = domain.PriorityLow
	}

	if insight.Actionable {
		insight.Recommendations = []string{
			"Renegocie custos com fornecedores",
			"Revise as taxas cobradas por cada plataforma",
			"Reajuste o preço dos produtos com margem negativa",
		}
	}

	return insight
}

func (g *Generator) seasonality(series []domain.Aggregate) domain.Insight {
	cv := coefficientOfVariation(series)
	th := g.Thresholds

	insight := domain.Insight{
		Type:        domain.InsightSeasonality,
		Title:       "Sazonalidade das vendas",
		Description: fmt.Sprintf("A receita mensal varia %.1f%% em torno da média dos últimos %d meses.", cv, len(series)),
		Value:       cv,
		Actionable:  cv > th.SeasonalityCV,
	}

	if insight.Actionable {
		insight.Sentiment = domain.SentimentNeutral
		insight.Priority = domain.PriorityMedium
		insight.Recommendations = []string{
			"Planeje o estoque considerando os meses de pico",
			"Concentre promoções nos meses historicamente mais fracos",
		}
	} else {
		insight.Sentiment = domain.SentimentPositive
		insight.Priority = domain.PriorityLow
	}

	return insight
}

// coefficientOfVariation usa o desvio padrão populacional da receita mensal
func coefficientOfVariation(series []domain.Aggregate) float64 {
	if len(series) == 0 {
		return 0
	}

	n := float64(len(series))
	var sum float64
	for _, s := range series {
		sum += s.TotalRevenue.InexactFloat64()
	}
	mean := sum / n
	if mean == 0 {
		return 0
	}

	var variance float64
	for _, s := range series {
		d := s.TotalRevenue.InexactFloat64() - mean
		variance += d * d
	}

	return math.Sqrt(variance/n) / mean * 100
}

func displayName(g domain.GroupAggregate) string {
	if g.Label != "" {
		return g.Label
	}
	return g.Key
}
