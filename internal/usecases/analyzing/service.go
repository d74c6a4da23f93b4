// Package analyzing monta os relatórios do dashboard: busca as vendas dos dois períodos,
// passa pela coerção e entrega ao motor de agregação, ranking, comparação e insights.
package analyzing

import (
	"context"
	"slices"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-analytics-api/infrastructure/repository"
	"github.com/vfg2006/sales-analytics-api/internal/domain"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/aggregating"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/cataloging"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/comparing"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/insighting"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/period"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/ranking"
	"github.com/vfg2006/sales-analytics-api/pkg/utils"
	"golang.org/x/sync/errgroup"
)

const defaultSeasonalityMonths = 12

var (
	ErrInvalidQuery = errors.New("consulta inválida")
	ErrForbidden    = errors.New("loja fora do escopo do usuário")
)

type Analyzer interface {
	Summary(ctx context.Context, session *domain.Session, q domain.AnalyticsQuery) (*domain.SummaryReport, error)
	Platforms(ctx context.Context, session *domain.Session, q domain.AnalyticsQuery) (*domain.PerformanceReport, error)
	Stores(ctx context.Context, session *domain.Session, q domain.AnalyticsQuery) (*domain.PerformanceReport, error)
	Products(ctx context.Context, session *domain.Session, q domain.AnalyticsQuery) (*domain.PerformanceReport, error)
	Insights(ctx context.Context, session *domain.Session, q domain.AnalyticsQuery) (*domain.InsightsReport, error)
	// Transactions devolve as vendas do período atual já corrigidas, para exportação
	Transactions(ctx context.Context, session *domain.Session, q domain.AnalyticsQuery) ([]domain.Transaction, domain.Periods, error)
}

type Options struct {
	CompletedStatuses []domain.DeliveryStatus
	SeasonalityMonths int
	MaxRows           uint64
	Policy            comparing.Policy
}

type Service struct {
	transactionRepo   repository.TransactionRepository
	catalog           cataloging.Cataloger
	aggregator        aggregating.Aggregator
	generator         *insighting.Generator
	policy            comparing.Policy
	seasonalityMonths int
	maxRows           uint64
	now               func() time.Time
}

func NewService(
	transactionRepo repository.TransactionRepository,
	catalog cataloging.Cataloger,
	generator *insighting.Generator,
	opts Options,
) *Service {
	predicate := aggregating.CompletedOnly
	if len(opts.CompletedStatuses) > 0 {
		statuses := slices.Clone(opts.CompletedStatuses)
		predicate = func(s domain.DeliveryStatus) bool {
			return slices.Contains(statuses, s)
		}
	}
	if opts.SeasonalityMonths <= 0 {
		opts.SeasonalityMonths = defaultSeasonalityMonths
	}
	if opts.Policy.ZeroBaseline.IsZero() {
		opts.Policy = comparing.DefaultPolicy()
	}

	return &Service{
		transactionRepo:   transactionRepo,
		catalog:           catalog,
		aggregator:        aggregating.New(predicate),
		generator:         generator,
		policy:            opts.Policy,
		seasonalityMonths: opts.SeasonalityMonths,
		maxRows:           opts.MaxRows,
		now:               time.Now,
	}
}

// periodRows são as vendas dos dois períodos já corrigidas
type periodRows struct {
	periods  domain.Periods
	current  []domain.Transaction
	previous []domain.Transaction
	coercion aggregating.CoercionReport
	// truncated indica que algum dos períodos bateu no limite de linhas
	truncated bool
}

func (s *Service) Summary(ctx context.Context, session *domain.Session, q domain.AnalyticsQuery) (*domain.SummaryReport, error) {
	rows, err := s.fetchPeriods(ctx, session, q)
	if err != nil {
		return nil, err
	}

	current := s.aggregator.Aggregate(rows.current)
	previous := s.aggregator.Aggregate(rows.previous)

	report := &domain.SummaryReport{
		Periods:  rows.periods,
		Current:  current,
		Previous: previous,
		Changes:  comparing.CompareWithPolicy(current, previous, s.policy),
	}
	report.Truncated, report.RowsLimit = s.truncation(rows.truncated)
	if rows.coercion.HasIssues() {
		report.Coercion = &domain.CoercionSummary{
			RowsSeen:    rows.coercion.RowsSeen,
			RowsCoerced: rows.coercion.RowsCoerced,
			FieldIssues: rows.coercion.FieldIssues,
		}
	}
	return report, nil
}

func (s *Service) Platforms(ctx context.Context, session *domain.Session, q domain.AnalyticsQuery) (*domain.PerformanceReport, error) {
	return s.performance(ctx, session, q, aggregating.GroupByPlatform)
}

func (s *Service) Stores(ctx context.Context, session *domain.Session, q domain.AnalyticsQuery) (*domain.PerformanceReport, error) {
	return s.performance(ctx, session, q, aggregating.GroupByStore)
}

func (s *Service) Products(ctx context.Context, session *domain.Session, q domain.AnalyticsQuery) (*domain.PerformanceReport, error) {
	return s.performance(ctx, session, q, aggregating.GroupByProduct)
}

func (s *Service) performance(ctx context.Context, session *domain.Session, q domain.AnalyticsQuery, key aggregating.GroupKey) (*domain.PerformanceReport, error) {
	metric, ok := ranking.ParseMetric(q.RankBy)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidQuery, "critério de ranking desconhecido: %s", q.RankBy)
	}

	rows, err := s.fetchPeriods(ctx, session, q)
	if err != nil {
		return nil, err
	}

	total := s.aggregator.Aggregate(rows.current)
	currentGroups := s.aggregator.GroupBy(rows.current, key)
	previousGroups := s.aggregator.GroupBy(rows.previous, key)
	if err := s.label(ctx, key, currentGroups); err != nil {
		return nil, err
	}

	ranked := ranking.Rank(currentGroups, metric)
	if q.Limit > 0 {
		ranked = ranking.Top(ranked, q.Limit)
	}

	groups := make([]domain.GroupPerformance, 0, len(ranked))
	for i, g := range ranked {
		perf := domain.GroupPerformance{
			Position: i + 1,
			Current:  g,
			Share:    utils.Percent(g.TotalRevenue, total.TotalRevenue),
		}

		var prev domain.Aggregate
		if p, ok := previousGroups[g.Key]; ok {
			prev = p.Aggregate
			perf.Previous = &prev
		}
		perf.Changes = comparing.CompareWithPolicy(g.Aggregate, prev, s.policy)
		groups = append(groups, perf)
	}

	report := &domain.PerformanceReport{
		Periods: rows.periods,
		RankBy:  string(metric),
		Total:   total,
		Groups:  groups,
	}
	report.Truncated, report.RowsLimit = s.truncation(rows.truncated)
	return report, nil
}

// Insights combina o período atual, o anterior, o ranking de plataformas e a série mensal
func (s *Service) Insights(ctx context.Context, session *domain.Session, q domain.AnalyticsQuery) (*domain.InsightsReport, error) {
	now := s.now()
	periods := s.resolve(q.Timeframe, now)
	seriesFrom := utils.StartOfMonth(now).AddDate(0, -(s.seasonalityMonths - 1), 0)

	filters, err := s.baseFilters(session, q)
	if err != nil {
		return nil, err
	}

	var current, previous, series fetched
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = s.fetch(gctx, withBounds(filters, periods.Current, false))
		return err
	})
	g.Go(func() error {
		var err error
		previous, err = s.fetch(gctx, withBounds(filters, periods.Previous, true))
		return err
	})
	g.Go(func() error {
		var err error
		series, err = s.fetch(gctx, withBounds(filters, domain.PeriodBounds{Start: seriesFrom, End: now}, false))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	currentAgg := s.aggregator.Aggregate(current.rows)
	var previousAgg *domain.Aggregate
	if prev := s.aggregator.Aggregate(previous.rows); !prev.IsZero() {
		previousAgg = &prev
	}

	platformGroups := s.aggregator.GroupBy(current.rows, aggregating.GroupByPlatform)
	if err := s.label(ctx, aggregating.GroupByPlatform, platformGroups); err != nil {
		return nil, err
	}
	ranked := ranking.Rank(platformGroups, ranking.ByRevenue)
	products := ranking.Rank(s.aggregator.GroupBy(current.rows, aggregating.GroupByProduct), ranking.ByRevenue)

	monthly := s.aggregator.MonthlySeries(series.rows, seriesFrom, now)

	report := &domain.InsightsReport{
		Periods: periods,
		Insights: s.generator.GenerateFrom(insighting.Input{
			Current:             currentAgg,
			Previous:            previousAgg,
			RankedGroups:        ranked,
			ConcentrationGroups: products,
			ConcentrationLabel:  "produtos",
			MonthlySeries:       aggregating.Values(monthly),
		}),
		MonthlySeries: monthly,
	}
	report.Truncated, report.RowsLimit = s.truncation(current.truncated || previous.truncated || series.truncated)
	return report, nil
}

func (s *Service) Transactions(ctx context.Context, session *domain.Session, q domain.AnalyticsQuery) ([]domain.Transaction, domain.Periods, error) {
	periods := s.resolve(q.Timeframe, s.now())
	filters, err := s.baseFilters(session, q)
	if err != nil {
		return nil, periods, err
	}

	current, err := s.fetch(ctx, withBounds(filters, periods.Current, false))
	if err != nil {
		return nil, periods, err
	}
	return current.rows, periods, nil
}

// fetchPeriods busca o período atual e o anterior em paralelo; a agregação só começa
// depois que as duas buscas terminam. O fim do período anterior é exclusivo para que
// uma venda exatamente na fronteira conte apenas no período atual.
func (s *Service) fetchPeriods(ctx context.Context, session *domain.Session, q domain.AnalyticsQuery) (*periodRows, error) {
	filters, err := s.baseFilters(session, q)
	if err != nil {
		return nil, err
	}

	rows := &periodRows{periods: s.resolve(q.Timeframe, s.now())}
	var current, previous fetched

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = s.fetch(gctx, withBounds(filters, rows.periods.Current, false))
		return err
	})
	g.Go(func() error {
		var err error
		previous, err = s.fetch(gctx, withBounds(filters, rows.periods.Previous, true))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rows.current, rows.previous = current.rows, previous.rows
	rows.coercion = mergeReports(current.coercion, previous.coercion)
	rows.truncated = current.truncated || previous.truncated
	return rows, nil
}

// fetched são as vendas corrigidas de um intervalo
type fetched struct {
	rows     []domain.Transaction
	coercion aggregating.CoercionReport
	// truncated indica que o intervalo tinha mais de maxRows vendas e só as primeiras foram lidas
	truncated bool
}

// fetch pede uma linha além do limite para distinguir "exatamente maxRows" de "cortado"
func (s *Service) fetch(ctx context.Context, filters domain.TransactionFilters) (fetched, error) {
	if s.maxRows > 0 {
		filters.Limit = int(s.maxRows) + 1
	}

	raws, err := s.transactionRepo.ListRaw(ctx, filters)
	if err != nil {
		return fetched{}, errors.Wrap(err, "erro ao buscar vendas do período")
	}

	var out fetched
	if s.maxRows > 0 && uint64(len(raws)) > s.maxRows {
		raws = raws[:s.maxRows]
		out.truncated = true
		logrus.WithFields(logrus.Fields{
			"start":    filters.StartDate,
			"end":      filters.EndDate,
			"max_rows": s.maxRows,
		}).Warn("Período excedeu o limite de linhas; agregados parciais")
	}

	out.rows, out.coercion = aggregating.CoerceAll(raws)
	if out.coercion.HasIssues() {
		logrus.WithFields(logrus.Fields{
			"rows_seen":    out.coercion.RowsSeen,
			"rows_coerced": out.coercion.RowsCoerced,
			"field_issues": out.coercion.FieldIssues,
		}).Warn("Linhas com valores inválidos foram corrigidas na agregação")
	}
	return out, nil
}

func (s *Service) truncation(truncated bool) (bool, uint64) {
	if !truncated {
		return false, 0
	}
	return true, s.maxRows
}

func (s *Service) resolve(tf domain.Timeframe, now time.Time) domain.Periods {
	periods := period.Resolve(tf, now)
	if periods.Defaulted {
		logrus.WithField("timeframe", tf).Warn("Timeframe desconhecido; usando o padrão de 30 dias")
	}
	return periods
}

func (s *Service) baseFilters(session *domain.Session, q domain.AnalyticsQuery) (domain.TransactionFilters, error) {
	stores, ok := session.ScopeStores(q.StoreIDs)
	if !ok {
		return domain.TransactionFilters{}, ErrForbidden
	}

	return domain.TransactionFilters{
		PlatformIDs: q.PlatformIDs,
		StoreIDs:    stores,
	}, nil
}

// label preenche o nome de exibição de plataformas e lojas; produtos já trazem o nome
func (s *Service) label(ctx context.Context, key aggregating.GroupKey, groups map[string]*domain.GroupAggregate) error {
	if key != aggregating.GroupByPlatform && key != aggregating.GroupByStore {
		return nil
	}

	platforms, stores, err := s.catalog.Names(ctx)
	if err != nil {
		return errors.Wrap(err, "erro ao carregar nomes do catálogo")
	}

	names := platforms
	if key == aggregating.GroupByStore {
		names = stores
	}
	for k, g := range groups {
		if name, ok := names[k]; ok {
			g.Label = name
		}
	}
	return nil
}

func withBounds(filters domain.TransactionFilters, bounds domain.PeriodBounds, endExclusive bool) domain.TransactionFilters {
	start, end := bounds.Start, bounds.End
	filters.StartDate = &start
	filters.EndDate = &end
	filters.EndExclusive = endExclusive
	return filters
}

func mergeReports(reports ...aggregating.CoercionReport) aggregating.CoercionReport {
	var merged aggregating.CoercionReport
	for _, r := range reports {
		merged.RowsSeen += r.RowsSeen
		merged.RowsCoerced += r.RowsCoerced
		for field, n := range r.FieldIssues {
			if merged.FieldIssues == nil {
				merged.FieldIssues = make(map[string]int)
			}
			merged.FieldIssues[field] += n
		}
	}
	return merged
}
