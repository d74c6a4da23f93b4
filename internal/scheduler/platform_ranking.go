// Package scheduler contém os serviços de agendamento que consolidam dados periodicamente
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-analytics-api/infrastructure/repository"
	"github.com/vfg2006/sales-analytics-api/internal/config"
	"github.com/vfg2006/sales-analytics-api/internal/domain"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/aggregating"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/ranking"
	"github.com/vfg2006/sales-analytics-api/pkg/utils"
)

// Job é o que o handler de cron enxerga de um agendador
type Job interface {
	TriggerManualSync()
	GetStatus() map[string]any
}

type PlatformRankingConfig struct {
	CronSchedule string
	SyncEnabled  bool
}

// PlatformRankingService grava diariamente o ranking de receita das plataformas no mês corrente
type PlatformRankingService struct {
	scheduler           *gocron.Scheduler
	platformRepo        repository.PlatformRepository
	rankingRepo         repository.PlatformRankingRepository
	transactionRepo     repository.TransactionRepository
	aggregator          aggregating.Aggregator
	config              PlatformRankingConfig
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastSyncError       string
	now                 func() time.Time
}

func NewPlatformRankingService(
	platformRepo repository.PlatformRepository,
	rankingRepo repository.PlatformRankingRepository,
	transactionRepo repository.TransactionRepository,
	aggregator aggregating.Aggregator,
	cfg *config.Config,
) *PlatformRankingService {
	rankingConfig := PlatformRankingConfig{
		CronSchedule: cfg.PlatformRankingSync.CronSchedule,
		SyncEnabled:  cfg.PlatformRankingSync.SyncEnabled,
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": rankingConfig.CronSchedule,
		"sync_enabled":  rankingConfig.SyncEnabled,
	}).Info("Configuração do agendador do ranking de plataformas carregada")

	return &PlatformRankingService{
		scheduler:       gocron.NewScheduler(time.Local),
		platformRepo:    platformRepo,
		rankingRepo:     rankingRepo,
		transactionRepo: transactionRepo,
		aggregator:      aggregator,
		config:          rankingConfig,
		now:             time.Now,
	}
}

func (s *PlatformRankingService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Cron do ranking de plataformas desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando cron do ranking de plataformas")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if err := s.UpdatePlatformRanking(ctx); err != nil {
			logrus.WithError(err).Error("Erro na atualização do ranking de plataformas")
		}
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar ranking de plataformas: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando cron do ranking de plataformas")
		s.scheduler.Stop()
	}()

	return nil
}

// UpdatePlatformRanking recalcula o ranking do mês de ontem (do dia 1 até ontem inclusive)
func (s *PlatformRankingService) UpdatePlatformRanking(ctx context.Context) error {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Warn("Atualização do ranking de plataformas já está em execução")
		return nil
	}
	s.syncRunning = true
	s.lastSyncStartedAt = s.now()
	s.syncMutex.Unlock()

	_, err := s.processPlatformRankingWithDate(ctx, s.lastSyncStartedAt)

	s.syncMutex.Lock()
	s.syncRunning = false
	s.lastSyncCompletedAt = s.now()
	s.lastSyncError = ""
	if err != nil {
		s.lastSyncError = err.Error()
	}
	s.syncMutex.Unlock()

	return err
}

func (s *PlatformRankingService) processPlatformRankingWithDate(ctx context.Context, processingDate time.Time) ([]*domain.PlatformRankingItem, error) {
	yesterday := processingDate.AddDate(0, 0, -1)
	firstDayOfMonth := utils.StartOfMonth(yesterday)
	endOfYesterday := utils.EndOfDay(yesterday)
	month := yesterday.Format(aggregating.MonthLayout)

	platforms, err := s.platformRepo.ListPlatforms(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar plataformas: %w", err)
	}

	active := make([]*domain.Platform, 0, len(platforms))
	for _, p := range platforms {
		if p.Active {
			active = append(active, p)
		}
	}
	if len(active) == 0 {
		logrus.Info("Nenhuma plataforma ativa para o ranking")
		return []*domain.PlatformRankingItem{}, nil
	}

	// posições anteriores e vendas do mês são buscadas em paralelo
	wg := sync.WaitGroup{}
	rankingBeforeUpdate := make(chan domain.PlatformRankingItem, len(active))
	var (
		raws     []domain.RawTransaction
		salesErr error
	)

	for _, platform := range active {
		wg.Add(1)
		go func(platformID string) {
			defer wg.Done()

			item, err := s.rankingRepo.GetByPlatformID(ctx, platformID, month)
			if err != nil {
				logrus.WithError(err).WithField("platform_id", platformID).Error("PlatformRankingService: erro ao buscar ranking anterior")
				return
			}
			if item != nil {
				rankingBeforeUpdate <- *item
			}
		}(platform.ID)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		raws, salesErr = s.transactionRepo.ListRaw(ctx, domain.TransactionFilters{
			StartDate: &firstDayOfMonth,
			EndDate:   &endOfYesterday,
		})
	}()

	wg.Wait()
	close(rankingBeforeUpdate)

	if salesErr != nil {
		return nil, fmt.Errorf("erro ao buscar vendas do mês %s: %w", month, salesErr)
	}

	rankingsBefore := make(map[string]domain.PlatformRankingItem, len(active))
	for item := range rankingBeforeUpdate {
		rankingsBefore[item.PlatformID] = item
	}

	rows, report := aggregating.CoerceAll(raws)
	if report.HasIssues() {
		logrus.WithFields(logrus.Fields{
			"month":        month,
			"rows_coerced": report.RowsCoerced,
		}).Warn("PlatformRankingService: linhas corrigidas na agregação do ranking")
	}
	groups := s.aggregator.GroupBy(rows, aggregating.GroupByPlatform)
	updatedRankings := rankPlatforms(active, groups, month, rankingsBefore)

	if err := s.rankingRepo.SaveOrUpdatePlatformRanking(ctx, updatedRankings); err != nil {
		return updatedRankings, fmt.Errorf("erro ao salvar ranking de plataformas: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"month":     month,
		"platforms": len(updatedRankings),
	}).Info("Ranking de plataformas atualizado")

	return updatedRankings, nil
}

// rankPlatforms ordena as plataformas ativas por receita (empate pelo id da plataforma) e compara
// com a posição gravada. Plataforma ativa sem vendas entra com receita zero; vendas de plataformas
// inativas ficam de fora. PositionChange positivo significa que a plataforma subiu.
func rankPlatforms(
	active []*domain.Platform,
	groups map[string]*domain.GroupAggregate,
	month string,
	rankingsBefore map[string]domain.PlatformRankingItem,
) []*domain.PlatformRankingItem {
	names := make(map[string]string, len(active))
	candidates := make(map[string]*domain.GroupAggregate, len(active))
	for _, platform := range active {
		names[platform.ID] = platform.Name
		if g, ok := groups[platform.ID]; ok {
			candidates[platform.ID] = g
			continue
		}
		candidates[platform.ID] = &domain.GroupAggregate{Key: platform.ID}
	}

	ranked := ranking.Rank(candidates, ranking.ByRevenue)
	positions := ranking.Positions(ranked)

	items := make([]*domain.PlatformRankingItem, 0, len(ranked))
	for _, g := range ranked {
		item := &domain.PlatformRankingItem{
			PlatformID:       g.Key,
			PlatformName:     names[g.Key],
			Month:            month,
			Revenue:          g.TotalRevenue,
			TransactionCount: g.TransactionCount,
			Position:         positions[g.Key],
		}

		before, exists := rankingsBefore[g.Key]
		if exists && before.Position > 0 {
			item.PositionChange = before.Position - item.Position
			item.PreviousPosition = before.Position
		}
		items = append(items, item)
	}
	return items
}

// TriggerManualSync inicia manualmente uma atualização do ranking
func (s *PlatformRankingService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Ranking de plataformas já em atualização, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando atualização manual do ranking de plataformas")
	go func() {
		if err := s.UpdatePlatformRanking(context.Background()); err != nil {
			logrus.WithError(err).Error("Erro na atualização manual do ranking de plataformas")
		}
	}()
}

// GetStatus retorna o status atual do agendador
func (s *PlatformRankingService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_running":           s.syncRunning,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_sync_error":        s.lastSyncError,
	}
}
