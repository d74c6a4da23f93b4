package main

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-analytics-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-analytics-api/infrastructure/pdf"
	"github.com/vfg2006/sales-analytics-api/infrastructure/repository"
	"github.com/vfg2006/sales-analytics-api/infrastructure/sessionstore"
	"github.com/vfg2006/sales-analytics-api/internal/api"
	"github.com/vfg2006/sales-analytics-api/internal/api/handler"
	"github.com/vfg2006/sales-analytics-api/internal/config"
	"github.com/vfg2006/sales-analytics-api/internal/domain"
	"github.com/vfg2006/sales-analytics-api/internal/scheduler"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/aggregating"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/analyzing"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/cataloging"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/exporting"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/importing"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/insighting"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/ranking"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/transacting"
	"github.com/vfg2006/sales-analytics-api/pkg/log"
)

func main() {
	log.Setup("info")

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	log.Setup(cfg.App.LogLevel)
	logrus.Infof("Nível de log configurado para: %s", logrus.GetLevel())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	if cfg.Database.MigrateOnBoot {
		if err := postgres.Migrate(pgConn.DB); err != nil {
			logrus.WithError(err).Fatal("Erro ao aplicar migrações")
		}
	}

	sessions := sessionStore(ctx, cfg.Redis)

	userRepo := repository.NewUserRepository(pgConn)
	platformRepo := repository.NewPlatformRepository(pgConn)
	storeRepo := repository.NewStoreRepository(pgConn)
	transactionRepo := repository.NewTransactionRepository(pgConn)
	platformRankingRepo := repository.NewPlatformRankingRepository(pgConn)

	sessionManager := authenticating.NewSessionManager(cfg.Auth.Secret, cfg.Auth.SessionTTL, sessions)
	authenticator := authenticating.NewService(userRepo, sessionManager, cfg.Auth.AllowOpenSignup)

	catalog := cataloging.NewService(platformRepo, storeRepo)
	transactor := transacting.NewService(transactionRepo, platformRepo, storeRepo)
	importer := importing.NewService(transactionRepo, platformRepo, storeRepo, cfg.Import.BatchSize)

	completed := completedStatuses(cfg.Analytics.CompletedStatuses)
	analyzer := analyzing.NewService(
		transactionRepo,
		catalog,
		insighting.NewGenerator(cfg.Insights),
		analyzing.Options{
			CompletedStatuses: completed,
			SeasonalityMonths: cfg.Analytics.SeasonalityMonths,
			MaxRows:           cfg.Analytics.MaxRows,
		},
	)
	exporter := exporting.NewService(analyzer, catalog, pdf.NewRenderer(cfg.Export), cfg.Export.CompanyName)

	rankingService := ranking.NewPlatformRankingService(platformRankingRepo)

	platformRankingSync := scheduler.NewPlatformRankingService(
		platformRepo,
		platformRankingRepo,
		transactionRepo,
		aggregating.New(completedPredicate(completed)),
		cfg,
	)
	if err := platformRankingSync.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador do ranking de plataformas")
	}

	server := api.New(cfg, api.Services{
		Authenticator: authenticator,
		Catalog:       catalog,
		Transactions:  transactor,
		Importer:      importer,
		Analyzer:      analyzer,
		Exporter:      exporter,
		Ranking:       rankingService,
		CronJobs: handler.CronJobs{
			handler.CronJobTypePlatformRanking: platformRankingSync,
		},
		DB: pgConn,
	})

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}

// sessionStore usa o Redis quando configurado; sem endereço as revogações ficam em memória
func sessionStore(ctx context.Context, cfg config.Redis) sessionstore.SessionStore {
	if cfg.Addr == "" {
		logrus.Warn("REDIS_ADDR não configurado, sessões revogadas ficarão em memória")
		return sessionstore.NewMemoryStore()
	}

	client, err := sessionstore.NewRedisClient(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao Redis")
	}
	return sessionstore.NewRedisStore(client)
}

func completedStatuses(values []string) []domain.DeliveryStatus {
	var statuses []domain.DeliveryStatus
	for _, v := range values {
		status, ok := domain.ParseDeliveryStatus(v)
		if !ok {
			logrus.WithField("status", v).Warn("Status de venda concluída desconhecido, ignorando")
			continue
		}
		statuses = append(statuses, status)
	}
	return statuses
}

func completedPredicate(statuses []domain.DeliveryStatus) aggregating.CompletionPredicate {
	if len(statuses) == 0 {
		return aggregating.CompletedOnly
	}
	return func(s domain.DeliveryStatus) bool {
		for _, c := range statuses {
			if c == s {
				return true
			}
		}
		return false
	}
}
