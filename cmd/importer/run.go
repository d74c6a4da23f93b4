package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vfg2006/sales-analytics-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-analytics-api/infrastructure/repository"
	"github.com/vfg2006/sales-analytics-api/internal/config"
	"github.com/vfg2006/sales-analytics-api/internal/domain"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/importing"
	"github.com/vfg2006/sales-analytics-api/pkg/log"
	"github.com/vfg2006/sales-analytics-api/pkg/utils"
)

const progressEvery = 500

func setup(ctx context.Context) (*config.Config, *postgres.Connection, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("não foi possível carregar a configuração: %w", err)
	}
	log.Setup(cfg.App.LogLevel)

	conn, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("erro ao conectar ao PostgreSQL: %w", err)
	}
	return cfg, conn, nil
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, conn, err := setup(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	path := args[0]
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("não foi possível abrir %s: %w", path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}

	userRepo := repository.NewUserRepository(conn)
	session, err := cliSession(ctx, userRepo, asEmail)
	if err != nil {
		return err
	}

	if batchSize <= 0 {
		batchSize = cfg.Import.BatchSize
	}
	importer := importing.NewService(
		repository.NewTransactionRepository(conn),
		repository.NewPlatformRepository(conn),
		repository.NewStoreRepository(conn),
		batchSize,
	)

	bar := progressbar.DefaultBytes(info.Size(), "lendo "+filepath.Base(path))
	reader := io.TeeReader(file, bar)

	result, err := importer.Import(ctx, session, filepath.Base(path), reader, importing.Options{
		DryRun: dryRun,
		Progress: func(line int) {
			if line%progressEvery == 0 {
				bar.Describe(fmt.Sprintf("linha %d", line))
			}
		},
	})
	_ = bar.Finish()
	if err != nil {
		return err
	}

	if asJSON {
		fmt.Fprintln(cmd.OutOrStdout(), utils.PrettyJson(result))
		return nil
	}
	printResult(cmd.OutOrStdout(), result)
	return nil
}

// cliSession monta a sessão de administrador usada pela linha de comando
func cliSession(ctx context.Context, users repository.UserRepository, email string) (*domain.Session, error) {
	claims := &domain.Claims{UserRoleID: domain.RoleAdmin, UserName: "importer", UserActive: true}

	if email != "" {
		user, err := users.GetUserByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("erro ao buscar usuário %s: %w", email, err)
		}
		if user == nil {
			return nil, fmt.Errorf("usuário %s não encontrado", email)
		}
		if !user.Active || user.RoleID == domain.RoleViewer {
			return nil, fmt.Errorf("usuário %s não pode importar vendas", email)
		}
		claims = &domain.Claims{
			UserID:       user.ID,
			UserName:     user.Name,
			UserEmail:    user.Email,
			UserActive:   user.Active,
			UserRoleID:   user.RoleID,
			UserStoreIDs: user.StoreIDs,
		}
	}

	return &domain.Session{ID: "cli", Claims: claims}, nil
}

func printResult(w io.Writer, result *importing.ImportResult) {
	fmt.Fprintln(w)
	if result.DryRun {
		fmt.Fprintln(w, "Simulação: nenhuma venda foi gravada")
	} else if result.BatchID != "" {
		fmt.Fprintf(w, "Lote: %s\n", result.BatchID)
	}
	fmt.Fprintf(w, "Importadas: %d\nRejeitadas: %d\n", result.Imported, result.Rejected)

	if result.Coercion.HasIssues() {
		fmt.Fprintf(w, "Linhas corrigidas: %d\n", result.Coercion.RowsCoerced)
		for field, n := range result.Coercion.FieldIssues {
			fmt.Fprintf(w, "  %s: %d\n", field, n)
		}
	}

	for i, issue := range result.Issues {
		if i == showLines {
			fmt.Fprintf(w, "  ... e mais %d linhas\n", len(result.Issues)-showLines)
			break
		}
		fmt.Fprintf(w, "  linha %d: %s %s\n", issue.Line, issue.Reason, issue.Value)
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	_, conn, err := setup(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if down >= 0 {
		return postgres.Rollback(conn.DB, down)
	}

	logrus.Info("Aplicando migrações")
	return postgres.Migrate(conn.DB)
}
