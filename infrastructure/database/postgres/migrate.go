package postgres

import (
	"database/sql"
	"embed"
	"fmt"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/sirupsen/logrus"
)

//go:embed migrations
var migrationsFS embed.FS

func migrationSource() *migrate.EmbedFileSystemMigrationSource {
	return &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationsFS,
		Root:       "migrations",
	}
}

// Migrate aplica as migrações pendentes
func Migrate(db *sql.DB) error {
	n, err := migrate.Exec(db, "postgres", migrationSource(), migrate.Up)
	if err != nil {
		return fmt.Errorf("falha ao aplicar migrações: %w", err)
	}

	logrus.WithField("count", n).Info("Migrações aplicadas")
	return nil
}

// Rollback desfaz as últimas max migrações (0 desfaz todas)
func Rollback(db *sql.DB, max int) error {
	n, err := migrate.ExecMax(db, "postgres", migrationSource(), migrate.Down, max)
	if err != nil {
		return fmt.Errorf("falha ao desfazer migrações: %w", err)
	}

	logrus.WithField("count", n).Info("Migrações desfeitas")
	return nil
}
