package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/sales-analytics-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-analytics-api/internal/domain"
)

const (
	platformRankingTable = "platform_rankings pr"
)

var platformRankingColumns = []string{
	"pr.id",
	"pr.platform_id",
	"COALESCE(p.name, pr.platform_id)",
	"pr.month",
	"pr.revenue",
	"pr.transaction_count",
	"pr.position",
	"pr.position_change",
	"pr.previous_position",
	"pr.created_at",
	"pr.updated_at",
}

type PlatformRankingRepository interface {
	GetByPlatformID(ctx context.Context, platformID string, month string) (*domain.PlatformRankingItem, error)
	GetPlatformRanking(ctx context.Context, month string) (*domain.PlatformRankingResponse, error)
	SaveOrUpdatePlatformRanking(ctx context.Context, rankings []*domain.PlatformRankingItem) error
}

type platformRankingRepository struct {
	conn *postgres.Connection
}

func NewPlatformRankingRepository(conn *postgres.Connection) PlatformRankingRepository {
	return &platformRankingRepository{
		conn: conn,
	}
}

func (r *platformRankingRepository) GetPlatformRanking(ctx context.Context, month string) (*domain.PlatformRankingResponse, error) {
	sqlQuery, args, err := squirrel.
		Select(platformRankingColumns...).
		From(platformRankingTable).
		LeftJoin("platforms p ON p.id = pr.platform_id").
		Where(squirrel.Eq{"pr.month": month}).
		OrderBy("pr.position ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	rankings := make([]domain.PlatformRankingItem, 0)
	var lastUpdate time.Time

	for rows.Next() {
		item, err := scanPlatformRankingItem(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear item do ranking: %w", err)
		}

		rankings = append(rankings, *item)

		if item.UpdatedAt.After(lastUpdate) {
			lastUpdate = item.UpdatedAt
		}
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	// Sem registros: usar o tempo atual como última atualização
	if lastUpdate.IsZero() {
		lastUpdate = time.Now()
	}

	return &domain.PlatformRankingResponse{
		Month:      month,
		Ranking:    rankings,
		LastUpdate: lastUpdate,
	}, nil
}

func (r *platformRankingRepository) GetByPlatformID(ctx context.Context, platformID string, month string) (*domain.PlatformRankingItem, error) {
	query, args, err := squirrel.
		Select(platformRankingColumns...).
		From(platformRankingTable).
		LeftJoin("platforms p ON p.id = pr.platform_id").
		Where(squirrel.Eq{"pr.platform_id": platformID, "pr.month": month}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	ranking, err := scanPlatformRankingItem(r.conn.QueryRow(ctx, query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear ranking: %w", err)
	}
	return ranking, nil
}

func (r *platformRankingRepository) SaveOrUpdatePlatformRanking(ctx context.Context, rankings []*domain.PlatformRankingItem) error {
	if len(rankings) == 0 {
		return nil
	}

	query := squirrel.StatementBuilder.
		Insert("platform_rankings").
		Columns(
			"platform_id",
			"month",
			"revenue",
			"transaction_count",
			"position",
			"position_change",
			"previous_position",
		).
		PlaceholderFormat(squirrel.Dollar)

	for _, ranking := range rankings {
		query = query.Values(
			ranking.PlatformID,
			ranking.Month,
			ranking.Revenue,
			ranking.TransactionCount,
			ranking.Position,
			ranking.PositionChange,
			ranking.PreviousPosition,
		)
	}

	query = query.Suffix(`
		ON CONFLICT (platform_id, month) DO UPDATE SET
			revenue = EXCLUDED.revenue,
			transaction_count = EXCLUDED.transaction_count,
			position = EXCLUDED.position,
			position_change = EXCLUDED.position_change,
			previous_position = EXCLUDED.previous_position,
			updated_at = CURRENT_TIMESTAMP
	`)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir query de inserção: %w", err)
	}

	if _, err = r.conn.Exec(ctx, sqlQuery, args...); err != nil {
		return fmt.Errorf("erro ao executar query de inserção: %w", translateError(err))
	}

	return nil
}

func scanPlatformRankingItem(row rowScanner) (*domain.PlatformRankingItem, error) {
	item := &domain.PlatformRankingItem{}

	err := row.Scan(
		&item.ID,
		&item.PlatformID,
		&item.PlatformName,
		&item.Month,
		&item.Revenue,
		&item.TransactionCount,
		&item.Position,
		&item.PositionChange,
		&item.PreviousPosition,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return item, nil
}
