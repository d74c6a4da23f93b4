package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/sales-analytics-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-analytics-api/internal/domain"
)

const (
	platformsTable = "platforms"
	storesTable    = "stores"
)

type PlatformRepository interface {
	ListPlatforms(ctx context.Context) ([]*domain.Platform, error)
	GetPlatformByID(ctx context.Context, id string) (*domain.Platform, error)
	CreatePlatform(ctx context.Context, p *domain.Platform) error
}

type StoreRepository interface {
	ListStores(ctx context.Context) ([]*domain.Store, error)
	GetStoreByID(ctx context.Context, id string) (*domain.Store, error)
	CreateStore(ctx context.Context, s *domain.Store) error
}

type catalogRepository struct {
	conn *postgres.Connection
}

func NewPlatformRepository(conn *postgres.Connection) PlatformRepository {
	return &catalogRepository{conn: conn}
}

func NewStoreRepository(conn *postgres.Connection) StoreRepository {
	return &catalogRepository{conn: conn}
}

func (r *catalogRepository) ListPlatforms(ctx context.Context) ([]*domain.Platform, error) {
	query, args, err := squirrel.
		Select("id", "name", "slug", "fee_percent", "active", "created_at", "updated_at").
		From(platformsTable).
		OrderBy("name ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar plataformas: %w", err)
	}
	defer rows.Close()

	platforms := make([]*domain.Platform, 0)
	for rows.Next() {
		p, err := scanPlatform(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear plataforma: %w", err)
		}
		platforms = append(platforms, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return platforms, nil
}

func (r *catalogRepository) GetPlatformByID(ctx context.Context, id string) (*domain.Platform, error) {
	query, args, err := squirrel.
		Select("id", "name", "slug", "fee_percent", "active", "created_at", "updated_at").
		From(platformsTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	p, err := scanPlatform(r.conn.QueryRow(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar plataforma: %w", err)
	}
	return p, nil
}

func (r *catalogRepository) CreatePlatform(ctx context.Context, p *domain.Platform) error {
	query, args, err := squirrel.
		Insert(platformsTable).
		Columns("id", "name", "slug", "fee_percent", "active").
		Values(p.ID, p.Name, p.Slug, p.FeePercent, p.Active).
		Suffix("RETURNING created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if err := r.conn.QueryRow(ctx, query, args...).Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		return fmt.Errorf("erro ao inserir plataforma: %w", translateError(err))
	}
	return nil
}

func (r *catalogRepository) ListStores(ctx context.Context) ([]*domain.Store, error) {
	query, args, err := squirrel.
		Select("id", "name", "owner_name", "active", "created_at", "updated_at").
		From(storesTable).
		OrderBy("name ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar lojas: %w", err)
	}
	defer rows.Close()

	stores := make([]*domain.Store, 0)
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear loja: %w", err)
		}
		stores = append(stores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return stores, nil
}

func (r *catalogRepository) GetStoreByID(ctx context.Context, id string) (*domain.Store, error) {
	query, args, err := squirrel.
		Select("id", "name", "owner_name", "active", "created_at", "updated_at").
		From(storesTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	s, err := scanStore(r.conn.QueryRow(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar loja: %w", err)
	}
	return s, nil
}

func (r *catalogRepository) CreateStore(ctx context.Context, s *domain.Store) error {
	query, args, err := squirrel.
		Insert(storesTable).
		Columns("id", "name", "owner_name", "active").
		Values(s.ID, s.Name, s.OwnerName, s.Active).
		Suffix("RETURNING created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if err := r.conn.QueryRow(ctx, query, args...).Scan(&s.CreatedAt, &s.UpdatedAt); err != nil {
		return fmt.Errorf("erro ao inserir loja: %w", translateError(err))
	}
	return nil
}

func scanPlatform(row rowScanner) (*domain.Platform, error) {
	p := &domain.Platform{}
	err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.FeePercent, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func scanStore(row rowScanner) (*domain.Store, error) {
	s := &domain.Store{}
	err := row.Scan(&s.ID, &s.Name, &s.OwnerName, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}
