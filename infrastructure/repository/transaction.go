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
	transactionsTable  = "transactions"
	importBatchesTable = "import_batches"
)

var transactionColumns = []string{
	"id",
	"platform_id",
	"store_id",
	"product_sku",
	"product_name",
	"customer_name",
	"selling_price",
	"cost_price",
	"profit",
	"quantity",
	"delivery_status",
	"occurred_at",
	"notes",
	"import_batch_id",
	"created_at",
	"updated_at",
}

// rawColumns é a projeção lida pelo motor de análise
var rawColumns = []string{
	"id",
	"platform_id",
	"store_id",
	"product_sku",
	"product_name",
	"customer_name",
	"selling_price",
	"cost_price",
	"profit",
	"quantity",
	"delivery_status",
	"occurred_at",
}

type TransactionRepository interface {
	Create(ctx context.Context, t *domain.Transaction) error
	CreateBatch(ctx context.Context, batch *domain.ImportBatch, txs []*domain.Transaction, chunkSize int) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	List(ctx context.Context, filters domain.TransactionFilters) ([]*domain.Transaction, int, error)
	Update(ctx context.Context, t *domain.Transaction) error
	Delete(ctx context.Context, id string) error
	// ListRaw devolve as linhas sem tipagem para a etapa de coerção do agregador
	ListRaw(ctx context.Context, filters domain.TransactionFilters) ([]domain.RawTransaction, error)
}

type transactionRepository struct {
	conn *postgres.Connection
}

func NewTransactionRepository(conn *postgres.Connection) TransactionRepository {
	return &transactionRepository{
		conn: conn,
	}
}

func (r *transactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	query, args, err := squirrel.
		Insert(transactionsTable).
		Columns(transactionColumns[:13]...).
		Values(transactionValues(t)...).
		Suffix("RETURNING created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if err := r.conn.QueryRow(ctx, query, args...).Scan(&t.CreatedAt, &t.UpdatedAt); err != nil {
		return fmt.Errorf("erro ao inserir transação: %w", translateError(err))
	}
	return nil
}

// CreateBatch grava o lote de importação e as vendas na mesma transação do banco
func (r *transactionRepository) CreateBatch(ctx context.Context, batch *domain.ImportBatch, txs []*domain.Transaction, chunkSize int) error {
	if chunkSize <= 0 {
		chunkSize = 500
	}

	return r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		batchSQL, batchArgs, err := squirrel.
			Insert(importBatchesTable).
			Columns("id", "file_name", "imported", "rejected", "created_by").
			Values(batch.ID, batch.FileName, batch.Imported, batch.Rejected, nullableUserID(batch.CreatedBy)).
			Suffix("RETURNING created_at").
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("erro ao construir a query do lote: %w", err)
		}
		if err := tx.QueryRowContext(ctx, batchSQL, batchArgs...).Scan(&batch.CreatedAt); err != nil {
			return fmt.Errorf("erro ao inserir lote: %w", translateError(err))
		}

		for start := 0; start < len(txs); start += chunkSize {
			end := min(start+chunkSize, len(txs))

			insert := squirrel.
				Insert(transactionsTable).
				Columns(transactionColumns[:14]...).
				PlaceholderFormat(squirrel.Dollar)
			for _, t := range txs[start:end] {
				insert = insert.Values(append(transactionValues(t), batch.ID)...)
			}

			query, args, err := insert.ToSql()
			if err != nil {
				return fmt.Errorf("erro ao construir a query de inserção: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("erro ao inserir transações %d-%d: %w", start, end, translateError(err))
			}
		}

		return nil
	})
}

func (r *transactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	query, args, err := squirrel.
		Select(transactionColumns...).
		From(transactionsTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	t, err := scanTransaction(r.conn.QueryRow(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar transação: %w", err)
	}
	return t, nil
}

func (r *transactionRepository) List(ctx context.Context, filters domain.TransactionFilters) ([]*domain.Transaction, int, error) {
	countQuery, countArgs, err := applyTransactionFilters(
		squirrel.Select("COUNT(*)").From(transactionsTable), filters,
	).PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var total int
	if err := r.conn.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("erro ao contar transações: %w", err)
	}

	builder := applyTransactionFilters(
		squirrel.Select(transactionColumns...).From(transactionsTable), filters,
	).OrderBy("occurred_at DESC", "id ASC")
	if filters.Limit > 0 {
		builder = builder.Limit(uint64(filters.Limit))
	}
	if filters.Offset > 0 {
		builder = builder.Offset(uint64(filters.Offset))
	}

	query, args, err := builder.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	txs := make([]*domain.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("erro ao escanear transação: %w", err)
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return txs, total, nil
}

func (r *transactionRepository) Update(ctx context.Context, t *domain.Transaction) error {
	query, args, err := squirrel.
		Update(transactionsTable).
		Set("platform_id", t.PlatformID).
		Set("store_id", t.StoreID).
		Set("product_sku", t.ProductSKU).
		Set("product_name", t.ProductName).
		Set("customer_name", t.CustomerName).
		Set("selling_price", t.SellingPrice).
		Set("cost_price", t.CostPrice).
		Set("profit", t.Profit).
		Set("quantity", t.Quantity).
		Set("delivery_status", string(t.DeliveryStatus)).
		Set("occurred_at", t.OccurredAt).
		Set("notes", t.Notes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": t.ID}).
		Suffix("RETURNING updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if err := r.conn.QueryRow(ctx, query, args...).Scan(&t.UpdatedAt); err != nil {
		return fmt.Errorf("erro ao atualizar transação: %w", translateError(err))
	}
	return nil
}

func (r *transactionRepository) Delete(ctx context.Context, id string) error {
	query, args, err := squirrel.
		Delete(transactionsTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	res, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("erro ao remover transação: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *transactionRepository) ListRaw(ctx context.Context, filters domain.TransactionFilters) ([]domain.RawTransaction, error) {
	builder := applyTransactionFilters(
		squirrel.Select(rawColumns...).From(transactionsTable), filters,
	).OrderBy("occurred_at ASC", "id ASC")
	if filters.Limit > 0 {
		builder = builder.Limit(uint64(filters.Limit))
	}

	query, args, err := builder.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	raws := make([]domain.RawTransaction, 0)
	line := 0
	for rows.Next() {
		line++
		var cols [12]sql.NullString
		dest := make([]any, len(cols))
		for i := range cols {
			dest[i] = &cols[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("erro ao escanear linha %d: %w", line, err)
		}

		raws = append(raws, domain.RawTransaction{
			Line:           line,
			ID:             cols[0].String,
			PlatformID:     cols[1].String,
			StoreID:        cols[2].String,
			ProductSKU:     cols[3].String,
			ProductName:    cols[4].String,
			CustomerName:   cols[5].String,
			SellingPrice:   cols[6].String,
			CostPrice:      cols[7].String,
			Profit:         cols[8].String,
			Quantity:       cols[9].String,
			DeliveryStatus: cols[10].String,
			OccurredAt:     cols[11].String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return raws, nil
}

func applyTransactionFilters(builder squirrel.SelectBuilder, filters domain.TransactionFilters) squirrel.SelectBuilder {
	if filters.StartDate != nil {
		builder = builder.Where(squirrel.GtOrEq{"occurred_at": *filters.StartDate})
	}
	if filters.EndDate != nil {
		if filters.EndExclusive {
			builder = builder.Where(squirrel.Lt{"occurred_at": *filters.EndDate})
		} else {
			builder = builder.Where(squirrel.LtOrEq{"occurred_at": *filters.EndDate})
		}
	}
	if len(filters.PlatformIDs) > 0 {
		builder = builder.Where(squirrel.Eq{"platform_id": filters.PlatformIDs})
	}
	if len(filters.StoreIDs) > 0 {
		builder = builder.Where(squirrel.Eq{"store_id": filters.StoreIDs})
	}
	if len(filters.Statuses) > 0 {
		statuses := make([]string, len(filters.Statuses))
		for i, s := range filters.Statuses {
			statuses[i] = string(s)
		}
		builder = builder.Where(squirrel.Eq{"delivery_status": statuses})
	}
	if filters.ProductSKU != "" {
		builder = builder.Where(squirrel.Eq{"product_sku": filters.ProductSKU})
	}
	return builder
}

func transactionValues(t *domain.Transaction) []any {
	return []any{
		t.ID,
		t.PlatformID,
		t.StoreID,
		t.ProductSKU,
		t.ProductName,
		t.CustomerName,
		t.SellingPrice,
		t.CostPrice,
		t.Profit,
		t.Quantity,
		string(t.DeliveryStatus),
		t.OccurredAt,
		t.Notes,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	t := &domain.Transaction{}
	var status string
	var batchID sql.NullString

	err := row.Scan(
		&t.ID,
		&t.PlatformID,
		&t.StoreID,
		&t.ProductSKU,
		&t.ProductName,
		&t.CustomerName,
		&t.SellingPrice,
		&t.CostPrice,
		&t.Profit,
		&t.Quantity,
		&status,
		&t.OccurredAt,
		&t.Notes,
		&batchID,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.DeliveryStatus = domain.DeliveryStatus(status)
	if batchID.Valid {
		t.ImportBatchID = &batchID.String
	}
	return t, nil
}

func nullableUserID(id int) any {
	if id == 0 {
		return nil
	}
	return id
}
