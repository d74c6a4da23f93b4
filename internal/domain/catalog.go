package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Platform é um marketplace onde as vendas acontecem (Shopee, Mercado Livre, ...)
type Platform struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Slug       string          `json:"slug"`
	FeePercent decimal.Decimal `json:"fee_percent"`
	Active     bool            `json:"active"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type Store struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerName string    `json:"owner_name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PlatformInput struct {
	Name       string          `json:"name"`
	Slug       string          `json:"slug"`
	FeePercent decimal.Decimal `json:"fee_percent"`
}

type StoreInput struct {
	Name      string `json:"name"`
	OwnerName string `json:"owner_name"`
}

// ImportBatch registra uma importação de planilha
type ImportBatch struct {
	ID        string    `json:"id"`
	FileName  string    `json:"file_name"`
	Imported  int       `json:"imported"`
	Rejected  int       `json:"rejected"`
	CreatedBy int       `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}
