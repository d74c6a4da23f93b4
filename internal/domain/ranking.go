package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlatformRankingResponse é o snapshot mais recente do ranking de plataformas
type PlatformRankingResponse struct {
	Month      string                `json:"month"`
	Ranking    []PlatformRankingItem `json:"ranking"`
	LastUpdate time.Time             `json:"last_update"`
}

type PlatformRankingItem struct {
	ID               int             `json:"id"`
	PlatformID       string          `json:"platform_id"`
	PlatformName     string          `json:"platform_name"`
	Month            string          `json:"month"` // Formato yyyy-mm (ex: 2024-01)
	Revenue          decimal.Decimal `json:"revenue"`
	TransactionCount int             `json:"transaction_count"`
	Position         int             `json:"position"`
	PositionChange   int             `json:"position_change"` // Valor positivo = subiu, negativo = desceu, 0 = manteve
	PreviousPosition int             `json:"previous_position"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
