package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DeliveryStatus representa o estado de entrega de uma venda no marketplace
type DeliveryStatus string

const (
	DeliveryStatusCompleted           DeliveryStatus = "Completed"
	DeliveryStatusShipping            DeliveryStatus = "Shipping"
	DeliveryStatusCancelled           DeliveryStatus = "Cancelled"
	DeliveryStatusReturned            DeliveryStatus = "Returned"
	DeliveryStatusPendingConfirmation DeliveryStatus = "PendingConfirmation"
)

var DeliveryStatuses = []DeliveryStatus{
	DeliveryStatusCompleted,
	DeliveryStatusShipping,
	DeliveryStatusCancelled,
	DeliveryStatusReturned,
	DeliveryStatusPendingConfirmation,
}

// Aliases aceitos em planilhas importadas
var deliveryStatusAliases = map[string]DeliveryStatus{
	"completed":            DeliveryStatusCompleted,
	"complete":             DeliveryStatusCompleted,
	"shipping":             DeliveryStatusShipping,
	"shipped":              DeliveryStatusShipping,
	"cancelled":            DeliveryStatusCancelled,
	"canceled":             DeliveryStatusCancelled,
	"returned":             DeliveryStatusReturned,
	"pendingconfirmation":  DeliveryStatusPendingConfirmation,
	"pending confirmation": DeliveryStatusPendingConfirmation,
	"pending_confirmation": DeliveryStatusPendingConfirmation,
	"pending":              DeliveryStatusPendingConfirmation,
}

// ParseDeliveryStatus converte um texto livre no status correspondente
func ParseDeliveryStatus(s string) (DeliveryStatus, bool) {
	status, ok := deliveryStatusAliases[strings.ToLower(strings.TrimSpace(s))]
	return status, ok
}

func (s DeliveryStatus) Valid() bool {
	return slices.Contains(DeliveryStatuses, s)
}

// Transaction é uma linha de venda. Depois de agregada é tratada como somente leitura.
type Transaction struct {
	ID             string          `json:"id"`
	PlatformID     string          `json:"platform_id"`
	StoreID        string          `json:"store_id"`
	ProductSKU     string          `json:"product_sku"`
	ProductName    string          `json:"product_name"`
	CustomerName   string          `json:"customer_name,omitempty"`
	SellingPrice   decimal.Decimal `json:"selling_price"`
	CostPrice      decimal.Decimal `json:"cost_price"`
	Profit         decimal.Decimal `json:"profit"`
	Quantity       int             `json:"quantity"`
	DeliveryStatus DeliveryStatus  `json:"delivery_status"`
	OccurredAt     time.Time       `json:"occurred_at"`
	Notes          string          `json:"notes,omitempty"`
	ImportBatchID  *string         `json:"import_batch_id,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// RawTransaction é a linha sem tipagem, como chega do banco ou de um CSV.
// Só vira Transaction passando pela etapa de coerção do agregador.
type RawTransaction struct {
	Line           int
	ID             string
	PlatformID     string
	StoreID        string
	ProductSKU     string
	ProductName    string
	CustomerName   string
	SellingPrice   string
	CostPrice      string
	Profit         string
	Quantity       string
	DeliveryStatus string
	OccurredAt     string
}

// TransactionFilters filtra transações por período e chaves de agrupamento.
// EndDate é inclusivo, a menos que EndExclusive esteja marcado.
type TransactionFilters struct {
	StartDate    *time.Time
	EndDate      *time.Time
	EndExclusive bool
	PlatformIDs  []string
	StoreIDs     []string
	Statuses     []DeliveryStatus
	ProductSKU   string
	Limit        int
	Offset       int
}

// TransactionInput é o payload de criação/edição manual de uma venda
type TransactionInput struct {
	PlatformID     string          `json:"platform_id"`
	StoreID        string          `json:"store_id"`
	ProductSKU     string          `json:"product_sku"`
	ProductName    string          `json:"product_name"`
	CustomerName   string          `json:"customer_name"`
	SellingPrice   decimal.Decimal `json:"selling_price"`
	CostPrice      decimal.Decimal `json:"cost_price"`
	Quantity       int             `json:"quantity"`
	DeliveryStatus DeliveryStatus  `json:"delivery_status"`
	OccurredAt     time.Time       `json:"occurred_at"`
	Notes          string          `json:"notes"`
}

type TransactionPage struct {
	Items  []*Transaction `json:"items"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}
