package aggregating

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/sales-analytics-api/internal/domain"
)

// Campos que podem ser corrigidos na coerção
const (
	FieldSellingPrice   = "selling_price"
	FieldCostPrice      = "cost_price"
	FieldProfit         = "profit"
	FieldQuantity       = "quantity"
	FieldDeliveryStatus = "delivery_status"
	FieldOccurredAt     = "occurred_at"
)

// Layouts aceitos para a data da venda, do mais específico ao mais genérico
var occurredAtLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006 15:04",
	"02/01/2006",
}

// CoercionIssue descreve um campo corrigido em uma linha
type CoercionIssue struct {
	Line  int    `json:"line"`
	Field string `json:"field"`
	Value string `json:"value"`
}

// CoercionReport resume quantas linhas precisaram de correção
type CoercionReport struct {
	RowsSeen    int             `json:"rows_seen"`
	RowsCoerced int             `json:"rows_coerced"`
	FieldIssues map[string]int  `json:"field_issues,omitempty"`
	Issues      []CoercionIssue `json:"issues,omitempty"`
}

// HasIssues indica se alguma linha foi corrigida
func (r CoercionReport) HasIssues() bool {
	return r.RowsCoerced > 0
}

// Add contabiliza uma linha e as correções feitas nela
func (r *CoercionReport) Add(issues []CoercionIssue) {
	r.RowsSeen++
	if len(issues) == 0 {
		return
	}

	r.RowsCoerced++
	if r.FieldIssues == nil {
		r.FieldIssues = make(map[string]int)
	}
	for _, issue := range issues {
		r.FieldIssues[issue.Field]++
	}
	r.Issues = append(r.Issues, issues...)
}

// Coerce converte uma linha sem tipagem em Transaction. Nunca falha: campos inválidos
// viram zero (valores), 1 (quantidade), PendingConfirmation (status) ou tempo zero (data),
// e cada correção é devolvida como CoercionIssue.
func Coerce(raw domain.RawTransaction) (domain.Transaction, []CoercionIssue) {
	var issues []CoercionIssue
	flag := func(field, value string) {
		issues = append(issues, CoercionIssue{Line: raw.Line, Field: field, Value: value})
	}

	t := domain.Transaction{
		ID:           strings.TrimSpace(raw.ID),
		PlatformID:   strings.TrimSpace(raw.PlatformID),
		StoreID:      strings.TrimSpace(raw.StoreID),
		ProductSKU:   strings.TrimSpace(raw.ProductSKU),
		ProductName:  strings.TrimSpace(raw.ProductName),
		CustomerName: strings.TrimSpace(raw.CustomerName),
	}

	selling, sellingOK, ambiguous := ParseMoney(raw.SellingPrice)
	if !sellingOK || selling.IsNegative() {
		flag(FieldSellingPrice, raw.SellingPrice)
		selling, sellingOK = decimal.Zero, false
	} else if ambiguous {
		flag(FieldSellingPrice, raw.SellingPrice)
	}
	cost, costOK, ambiguous := ParseMoney(raw.CostPrice)
	if !costOK || cost.IsNegative() {
		flag(FieldCostPrice, raw.CostPrice)
		cost, costOK = decimal.Zero, false
	} else if ambiguous {
		flag(FieldCostPrice, raw.CostPrice)
	}
	t.SellingPrice = selling
	t.CostPrice = cost

	// lucro ausente é derivado; lucro presente e inválido é registrado
	profit, profitOK, ambiguous := ParseMoney(raw.Profit)
	switch {
	case profitOK:
		if ambiguous {
			flag(FieldProfit, raw.Profit)
		}
		t.Profit = profit
	case sellingOK && costOK:
		if strings.TrimSpace(raw.Profit) != "" {
			flag(FieldProfit, raw.Profit)
		}
		t.Profit = selling.Sub(cost)
	default:
		flag(FieldProfit, raw.Profit)
		t.Profit = decimal.Zero
	}

	qty, err := strconv.Atoi(strings.TrimSpace(raw.Quantity))
	if err != nil || qty < 1 {
		flag(FieldQuantity, raw.Quantity)
		qty = 1
	}
	t.Quantity = qty

	status, ok := domain.ParseDeliveryStatus(raw.DeliveryStatus)
	if !ok {
		flag(FieldDeliveryStatus, raw.DeliveryStatus)
		status = domain.DeliveryStatusPendingConfirmation
	}
	t.DeliveryStatus = status

	occurredAt, ok := ParseOccurredAt(raw.OccurredAt)
	if !ok {
		flag(FieldOccurredAt, raw.OccurredAt)
	}
	t.OccurredAt = occurredAt

	return t, issues
}

// CoerceAll converte todas as linhas; uma linha corrompida nunca interrompe a agregação
func CoerceAll(rows []domain.RawTransaction) ([]domain.Transaction, CoercionReport) {
	var report CoercionReport
	out := make([]domain.Transaction, 0, len(rows))

	for _, raw := range rows {
		t, issues := Coerce(raw)
		report.Add(issues)
		out = append(out, t)
	}

	return out, report
}

// ParseOccurredAt tenta os layouts conhecidos; falha devolve o tempo zero
func ParseOccurredAt(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range occurredAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseMoney aceita "1234.56", "1234,56", "1.234,56", "1,234.56" e prefixo "R$". Com os dois
// separadores, o último é o decimal. Com um separador só, repetido vira milhar ("1.234.567") e
// único seguido de exatamente três dígitos também ("1,234" = 1234), mas volta com ambiguous=true
// para que quem chama registre a correção.
func ParseMoney(s string) (value decimal.Decimal, ok, ambiguous bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimPrefix(s, "R$"))
	if s == "" {
		return decimal.Zero, false, false
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		decimalMark, thousands := ",", "."
		if lastDot > lastComma {
			decimalMark, thousands = ".", ","
		}
		s = strings.ReplaceAll(s, thousands, "")
		s = strings.Replace(s, decimalMark, ".", 1)

	case lastComma >= 0 || lastDot >= 0:
		sep, last := ",", lastComma
		if lastDot >= 0 {
			sep, last = ".", lastDot
		}
		integer := strings.TrimLeft(s[:last], "+-")
		switch {
		case strings.Count(s, sep) > 1:
			s = strings.ReplaceAll(s, sep, "")
		case len(s)-last-1 == 3 && strings.Trim(integer, "0") != "":
			s = strings.Replace(s, sep, "", 1)
			ambiguous = true
		default:
			s = strings.Replace(s, sep, ".", 1)
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false, false
	}
	return d, true, ambiguous
}
