package importing

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/vfg2006/sales-analytics-api/internal/domain"
)

const (
	colOccurredAt     = "occurred_at"
	colPlatformID     = "platform_id"
	colStoreID        = "store_id"
	colProductSKU     = "product_sku"
	colProductName    = "product_name"
	colSellingPrice   = "selling_price"
	colCostPrice      = "cost_price"
	colQuantity       = "quantity"
	colDeliveryStatus = "delivery_status"
	colProfit         = "profit"
	colCustomerName   = "customer_name"
)

var requiredColumns = []string{colOccurredAt, colPlatformID, colStoreID, colSellingPrice}

// Nomes alternativos aceitos no cabeçalho das planilhas exportadas pelos marketplaces
var headerAliases = map[string]string{
	"data":           colOccurredAt,
	"date":           colOccurredAt,
	"data_venda":     colOccurredAt,
	"plataforma":     colPlatformID,
	"platform":       colPlatformID,
	"marketplace":    colPlatformID,
	"loja":           colStoreID,
	"store":          colStoreID,
	"sku":            colProductSKU,
	"produto":        colProductName,
	"product":        colProductName,
	"preco_venda":    colSellingPrice,
	"valor_venda":    colSellingPrice,
	"preco":          colSellingPrice,
	"price":          colSellingPrice,
	"preco_custo":    colCostPrice,
	"custo":          colCostPrice,
	"cost":           colCostPrice,
	"quantidade":     colQuantity,
	"qtd":            colQuantity,
	"qty":            colQuantity,
	"status":         colDeliveryStatus,
	"status_entrega": colDeliveryStatus,
	"lucro":          colProfit,
	"cliente":        colCustomerName,
	"customer":       colCustomerName,
}

// csvSource lê a planilha linha a linha já mapeando as colunas para RawTransaction
type csvSource struct {
	reader  *csv.Reader
	columns map[string]int
	line    int
}

func newCSVSource(r io.Reader) (*csvSource, error) {
	br := bufio.NewReader(r)
	header, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("%w (cabeçalho): %w", ErrUnreadableFile, err)
	}
	header = strings.TrimPrefix(header, "\ufeff")
	if strings.TrimSpace(header) == "" {
		return nil, ErrEmptyFile
	}

	reader := csv.NewReader(io.MultiReader(strings.NewReader(header), br))
	reader.Comma = detectDelimiter(header)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	names, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(ErrInvalidHeader, err.Error())
	}

	columns := make(map[string]int, len(names))
	for i, name := range names {
		key := normalizeHeader(name)
		if alias, ok := headerAliases[key]; ok {
			key = alias
		}
		if _, dup := columns[key]; !dup {
			columns[key] = i
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := columns[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, errors.Wrapf(ErrInvalidHeader, "colunas obrigatórias ausentes: %s", strings.Join(missing, ", "))
	}

	return &csvSource{reader: reader, columns: columns, line: 1}, nil
}

// next devolve io.EOF ao fim do arquivo. Line é a linha física no arquivo,
// contando o cabeçalho; linhas em branco são puladas.
func (s *csvSource) next() (domain.RawTransaction, error) {
	for {
		record, err := s.reader.Read()
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				s.line = parseErr.StartLine
			}
			return domain.RawTransaction{Line: s.line}, err
		}
		s.line, _ = s.reader.FieldPos(0)
		if isBlank(record) {
			continue
		}

		return domain.RawTransaction{
			Line:           s.line,
			PlatformID:     s.field(record, colPlatformID),
			StoreID:        s.field(record, colStoreID),
			ProductSKU:     s.field(record, colProductSKU),
			ProductName:    s.field(record, colProductName),
			CustomerName:   s.field(record, colCustomerName),
			SellingPrice:   s.field(record, colSellingPrice),
			CostPrice:      s.field(record, colCostPrice),
			Profit:         s.field(record, colProfit),
			Quantity:       s.field(record, colQuantity),
			DeliveryStatus: s.field(record, colDeliveryStatus),
			OccurredAt:     s.field(record, colOccurredAt),
		}, nil
	}
}

func (s *csvSource) field(record []string, col string) string {
	i, ok := s.columns[col]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// Planilhas em pt-BR costumam sair do Excel separadas por ponto e vírgula
func detectDelimiter(header string) rune {
	if strings.Count(header, ";") > strings.Count(header, ",") {
		return ';'
	}
	return ','
}

func normalizeHeader(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.NewReplacer(" ", "_", "-", "_", "ç", "c", "ã", "a", "é", "e").Replace(name)
	return name
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
