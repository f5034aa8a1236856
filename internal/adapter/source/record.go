// Package source decodes tabular ledger rows into domain transactions.
//
// Every tabular source (CSV file, spreadsheet range, SQL result) shares the
// same column schema: Data, Tipo, Categoria, Descrição, Valor,
// Forma_Pagamento and Status. Columns are matched by name, so their order
// in the source does not matter, and extra columns are ignored.
package source

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/simaogato/cashhealth-backend/internal/domain"
)

// Ledger column names
const (
	ColDate          = "Data"
	ColDirection     = "Tipo"
	ColCategory      = "Categoria"
	ColDescription   = "Descrição"
	ColAmount        = "Valor"
	ColPaymentMethod = "Forma_Pagamento"
	ColStatus        = "Status"
)

// Columns lists the ledger schema in its canonical order
var Columns = []string{ColDate, ColDirection, ColCategory, ColDescription, ColAmount, ColPaymentMethod, ColStatus}

// Decoder maps rows of one source onto the ledger schema
type Decoder struct {
	source string
	index  map[string]int
}

// NewDecoder resolves the column positions from a header row
// Fails with *DataSourceError when a ledger column is missing
func NewDecoder(source string, header []string) (*Decoder, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		// Spreadsheet exports often carry a UTF-8 BOM on the first cell
		name = strings.TrimPrefix(strings.TrimSpace(name), "\ufeff")
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	var missing []string
	for _, col := range Columns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &domain.DataSourceError{
			Source: source,
			Err:    fmt.Errorf("%w: missing columns %s", domain.ErrInvalidHeader, strings.Join(missing, ", ")),
		}
	}

	return &Decoder{source: source, index: index}, nil
}

// Decode converts one data row; record is its 1-based position for error messages
func (d *Decoder) Decode(record int, row []string) (domain.Transaction, error) {
	fail := func(field string, err error) (domain.Transaction, error) {
		return domain.Transaction{}, &domain.DataSourceError{
			Source: d.source,
			Record: record,
			Field:  field,
			Err:    fmt.Errorf("%w: %v", domain.ErrInvalidRecord, err),
		}
	}

	date, err := domain.ParseDate(d.get(row, ColDate))
	if err != nil {
		return fail(ColDate, err)
	}

	direction, err := domain.ParseDirection(d.get(row, ColDirection))
	if err != nil {
		return fail(ColDirection, err)
	}

	amount, err := ParseAmount(d.get(row, ColAmount))
	if err != nil {
		return fail(ColAmount, err)
	}

	status, err := domain.ParseStatus(d.get(row, ColStatus))
	if err != nil {
		return fail(ColStatus, err)
	}

	return domain.Transaction{
		Date:          date,
		Direction:     direction,
		Category:      d.get(row, ColCategory),
		Description:   d.get(row, ColDescription),
		Amount:        amount,
		PaymentMethod: d.get(row, ColPaymentMethod),
		Status:        status,
	}, nil
}

// ParseAmount parses a non-negative amount
// Both "1,234.56" and the pt-BR "1.234,56" are accepted, as is a bare decimal
// comma ("12,34") and an "R$" prefix, which formatted spreadsheet cells carry.
func ParseAmount(s string) (decimal.Decimal, error) {
	v := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	if v == "" {
		return decimal.Zero, fmt.Errorf("amount is required")
	}

	lastComma, lastDot := strings.LastIndex(v, ","), strings.LastIndex(v, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0 && lastComma > lastDot:
		v = strings.Replace(strings.ReplaceAll(v, ".", ""), ",", ".", 1)
	case lastComma >= 0 && lastDot >= 0:
		v = strings.ReplaceAll(v, ",", "")
	case lastComma >= 0 && strings.Count(v, ",") == 1:
		v = strings.Replace(v, ",", ".", 1)
	case lastComma >= 0:
		v = strings.ReplaceAll(v, ",", "")
	}

	amount, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unparseable amount %q", s)
	}
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative amount %s", amount)
	}
	return amount, nil
}

func (d *Decoder) get(row []string, col string) string {
	i := d.index[col]
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
