package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/simaogato/cashhealth-backend/internal/adapter/source"
	"github.com/simaogato/cashhealth-backend/internal/domain"
)

// Source loads the ledger from a comma-separated file with a header row
type Source struct {
	path string
}

var _ domain.TransactionSource = (*Source)(nil)

// New creates a CSV source reading path
func New(path string) *Source {
	return &Source{path: path}
}

// Name returns the file path
func (s *Source) Name() string {
	return s.path
}

// Load reads and decodes every row of the file
func (s *Source) Load(ctx context.Context) ([]domain.Transaction, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &domain.DataSourceError{Source: s.path, Err: domain.ErrSourceMissing}
		}
		return nil, &domain.DataSourceError{Source: s.path, Err: fmt.Errorf("open: %w", err)}
	}
	defer f.Close()

	return Decode(ctx, s.path, f)
}

// Decode reads CSV records from r; name is used in error messages
func Decode(ctx context.Context, name string, r io.Reader) ([]domain.Transaction, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &domain.DataSourceError{Source: name, Err: fmt.Errorf("%w: empty file", domain.ErrInvalidHeader)}
		}
		return nil, &domain.DataSourceError{Source: name, Err: fmt.Errorf("read header: %w", err)}
	}

	dec, err := source.NewDecoder(name, header)
	if err != nil {
		return nil, err
	}

	txs := make([]domain.Transaction, 0)
	for record := 1; ; record++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &domain.DataSourceError{Source: name, Record: record, Err: fmt.Errorf("read: %w", err)}
		}
		if isBlank(row) {
			continue
		}

		tx, err := dec.Decode(record, row)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}

	return txs, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}
