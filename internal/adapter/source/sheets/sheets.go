package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/simaogato/cashhealth-backend/internal/adapter/source"
	"github.com/simaogato/cashhealth-backend/internal/domain"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Source loads the ledger from a Google Sheets range whose first row is the header
type Source struct {
	svc           *gsheet.Service
	spreadsheetID string
	readRange     string
}

var _ domain.TransactionSource = (*Source)(nil)

// New creates a read-only Sheets source using a service account credentials file
func New(ctx context.Context, spreadsheetID, readRange, credentialsFile string) (*Source, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}

	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Source{svc: svc, spreadsheetID: spreadsheetID, readRange: readRange}, nil
}

// Name returns the spreadsheet range
func (s *Source) Name() string {
	return fmt.Sprintf("sheets:%s/%s", s.spreadsheetID, s.readRange)
}

// Load fetches the range and decodes every non-empty row
func (s *Source) Load(ctx context.Context) ([]domain.Transaction, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.readRange).Context(ctx).Do()
	if err != nil {
		return nil, &domain.DataSourceError{Source: s.Name(), Err: fmt.Errorf("read %s: %w", s.readRange, err)}
	}
	return parseValues(s.Name(), resp.Values)
}

// parseValues decodes a value matrix as returned by the Sheets API
func parseValues(name string, values [][]interface{}) ([]domain.Transaction, error) {
	if len(values) == 0 {
		return nil, &domain.DataSourceError{Source: name, Err: fmt.Errorf("%w: empty range", domain.ErrInvalidHeader)}
	}

	dec, err := source.NewDecoder(name, toStrings(values[0]))
	if err != nil {
		return nil, err
	}

	txs := make([]domain.Transaction, 0, len(values)-1)
	for i, raw := range values[1:] {
		row := toStrings(raw)
		if isBlank(row) {
			continue
		}
		tx, err := dec.Decode(i+1, row)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func isBlank(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}
