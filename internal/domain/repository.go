package domain

import (
	"context"
)

// TransactionSource defines the interface for loading the ledger
type TransactionSource interface {
	// Name identifies the source in logs and errors (file path, table, sheet)
	Name() string

	// Load reads every record in source order
	// Fails with *DataSourceError; never returns a partial result
	Load(ctx context.Context) ([]Transaction, error)
}
