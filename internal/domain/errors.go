package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceMissing is returned when the ledger source cannot be found or opened
	ErrSourceMissing = errors.New("data source missing")

	// ErrInvalidHeader is returned when the source columns do not match the ledger schema
	ErrInvalidHeader = errors.New("invalid ledger header")

	// ErrInvalidRecord is returned when a record fails schema validation
	ErrInvalidRecord = errors.New("invalid ledger record")
)

// DataSourceError reports a failed load. Record is the 1-based data row
// (0 when the failure is not tied to a row).
type DataSourceError struct {
	Source string
	Record int
	Field  string
	Err    error
}

func (e *DataSourceError) Error() string {
	switch {
	case e.Record > 0 && e.Field != "":
		return fmt.Sprintf("data source %s: record %d: field %s: %v", e.Source, e.Record, e.Field, e.Err)
	case e.Record > 0:
		return fmt.Sprintf("data source %s: record %d: %v", e.Source, e.Record, e.Err)
	default:
		return fmt.Sprintf("data source %s: %v", e.Source, e.Err)
	}
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}
