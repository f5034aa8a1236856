package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/simaogato/cashhealth-backend/internal/domain"
)

// Store holds the read-only ledger snapshot for the lifetime of the process
type Store struct {
	source       string
	transactions []domain.Transaction
	periods      []domain.Period
}

// Load reads the ledger once from the source and validates every record
// Logic:
//  1. Load all records (the source reports schema errors as *DataSourceError)
//  2. Validate each record; the first invalid one aborts the load
//  3. Assign IDs to records the source did not identify
//  4. Index the distinct period buckets in chronological order
func Load(ctx context.Context, source domain.TransactionSource) (*Store, error) {
	txs, err := source.Load(ctx)
	if err != nil {
		var dsErr *domain.DataSourceError
		if errors.As(err, &dsErr) {
			return nil, err
		}
		return nil, &domain.DataSourceError{Source: source.Name(), Err: err}
	}

	snapshot := make([]domain.Transaction, len(txs))
	for i, tx := range txs {
		if err := tx.Validate(); err != nil {
			return nil, &domain.DataSourceError{
				Source: source.Name(),
				Record: i + 1,
				Err:    fmt.Errorf("%w: %v", domain.ErrInvalidRecord, err),
			}
		}
		if tx.ID == uuid.Nil {
			tx.ID = uuid.New()
		}
		snapshot[i] = tx
	}

	return NewStore(source.Name(), snapshot), nil
}

// NewStore builds a store from already validated transactions
func NewStore(source string, txs []domain.Transaction) *Store {
	snapshot := make([]domain.Transaction, len(txs))
	copy(snapshot, txs)

	return &Store{
		source:       source,
		transactions: snapshot,
		periods:      distinctPeriods(snapshot),
	}
}

// Source returns the name of the source the snapshot was loaded from
func (s *Store) Source() string {
	return s.source
}

// Len returns the number of records in the snapshot
func (s *Store) Len() int {
	return len(s.transactions)
}

// Transactions returns a copy of the snapshot in load order
func (s *Store) Transactions() []domain.Transaction {
	out := make([]domain.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// Periods returns the distinct period buckets present in the snapshot, oldest first
func (s *Store) Periods() []domain.Period {
	out := make([]domain.Period, len(s.periods))
	copy(out, s.periods)
	return out
}

// Filter returns the snapshot records whose period is selected
func (s *Store) Filter(selected []domain.Period) []domain.Transaction {
	return FilterByPeriods(s.transactions, selected)
}

// FilterByPeriods returns the transactions whose period bucket is in selected,
// preserving their order. An empty selection yields an empty result.
func FilterByPeriods(txs []domain.Transaction, selected []domain.Period) []domain.Transaction {
	out := make([]domain.Transaction, 0)
	if len(selected) == 0 {
		return out
	}

	wanted := make(map[domain.Period]struct{}, len(selected))
	for _, p := range selected {
		wanted[p] = struct{}{}
	}

	for _, tx := range txs {
		if _, ok := wanted[tx.Period()]; ok {
			out = append(out, tx)
		}
	}
	return out
}

func distinctPeriods(txs []domain.Transaction) []domain.Period {
	seen := make(map[domain.Period]struct{})
	periods := make([]domain.Period, 0)
	for _, tx := range txs {
		p := tx.Period()
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		periods = append(periods, p)
	}

	sort.Slice(periods, func(i, j int) bool {
		return periods[i].Before(periods[j])
	})
	return periods
}
