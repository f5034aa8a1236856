package sqlstore

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/simaogato/cashhealth-backend/internal/adapter/source"
	"github.com/simaogato/cashhealth-backend/internal/domain"
)

const dateLayout = "2006-01-02"

// TransactionRepository reads and appends ledger rows in the ledger_transactions table
type TransactionRepository struct {
	db *DB
}

var _ domain.TransactionSource = (*TransactionRepository)(nil)

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Name identifies the source in errors and logs without exposing credentials
func (r *TransactionRepository) Name() string {
	if r.db.driver == DriverSQLite {
		return "sqlite:" + filepath.Base(r.db.dsn)
	}
	return r.db.driver + ":ledger_transactions"
}

// Load returns every stored row in insertion order
// Rows go through the same decoder as the file sources, so a bad cell fails
// with a *domain.DataSourceError naming the row position.
func (r *TransactionRepository) Load(ctx context.Context) ([]domain.Transaction, error) {
	query := `
		SELECT id, date, direction, category, description, amount, payment_method, status
		FROM ledger_transactions
		ORDER BY position
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger transactions: %w", err)
	}
	defer rows.Close()

	dec, err := source.NewDecoder(r.Name(), source.Columns)
	if err != nil {
		return nil, err
	}

	txs := make([]domain.Transaction, 0)
	for record := 1; rows.Next(); record++ {
		var id string
		row := make([]string, len(source.Columns))
		if err := rows.Scan(&id, &row[0], &row[1], &row[2], &row[3], &row[4], &row[5], &row[6]); err != nil {
			return nil, fmt.Errorf("failed to scan ledger transaction: %w", err)
		}

		tx, err := dec.Decode(record, row)
		if err != nil {
			return nil, err
		}
		if id != "" {
			parsed, err := uuid.Parse(id)
			if err != nil {
				return nil, &domain.DataSourceError{
					Source: r.Name(),
					Record: record,
					Field:  "id",
					Err:    fmt.Errorf("%w: %v", domain.ErrInvalidRecord, err),
				}
			}
			tx.ID = parsed
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger transactions: %w", err)
	}

	return txs, nil
}

// Append inserts transactions in a single database transaction, keeping their order
func (r *TransactionRepository) Append(ctx context.Context, txs []domain.Transaction) error {
	return r.write(ctx, txs, false)
}

// Replace swaps the stored ledger for txs in a single database transaction
// On any failure the previous rows are kept.
func (r *TransactionRepository) Replace(ctx context.Context, txs []domain.Transaction) error {
	return r.write(ctx, txs, true)
}

func (r *TransactionRepository) write(ctx context.Context, txs []domain.Transaction, replace bool) error {
	for i := range txs {
		if err := txs[i].Validate(); err != nil {
			return fmt.Errorf("transaction %d: %w", i+1, err)
		}
	}

	// Start a database transaction
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	if replace {
		if _, err := dbTx.ExecContext(ctx, `DELETE FROM ledger_transactions`); err != nil {
			return fmt.Errorf("failed to clear ledger transactions: %w", err)
		}
	}

	insertQuery := r.db.rebind(`
		INSERT INTO ledger_transactions (id, date, direction, category, description, amount, payment_method, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)

	stmt, err := dbTx.PrepareContext(ctx, insertQuery)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, tx := range txs {
		id := ""
		if tx.ID != uuid.Nil {
			id = tx.ID.String()
		}
		_, err = stmt.ExecContext(ctx,
			id,
			tx.Date.Format(dateLayout),
			tx.Direction.Label(),
			tx.Category,
			tx.Description,
			tx.Amount.String(),
			tx.PaymentMethod,
			tx.Status.Label(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert ledger transaction %d: %w", i+1, err)
		}
	}

	// Commit the transaction
	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Reset deletes every stored row
func (r *TransactionRepository) Reset(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM ledger_transactions`); err != nil {
		return fmt.Errorf("failed to reset ledger transactions: %w", err)
	}
	return nil
}

// Count returns the number of stored rows
func (r *TransactionRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ledger_transactions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count ledger transactions: %w", err)
	}
	return n, nil
}
