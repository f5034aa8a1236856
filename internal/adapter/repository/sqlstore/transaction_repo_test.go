package sqlstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/cashhealth-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) (*DB, *TransactionRepository) {
	t.Helper()

	db, err := NewDB(DriverSQLite, filepath.Join(t.TempDir(), "data", "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.RunMigrations())
	return db, NewTransactionRepository(db)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTransactionRepository_AppendAndLoad(t *testing.T) {
	_, repo := newTestRepo(t)
	ctx := context.Background()

	id := uuid.New()
	in := []domain.Transaction{
		{ID: id, Date: date(2025, 3, 2), Direction: domain.DirectionInflow, Category: "Consultoria Mensal", Description: "Venda - Loja Verde", Amount: decimal.RequireFromString("3500.00"), PaymentMethod: "Pix", Status: domain.StatusSettled},
		{Date: date(2025, 1, 10), Direction: domain.DirectionOutflow, Category: "Aluguel", Description: "Aluguel Escritório", Amount: decimal.NewFromInt(2500), PaymentMethod: "Boleto", Status: domain.StatusPending},
		{Date: date(2025, 2, 1), Direction: domain.DirectionInflow, Category: "Suporte", Description: "Venda", Amount: decimal.RequireFromString("99.90"), PaymentMethod: "Cartão de Crédito", Status: domain.StatusForecast},
	}
	require.NoError(t, repo.Append(ctx, in))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	out, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, out, 3)

	// Insertion order is kept, not date order
	assert.Equal(t, id, out[0].ID)
	assert.Equal(t, uuid.Nil, out[1].ID)
	for i := range in {
		assert.True(t, in[i].Date.Equal(out[i].Date))
		assert.Equal(t, in[i].Direction, out[i].Direction)
		assert.Equal(t, in[i].Category, out[i].Category)
		assert.Equal(t, in[i].Description, out[i].Description)
		assert.True(t, in[i].Amount.Equal(out[i].Amount), "amount %d", i)
		assert.Equal(t, in[i].PaymentMethod, out[i].PaymentMethod)
		assert.Equal(t, in[i].Status, out[i].Status)
	}
}

func TestTransactionRepository_AppendRejectsInvalid(t *testing.T) {
	_, repo := newTestRepo(t)
	ctx := context.Background()

	err := repo.Append(ctx, []domain.Transaction{
		{Date: date(2025, 1, 1), Direction: domain.DirectionInflow, Amount: decimal.NewFromInt(10), Status: domain.StatusSettled},
		{Date: date(2025, 1, 2), Direction: domain.DirectionInflow, Amount: decimal.NewFromInt(-10), Status: domain.StatusSettled},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transaction 2")

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestTransactionRepository_LoadBadRow(t *testing.T) {
	db, repo := newTestRepo(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, `
		INSERT INTO ledger_transactions (date, direction, amount, status) VALUES
		('2025-01-01', 'Entrada', '10', 'Realizado'),
		('2025-01-02', 'Entrada', 'abc', 'Realizado')
	`)
	require.NoError(t, err)

	_, err = repo.Load(ctx)

	var dsErr *domain.DataSourceError
	require.ErrorAs(t, err, &dsErr)
	assert.Equal(t, 2, dsErr.Record)
	assert.Equal(t, "Valor", dsErr.Field)
	assert.Equal(t, "sqlite:ledger.db", dsErr.Source)
	assert.ErrorIs(t, err, domain.ErrInvalidRecord)
}

func TestTransactionRepository_Reset(t *testing.T) {
	_, repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, []domain.Transaction{
		{Date: date(2025, 1, 1), Direction: domain.DirectionInflow, Amount: decimal.NewFromInt(10), Status: domain.StatusSettled},
	}))
	require.NoError(t, repo.Reset(ctx))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestTransactionRepository_Replace(t *testing.T) {
	_, repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, []domain.Transaction{
		{Date: date(2025, 1, 1), Direction: domain.DirectionInflow, Description: "old", Amount: decimal.NewFromInt(10), Status: domain.StatusSettled},
		{Date: date(2025, 1, 2), Direction: domain.DirectionOutflow, Description: "old", Amount: decimal.NewFromInt(5), Status: domain.StatusSettled},
	}))

	require.NoError(t, repo.Replace(ctx, []domain.Transaction{
		{Date: date(2025, 2, 1), Direction: domain.DirectionInflow, Description: "new", Amount: decimal.NewFromInt(7), Status: domain.StatusPending},
	}))

	out, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "new", out[0].Description)
}

func TestTransactionRepository_ReplaceFailureKeepsStoredRows(t *testing.T) {
	db, repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, []domain.Transaction{
		{Date: date(2025, 1, 1), Direction: domain.DirectionInflow, Description: "kept", Amount: decimal.NewFromInt(10), Status: domain.StatusSettled},
	}))

	// Make the second insert fail after the delete has already run
	_, err := db.ExecContext(ctx, `
		CREATE TRIGGER reject_broken BEFORE INSERT ON ledger_transactions
		WHEN NEW.description = 'broken'
		BEGIN
			SELECT RAISE(ABORT, 'rejected');
		END
	`)
	require.NoError(t, err)

	err = repo.Replace(ctx, []domain.Transaction{
		{Date: date(2025, 2, 1), Direction: domain.DirectionInflow, Description: "fine", Amount: decimal.NewFromInt(1), Status: domain.StatusSettled},
		{Date: date(2025, 2, 2), Direction: domain.DirectionInflow, Description: "broken", Amount: decimal.NewFromInt(2), Status: domain.StatusSettled},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transaction 2")

	out, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "kept", out[0].Description)
}

func TestTransactionRepository_LoadEmpty(t *testing.T) {
	_, repo := newTestRepo(t)

	txs, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, txs)
	assert.Empty(t, txs)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	db, _ := newTestRepo(t)
	assert.NoError(t, db.RunMigrations())
}

func TestNewDB_UnsupportedDriver(t *testing.T) {
	_, err := NewDB("mysql", "whatever")
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestRebind(t *testing.T) {
	pg := &DB{driver: DriverPostgres}
	lite := &DB{driver: DriverSQLite}
	query := "INSERT INTO t (a, b) VALUES (?, ?)"

	assert.Equal(t, "INSERT INTO t (a, b) VALUES ($1, $2)", pg.rebind(query))
	assert.Equal(t, query, lite.rebind(query))
}
