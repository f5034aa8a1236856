//go:build integration

package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/cashhealth-backend/internal/adapter/source/csvfile"
	"github.com/simaogato/cashhealth-backend/internal/config"
	"github.com/simaogato/cashhealth-backend/internal/domain"
	"github.com/simaogato/cashhealth-backend/internal/usecase/dashboard"
	"github.com/simaogato/cashhealth-backend/internal/usecase/ledger"
)

const integrationCSV = `Data,Tipo,Categoria,Descrição,Valor,Forma_Pagamento,Status
2025-01-01,Entrada,Consultoria Mensal,Venda - TechSolutions,1000.00,Pix,Realizado
2025-01-10,Saída,Aluguel,Aluguel Escritório,400.00,Boleto,Realizado
2025-02-01,Entrada,Consultoria Mensal,Venda - Padaria Central,200.00,Pix,Previsto
`

// getDBConnectionString returns the connection string of a disposable Postgres database
func getDBConnectionString() string {
	if conn := os.Getenv("DB_CONN_STR"); conn != "" {
		return conn
	}
	return "host=localhost port=5432 user=postgres password=postgres dbname=cashhealth_test sslmode=disable"
}

// TestPostgres_ImportAndServe copies a CSV ledger into Postgres, reloads it
// through the factory and checks the dashboard numbers end to end.
func TestPostgres_ImportAndServe(t *testing.T) {
	ctx := context.Background()
	f := NewFactory(zerolog.Nop())
	cfg := &config.Config{
		DataSource:   config.SourcePostgres,
		DBConnStr:    getDBConnectionString(),
		RunMigration: true,
	}

	repo, cleanup, err := f.OpenRepository(cfg)
	require.NoError(t, err)
	defer cleanup()

	// Start from an empty table
	require.NoError(t, repo.Reset(ctx))

	path := filepath.Join(t.TempDir(), "ledger.csv")
	require.NoError(t, os.WriteFile(path, []byte(integrationCSV), 0o600))
	imported, err := ledger.Load(ctx, csvfile.New(path))
	require.NoError(t, err)
	require.NoError(t, repo.Append(ctx, imported.Transactions()))

	result, err := f.Open(ctx, cfg)
	require.NoError(t, err)
	defer result.Cleanup()

	store, err := ledger.Load(ctx, result.Source)
	require.NoError(t, err)
	require.Equal(t, 3, store.Len())

	// IDs assigned on import survive the round trip
	for i, tx := range store.Transactions() {
		assert.Equal(t, imported.Transactions()[i].ID, tx.ID)
	}

	svc := dashboard.NewDashboardService(store, time.Minute, zerolog.Nop())
	svc.Now = func() time.Time { return time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC) }

	k, err := svc.GetKPIs(ctx, dashboard.Query{Periods: store.Periods()})
	require.NoError(t, err)
	assert.True(t, k.CashBalance.Equal(decimal.NewFromInt(600)))
	assert.True(t, k.Receivable.Equal(decimal.NewFromInt(200)))

	proj, err := svc.GetProjection(ctx, dashboard.Query{Periods: store.Periods()}, domain.Simulation{})
	require.NoError(t, err)
	require.Equal(t, 3, proj.Len())
	assert.True(t, proj.Cumulative[2].Equal(decimal.NewFromInt(800)))
}
