package csvfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/simaogato/cashhealth-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ledgerCSV = `Data,Tipo,Categoria,Descrição,Valor,Forma_Pagamento,Status
2025-01-01,Entrada,Consultoria Mensal,Venda - TechSolutions,1000.00,Pix,Realizado
2025-01-10,Saída,Aluguel,Aluguel Escritório,400.00,Boleto,Realizado

2025-02-01,Entrada,Manutenção Técnica,"Venda - Padaria Central, contrato",200.00,Cartão de Crédito,Previsto
`

func TestSource_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "financeiro.csv")
	require.NoError(t, os.WriteFile(path, []byte(ledgerCSV), 0o600))

	txs, err := New(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, txs, 3)

	assert.Equal(t, domain.DirectionInflow, txs[0].Direction)
	assert.Equal(t, domain.DirectionOutflow, txs[1].Direction)
	assert.Equal(t, "Aluguel Escritório", txs[1].Description)
	assert.Equal(t, "Venda - Padaria Central, contrato", txs[2].Description)
	assert.Equal(t, "Cartão de Crédito", txs[2].PaymentMethod)
	assert.Equal(t, domain.StatusForecast, txs[2].Status)
	assert.True(t, txs[2].Amount.Equal(decimal.NewFromInt(200)))
}

func TestSource_MissingFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope.csv")).Load(context.Background())

	var dsErr *domain.DataSourceError
	require.ErrorAs(t, err, &dsErr)
	assert.ErrorIs(t, err, domain.ErrSourceMissing)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		record  int
	}{
		{"empty file", "", domain.ErrInvalidHeader, 0},
		{"wrong header", "Date,Type,Amount\n2025-01-01,In,1\n", domain.ErrInvalidHeader, 0},
		{
			name:    "negative amount on second record",
			input:   "Data,Tipo,Categoria,Descrição,Valor,Forma_Pagamento,Status\n2025-01-01,Entrada,a,b,1,Pix,Realizado\n2025-01-02,Saída,a,b,-3,Pix,Realizado\n",
			wantErr: domain.ErrInvalidRecord,
			record:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txs, err := Decode(context.Background(), "inline", strings.NewReader(tt.input))
			assert.Nil(t, txs)

			var dsErr *domain.DataSourceError
			require.ErrorAs(t, err, &dsErr)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.record, dsErr.Record)
		})
	}
}

func TestDecode_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Decode(ctx, "inline", strings.NewReader(ledgerCSV))
	assert.ErrorIs(t, err, context.Canceled)
}
