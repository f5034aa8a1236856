package sheets

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/simaogato/cashhealth-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValues(t *testing.T) {
	values := [][]interface{}{
		{"Data", "Tipo", "Categoria", "Descrição", "Valor", "Forma_Pagamento", "Status"},
		{"2025-01-05", "Entrada", "Consultoria Mensal", "Venda - TechSolutions", 3500.0, "Pix", "Realizado"},
		{},
		{"", "", "", "", "", "", ""},
		{"2025-01-20", "Saída", "Impostos (DAS)", "Impostos Mensais", "1200,50", "Boleto", "Pendente"},
		{"2025-01-25", "Saída", "Folha de Pagamento", "Salários Equipe", "R$ 18.000,75", "Transferência", "Realizado"},
	}

	txs, err := parseValues("sheets:test", values)
	require.NoError(t, err)
	require.Len(t, txs, 3)

	assert.Equal(t, domain.DirectionInflow, txs[0].Direction)
	assert.True(t, txs[0].Amount.Equal(decimal.NewFromInt(3500)))
	assert.Equal(t, domain.StatusSettled, txs[0].Status)

	assert.Equal(t, domain.DirectionOutflow, txs[1].Direction)
	assert.True(t, txs[1].Amount.Equal(decimal.RequireFromString("1200.50")))
	assert.Equal(t, domain.StatusPending, txs[1].Status)

	// Currency-formatted cell as rendered by a pt-BR spreadsheet
	assert.True(t, txs[2].Amount.Equal(decimal.RequireFromString("18000.75")))
}

func TestParseValues_Errors(t *testing.T) {
	tests := []struct {
		name    string
		values  [][]interface{}
		wantErr error
		record  int
	}{
		{"empty range", nil, domain.ErrInvalidHeader, 0},
		{"missing columns", [][]interface{}{{"Data", "Valor"}}, domain.ErrInvalidHeader, 0},
		{
			name: "bad status on row 2",
			values: [][]interface{}{
				{"Data", "Tipo", "Categoria", "Descrição", "Valor", "Forma_Pagamento", "Status"},
				{"2025-01-05", "Entrada", "c", "d", "1", "Pix", "Realizado"},
				{"2025-01-06", "Entrada", "c", "d", "1", "Pix", "Talvez"},
			},
			wantErr: domain.ErrInvalidRecord,
			record:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseValues("sheets:test", tt.values)

			var dsErr *domain.DataSourceError
			require.ErrorAs(t, err, &dsErr)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.record, dsErr.Record)
		})
	}
}
