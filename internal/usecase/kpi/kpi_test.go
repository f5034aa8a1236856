package kpi

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/cashhealth-backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func scenario() []domain.Transaction {
	return []domain.Transaction{
		{Date: d(2025, time.January, 1), Direction: domain.DirectionInflow, Amount: decimal.NewFromInt(1000), Status: domain.StatusSettled},
		{Date: d(2025, time.January, 10), Direction: domain.DirectionOutflow, Amount: decimal.NewFromInt(400), Status: domain.StatusSettled},
		{Date: d(2025, time.February, 1), Direction: domain.DirectionInflow, Amount: decimal.NewFromInt(200), Status: domain.StatusForecast},
	}
}

func TestCompute_Scenario(t *testing.T) {
	now := d(2025, time.January, 20)

	k := Compute(scenario(), 2, now)

	assert.True(t, k.CashBalance.Equal(decimal.NewFromInt(600)), "cash balance: %s", k.CashBalance)
	assert.True(t, k.Receivable.Equal(decimal.NewFromInt(200)), "receivable: %s", k.Receivable)
	assert.True(t, k.Payable.IsZero(), "payable: %s", k.Payable)
	assert.True(t, k.BurnRate.Equal(decimal.NewFromInt(200)), "burn rate: %s", k.BurnRate)
	assert.True(t, k.Runway.Equal(decimal.NewFromInt(3)), "runway: %s", k.Runway)
}

func TestCompute_PayableIncludesPendingAndForecast(t *testing.T) {
	now := d(2025, time.March, 15)
	txs := []domain.Transaction{
		{Date: d(2025, time.March, 1), Direction: domain.DirectionOutflow, Amount: decimal.NewFromInt(70), Status: domain.StatusPending},
		{Date: d(2025, time.April, 1), Direction: domain.DirectionOutflow, Amount: decimal.NewFromInt(30), Status: domain.StatusForecast},
		{Date: d(2025, time.March, 2), Direction: domain.DirectionOutflow, Amount: decimal.NewFromInt(500), Status: domain.StatusSettled},
	}

	k := Compute(txs, 1, now)

	assert.True(t, k.Payable.Equal(decimal.NewFromInt(100)))
	assert.True(t, k.SignedPayable().Equal(decimal.NewFromInt(-100)))
	assert.True(t, k.CashBalance.Equal(decimal.NewFromInt(-500)))
}

func TestCompute_StatusIsReevaluatedAtNow(t *testing.T) {
	// Stored as settled but dated in the future relative to now: counts as receivable
	txs := []domain.Transaction{
		{Date: d(2025, time.May, 1), Direction: domain.DirectionInflow, Amount: decimal.NewFromInt(80), Status: domain.StatusSettled},
	}

	before := Compute(txs, 1, d(2025, time.April, 30))
	after := Compute(txs, 1, d(2025, time.May, 1))

	assert.True(t, before.CashBalance.IsZero())
	assert.True(t, before.Receivable.Equal(decimal.NewFromInt(80)))
	assert.True(t, after.CashBalance.Equal(decimal.NewFromInt(80)))
	assert.True(t, after.Receivable.IsZero())
}

func TestCompute_BalanceIsOrderIndependent(t *testing.T) {
	now := d(2025, time.December, 31)
	rng := rand.New(rand.NewSource(42))

	txs := make([]domain.Transaction, 0, 50)
	for i := 0; i < 50; i++ {
		dir := domain.DirectionInflow
		if rng.Intn(2) == 0 {
			dir = domain.DirectionOutflow
		}
		status := domain.StatusSettled
		if rng.Intn(5) == 0 {
			status = domain.StatusPending
		}
		txs = append(txs, domain.Transaction{
			Date:      d(2025, time.Month(1+rng.Intn(12)), 1+rng.Intn(28)),
			Direction: dir,
			Amount:    decimal.NewFromFloat(float64(rng.Intn(100000)) / 100),
			Status:    status,
		})
	}

	expected := domain.Sum(txs, domain.All(domain.IsInflow, domain.Settled(now))).
		Sub(domain.Sum(txs, domain.All(domain.IsOutflow, domain.Settled(now))))

	base := Compute(txs, 12, now)
	assert.True(t, base.CashBalance.Equal(expected))

	shuffled := make([]domain.Transaction, len(txs))
	copy(shuffled, txs)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	assert.True(t, Compute(shuffled, 12, now).CashBalance.Equal(base.CashBalance))
}

func TestBurnRate_ZeroPeriodsFallsBackToTotal(t *testing.T) {
	txs := []domain.Transaction{
		{Date: d(2025, time.January, 3), Direction: domain.DirectionOutflow, Amount: decimal.NewFromInt(450), Status: domain.StatusSettled},
		{Date: d(2025, time.January, 9), Direction: domain.DirectionOutflow, Amount: decimal.NewFromInt(50), Status: domain.StatusSettled},
	}

	k := Compute(txs, 0, d(2025, time.February, 1))

	assert.True(t, k.BurnRate.Equal(decimal.NewFromInt(500)))
	assert.True(t, BurnRate(decimal.NewFromInt(500), -3).Equal(decimal.NewFromInt(500)))
}

func TestRunway(t *testing.T) {
	tests := []struct {
		name     string
		balance  int64
		burnRate int64
		want     decimal.Decimal
	}{
		{"negative balance keeps its sign", -500, 100, decimal.NewFromInt(-5)},
		{"no burn yields zero", 1000, 0, decimal.Zero},
		{"fractional months", 250, 100, decimal.NewFromFloat(2.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Runway(decimal.NewFromInt(tt.balance), decimal.NewFromInt(tt.burnRate))
			assert.True(t, got.Equal(tt.want), "got %s want %s", got, tt.want)
		})
	}
}

func TestCompute_EmptySetIsAllZero(t *testing.T) {
	k := Compute(nil, 0, d(2025, time.January, 1))

	assert.True(t, k.CashBalance.IsZero())
	assert.True(t, k.Receivable.IsZero())
	assert.True(t, k.Payable.IsZero())
	assert.True(t, k.BurnRate.IsZero())
	assert.True(t, k.Runway.IsZero())
}

func TestCompute_NegativeBalanceYieldsNegativeRunway(t *testing.T) {
	txs := []domain.Transaction{
		{Date: d(2025, time.February, 2), Direction: domain.DirectionOutflow, Amount: decimal.NewFromInt(500), Status: domain.StatusSettled},
	}

	k := Compute(txs, 5, d(2025, time.June, 30))

	assert.True(t, k.CashBalance.Equal(decimal.NewFromInt(-500)))
	assert.True(t, k.BurnRate.Equal(decimal.NewFromInt(100)))
	assert.True(t, k.Runway.Equal(decimal.NewFromInt(-5)), "runway: %s", k.Runway)
}
