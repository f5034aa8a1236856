package kpi

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/cashhealth-backend/internal/domain"
)

// KPIs are the scalar health indicators of a filtered transaction set
type KPIs struct {
	CashBalance decimal.Decimal // Settled inflows - settled outflows. May be negative.
	Receivable  decimal.Decimal // Inflows not yet settled (pending + forecast)
	Payable     decimal.Decimal // Outflows not yet settled, as a magnitude
	BurnRate    decimal.Decimal // Outflow per selected period
	Runway      decimal.Decimal // Periods of solvency at the current burn rate. Not clamped.
}

// SignedPayable returns the payable as the negative-signed value shown to users
func (k KPIs) SignedPayable() decimal.Decimal {
	return k.Payable.Neg()
}

// Compute calculates the KPIs of txs as seen at now
// periodCount is the number of selected period buckets
// Logic:
//   - CashBalance = Sum(inflow AND settled) - Sum(outflow AND settled)
//   - Receivable  = Sum(inflow AND NOT settled)
//   - Payable     = Sum(outflow AND NOT settled)
//   - BurnRate    = Sum(outflow) / periodCount, with a divisor of 1 when nothing is selected
//   - Runway      = CashBalance / BurnRate when BurnRate > 0, else 0
func Compute(txs []domain.Transaction, periodCount int, now time.Time) KPIs {
	settled := domain.Settled(now)

	settledIn := domain.Sum(txs, domain.All(domain.IsInflow, settled))
	settledOut := domain.Sum(txs, domain.All(domain.IsOutflow, settled))
	cashBalance := settledIn.Sub(settledOut)

	burnRate := BurnRate(domain.Sum(txs, domain.IsOutflow), periodCount)

	return KPIs{
		CashBalance: cashBalance,
		Receivable:  domain.Sum(txs, domain.All(domain.IsInflow, domain.Not(settled))),
		Payable:     domain.Sum(txs, domain.All(domain.IsOutflow, domain.Not(settled))),
		BurnRate:    burnRate,
		Runway:      Runway(cashBalance, burnRate),
	}
}

// BurnRate averages the total outflow over the selected periods
// An empty selection falls back to a divisor of 1 so the result stays finite
func BurnRate(totalOutflow decimal.Decimal, periodCount int) decimal.Decimal {
	divisor := int64(periodCount)
	if divisor <= 0 {
		divisor = 1
	}
	return totalOutflow.Div(decimal.NewFromInt(divisor))
}

// Runway divides the cash balance by the burn rate
// Returns 0 when there is no burn; a negative balance yields a negative runway
func Runway(cashBalance, burnRate decimal.Decimal) decimal.Decimal {
	if !burnRate.IsPositive() {
		return decimal.Zero
	}
	return cashBalance.Div(burnRate)
}
