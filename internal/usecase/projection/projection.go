package projection

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/cashhealth-backend/internal/domain"
)

// Projection holds the cumulative and simulated balance lines
// The three slices are parallel and indexed like the date-sorted transactions
type Projection struct {
	Dates      []time.Time
	Cumulative []decimal.Decimal
	Simulated  []decimal.Decimal
}

// Len returns the number of points
func (p Projection) Len() int {
	return len(p.Dates)
}

// Project computes the running balance of txs and the what-if line
// Logic:
//  1. Stable sort by date (ties keep load order)
//  2. Cumulative[i] = Cumulative[i-1] + signed amount, over ALL statuses
//  3. Simulated[i] = Cumulative[i] - InvestmentAmount when the date is on/after InvestmentDate
func Project(txs []domain.Transaction, sim domain.Simulation) Projection {
	sorted := make([]domain.Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	out := Projection{
		Dates:      make([]time.Time, 0, len(sorted)),
		Cumulative: make([]decimal.Decimal, 0, len(sorted)),
		Simulated:  make([]decimal.Decimal, 0, len(sorted)),
	}

	cutoff := domain.DateOf(sim.InvestmentDate)
	running := decimal.Zero
	for _, tx := range sorted {
		running = running.Add(tx.SignedAmount())

		simulated := running
		if !tx.Date.Before(cutoff) {
			simulated = running.Sub(sim.InvestmentAmount)
		}

		out.Dates = append(out.Dates, tx.Date)
		out.Cumulative = append(out.Cumulative, running)
		out.Simulated = append(out.Simulated, simulated)
	}

	return out
}
