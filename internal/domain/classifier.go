package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Predicate classifies a transaction
type Predicate func(Transaction) bool

// IsInflow reports whether money is received
func IsInflow(t Transaction) bool {
	return t.Direction == DirectionInflow
}

// IsOutflow reports whether money is paid
func IsOutflow(t Transaction) bool {
	return t.Direction == DirectionOutflow
}

// StatusAt returns the settlement state of t as seen at the evaluation instant now.
// Rules:
//   - Dated after now's calendar date: always FORECAST
//   - Dated on/before: the stored SETTLED or PENDING is kept
//   - A stored FORECAST that is no longer in the future is an unresolved past-due item (PENDING)
func StatusAt(t Transaction, now time.Time) Status {
	if t.Date.After(DateOf(now)) {
		return StatusForecast
	}
	if t.Status == StatusForecast {
		return StatusPending
	}
	return t.Status
}

// Settled returns a predicate matching transactions settled at now
func Settled(now time.Time) Predicate {
	return statusIs(StatusSettled, now)
}

// Pending returns a predicate matching transactions pending at now
func Pending(now time.Time) Predicate {
	return statusIs(StatusPending, now)
}

// Forecast returns a predicate matching transactions still in the future at now
func Forecast(now time.Time) Predicate {
	return statusIs(StatusForecast, now)
}

func statusIs(status Status, now time.Time) Predicate {
	return func(t Transaction) bool {
		return StatusAt(t, now) == status
	}
}

// All combines predicates with logical AND. No predicates matches everything.
func All(preds ...Predicate) Predicate {
	return func(t Transaction) bool {
		for _, p := range preds {
			if !p(t) {
				return false
			}
		}
		return true
	}
}

// Not negates a predicate
func Not(p Predicate) Predicate {
	return func(t Transaction) bool {
		return !p(t)
	}
}

// Select returns the matching transactions in their original order
func Select(txs []Transaction, p Predicate) []Transaction {
	out := make([]Transaction, 0)
	for _, t := range txs {
		if p(t) {
			out = append(out, t)
		}
	}
	return out
}

// Sum adds the amounts of the matching transactions
func Sum(txs []Transaction, p Predicate) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txs {
		if p(t) {
			total = total.Add(t.Amount)
		}
	}
	return total
}
