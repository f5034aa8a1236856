package aggregator

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/simaogato/cashhealth-backend/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// MonthlyTotal is the summed amount of one direction within one period bucket
type MonthlyTotal struct {
	Period    domain.Period
	Direction domain.Direction
	Total     decimal.Decimal
}

// CategoryTotal is the summed amount of one category
// Share is the percentage (0-100) of the direction total
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
	Share    decimal.Decimal
}

type monthlyKey struct {
	period    domain.Period
	direction domain.Direction
}

// MonthlyTotals groups transactions by (period bucket, direction) and sums their amounts
// Logic:
//  1. Accumulate per key; keys only exist once a transaction hits them (empty buckets are never emitted)
//  2. Sort chronologically by period, INFLOW before OUTFLOW inside a period
func MonthlyTotals(txs []domain.Transaction) []MonthlyTotal {
	totals := make(map[monthlyKey]decimal.Decimal)
	for _, tx := range txs {
		key := monthlyKey{period: tx.Period(), direction: tx.Direction}
		totals[key] = totals[key].Add(tx.Amount)
	}

	out := make([]MonthlyTotal, 0, len(totals))
	for key, total := range totals {
		out = append(out, MonthlyTotal{
			Period:    key.period,
			Direction: key.direction,
			Total:     total,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Period != out[j].Period {
			return out[i].Period.Before(out[j].Period)
		}
		return directionRank(out[i].Direction) < directionRank(out[j].Direction)
	})
	return out
}

// CategoryTotals sums the amounts per category for the given direction
// Categories are returned in name order; presentation may re-sort
func CategoryTotals(txs []domain.Transaction, direction domain.Direction) []CategoryTotal {
	totals := make(map[string]decimal.Decimal)
	grand := decimal.Zero
	for _, tx := range txs {
		if tx.Direction != direction {
			continue
		}
		totals[tx.Category] = totals[tx.Category].Add(tx.Amount)
		grand = grand.Add(tx.Amount)
	}

	out := make([]CategoryTotal, 0, len(totals))
	for category, total := range totals {
		share := decimal.Zero
		if grand.IsPositive() {
			share = total.Mul(hundred).Div(grand)
		}
		out = append(out, CategoryTotal{
			Category: category,
			Total:    total,
			Share:    share,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Category < out[j].Category
	})
	return out
}

func directionRank(d domain.Direction) int {
	if d == domain.DirectionInflow {
		return 0
	}
	return 1
}
