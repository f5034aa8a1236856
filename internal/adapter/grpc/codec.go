package grpc

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/cashhealth-backend/internal/domain"
	"github.com/simaogato/cashhealth-backend/internal/usecase/aggregator"
	"github.com/simaogato/cashhealth-backend/internal/usecase/dashboard"
	"github.com/simaogato/cashhealth-backend/internal/usecase/kpi"
	"github.com/simaogato/cashhealth-backend/internal/usecase/projection"
)

const dateLayout = "2006-01-02"

// Request field names
const (
	fieldPeriods          = "periods"
	fieldEvaluatedAt      = "evaluated_at"
	fieldDirection        = "direction"
	fieldInvestmentAmount = "investment_amount"
	fieldInvestmentDate   = "investment_date"
)

// parseQuery reads the period selection and the optional evaluation instant
func parseQuery(req *structpb.Struct) (dashboard.Query, error) {
	var q dashboard.Query
	fields := req.GetFields()

	if v, ok := fields[fieldPeriods]; ok {
		list := v.GetListValue()
		if list == nil {
			return q, fmt.Errorf("invalid %s: must be a list of YYYY-MM strings", fieldPeriods)
		}
		for _, item := range list.GetValues() {
			p, err := domain.ParsePeriod(item.GetStringValue())
			if err != nil {
				return q, fmt.Errorf("invalid %s: %w", fieldPeriods, err)
			}
			q.Periods = append(q.Periods, p)
		}
	}

	if s := fields[fieldEvaluatedAt].GetStringValue(); s != "" {
		at, err := domain.ParseDate(s)
		if err != nil {
			return q, fmt.Errorf("invalid %s: %w", fieldEvaluatedAt, err)
		}
		q.EvaluatedAt = at
	}

	return q, nil
}

// parseSimulation reads the what-if investment; absent fields mean no investment
func parseSimulation(req *structpb.Struct) (domain.Simulation, error) {
	var sim domain.Simulation
	fields := req.GetFields()

	if v, ok := fields[fieldInvestmentAmount]; ok {
		switch kind := v.GetKind().(type) {
		case *structpb.Value_StringValue:
			amount, err := decimal.NewFromString(kind.StringValue)
			if err != nil {
				return sim, fmt.Errorf("invalid %s format: %w", fieldInvestmentAmount, err)
			}
			sim.InvestmentAmount = amount
		case *structpb.Value_NumberValue:
			if math.IsNaN(kind.NumberValue) || math.IsInf(kind.NumberValue, 0) {
				return sim, fmt.Errorf("invalid %s: must be a finite number", fieldInvestmentAmount)
			}
			sim.InvestmentAmount = decimal.NewFromFloat(kind.NumberValue)
		default:
			return sim, fmt.Errorf("invalid %s: must be a string or number", fieldInvestmentAmount)
		}
	}

	if s := fields[fieldInvestmentDate].GetStringValue(); s != "" {
		at, err := domain.ParseDate(s)
		if err != nil {
			return sim, fmt.Errorf("invalid %s: %w", fieldInvestmentDate, err)
		}
		sim.InvestmentDate = at
	}

	if !sim.InvestmentAmount.IsZero() && sim.InvestmentDate.IsZero() {
		return sim, fmt.Errorf("invalid %s: required when %s is set", fieldInvestmentDate, fieldInvestmentAmount)
	}

	return sim, nil
}

func parseDirection(req *structpb.Struct) (domain.Direction, error) {
	s := req.GetFields()[fieldDirection].GetStringValue()
	if s == "" {
		return "", fmt.Errorf("invalid %s: required", fieldDirection)
	}
	d, err := domain.ParseDirectionName(s)
	if err != nil {
		return "", fmt.Errorf("invalid %s: %w", fieldDirection, err)
	}
	return d, nil
}

// The encoders build plain maps; structpb.NewStruct only accepts []any and map[string]any containers

func encodePeriods(periods []domain.Period) []any {
	out := make([]any, len(periods))
	for i, p := range periods {
		out[i] = p.String()
	}
	return out
}

func encodeKPIs(k kpi.KPIs) map[string]any {
	return map[string]any{
		"cash_balance":   k.CashBalance.String(),
		"receivable":     k.Receivable.String(),
		"payable":        k.Payable.String(),
		"payable_signed": k.SignedPayable().String(),
		"burn_rate":      k.BurnRate.String(),
		"runway":         k.Runway.String(),
	}
}

func encodeMonthly(totals []aggregator.MonthlyTotal) []any {
	out := make([]any, len(totals))
	for i, m := range totals {
		out[i] = map[string]any{
			"period":    m.Period.String(),
			"direction": string(m.Direction),
			"label":     m.Direction.Label(),
			"total":     m.Total.String(),
		}
	}
	return out
}

func encodeCategories(totals []aggregator.CategoryTotal) []any {
	out := make([]any, len(totals))
	for i, c := range totals {
		out[i] = map[string]any{
			"category": c.Category,
			"total":    c.Total.String(),
			"share":    c.Share.StringFixed(2),
		}
	}
	return out
}

func encodeProjection(p projection.Projection) map[string]any {
	dates := make([]any, p.Len())
	cumulative := make([]any, p.Len())
	simulated := make([]any, p.Len())
	for i := range p.Dates {
		dates[i] = p.Dates[i].Format(dateLayout)
		cumulative[i] = p.Cumulative[i].String()
		simulated[i] = p.Simulated[i].String()
	}
	return map[string]any{
		"dates":      dates,
		"cumulative": cumulative,
		"simulated":  simulated,
	}
}

// encodeTransactions reports each status as seen at now
func encodeTransactions(txs []domain.Transaction, now time.Time) []any {
	out := make([]any, len(txs))
	for i, tx := range txs {
		status := domain.StatusAt(tx, now)
		out[i] = map[string]any{
			"id":             tx.ID.String(),
			"date":           tx.Date.Format(dateLayout),
			"direction":      string(tx.Direction),
			"category":       tx.Category,
			"description":    tx.Description,
			"amount":         tx.Amount.String(),
			"payment_method": tx.PaymentMethod,
			"status":         string(status),
			"status_label":   status.Label(),
		}
	}
	return out
}
