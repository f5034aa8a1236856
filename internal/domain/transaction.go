package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Direction represents the direction of a cash movement
type Direction string

const (
	DirectionInflow  Direction = "INFLOW"
	DirectionOutflow Direction = "OUTFLOW"
)

// Status represents the settlement state of a transaction
type Status string

const (
	StatusSettled  Status = "SETTLED"
	StatusPending  Status = "PENDING"
	StatusForecast Status = "FORECAST"
)

// Labels used by the ledger source (column Tipo and Status)
const (
	labelInflow   = "Entrada"
	labelOutflow  = "Saída"
	labelSettled  = "Realizado"
	labelPending  = "Pendente"
	labelForecast = "Previsto"
)

// Transaction represents a single ledger record
// Amount is ALWAYS non-negative; the sign comes from Direction
type Transaction struct {
	ID            uuid.UUID
	Date          time.Time // Calendar date, UTC midnight
	Direction     Direction
	Category      string
	Description   string
	Amount        decimal.Decimal
	PaymentMethod string
	Status        Status // Stored status; use StatusAt for the effective one
}

// Validate ensures the transaction adheres to domain rules
// Returns an error if validation fails
func (t *Transaction) Validate() error {
	if t.Date.IsZero() {
		return errors.New("transaction date is required")
	}

	if t.Amount.IsNegative() {
		return errors.New("transaction amount cannot be negative")
	}

	if t.Direction != DirectionInflow && t.Direction != DirectionOutflow {
		return errors.New("transaction direction must be INFLOW or OUTFLOW")
	}

	if t.Status != StatusSettled && t.Status != StatusPending && t.Status != StatusForecast {
		return errors.New("transaction status must be SETTLED, PENDING, or FORECAST")
	}

	return nil
}

// SignedAmount returns +Amount for inflows and -Amount for outflows
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Direction == DirectionOutflow {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Period returns the period bucket the transaction falls into
func (t Transaction) Period() Period {
	return PeriodOf(t.Date)
}

// Label returns the ledger label for the direction ("Entrada" / "Saída")
func (d Direction) Label() string {
	switch d {
	case DirectionInflow:
		return labelInflow
	case DirectionOutflow:
		return labelOutflow
	default:
		return string(d)
	}
}

// ParseDirection accepts only the ledger labels ("Entrada" / "Saída")
func ParseDirection(s string) (Direction, error) {
	switch strings.TrimSpace(s) {
	case labelInflow:
		return DirectionInflow, nil
	case labelOutflow:
		return DirectionOutflow, nil
	}
	return "", fmt.Errorf("unrecognized direction %q", s)
}

// ParseDirectionName accepts the ledger label or the enum name in any case
// Used by request parsing, never by ledger decoding
func ParseDirectionName(s string) (Direction, error) {
	v := strings.TrimSpace(s)
	switch {
	case strings.EqualFold(v, string(DirectionInflow)):
		return DirectionInflow, nil
	case strings.EqualFold(v, string(DirectionOutflow)):
		return DirectionOutflow, nil
	}
	return ParseDirection(v)
}

// Label returns the ledger label for the status
func (s Status) Label() string {
	switch s {
	case StatusSettled:
		return labelSettled
	case StatusPending:
		return labelPending
	case StatusForecast:
		return labelForecast
	default:
		return string(s)
	}
}

// ParseStatus accepts only the ledger labels ("Realizado" / "Pendente" / "Previsto")
func ParseStatus(s string) (Status, error) {
	switch strings.TrimSpace(s) {
	case labelSettled:
		return StatusSettled, nil
	case labelPending:
		return StatusPending, nil
	case labelForecast:
		return StatusForecast, nil
	}
	return "", fmt.Errorf("unrecognized status %q", s)
}

// DateOf truncates an instant to its calendar date in UTC
// The calendar fields are taken from t's own location
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses an ISO date ("2006-01-02"), also accepting a full timestamp
func ParseDate(s string) (time.Time, error) {
	v := strings.TrimSpace(s)
	layouts := []string{"2006-01-02", "2006-01-02 15:04:05", time.RFC3339}
	for _, layout := range layouts {
		if d, err := time.Parse(layout, v); err == nil {
			return DateOf(d), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

// Simulation holds the what-if investment parameters
type Simulation struct {
	InvestmentAmount decimal.Decimal
	InvestmentDate   time.Time
}

// Validate ensures the simulation parameters are usable
func (s Simulation) Validate() error {
	if s.InvestmentAmount.IsNegative() {
		return errors.New("investment amount cannot be negative")
	}
	return nil
}
