package models

import (
	"github.com/shopspring/decimal"
)

// LineKind classifies a budget line or transaction by its effect on the balance.
type LineKind string

const (
	KindIncome  LineKind = "income"
	KindExpense LineKind = "expense"
	KindSaving  LineKind = "saving"
)

// Valid reports whether the kind is one of the known values.
func (k LineKind) Valid() bool {
	return k == KindIncome || k == KindExpense || k == KindSaving
}

// Sign returns the signed factor the kind contributes to a balance:
// +1 for income, -1 for expense and saving.
func (k LineKind) Sign() decimal.Decimal {
	if k == KindIncome {
		return decimal.NewFromInt(1)
	}

	return decimal.NewFromInt(-1)
}

// Recurrence describes whether a line repeats every month or applies once.
type Recurrence string

const (
	RecurrenceFixed  Recurrence = "fixed"
	RecurrenceOneOff Recurrence = "one_off"
)

// Valid reports whether the recurrence is one of the known values.
func (r Recurrence) Valid() bool {
	return r == RecurrenceFixed || r == RecurrenceOneOff
}
