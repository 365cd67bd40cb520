// Package ledger turns the envelopes and transactions of one budget
// into an ordered sequence of display rows with running balances.
//
// All functions are pure: they perform no I/O and always produce the
// same output for the same input, so they are safe to call concurrently.
package ledger

import (
	"sort"
	"time"

	"github.com/budgetloop/backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// maxSortTime is the sort key for missing dates. Rows without a usable
// date sort last within their group instead of defaulting to "now",
// which would make the ordering dependent on the wall clock.
var maxSortTime = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)

// Row is one line of the display ledger.
//
// Exactly one of Envelope and Transaction is set. Balance is the
// running balance of the ledger after this row.
type Row struct {
	Envelope    *models.Envelope    `json:"envelope,omitempty"`
	Transaction *models.Transaction `json:"transaction,omitempty"`

	Kind models.LineKind `json:"kind"`

	// Consumption data, set for envelope rows only.
	Consumed         decimal.Decimal `json:"consumed"`
	TransactionCount int             `json:"transactionCount"`
	Percentage       int64           `json:"percentage"`

	IsRollover bool `json:"isRollover"`
	Editable   bool `json:"editable"`
	Editing    bool `json:"editing"`

	Balance decimal.Decimal `json:"balance"`
}

// kindRank defines the fixed group order of the ledger.
func kindRank(kind models.LineKind) int {
	switch kind {
	case models.KindIncome:
		return 0
	case models.KindSaving:
		return 1
	default:
		return 2
	}
}

var kindOrder = []models.LineKind{models.KindIncome, models.KindSaving, models.KindExpense}

// envelopeSortTime returns the creation time of an envelope for sorting.
func envelopeSortTime(e models.Envelope) time.Time {
	if e.CreatedAt.IsZero() {
		return maxSortTime
	}

	return e.CreatedAt
}

// transactionSortTime returns the date of a transaction for sorting,
// falling back to the creation time when the date is missing.
func transactionSortTime(t models.Transaction) time.Time {
	if !t.Date.IsZero() {
		return t.Date
	}

	if !t.CreatedAt.IsZero() {
		return t.CreatedAt
	}

	return maxSortTime
}

// Build produces the display ledger for one budget.
//
// Rows are grouped by kind (income, saving, expense). Within a group,
// envelopes come first: fixed before one-off, then by creation time,
// then by name. Every transaction allocated to an envelope is rendered
// directly after that envelope, ordered by date and name. Free
// transactions follow the group's envelopes, ordered by date and name.
//
// The running balance accumulates in display order. An envelope
// contributes sign(kind) * max(planned, consumed), so overspending
// pulls the balance down by the actual figure. An allocated transaction
// contributes nothing, its amount is already part of its envelope's
// consumption. A free transaction contributes sign(kind) * amount.
//
// editingID marks the matching envelope row as being edited; it may be
// nil.
func Build(envelopes []models.Envelope, transactions []models.Transaction, editingID *uuid.UUID) []Row {
	consumption := Aggregate(envelopes, transactions)

	inSet := make(map[uuid.UUID]struct{}, len(envelopes))
	for _, envelope := range envelopes {
		inSet[envelope.ID] = struct{}{}
	}

	// Split transactions into allocated and free. A transaction
	// referencing an envelope that is not part of the input set is
	// treated as free so that it still shows up and counts.
	allocated := make(map[uuid.UUID][]models.Transaction)
	var free []models.Transaction

	for _, transaction := range transactions {
		if transaction.EnvelopeID != nil {
			if _, ok := inSet[*transaction.EnvelopeID]; ok {
				allocated[*transaction.EnvelopeID] = append(allocated[*transaction.EnvelopeID], transaction)
				continue
			}
		}

		free = append(free, transaction)
	}

	sorted := make([]models.Envelope, len(envelopes))
	copy(sorted, envelopes)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]

		if kindRank(a.Kind) != kindRank(b.Kind) {
			return kindRank(a.Kind) < kindRank(b.Kind)
		}

		// fixed before one_off
		if a.Recurrence != b.Recurrence {
			return a.Recurrence == models.RecurrenceFixed
		}

		at, bt := envelopeSortTime(a), envelopeSortTime(b)
		if !at.Equal(bt) {
			return at.Before(bt)
		}

		return a.Name < b.Name
	})

	for _, list := range allocated {
		sortTransactions(list)
	}
	sortTransactions(free)

	rows := make([]Row, 0, len(envelopes)+len(transactions))
	balance := decimal.Zero

	for _, kind := range kindOrder {
		for i := range sorted {
			envelope := sorted[i]
			if envelope.Kind != kind {
				continue
			}

			c := consumption[envelope.ID]
			balance = balance.Add(kind.Sign().Mul(decimal.Max(envelope.Amount, c.Consumed)))

			isRollover := envelope.IsRollover()
			rows = append(rows, Row{
				Envelope:         &sorted[i],
				Kind:             kind,
				Consumed:         c.Consumed,
				TransactionCount: c.TransactionCount,
				Percentage:       c.Percentage(envelope.Amount),
				IsRollover:       isRollover,
				Editable:         !isRollover,
				Editing:          editingID != nil && *editingID == envelope.ID && !isRollover,
				Balance:          balance,
			})

			for _, transaction := range allocated[envelope.ID] {
				t := transaction
				rows = append(rows, Row{
					Transaction: &t,
					Kind:        kind,
					Balance:     balance,
				})
			}
		}

		for i := range free {
			transaction := free[i]
			if transaction.Kind != kind {
				continue
			}

			balance = balance.Add(kind.Sign().Mul(transaction.Amount))
			rows = append(rows, Row{
				Transaction: &free[i],
				Kind:        kind,
				Balance:     balance,
			})
		}
	}

	return rows
}

func sortTransactions(transactions []models.Transaction) {
	sort.SliceStable(transactions, func(i, j int) bool {
		at, bt := transactionSortTime(transactions[i]), transactionSortTime(transactions[j])
		if !at.Equal(bt) {
			return at.Before(bt)
		}

		return transactions[i].Name < transactions[j].Name
	})
}

// EndingBalance is the balance of a budget after all its envelopes and
// transactions, the running balance of the last ledger row. An empty
// budget has a balance of zero.
func EndingBalance(envelopes []models.Envelope, transactions []models.Transaction) decimal.Decimal {
	rows := Build(envelopes, transactions, nil)
	if len(rows) == 0 {
		return decimal.Zero
	}

	return rows[len(rows)-1].Balance
}
