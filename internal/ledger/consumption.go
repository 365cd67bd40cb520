package ledger

import (
	"github.com/budgetloop/backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Consumption is the aggregate of all transactions allocated to one envelope.
type Consumption struct {
	Consumed         decimal.Decimal
	TransactionCount int
}

// Percentage returns how much of the planned amount has been consumed,
// rounded to whole percent. It is 0 when nothing is planned, so that
// progress indicators do not divide by zero.
func (c Consumption) Percentage(planned decimal.Decimal) int64 {
	if !planned.IsPositive() {
		return 0
	}

	return c.Consumed.Div(planned).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// Aggregate computes the consumption of every envelope from the
// transactions allocated to it. Transactions without an envelope
// reference and transactions referencing an envelope outside the
// given set are ignored.
func Aggregate(envelopes []models.Envelope, transactions []models.Transaction) map[uuid.UUID]Consumption {
	result := make(map[uuid.UUID]Consumption, len(envelopes))
	for _, envelope := range envelopes {
		result[envelope.ID] = Consumption{}
	}

	for _, transaction := range transactions {
		if transaction.EnvelopeID == nil {
			continue
		}

		consumption, ok := result[*transaction.EnvelopeID]
		if !ok {
			continue
		}

		consumption.Consumed = consumption.Consumed.Add(transaction.Amount)
		consumption.TransactionCount++
		result[*transaction.EnvelopeID] = consumption
	}

	return result
}
