package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction is an actual monetary event within one budget.
//
// A transaction with an EnvelopeID is "allocated": its amount counts
// towards the envelope's consumption. A transaction without one is
// "free" and counts towards the budget balance directly.
type Transaction struct {
	DefaultModel
	BudgetID   uuid.UUID       `json:"budgetId" gorm:"index"`
	Budget     Budget          `json:"-"`
	EnvelopeID *uuid.UUID      `json:"envelopeId" gorm:"index"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)"`
	Kind       LineKind        `json:"kind"`
	Date       time.Time       `json:"date"`
	Category   *string         `json:"category"`
	CheckedAt  *time.Time      `json:"checkedAt"`
}

// AfterFind updates the timestamps to use UTC as
// timezone, not +0000. Yes, this is different.
//
// We already store them in UTC, but somehow reading
// them from the database returns them as +0000.
func (t *Transaction) AfterFind(tx *gorm.DB) (err error) {
	_ = t.DefaultModel.AfterFind(tx)

	t.Date = t.Date.In(time.UTC)
	return nil
}

func (t *Transaction) BeforeSave(_ *gorm.DB) error {
	t.Name = strings.TrimSpace(t.Name)

	if t.Date.IsZero() {
		t.Date = time.Now().In(time.UTC)
	} else {
		t.Date = t.Date.In(time.UTC)
	}

	if t.Amount.IsNegative() {
		return ErrAmountNegative
	}

	if !t.Kind.Valid() {
		return ErrKindInvalid
	}

	return nil
}

// Export returns all transactions for a user.
func (Transaction) Export(userID uuid.UUID) (json.RawMessage, error) {
	var transactions []Transaction
	err := DB.Unscoped().
		Joins("JOIN budgets ON budgets.id = transactions.budget_id").
		Where("budgets.user_id = ?", userID).
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&transactions)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}
