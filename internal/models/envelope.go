package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Envelope is a planned allocation line within one budget.
//
// If the envelope was instantiated from a template line, TemplateLineID
// links back to it. The link is weak and only used to match the envelope
// during propagation, never for ownership.
//
// IsManuallyAdjusted locks the envelope: propagation never overwrites
// an envelope the user has deliberately edited.
type Envelope struct {
	DefaultModel
	BudgetID               uuid.UUID       `json:"budgetId" gorm:"index"`
	Budget                 Budget          `json:"-"`
	TemplateLineID         *uuid.UUID      `json:"templateLineId" gorm:"index"`
	SavingsGoalID          *uuid.UUID      `json:"savingsGoalId"`
	RolloverSourceBudgetID *uuid.UUID      `json:"rolloverSourceBudgetId"`
	Name                   string          `json:"name"`
	Amount                 decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)"`
	Kind                   LineKind        `json:"kind"`
	Recurrence             Recurrence      `json:"recurrence"`
	IsManuallyAdjusted     bool            `json:"isManuallyAdjusted"`
	CheckedAt              *time.Time      `json:"checkedAt"`
}

// IsRollover reports whether the envelope is a synthetic rollover line.
// Rollover lines are identified by their name, not by a stored flag.
func (e Envelope) IsRollover() bool {
	return IsRolloverName(e.Name)
}

func (e *Envelope) BeforeSave(_ *gorm.DB) error {
	e.Name = strings.TrimSpace(e.Name)

	if e.Amount.IsNegative() {
		return ErrAmountNegative
	}

	if !e.Kind.Valid() {
		return ErrKindInvalid
	}

	if !e.Recurrence.Valid() {
		return ErrRecurrenceInvalid
	}

	return nil
}

// BeforeUpdate rejects updates of rollover lines. The receiver holds the
// stored state when updating via DB.Model(&envelope), so the check uses
// the name as it is in the database, not the incoming one.
func (e *Envelope) BeforeUpdate(_ *gorm.DB) error {
	if e.IsRollover() {
		return ErrRolloverLineImmutable
	}

	return nil
}

func (e *Envelope) BeforeDelete(_ *gorm.DB) error {
	if e.IsRollover() {
		return ErrRolloverLineImmutable
	}

	return nil
}

// Export returns all envelopes for a user.
func (Envelope) Export(userID uuid.UUID) (json.RawMessage, error) {
	var envelopes []Envelope
	err := DB.Unscoped().
		Joins("JOIN budgets ON budgets.id = envelopes.budget_id").
		Where("budgets.user_id = ?", userID).
		Find(&envelopes).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&envelopes)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}
