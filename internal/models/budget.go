package models

import (
	"encoding/json"
	"strings"

	"github.com/budgetloop/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Budget is one calendar month of budgeting for one user.
//
// A budget can be instantiated from a template. In that case, the
// template ID is kept so that future template edits can be propagated
// to the budget. The link is weak: deleting the template does not
// delete the budget.
type Budget struct {
	DefaultModel
	UserID        uuid.UUID       `json:"userId" gorm:"uniqueIndex:budget_user_month;index"`
	Name          string          `json:"name"`
	Note          string          `json:"note"`
	Month         types.Month     `json:"month" gorm:"uniqueIndex:budget_user_month"`
	TemplateID    *uuid.UUID      `json:"templateId"`
	EndingBalance decimal.Decimal `json:"endingBalance" gorm:"type:DECIMAL(20,8)"`
}

func (b *Budget) BeforeSave(_ *gorm.DB) error {
	b.Name = strings.TrimSpace(b.Name)
	b.Note = strings.TrimSpace(b.Note)

	return nil
}

// IsFuture reports whether the budget's month is the reference month or
// any later month. It determines whether template edits are propagated
// to the budget.
func (b Budget) IsFuture(reference types.Month) bool {
	return !b.Month.Before(reference)
}

// Export returns all budgets for a user.
func (Budget) Export(userID uuid.UUID) (json.RawMessage, error) {
	var budgets []Budget
	err := DB.Unscoped().Where(&Budget{UserID: userID}).Find(&budgets).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&budgets)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}
