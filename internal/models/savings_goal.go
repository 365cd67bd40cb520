package models

import (
	"encoding/json"
	"strings"

	"github.com/budgetloop/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SavingsGoal is a long-running saving target. Envelopes and template
// lines can reference it so that saved amounts count towards the goal.
type SavingsGoal struct {
	DefaultModel
	UserID       uuid.UUID       `json:"userId" gorm:"index"`
	Name         string          `json:"name"`
	Note         string          `json:"note"`
	TargetAmount decimal.Decimal `json:"targetAmount" gorm:"type:DECIMAL(20,8)"`
	TargetMonth  types.Month     `json:"targetMonth"`
	Archived     bool            `json:"archived"`
}

func (g *SavingsGoal) BeforeSave(_ *gorm.DB) error {
	g.Name = strings.TrimSpace(g.Name)
	g.Note = strings.TrimSpace(g.Note)

	if !g.TargetAmount.IsPositive() {
		return ErrGoalAmountNotPositive
	}

	return nil
}

// Saved returns the sum of checked transactions allocated to envelopes
// that reference the goal.
func (g SavingsGoal) Saved() (decimal.Decimal, error) {
	var sum decimal.NullDecimal

	err := DB.Table("transactions").
		Joins("JOIN envelopes ON envelopes.id = transactions.envelope_id").
		Where("envelopes.savings_goal_id = ?", g.ID).
		Where("transactions.deleted_at IS NULL").
		Select("SUM(transactions.amount)").
		Row().
		Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	return sum.Decimal, nil
}

// Export returns all savings goals for a user.
func (SavingsGoal) Export(userID uuid.UUID) (json.RawMessage, error) {
	var goals []SavingsGoal
	err := DB.Unscoped().Where(&SavingsGoal{UserID: userID}).Find(&goals).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&goals)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}
