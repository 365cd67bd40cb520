package models

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Template is a reusable monthly blueprint owned by one user.
type Template struct {
	DefaultModel
	UserID uuid.UUID `json:"userId" gorm:"index"`
	Name   string    `json:"name"`
	Note   string    `json:"note"`
}

func (t *Template) BeforeSave(_ *gorm.DB) error {
	t.Name = strings.TrimSpace(t.Name)
	t.Note = strings.TrimSpace(t.Note)

	return nil
}

// TemplateLine is one blueprint line of a template.
//
// It has the same line shape as an Envelope, minus the budget-specific
// fields. Envelopes instantiated from a template line keep a weak
// back-reference used to match them during propagation.
type TemplateLine struct {
	DefaultModel
	TemplateID    uuid.UUID       `json:"templateId" gorm:"index"`
	Template      Template        `json:"-"`
	SavingsGoalID *uuid.UUID      `json:"savingsGoalId"`
	Name          string          `json:"name"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)"`
	Kind          LineKind        `json:"kind"`
	Recurrence    Recurrence      `json:"recurrence"`
}

func (l *TemplateLine) BeforeSave(_ *gorm.DB) error {
	l.Name = strings.TrimSpace(l.Name)

	if l.Amount.IsNegative() {
		return ErrAmountNegative
	}

	if !l.Kind.Valid() {
		return ErrKindInvalid
	}

	if !l.Recurrence.Valid() {
		return ErrRecurrenceInvalid
	}

	return nil
}

// Envelope returns the envelope the template line instantiates
// in the given budget, with the back-reference set.
func (l TemplateLine) Envelope(budgetID uuid.UUID) Envelope {
	lineID := l.ID

	return Envelope{
		BudgetID:       budgetID,
		TemplateLineID: &lineID,
		SavingsGoalID:  l.SavingsGoalID,
		Name:           l.Name,
		Amount:         l.Amount,
		Kind:           l.Kind,
		Recurrence:     l.Recurrence,
	}
}

// Export returns all templates for a user.
func (Template) Export(userID uuid.UUID) (json.RawMessage, error) {
	var templates []Template
	err := DB.Unscoped().Where(&Template{UserID: userID}).Find(&templates).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&templates)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}

// Export returns all template lines for a user.
func (TemplateLine) Export(userID uuid.UUID) (json.RawMessage, error) {
	var lines []TemplateLine
	err := DB.Unscoped().
		Joins("JOIN templates ON templates.id = template_lines.template_id").
		Where("templates.user_id = ?", userID).
		Find(&lines).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&lines)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}
