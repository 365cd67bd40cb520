package models

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/ryanuber/go-glob"
	"gorm.io/gorm"
)

// MatchRule allocates new transactions to envelopes by name.
//
// Match is a glob pattern tested against the transaction name.
// EnvelopeName is the name of the envelope, resolved within the
// transaction's budget, since envelopes exist per budget.
type MatchRule struct {
	DefaultModel
	UserID       uuid.UUID `json:"userId" gorm:"index"`
	Priority     uint      `json:"priority"`
	Match        string    `json:"match"`
	EnvelopeName string    `json:"envelopeName"`
}

func (r *MatchRule) BeforeSave(_ *gorm.DB) error {
	r.Match = strings.TrimSpace(r.Match)
	r.EnvelopeName = strings.TrimSpace(r.EnvelopeName)

	if r.Match == "" {
		return ErrMatchRuleEmpty
	}

	return nil
}

// MatchEnvelope resolves the envelope a transaction should be allocated
// to. It returns nil when no rule matches or the matched rule's envelope
// does not exist in the transaction's budget.
//
// Rules are evaluated in priority order, lowest number first. The first
// match wins.
func MatchEnvelope(userID, budgetID uuid.UUID, name string) (*uuid.UUID, error) {
	var rules []MatchRule
	err := DB.Where(&MatchRule{UserID: userID}).Find(&rules).Error
	if err != nil {
		return nil, err
	}

	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority < rules[j].Priority
	})

	for _, rule := range rules {
		if !glob.Glob(rule.Match, name) {
			continue
		}

		var envelope Envelope
		err := DB.Where(&Envelope{BudgetID: budgetID, Name: rule.EnvelopeName}).First(&envelope).Error
		if err != nil {
			// The matched rule points to an envelope the budget does not
			// have. Fall through to lower priority rules.
			continue
		}

		id := envelope.ID
		return &id, nil
	}

	return nil, nil
}

// Export returns all match rules for a user.
func (MatchRule) Export(userID uuid.UUID) (json.RawMessage, error) {
	var rules []MatchRule
	err := DB.Unscoped().Where(&MatchRule{UserID: userID}).Find(&rules).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&rules)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}
