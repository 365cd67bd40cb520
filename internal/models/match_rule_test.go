package models_test

import (
	"github.com/budgetloop/backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestMatchRuleEmptyMatch() {
	rule := models.MatchRule{Match: "  ", EnvelopeName: "Groceries"}
	err := models.DB.Create(&rule).Error
	assert.ErrorIs(suite.T(), err, models.ErrMatchRuleEmpty)
}

func (suite *TestSuiteStandard) TestMatchEnvelope() {
	budget := suite.createTestBudget(models.Budget{})

	groceries := suite.createTestEnvelope(models.Envelope{
		BudgetID: budget.ID,
		Name:     "Groceries",
		Amount:   decimal.NewFromFloat(400),
	})
	transport := suite.createTestEnvelope(models.Envelope{
		BudgetID: budget.ID,
		Name:     "Transport",
		Amount:   decimal.NewFromFloat(80),
	})

	_ = suite.createTestMatchRule(models.MatchRule{
		UserID:       budget.UserID,
		Priority:     10,
		Match:        "*",
		EnvelopeName: "Transport",
	})
	_ = suite.createTestMatchRule(models.MatchRule{
		UserID:       budget.UserID,
		Priority:     1,
		Match:        "REWE*",
		EnvelopeName: "Groceries",
	})

	tests := []struct {
		name string
		want *models.Envelope
	}{
		{"REWE Berlin", &groceries},
		{"BVG Ticket", &transport},
	}

	for _, tt := range tests {
		id, err := models.MatchEnvelope(budget.UserID, budget.ID, tt.name)
		require.Nil(suite.T(), err)

		if assert.NotNil(suite.T(), id, "No envelope matched for %q", tt.name) {
			assert.Equal(suite.T(), tt.want.ID, *id, "Wrong envelope matched for %q", tt.name)
		}
	}
}

func (suite *TestSuiteStandard) TestMatchEnvelopeNoMatch() {
	budget := suite.createTestBudget(models.Budget{})

	_ = suite.createTestMatchRule(models.MatchRule{
		UserID:       budget.UserID,
		Match:        "Edeka*",
		EnvelopeName: "Groceries",
	})

	id, err := models.MatchEnvelope(budget.UserID, budget.ID, "Hardware store")
	require.Nil(suite.T(), err)
	assert.Nil(suite.T(), id)
}

// A rule whose envelope does not exist in the budget falls through to
// the next rule.
func (suite *TestSuiteStandard) TestMatchEnvelopeFallthrough() {
	budget := suite.createTestBudget(models.Budget{})

	fallback := suite.createTestEnvelope(models.Envelope{
		BudgetID: budget.ID,
		Name:     "Everything else",
		Amount:   decimal.NewFromFloat(200),
	})

	_ = suite.createTestMatchRule(models.MatchRule{
		UserID:       budget.UserID,
		Priority:     1,
		Match:        "*",
		EnvelopeName: "Does not exist",
	})
	_ = suite.createTestMatchRule(models.MatchRule{
		UserID:       budget.UserID,
		Priority:     2,
		Match:        "*",
		EnvelopeName: "Everything else",
	})

	id, err := models.MatchEnvelope(budget.UserID, budget.ID, "Anything")
	require.Nil(suite.T(), err)

	if assert.NotNil(suite.T(), id) {
		assert.Equal(suite.T(), fallback.ID, *id)
	}
}
