package models_test

import (
	"testing"
	"time"

	"github.com/budgetloop/backend/internal/models"
	"github.com/budgetloop/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestInstantiateBudgetFromTemplate() {
	template := suite.createTestTemplate(models.Template{})

	salary := suite.createTestTemplateLine(models.TemplateLine{
		TemplateID: template.ID,
		Name:       "Salary",
		Amount:     decimal.NewFromFloat(2800),
		Kind:       models.KindIncome,
	})
	rent := suite.createTestTemplateLine(models.TemplateLine{
		TemplateID: template.ID,
		Name:       "Rent",
		Amount:     decimal.NewFromFloat(950),
		Kind:       models.KindExpense,
	})

	budget := models.Budget{
		UserID:     template.UserID,
		Month:      types.NewMonth(2032, time.March),
		TemplateID: &template.ID,
	}
	err := models.InstantiateBudget(models.DB, &budget)
	require.Nil(suite.T(), err)

	var envelopes []models.Envelope
	err = models.DB.Where(&models.Envelope{BudgetID: budget.ID}).
		Order("created_at ASC").
		Find(&envelopes).Error
	require.Nil(suite.T(), err)
	require.Len(suite.T(), envelopes, 2)

	assert.Equal(suite.T(), "Salary", envelopes[0].Name)
	if assert.NotNil(suite.T(), envelopes[0].TemplateLineID) {
		assert.Equal(suite.T(), salary.ID, *envelopes[0].TemplateLineID)
	}
	assert.Equal(suite.T(), "Rent", envelopes[1].Name)
	if assert.NotNil(suite.T(), envelopes[1].TemplateLineID) {
		assert.Equal(suite.T(), rent.ID, *envelopes[1].TemplateLineID)
	}
}

// A template edit after instantiation does not change the budget. Only
// explicit propagation does.
func (suite *TestSuiteStandard) TestInstantiateBudgetSnapshot() {
	template := suite.createTestTemplate(models.Template{})
	line := suite.createTestTemplateLine(models.TemplateLine{
		TemplateID: template.ID,
		Name:       "Groceries",
		Amount:     decimal.NewFromFloat(400),
	})

	budget := models.Budget{
		UserID:     template.UserID,
		Month:      types.NewMonth(2032, time.March),
		TemplateID: &template.ID,
	}
	err := models.InstantiateBudget(models.DB, &budget)
	require.Nil(suite.T(), err)

	line.Amount = decimal.NewFromFloat(450)
	require.Nil(suite.T(), models.DB.Save(&line).Error)

	var envelope models.Envelope
	err = models.DB.Where(&models.Envelope{BudgetID: budget.ID}).First(&envelope).Error
	require.Nil(suite.T(), err)
	assert.True(suite.T(), envelope.Amount.Equal(decimal.NewFromFloat(400)), "Envelope amount changed, got %s", envelope.Amount)
}

func (suite *TestSuiteStandard) TestInstantiateBudgetRollover() {
	tests := []struct {
		name          string
		endingBalance decimal.Decimal
		kind          models.LineKind
	}{
		{"positive balance becomes income", decimal.NewFromFloat(120.50), models.KindIncome},
		{"negative balance becomes expense", decimal.NewFromFloat(-75), models.KindExpense},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			userID := uuid.New()
			previous := suite.createTestBudget(models.Budget{
				UserID:        userID,
				Month:         types.NewMonth(2031, time.December),
				EndingBalance: tt.endingBalance,
			})

			budget := models.Budget{UserID: userID, Month: types.NewMonth(2032, time.January)}
			err := models.InstantiateBudget(models.DB, &budget)
			require.Nil(t, err)

			var rollover models.Envelope
			err = models.DB.Where(&models.Envelope{BudgetID: budget.ID}).First(&rollover).Error
			require.Nil(t, err)

			assert.Equal(t, "rollover_1_2032", rollover.Name)
			assert.True(t, rollover.IsRollover())
			assert.Equal(t, tt.kind, rollover.Kind)
			assert.Equal(t, models.RecurrenceOneOff, rollover.Recurrence)
			assert.True(t, rollover.Amount.Equal(tt.endingBalance.Abs()))
			assert.Nil(t, rollover.TemplateLineID)
			if assert.NotNil(t, rollover.RolloverSourceBudgetID) {
				assert.Equal(t, previous.ID, *rollover.RolloverSourceBudgetID)
			}
		})
	}
}

func (suite *TestSuiteStandard) TestInstantiateBudgetNoRollover() {
	userID := uuid.New()

	_ = suite.createTestBudget(models.Budget{
		UserID: userID,
		Month:  types.NewMonth(2031, time.December),
	})

	budget := models.Budget{UserID: userID, Month: types.NewMonth(2032, time.January)}
	err := models.InstantiateBudget(models.DB, &budget)
	require.Nil(suite.T(), err)

	var count int64
	err = models.DB.Model(&models.Envelope{}).Where("budget_id = ?", budget.ID).Count(&count).Error
	require.Nil(suite.T(), err)
	assert.Zero(suite.T(), count, "A zero ending balance must not create a rollover line")
}

func (suite *TestSuiteStandard) TestRolloverName() {
	assert.Equal(suite.T(), "rollover_12_2025", models.RolloverName(types.NewMonth(2025, time.December)))
	assert.Equal(suite.T(), "rollover_3_2026", models.RolloverName(types.NewMonth(2026, time.March)))

	assert.True(suite.T(), models.IsRolloverName(models.RolloverName(types.NewMonth(2026, time.March))))
}
