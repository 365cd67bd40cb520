package models_test

import (
	"testing"

	"github.com/budgetloop/backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestEnvelopeValidation() {
	budget := suite.createTestBudget(models.Budget{})

	tests := []struct {
		name     string
		envelope models.Envelope
		err      error
	}{
		{
			"negative amount",
			models.Envelope{BudgetID: budget.ID, Name: "Rent", Amount: decimal.NewFromInt(-1), Kind: models.KindExpense, Recurrence: models.RecurrenceFixed},
			models.ErrAmountNegative,
		},
		{
			"invalid kind",
			models.Envelope{BudgetID: budget.ID, Name: "Rent", Kind: "weird", Recurrence: models.RecurrenceFixed},
			models.ErrKindInvalid,
		},
		{
			"invalid recurrence",
			models.Envelope{BudgetID: budget.ID, Name: "Rent", Kind: models.KindExpense, Recurrence: "sometimes"},
			models.ErrRecurrenceInvalid,
		},
		{
			"valid",
			models.Envelope{BudgetID: budget.ID, Name: "Rent", Amount: decimal.NewFromInt(1500), Kind: models.KindExpense, Recurrence: models.RecurrenceFixed},
			nil,
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			err := models.DB.Create(&tt.envelope).Error
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func (suite *TestSuiteStandard) TestEnvelopeIsRollover() {
	tests := []struct {
		name     string
		rollover bool
	}{
		{"rollover_1_2026", true},
		{"rollover_12_2025", true},
		{"Rent", false},
		{"rollover_13_2025", false},
		{"rollover_0_2025", false},
		{"rollover_1_26", false},
		{"my rollover_1_2026", false},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			envelope := models.Envelope{Name: tt.name}
			assert.Equal(t, tt.rollover, envelope.IsRollover())
		})
	}
}

func (suite *TestSuiteStandard) TestEnvelopeRolloverImmutable() {
	t := suite.T()

	budget := suite.createTestBudget(models.Budget{})
	rollover := suite.createTestEnvelope(models.Envelope{
		BudgetID:   budget.ID,
		Name:       "rollover_1_2032",
		Amount:     decimal.NewFromInt(120),
		Kind:       models.KindIncome,
		Recurrence: models.RecurrenceOneOff,
	})

	err := models.DB.Model(&rollover).Updates(models.Envelope{Amount: decimal.NewFromInt(1)}).Error
	require.ErrorIs(t, err, models.ErrRolloverLineImmutable)

	err = models.DB.Delete(&rollover).Error
	require.ErrorIs(t, err, models.ErrRolloverLineImmutable)

	// The line is untouched
	var reloaded models.Envelope
	require.NoError(t, models.DB.First(&reloaded, rollover.ID).Error)
	assert.True(t, reloaded.Amount.Equal(decimal.NewFromInt(120)))
}

func (suite *TestSuiteStandard) TestEnvelopeManualAdjustmentFlag() {
	t := suite.T()

	budget := suite.createTestBudget(models.Budget{})
	envelope := suite.createTestEnvelope(models.Envelope{BudgetID: budget.ID, Amount: decimal.NewFromInt(100)})

	err := models.DB.Model(&envelope).Select("IsManuallyAdjusted", "Amount").
		Updates(models.Envelope{IsManuallyAdjusted: true, Amount: decimal.NewFromInt(120)}).Error
	require.NoError(t, err)

	var reloaded models.Envelope
	require.NoError(t, models.DB.First(&reloaded, envelope.ID).Error)
	assert.True(t, reloaded.IsManuallyAdjusted)
	assert.True(t, reloaded.Amount.Equal(decimal.NewFromInt(120)))
}
