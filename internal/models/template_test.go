package models_test

import (
	"encoding/json"
	"testing"

	"github.com/budgetloop/backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestTemplateTrimWhitespace() {
	template := suite.createTestTemplate(models.Template{
		Name: "  Standard month ",
		Note: "\tEverything but vacations\n",
	})

	assert.Equal(suite.T(), "Standard month", template.Name)
	assert.Equal(suite.T(), "Everything but vacations", template.Note)
}

func (suite *TestSuiteStandard) TestTemplateLineValidation() {
	template := suite.createTestTemplate(models.Template{})

	tests := []struct {
		name string
		line models.TemplateLine
		err  error
	}{
		{
			"negative amount",
			models.TemplateLine{TemplateID: template.ID, Amount: decimal.NewFromFloat(-500), Kind: models.KindExpense, Recurrence: models.RecurrenceFixed},
			models.ErrAmountNegative,
		},
		{
			"invalid kind",
			models.TemplateLine{TemplateID: template.ID, Amount: decimal.NewFromFloat(500), Kind: "debt", Recurrence: models.RecurrenceFixed},
			models.ErrKindInvalid,
		},
		{
			"invalid recurrence",
			models.TemplateLine{TemplateID: template.ID, Amount: decimal.NewFromFloat(500), Kind: models.KindExpense, Recurrence: "weekly"},
			models.ErrRecurrenceInvalid,
		},
		{
			"valid",
			models.TemplateLine{TemplateID: template.ID, Amount: decimal.NewFromFloat(500), Kind: models.KindSaving, Recurrence: models.RecurrenceOneOff},
			nil,
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			err := models.DB.Create(&tt.line).Error
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func (suite *TestSuiteStandard) TestTemplateLineEnvelope() {
	template := suite.createTestTemplate(models.Template{})
	goal := suite.createTestSavingsGoal(models.SavingsGoal{UserID: template.UserID})

	line := suite.createTestTemplateLine(models.TemplateLine{
		TemplateID:    template.ID,
		SavingsGoalID: &goal.ID,
		Name:          "Emergency fund",
		Amount:        decimal.NewFromFloat(150),
		Kind:          models.KindSaving,
		Recurrence:    models.RecurrenceFixed,
	})

	budgetID := uuid.New()
	envelope := line.Envelope(budgetID)

	assert.Equal(suite.T(), budgetID, envelope.BudgetID)
	if assert.NotNil(suite.T(), envelope.TemplateLineID) {
		assert.Equal(suite.T(), line.ID, *envelope.TemplateLineID)
	}
	assert.Equal(suite.T(), &goal.ID, envelope.SavingsGoalID)
	assert.Equal(suite.T(), "Emergency fund", envelope.Name)
	assert.True(suite.T(), envelope.Amount.Equal(line.Amount))
	assert.Equal(suite.T(), models.KindSaving, envelope.Kind)
	assert.Equal(suite.T(), models.RecurrenceFixed, envelope.Recurrence)
	assert.False(suite.T(), envelope.IsManuallyAdjusted)
}

func (suite *TestSuiteStandard) TestTemplateExport() {
	userID := uuid.New()

	template := suite.createTestTemplate(models.Template{UserID: userID})
	otherTemplate := suite.createTestTemplate(models.Template{})

	_ = suite.createTestTemplateLine(models.TemplateLine{TemplateID: template.ID})
	_ = suite.createTestTemplateLine(models.TemplateLine{TemplateID: template.ID})
	_ = suite.createTestTemplateLine(models.TemplateLine{TemplateID: otherTemplate.ID})

	raw, err := models.Template{}.Export(userID)
	assert.Nil(suite.T(), err)

	var templates []models.Template
	err = json.Unmarshal(raw, &templates)
	assert.Nil(suite.T(), err)
	assert.Len(suite.T(), templates, 1)

	raw, err = models.TemplateLine{}.Export(userID)
	assert.Nil(suite.T(), err)

	var lines []models.TemplateLine
	err = json.Unmarshal(raw, &lines)
	assert.Nil(suite.T(), err)
	assert.Len(suite.T(), lines, 2)
}
