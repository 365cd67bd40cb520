package models_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/budgetloop/backend/internal/models"
	"github.com/budgetloop/backend/internal/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestBudgetTrimWhitespace() {
	name := " Take this, whitespace!\t"
	note := "\t And this as well. "

	budget := suite.createTestBudget(models.Budget{
		Name: name,
		Note: note,
	})

	assert.Equal(suite.T(), strings.TrimSpace(name), budget.Name)
	assert.Equal(suite.T(), strings.TrimSpace(note), budget.Note)
}

func (suite *TestSuiteStandard) TestBudgetMonthUniquePerUser() {
	t := suite.T()

	userID := uuid.New()
	month := types.NewMonth(2026, time.March)

	suite.createTestBudget(models.Budget{UserID: userID, Month: month})

	// The same month for the same user must be rejected
	duplicate := models.Budget{UserID: userID, Month: month}
	err := models.DB.Create(&duplicate).Error
	require.ErrorIs(t, err, models.ErrBudgetMonthNotUnique)

	// The same month for another user is fine
	other := models.Budget{UserID: uuid.New(), Month: month}
	err = models.DB.Create(&other).Error
	require.NoError(t, err)
}

func (suite *TestSuiteStandard) TestBudgetIsFuture() {
	reference := types.NewMonth(2026, time.June)

	tests := []struct {
		name   string
		month  types.Month
		future bool
	}{
		{"past month", types.NewMonth(2026, time.May), false},
		{"current month", types.NewMonth(2026, time.June), true},
		{"future month", types.NewMonth(2026, time.July), true},
		{"next year", types.NewMonth(2027, time.January), true},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			budget := models.Budget{Month: tt.month}
			assert.Equal(t, tt.future, budget.IsFuture(reference))
		})
	}
}

func (suite *TestSuiteStandard) TestBudgetExport() {
	t := suite.T()

	userID := uuid.New()
	suite.createTestBudget(models.Budget{UserID: userID, Month: types.NewMonth(2026, time.January)})
	suite.createTestBudget(models.Budget{UserID: userID, Month: types.NewMonth(2026, time.February)})

	// Another user's budget must not be exported
	suite.createTestBudget(models.Budget{Month: types.NewMonth(2026, time.January)})

	raw, err := models.Budget{}.Export(userID)
	require.NoError(t, err)

	var budgets []models.Budget
	require.NoError(t, json.Unmarshal(raw, &budgets))
	assert.Len(t, budgets, 2)
}
