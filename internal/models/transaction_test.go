package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/budgetloop/backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestTransactionTrimWhitespace() {
	budget := suite.createTestBudget(models.Budget{})

	transaction := suite.createTestTransaction(models.Transaction{
		BudgetID: budget.ID,
		Name:     " Groceries\t",
		Amount:   decimal.NewFromFloat(17.23),
	})

	assert.Equal(suite.T(), "Groceries", transaction.Name)
}

func (suite *TestSuiteStandard) TestTransactionDateDefaultsToNow() {
	budget := suite.createTestBudget(models.Budget{})

	transaction := suite.createTestTransaction(models.Transaction{
		BudgetID: budget.ID,
		Amount:   decimal.NewFromFloat(1),
	})

	assert.False(suite.T(), transaction.Date.IsZero(), "Transaction without a date should get one set")
	assert.WithinDuration(suite.T(), time.Now(), transaction.Date, time.Minute)
}

func (suite *TestSuiteStandard) TestTransactionDateUTC() {
	budget := suite.createTestBudget(models.Budget{})

	tz, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		suite.T().Skipf("could not load time zone: %s", err)
	}

	transaction := suite.createTestTransaction(models.Transaction{
		BudgetID: budget.ID,
		Amount:   decimal.NewFromFloat(1),
		Date:     time.Date(2026, 3, 17, 14, 0, 0, 0, tz),
	})

	assert.Equal(suite.T(), time.UTC, transaction.Date.Location())

	var reloaded models.Transaction
	err = models.DB.First(&reloaded, transaction.ID).Error
	assert.Nil(suite.T(), err)
	assert.Equal(suite.T(), time.UTC, reloaded.Date.Location())
	assert.True(suite.T(), reloaded.Date.Equal(transaction.Date))
}

func (suite *TestSuiteStandard) TestTransactionValidation() {
	budget := suite.createTestBudget(models.Budget{})

	tests := []struct {
		name        string
		transaction models.Transaction
		err         error
	}{
		{
			"negative amount",
			models.Transaction{BudgetID: budget.ID, Amount: decimal.NewFromFloat(-1), Kind: models.KindExpense},
			models.ErrAmountNegative,
		},
		{
			"invalid kind",
			models.Transaction{BudgetID: budget.ID, Amount: decimal.NewFromFloat(1), Kind: "subscription"},
			models.ErrKindInvalid,
		},
		{
			"valid",
			models.Transaction{BudgetID: budget.ID, Amount: decimal.NewFromFloat(1), Kind: models.KindIncome},
			nil,
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			err := models.DB.Create(&tt.transaction).Error
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func (suite *TestSuiteStandard) TestTransactionExport() {
	userID := uuid.New()
	budget := suite.createTestBudget(models.Budget{UserID: userID})
	otherBudget := suite.createTestBudget(models.Budget{})

	_ = suite.createTestTransaction(models.Transaction{BudgetID: budget.ID, Amount: decimal.NewFromFloat(10)})
	_ = suite.createTestTransaction(models.Transaction{BudgetID: budget.ID, Amount: decimal.NewFromFloat(20)})
	_ = suite.createTestTransaction(models.Transaction{BudgetID: otherBudget.ID, Amount: decimal.NewFromFloat(30)})

	raw, err := models.Transaction{}.Export(userID)
	assert.Nil(suite.T(), err)

	var transactions []models.Transaction
	err = json.Unmarshal(raw, &transactions)
	assert.Nil(suite.T(), err)
	assert.Len(suite.T(), transactions, 2)
}
