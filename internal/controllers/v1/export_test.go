package v1_test

import (
	"encoding/json"
	"net/http"
	"time"

	v1 "github.com/budgetloop/backend/internal/controllers/v1"
	"github.com/budgetloop/backend/internal/types"
	"github.com/budgetloop/backend/test"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestExport() {
	userID := uuid.New()

	budget := createTestBudget(suite.T(), userID, v1.BudgetEditable{Month: types.NewMonth(2032, time.June)})
	_ = createTestEnvelope(suite.T(), userID, v1.EnvelopeEditable{
		BudgetID: budget.Data.ID,
		Name:     "Groceries",
		Amount:   decimal.NewFromFloat(400),
	})

	// Resources of other users are not part of the export.
	_ = createTestBudget(suite.T(), uuid.New(), v1.BudgetEditable{Month: types.NewMonth(2032, time.June)})

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/export", "", test.IdentityHeader(userID))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.ExportResponse
	test.DecodeResponse(suite.T(), &r, &response)

	assert.Equal(suite.T(), "1", response.Version)
	assert.Equal(suite.T(), "GNU Terry Pratchett", response.Clacks)
	assert.False(suite.T(), response.CreationTime.IsZero())

	for _, key := range []string{"budgets", "envelopes", "transactions", "templates", "templateLines", "savingsGoals", "matchRules"} {
		assert.Contains(suite.T(), response.Data, key)
	}

	var budgets []v1.BudgetEditable
	require.Nil(suite.T(), json.Unmarshal(response.Data["budgets"], &budgets))
	assert.Len(suite.T(), budgets, 1)

	var envelopes []v1.EnvelopeEditable
	require.Nil(suite.T(), json.Unmarshal(response.Data["envelopes"], &envelopes))
	assert.Len(suite.T(), envelopes, 1)
}

func (suite *TestSuiteStandard) TestExportIdentityRequired() {
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/export", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusUnauthorized)
}
