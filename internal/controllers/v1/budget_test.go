package v1_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	v1 "github.com/budgetloop/backend/internal/controllers/v1"
	"github.com/budgetloop/backend/internal/models"
	"github.com/budgetloop/backend/internal/types"
	"github.com/budgetloop/backend/test"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBudgetsIdentityRequired verifies that requests without the
// identity header set by the fronting proxy are rejected.
func (suite *TestSuiteStandard) TestBudgetsIdentityRequired() {
	tests := []struct {
		name   string
		method string
		url    string
	}{
		{"List", http.MethodGet, "http://example.com/v1/budgets"},
		{"Create", http.MethodPost, "http://example.com/v1/budgets"},
		{"Get", http.MethodGet, fmt.Sprintf("http://example.com/v1/budgets/%s", uuid.New())},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, tt.method, tt.url, "")
			test.AssertHTTPStatus(t, &r, http.StatusUnauthorized)
		})
	}
}

func (suite *TestSuiteStandard) TestBudgetsCreate() {
	userID := uuid.New()

	budget := createTestBudget(suite.T(), userID, v1.BudgetEditable{
		Name:  "June",
		Month: types.NewMonth(2032, time.June),
	})

	assert.Equal(suite.T(), "June", budget.Data.Name)
	assert.NotEmpty(suite.T(), budget.Data.Links.Ledger)

	// A second budget for the same month is rejected.
	_ = createTestBudget(suite.T(), userID, v1.BudgetEditable{
		Month: types.NewMonth(2032, time.June),
	}, http.StatusBadRequest)

	// Another user can use the same month.
	_ = createTestBudget(suite.T(), uuid.New(), v1.BudgetEditable{
		Month: types.NewMonth(2032, time.June),
	})
}

// TestBudgetsCreateFromTemplate verifies that a budget referencing a
// template is populated with the template's lines.
func (suite *TestSuiteStandard) TestBudgetsCreateFromTemplate() {
	userID := uuid.New()

	template := createTestTemplate(suite.T(), userID, v1.TemplateEditable{Name: "Standard month"})
	_ = createTestTemplateLine(suite.T(), userID, v1.TemplateLineEditable{
		TemplateID: template.Data.ID,
		Name:       "Rent",
		Amount:     decimal.NewFromFloat(950),
	})

	budget := createTestBudget(suite.T(), userID, v1.BudgetEditable{
		Month:      types.NewMonth(2032, time.July),
		TemplateID: &template.Data.ID,
	})

	r := test.Request(suite.T(), http.MethodGet, budget.Data.Links.Envelopes, "", test.IdentityHeader(userID))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var envelopes v1.EnvelopeListResponse
	test.DecodeResponse(suite.T(), &r, &envelopes)

	require.Len(suite.T(), envelopes.Data, 1)
	assert.Equal(suite.T(), "Rent", envelopes.Data[0].Name)

	// A template of another user can not be instantiated.
	foreign := createTestTemplate(suite.T(), uuid.New(), v1.TemplateEditable{})
	_ = createTestBudget(suite.T(), userID, v1.BudgetEditable{
		Month:      types.NewMonth(2032, time.August),
		TemplateID: &foreign.Data.ID,
	}, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestBudgetsGetSingle() {
	userID := uuid.New()
	budget := createTestBudget(suite.T(), userID, v1.BudgetEditable{Month: types.NewMonth(2032, time.June)})

	tests := []struct {
		name   string
		id     string
		status int
	}{
		{"Existing budget", budget.Data.ID.String(), http.StatusOK},
		{"No budget with this ID", uuid.New().String(), http.StatusNotFound},
		{"Invalid ID", "notaUUID", http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/budgets/%s", tt.id), "", test.IdentityHeader(userID))
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}

	// Budgets of other users do not exist for this user.
	r := test.Request(suite.T(), http.MethodGet, budget.Data.Links.Self, "", test.IdentityHeader(uuid.New()))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestBudgetsGetFiltered() {
	userID := uuid.New()

	_ = createTestBudget(suite.T(), userID, v1.BudgetEditable{Month: types.NewMonth(2032, time.January)})
	_ = createTestBudget(suite.T(), userID, v1.BudgetEditable{Month: types.NewMonth(2032, time.February)})
	_ = createTestBudget(suite.T(), userID, v1.BudgetEditable{Month: types.NewMonth(2032, time.March)})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"All", "", 3},
		{"Single month", "month=2032-02", 1},
		{"From month", "fromMonth=2032-02", 2},
		{"Until month", "untilMonth=2032-02", 2},
		{"Range", "fromMonth=2032-02&untilMonth=2032-02", 1},
		{"Limit", "limit=2", 2},
		{"Offset", "offset=2", 1},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/budgets?%s", tt.query), "", test.IdentityHeader(userID))
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.BudgetListResponse
			test.DecodeResponse(t, &r, &response)
			assert.Len(t, response.Data, tt.len)
		})
	}
}

func (suite *TestSuiteStandard) TestBudgetsUpdate() {
	userID := uuid.New()
	budget := createTestBudget(suite.T(), userID, v1.BudgetEditable{Month: types.NewMonth(2032, time.June)})

	r := test.Request(suite.T(), http.MethodPatch, budget.Data.Links.Self, map[string]any{
		"name": "Renamed",
	}, test.IdentityHeader(userID))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var updated v1.BudgetResponse
	test.DecodeResponse(suite.T(), &r, &updated)
	assert.Equal(suite.T(), "Renamed", updated.Data.Name)
}

// TestBudgetsLedger verifies the display ledger of a budget: grouping,
// running balances and the editing marker.
func (suite *TestSuiteStandard) TestBudgetsLedger() {
	userID := uuid.New()
	budget := createTestBudget(suite.T(), userID, v1.BudgetEditable{Month: types.NewMonth(2032, time.June)})

	salary := createTestEnvelope(suite.T(), userID, v1.EnvelopeEditable{
		BudgetID: budget.Data.ID,
		Name:     "Salary",
		Amount:   decimal.NewFromFloat(1000),
		Kind:     models.KindIncome,
	})
	groceries := createTestEnvelope(suite.T(), userID, v1.EnvelopeEditable{
		BudgetID: budget.Data.ID,
		Name:     "Groceries",
		Amount:   decimal.NewFromFloat(400),
	})
	_ = createTestTransaction(suite.T(), userID, v1.TransactionEditable{
		BudgetID:   budget.Data.ID,
		EnvelopeID: &groceries.Data.ID,
		Name:       "REWE",
		Amount:     decimal.NewFromFloat(53.12),
	})

	r := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("%s?editing=%s", budget.Data.Links.Ledger, salary.Data.ID), "", test.IdentityHeader(userID))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.LedgerResponse
	test.DecodeResponse(suite.T(), &r, &response)
	require.Len(suite.T(), response.Data, 3)

	assert.Equal(suite.T(), "Salary", response.Data[0].Envelope.Name)
	assert.True(suite.T(), response.Data[0].Editing)
	assert.True(suite.T(), response.Data[0].Balance.Equal(decimal.NewFromInt(1000)))

	assert.Equal(suite.T(), "Groceries", response.Data[1].Envelope.Name)
	assert.True(suite.T(), response.Data[1].Balance.Equal(decimal.NewFromInt(600)))

	assert.Equal(suite.T(), "REWE", response.Data[2].Transaction.Name)
	assert.True(suite.T(), response.Data[2].Balance.Equal(decimal.NewFromInt(600)), "Allocated transactions must not move the balance")
}

func (suite *TestSuiteStandard) TestBudgetsRecalculate() {
	userID := uuid.New()
	budget := createTestBudget(suite.T(), userID, v1.BudgetEditable{Month: types.NewMonth(2032, time.June)})

	_ = createTestEnvelope(suite.T(), userID, v1.EnvelopeEditable{
		BudgetID: budget.Data.ID,
		Name:     "Salary",
		Amount:   decimal.NewFromFloat(1000),
		Kind:     models.KindIncome,
	})

	r := test.Request(suite.T(), http.MethodPost, fmt.Sprintf("%s/recalculate", budget.Data.Links.Self), "", test.IdentityHeader(userID))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.BudgetResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.True(suite.T(), response.Data.EndingBalance.Equal(decimal.NewFromInt(1000)), "Ending balance is %s, should be 1000", response.Data.EndingBalance)
}

// TestBudgetsNoDelete verifies that budgets can not be deleted. The
// rollover chain of later months depends on them.
func (suite *TestSuiteStandard) TestBudgetsNoDelete() {
	userID := uuid.New()
	budget := createTestBudget(suite.T(), userID, v1.BudgetEditable{Month: types.NewMonth(2032, time.June)})

	r := test.Request(suite.T(), http.MethodDelete, budget.Data.Links.Self, "", test.IdentityHeader(userID))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusMethodNotAllowed)
}
