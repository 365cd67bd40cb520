package v1_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	v1 "github.com/budgetloop/backend/internal/controllers/v1"
	"github.com/budgetloop/backend/internal/models"
	"github.com/budgetloop/backend/internal/propagation"
	"github.com/budgetloop/backend/internal/types"
	"github.com/budgetloop/backend/test"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestTemplatesCreate() {
	userID := uuid.New()

	template := createTestTemplate(suite.T(), userID, v1.TemplateEditable{
		Name: "Standard month",
		Note: "Applies to all months without special expenses",
	})

	assert.Equal(suite.T(), "Standard month", template.Data.Name)
	assert.NotEmpty(suite.T(), template.Data.Links.Apply)
}

func (suite *TestSuiteStandard) TestTemplatesGetSingle() {
	userID := uuid.New()
	template := createTestTemplate(suite.T(), userID, v1.TemplateEditable{Name: "Standard month"})

	r := test.Request(suite.T(), http.MethodGet, template.Data.Links.Self, "", test.IdentityHeader(userID))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	// Templates of other users do not exist for this user.
	r = test.Request(suite.T(), http.MethodGet, template.Data.Links.Self, "", test.IdentityHeader(uuid.New()))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

// TestTemplatesDelete verifies that deleting a template removes its
// lines and unlinks budgets instantiated from it, but keeps the
// budgets and their envelopes.
func (suite *TestSuiteStandard) TestTemplatesDelete() {
	userID := uuid.New()

	template := createTestTemplate(suite.T(), userID, v1.TemplateEditable{Name: "Standard month"})
	_ = createTestTemplateLine(suite.T(), userID, v1.TemplateLineEditable{
		TemplateID: template.Data.ID,
		Name:       "Rent",
		Amount:     decimal.NewFromFloat(950),
	})

	budget := createTestBudget(suite.T(), userID, v1.BudgetEditable{
		Month:      types.NewMonth(2032, time.June),
		TemplateID: &template.Data.ID,
	})

	r := test.Request(suite.T(), http.MethodDelete, template.Data.Links.Self, "", test.IdentityHeader(userID))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, template.Data.Links.Self, "", test.IdentityHeader(userID))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	// The budget survives without its template link.
	r = test.Request(suite.T(), http.MethodGet, budget.Data.Links.Self, "", test.IdentityHeader(userID))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var reloaded v1.BudgetResponse
	test.DecodeResponse(suite.T(), &r, &reloaded)
	assert.Nil(suite.T(), reloaded.Data.TemplateID)

	r = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/envelopes?budget=%s", budget.Data.ID), "", test.IdentityHeader(userID))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var envelopes v1.EnvelopeListResponse
	test.DecodeResponse(suite.T(), &r, &envelopes)
	assert.Len(suite.T(), envelopes.Data, 1, "The budget's envelopes must survive the template deletion")
}

// TestTemplatesApply verifies the apply endpoint in both modes.
func (suite *TestSuiteStandard) TestTemplatesApply() {
	userID := uuid.New()

	template := createTestTemplate(suite.T(), userID, v1.TemplateEditable{Name: "Standard month"})
	line := createTestTemplateLine(suite.T(), userID, v1.TemplateLineEditable{
		TemplateID: template.Data.ID,
		Name:       "Groceries",
		Amount:     decimal.NewFromFloat(400),
	})

	budget := createTestBudget(suite.T(), userID, v1.BudgetEditable{
		Month:      types.NewMonth(2032, time.June),
		TemplateID: &template.Data.ID,
	})

	// Template-only: the line changes, the budget does not.
	r := test.Request(suite.T(), http.MethodPost, template.Data.Links.Apply, v1.TemplateApplyEditable{
		Operations: propagation.Operations{
			Update: []models.LineUpdate{{
				LineID:     line.Data.ID,
				Name:       "Groceries",
				Amount:     decimal.NewFromFloat(450),
				Kind:       models.KindExpense,
				Recurrence: models.RecurrenceFixed,
			}},
		},
	}, test.IdentityHeader(userID))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.TemplateApplyResponse
	test.DecodeResponse(suite.T(), &r, &response)
	require.NotNil(suite.T(), response.Data)
	assert.Equal(suite.T(), propagation.ModeTemplateOnly, response.Data.Mode)
	assert.Empty(suite.T(), response.Data.AffectedBudgetIDs)

	envelope := suite.budgetEnvelope(userID, budget.Data.ID)
	assert.True(suite.T(), envelope.Amount.Equal(decimal.NewFromFloat(400)))

	// Propagate: the future budget is mirrored and its balance updated.
	r = test.Request(suite.T(), http.MethodPost, template.Data.Links.Apply, v1.TemplateApplyEditable{
		PropagateToBudgets: true,
		Operations: propagation.Operations{
			Update: []models.LineUpdate{{
				LineID:     line.Data.ID,
				Name:       "Groceries",
				Amount:     decimal.NewFromFloat(500),
				Kind:       models.KindExpense,
				Recurrence: models.RecurrenceFixed,
			}},
		},
	}, test.IdentityHeader(userID))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	test.DecodeResponse(suite.T(), &r, &response)
	require.NotNil(suite.T(), response.Data)
	assert.Equal(suite.T(), propagation.ModePropagate, response.Data.Mode)
	assert.Equal(suite.T(), []uuid.UUID{budget.Data.ID}, response.Data.AffectedBudgetIDs)

	envelope = suite.budgetEnvelope(userID, budget.Data.ID)
	assert.True(suite.T(), envelope.Amount.Equal(decimal.NewFromFloat(500)))
}

func (suite *TestSuiteStandard) TestTemplatesApplyErrors() {
	userID := uuid.New()
	template := createTestTemplate(suite.T(), userID, v1.TemplateEditable{Name: "Standard month"})

	foreignUser := uuid.New()
	foreignTemplate := createTestTemplate(suite.T(), foreignUser, v1.TemplateEditable{})
	foreignLine := createTestTemplateLine(suite.T(), foreignUser, v1.TemplateLineEditable{
		TemplateID: foreignTemplate.Data.ID,
		Name:       "Foreign",
		Amount:     decimal.NewFromFloat(10),
	})

	tests := []struct {
		name   string
		url    string
		body   v1.TemplateApplyEditable
		status int
	}{
		{
			"Template of another user",
			foreignTemplate.Data.Links.Apply,
			v1.TemplateApplyEditable{},
			http.StatusNotFound,
		},
		{
			"Line of another template",
			template.Data.Links.Apply,
			v1.TemplateApplyEditable{
				Operations: propagation.Operations{Delete: []uuid.UUID{foreignLine.Data.ID}},
			},
			http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, tt.url, tt.body, test.IdentityHeader(userID))
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

// budgetEnvelope returns the single envelope of a budget.
func (suite *TestSuiteStandard) budgetEnvelope(userID, budgetID uuid.UUID) v1.Envelope {
	r := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/envelopes?budget=%s", budgetID), "", test.IdentityHeader(userID))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var list v1.EnvelopeListResponse
	test.DecodeResponse(suite.T(), &r, &list)
	require.Len(suite.T(), list.Data, 1)

	return list.Data[0]
}
