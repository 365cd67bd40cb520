package v1_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	v1 "github.com/budgetloop/backend/internal/controllers/v1"
	"github.com/budgetloop/backend/internal/types"
	"github.com/budgetloop/backend/test"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestTemplateLinesCreate() {
	userID := uuid.New()
	template := createTestTemplate(suite.T(), userID, v1.TemplateEditable{Name: "Standard month"})

	line := createTestTemplateLine(suite.T(), userID, v1.TemplateLineEditable{
		TemplateID: template.Data.ID,
		Name:       "Rent",
		Amount:     decimal.NewFromFloat(950),
	})

	assert.Equal(suite.T(), "Rent", line.Data.Name)
	assert.Equal(suite.T(), template.Data.Links.Self, line.Data.Links.Template)

	// The template must belong to the user.
	_ = createTestTemplateLine(suite.T(), uuid.New(), v1.TemplateLineEditable{
		TemplateID: template.Data.ID,
		Name:       "Sneaky",
		Amount:     decimal.NewFromFloat(1),
	}, http.StatusNotFound)
}

// TestTemplateLinesWriteOnlyTouchesTemplate verifies that direct line
// edits do not reach budgets instantiated from the template.
func (suite *TestSuiteStandard) TestTemplateLinesWriteOnlyTouchesTemplate() {
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

	r := test.Request(suite.T(), http.MethodPatch, line.Data.Links.Self, map[string]any{
		"amount": "450",
	}, test.IdentityHeader(userID))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	envelope := suite.budgetEnvelope(userID, budget.Data.ID)
	assert.True(suite.T(), envelope.Amount.Equal(decimal.NewFromFloat(400)), "Direct line edits must not propagate")
}

func (suite *TestSuiteStandard) TestTemplateLinesGetFiltered() {
	userID := uuid.New()

	template := createTestTemplate(suite.T(), userID, v1.TemplateEditable{Name: "Standard month"})
	other := createTestTemplate(suite.T(), userID, v1.TemplateEditable{Name: "Vacation month"})

	_ = createTestTemplateLine(suite.T(), userID, v1.TemplateLineEditable{TemplateID: template.Data.ID, Name: "Rent", Amount: decimal.NewFromFloat(950)})
	_ = createTestTemplateLine(suite.T(), userID, v1.TemplateLineEditable{TemplateID: template.Data.ID, Name: "Groceries", Amount: decimal.NewFromFloat(400)})
	_ = createTestTemplateLine(suite.T(), userID, v1.TemplateLineEditable{TemplateID: other.Data.ID, Name: "Hotel", Amount: decimal.NewFromFloat(1200)})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"All", "", 3},
		{"By template", fmt.Sprintf("template=%s", template.Data.ID), 2},
		{"By name", "name=Hotel", 1},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/template-lines?%s", tt.query), "", test.IdentityHeader(userID))
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.TemplateLineListResponse
			test.DecodeResponse(t, &r, &response)
			assert.Len(t, response.Data, tt.len)
		})
	}
}

func (suite *TestSuiteStandard) TestTemplateLinesDelete() {
	userID := uuid.New()
	template := createTestTemplate(suite.T(), userID, v1.TemplateEditable{Name: "Standard month"})

	line := createTestTemplateLine(suite.T(), userID, v1.TemplateLineEditable{
		TemplateID: template.Data.ID,
		Name:       "Rent",
		Amount:     decimal.NewFromFloat(950),
	})

	r := test.Request(suite.T(), http.MethodDelete, line.Data.Links.Self, "", test.IdentityHeader(userID))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, line.Data.Links.Self, "", test.IdentityHeader(userID))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}
