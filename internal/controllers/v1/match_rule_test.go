package v1_test

import (
	"net/http"

	v1 "github.com/budgetloop/backend/internal/controllers/v1"
	"github.com/budgetloop/backend/test"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestMatchRulesCreate() {
	userID := uuid.New()

	rule := createTestMatchRule(suite.T(), userID, v1.MatchRuleEditable{
		Priority:     2,
		Match:        "Bank*",
		EnvelopeName: "Fees",
	})

	assert.Equal(suite.T(), "Bank*", rule.Data.Match)

	// An empty match pattern is rejected.
	_ = createTestMatchRule(suite.T(), userID, v1.MatchRuleEditable{
		Match:        "  ",
		EnvelopeName: "Fees",
	}, http.StatusBadRequest)
}

// TestMatchRulesList verifies that rules are returned in evaluation
// order: priority first, then match pattern.
func (suite *TestSuiteStandard) TestMatchRulesList() {
	userID := uuid.New()

	_ = createTestMatchRule(suite.T(), userID, v1.MatchRuleEditable{Priority: 10, Match: "*", EnvelopeName: "Everything else"})
	_ = createTestMatchRule(suite.T(), userID, v1.MatchRuleEditable{Priority: 1, Match: "REWE*", EnvelopeName: "Groceries"})
	_ = createTestMatchRule(suite.T(), userID, v1.MatchRuleEditable{Priority: 1, Match: "Edeka*", EnvelopeName: "Groceries"})

	// Rules of other users are not returned.
	_ = createTestMatchRule(suite.T(), uuid.New(), v1.MatchRuleEditable{Match: "*", EnvelopeName: "Other"})

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/match-rules", "", test.IdentityHeader(userID))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.MatchRuleListResponse
	test.DecodeResponse(suite.T(), &r, &response)
	require.Len(suite.T(), response.Data, 3)

	assert.Equal(suite.T(), "Edeka*", response.Data[0].Match)
	assert.Equal(suite.T(), "REWE*", response.Data[1].Match)
	assert.Equal(suite.T(), "*", response.Data[2].Match)
}

func (suite *TestSuiteStandard) TestMatchRulesUpdateDelete() {
	userID := uuid.New()

	rule := createTestMatchRule(suite.T(), userID, v1.MatchRuleEditable{
		Match:        "Bank*",
		EnvelopeName: "Fees",
	})

	r := test.Request(suite.T(), http.MethodPatch, rule.Data.Links.Self, map[string]any{
		"priority": 5,
	}, test.IdentityHeader(userID))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var updated v1.MatchRuleResponse
	test.DecodeResponse(suite.T(), &r, &updated)
	assert.EqualValues(suite.T(), 5, updated.Data.Priority)

	r = test.Request(suite.T(), http.MethodDelete, rule.Data.Links.Self, "", test.IdentityHeader(userID))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, rule.Data.Links.Self, "", test.IdentityHeader(userID))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}
