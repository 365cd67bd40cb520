package v1

import (
	"fmt"

	"github.com/budgetloop/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MatchRuleEditable struct {
	Priority     uint   `json:"priority" example:"2"`         // Lower number, higher priority. The first matching rule wins
	Match        string `json:"match" example:"Bank*"`        // Glob pattern tested against the transaction name
	EnvelopeName string `json:"envelopeName" example:"Fees"`  // Name of the envelope to allocate to, resolved within the transaction's budget
}

// model returns the database resource for the API representation of the editable fields
func (editable MatchRuleEditable) model(userID uuid.UUID) models.MatchRule {
	return models.MatchRule{
		UserID:       userID,
		Priority:     editable.Priority,
		Match:        editable.Match,
		EnvelopeName: editable.EnvelopeName,
	}
}

type MatchRuleLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/match-rules/95685c82-53c6-455d-b235-f49960b73b54"` // The match rule itself
}

// MatchRule is the representation of a MatchRule in API v1.
type MatchRule struct {
	models.DefaultModel
	MatchRuleEditable
	Links MatchRuleLinks `json:"links"`
}

// newMatchRule returns the API v1 representation of the resource
func newMatchRule(c *gin.Context, model models.MatchRule) MatchRule {
	url := c.GetString(string(models.DBContextURL))

	return MatchRule{
		DefaultModel: model.DefaultModel,
		MatchRuleEditable: MatchRuleEditable{
			Priority:     model.Priority,
			Match:        model.Match,
			EnvelopeName: model.EnvelopeName,
		},
		Links: MatchRuleLinks{
			Self: fmt.Sprintf("%s/v1/match-rules/%s", url, model.ID),
		},
	}
}

type MatchRuleListResponse struct {
	Data       []MatchRule `json:"data"`                                                          // List of match rules
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type MatchRuleCreateResponse struct {
	Error *string             `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []MatchRuleResponse `json:"data"`                                                          // List of created match rules
}

func (m *MatchRuleCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	m.Data = append(m.Data, MatchRuleResponse{Error: &s})

	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type MatchRuleResponse struct {
	Error *string    `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred for this match rule
	Data  *MatchRule `json:"data"`                                                          // The match rule data, if creation was successful
}

type MatchRuleQueryFilter struct {
	Match        string `form:"match" filterField:"false"`        // By match pattern
	EnvelopeName string `form:"envelopeName" filterField:"false"` // By envelope name
	Offset       uint   `form:"offset" filterField:"false"`
	Limit        int    `form:"limit" filterField:"false"`
}
