package v1

import (
	"fmt"

	"github.com/budgetloop/backend/internal/ledger"
	"github.com/budgetloop/backend/internal/models"
	"github.com/budgetloop/backend/internal/types"
	ez_uuid "github.com/budgetloop/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BudgetEditable struct {
	Name       string      `json:"name" example:"June"`                                         // Name of the budget
	Note       string      `json:"note" example:"Vacation month" default:""`                    // A longer description
	Month      types.Month `json:"month" example:"2025-06-01T00:00:00Z"`                        // The calendar month the budget is for
	TemplateID *uuid.UUID  `json:"templateId" example:"f3cb3b4f-a4bc-4661-bb11-c34dd6d56a5f"`   // Template to instantiate the budget from. Optional.
}

// model returns the database resource for the API representation of the editable fields
func (editable BudgetEditable) model(userID uuid.UUID) models.Budget {
	return models.Budget{
		UserID:     userID,
		Name:       editable.Name,
		Note:       editable.Note,
		Month:      editable.Month,
		TemplateID: editable.TemplateID,
	}
}

type BudgetLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/budgets/550dc009-cea6-4c12-b2a5-03446eb7b7cf"`                  // The budget itself
	Ledger       string `json:"ledger" example:"https://example.com/api/v1/budgets/550dc009-cea6-4c12-b2a5-03446eb7b7cf/ledger"`         // The display ledger for the budget
	Envelopes    string `json:"envelopes" example:"https://example.com/api/v1/envelopes?budget=550dc009-cea6-4c12-b2a5-03446eb7b7cf"`    // The envelopes of the budget
	Transactions string `json:"transactions" example:"https://example.com/api/v1/transactions?budget=550dc009-cea6-4c12-b2a5-03446eb7b7cf"` // The transactions of the budget
}

// Budget is the representation of a Budget in API v1.
type Budget struct {
	models.DefaultModel
	BudgetEditable
	EndingBalance decimal.Decimal `json:"endingBalance" example:"271.50"` // The persisted ending balance of the budget
	Links         BudgetLinks     `json:"links"`
}

// newBudget returns the API v1 representation of the resource
func newBudget(c *gin.Context, model models.Budget) Budget {
	url := c.GetString(string(models.DBContextURL))

	return Budget{
		DefaultModel: model.DefaultModel,
		BudgetEditable: BudgetEditable{
			Name:       model.Name,
			Note:       model.Note,
			Month:      model.Month,
			TemplateID: model.TemplateID,
		},
		EndingBalance: model.EndingBalance,
		Links: BudgetLinks{
			Self:         fmt.Sprintf("%s/v1/budgets/%s", url, model.ID),
			Ledger:       fmt.Sprintf("%s/v1/budgets/%s/ledger", url, model.ID),
			Envelopes:    fmt.Sprintf("%s/v1/envelopes?budget=%s", url, model.ID),
			Transactions: fmt.Sprintf("%s/v1/transactions?budget=%s", url, model.ID),
		},
	}
}

type BudgetListResponse struct {
	Data       []Budget    `json:"data"`                                                          // List of budgets
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type BudgetCreateResponse struct {
	Error *string          `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []BudgetResponse `json:"data"`                                                          // List of created budgets
}

func (b *BudgetCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	b.Data = append(b.Data, BudgetResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type BudgetResponse struct {
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred for this budget
	Data  *Budget `json:"data"`                                                          // The budget data, if creation was successful
}

type BudgetQueryFilter struct {
	Name       string       `form:"name" filterField:"false"`       // By name
	Note       string       `form:"note" filterField:"false"`       // By note
	Month      types.Month  `form:"month"`                          // By month
	FromMonth  types.Month  `form:"fromMonth" filterField:"false"`  // Budgets for this month and later
	UntilMonth types.Month  `form:"untilMonth" filterField:"false"` // Budgets up to and including this month
	TemplateID ez_uuid.UUID `form:"template" filterField:"false"`   // By the template the budget was instantiated from
	Offset     uint         `form:"offset" filterField:"false"`     // The offset of the first Budget returned. Defaults to 0.
	Limit      int          `form:"limit" filterField:"false"`      // Maximum number of Budgets to return. Defaults to 50.
}

func (f BudgetQueryFilter) model() models.Budget {
	return models.Budget{
		Month: f.Month,
	}
}

type LedgerResponse struct {
	Data  []ledger.Row `json:"data"`                                                          // The rows of the display ledger, in display order
	Error *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}
