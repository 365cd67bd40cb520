package v1

import (
	"fmt"

	"github.com/budgetloop/backend/internal/models"
	"github.com/budgetloop/backend/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SavingsGoalEditable struct {
	Name         string          `json:"name" example:"Emergency fund"` // Name of the savings goal
	Note         string          `json:"note" example:"Three months of expenses"`
	TargetAmount decimal.Decimal `json:"targetAmount" example:"10000" minimum:"0.00000001" multipleOf:"0.00000001"`
	TargetMonth  types.Month     `json:"targetMonth" example:"2026-12"` // Month the goal should be reached by
	Archived     bool            `json:"archived" example:"false" default:"false"`
}

// model returns the database resource for the API representation of the editable fields
func (editable SavingsGoalEditable) model(userID uuid.UUID) models.SavingsGoal {
	return models.SavingsGoal{
		UserID:       userID,
		Name:         editable.Name,
		Note:         editable.Note,
		TargetAmount: editable.TargetAmount,
		TargetMonth:  editable.TargetMonth,
		Archived:     editable.Archived,
	}
}

type SavingsGoalLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/savings-goals/f9f2e2f4-874e-4539-9e29-d6d2d9ac64f7"` // The savings goal itself
}

// SavingsGoal is the representation of a SavingsGoal in API v1.
type SavingsGoal struct {
	models.DefaultModel
	SavingsGoalEditable
	Saved      decimal.Decimal  `json:"saved" example:"2500"` // Sum of checked transactions counting towards the goal
	Percentage int64            `json:"percentage" example:"25"`
	Links      SavingsGoalLinks `json:"links"`
}

// newSavingsGoal returns the API v1 representation of the resource,
// including the saved progress.
func newSavingsGoal(c *gin.Context, model models.SavingsGoal) (SavingsGoal, error) {
	url := c.GetString(string(models.DBContextURL))

	saved, err := model.Saved()
	if err != nil {
		return SavingsGoal{}, err
	}

	var percentage int64
	if model.TargetAmount.IsPositive() {
		percentage = saved.Div(model.TargetAmount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	}

	return SavingsGoal{
		DefaultModel: model.DefaultModel,
		SavingsGoalEditable: SavingsGoalEditable{
			Name:         model.Name,
			Note:         model.Note,
			TargetAmount: model.TargetAmount,
			TargetMonth:  model.TargetMonth,
			Archived:     model.Archived,
		},
		Saved:      saved,
		Percentage: percentage,
		Links: SavingsGoalLinks{
			Self: fmt.Sprintf("%s/v1/savings-goals/%s", url, model.ID),
		},
	}, nil
}

type SavingsGoalListResponse struct {
	Data       []SavingsGoal `json:"data"`                                                          // List of savings goals
	Error      *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination   `json:"pagination"`                                                    // Pagination information
}

type SavingsGoalCreateResponse struct {
	Error *string               `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []SavingsGoalResponse `json:"data"`                                                          // List of created savings goals
}

func (s *SavingsGoalCreateResponse) appendError(err error, currentStatus int) int {
	e := err.Error()
	s.Data = append(s.Data, SavingsGoalResponse{Error: &e})

	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type SavingsGoalResponse struct {
	Error *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred for this savings goal
	Data  *SavingsGoal `json:"data"`                                                          // The savings goal data, if creation was successful
}

type SavingsGoalQueryFilter struct {
	Name     string `form:"name" filterField:"false"` // By name
	Archived bool   `form:"archived"`                 // Is the goal archived?
	Offset   uint   `form:"offset" filterField:"false"`
	Limit    int    `form:"limit" filterField:"false"`
}

func (f SavingsGoalQueryFilter) model() models.SavingsGoal {
	return models.SavingsGoal{
		Archived: f.Archived,
	}
}
