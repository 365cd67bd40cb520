package v1

import (
	"fmt"

	"github.com/budgetloop/backend/internal/models"
	ez_uuid "github.com/budgetloop/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TemplateLineEditable struct {
	TemplateID    uuid.UUID       `json:"templateId" example:"b98e33a4-95cd-4b09-bfa2-a55e34a4e463"`    // ID of the template the line belongs to
	SavingsGoalID *uuid.UUID      `json:"savingsGoalId" example:"2649c965-7999-4873-ae16-89d5d5fa972e"` // ID of the savings goal the line saves towards
	Name          string          `json:"name" example:"Rent"`                                          // Name of the line
	Amount        decimal.Decimal `json:"amount" example:"1500" minimum:"0.00000001" multipleOf:"0.00000001"`
	Kind          models.LineKind `json:"kind" example:"expense"`

	Recurrence models.Recurrence `json:"recurrence" example:"fixed"`
}

// model returns the database resource for the API representation of the editable fields
func (editable TemplateLineEditable) model() models.TemplateLine {
	return models.TemplateLine{
		TemplateID:    editable.TemplateID,
		SavingsGoalID: editable.SavingsGoalID,
		Name:          editable.Name,
		Amount:        editable.Amount,
		Kind:          editable.Kind,
		Recurrence:    editable.Recurrence,
	}
}

type TemplateLineLinks struct {
	Self     string `json:"self" example:"https://example.com/api/v1/template-lines/a3d5c566-1b67-4a5a-95db-4f77e7a05b3f"` // The template line itself
	Template string `json:"template" example:"https://example.com/api/v1/templates/b98e33a4-95cd-4b09-bfa2-a55e34a4e463"`  // The template the line belongs to
}

// TemplateLine is the representation of a TemplateLine in API v1.
type TemplateLine struct {
	models.DefaultModel
	TemplateLineEditable
	Links TemplateLineLinks `json:"links"`
}

// newTemplateLine returns the API v1 representation of the resource
func newTemplateLine(c *gin.Context, model models.TemplateLine) TemplateLine {
	url := c.GetString(string(models.DBContextURL))

	return TemplateLine{
		DefaultModel: model.DefaultModel,
		TemplateLineEditable: TemplateLineEditable{
			TemplateID:    model.TemplateID,
			SavingsGoalID: model.SavingsGoalID,
			Name:          model.Name,
			Amount:        model.Amount,
			Kind:          model.Kind,
			Recurrence:    model.Recurrence,
		},
		Links: TemplateLineLinks{
			Self:     fmt.Sprintf("%s/v1/template-lines/%s", url, model.ID),
			Template: fmt.Sprintf("%s/v1/templates/%s", url, model.TemplateID),
		},
	}
}

type TemplateLineListResponse struct {
	Data       []TemplateLine `json:"data"`                                                          // List of template lines
	Error      *string        `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination    `json:"pagination"`                                                    // Pagination information
}

type TemplateLineCreateResponse struct {
	Error *string                `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []TemplateLineResponse `json:"data"`                                                          // List of created template lines
}

func (t *TemplateLineCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	t.Data = append(t.Data, TemplateLineResponse{Error: &s})

	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type TemplateLineResponse struct {
	Error *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred for this template line
	Data  *TemplateLine `json:"data"`                                                          // The template line data, if creation was successful
}

type TemplateLineQueryFilter struct {
	Name       string            `form:"name" filterField:"false"` // By name
	TemplateID ez_uuid.UUID      `form:"template"`                 // By template
	Kind       models.LineKind   `form:"kind"`                     // By kind
	Recurrence models.Recurrence `form:"recurrence"`               // By recurrence
	Offset     uint              `form:"offset" filterField:"false"`
	Limit      int               `form:"limit" filterField:"false"`
}

func (f TemplateLineQueryFilter) model() models.TemplateLine {
	return models.TemplateLine{
		TemplateID: f.TemplateID.UUID,
		Kind:       f.Kind,
		Recurrence: f.Recurrence,
	}
}
