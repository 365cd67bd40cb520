package v1

import (
	"fmt"

	"github.com/budgetloop/backend/internal/models"
	"github.com/budgetloop/backend/internal/propagation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TemplateEditable struct {
	Name string `json:"name" example:"Standard month"` // Name of the template
	Note string `json:"note" example:"Applies to all months without special expenses"`
}

// model returns the database resource for the API representation of the editable fields
func (editable TemplateEditable) model(userID uuid.UUID) models.Template {
	return models.Template{
		UserID: userID,
		Name:   editable.Name,
		Note:   editable.Note,
	}
}

type TemplateLinks struct {
	Self    string `json:"self" example:"https://example.com/api/v1/templates/b98e33a4-95cd-4b09-bfa2-a55e34a4e463"`              // The template itself
	Lines   string `json:"lines" example:"https://example.com/api/v1/template-lines?template=b98e33a4-95cd-4b09-bfa2-a55e34a4e463"` // The lines of the template
	Budgets string `json:"budgets" example:"https://example.com/api/v1/budgets?template=b98e33a4-95cd-4b09-bfa2-a55e34a4e463"`      // The budgets instantiated from the template
	Apply   string `json:"apply" example:"https://example.com/api/v1/templates/b98e33a4-95cd-4b09-bfa2-a55e34a4e463/lines/apply"`   // Applies line operations, optionally propagating them to future budgets
}

// Template is the representation of a Template in API v1.
type Template struct {
	models.DefaultModel
	TemplateEditable
	Links TemplateLinks `json:"links"`
}

// newTemplate returns the API v1 representation of the resource
func newTemplate(c *gin.Context, model models.Template) Template {
	url := c.GetString(string(models.DBContextURL))

	return Template{
		DefaultModel: model.DefaultModel,
		TemplateEditable: TemplateEditable{
			Name: model.Name,
			Note: model.Note,
		},
		Links: TemplateLinks{
			Self:    fmt.Sprintf("%s/v1/templates/%s", url, model.ID),
			Lines:   fmt.Sprintf("%s/v1/template-lines?template=%s", url, model.ID),
			Budgets: fmt.Sprintf("%s/v1/budgets?template=%s", url, model.ID),
			Apply:   fmt.Sprintf("%s/v1/templates/%s/lines/apply", url, model.ID),
		},
	}
}

type TemplateListResponse struct {
	Data       []Template  `json:"data"`                                                          // List of templates
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type TemplateCreateResponse struct {
	Error *string            `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []TemplateResponse `json:"data"`                                                          // List of created templates
}

func (t *TemplateCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	t.Data = append(t.Data, TemplateResponse{Error: &s})

	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type TemplateResponse struct {
	Error *string   `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred for this template
	Data  *Template `json:"data"`                                                          // The template data, if creation was successful
}

type TemplateQueryFilter struct {
	Name   string `form:"name" filterField:"false"` // By name
	Note   string `form:"note" filterField:"false"` // By note
	Offset uint   `form:"offset" filterField:"false"`
	Limit  int    `form:"limit" filterField:"false"`
}

// TemplateApplyEditable is the payload of a template line batch edit.
type TemplateApplyEditable struct {
	PropagateToBudgets bool                   `json:"propagateToBudgets" example:"true" default:"false"` // Mirror the operations into future budgets using the template
	Operations         propagation.Operations `json:"operations"`
}

type TemplateApplyResponse struct {
	Error *string              `json:"error" example:"the operations reference lines that do not belong to the template"` // The error, if any occurred
	Data  *propagation.Summary `json:"data"`                                                                              // Mode and affected budgets of the completed apply
}
