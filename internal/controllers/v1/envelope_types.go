package v1

import (
	"fmt"
	"time"

	"github.com/budgetloop/backend/internal/models"
	ez_uuid "github.com/budgetloop/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EnvelopeEditable struct {
	BudgetID      uuid.UUID       `json:"budgetId" example:"550dc009-cea6-4c12-b2a5-03446eb7b7cf"`      // ID of the budget owning the envelope
	SavingsGoalID *uuid.UUID      `json:"savingsGoalId" example:"2649c965-7999-4873-ae16-89d5d5fa972e"` // ID of the savings goal the envelope saves towards
	Name          string          `json:"name" example:"Rent"`                                          // Name of the envelope
	Amount        decimal.Decimal `json:"amount" example:"1500" minimum:"0.00000001" multipleOf:"0.00000001"`
	Kind          models.LineKind `json:"kind" example:"expense"`

	Recurrence         models.Recurrence `json:"recurrence" example:"fixed"`
	IsManuallyAdjusted bool              `json:"isManuallyAdjusted" example:"false" default:"false"` // Locks the envelope against template propagation
	CheckedAt          *time.Time        `json:"checkedAt" example:"2025-06-17T20:14:01.048145Z"`    // Time the user reconciled the envelope
}

// model returns the database resource for the API representation of the editable fields
func (editable EnvelopeEditable) model() models.Envelope {
	return models.Envelope{
		BudgetID:           editable.BudgetID,
		SavingsGoalID:      editable.SavingsGoalID,
		Name:               editable.Name,
		Amount:             editable.Amount,
		Kind:               editable.Kind,
		Recurrence:         editable.Recurrence,
		IsManuallyAdjusted: editable.IsManuallyAdjusted,
		CheckedAt:          editable.CheckedAt,
	}
}

type EnvelopeLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/envelopes/45b6b5b9-f746-4ae9-b77b-7688b91f8166"`                     // The envelope itself
	Transactions string `json:"transactions" example:"https://example.com/api/v1/transactions?envelope=45b6b5b9-f746-4ae9-b77b-7688b91f8166"` // The transactions allocated to the envelope
}

// Envelope is the representation of an Envelope in API v1.
type Envelope struct {
	models.DefaultModel
	EnvelopeEditable
	TemplateLineID         *uuid.UUID    `json:"templateLineId"`         // Back-reference to the template line the envelope was instantiated from
	RolloverSourceBudgetID *uuid.UUID    `json:"rolloverSourceBudgetId"` // For rollover lines: the budget the balance was carried over from
	IsRollover             bool          `json:"isRollover"`             // Whether the envelope is a synthetic rollover line
	Links                  EnvelopeLinks `json:"links"`
}

// newEnvelope returns the API v1 representation of the resource
func newEnvelope(c *gin.Context, model models.Envelope) Envelope {
	url := c.GetString(string(models.DBContextURL))

	return Envelope{
		DefaultModel: model.DefaultModel,
		EnvelopeEditable: EnvelopeEditable{
			BudgetID:           model.BudgetID,
			SavingsGoalID:      model.SavingsGoalID,
			Name:               model.Name,
			Amount:             model.Amount,
			Kind:               model.Kind,
			Recurrence:         model.Recurrence,
			IsManuallyAdjusted: model.IsManuallyAdjusted,
			CheckedAt:          model.CheckedAt,
		},
		TemplateLineID:         model.TemplateLineID,
		RolloverSourceBudgetID: model.RolloverSourceBudgetID,
		IsRollover:             model.IsRollover(),
		Links: EnvelopeLinks{
			Self:         fmt.Sprintf("%s/v1/envelopes/%s", url, model.ID),
			Transactions: fmt.Sprintf("%s/v1/transactions?envelope=%s", url, model.ID),
		},
	}
}

type EnvelopeListResponse struct {
	Data       []Envelope  `json:"data"`                                                          // List of envelopes
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type EnvelopeCreateResponse struct {
	Error *string            `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []EnvelopeResponse `json:"data"`                                                          // List of created envelopes
}

func (e *EnvelopeCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	e.Data = append(e.Data, EnvelopeResponse{Error: &s})

	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type EnvelopeResponse struct {
	Error *string   `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred for this envelope
	Data  *Envelope `json:"data"`                                                          // The envelope data, if creation was successful
}

type EnvelopeQueryFilter struct {
	Name               string            `form:"name" filterField:"false"` // By name
	BudgetID           ez_uuid.UUID      `form:"budget"`                   // By budget
	Kind               models.LineKind   `form:"kind"`                     // By kind
	Recurrence         models.Recurrence `form:"recurrence"`               // By recurrence
	IsManuallyAdjusted bool              `form:"isManuallyAdjusted"`       // Whether the envelope is locked against propagation
	Offset             uint              `form:"offset" filterField:"false"`
	Limit              int               `form:"limit" filterField:"false"`
}

func (f EnvelopeQueryFilter) model() models.Envelope {
	return models.Envelope{
		BudgetID:           f.BudgetID.UUID,
		Kind:               f.Kind,
		Recurrence:         f.Recurrence,
		IsManuallyAdjusted: f.IsManuallyAdjusted,
	}
}
