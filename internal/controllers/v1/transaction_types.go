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

type TransactionEditable struct {
	BudgetID   uuid.UUID       `json:"budgetId" example:"550dc009-cea6-4c12-b2a5-03446eb7b7cf"`    // ID of the budget the transaction belongs to
	EnvelopeID *uuid.UUID      `json:"envelopeId" example:"2649c965-7999-4873-ae16-89d5d5fa972e"`  // ID of the envelope the transaction is allocated to. Unset for free transactions
	Name       string          `json:"name" example:"Bakery run"`                                  // Name of the transaction
	Amount     decimal.Decimal `json:"amount" example:"14.5" minimum:"0.00000001" multipleOf:"0.00000001"`
	Kind       models.LineKind `json:"kind" example:"expense"`
	Date       time.Time       `json:"date" example:"2025-06-02T00:00:00Z"`             // Date of the transaction. Defaults to the current time
	Category   *string         `json:"category" example:"groceries"`                    // Free-form category label
	CheckedAt  *time.Time      `json:"checkedAt" example:"2025-06-17T20:14:01.048145Z"` // Time the user reconciled the transaction
}

// model returns the database resource for the API representation of the editable fields
func (editable TransactionEditable) model() models.Transaction {
	return models.Transaction{
		BudgetID:   editable.BudgetID,
		EnvelopeID: editable.EnvelopeID,
		Name:       editable.Name,
		Amount:     editable.Amount,
		Kind:       editable.Kind,
		Date:       editable.Date,
		Category:   editable.Category,
		CheckedAt:  editable.CheckedAt,
	}
}

type TransactionLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/transactions/d430d7c3-d14c-4712-9336-ee56965a6673"` // The transaction itself
}

// Transaction is the representation of a Transaction in API v1.
type Transaction struct {
	models.DefaultModel
	TransactionEditable
	Links TransactionLinks `json:"links"`
}

// newTransaction returns the API v1 representation of the resource
func newTransaction(c *gin.Context, model models.Transaction) Transaction {
	url := c.GetString(string(models.DBContextURL))

	return Transaction{
		DefaultModel: model.DefaultModel,
		TransactionEditable: TransactionEditable{
			BudgetID:   model.BudgetID,
			EnvelopeID: model.EnvelopeID,
			Name:       model.Name,
			Amount:     model.Amount,
			Kind:       model.Kind,
			Date:       model.Date,
			Category:   model.Category,
			CheckedAt:  model.CheckedAt,
		},
		Links: TransactionLinks{
			Self: fmt.Sprintf("%s/v1/transactions/%s", url, model.ID),
		},
	}
}

type TransactionListResponse struct {
	Data       []Transaction `json:"data"`                                                          // List of transactions
	Error      *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination   `json:"pagination"`                                                    // Pagination information
}

type TransactionCreateResponse struct {
	Error *string               `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []TransactionResponse `json:"data"`                                                          // List of created transactions
}

func (t *TransactionCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	t.Data = append(t.Data, TransactionResponse{Error: &s})

	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type TransactionResponse struct {
	Error *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred for this transaction
	Data  *Transaction `json:"data"`                                                          // The transaction data, if creation was successful
}

type TransactionQueryFilter struct {
	Name              string          `form:"name" filterField:"false"`              // By name
	BudgetID          ez_uuid.UUID    `form:"budget"`                                // By budget
	EnvelopeID        ez_uuid.UUID    `form:"envelope" filterField:"false"`          // By envelope the transaction is allocated to
	Kind              models.LineKind `form:"kind"`                                  // By kind
	Category          string          `form:"category" filterField:"false"`          // By category
	FromDate          time.Time       `form:"fromDate" filterField:"false"`          // Transactions on this date and later
	UntilDate         time.Time       `form:"untilDate" filterField:"false"`         // Transactions up to and including this date
	AmountLessOrEqual decimal.Decimal `form:"amountLessOrEqual" filterField:"false"` // Amount less than or equal to this
	AmountMoreOrEqual decimal.Decimal `form:"amountMoreOrEqual" filterField:"false"` // Amount more than or equal to this
	Free              bool            `form:"free" filterField:"false"`              // Only transactions not allocated to an envelope
	Offset            uint            `form:"offset" filterField:"false"`
	Limit             int             `form:"limit" filterField:"false"`
}

func (f TransactionQueryFilter) model() models.Transaction {
	return models.Transaction{
		BudgetID: f.BudgetID.UUID,
		Kind:     f.Kind,
	}
}
