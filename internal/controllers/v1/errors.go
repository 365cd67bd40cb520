package v1

import (
	"errors"
	"net/http"

	"github.com/budgetloop/backend/internal/models"
	"github.com/budgetloop/backend/internal/propagation"
)

type httpError struct {
	Error string `json:"error" example:"An ID specified in the query string was not a valid UUID"`
}

// status returns the appropriate HTTP status for an error.
func status(err error) int {
	if errors.Is(err, errUserIdentityMissing) {
		return http.StatusUnauthorized
	}

	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) || errors.Is(err, propagation.ErrTemplateNotFound) ||
		errors.Is(err, errBudgetNotOwned) || errors.Is(err, errTemplateNotOwned) {
		return http.StatusNotFound
	}

	return http.StatusBadRequest
}

var (
	errUserIdentityMissing = errors.New("the request did not contain a user identity")
	errBudgetNotOwned      = errors.New("there is no budget matching your query")
	errTemplateNotOwned    = errors.New("there is no template matching your query")
	errEnvelopeNotInBudget = errors.New("the envelope does not belong to the transaction's budget")
)
