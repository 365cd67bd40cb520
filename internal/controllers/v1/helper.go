package v1

import (
	"github.com/budgetloop/backend/internal/models"
	"github.com/budgetloop/backend/internal/propagation"
	ez_uuid "github.com/budgetloop/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// propagationEngine returns an engine bound to the current database
// connection. Engines share one lock table, calls for the same
// template stay serialized across instances.
func propagationEngine() *propagation.Engine {
	return propagation.New(models.DB)
}

// errString returns a pointer to the error message for use in response bodies.
func errString(err error) *string {
	s := err.Error()
	return &s
}

// uuidOrNil converts a bound UUID to the pointer form used by weak
// references, mapping the Nil UUID to nil.
func uuidOrNil(id ez_uuid.UUID) *uuid.UUID {
	if id == ez_uuid.Nil {
		return nil
	}

	value := id.UUID
	return &value
}

// ContextUserID is the context key the identity middleware stores the
// authenticated user's ID under.
const ContextUserID = "userID"

// currentUser returns the ID of the authenticated user.
//
// Authentication itself happens upstream: the fronting proxy
// authenticates the request and passes the user identity in a header
// which the identity middleware parses into the context.
func currentUser(c *gin.Context) (uuid.UUID, error) {
	value, ok := c.Get(ContextUserID)
	if !ok {
		return uuid.Nil, errUserIdentityMissing
	}

	id, ok := value.(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, errUserIdentityMissing
	}

	return id, nil
}

// getUserBudget loads a budget by ID, scoped to the user.
func getUserBudget(userID, id uuid.UUID) (models.Budget, error) {
	var budget models.Budget
	err := models.DB.Where(&models.Budget{UserID: userID}).First(&budget, id).Error
	return budget, err
}

// getUserTemplate loads a template by ID, scoped to the user.
func getUserTemplate(userID, id uuid.UUID) (models.Template, error) {
	var template models.Template
	err := models.DB.Where(&models.Template{UserID: userID}).First(&template, id).Error
	return template, err
}

// getUserEnvelope loads an envelope by ID, scoped to the user via its budget.
func getUserEnvelope(userID, id uuid.UUID) (models.Envelope, error) {
	var envelope models.Envelope
	err := models.DB.
		Joins("JOIN budgets ON budgets.id = envelopes.budget_id").
		Where("budgets.user_id = ?", userID).
		First(&envelope, "envelopes.id = ?", id).Error
	return envelope, err
}

// getUserTransaction loads a transaction by ID, scoped to the user via its budget.
func getUserTransaction(userID, id uuid.UUID) (models.Transaction, error) {
	var transaction models.Transaction
	err := models.DB.
		Joins("JOIN budgets ON budgets.id = transactions.budget_id").
		Where("budgets.user_id = ?", userID).
		First(&transaction, "transactions.id = ?", id).Error
	return transaction, err
}

// getUserTemplateLine loads a template line by ID, scoped to the user via its template.
func getUserTemplateLine(userID, id uuid.UUID) (models.TemplateLine, error) {
	var line models.TemplateLine
	err := models.DB.
		Joins("JOIN templates ON templates.id = template_lines.template_id").
		Where("templates.user_id = ?", userID).
		First(&line, "template_lines.id = ?", id).Error
	return line, err
}

// getUserSavingsGoal loads a savings goal by ID, scoped to the user.
func getUserSavingsGoal(userID, id uuid.UUID) (models.SavingsGoal, error) {
	var goal models.SavingsGoal
	err := models.DB.Where(&models.SavingsGoal{UserID: userID}).First(&goal, id).Error
	return goal, err
}

// getUserMatchRule loads a match rule by ID, scoped to the user.
func getUserMatchRule(userID, id uuid.UUID) (models.MatchRule, error) {
	var rule models.MatchRule
	err := models.DB.Where(&models.MatchRule{UserID: userID}).First(&rule, id).Error
	return rule, err
}
