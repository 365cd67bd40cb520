// Package propagation applies bulk edits to a template's lines and
// mirrors them into every future budget instantiated from the template.
package propagation

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/budgetloop/backend/internal/ledger"
	"github.com/budgetloop/backend/internal/models"
	"github.com/budgetloop/backend/internal/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Modes of a propagation summary.
const (
	ModeTemplateOnly = "template-only"
	ModePropagate    = "propagate"
)

var (
	ErrTemplateNotFound  = errors.New("there is no template matching your query")
	ErrLineNotInTemplate = errors.New("the operations reference lines that do not belong to the template")
)

// LineCreate is the payload for a new template line.
type LineCreate struct {
	Name          string            `json:"name" binding:"required"`
	Amount        decimal.Decimal   `json:"amount"`
	Kind          models.LineKind   `json:"kind" binding:"required"`
	Recurrence    models.Recurrence `json:"recurrence" binding:"required"`
	SavingsGoalID *uuid.UUID        `json:"savingsGoalId"`
}

func (c LineCreate) line() models.TemplateLine {
	return models.TemplateLine{
		Name:          c.Name,
		Amount:        c.Amount,
		Kind:          c.Kind,
		Recurrence:    c.Recurrence,
		SavingsGoalID: c.SavingsGoalID,
	}
}

// Operations is one batch of template line edits.
type Operations struct {
	Create []LineCreate        `json:"create"`
	Update []models.LineUpdate `json:"update"`
	Delete []uuid.UUID         `json:"delete"`
}

func (o Operations) empty() bool {
	return len(o.Create) == 0 && len(o.Update) == 0 && len(o.Delete) == 0
}

// Summary is the result of one propagation call.
type Summary struct {
	Mode              string      `json:"mode"`
	AffectedBudgetIDs []uuid.UUID `json:"affectedBudgetIds"`
}

// BalanceCalculator derives the ending balance of a budget from its
// envelopes and transactions.
type BalanceCalculator func(envelopes []models.Envelope, transactions []models.Transaction) decimal.Decimal

// Engine orchestrates template line edits and their propagation.
//
// Calls for the same template are serialized so that the
// read-validate-write sequence of one call never interleaves with
// another. Calls for different templates run independently. The lock
// table is shared by all instances, so serialization holds no matter
// how many engines exist.
type Engine struct {
	db        *gorm.DB
	calculate BalanceCalculator
}

// locks holds one mutex per template ID, shared across all engines.
var locks sync.Map

// New returns an Engine using the ledger's ending balance calculation.
func New(db *gorm.DB) *Engine {
	return &Engine{db: db, calculate: ledger.EndingBalance}
}

// NewWithCalculator returns an Engine with a custom balance calculator.
func NewWithCalculator(db *gorm.DB, calculate BalanceCalculator) *Engine {
	return &Engine{db: db, calculate: calculate}
}

func (e *Engine) lock(templateID uuid.UUID) *sync.Mutex {
	mu, _ := locks.LoadOrStore(templateID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Apply validates and applies one batch of template line operations.
//
// Without propagation, only the template itself is touched: lines are
// created, updated and deleted at the template level. No budget is
// read or written in this mode.
//
// With propagation, the operations are mirrored into every future
// budget instantiated from the template in one atomic write, skipping
// manually adjusted envelopes, and the ending balance of every touched
// budget is recalculated afterwards.
//
// Recalculation failures do not abort the remaining budgets; they are
// collected and returned together with the summary of the completed
// write.
func (e *Engine) Apply(userID, templateID uuid.UUID, ops Operations, propagate bool) (Summary, error) {
	mu := e.lock(templateID)
	mu.Lock()
	defer mu.Unlock()

	var template models.Template
	err := e.db.Where(&models.Template{UserID: userID}).First(&template, templateID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, models.ErrResourceNotFound) {
			return Summary{}, ErrTemplateNotFound
		}

		return Summary{}, err
	}

	var lines []models.TemplateLine
	err = e.db.Where(&models.TemplateLine{TemplateID: templateID}).Find(&lines).Error
	if err != nil {
		return Summary{}, err
	}

	ops, err = e.validateOperations(lines, ops)
	if err != nil {
		return Summary{}, err
	}

	creates := make([]models.TemplateLine, 0, len(ops.Create))
	for _, create := range ops.Create {
		creates = append(creates, create.line())
	}

	if !propagate {
		summary := Summary{Mode: ModeTemplateOnly, AffectedBudgetIDs: []uuid.UUID{}}

		if ops.empty() {
			return summary, nil
		}

		// No budget IDs: the write stays within the template.
		_, err = models.ApplyTemplateLineOperations(e.db, templateID, nil, ops.Delete, ops.Update, creates)
		if err != nil {
			return Summary{}, err
		}

		return summary, nil
	}

	summary := Summary{Mode: ModePropagate, AffectedBudgetIDs: []uuid.UUID{}}

	// Nothing to do, skip the write entirely.
	if ops.empty() {
		return summary, nil
	}

	budgetIDs, err := e.futureBudgets(userID, templateID)
	if err != nil {
		return Summary{}, err
	}

	if len(budgetIDs) == 0 {
		log.Debug().
			Str("template", templateID.String()).
			Msg("propagation requested, but no future budgets use the template")
	}

	touched, err := models.ApplyTemplateLineOperations(e.db, templateID, budgetIDs, ops.Delete, ops.Update, creates)
	if err != nil {
		return Summary{}, err
	}

	summary.AffectedBudgetIDs = touched

	return summary, e.RecalculateAll(touched)
}

// validateOperations checks that every line referenced by the update
// and delete sets belongs to the template. Rollover lines are silently
// dropped from the sets, they are synthetic and never editable, even
// when their ID is passed explicitly.
//
// A reference to any other unknown line is a hard failure: operations
// are applied completely or not at all.
func (e *Engine) validateOperations(lines []models.TemplateLine, ops Operations) (Operations, error) {
	members := make(map[uuid.UUID]bool, len(lines))
	for _, line := range lines {
		members[line.ID] = !models.IsRolloverName(line.Name)
	}

	// isRolloverEnvelope reports whether an unknown ID belongs to a
	// rollover envelope. Budgets are only consulted for IDs that
	// failed template membership.
	isRolloverEnvelope := func(id uuid.UUID) bool {
		var envelope models.Envelope
		err := e.db.First(&envelope, id).Error
		return err == nil && envelope.IsRollover()
	}

	filter := func(ids []uuid.UUID) ([]uuid.UUID, error) {
		result := make([]uuid.UUID, 0, len(ids))
		for _, id := range ids {
			editable, ok := members[id]
			if ok && !editable {
				continue
			}

			if !ok {
				if isRolloverEnvelope(id) {
					continue
				}

				return nil, ErrLineNotInTemplate
			}

			result = append(result, id)
		}

		return result, nil
	}

	var err error
	ops.Delete, err = filter(ops.Delete)
	if err != nil {
		return ops, err
	}

	updateIDs := make([]uuid.UUID, 0, len(ops.Update))
	for _, update := range ops.Update {
		updateIDs = append(updateIDs, update.LineID)
	}

	updateIDs, err = filter(updateIDs)
	if err != nil {
		return ops, err
	}

	keep := make(map[uuid.UUID]struct{}, len(updateIDs))
	for _, id := range updateIDs {
		keep[id] = struct{}{}
	}

	updates := make([]models.LineUpdate, 0, len(ops.Update))
	for _, update := range ops.Update {
		if _, ok := keep[update.LineID]; ok {
			updates = append(updates, update)
		}
	}
	ops.Update = updates

	return ops, nil
}

// futureBudgets returns the IDs of the user's budgets for the current
// UTC month and all later months that are linked to the template.
func (e *Engine) futureBudgets(userID, templateID uuid.UUID) ([]uuid.UUID, error) {
	current := types.MonthOf(time.Now())

	var ids []uuid.UUID
	err := e.db.Model(&models.Budget{}).
		Where("user_id = ? AND template_id = ?", userID, templateID).
		Where("month >= ?", current).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}

	return ids, nil
}

// Recalculate re-derives and persists the ending balance of one budget
// from its current envelopes and transactions. It is idempotent.
func (e *Engine) Recalculate(budgetID uuid.UUID) error {
	var envelopes []models.Envelope
	err := e.db.Where(&models.Envelope{BudgetID: budgetID}).Find(&envelopes).Error
	if err != nil {
		return err
	}

	var transactions []models.Transaction
	err = e.db.Where(&models.Transaction{BudgetID: budgetID}).Find(&transactions).Error
	if err != nil {
		return err
	}

	balance := e.calculate(envelopes, transactions)

	return e.db.Model(&models.Budget{}).
		Where("id = ?", budgetID).
		Update("ending_balance", balance).Error
}

// RecalculateAll recalculates the ending balances of the given budgets
// in chronological order, oldest month first. Rollover lines carry a
// prior month's ending balance, so a month must be recalculated before
// any later month reads from it.
//
// A failing budget does not abort the remaining ones. All failures are
// collected and returned as one error.
func (e *Engine) RecalculateAll(budgetIDs []uuid.UUID) error {
	if len(budgetIDs) == 0 {
		return nil
	}

	var budgets []models.Budget
	err := e.db.Where("id IN ?", budgetIDs).Find(&budgets).Error
	if err != nil {
		return err
	}

	sort.SliceStable(budgets, func(i, j int) bool {
		return budgets[i].Month.Before(budgets[j].Month)
	})

	var errs []error
	for _, budget := range budgets {
		if err := e.Recalculate(budget.ID); err != nil {
			log.Error().
				Err(err).
				Str("budget", budget.ID.String()).
				Msg("ending balance recalculation failed")
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
