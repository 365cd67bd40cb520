package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// createBatchSize is the chunk size for bulk inserts. The rows are
// independent, so the size only bounds statement length.
const createBatchSize = 100

// LineUpdate is the normalized update payload for one template line.
type LineUpdate struct {
	LineID     uuid.UUID       `json:"lineId"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Kind       LineKind        `json:"kind"`
	Recurrence Recurrence      `json:"recurrence"`
}

// key normalizes the payload so that identical updates can be batched
// into a single statement.
func (u LineUpdate) key() string {
	return fmt.Sprintf("%s|%s|%s|%s", u.Name, u.Amount.String(), u.Kind, u.Recurrence)
}

// lineUpdateGroup is one normalized payload with all template line IDs
// it applies to.
type lineUpdateGroup struct {
	update  LineUpdate
	lineIDs []uuid.UUID
}

// groupLineUpdates builds the multimap payload -> target line IDs.
// Groups keep the order in which their payload first appeared.
func groupLineUpdates(updates []LineUpdate) []lineUpdateGroup {
	index := make(map[string]int)
	var groups []lineUpdateGroup

	for _, update := range updates {
		k := update.key()
		if i, ok := index[k]; ok {
			groups[i].lineIDs = append(groups[i].lineIDs, update.LineID)
			continue
		}

		index[k] = len(groups)
		groups = append(groups, lineUpdateGroup{update: update, lineIDs: []uuid.UUID{update.LineID}})
	}

	return groups
}

// ApplyTemplateLineOperations applies deletes, updates and creates of
// template lines to the template and mirrors them into the given
// budgets, all within a single database transaction.
//
// Mirrored envelopes are matched by their template line back-reference.
// Envelopes with IsManuallyAdjusted set are never updated, and rollover
// lines can not be matched since they never carry a back-reference.
//
// It returns the IDs of the budgets that were actually mutated. The
// write is all-or-nothing: on error, no change is persisted.
func ApplyTemplateLineOperations(db *gorm.DB, templateID uuid.UUID, budgetIDs []uuid.UUID, deleteIDs []uuid.UUID, updates []LineUpdate, creates []TemplateLine) ([]uuid.UUID, error) {
	touched := make(map[uuid.UUID]struct{})

	err := db.Transaction(func(tx *gorm.DB) error {
		// Hooks are skipped for the bulk statements: the engine has
		// validated the payloads, and gorm would otherwise run the
		// model hooks against an empty receiver.
		bulk := tx.Session(&gorm.Session{SkipHooks: true})

		if len(deleteIDs) > 0 {
			if len(budgetIDs) > 0 {
				var budgets []uuid.UUID
				err := tx.Model(&Envelope{}).
					Where("budget_id IN ? AND template_line_id IN ?", budgetIDs, deleteIDs).
					Distinct().
					Pluck("budget_id", &budgets).Error
				if err != nil {
					return err
				}

				err = bulk.
					Where("budget_id IN ? AND template_line_id IN ?", budgetIDs, deleteIDs).
					Delete(&Envelope{}).Error
				if err != nil {
					return err
				}

				for _, id := range budgets {
					touched[id] = struct{}{}
				}
			}

			err := bulk.
				Where("template_id = ? AND id IN ?", templateID, deleteIDs).
				Delete(&TemplateLine{}).Error
			if err != nil {
				return err
			}
		}

		for _, group := range groupLineUpdates(updates) {
			values := map[string]any{
				"name":       group.update.Name,
				"amount":     group.update.Amount,
				"kind":       group.update.Kind,
				"recurrence": group.update.Recurrence,
				"updated_at": time.Now().In(time.UTC),
			}

			err := bulk.Model(&TemplateLine{}).
				Where("template_id = ? AND id IN ?", templateID, group.lineIDs).
				Updates(values).Error
			if err != nil {
				return err
			}

			if len(budgetIDs) == 0 {
				continue
			}

			var budgets []uuid.UUID
			err = tx.Model(&Envelope{}).
				Where("budget_id IN ? AND template_line_id IN ? AND is_manually_adjusted = ?", budgetIDs, group.lineIDs, false).
				Distinct().
				Pluck("budget_id", &budgets).Error
			if err != nil {
				return err
			}

			err = bulk.Model(&Envelope{}).
				Where("budget_id IN ? AND template_line_id IN ? AND is_manually_adjusted = ?", budgetIDs, group.lineIDs, false).
				Updates(values).Error
			if err != nil {
				return err
			}

			for _, id := range budgets {
				touched[id] = struct{}{}
			}
		}

		if len(creates) > 0 {
			for i := range creates {
				creates[i].TemplateID = templateID
			}

			err := tx.CreateInBatches(&creates, createBatchSize).Error
			if err != nil {
				return err
			}

			var envelopes []Envelope
			for _, budgetID := range budgetIDs {
				for _, line := range creates {
					envelopes = append(envelopes, line.Envelope(budgetID))
				}

				touched[budgetID] = struct{}{}
			}

			if len(envelopes) > 0 {
				err = tx.CreateInBatches(&envelopes, createBatchSize).Error
				if err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(touched))
	for id := range touched {
		ids = append(ids, id)
	}

	return ids, nil
}
