package models

import (
	"gorm.io/gorm"
)

// InstantiateBudget creates a budget and populates it.
//
// If the budget references a template, the template's lines are copied
// as envelopes, each keeping a back-reference to its line. The copy is
// a snapshot: later template edits only reach the budget through
// explicit propagation.
//
// If the user has a budget for the previous month with a non-zero
// ending balance, a rollover line carrying that balance is added. The
// rollover line is synthetic: it is never template-linked and can not
// be edited or deleted.
func InstantiateBudget(db *gorm.DB, budget *Budget) error {
	return db.Transaction(func(tx *gorm.DB) error {
		err := tx.Create(budget).Error
		if err != nil {
			return err
		}

		if budget.TemplateID != nil {
			var lines []TemplateLine
			err = tx.Where(&TemplateLine{TemplateID: *budget.TemplateID}).
				Order("created_at ASC").
				Find(&lines).Error
			if err != nil {
				return err
			}

			envelopes := make([]Envelope, 0, len(lines))
			for _, line := range lines {
				envelopes = append(envelopes, line.Envelope(budget.ID))
			}

			if len(envelopes) > 0 {
				err = tx.CreateInBatches(&envelopes, createBatchSize).Error
				if err != nil {
					return err
				}
			}
		}

		var previous Budget
		err = tx.Where(&Budget{UserID: budget.UserID}).
			Where("month = ?", budget.Month.Previous()).
			First(&previous).Error
		if err != nil {
			if errorIsNotFound(err) {
				return nil
			}

			return err
		}

		if previous.EndingBalance.IsZero() {
			return nil
		}

		kind := KindIncome
		if previous.EndingBalance.IsNegative() {
			kind = KindExpense
		}

		sourceID := previous.ID
		rollover := Envelope{
			BudgetID:               budget.ID,
			RolloverSourceBudgetID: &sourceID,
			Name:                   RolloverName(budget.Month),
			Amount:                 previous.EndingBalance.Abs(),
			Kind:                   kind,
			Recurrence:             RecurrenceOneOff,
		}

		return tx.Create(&rollover).Error
	})
}
