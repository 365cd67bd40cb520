package models

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")
)

var (
	ErrAmountNegative        = errors.New("amounts must not be negative")
	ErrKindInvalid           = errors.New("kind must be one of income, expense or saving")
	ErrRecurrenceInvalid     = errors.New("recurrence must be one of fixed or one_off")
	ErrBudgetMonthNotUnique  = errors.New("you can not create multiple budgets for the same month")
	ErrRolloverLineImmutable = errors.New("rollover lines are generated from the previous month and can not be changed or deleted")
	ErrGoalAmountNotPositive = errors.New("savings goal amounts must be larger than zero")
	ErrMatchRuleEmpty        = errors.New("the match of a match rule must not be empty")
)

// errorIsNotFound reports whether an error means "no such record",
// either as the raw gorm error or as the user friendly replacement set
// by the query callback.
func errorIsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, ErrResourceNotFound)
}
