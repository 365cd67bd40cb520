package models

import (
	"fmt"
	"regexp"

	"github.com/budgetloop/backend/internal/types"
)

// rolloverNamePattern matches the synthetic names of rollover lines,
// e.g. "rollover_12_2025" for December 2025.
var rolloverNamePattern = regexp.MustCompile(`^rollover_([1-9]|1[0-2])_(\d{4})$`)

// IsRolloverName reports whether a line name follows the rollover
// naming convention.
func IsRolloverName(name string) bool {
	return rolloverNamePattern.MatchString(name)
}

// RolloverName returns the synthetic name for the rollover line of a month.
func RolloverName(month types.Month) string {
	return fmt.Sprintf("rollover_%d_%d", int(month.Month()), month.Year())
}
