package domain

import (
	"errors"
	"strings"
)

// ErrNoLines is returned when a submission carries an empty line collection.
var ErrNoLines = errors.New("at_least_one_line_required")

// Completeness reasons reported per incomplete line.
const (
	ReasonMissingCostCode        = "missing_cost_code"
	ReasonMissingTransactionType = "missing_transaction_type"
	ReasonMissingDescription     = "missing_description"
	ReasonZeroAmount             = "zero_amount"
)

// LineError reports one incomplete line. Line is 1-based, matching what the
// screens surface to the user.
type LineError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// ValidateLines checks each line has the four required fields: a transaction
// type, a cost-code reference, a non-empty trimmed description and a non-zero
// amount. It runs at submission time only. An empty result means the
// collection is submittable.
func ValidateLines(lines []LedgerLine) []LineError {
	var result []LineError
	for i, line := range lines {
		number := i + 1
		if line.TransactionTypeID == nil {
			result = append(result, LineError{Line: number, Reason: ReasonMissingTransactionType})
		}
		if strings.TrimSpace(line.CostCodeID) == "" {
			result = append(result, LineError{Line: number, Reason: ReasonMissingCostCode})
		}
		if strings.TrimSpace(line.Description) == "" {
			result = append(result, LineError{Line: number, Reason: ReasonMissingDescription})
		}
		if line.Amount.IsZero() {
			result = append(result, LineError{Line: number, Reason: ReasonZeroAmount})
		}
	}
	return result
}

// IncompleteLineNumbers collapses validation results to the distinct 1-based
// line numbers, in order.
func IncompleteLineNumbers(errs []LineError) []int {
	var numbers []int
	seen := map[int]bool{}
	for _, e := range errs {
		if !seen[e.Line] {
			seen[e.Line] = true
			numbers = append(numbers, e.Line)
		}
	}
	return numbers
}
