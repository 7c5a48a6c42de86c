package service

import (
	"errors"

	"github.com/wgesler/rentall-billing/internal/ledger/domain"
)

var (
	// ErrSubmitInFlight means a save is already running for this session.
	ErrSubmitInFlight = errors.New("submit_in_flight")

	// ErrLineIndex means a line operation referenced a position that does
	// not exist.
	ErrLineIndex = errors.New("line_index_out_of_range")

	// ErrUnknownCostCode means the catalog has no entry for the requested id.
	ErrUnknownCostCode = errors.New("unknown_cost_code")

	// ErrCreditUnresolved marks the partial-failure state: the invoice was
	// saved but the overpayment excess was not carried anywhere. It needs
	// manual follow-up, not a save retry.
	ErrCreditUnresolved = errors.New("credit_unresolved")
)

// ValidationError refuses a submission because of incomplete lines. The
// offending 1-based line numbers are surfaced to the caller; no network call
// was made.
type ValidationError struct {
	Lines []domain.LineError
}

func (e *ValidationError) Error() string { return "incomplete ledger lines" }

// LineNumbers returns the distinct offending line numbers.
func (e *ValidationError) LineNumbers() []int {
	return domain.IncompleteLineNumbers(e.Lines)
}
