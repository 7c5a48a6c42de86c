package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidateLinesCompleteCollection(t *testing.T) {
	lines := []LedgerLine{
		{CostCodeID: "CC-RENT", TransactionTypeID: typeRef(TransactionTypeCharge), Description: "Monthly rent", Amount: decimal.NewFromInt(1000)},
	}
	assert.Empty(t, ValidateLines(lines))
}

func TestValidateLinesReportsEveryMissingField(t *testing.T) {
	lines := []LedgerLine{
		{CostCodeID: "CC-RENT", TransactionTypeID: typeRef(TransactionTypeCharge), Description: "Rent", Amount: decimal.NewFromInt(1000)},
		{CostCodeID: "", TransactionTypeID: nil, Description: "   ", Amount: decimal.Zero},
	}

	errs := ValidateLines(lines)
	assert.Len(t, errs, 4)
	for _, e := range errs {
		assert.Equal(t, 2, e.Line, "all failures belong to the second line")
	}

	reasons := make([]string, 0, len(errs))
	for _, e := range errs {
		reasons = append(reasons, e.Reason)
	}
	assert.Contains(t, reasons, ReasonMissingCostCode)
	assert.Contains(t, reasons, ReasonMissingTransactionType)
	assert.Contains(t, reasons, ReasonMissingDescription)
	assert.Contains(t, reasons, ReasonZeroAmount)
}

func TestValidateLinesWhitespaceDescriptionIsMissing(t *testing.T) {
	lines := []LedgerLine{
		{CostCodeID: "CC-RENT", TransactionTypeID: typeRef(TransactionTypeCharge), Description: "\t  ", Amount: decimal.NewFromInt(10)},
	}

	errs := ValidateLines(lines)
	assert.Len(t, errs, 1)
	assert.Equal(t, ReasonMissingDescription, errs[0].Reason)
}

func TestValidateLinesNegativeAmountIsComplete(t *testing.T) {
	// Payment lines carry negative amounts; only exactly zero is incomplete.
	lines := []LedgerLine{
		{CostCodeID: "CC-PAY", TransactionTypeID: typeRef(TransactionTypePayment), Description: "Payment received", Amount: decimal.NewFromInt(-700)},
	}
	assert.Empty(t, ValidateLines(lines))
}

func TestIncompleteLineNumbers(t *testing.T) {
	errs := []LineError{
		{Line: 2, Reason: ReasonMissingCostCode},
		{Line: 2, Reason: ReasonZeroAmount},
		{Line: 4, Reason: ReasonMissingDescription},
	}
	assert.Equal(t, []int{2, 4}, IncompleteLineNumbers(errs))
}
