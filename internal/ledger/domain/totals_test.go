package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeTotalsIdentity(t *testing.T) {
	table := NewCategoryTable()

	lines := []LedgerLine{
		{TransactionTypeID: typeRef(TransactionTypeCharge), Amount: decimal.NewFromInt(300)},
		{TransactionTypeID: typeRef(TransactionTypeDeposit), Amount: decimal.NewFromInt(200)},
		{TransactionTypeID: typeRef(TransactionTypePayment), Amount: decimal.NewFromInt(-150)},
	}

	totals := ComputeTotals(table, lines)
	assert.True(t, totals.Invoiced.Equal(decimal.NewFromInt(500)))
	assert.True(t, totals.Paid.Equal(decimal.NewFromInt(150)))
	assert.True(t, totals.Due.Equal(totals.Invoiced.Sub(totals.Paid)))
	assert.True(t, totals.Due.Equal(decimal.NewFromInt(350)))
}

func TestComputeTotalsEmptyCollection(t *testing.T) {
	totals := ComputeTotals(NewCategoryTable(), nil)
	assert.True(t, totals.Invoiced.IsZero())
	assert.True(t, totals.Paid.IsZero())
	assert.True(t, totals.Due.IsZero())
}

func TestComputeTotalsOverpaymentGoesNegative(t *testing.T) {
	table := NewCategoryTable()

	lines := []LedgerLine{
		{TransactionTypeID: typeRef(TransactionTypeCharge), Amount: decimal.NewFromInt(500)},
		{TransactionTypeID: typeRef(TransactionTypePayment), Amount: decimal.NewFromInt(-700)},
	}

	totals := ComputeTotals(table, lines)
	assert.True(t, totals.Paid.Equal(decimal.NewFromInt(700)))
	assert.True(t, totals.Due.Equal(decimal.NewFromInt(-200)), "due must not be floored at zero")
}

func TestComputeTotalsSkipsUntypedLines(t *testing.T) {
	table := NewCategoryTable()

	lines := []LedgerLine{
		{Amount: decimal.NewFromInt(999)},
		{TransactionTypeID: typeRef(TransactionTypeCharge), Amount: decimal.NewFromInt(100)},
	}

	totals := ComputeTotals(table, lines)
	assert.True(t, totals.Invoiced.Equal(decimal.NewFromInt(100)))
}
