package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/wgesler/rentall-billing/internal/ledger/domain"
	"go.uber.org/zap"
)

type mockSaver struct{ mock.Mock }

func (m *mockSaver) Save(ctx context.Context, req domain.InvoiceRequest) (domain.SaveResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.SaveResult), args.Error(1)
}

type mockCredit struct{ mock.Mock }

func (m *mockCredit) Resolve(ctx context.Context, transfer domain.CreditTransfer) error {
	return m.Called(ctx, transfer).Error(0)
}

type stubCatalog map[string]domain.CostCode

func (c stubCatalog) Resolve(costCodeID string) (domain.CostCode, bool) {
	code, ok := c[costCodeID]
	return code, ok
}

func testCatalog() stubCatalog {
	return stubCatalog{
		"cc-rent": {ID: "cc-rent", Code: "RENT", TransactionTypeID: domain.TransactionTypeCharge},
		"cc-dep":  {ID: "cc-dep", Code: "DEP", TransactionTypeID: domain.TransactionTypeDeposit},
		"cc-pay":  {ID: "cc-pay", Code: "PAY", TransactionTypeID: domain.TransactionTypePayment},
	}
}

func testFactory(saver domain.Saver, credit domain.CreditResolver) *Factory {
	return NewFactory(Params{
		Log:    zap.NewNop(),
		Table:  domain.NewCategoryTable(),
		Saver:  saver,
		Credit: credit,
	})
}

func idRef(v int64) *snowflake.ID {
	id := snowflake.ID(v)
	return &id
}

func typeRef(tt domain.TransactionType) *domain.TransactionType { return &tt }

func addHeader() domain.InvoiceHeader {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return domain.InvoiceHeader{
		OrganizationID: snowflake.ID(10),
		OfficeID:       snowflake.ID(20),
		InvoiceCode:    "INV-2026-001",
		ReservationID:  idRef(30),
		StartDate:      now,
		EndDate:        now.AddDate(0, 1, 0),
		InvoiceDate:    now,
		DueDate:        now.AddDate(0, 0, 14),
		IsActive:       true,
	}
}

func editHeader(invoiceID int64) domain.InvoiceHeader {
	h := addHeader()
	h.InvoiceID = idRef(invoiceID)
	return h
}

func storedLine(id int64, costCodeID string, tt domain.TransactionType, desc string, amount int64) domain.LedgerLine {
	return domain.LedgerLine{
		LedgerLineID:      idRef(id),
		CostCodeID:        costCodeID,
		TransactionTypeID: typeRef(tt),
		Description:       desc,
		Amount:            decimal.NewFromInt(amount),
	}
}

func TestSubmitCreatePersistsAndRebaselines(t *testing.T) {
	saver := &mockSaver{}
	credit := &mockCredit{}
	session := testFactory(saver, credit).Open(addHeader(), testCatalog())

	index := session.AddLine()
	assert.NoError(t, session.ChangeCostCode(index, "cc-rent"))
	assert.NoError(t, session.UpdateDescription(index, "Monthly rent"))
	assert.NoError(t, session.UpdateAmount(index, decimal.NewFromInt(1000)))
	assert.Equal(t, domain.ActionCreate, session.Action())

	var captured domain.InvoiceRequest
	saver.On("Save", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { captured = args.Get(1).(domain.InvoiceRequest) }).
		Return(domain.SaveResult{
			InvoiceID: snowflake.ID(100),
			Lines:     []domain.LedgerLine{storedLine(1, "cc-rent", domain.TransactionTypeCharge, "Monthly rent", 1000)},
		}, nil)

	result, err := session.Submit(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, domain.ActionCreate, result.Action)
	assert.Equal(t, snowflake.ID(100), *result.InvoiceID)
	assert.True(t, result.Totals.Invoiced.Equal(decimal.NewFromInt(1000)))

	assert.Nil(t, captured.InvoiceID)
	assert.True(t, captured.TotalAmount.Equal(decimal.NewFromInt(1000)))
	assert.True(t, captured.PaidAmount.IsZero())
	assert.Len(t, captured.LedgerLines, 1)
	assert.Equal(t, 1, captured.LedgerLines[0].LineNumber)

	// The persisted result became the new baseline.
	assert.False(t, session.IsDirty())
	assert.Equal(t, domain.ActionView, session.Action())
	saver.AssertExpectations(t)
}

func TestSubmitRefusesEmptyCollection(t *testing.T) {
	saver := &mockSaver{}
	session := testFactory(saver, &mockCredit{}).Open(addHeader(), testCatalog())

	_, err := session.Submit(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoLines)
	saver.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSubmitBlockedOnIncompleteLines(t *testing.T) {
	saver := &mockSaver{}
	session := testFactory(saver, &mockCredit{}).Open(addHeader(), testCatalog())

	first := session.AddLine()
	assert.NoError(t, session.ChangeCostCode(first, "cc-rent"))
	assert.NoError(t, session.UpdateDescription(first, "Rent"))
	assert.NoError(t, session.UpdateAmount(first, decimal.NewFromInt(500)))

	second := session.AddLine()
	assert.NoError(t, session.ChangeCostCode(second, "cc-dep"))
	assert.NoError(t, session.UpdateAmount(second, decimal.NewFromInt(200)))
	// Description left empty on the second line.

	_, err := session.Submit(context.Background())
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, []int{2}, verr.LineNumbers())
	saver.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSubmitViewIsLocalOnly(t *testing.T) {
	saver := &mockSaver{}
	session := testFactory(saver, &mockCredit{}).Open(editHeader(100), testCatalog())
	session.Load([]domain.LedgerLine{storedLine(1, "cc-rent", domain.TransactionTypeCharge, "Rent", 1000)}, "")

	assert.Equal(t, domain.ActionView, session.Action())
	result, err := session.Submit(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, domain.ActionView, result.Action)
	saver.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSubmitSaveFailureKeepsEdits(t *testing.T) {
	saver := &mockSaver{}
	session := testFactory(saver, &mockCredit{}).Open(editHeader(100), testCatalog())
	session.Load([]domain.LedgerLine{storedLine(1, "cc-rent", domain.TransactionTypeCharge, "Rent", 1000)}, "")
	assert.NoError(t, session.UpdateAmount(0, decimal.NewFromInt(1100)))

	saver.On("Save", mock.Anything, mock.Anything).
		Return(domain.SaveResult{}, errors.New("connection reset"))

	_, err := session.Submit(context.Background())
	assert.Error(t, err)
	assert.True(t, session.IsDirty(), "edits must survive a failed save for retry")
	assert.True(t, session.Lines()[0].Amount.Equal(decimal.NewFromInt(1100)))
}

func TestPaymentEntryOverpaymentTransfersCredit(t *testing.T) {
	saver := &mockSaver{}
	credit := &mockCredit{}
	session := testFactory(saver, credit).Open(editHeader(100), testCatalog())
	session.Load([]domain.LedgerLine{storedLine(1, "cc-rent", domain.TransactionTypeCharge, "Rent", 500)}, "")

	_, err := session.BeginPaymentEntry("cc-pay", decimal.NewFromInt(700), "Payment received")
	assert.NoError(t, err)
	assert.Equal(t, domain.ActionApply, session.Action())

	// The payer entered 700 positive; the normalizer signed it.
	lines := session.Lines()
	assert.True(t, lines[1].Amount.Equal(decimal.NewFromInt(-700)))

	excess, ok := session.Overpayment()
	assert.True(t, ok)
	assert.True(t, excess.Equal(decimal.NewFromInt(200)))

	session.RequestCreditTransfer(snowflake.ID(55), nil)

	saver.On("Save", mock.Anything, mock.Anything).Return(domain.SaveResult{
		InvoiceID: snowflake.ID(100),
		Lines: []domain.LedgerLine{
			storedLine(1, "cc-rent", domain.TransactionTypeCharge, "Rent", 500),
			storedLine(2, "cc-pay", domain.TransactionTypePayment, "Payment received", -700),
		},
	}, nil)

	var transferred domain.CreditTransfer
	credit.On("Resolve", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { transferred = args.Get(1).(domain.CreditTransfer) }).
		Return(nil)

	result, err := session.Submit(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, domain.ActionApply, result.Action)
	assert.True(t, result.Totals.Due.Equal(decimal.NewFromInt(-200)))

	assert.Equal(t, snowflake.ID(55), transferred.DestinationReservationID)
	assert.True(t, transferred.Excess.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, snowflake.ID(100), *transferred.SourceInvoiceID)
	assert.Equal(t, "cc-pay", transferred.CostCodeID)
	credit.AssertNumberOfCalls(t, "Resolve", 1)
}

func TestOverpaymentWithoutDestinationIsPartialFailure(t *testing.T) {
	saver := &mockSaver{}
	credit := &mockCredit{}
	session := testFactory(saver, credit).Open(editHeader(100), testCatalog())
	session.Load([]domain.LedgerLine{storedLine(1, "cc-rent", domain.TransactionTypeCharge, "Rent", 500)}, "")

	_, err := session.BeginPaymentEntry("cc-pay", decimal.NewFromInt(700), "Payment received")
	assert.NoError(t, err)

	saver.On("Save", mock.Anything, mock.Anything).Return(domain.SaveResult{
		InvoiceID: snowflake.ID(100),
		Lines: []domain.LedgerLine{
			storedLine(1, "cc-rent", domain.TransactionTypeCharge, "Rent", 500),
			storedLine(2, "cc-pay", domain.TransactionTypePayment, "Payment received", -700),
		},
	}, nil)

	result, err := session.Submit(context.Background())
	assert.ErrorIs(t, err, ErrCreditUnresolved)
	// The save itself succeeded; the result must still carry the invoice id.
	assert.NotNil(t, result.InvoiceID)
	credit.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
}

func TestCreditResolverFailureSurfacesAfterSave(t *testing.T) {
	saver := &mockSaver{}
	credit := &mockCredit{}
	session := testFactory(saver, credit).Open(editHeader(100), testCatalog())
	session.Load([]domain.LedgerLine{storedLine(1, "cc-rent", domain.TransactionTypeCharge, "Rent", 500)}, "")

	_, err := session.BeginPaymentEntry("cc-pay", decimal.NewFromInt(700), "Payment received")
	assert.NoError(t, err)
	session.RequestCreditTransfer(snowflake.ID(55), nil)

	saver.On("Save", mock.Anything, mock.Anything).Return(domain.SaveResult{
		InvoiceID: snowflake.ID(100),
		Lines: []domain.LedgerLine{
			storedLine(1, "cc-rent", domain.TransactionTypeCharge, "Rent", 500),
			storedLine(2, "cc-pay", domain.TransactionTypePayment, "Payment received", -700),
		},
	}, nil)
	credit.On("Resolve", mock.Anything, mock.Anything).Return(errors.New("reservation gone"))

	result, err := session.Submit(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCreditUnresolved)
	assert.NotNil(t, result.InvoiceID)
}

func TestModifyOverpaidInvoiceSubmitsCleanly(t *testing.T) {
	saver := &mockSaver{}
	credit := &mockCredit{}
	session := testFactory(saver, credit).Open(editHeader(100), testCatalog())

	// The ledger already carries a settled overpayment from an earlier
	// transfer: due is negative without any payment being entered now.
	session.Load([]domain.LedgerLine{
		storedLine(1, "cc-rent", domain.TransactionTypeCharge, "Rent", 500),
		storedLine(2, "cc-pay", domain.TransactionTypePayment, "Payment received", -700),
	}, "")

	excess, ok := session.Overpayment()
	assert.False(t, ok, "a settled overpayment must not read as carryable")
	assert.True(t, excess.IsZero())

	assert.NoError(t, session.UpdateDescription(0, "Rent, corrected"))
	assert.Equal(t, domain.ActionModify, session.Action())

	saver.On("Save", mock.Anything, mock.Anything).Return(domain.SaveResult{
		InvoiceID: snowflake.ID(100),
		Lines: []domain.LedgerLine{
			storedLine(1, "cc-rent", domain.TransactionTypeCharge, "Rent, corrected", 500),
			storedLine(2, "cc-pay", domain.TransactionTypePayment, "Payment received", -700),
		},
	}, nil)

	result, err := session.Submit(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, domain.ActionModify, result.Action)
	assert.True(t, result.Totals.Due.Equal(decimal.NewFromInt(-200)))
	credit.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
}

func TestSubmitSingleFlight(t *testing.T) {
	saver := &mockSaver{}
	session := testFactory(saver, &mockCredit{}).Open(addHeader(), testCatalog())

	index := session.AddLine()
	assert.NoError(t, session.ChangeCostCode(index, "cc-rent"))
	assert.NoError(t, session.UpdateDescription(index, "Rent"))
	assert.NoError(t, session.UpdateAmount(index, decimal.NewFromInt(500)))

	entered := make(chan struct{})
	release := make(chan struct{})
	saver.On("Save", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(domain.SaveResult{
			InvoiceID: snowflake.ID(100),
			Lines:     []domain.LedgerLine{storedLine(1, "cc-rent", domain.TransactionTypeCharge, "Rent", 500)},
		}, nil)

	done := make(chan error, 1)
	go func() {
		_, err := session.Submit(context.Background())
		done <- err
	}()

	<-entered
	_, err := session.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmitInFlight)

	close(release)
	assert.NoError(t, <-done)
	saver.AssertNumberOfCalls(t, "Save", 1)
}

func TestChangeCostCodeFlipsSignKeepsDescription(t *testing.T) {
	session := testFactory(&mockSaver{}, &mockCredit{}).Open(addHeader(), testCatalog())

	index := session.AddLine()
	assert.NoError(t, session.ChangeCostCode(index, "cc-rent"))
	assert.NoError(t, session.UpdateDescription(index, "Entered by hand"))
	assert.NoError(t, session.UpdateAmount(index, decimal.NewFromInt(250)))

	assert.NoError(t, session.ChangeCostCode(index, "cc-pay"))
	line := session.Lines()[index]
	assert.Equal(t, "Entered by hand", line.Description)
	assert.Equal(t, "Payment", line.TransactionType)
	assert.True(t, line.Amount.Equal(decimal.NewFromInt(-250)))

	assert.ErrorIs(t, session.ChangeCostCode(index, "cc-missing"), ErrUnknownCostCode)
}

func TestRemoveLineRenumbers(t *testing.T) {
	session := testFactory(&mockSaver{}, &mockCredit{}).Open(addHeader(), testCatalog())
	session.AddLine()
	session.AddLine()
	session.AddLine()

	assert.NoError(t, session.RemoveLine(1))
	lines := session.Lines()
	assert.Len(t, lines, 2)
	assert.Equal(t, 1, lines[0].LineNumber)
	assert.Equal(t, 2, lines[1].LineNumber)

	assert.ErrorIs(t, session.RemoveLine(5), ErrLineIndex)
}

func TestReplaceAndClear(t *testing.T) {
	session := testFactory(&mockSaver{}, &mockCredit{}).Open(editHeader(100), testCatalog())
	session.Load([]domain.LedgerLine{storedLine(1, "cc-rent", domain.TransactionTypeCharge, "Rent", 500)}, "")

	session.Replace([]domain.LedgerLine{
		{CostCodeID: "cc-rent", TransactionTypeID: typeRef(domain.TransactionTypeCharge), Description: "Rent March", Amount: decimal.NewFromInt(500)},
		{CostCodeID: "cc-dep", TransactionTypeID: typeRef(domain.TransactionTypeDeposit), Description: "Deposit", Amount: decimal.NewFromInt(200)},
	})
	assert.Len(t, session.Lines(), 2)
	assert.False(t, session.IsDirty(), "a regenerated collection is the new baseline")
	assert.Equal(t, "Charge", session.Lines()[0].TransactionType)

	session.Clear()
	assert.Empty(t, session.Lines())
	assert.True(t, session.IsDirty(), "clearing diverges from the baseline")
}
