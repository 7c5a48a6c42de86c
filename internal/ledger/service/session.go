package service

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/wgesler/rentall-billing/internal/ledger/domain"
	"go.uber.org/zap"
)

// Session holds the editing state for one invoice: the working line
// collection, free-text notes, the dirty baseline and the pending credit
// intent. Both editing screens (reservation invoices and cross-reservation
// billing) drive the same session; they differ only in the header they
// supply. Mutations are synchronous; the only concurrency control is the
// single in-flight submit guard.
type Session struct {
	log      *zap.Logger
	table    *domain.CategoryTable
	resolver domain.CostCodeResolver
	saver    domain.Saver
	credit   domain.CreditResolver

	header       domain.InvoiceHeader
	lines        []domain.LedgerLine
	notes        string
	snapshot     domain.Snapshot
	paymentEntry bool
	creditIntent *domain.CreditTransfer

	submitting atomic.Bool
}

// SubmitResult reports what a submission did.
type SubmitResult struct {
	Action    domain.Action
	InvoiceID *snowflake.ID
	Totals    domain.Totals
}

// Load seeds the session from loaded invoice state: lines are normalized,
// renumbered and baselined so the session starts clean.
func (s *Session) Load(lines []domain.LedgerLine, notes string) {
	s.lines = domain.NormalizeAll(s.table, lines)
	s.notes = notes
	s.relabel()
	s.renumber()
	s.rebaseline()
	s.paymentEntry = false
	s.creditIntent = nil
}

// Header returns the invoice header the session was opened with.
func (s *Session) Header() domain.InvoiceHeader { return s.header }

// Lines returns a copy of the working collection.
func (s *Session) Lines() []domain.LedgerLine {
	out := make([]domain.LedgerLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// Notes returns the free-text notes.
func (s *Session) Notes() string { return s.notes }

// SetNotes replaces the free-text notes.
func (s *Session) SetNotes(notes string) { s.notes = notes }

// Totals recomputes the derived amounts from the current lines.
func (s *Session) Totals() domain.Totals {
	return domain.ComputeTotals(s.table, s.lines)
}

// IsDirty reports whether the current state differs from the baseline.
func (s *Session) IsDirty() bool {
	return domain.IsDirty(s.lines, s.notes, s.snapshot)
}

// Action derives what activating "save" would do right now.
func (s *Session) Action() domain.Action {
	return domain.ResolveAction(s.header.InvoiceID != nil, s.IsDirty(), s.paymentEntry)
}

// AddLine appends an empty new line and returns its index.
func (s *Session) AddLine() int {
	s.lines = append(s.lines, domain.LedgerLine{
		LineNumber: len(s.lines) + 1,
		IsNew:      true,
	})
	return len(s.lines) - 1
}

// RemoveLine deletes the line at index and renumbers the rest.
func (s *Session) RemoveLine(index int) error {
	if index < 0 || index >= len(s.lines) {
		return ErrLineIndex
	}
	s.lines = append(s.lines[:index], s.lines[index+1:]...)
	s.renumber()
	return nil
}

// UpdateAmount sets a line's amount and immediately re-normalizes its sign.
func (s *Session) UpdateAmount(index int, amount decimal.Decimal) error {
	if index < 0 || index >= len(s.lines) {
		return ErrLineIndex
	}
	s.lines[index].Amount = amount
	s.lines[index] = domain.Normalize(s.table, s.lines[index])
	return nil
}

// UpdateDescription sets a line's free-text description.
func (s *Session) UpdateDescription(index int, description string) error {
	if index < 0 || index >= len(s.lines) {
		return ErrLineIndex
	}
	s.lines[index].Description = description
	return nil
}

// ChangeCostCode re-points a line at another cost code. The transaction label
// is re-derived from the new code's type; the user-entered description and
// the amount's magnitude are kept, with only the sign flipped when the
// category changed.
func (s *Session) ChangeCostCode(index int, costCodeID string) error {
	if index < 0 || index >= len(s.lines) {
		return ErrLineIndex
	}
	code, ok := s.resolver.Resolve(costCodeID)
	if !ok {
		return fmt.Errorf("cost code %s: %w", costCodeID, ErrUnknownCostCode)
	}

	line := &s.lines[index]
	tt := code.TransactionTypeID
	line.CostCodeID = code.ID
	line.CostCode = code.Code
	line.TransactionTypeID = &tt
	line.TransactionType = s.table.LabelOf(tt)
	*line = domain.Normalize(s.table, *line)
	return nil
}

// BeginPaymentEntry adds a payment line for the given cost code and switches
// the session into payment-entry mode, which makes the pending action Apply.
// The amount is entered positive by the payer and auto-signed by the
// normalizer.
func (s *Session) BeginPaymentEntry(costCodeID string, amount decimal.Decimal, description string) (int, error) {
	index := s.AddLine()
	if err := s.ChangeCostCode(index, costCodeID); err != nil {
		s.lines = s.lines[:index]
		return 0, err
	}
	s.lines[index].Description = description
	if err := s.UpdateAmount(index, amount); err != nil {
		return 0, err
	}
	s.paymentEntry = true
	return index, nil
}

// Overpayment reports the excess the payment being entered would leave
// unabsorbed: the magnitude of a negative due amount. Only meaningful in
// payment-entry mode; an invoice whose ledger already carries a settled
// overpayment from an earlier transfer does not retrigger. The second result
// is false when there is nothing to carry over.
func (s *Session) Overpayment() (decimal.Decimal, bool) {
	totals := s.Totals()
	if !s.paymentEntry || totals.Due.Sign() >= 0 || !s.hasPaymentLine() {
		return decimal.Zero, false
	}
	return totals.Due.Neg(), true
}

// RequestCreditTransfer records where an overpayment excess should go. While
// the invoice has no id yet this is only an intent; the actual transfer runs
// after a successful save, at most once per save.
func (s *Session) RequestCreditTransfer(destinationReservationID snowflake.ID, destinationInvoiceID *snowflake.ID) {
	s.creditIntent = &domain.CreditTransfer{
		DestinationReservationID: destinationReservationID,
		DestinationInvoiceID:     destinationInvoiceID,
	}
}

// Edit replaces the working lines and notes without touching the baseline.
// This is how a detached caller (the HTTP layer) hands the session the
// user's current edits to diff against the loaded state.
func (s *Session) Edit(lines []domain.LedgerLine, notes string) {
	s.lines = domain.NormalizeAll(s.table, lines)
	s.notes = notes
	s.relabel()
	s.renumber()
}

// MarkPaymentEntry switches the session into payment-entry mode without
// adding a line; used when the payment line already rides along in the
// submitted state.
func (s *Session) MarkPaymentEntry() { s.paymentEntry = true }

// Replace swaps in a regenerated line collection: normalized, renumbered and
// re-baselined, exactly like a fresh load.
func (s *Session) Replace(lines []domain.LedgerLine) {
	s.lines = domain.NormalizeAll(s.table, lines)
	s.relabel()
	s.renumber()
	s.rebaseline()
}

// Clear empties the working collection after a failed generation so no
// half-populated state survives. The baseline is left alone.
func (s *Session) Clear() {
	s.lines = nil
}

// Submit validates, saves and, when an overpayment rode along, resolves the
// credit transfer. The in-flight guard is set before the save call and
// cleared unconditionally. On save failure the lines and baseline are left
// untouched so the edits survive for a retry.
func (s *Session) Submit(ctx context.Context) (SubmitResult, error) {
	if !s.submitting.CompareAndSwap(false, true) {
		return SubmitResult{}, ErrSubmitInFlight
	}
	defer s.submitting.Store(false)

	if len(s.lines) == 0 {
		return SubmitResult{}, domain.ErrNoLines
	}
	if errs := domain.ValidateLines(s.lines); len(errs) > 0 {
		return SubmitResult{}, &ValidationError{Lines: errs}
	}

	action := s.Action()
	totals := s.Totals()
	if action == domain.ActionView {
		// Nothing changed: activation means "proceed", no network call.
		return SubmitResult{Action: action, InvoiceID: s.header.InvoiceID, Totals: totals}, nil
	}

	result, err := s.saver.Save(ctx, s.buildRequest(totals))
	if err != nil {
		return SubmitResult{}, fmt.Errorf("save invoice: %w", err)
	}

	invoiceID := result.InvoiceID
	s.header.InvoiceID = &invoiceID
	s.lines = domain.NormalizeAll(s.table, result.Lines)
	s.renumber()
	s.rebaseline()

	s.log.Info("invoice saved",
		zap.String("invoice_id", invoiceID.String()),
		zap.String("action", string(action)),
		zap.String("due", totals.Due.String()),
	)

	// The credit path runs only for the payment entered this session; the
	// excess is read before payment-entry mode is cleared so a later plain
	// edit of the same invoice never retransfers.
	excess, carry := s.Overpayment()
	s.paymentEntry = false

	submitted := SubmitResult{Action: action, InvoiceID: s.header.InvoiceID, Totals: totals}
	if carry {
		if err := s.resolveCredit(ctx, excess); err != nil {
			// Partial failure: the invoice is saved but the credit is not
			// transferred. Retrying "save" would be a no-op, so this must
			// surface distinctly from a save failure.
			return submitted, err
		}
	}
	return submitted, nil
}

func (s *Session) buildRequest(totals domain.Totals) domain.InvoiceRequest {
	req := domain.InvoiceRequest{
		InvoiceID:      s.header.InvoiceID,
		OrganizationID: s.header.OrganizationID,
		OfficeID:       s.header.OfficeID,
		InvoiceCode:    s.header.InvoiceCode,
		ReservationID:  s.header.ReservationID,
		StartDate:      s.header.StartDate,
		EndDate:        s.header.EndDate,
		InvoiceDate:    s.header.InvoiceDate,
		DueDate:        s.header.DueDate,
		TotalAmount:    totals.Invoiced,
		PaidAmount:     totals.Paid,
		Notes:          s.notes,
		IsActive:       s.header.IsActive,
		LedgerLines:    make([]domain.LedgerLineRequest, 0, len(s.lines)),
	}
	for _, line := range s.lines {
		req.LedgerLines = append(req.LedgerLines, line.ToRequest(s.header.InvoiceID))
	}
	return req
}

func (s *Session) resolveCredit(ctx context.Context, excess decimal.Decimal) error {
	intent := s.creditIntent
	s.creditIntent = nil
	if intent == nil {
		return fmt.Errorf("excess %s has no destination: %w", excess, ErrCreditUnresolved)
	}

	transfer := *intent
	transfer.SourceInvoiceID = s.header.InvoiceID
	transfer.Excess = excess
	if line, ok := s.paymentLine(); ok {
		transfer.CostCodeID = line.CostCodeID
		transfer.Description = line.Description
	}

	if err := s.credit.Resolve(ctx, transfer); err != nil {
		return fmt.Errorf("resolve credit transfer: %w", err)
	}

	s.log.Info("credit transferred",
		zap.String("destination_reservation_id", transfer.DestinationReservationID.String()),
		zap.String("excess", excess.String()),
	)
	return nil
}

func (s *Session) paymentLine() (domain.LedgerLine, bool) {
	for i := len(s.lines) - 1; i >= 0; i-- {
		line := s.lines[i]
		if line.TransactionTypeID != nil && s.table.CategoryOf(*line.TransactionTypeID) == domain.CategoryInflow {
			return line, true
		}
	}
	return domain.LedgerLine{}, false
}

func (s *Session) hasPaymentLine() bool {
	_, ok := s.paymentLine()
	return ok
}

func (s *Session) relabel() {
	for i := range s.lines {
		if s.lines[i].TransactionTypeID != nil {
			s.lines[i].TransactionType = s.table.LabelOf(*s.lines[i].TransactionTypeID)
		}
	}
}

func (s *Session) renumber() {
	for i := range s.lines {
		s.lines[i].LineNumber = i + 1
	}
}

func (s *Session) rebaseline() {
	s.snapshot = domain.TakeSnapshot(s.lines, s.notes)
}
