// Package domain contains the reconciliation core's working types: display
// ledger lines, totals, snapshots, and the transaction category table.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// LedgerLine is the display/editing form of one charge or payment entry.
// LedgerLineID stays nil until the line has been persisted; TransactionTypeID
// stays nil until a cost code has been chosen.
type LedgerLine struct {
	LedgerLineID      *snowflake.ID
	LineNumber        int
	CostCodeID        string
	CostCode          string
	TransactionType   string
	TransactionTypeID *TransactionType
	Description       string
	Amount            decimal.Decimal
	IsNew             bool
}

// Totals are the derived invoice amounts. Due may be negative: an overpayment
// is a meaningful result the credit transfer resolver inspects.
type Totals struct {
	Invoiced decimal.Decimal
	Paid     decimal.Decimal
	Due      decimal.Decimal
}

// SnapshotLine is the value copy of the fields compared for dirtiness.
type SnapshotLine struct {
	LedgerLineID      *snowflake.ID
	CostCodeID        string
	TransactionTypeID *TransactionType
	Description       string
	Amount            decimal.Decimal
}

// Snapshot is the baseline captured at load or regeneration time. It is used
// only for comparison and never shown.
type Snapshot struct {
	Lines []SnapshotLine
	Notes string
}

// Action is the derived label for what activating "save" would do.
type Action string

const (
	ActionCreate Action = "create"
	ActionModify Action = "modify"
	ActionApply  Action = "apply"
	ActionView   Action = "view"
)

// CostCode is the resolved catalog entry for a billing line.
type CostCode struct {
	ID                string
	Code              string
	Description       string
	TransactionTypeID TransactionType
}

// CostCodeResolver supplies cost-code lookups for the active office. The
// catalog is loaded once per session and read-only afterwards.
type CostCodeResolver interface {
	Resolve(costCodeID string) (CostCode, bool)
}

// InvoiceHeader carries the invoice fields the editing session needs to build
// a submission payload. The session never mutates master data behind it.
type InvoiceHeader struct {
	InvoiceID      *snowflake.ID
	OrganizationID snowflake.ID
	OfficeID       snowflake.ID
	ReservationID  *snowflake.ID
	InvoiceCode    string
	StartDate      time.Time
	EndDate        time.Time
	InvoiceDate    time.Time
	DueDate        time.Time
	IsActive       bool
}
