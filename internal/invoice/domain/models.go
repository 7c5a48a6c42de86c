// Package domain contains persistence models for invoicing.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Invoice is a billing invoice for a reservation or, in billing mode, an
// organization-wide period. TotalAmount and PaidAmount are stored copies of
// the derived totals; the source of truth stays the line collection.
type Invoice struct {
	ID             snowflake.ID      `gorm:"primaryKey"`
	OrganizationID snowflake.ID      `gorm:"not null;index"`
	OfficeID       snowflake.ID      `gorm:"not null;index"`
	ReservationID  *snowflake.ID     `gorm:"index"`
	InvoiceCode    string            `gorm:"type:text;not null"`
	StartDate      time.Time         `gorm:"not null"`
	EndDate        time.Time         `gorm:"not null"`
	InvoiceDate    time.Time         `gorm:"not null"`
	DueDate        time.Time         `gorm:"not null"`
	TotalAmount    decimal.Decimal   `gorm:"type:numeric(18,2);not null;default:0"`
	PaidAmount     decimal.Decimal   `gorm:"type:numeric(18,2);not null;default:0"`
	Notes          string            `gorm:"type:text"`
	IsActive       bool              `gorm:"not null;default:true"`
	Metadata       datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// LedgerLine is one persisted charge or payment entry attached to an invoice.
type LedgerLine struct {
	ID                snowflake.ID    `gorm:"primaryKey"`
	InvoiceID         snowflake.ID    `gorm:"not null;index"`
	LineNumber        int             `gorm:"not null"`
	CostCodeID        string          `gorm:"type:text;not null"`
	TransactionTypeID int             `gorm:"not null"`
	Description       string          `gorm:"type:text;not null"`
	Amount            decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	CreatedAt         time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (LedgerLine) TableName() string { return "invoice_ledger_lines" }
