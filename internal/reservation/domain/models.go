// Package domain contains persistence models for reservations, the entities
// that carry credit balances between invoices.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Reservation is the billing target an invoice hangs off. CreditDue is money
// held for the reservation; the credit transfer resolver only ever adds to
// it.
type Reservation struct {
	ID             snowflake.ID    `gorm:"primaryKey"`
	OrganizationID snowflake.ID    `gorm:"not null;index"`
	OfficeID       snowflake.ID    `gorm:"not null;index"`
	Code           string          `gorm:"type:text;not null"`
	TenantName     string          `gorm:"type:text;not null"`
	CreditDue      decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	IsActive       bool            `gorm:"not null;default:true"`
	CreatedAt      time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Reservation) TableName() string { return "reservations" }

type Repository interface {
	FindByID(ctx context.Context, id snowflake.ID) (*Reservation, error)
	// ListCandidates returns the reservations a credit can be carried to:
	// active reservations sharing the given office, minus the excluded one.
	ListCandidates(ctx context.Context, officeID snowflake.ID, exclude *snowflake.ID) ([]Reservation, error)
	// AddCredit increments credit_due by amount. Additive, never overwritten.
	AddCredit(ctx context.Context, id snowflake.ID, amount decimal.Decimal) error
}
