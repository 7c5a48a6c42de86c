// Package domain contains persistence models for the cost-code catalog.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	ledgerdomain "github.com/wgesler/rentall-billing/internal/ledger/domain"
)

// CostCode associates a billing line with a transaction type and a display
// code. The catalog is office-scoped master data, read-only to this service.
type CostCode struct {
	ID                string                       `gorm:"type:text;primaryKey"`
	OfficeID          snowflake.ID                 `gorm:"not null;index"`
	Code              string                       `gorm:"type:text;not null"`
	Description       string                       `gorm:"type:text;not null"`
	TransactionTypeID ledgerdomain.TransactionType `gorm:"not null"`
	IsActive          bool                         `gorm:"not null;default:true"`
	CreatedAt         time.Time                    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (CostCode) TableName() string { return "cost_codes" }

type Repository interface {
	ListByOffice(ctx context.Context, officeID snowflake.ID) ([]CostCode, error)
}

// Service loads per-office catalogs for the editing screens.
type Service interface {
	CatalogForOffice(ctx context.Context, officeID snowflake.ID) (*Catalog, error)
}
