package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/wgesler/rentall-billing/internal/reservation/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*domain.Reservation, error) {
	var reservation domain.Reservation
	err := r.db.WithContext(ctx).First(&reservation, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reservation, nil
}

func (r *repository) ListCandidates(ctx context.Context, officeID snowflake.ID, exclude *snowflake.ID) ([]domain.Reservation, error) {
	stmt := r.db.WithContext(ctx).
		Where("office_id = ? AND is_active = ?", officeID, true)
	if exclude != nil {
		stmt = stmt.Where("id <> ?", *exclude)
	}

	var reservations []domain.Reservation
	if err := stmt.Order("code").Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *repository) AddCredit(ctx context.Context, id snowflake.ID, amount decimal.Decimal) error {
	result := r.db.WithContext(ctx).Exec(
		`UPDATE reservations SET credit_due = credit_due + ?, updated_at = ? WHERE id = ?`,
		amount, time.Now().UTC(), id,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
