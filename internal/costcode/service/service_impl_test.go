package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/wgesler/rentall-billing/internal/costcode/domain"
	ledgerdomain "github.com/wgesler/rentall-billing/internal/ledger/domain"
	"go.uber.org/zap"
)

type stubRepo struct {
	codes []domain.CostCode
	err   error
	calls int
}

func (r *stubRepo) ListByOffice(ctx context.Context, officeID snowflake.ID) ([]domain.CostCode, error) {
	r.calls++
	return r.codes, r.err
}

func TestCatalogForOfficeCachesPerOffice(t *testing.T) {
	repo := &stubRepo{codes: []domain.CostCode{
		{ID: "cc-rent", OfficeID: 20, Code: "RENT", Description: "Monthly rent", TransactionTypeID: ledgerdomain.TransactionTypeCharge, IsActive: true},
		{ID: "cc-pay", OfficeID: 20, Code: "PAY", Description: "Payment", TransactionTypeID: ledgerdomain.TransactionTypePayment, IsActive: true},
	}}
	svc := NewService(Params{Log: zap.NewNop(), Repo: repo})
	ctx := context.Background()

	catalog, err := svc.CatalogForOffice(ctx, snowflake.ID(20))
	assert.NoError(t, err)
	assert.Equal(t, 2, catalog.Len())

	code, ok := catalog.Resolve("cc-rent")
	assert.True(t, ok)
	assert.Equal(t, "RENT", code.Code)
	assert.Equal(t, ledgerdomain.TransactionTypeCharge, code.TransactionTypeID)

	_, ok = catalog.Resolve("cc-missing")
	assert.False(t, ok)

	again, err := svc.CatalogForOffice(ctx, snowflake.ID(20))
	assert.NoError(t, err)
	assert.Same(t, catalog, again)
	assert.Equal(t, 1, repo.calls, "second lookup must hit the cache")
}

func TestCatalogForOfficeRepositoryError(t *testing.T) {
	repo := &stubRepo{err: errors.New("db down")}
	svc := NewService(Params{Log: zap.NewNop(), Repo: repo})

	_, err := svc.CatalogForOffice(context.Background(), snowflake.ID(20))
	assert.Error(t, err)
}
