package service

import (
	"github.com/wgesler/rentall-billing/internal/ledger/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log    *zap.Logger
	Table  *domain.CategoryTable
	Saver  domain.Saver
	Credit domain.CreditResolver
}

// Factory opens editing sessions. One factory per process; one session per
// invoice being edited.
type Factory struct {
	log    *zap.Logger
	table  *domain.CategoryTable
	saver  domain.Saver
	credit domain.CreditResolver
}

func NewFactory(p Params) *Factory {
	return &Factory{
		log:    p.Log.Named("ledger.session"),
		table:  p.Table,
		saver:  p.Saver,
		credit: p.Credit,
	}
}

// Open starts a session for the given invoice header. The resolver is the
// per-office cost-code catalog the caller already loaded; line mapping and
// regeneration both depend on it.
func (f *Factory) Open(header domain.InvoiceHeader, resolver domain.CostCodeResolver) *Session {
	return &Session{
		log:      f.log,
		table:    f.table,
		resolver: resolver,
		saver:    f.saver,
		credit:   f.credit,
		header:   header,
	}
}
