package service

import (
	"context"
	"errors"
	"fmt"

	generationdomain "github.com/wgesler/rentall-billing/internal/generation/domain"
	ledgerdomain "github.com/wgesler/rentall-billing/internal/ledger/domain"
	ledgerservice "github.com/wgesler/rentall-billing/internal/ledger/service"
	"github.com/wgesler/rentall-billing/internal/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ErrCatalogNotReady means generation was requested before the office's
// cost-code catalog was resolved; categories cannot be derived without it.
var ErrCatalogNotReady = errors.New("cost_code_catalog_not_ready")

type Params struct {
	fx.In

	Log        *zap.Logger
	Capability generationdomain.Capability
	Metrics    *metrics.Metrics `optional:"true"`
}

// Consumer drives the external period-generation capability and feeds the
// result into an editing session.
type Consumer struct {
	log        *zap.Logger
	capability generationdomain.Capability
	metrics    *metrics.Metrics
}

func NewConsumer(p Params) *Consumer {
	return &Consumer{
		log:        p.Log.Named("generation.consumer"),
		capability: p.Capability,
		metrics:    p.Metrics,
	}
}

// Run requests generated lines for the period and replaces the session's
// collection wholesale: mapped through the catalog, sign-normalized and
// re-baselined. On failure the session is cleared so no partially-generated
// state survives.
func (c *Consumer) Run(ctx context.Context, req generationdomain.Request, session *ledgerservice.Session, resolver ledgerdomain.CostCodeResolver) error {
	if resolver == nil {
		return ErrCatalogNotReady
	}

	raw, err := c.capability.GenerateLines(ctx, req)
	if err != nil {
		session.Clear()
		c.count("failed")
		c.log.Warn("period generation failed", zap.Error(err))
		return fmt.Errorf("%w: %v", generationdomain.ErrGenerationFailed, err)
	}

	lines := make([]ledgerdomain.LedgerLine, 0, len(raw))
	for _, record := range raw {
		line := ledgerdomain.LedgerLine{
			CostCodeID:  record.CostCodeID,
			Description: record.Description,
			Amount:      record.Amount,
			IsNew:       true,
		}
		if code, ok := resolver.Resolve(record.CostCodeID); ok {
			tt := code.TransactionTypeID
			line.CostCode = code.Code
			line.TransactionTypeID = &tt
		}
		lines = append(lines, line)
	}

	session.Replace(lines)
	c.count("ok")
	c.log.Info("period generation replaced ledger lines",
		zap.Int("lines", len(lines)),
		zap.String("invoice_code", req.InvoiceCode),
	)
	return nil
}

func (c *Consumer) count(status string) {
	if c.metrics != nil {
		c.metrics.GenerationRuns.WithLabelValues(status).Inc()
	}
}
