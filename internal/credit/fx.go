package credit

import (
	"github.com/wgesler/rentall-billing/internal/credit/domain"
	"github.com/wgesler/rentall-billing/internal/credit/service"
	ledgerdomain "github.com/wgesler/rentall-billing/internal/ledger/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("credit.service",
	fx.Provide(service.NewService),
	fx.Provide(func(svc domain.Service) ledgerdomain.CreditResolver { return svc }),
)
