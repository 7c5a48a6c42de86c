package invoice

import (
	creditdomain "github.com/wgesler/rentall-billing/internal/credit/domain"
	"github.com/wgesler/rentall-billing/internal/invoice/domain"
	"github.com/wgesler/rentall-billing/internal/invoice/repository"
	"github.com/wgesler/rentall-billing/internal/invoice/service"
	ledgerdomain "github.com/wgesler/rentall-billing/internal/ledger/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
	fx.Provide(func(svc domain.Service) ledgerdomain.Saver { return svc }),
	fx.Provide(func(svc domain.Service) creditdomain.PaymentApplier { return svc }),
)
