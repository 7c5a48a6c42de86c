package ledger

import (
	"github.com/wgesler/rentall-billing/internal/ledger/domain"
	"github.com/wgesler/rentall-billing/internal/ledger/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ledger.session",
	fx.Provide(domain.NewCategoryTable),
	fx.Provide(service.NewFactory),
)
