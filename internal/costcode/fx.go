package costcode

import (
	"github.com/wgesler/rentall-billing/internal/costcode/repository"
	"github.com/wgesler/rentall-billing/internal/costcode/service"
	"go.uber.org/fx"
)

var Module = fx.Module("costcode.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
