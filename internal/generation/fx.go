package generation

import (
	"github.com/wgesler/rentall-billing/internal/generation/repository"
	"github.com/wgesler/rentall-billing/internal/generation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("generation.consumer",
	fx.Provide(repository.NewCapability),
	fx.Provide(service.NewConsumer),
)
