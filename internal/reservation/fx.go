package reservation

import (
	"github.com/wgesler/rentall-billing/internal/reservation/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("reservation.repository",
	fx.Provide(repository.NewRepository),
)
