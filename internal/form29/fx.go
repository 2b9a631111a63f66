package form29

import (
	"github.com/contaflow/tributo/internal/form29/repository"
	"github.com/contaflow/tributo/internal/form29/service"
	"go.uber.org/fx"
)

var Module = fx.Module("form29",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
