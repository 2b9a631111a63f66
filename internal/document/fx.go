package document

import (
	"github.com/contaflow/tributo/internal/document/repository"
	"github.com/contaflow/tributo/internal/document/service"
	"go.uber.org/fx"
)

var Module = fx.Module("document",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewAggregator),
)
