package summary

import (
	"github.com/contaflow/tributo/internal/summary/service"
	"go.uber.org/fx"
)

var Module = fx.Module("summary",
	fx.Provide(service.NewCalculator),
)
