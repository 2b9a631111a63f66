package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/contaflow/tributo/internal/clock"
	"github.com/contaflow/tributo/internal/config"
	"github.com/contaflow/tributo/internal/document"
	"github.com/contaflow/tributo/internal/form29"
	"github.com/contaflow/tributo/internal/logger"
	"github.com/contaflow/tributo/internal/migration"
	"github.com/contaflow/tributo/internal/scheduler"
	"github.com/contaflow/tributo/internal/server"
	"github.com/contaflow/tributo/internal/sii"
	"github.com/contaflow/tributo/internal/subscription"
	"github.com/contaflow/tributo/internal/summary"
	"github.com/contaflow/tributo/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// Functional domains
		document.Module,
		summary.Module,
		form29.Module,
		sii.Module,
		subscription.Module,
		scheduler.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
