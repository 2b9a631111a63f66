// Package migration creates the engine's tables on startup so the
// service is usable out of the box for local and self-hosted installs.
package migration

import (
	companydomain "github.com/contaflow/tributo/internal/company/domain"
	documentdomain "github.com/contaflow/tributo/internal/document/domain"
	form29domain "github.com/contaflow/tributo/internal/form29/domain"
	subscriptiondomain "github.com/contaflow/tributo/internal/subscription/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// RunMigrations creates the tables and their indexes. The draft table's
// ux_form29_live_period index over the nullable live marker is the guard
// against the concurrent check-then-create race; it builds identically on
// postgres, mysql and sqlite.
func RunMigrations(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&companydomain.Company{},
		&subscriptiondomain.Subscription{},
		&documentdomain.SalesDocument{},
		&documentdomain.PurchaseDocument{},
		&documentdomain.HonorariosReceipt{},
		&form29domain.Draft{},
		&form29domain.AuthorityFiling{},
	)
}

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB) error {
		return RunMigrations(conn)
	}),
)
