package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/fiscalbr/classtrib/internal/auth"
	"github.com/fiscalbr/classtrib/internal/cache"
	"github.com/fiscalbr/classtrib/internal/classtrib"
	"github.com/fiscalbr/classtrib/internal/clock"
	"github.com/fiscalbr/classtrib/internal/config"
	"github.com/fiscalbr/classtrib/internal/importer"
	"github.com/fiscalbr/classtrib/internal/logger"
	"github.com/fiscalbr/classtrib/internal/migration"
	"github.com/fiscalbr/classtrib/internal/ncm"
	"github.com/fiscalbr/classtrib/internal/ratelimit"
	"github.com/fiscalbr/classtrib/internal/reference"
	"github.com/fiscalbr/classtrib/internal/report"
	"github.com/fiscalbr/classtrib/internal/server"
	"github.com/fiscalbr/classtrib/pkg/db"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		auth.Module,
		cache.Module,
		classtrib.Module,
		ncm.Module,
		ratelimit.Module,
		reference.Module,
		report.Module,
		importer.Module,

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
