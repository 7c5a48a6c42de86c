package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/wgesler/rentall-billing/internal/clock"
	"github.com/wgesler/rentall-billing/internal/config"
	"github.com/wgesler/rentall-billing/internal/logger"
	"github.com/wgesler/rentall-billing/internal/migration"
	"github.com/wgesler/rentall-billing/internal/server"
	"github.com/wgesler/rentall-billing/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
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
