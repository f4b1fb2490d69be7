package main

import (
	"github.com/alldenims/pricequote/internal/clock"
	"github.com/alldenims/pricequote/internal/config"
	"github.com/alldenims/pricequote/internal/observability"
	"github.com/alldenims/pricequote/internal/server"
	"github.com/alldenims/pricequote/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
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
