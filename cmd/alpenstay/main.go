package main

import (
	"github.com/alpenstay/alpenstay/internal/config"
	"github.com/alpenstay/alpenstay/internal/migration"
	"github.com/alpenstay/alpenstay/internal/server"
	"github.com/alpenstay/alpenstay/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
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
