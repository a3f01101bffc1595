package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/clinica-labs/clinica/internal/config"
	"github.com/clinica-labs/clinica/internal/migration"
	"github.com/clinica-labs/clinica/internal/observability"
	"github.com/clinica-labs/clinica/internal/server"
	"github.com/clinica-labs/clinica/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
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
