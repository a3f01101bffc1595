package catalog

import (
	"github.com/clinica-labs/clinica/internal/catalog/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog",
	fx.Provide(repository.NewRepository),
)
