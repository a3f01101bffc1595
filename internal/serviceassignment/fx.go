package serviceassignment

import (
	"github.com/clinica-labs/clinica/internal/serviceassignment/repository"
	"github.com/clinica-labs/clinica/internal/serviceassignment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("serviceassignment.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
