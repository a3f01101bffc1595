package appointment

import (
	"github.com/clinica-labs/clinica/internal/appointment/repository"
	"github.com/clinica-labs/clinica/internal/appointment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("appointment.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
