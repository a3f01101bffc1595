package patient

import (
	"github.com/clinica-labs/clinica/internal/patient/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("patient.directory",
	fx.Provide(repository.NewRepository),
)
