package staff

import (
	"github.com/clinica-labs/clinica/internal/staff/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("staff.directory",
	fx.Provide(repository.NewRepository),
)
