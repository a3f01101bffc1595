package payment

import (
	"github.com/clinica-labs/clinica/internal/payment/repository"
	"github.com/clinica-labs/clinica/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
