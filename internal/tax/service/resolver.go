package service

import (
	"context"

	taxdomain "github.com/clinica-labs/clinica/internal/tax/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

type resolverParam struct {
	fx.In

	Repository taxdomain.Repository
}

type resolver struct {
	repo taxdomain.Repository
}

func NewResolver(p resolverParam) taxdomain.RateResolver {
	return &resolver{repo: p.Repository}
}

// CombinedRatio sums the ratios of every ACTIVE rate sharing the code.
// No active rows means a zero ratio; a toggled rate between read and
// commit is an accepted staleness window, not guarded against.
func (r *resolver) CombinedRatio(ctx context.Context, code string) (decimal.Decimal, error) {
	rates, err := r.repo.FindActiveByCode(ctx, code)
	if err != nil {
		return decimal.Zero, err
	}

	combined := decimal.Zero
	for _, rate := range rates {
		combined = combined.Add(rate.Ratio)
	}
	return combined, nil
}
