package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	Create(ctx context.Context, rate *TaxRate) error
	FindByID(ctx context.Context, id snowflake.ID) (*TaxRate, error)
	FindActiveByCode(ctx context.Context, code string) ([]TaxRate, error)
	List(ctx context.Context, filter ListRequest) ([]TaxRate, error)
	Update(ctx context.Context, rate *TaxRate) error
}
