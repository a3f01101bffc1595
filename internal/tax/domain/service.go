package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RateResolver returns the combined percentage ratio for a tax code.
// All ACTIVE rows sharing the code contribute; zero rows resolve to a
// zero ratio, never an error.
type RateResolver interface {
	CombinedRatio(ctx context.Context, code string) (decimal.Decimal, error)
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Disable(ctx context.Context, id string) (*Response, error)
}

type ListRequest struct {
	Code     string
	Name     string
	IsActive *bool
}

type CreateRequest struct {
	Code                  string          `json:"code"`
	Name                  string          `json:"name"`
	Category              string          `json:"category"`
	Kind                  TaxKind         `json:"kind"`
	Ratio                 decimal.Decimal `json:"ratio"`
	IsDefault             *bool           `json:"is_default"`
	IsRegisteredAuthority *bool           `json:"is_registered_authority"`
	RegistrationNumber    *string         `json:"registration_number"`
	RegistrationDate      *time.Time      `json:"registration_date"`
	IsActive              *bool           `json:"is_active"`
}

type UpdateRequest struct {
	ID       string           `json:"id"`
	Name     *string          `json:"name,omitempty"`
	Category *string          `json:"category,omitempty"`
	Kind     *TaxKind         `json:"kind,omitempty"`
	Ratio    *decimal.Decimal `json:"ratio,omitempty"`
}

type Response struct {
	ID                    string          `json:"id"`
	Code                  string          `json:"code"`
	Name                  string          `json:"name"`
	Category              string          `json:"category,omitempty"`
	Kind                  TaxKind         `json:"kind"`
	Ratio                 decimal.Decimal `json:"ratio"`
	IsDefault             bool            `json:"is_default"`
	IsRegisteredAuthority bool            `json:"is_registered_authority"`
	RegistrationNumber    *string         `json:"registration_number,omitempty"`
	RegistrationDate      *time.Time      `json:"registration_date,omitempty"`
	IsActive              bool            `json:"is_active"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}
