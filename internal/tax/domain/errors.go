package domain

import "errors"

var (
	ErrInvalidID       = errors.New("invalid_id")
	ErrNotFound        = errors.New("not_found")
	ErrInvalidTaxCode  = errors.New("invalid_tax_code")
	ErrInvalidTaxKind  = errors.New("invalid_tax_kind")
	ErrInvalidTaxRatio = errors.New("invalid_tax_ratio")
)
