// Package domain contains the tax rate model and contracts.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// TaxKind represents how a tax rate is expressed.
type TaxKind string

const (
	TaxKindPercentage TaxKind = "Percentage"
	TaxKindFixed      TaxKind = "Fixed"
)

// TaxRate is a named, status-flagged tax definition.
//
// Several ACTIVE rows may share one code (e.g. a federal and a regional
// VAT component). Their ratios are SUMMED when the code is resolved;
// this is deliberate policy, not duplicate data.
type TaxRate struct {
	ID snowflake.ID `gorm:"primaryKey"`

	Code     string  `gorm:"type:text;not null;index"`
	Name     string  `gorm:"type:text;not null"`
	Category string  `gorm:"type:text"`
	Kind     TaxKind `gorm:"type:text;not null;default:'Percentage'"`

	// Ratio holds the percentage, e.g. 5 means 5%.
	Ratio decimal.Decimal `gorm:"type:decimal(18,4);not null"`

	IsDefault             bool       `gorm:"not null;default:false"`
	IsRegisteredAuthority bool       `gorm:"not null;default:false"`
	RegistrationNumber    *string    `gorm:"type:text"`
	RegistrationDate      *time.Time `gorm:""`

	IsActive bool `gorm:"not null;default:true;index"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (TaxRate) TableName() string { return "tax_rates" }

func (t *TaxRate) Validate() error {
	if t.Code == "" {
		return ErrInvalidTaxCode
	}
	if t.Kind != TaxKindPercentage && t.Kind != TaxKindFixed {
		return ErrInvalidTaxKind
	}
	if t.Ratio.IsNegative() {
		return ErrInvalidTaxRatio
	}
	return nil
}
