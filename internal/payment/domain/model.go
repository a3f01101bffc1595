// Package domain contains the payment ledger model. Payment rows are
// free-standing receipts: they snapshot the billing figures at the time
// the money changed hands and are never rewritten when the appointment
// or assignment they describe is edited later.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Scope string

const (
	ScopeAll         Scope = "All"
	ScopeAppointment Scope = "Appointment"
	ScopeService     Scope = "Service"
)

type Payment struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	PatientID snowflake.ID `gorm:"index;not null"`
	Scope     Scope        `gorm:"type:text;not null"`
	Date      time.Time    `gorm:"not null"`

	Total        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Discount     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Tax          decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	GrandTotal   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PayingAmount decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Balance      decimal.Decimal `gorm:"type:decimal(18,2);not null"`

	Metadata datatypes.JSON `gorm:""`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Payment) TableName() string { return "payments" }
