// Package domain contains the service assignment models. An assignment
// bundles billable services under one appointment; each detail row
// snapshots the service type cost at assignment time so later price
// changes never rewrite history.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type ServiceAssignment struct {
	ID            snowflake.ID `gorm:"primaryKey"`
	AppointmentID snowflake.ID `gorm:"index;not null"`
	DoctorID      snowflake.ID `gorm:"index;not null"`
	Date          time.Time    `gorm:"not null"`

	Total        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Discount     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Tax          decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	GrandTotal   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PayingAmount decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Balance      decimal.Decimal `gorm:"type:decimal(18,2);not null"`

	Details []ServiceAssignmentDetail `gorm:"foreignKey:ServiceAssignmentID"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (ServiceAssignment) TableName() string { return "service_assignments" }

type ServiceAssignmentDetail struct {
	ID                  snowflake.ID    `gorm:"primaryKey"`
	ServiceAssignmentID snowflake.ID    `gorm:"index;not null"`
	ServiceTypeID       snowflake.ID    `gorm:"index;not null"`
	Cost                decimal.Decimal `gorm:"type:decimal(18,2);not null"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (ServiceAssignmentDetail) TableName() string { return "service_assignment_details" }
