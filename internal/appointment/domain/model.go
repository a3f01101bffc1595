// Package domain contains the appointment model and service contracts.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	patientdomain "github.com/clinica-labs/clinica/internal/patient/domain"
	staffdomain "github.com/clinica-labs/clinica/internal/staff/domain"
	"github.com/shopspring/decimal"
)

type Appointment struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	PatientID    snowflake.ID `gorm:"index;not null"`
	DoctorID     snowflake.ID `gorm:"index;not null"`
	ScheduleDate time.Time    `gorm:"index;not null"`
	ScheduleTime string       `gorm:"type:text;not null"`

	Total        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Discount     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Tax          decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	GrandTotal   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PayingAmount decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Balance      decimal.Decimal `gorm:"type:decimal(18,2);not null"`

	Patient *patientdomain.Patient `gorm:"foreignKey:PatientID"`
	Doctor  *staffdomain.Staff     `gorm:"foreignKey:DoctorID"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Appointment) TableName() string { return "appointments" }
