// Package domain contains the staff directory models.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// StaffType labels a staff role; IsDoctor gates appointment booking.
type StaffType struct {
	ID       snowflake.ID `gorm:"primaryKey"`
	Name     string       `gorm:"type:text;not null;uniqueIndex"`
	IsDoctor bool         `gorm:"not null;default:false"`
}

func (StaffType) TableName() string { return "staff_types" }

// Specialization carries the consultation fee charged when booking a
// doctor of this specialty.
type Specialization struct {
	ID               snowflake.ID    `gorm:"primaryKey"`
	Name             string          `gorm:"type:text;not null"`
	ConsultationCost decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Description      *string         `gorm:"type:text"`
}

func (Specialization) TableName() string { return "specializations" }

type StaffStatus string

const (
	StaffStatusActive   StaffStatus = "Active"
	StaffStatusInactive StaffStatus = "Inactive"
)

// Staff is a clinic employee. Doctors are staff whose type carries the
// IsDoctor flag and usually reference a specialization.
type Staff struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	FullName    string       `gorm:"type:text;not null"`
	PhoneNumber *string      `gorm:"type:text"`
	Gender      *string      `gorm:"type:text"`
	Email       *string      `gorm:"type:text"`
	DateOfBirth *time.Time   `gorm:""`
	Status      StaffStatus  `gorm:"type:text;not null;default:'Active'"`

	Fee     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	FeeType string          `gorm:"type:text;not null;default:'Fixed'"`

	StaffTypeID snowflake.ID `gorm:"not null;index"`
	StaffType   *StaffType   `gorm:"foreignKey:StaffTypeID"`

	SpecializationID *snowflake.ID   `gorm:"index"`
	Specialization   *Specialization `gorm:"foreignKey:SpecializationID"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Staff) TableName() string { return "staffs" }

// IsDoctor reports whether the staff member may take appointments.
func (s *Staff) IsDoctor() bool {
	return s.StaffType != nil && s.StaffType.IsDoctor
}

// ConsultationFee returns the specialization fee, zero when the staff
// member has no specialization.
func (s *Staff) ConsultationFee() decimal.Decimal {
	if s.Specialization == nil {
		return decimal.Zero
	}
	return s.Specialization.ConsultationCost
}
