// Package domain contains the patient directory model.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Patient struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	FullName    string       `gorm:"type:text;not null"`
	PhoneNumber string       `gorm:"type:text;not null"`
	DateOfBirth *time.Time   `gorm:""`
	Gender      string       `gorm:"type:text;not null"`
	BloodType   *string      `gorm:"type:text"`
	Email       *string      `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Patient) TableName() string { return "patients" }
