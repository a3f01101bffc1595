// Package domain contains the service catalog models. A Service groups
// billable ServiceType rows; the type carries the cost used for pricing.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type Service struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	Name        string       `gorm:"type:text;not null"`
	Description *string      `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Service) TableName() string { return "services" }

type ServiceType struct {
	ID        snowflake.ID    `gorm:"primaryKey"`
	Name      string          `gorm:"type:text;not null"`
	Cost      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ServiceID snowflake.ID    `gorm:"index;not null"`
	Service   *Service        `gorm:"foreignKey:ServiceID"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (ServiceType) TableName() string { return "service_types" }
