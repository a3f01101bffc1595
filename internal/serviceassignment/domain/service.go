package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/clinica-labs/clinica/internal/billing"
	"github.com/shopspring/decimal"
)

// CreateRequest attaches a service bundle to an existing appointment.
// The doctor is inherited from the appointment; unknown service type
// ids are dropped under the same policy as appointment submission.
type CreateRequest struct {
	AppointmentID  snowflake.ID    `json:"appointment_id" binding:"required"`
	ServiceTypeIDs []snowflake.ID  `json:"service_type_ids" binding:"required"`
	Discount       decimal.Decimal `json:"discount"`
	PayingAmount   decimal.Decimal `json:"paying_amount"`
	TaxCode        string          `json:"tax_code"`
}

type DetailResponse struct {
	ServiceTypeID snowflake.ID    `json:"service_type_id"`
	Cost          decimal.Decimal `json:"cost"`
}

type Response struct {
	ID            snowflake.ID     `json:"id"`
	AppointmentID snowflake.ID     `json:"appointment_id"`
	DoctorID      snowflake.ID     `json:"doctor_id"`
	Date          time.Time        `json:"date"`
	Billing       billing.Result   `json:"billing"`
	Details       []DetailResponse `json:"details"`
	CreatedAt     time.Time        `json:"created_at"`
}

type Repository interface {
	FindByID(ctx context.Context, id snowflake.ID) (*ServiceAssignment, error)
	FindByAppointment(ctx context.Context, appointmentID snowflake.ID) ([]ServiceAssignment, error)
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	GetByAppointment(ctx context.Context, appointmentID string) ([]Response, error)
	Delete(ctx context.Context, id string) error
}
