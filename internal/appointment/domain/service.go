package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/clinica-labs/clinica/internal/billing"
	"github.com/shopspring/decimal"
)

// SubmitRequest books an appointment and bills it in one shot. Unknown
// service type ids are dropped rather than rejected; the request fails
// only when none of them resolve.
type SubmitRequest struct {
	PatientID      snowflake.ID    `json:"patient_id" binding:"required"`
	DoctorID       snowflake.ID    `json:"doctor_id" binding:"required"`
	ScheduleDate   string          `json:"schedule_date" binding:"required"`
	ScheduleTime   string          `json:"schedule_time" binding:"required"`
	ServiceTypeIDs []snowflake.ID  `json:"service_type_ids" binding:"required"`
	Discount       decimal.Decimal `json:"discount"`
	PayingAmount   decimal.Decimal `json:"paying_amount"`
	TaxCode        string          `json:"tax_code"`
}

// CreateRequest books an appointment without a service bundle. The
// supplied total is priced directly; no assignment or payment rows are
// written.
type CreateRequest struct {
	PatientID    snowflake.ID    `json:"patient_id" binding:"required"`
	DoctorID     snowflake.ID    `json:"doctor_id" binding:"required"`
	ScheduleDate string          `json:"schedule_date" binding:"required"`
	ScheduleTime string          `json:"schedule_time" binding:"required"`
	Total        decimal.Decimal `json:"total"`
	Discount     decimal.Decimal `json:"discount"`
	PayingAmount decimal.Decimal `json:"paying_amount"`
	TaxCode      string          `json:"tax_code"`
}

// UpdateRequest replaces the appointment wholesale and reprices it from
// the supplied total.
type UpdateRequest struct {
	PatientID    snowflake.ID    `json:"patient_id" binding:"required"`
	DoctorID     snowflake.ID    `json:"doctor_id" binding:"required"`
	ScheduleDate string          `json:"schedule_date" binding:"required"`
	ScheduleTime string          `json:"schedule_time" binding:"required"`
	Total        decimal.Decimal `json:"total"`
	Discount     decimal.Decimal `json:"discount"`
	PayingAmount decimal.Decimal `json:"paying_amount"`
	TaxCode      string          `json:"tax_code"`
}

type ListRequest struct {
	PatientID string `form:"patient_id"`
	DoctorID  string `form:"doctor_id"`
	From      string `form:"from"`
	To        string `form:"to"`
	Page      int    `form:"page"`
	Size      int    `form:"size"`
}

type Response struct {
	ID           snowflake.ID   `json:"id"`
	PatientID    snowflake.ID   `json:"patient_id"`
	PatientName  string         `json:"patient_name,omitempty"`
	DoctorID     snowflake.ID   `json:"doctor_id"`
	DoctorName   string         `json:"doctor_name,omitempty"`
	ScheduleDate string         `json:"schedule_date"`
	ScheduleTime string         `json:"schedule_time"`
	Billing      billing.Result `json:"billing"`
	CreatedAt    time.Time      `json:"created_at"`
}

type ListResponse struct {
	Appointments []Response `json:"appointments"`
	Total        int64      `json:"total"`
}

type Service interface {
	Submit(ctx context.Context, req SubmitRequest) (*Response, error)
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	List(ctx context.Context, req ListRequest) (*ListResponse, error)
	ListToday(ctx context.Context) (*ListResponse, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error
}
