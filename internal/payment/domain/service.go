package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/clinica-labs/clinica/internal/billing"
	"github.com/shopspring/decimal"
)

// ProcessRequest records a free-standing payment against a patient.
// Scope defaults to All when omitted.
type ProcessRequest struct {
	PatientID    snowflake.ID    `json:"patient_id" binding:"required"`
	Scope        Scope           `json:"scope"`
	Total        decimal.Decimal `json:"total"`
	Discount     decimal.Decimal `json:"discount"`
	PayingAmount decimal.Decimal `json:"paying_amount"`
	TaxCode      string          `json:"tax_code"`
}

type ListRequest struct {
	PatientID string `form:"patient_id"`
	Scope     string `form:"scope"`
	Page      int    `form:"page"`
	Size      int    `form:"size"`
}

type Response struct {
	ID        snowflake.ID   `json:"id"`
	PatientID snowflake.ID   `json:"patient_id"`
	Scope     Scope          `json:"scope"`
	Date      time.Time      `json:"date"`
	Billing   billing.Result `json:"billing"`
	CreatedAt time.Time      `json:"created_at"`
}

type ListResponse struct {
	Payments []Response `json:"payments"`
	Total    int64      `json:"total"`
}

// Due is an outstanding balance on a billed row. Dues are derived from
// the appointment and assignment tables, not from the payment ledger:
// payment rows carry no back reference, so scanning them alone cannot
// reconcile what is still owed.
type Due struct {
	Source     string          `json:"source"`
	SourceID   snowflake.ID    `json:"source_id"`
	Date       time.Time       `json:"date"`
	GrandTotal decimal.Decimal `json:"grand_total"`
	Balance    decimal.Decimal `json:"balance"`
}

type DuesResponse struct {
	PatientID snowflake.ID    `json:"patient_id"`
	Dues      []Due           `json:"dues"`
	TotalDue  decimal.Decimal `json:"total_due"`
}

type ListFilter struct {
	PatientID *snowflake.ID
	Scope     *Scope
	Page      int
	Size      int
}

type Repository interface {
	Create(ctx context.Context, payment *Payment) error
	List(ctx context.Context, filter ListFilter) ([]Payment, int64, error)
	DuesByPatient(ctx context.Context, patientID snowflake.ID) ([]Due, error)
}

type Service interface {
	Process(ctx context.Context, req ProcessRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) (*ListResponse, error)
	PatientDues(ctx context.Context, patientID string) (*DuesResponse, error)
}
