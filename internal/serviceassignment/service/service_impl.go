package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	appointmentdomain "github.com/clinica-labs/clinica/internal/appointment/domain"
	"github.com/clinica-labs/clinica/internal/billing"
	catalogdomain "github.com/clinica-labs/clinica/internal/catalog/domain"
	"github.com/clinica-labs/clinica/internal/config"
	"github.com/clinica-labs/clinica/internal/observability/metrics"
	paymentdomain "github.com/clinica-labs/clinica/internal/payment/domain"
	saddomain "github.com/clinica-labs/clinica/internal/serviceassignment/domain"
	taxdomain "github.com/clinica-labs/clinica/internal/tax/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Log          *zap.Logger
	GenID        *snowflake.Node
	DB           *gorm.DB
	Repo         saddomain.Repository
	Appointments appointmentdomain.Repository
	Catalog      catalogdomain.Repository
	Rates        taxdomain.RateResolver
	Billing      *config.BillingConfigHolder
	Metrics      *metrics.Metrics `optional:"true"`
}

type service struct {
	log          *zap.Logger
	genID        *snowflake.Node
	db           *gorm.DB
	repo         saddomain.Repository
	appointments appointmentdomain.Repository
	catalog      catalogdomain.Repository
	rates        taxdomain.RateResolver
	billing      *config.BillingConfigHolder
	metrics      *metrics.Metrics
}

func NewService(p Params) saddomain.Service {
	return &service{
		log:          p.Log.Named("serviceassignment.service"),
		genID:        p.GenID,
		db:           p.DB,
		repo:         p.Repo,
		appointments: p.Appointments,
		catalog:      p.Catalog,
		rates:        p.Rates,
		billing:      p.Billing,
		metrics:      p.Metrics,
	}
}

// Create bills an extra service bundle against an existing appointment.
// The assignment, its detail rows, and the payment receipt commit in one
// transaction, priced under the same policy as appointment submission.
func (s *service) Create(ctx context.Context, req saddomain.CreateRequest) (*saddomain.Response, error) {
	appointment, err := s.appointments.FindByID(ctx, req.AppointmentID)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, saddomain.ErrAppointmentMissing
	}

	serviceTypes, err := s.catalog.FindTypesByIDs(ctx, req.ServiceTypeIDs)
	if err != nil {
		return nil, err
	}
	if len(serviceTypes) == 0 {
		return nil, saddomain.ErrNoValidServices
	}

	combinedRate, err := s.rates.CombinedRatio(ctx, s.taxCode(req.TaxCode))
	if err != nil {
		return nil, err
	}

	servicesTotal := decimal.Zero
	lineItems := make([]decimal.Decimal, 0, len(serviceTypes))
	for _, st := range serviceTypes {
		servicesTotal = servicesTotal.Add(st.Cost)
		lineItems = append(lineItems, st.Cost)
	}

	result := billing.Compute(lineItems, req.Discount, []decimal.Decimal{combinedRate}, req.PayingAmount)

	now := time.Now().UTC()
	assignment := saddomain.ServiceAssignment{
		ID:            s.genID.Generate(),
		AppointmentID: appointment.ID,
		DoctorID:      appointment.DoctorID,
		Date:          now,
		Total:         servicesTotal,
		Discount:      result.Discount,
		Tax:           result.TaxAmount,
		GrandTotal:    result.GrandTotal,
		PayingAmount:  result.PayingAmount,
		Balance:       result.Balance,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, st := range serviceTypes {
		assignment.Details = append(assignment.Details, saddomain.ServiceAssignmentDetail{
			ID:                  s.genID.Generate(),
			ServiceAssignmentID: assignment.ID,
			ServiceTypeID:       st.ID,
			Cost:                st.Cost,
			CreatedAt:           now,
		})
	}

	metadata, _ := json.Marshal(map[string]string{
		"appointment_id":        appointment.ID.String(),
		"service_assignment_id": assignment.ID.String(),
	})
	payment := paymentdomain.Payment{
		ID:           s.genID.Generate(),
		PatientID:    appointment.PatientID,
		Scope:        paymentdomain.ScopeService,
		Date:         now,
		Total:        result.Subtotal,
		Discount:     result.Discount,
		Tax:          result.TaxAmount,
		GrandTotal:   result.GrandTotal,
		PayingAmount: result.PayingAmount,
		Balance:      result.Balance,
		Metadata:     datatypes.JSON(metadata),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&assignment).Error; err != nil {
			return err
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		s.metrics.RecordBillingRollback(ctx, "service_assignment_create")
		s.log.Error("service assignment rolled back",
			zap.String("appointment_id", appointment.ID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	s.metrics.RecordAssignmentCreated(ctx)
	s.metrics.RecordPayment(ctx, string(payment.Scope))

	s.log.Info("service assignment created",
		zap.String("service_assignment_id", assignment.ID.String()),
		zap.String("appointment_id", appointment.ID.String()),
		zap.String("grand_total", result.GrandTotal.String()),
	)

	resp := toResponse(assignment)
	return &resp, nil
}

func (s *service) GetByAppointment(ctx context.Context, appointmentID string) ([]saddomain.Response, error) {
	parsed, err := parseID(appointmentID)
	if err != nil {
		return nil, saddomain.ErrInvalidID
	}

	assignments, err := s.repo.FindByAppointment(ctx, parsed)
	if err != nil {
		return nil, err
	}

	responses := make([]saddomain.Response, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, toResponse(assignment))
	}
	return responses, nil
}

// Delete removes the assignment and its detail rows together. Payment
// receipts stay behind as historical records.
func (s *service) Delete(ctx context.Context, id string) error {
	parsed, err := parseID(id)
	if err != nil {
		return saddomain.ErrInvalidID
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&saddomain.ServiceAssignment{}, "id = ?", parsed)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return saddomain.ErrNotFound
		}
		return tx.Delete(&saddomain.ServiceAssignmentDetail{}, "service_assignment_id = ?", parsed).Error
	})
}

func (s *service) taxCode(override string) string {
	if code := strings.TrimSpace(override); code != "" {
		return code
	}
	return s.billing.Get().TaxCode
}

func parseID(raw string) (snowflake.ID, error) {
	parsed, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, err
	}
	return snowflake.ID(parsed), nil
}

func toResponse(assignment saddomain.ServiceAssignment) saddomain.Response {
	resp := saddomain.Response{
		ID:            assignment.ID,
		AppointmentID: assignment.AppointmentID,
		DoctorID:      assignment.DoctorID,
		Date:          assignment.Date,
		Billing: billing.Result{
			Subtotal:     assignment.Total,
			Discount:     assignment.Discount,
			TaxAmount:    assignment.Tax,
			GrandTotal:   assignment.GrandTotal,
			PayingAmount: assignment.PayingAmount,
			Balance:      assignment.Balance,
		},
		Details:   make([]saddomain.DetailResponse, 0, len(assignment.Details)),
		CreatedAt: assignment.CreatedAt,
	}
	for _, detail := range assignment.Details {
		resp.Details = append(resp.Details, saddomain.DetailResponse{
			ServiceTypeID: detail.ServiceTypeID,
			Cost:          detail.Cost,
		})
	}
	return resp
}
