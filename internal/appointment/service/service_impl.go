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
	patientdomain "github.com/clinica-labs/clinica/internal/patient/domain"
	paymentdomain "github.com/clinica-labs/clinica/internal/payment/domain"
	saddomain "github.com/clinica-labs/clinica/internal/serviceassignment/domain"
	staffdomain "github.com/clinica-labs/clinica/internal/staff/domain"
	taxdomain "github.com/clinica-labs/clinica/internal/tax/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	scheduleDateLayout = "2006-01-02"
	scheduleTimeLayout = "15:04"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	GenID    *snowflake.Node
	DB       *gorm.DB
	Repo     appointmentdomain.Repository
	Staff    staffdomain.Repository
	Patients patientdomain.Repository
	Catalog  catalogdomain.Repository
	Rates    taxdomain.RateResolver
	Billing  *config.BillingConfigHolder
	Metrics  *metrics.Metrics `optional:"true"`
}

type service struct {
	log      *zap.Logger
	genID    *snowflake.Node
	db       *gorm.DB
	repo     appointmentdomain.Repository
	staff    staffdomain.Repository
	patients patientdomain.Repository
	catalog  catalogdomain.Repository
	rates    taxdomain.RateResolver
	billing  *config.BillingConfigHolder
	metrics  *metrics.Metrics
}

func NewService(p Params) appointmentdomain.Service {
	return &service{
		log:      p.Log.Named("appointment.service"),
		genID:    p.GenID,
		db:       p.DB,
		repo:     p.Repo,
		staff:    p.Staff,
		patients: p.Patients,
		catalog:  p.Catalog,
		rates:    p.Rates,
		billing:  p.Billing,
		metrics:  p.Metrics,
	}
}

// Submit books an appointment and bills it atomically: the appointment,
// its service assignment with one detail row per selected service type,
// and the payment receipt commit together or not at all.
func (s *service) Submit(ctx context.Context, req appointmentdomain.SubmitRequest) (*appointmentdomain.Response, error) {
	scheduleDate, err := parseSchedule(req.ScheduleDate, req.ScheduleTime)
	if err != nil {
		return nil, err
	}

	doctor, err := s.staff.FindByID(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, appointmentdomain.ErrDoctorNotFound
	}
	if !doctor.IsDoctor() {
		return nil, appointmentdomain.ErrNotADoctor
	}

	patient, err := s.patients.FindByID(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, appointmentdomain.ErrPatientNotFound
	}

	// Unknown service type ids are dropped, not rejected. Only a fully
	// empty resolved set fails the request.
	serviceTypes, err := s.catalog.FindTypesByIDs(ctx, req.ServiceTypeIDs)
	if err != nil {
		return nil, err
	}
	if len(serviceTypes) == 0 {
		return nil, appointmentdomain.ErrNoValidServices
	}

	combinedRate, err := s.rates.CombinedRatio(ctx, s.taxCode(req.TaxCode))
	if err != nil {
		return nil, err
	}

	consultationFee := doctor.ConsultationFee()
	servicesTotal := decimal.Zero
	lineItems := make([]decimal.Decimal, 0, len(serviceTypes)+1)
	lineItems = append(lineItems, consultationFee)
	for _, st := range serviceTypes {
		servicesTotal = servicesTotal.Add(st.Cost)
		lineItems = append(lineItems, st.Cost)
	}

	result := billing.Compute(lineItems, req.Discount, []decimal.Decimal{combinedRate}, req.PayingAmount)

	now := time.Now().UTC()
	appointment := appointmentdomain.Appointment{
		ID:           s.genID.Generate(),
		PatientID:    req.PatientID,
		DoctorID:     req.DoctorID,
		ScheduleDate: scheduleDate,
		ScheduleTime: req.ScheduleTime,
		Total:        result.Subtotal,
		Discount:     result.Discount,
		Tax:          result.TaxAmount,
		GrandTotal:   result.GrandTotal,
		PayingAmount: result.PayingAmount,
		Balance:      result.Balance,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	assignment := saddomain.ServiceAssignment{
		ID:            s.genID.Generate(),
		AppointmentID: appointment.ID,
		DoctorID:      req.DoctorID,
		Date:          scheduleDate,
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

	payment := paymentdomain.Payment{
		ID:           s.genID.Generate(),
		PatientID:    req.PatientID,
		Scope:        paymentdomain.ScopeAppointment,
		Date:         now,
		Total:        result.Subtotal,
		Discount:     result.Discount,
		Tax:          result.TaxAmount,
		GrandTotal:   result.GrandTotal,
		PayingAmount: result.PayingAmount,
		Balance:      result.Balance,
		Metadata:     paymentMetadata(appointment.ID, assignment.ID),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&appointment).Error; err != nil {
			return err
		}
		if err := tx.Create(&assignment).Error; err != nil {
			return err
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		s.metrics.RecordBillingRollback(ctx, "appointment_submit")
		s.log.Error("appointment submit rolled back",
			zap.String("patient_id", req.PatientID.String()),
			zap.String("doctor_id", req.DoctorID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	s.metrics.RecordAppointmentSubmitted(ctx)
	s.metrics.RecordAssignmentCreated(ctx)
	s.metrics.RecordPayment(ctx, string(payment.Scope))

	s.log.Info("appointment submitted",
		zap.String("appointment_id", appointment.ID.String()),
		zap.String("grand_total", result.GrandTotal.String()),
		zap.String("balance", result.Balance.String()),
	)

	appointment.Patient = patient
	appointment.Doctor = doctor
	resp := toResponse(appointment)
	return &resp, nil
}

// Create books an appointment without a service bundle. Only the
// appointment row is written; totals are priced from the supplied
// amount under the shared policy.
func (s *service) Create(ctx context.Context, req appointmentdomain.CreateRequest) (*appointmentdomain.Response, error) {
	scheduleDate, err := parseSchedule(req.ScheduleDate, req.ScheduleTime)
	if err != nil {
		return nil, err
	}

	doctor, err := s.staff.FindByID(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, appointmentdomain.ErrDoctorNotFound
	}
	if !doctor.IsDoctor() {
		return nil, appointmentdomain.ErrNotADoctor
	}

	patient, err := s.patients.FindByID(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, appointmentdomain.ErrPatientNotFound
	}

	combinedRate, err := s.rates.CombinedRatio(ctx, s.taxCode(req.TaxCode))
	if err != nil {
		return nil, err
	}
	result := billing.Compute([]decimal.Decimal{req.Total}, req.Discount, []decimal.Decimal{combinedRate}, req.PayingAmount)

	now := time.Now().UTC()
	appointment := appointmentdomain.Appointment{
		ID:           s.genID.Generate(),
		PatientID:    req.PatientID,
		DoctorID:     req.DoctorID,
		ScheduleDate: scheduleDate,
		ScheduleTime: req.ScheduleTime,
		Total:        result.Subtotal,
		Discount:     result.Discount,
		Tax:          result.TaxAmount,
		GrandTotal:   result.GrandTotal,
		PayingAmount: result.PayingAmount,
		Balance:      result.Balance,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.db.WithContext(ctx).Create(&appointment).Error; err != nil {
		return nil, err
	}

	appointment.Patient = patient
	appointment.Doctor = doctor
	resp := toResponse(appointment)
	return &resp, nil
}

func (s *service) Get(ctx context.Context, id string) (*appointmentdomain.Response, error) {
	appointment, err := s.findByStringID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(*appointment)
	return &resp, nil
}

func (s *service) List(ctx context.Context, req appointmentdomain.ListRequest) (*appointmentdomain.ListResponse, error) {
	filter := appointmentdomain.ListFilter{Page: req.Page, Size: req.Size}

	if raw := strings.TrimSpace(req.PatientID); raw != "" {
		id, err := parseID(raw)
		if err != nil {
			return nil, appointmentdomain.ErrInvalidID
		}
		filter.PatientID = &id
	}
	if raw := strings.TrimSpace(req.DoctorID); raw != "" {
		id, err := parseID(raw)
		if err != nil {
			return nil, appointmentdomain.ErrInvalidID
		}
		filter.DoctorID = &id
	}
	if raw := strings.TrimSpace(req.From); raw != "" {
		from, err := time.Parse(scheduleDateLayout, raw)
		if err != nil {
			return nil, appointmentdomain.ErrInvalidSchedule
		}
		filter.From = &from
	}
	if raw := strings.TrimSpace(req.To); raw != "" {
		to, err := time.Parse(scheduleDateLayout, raw)
		if err != nil {
			return nil, appointmentdomain.ErrInvalidSchedule
		}
		exclusive := to.AddDate(0, 0, 1)
		filter.To = &exclusive
	}

	return s.list(ctx, filter)
}

// ListToday returns the schedule for the current UTC day.
func (s *service) ListToday(ctx context.Context) (*appointmentdomain.ListResponse, error) {
	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)
	return s.list(ctx, appointmentdomain.ListFilter{From: &from, To: &to, Size: 100})
}

func (s *service) list(ctx context.Context, filter appointmentdomain.ListFilter) (*appointmentdomain.ListResponse, error) {
	appointments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]appointmentdomain.Response, 0, len(appointments))
	for _, appointment := range appointments {
		responses = append(responses, toResponse(appointment))
	}
	return &appointmentdomain.ListResponse{Appointments: responses, Total: total}, nil
}

// Update replaces the appointment wholesale and reprices it from the
// supplied total under the same policy as submission.
func (s *service) Update(ctx context.Context, id string, req appointmentdomain.UpdateRequest) (*appointmentdomain.Response, error) {
	appointment, err := s.findByStringID(ctx, id)
	if err != nil {
		return nil, err
	}

	scheduleDate, err := parseSchedule(req.ScheduleDate, req.ScheduleTime)
	if err != nil {
		return nil, err
	}

	doctor, err := s.staff.FindByID(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, appointmentdomain.ErrDoctorNotFound
	}
	if !doctor.IsDoctor() {
		return nil, appointmentdomain.ErrNotADoctor
	}

	combinedRate, err := s.rates.CombinedRatio(ctx, s.taxCode(req.TaxCode))
	if err != nil {
		return nil, err
	}
	result := billing.Compute([]decimal.Decimal{req.Total}, req.Discount, []decimal.Decimal{combinedRate}, req.PayingAmount)

	appointment.PatientID = req.PatientID
	appointment.DoctorID = req.DoctorID
	appointment.ScheduleDate = scheduleDate
	appointment.ScheduleTime = req.ScheduleTime
	appointment.Total = result.Subtotal
	appointment.Discount = result.Discount
	appointment.Tax = result.TaxAmount
	appointment.GrandTotal = result.GrandTotal
	appointment.PayingAmount = result.PayingAmount
	appointment.Balance = result.Balance
	appointment.UpdatedAt = time.Now().UTC()
	appointment.Patient = nil
	appointment.Doctor = nil

	if err := s.db.WithContext(ctx).Save(appointment).Error; err != nil {
		return nil, err
	}

	appointment.Doctor = doctor
	resp := toResponse(*appointment)
	return &resp, nil
}

// Delete removes the appointment row only. Assignments and payments
// created alongside it stay behind as historical records.
func (s *service) Delete(ctx context.Context, id string) error {
	parsed, err := parseID(id)
	if err != nil {
		return appointmentdomain.ErrInvalidID
	}

	res := s.db.WithContext(ctx).Delete(&appointmentdomain.Appointment{}, "id = ?", parsed)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return appointmentdomain.ErrNotFound
	}
	return nil
}

// taxCode prefers the request override and falls back to the billing
// config policy.
func (s *service) taxCode(override string) string {
	if code := strings.TrimSpace(override); code != "" {
		return code
	}
	return s.billing.Get().TaxCode
}

func (s *service) findByStringID(ctx context.Context, raw string) (*appointmentdomain.Appointment, error) {
	parsed, err := parseID(raw)
	if err != nil {
		return nil, appointmentdomain.ErrInvalidID
	}
	appointment, err := s.repo.FindByID(ctx, parsed)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, appointmentdomain.ErrNotFound
	}
	return appointment, nil
}

func parseID(raw string) (snowflake.ID, error) {
	parsed, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, err
	}
	return snowflake.ID(parsed), nil
}

func parseSchedule(date, clock string) (time.Time, error) {
	parsed, err := time.Parse(scheduleDateLayout, strings.TrimSpace(date))
	if err != nil {
		return time.Time{}, appointmentdomain.ErrInvalidSchedule
	}
	if _, err := time.Parse(scheduleTimeLayout, strings.TrimSpace(clock)); err != nil {
		return time.Time{}, appointmentdomain.ErrInvalidSchedule
	}
	return parsed, nil
}

func paymentMetadata(appointmentID, assignmentID snowflake.ID) datatypes.JSON {
	raw, _ := json.Marshal(map[string]string{
		"appointment_id":        appointmentID.String(),
		"service_assignment_id": assignmentID.String(),
	})
	return datatypes.JSON(raw)
}

func toResponse(appointment appointmentdomain.Appointment) appointmentdomain.Response {
	resp := appointmentdomain.Response{
		ID:           appointment.ID,
		PatientID:    appointment.PatientID,
		DoctorID:     appointment.DoctorID,
		ScheduleDate: appointment.ScheduleDate.Format(scheduleDateLayout),
		ScheduleTime: appointment.ScheduleTime,
		Billing: billing.Result{
			Subtotal:     appointment.Total,
			Discount:     appointment.Discount,
			TaxAmount:    appointment.Tax,
			GrandTotal:   appointment.GrandTotal,
			PayingAmount: appointment.PayingAmount,
			Balance:      appointment.Balance,
		},
		CreatedAt: appointment.CreatedAt,
	}
	if appointment.Patient != nil {
		resp.PatientName = appointment.Patient.FullName
	}
	if appointment.Doctor != nil {
		resp.DoctorName = appointment.Doctor.FullName
	}
	return resp
}
