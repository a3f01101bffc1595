package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/clinica-labs/clinica/internal/billing"
	"github.com/clinica-labs/clinica/internal/config"
	"github.com/clinica-labs/clinica/internal/observability/metrics"
	patientdomain "github.com/clinica-labs/clinica/internal/patient/domain"
	paymentdomain "github.com/clinica-labs/clinica/internal/payment/domain"
	taxdomain "github.com/clinica-labs/clinica/internal/tax/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     paymentdomain.Repository
	Patients patientdomain.Repository
	Rates    taxdomain.RateResolver
	Billing  *config.BillingConfigHolder
	Metrics  *metrics.Metrics `optional:"true"`
}

type service struct {
	log      *zap.Logger
	genID    *snowflake.Node
	repo     paymentdomain.Repository
	patients patientdomain.Repository
	rates    taxdomain.RateResolver
	billing  *config.BillingConfigHolder
	metrics  *metrics.Metrics
}

func NewService(p Params) paymentdomain.Service {
	return &service{
		log:      p.Log.Named("payment.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		patients: p.Patients,
		rates:    p.Rates,
		billing:  p.Billing,
		metrics:  p.Metrics,
	}
}

// Process records a free-standing payment. The supplied total is priced
// as a single line item under the shared billing policy, so the receipt
// carries the same tax and balance math as every other billed row.
func (s *service) Process(ctx context.Context, req paymentdomain.ProcessRequest) (*paymentdomain.Response, error) {
	patient, err := s.patients.FindByID(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, paymentdomain.ErrInvalidPatient
	}

	scope := req.Scope
	if scope == "" {
		scope = paymentdomain.ScopeAll
	}

	combinedRate, err := s.rates.CombinedRatio(ctx, s.taxCode(req.TaxCode))
	if err != nil {
		return nil, err
	}

	result := billing.Compute([]decimal.Decimal{req.Total}, req.Discount, []decimal.Decimal{combinedRate}, req.PayingAmount)

	now := time.Now().UTC()
	payment := paymentdomain.Payment{
		ID:           s.genID.Generate(),
		PatientID:    req.PatientID,
		Scope:        scope,
		Date:         now,
		Total:        result.Subtotal,
		Discount:     result.Discount,
		Tax:          result.TaxAmount,
		GrandTotal:   result.GrandTotal,
		PayingAmount: result.PayingAmount,
		Balance:      result.Balance,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, &payment); err != nil {
		return nil, err
	}

	s.metrics.RecordPayment(ctx, string(scope))
	s.log.Info("payment recorded",
		zap.String("payment_id", payment.ID.String()),
		zap.String("scope", string(scope)),
		zap.String("grand_total", result.GrandTotal.String()),
	)

	resp := toResponse(payment)
	return &resp, nil
}

func (s *service) List(ctx context.Context, req paymentdomain.ListRequest) (*paymentdomain.ListResponse, error) {
	filter := paymentdomain.ListFilter{Page: req.Page, Size: req.Size}

	if raw := strings.TrimSpace(req.PatientID); raw != "" {
		parsed, err := parseID(raw)
		if err != nil {
			return nil, paymentdomain.ErrInvalidPatient
		}
		filter.PatientID = &parsed
	}
	if raw := strings.TrimSpace(req.Scope); raw != "" {
		scope := paymentdomain.Scope(raw)
		filter.Scope = &scope
	}

	payments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]paymentdomain.Response, 0, len(payments))
	for _, payment := range payments {
		responses = append(responses, toResponse(payment))
	}
	return &paymentdomain.ListResponse{Payments: responses, Total: total}, nil
}

func (s *service) PatientDues(ctx context.Context, patientID string) (*paymentdomain.DuesResponse, error) {
	parsed, err := parseID(patientID)
	if err != nil {
		return nil, paymentdomain.ErrInvalidPatient
	}

	patient, err := s.patients.FindByID(ctx, parsed)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, paymentdomain.ErrInvalidPatient
	}

	dues, err := s.repo.DuesByPatient(ctx, parsed)
	if err != nil {
		return nil, err
	}

	totalDue := decimal.Zero
	for _, due := range dues {
		totalDue = totalDue.Add(due.Balance)
	}
	return &paymentdomain.DuesResponse{PatientID: parsed, Dues: dues, TotalDue: totalDue}, nil
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

func toResponse(payment paymentdomain.Payment) paymentdomain.Response {
	return paymentdomain.Response{
		ID:        payment.ID,
		PatientID: payment.PatientID,
		Scope:     payment.Scope,
		Date:      payment.Date,
		Billing: billing.Result{
			Subtotal:     payment.Total,
			Discount:     payment.Discount,
			TaxAmount:    payment.Tax,
			GrandTotal:   payment.GrandTotal,
			PayingAmount: payment.PayingAmount,
			Balance:      payment.Balance,
		},
		CreatedAt: payment.CreatedAt,
	}
}
