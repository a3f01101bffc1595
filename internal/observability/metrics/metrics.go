package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	appointmentsSubmitted metric.Int64Counter
	assignmentsCreated    metric.Int64Counter
	paymentsRecorded      metric.Int64Counter
	billingRollbacks      metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "clinica"
	}
	meter := provider.Meter(name)

	appointmentsSubmitted, err := meter.Int64Counter("clinica_appointments_submitted_total")
	if err != nil {
		return nil, err
	}
	assignmentsCreated, err := meter.Int64Counter("clinica_service_assignments_created_total")
	if err != nil {
		return nil, err
	}
	paymentsRecorded, err := meter.Int64Counter("clinica_payments_recorded_total")
	if err != nil {
		return nil, err
	}
	billingRollbacks, err := meter.Int64Counter("clinica_billing_rollbacks_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		appointmentsSubmitted: appointmentsSubmitted,
		assignmentsCreated:    assignmentsCreated,
		paymentsRecorded:      paymentsRecorded,
		billingRollbacks:      billingRollbacks,
	}, nil
}

// RecordAppointmentSubmitted increments the submitted appointment count.
func (m *Metrics) RecordAppointmentSubmitted(ctx context.Context) {
	if m == nil {
		return
	}
	m.appointmentsSubmitted.Add(ctx, 1)
}

// RecordAssignmentCreated increments the service assignment count.
func (m *Metrics) RecordAssignmentCreated(ctx context.Context) {
	if m == nil {
		return
	}
	m.assignmentsCreated.Add(ctx, 1)
}

// RecordPayment increments the payment ledger count by scope.
func (m *Metrics) RecordPayment(ctx context.Context, scope string) {
	if m == nil {
		return
	}
	m.paymentsRecorded.Add(ctx, 1, metric.WithAttributes(
		attribute.String("scope", strings.TrimSpace(scope)),
	))
}

// RecordBillingRollback increments the rollback count for a workflow.
func (m *Metrics) RecordBillingRollback(ctx context.Context, workflow string) {
	if m == nil {
		return
	}
	m.billingRollbacks.Add(ctx, 1, metric.WithAttributes(
		attribute.String("workflow", strings.TrimSpace(workflow)),
	))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(protocol)) {
	case "http", "http/protobuf":
		return otlpmetrichttp.New(context.Background(),
			otlpmetrichttp.WithEndpoint(endpoint),
			otlpmetrichttp.WithInsecure(),
		)
	case "grpc", "":
		return otlpmetricgrpc.New(context.Background(),
			otlpmetricgrpc.WithEndpoint(endpoint),
			otlpmetricgrpc.WithInsecure(),
		)
	default:
		return nil, fmt.Errorf("unsupported otlp protocol %q", protocol)
	}
}
