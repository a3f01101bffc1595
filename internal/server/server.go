package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/clinica-labs/clinica/internal/appointment"
	appointmentdomain "github.com/clinica-labs/clinica/internal/appointment/domain"
	"github.com/clinica-labs/clinica/internal/catalog"
	"github.com/clinica-labs/clinica/internal/config"
	"github.com/clinica-labs/clinica/internal/observability"
	obsmiddleware "github.com/clinica-labs/clinica/internal/observability/logger"
	obsmetrics "github.com/clinica-labs/clinica/internal/observability/metrics"
	obstracing "github.com/clinica-labs/clinica/internal/observability/tracing"
	"github.com/clinica-labs/clinica/internal/patient"
	"github.com/clinica-labs/clinica/internal/payment"
	paymentdomain "github.com/clinica-labs/clinica/internal/payment/domain"
	"github.com/clinica-labs/clinica/internal/serviceassignment"
	saddomain "github.com/clinica-labs/clinica/internal/serviceassignment/domain"
	"github.com/clinica-labs/clinica/internal/staff"
	"github.com/clinica-labs/clinica/internal/tax"
	taxdomain "github.com/clinica-labs/clinica/internal/tax/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	staff.Module,
	patient.Module,
	catalog.Module,
	tax.Module,
	appointment.Module,
	serviceassignment.Module,
	payment.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine         *gin.Engine
	cfg            config.Config
	db             *gorm.DB
	genID          *snowflake.Node
	appointmentSvc appointmentdomain.Service
	assignmentSvc  saddomain.Service
	paymentSvc     paymentdomain.Service
	taxSvc         taxdomain.Service
}

type ServerParams struct {
	fx.In

	Gin            *gin.Engine
	Cfg            config.Config
	DB             *gorm.DB
	GenID          *snowflake.Node
	AppointmentSvc appointmentdomain.Service
	AssignmentSvc  saddomain.Service
	PaymentSvc     paymentdomain.Service
	TaxSvc         taxdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:         p.Gin,
		cfg:            p.Cfg,
		db:             p.DB,
		genID:          p.GenID,
		appointmentSvc: p.AppointmentSvc,
		assignmentSvc:  p.AssignmentSvc,
		paymentSvc:     p.PaymentSvc,
		taxSvc:         p.TaxSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	appointments := api.Group("/appointments")
	appointments.POST("/submit", s.SubmitAppointment)
	appointments.POST("", s.CreateAppointment)
	appointments.GET("", s.ListAppointments)
	appointments.GET("/today", s.ListTodayAppointments)
	appointments.GET("/:id", s.GetAppointment)
	appointments.PUT("/:id", s.UpdateAppointment)
	appointments.DELETE("/:id", s.DeleteAppointment)

	assignments := api.Group("/service-assignments")
	assignments.POST("", s.CreateServiceAssignment)
	assignments.GET("/by-appointment/:id", s.ListAssignmentsByAppointment)
	assignments.DELETE("/:id", s.DeleteServiceAssignment)

	payments := api.Group("/payments")
	payments.POST("", s.ProcessPayment)
	payments.GET("", s.ListPayments)
	payments.GET("/dues/:patientId", s.GetPatientDues)

	taxes := api.Group("/taxes")
	taxes.POST("", s.CreateTaxRate)
	taxes.GET("", s.ListTaxRates)
	taxes.PATCH("/:id", s.UpdateTaxRate)
	taxes.POST("/:id/disable", s.DisableTaxRate)
}
