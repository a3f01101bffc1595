package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	appointmentdomain "github.com/clinica-labs/clinica/internal/appointment/domain"
	appointmentrepo "github.com/clinica-labs/clinica/internal/appointment/repository"
	catalogdomain "github.com/clinica-labs/clinica/internal/catalog/domain"
	catalogrepo "github.com/clinica-labs/clinica/internal/catalog/repository"
	"github.com/clinica-labs/clinica/internal/config"
	patientdomain "github.com/clinica-labs/clinica/internal/patient/domain"
	patientrepo "github.com/clinica-labs/clinica/internal/patient/repository"
	paymentdomain "github.com/clinica-labs/clinica/internal/payment/domain"
	saddomain "github.com/clinica-labs/clinica/internal/serviceassignment/domain"
	staffdomain "github.com/clinica-labs/clinica/internal/staff/domain"
	staffrepo "github.com/clinica-labs/clinica/internal/staff/repository"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type staticResolver struct {
	ratio decimal.Decimal
}

func (r *staticResolver) CombinedRatio(ctx context.Context, code string) (decimal.Decimal, error) {
	_ = ctx
	_ = code
	return r.ratio, nil
}

type testEnv struct {
	db      *gorm.DB
	node    *snowflake.Node
	svc     appointmentdomain.Service
	doctor  staffdomain.Staff
	patient patientdomain.Patient
	lab     catalogdomain.ServiceType
}

func newTestEnv(t *testing.T, dsn string, ratio decimal.Decimal) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&patientdomain.Patient{},
		&staffdomain.StaffType{},
		&staffdomain.Specialization{},
		&staffdomain.Staff{},
		&catalogdomain.Service{},
		&catalogdomain.ServiceType{},
		&appointmentdomain.Appointment{},
		&saddomain.ServiceAssignment{},
		&saddomain.ServiceAssignmentDetail{},
		&paymentdomain.Payment{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	doctorType := staffdomain.StaffType{ID: node.Generate(), Name: "Doctor", IsDoctor: true}
	require.NoError(t, db.Create(&doctorType).Error)

	specialization := staffdomain.Specialization{
		ID:               node.Generate(),
		Name:             "General Medicine",
		ConsultationCost: decimal.NewFromInt(200),
	}
	require.NoError(t, db.Create(&specialization).Error)

	doctor := staffdomain.Staff{
		ID:               node.Generate(),
		FullName:         "Dr. Asha Verma",
		Status:           staffdomain.StaffStatusActive,
		StaffTypeID:      doctorType.ID,
		SpecializationID: &specialization.ID,
	}
	require.NoError(t, db.Create(&doctor).Error)

	patient := patientdomain.Patient{
		ID:          node.Generate(),
		FullName:    "Ravi Kumar",
		PhoneNumber: "555-0101",
		Gender:      "male",
	}
	require.NoError(t, db.Create(&patient).Error)

	catalogService := catalogdomain.Service{ID: node.Generate(), Name: "Laboratory"}
	require.NoError(t, db.Create(&catalogService).Error)

	lab := catalogdomain.ServiceType{
		ID:        node.Generate(),
		Name:      "Blood Panel",
		Cost:      decimal.NewFromInt(50),
		ServiceID: catalogService.ID,
	}
	require.NoError(t, db.Create(&lab).Error)

	svc := NewService(Params{
		Log:      zap.NewNop(),
		GenID:    node,
		DB:       db,
		Repo:     appointmentrepo.NewRepository(db),
		Staff:    staffrepo.NewRepository(db),
		Patients: patientrepo.NewRepository(db),
		Catalog:  catalogrepo.NewRepository(db),
		Rates:    &staticResolver{ratio: ratio},
		Billing:  config.NewStaticBillingConfigHolder(config.DefaultBillingConfig()),
	})

	return &testEnv{db: db, node: node, svc: svc, doctor: doctor, patient: patient, lab: lab}
}

func submitRequest(env *testEnv) appointmentdomain.SubmitRequest {
	return appointmentdomain.SubmitRequest{
		PatientID:      env.patient.ID,
		DoctorID:       env.doctor.ID,
		ScheduleDate:   time.Now().UTC().Format("2006-01-02"),
		ScheduleTime:   "10:30",
		ServiceTypeIDs: []snowflake.ID{env.lab.ID},
		Discount:       decimal.NewFromInt(20),
		PayingAmount:   decimal.NewFromInt(150),
	}
}

func TestSubmitComputesDiscountBeforeTax(t *testing.T) {
	env := newTestEnv(t, "file:appt_submit?mode=memory&cache=shared", decimal.NewFromInt(10))

	resp, err := env.svc.Submit(context.Background(), submitRequest(env))
	require.NoError(t, err)

	// 200 consultation + 50 service, 20 discount, 10% on the
	// discounted subtotal: tax 23.00, grand 253.00, balance 103.00.
	assert.True(t, resp.Billing.Subtotal.Equal(decimal.NewFromInt(250)), "subtotal %s", resp.Billing.Subtotal)
	assert.True(t, resp.Billing.TaxAmount.Equal(decimal.NewFromInt(23)), "tax %s", resp.Billing.TaxAmount)
	assert.True(t, resp.Billing.GrandTotal.Equal(decimal.NewFromInt(253)), "grand %s", resp.Billing.GrandTotal)
	assert.True(t, resp.Billing.Balance.Equal(decimal.NewFromInt(103)), "balance %s", resp.Billing.Balance)
	assert.Equal(t, env.patient.FullName, resp.PatientName)
	assert.Equal(t, env.doctor.FullName, resp.DoctorName)

	var appointmentCount, assignmentCount, detailCount, paymentCount int64
	env.db.Model(&appointmentdomain.Appointment{}).Count(&appointmentCount)
	env.db.Model(&saddomain.ServiceAssignment{}).Count(&assignmentCount)
	env.db.Model(&saddomain.ServiceAssignmentDetail{}).Count(&detailCount)
	env.db.Model(&paymentdomain.Payment{}).Count(&paymentCount)
	assert.EqualValues(t, 1, appointmentCount)
	assert.EqualValues(t, 1, assignmentCount)
	assert.EqualValues(t, 1, detailCount)
	assert.EqualValues(t, 1, paymentCount)

	var assignment saddomain.ServiceAssignment
	require.NoError(t, env.db.First(&assignment).Error)
	assert.True(t, assignment.Total.Equal(decimal.NewFromInt(50)), "assignment total %s", assignment.Total)
	assert.Equal(t, env.doctor.ID, assignment.DoctorID)

	var payment paymentdomain.Payment
	require.NoError(t, env.db.First(&payment).Error)
	assert.Equal(t, paymentdomain.ScopeAppointment, payment.Scope)
	assert.True(t, payment.GrandTotal.Equal(decimal.NewFromInt(253)))
}

func TestSubmitRejectsNonDoctor(t *testing.T) {
	env := newTestEnv(t, "file:appt_nondoctor?mode=memory&cache=shared", decimal.NewFromInt(10))

	nurseType := staffdomain.StaffType{ID: env.node.Generate(), Name: "Nurse", IsDoctor: false}
	require.NoError(t, env.db.Create(&nurseType).Error)
	nurse := staffdomain.Staff{
		ID:          env.node.Generate(),
		FullName:    "Sam Lee",
		Status:      staffdomain.StaffStatusActive,
		StaffTypeID: nurseType.ID,
	}
	require.NoError(t, env.db.Create(&nurse).Error)

	req := submitRequest(env)
	req.DoctorID = nurse.ID

	_, err := env.svc.Submit(context.Background(), req)
	assert.ErrorIs(t, err, appointmentdomain.ErrNotADoctor)

	var appointmentCount int64
	env.db.Model(&appointmentdomain.Appointment{}).Count(&appointmentCount)
	assert.EqualValues(t, 0, appointmentCount)
}

func TestSubmitRejectsUnknownDoctor(t *testing.T) {
	env := newTestEnv(t, "file:appt_nodoctor?mode=memory&cache=shared", decimal.NewFromInt(10))

	req := submitRequest(env)
	req.DoctorID = snowflake.ID(999)

	_, err := env.svc.Submit(context.Background(), req)
	assert.ErrorIs(t, err, appointmentdomain.ErrDoctorNotFound)
}

func TestSubmitDropsUnknownServiceTypes(t *testing.T) {
	env := newTestEnv(t, "file:appt_dropids?mode=memory&cache=shared", decimal.Zero)

	req := submitRequest(env)
	req.ServiceTypeIDs = []snowflake.ID{env.lab.ID, snowflake.ID(999)}

	resp, err := env.svc.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, resp.Billing.Subtotal.Equal(decimal.NewFromInt(250)))

	var detailCount int64
	env.db.Model(&saddomain.ServiceAssignmentDetail{}).Count(&detailCount)
	assert.EqualValues(t, 1, detailCount)
}

func TestSubmitRejectsWhenNoServiceResolves(t *testing.T) {
	env := newTestEnv(t, "file:appt_noservices?mode=memory&cache=shared", decimal.Zero)

	req := submitRequest(env)
	req.ServiceTypeIDs = []snowflake.ID{snowflake.ID(999), snowflake.ID(1000)}

	_, err := env.svc.Submit(context.Background(), req)
	assert.ErrorIs(t, err, appointmentdomain.ErrNoValidServices)

	var appointmentCount int64
	env.db.Model(&appointmentdomain.Appointment{}).Count(&appointmentCount)
	assert.EqualValues(t, 0, appointmentCount)
}

func TestSubmitRollsBackWhenPaymentInsertFails(t *testing.T) {
	env := newTestEnv(t, "file:appt_rollback?mode=memory&cache=shared", decimal.NewFromInt(10))

	// Simulate a persistence failure on the last insert of the
	// transaction. The appointment row must not survive.
	require.NoError(t, env.db.Migrator().DropTable(&paymentdomain.Payment{}))

	_, err := env.svc.Submit(context.Background(), submitRequest(env))
	require.Error(t, err)

	var appointmentCount, assignmentCount int64
	env.db.Model(&appointmentdomain.Appointment{}).Count(&appointmentCount)
	env.db.Model(&saddomain.ServiceAssignment{}).Count(&assignmentCount)
	assert.EqualValues(t, 0, appointmentCount)
	assert.EqualValues(t, 0, assignmentCount)
}

func TestSubmitZeroRateChargesNoTax(t *testing.T) {
	env := newTestEnv(t, "file:appt_zerorate?mode=memory&cache=shared", decimal.Zero)

	resp, err := env.svc.Submit(context.Background(), submitRequest(env))
	require.NoError(t, err)
	assert.True(t, resp.Billing.TaxAmount.IsZero())
	assert.True(t, resp.Billing.GrandTotal.Equal(decimal.NewFromInt(230)))
}

func TestUpdateReplacesAndReprices(t *testing.T) {
	env := newTestEnv(t, "file:appt_update?mode=memory&cache=shared", decimal.NewFromInt(10))

	created, err := env.svc.Submit(context.Background(), submitRequest(env))
	require.NoError(t, err)

	updated, err := env.svc.Update(context.Background(), created.ID.String(), appointmentdomain.UpdateRequest{
		PatientID:    env.patient.ID,
		DoctorID:     env.doctor.ID,
		ScheduleDate: "2026-09-01",
		ScheduleTime: "14:00",
		Total:        decimal.NewFromInt(100),
		Discount:     decimal.Zero,
		PayingAmount: decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-09-01", updated.ScheduleDate)
	assert.True(t, updated.Billing.GrandTotal.Equal(decimal.NewFromInt(110)))
	assert.True(t, updated.Billing.Balance.Equal(decimal.NewFromInt(10)))
}

func TestDeleteRemovesOnlyAppointmentRow(t *testing.T) {
	env := newTestEnv(t, "file:appt_delete?mode=memory&cache=shared", decimal.NewFromInt(10))

	created, err := env.svc.Submit(context.Background(), submitRequest(env))
	require.NoError(t, err)

	require.NoError(t, env.svc.Delete(context.Background(), created.ID.String()))

	var appointmentCount, assignmentCount, paymentCount int64
	env.db.Model(&appointmentdomain.Appointment{}).Count(&appointmentCount)
	env.db.Model(&saddomain.ServiceAssignment{}).Count(&assignmentCount)
	env.db.Model(&paymentdomain.Payment{}).Count(&paymentCount)
	assert.EqualValues(t, 0, appointmentCount)
	assert.EqualValues(t, 1, assignmentCount)
	assert.EqualValues(t, 1, paymentCount)

	err = env.svc.Delete(context.Background(), created.ID.String())
	assert.ErrorIs(t, err, appointmentdomain.ErrNotFound)
}

func TestListTodayFiltersBySchedule(t *testing.T) {
	env := newTestEnv(t, "file:appt_today?mode=memory&cache=shared", decimal.Zero)

	_, err := env.svc.Submit(context.Background(), submitRequest(env))
	require.NoError(t, err)

	tomorrow := submitRequest(env)
	tomorrow.ScheduleDate = time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")
	_, err = env.svc.Submit(context.Background(), tomorrow)
	require.NoError(t, err)

	resp, err := env.svc.ListToday(context.Background())
	require.NoError(t, err)
	assert.Len(t, resp.Appointments, 1)
}
