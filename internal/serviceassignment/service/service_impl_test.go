package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	appointmentdomain "github.com/clinica-labs/clinica/internal/appointment/domain"
	appointmentrepo "github.com/clinica-labs/clinica/internal/appointment/repository"
	catalogdomain "github.com/clinica-labs/clinica/internal/catalog/domain"
	catalogrepo "github.com/clinica-labs/clinica/internal/catalog/repository"
	"github.com/clinica-labs/clinica/internal/config"
	patientdomain "github.com/clinica-labs/clinica/internal/patient/domain"
	paymentdomain "github.com/clinica-labs/clinica/internal/payment/domain"
	saddomain "github.com/clinica-labs/clinica/internal/serviceassignment/domain"
	sadrepo "github.com/clinica-labs/clinica/internal/serviceassignment/repository"
	staffdomain "github.com/clinica-labs/clinica/internal/staff/domain"
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
	db          *gorm.DB
	node        *snowflake.Node
	svc         saddomain.Service
	appointment appointmentdomain.Appointment
	bloodPanel  catalogdomain.ServiceType
	xray        catalogdomain.ServiceType
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

	patient := patientdomain.Patient{ID: node.Generate(), FullName: "Ravi Kumar", PhoneNumber: "555-0101", Gender: "male"}
	require.NoError(t, db.Create(&patient).Error)

	doctorType := staffdomain.StaffType{ID: node.Generate(), Name: "Doctor", IsDoctor: true}
	require.NoError(t, db.Create(&doctorType).Error)
	doctor := staffdomain.Staff{ID: node.Generate(), FullName: "Dr. Asha Verma", Status: staffdomain.StaffStatusActive, StaffTypeID: doctorType.ID}
	require.NoError(t, db.Create(&doctor).Error)

	appointment := appointmentdomain.Appointment{
		ID:           node.Generate(),
		PatientID:    patient.ID,
		DoctorID:     doctor.ID,
		ScheduleTime: "10:00",
	}
	require.NoError(t, db.Create(&appointment).Error)

	catalogService := catalogdomain.Service{ID: node.Generate(), Name: "Laboratory"}
	require.NoError(t, db.Create(&catalogService).Error)
	bloodPanel := catalogdomain.ServiceType{ID: node.Generate(), Name: "Blood Panel", Cost: decimal.NewFromInt(50), ServiceID: catalogService.ID}
	require.NoError(t, db.Create(&bloodPanel).Error)
	xray := catalogdomain.ServiceType{ID: node.Generate(), Name: "X-Ray", Cost: decimal.NewFromInt(120), ServiceID: catalogService.ID}
	require.NoError(t, db.Create(&xray).Error)

	svc := NewService(Params{
		Log:          zap.NewNop(),
		GenID:        node,
		DB:           db,
		Repo:         sadrepo.NewRepository(db),
		Appointments: appointmentrepo.NewRepository(db),
		Catalog:      catalogrepo.NewRepository(db),
		Rates:        &staticResolver{ratio: ratio},
		Billing:      config.NewStaticBillingConfigHolder(config.DefaultBillingConfig()),
	})

	return &testEnv{db: db, node: node, svc: svc, appointment: appointment, bloodPanel: bloodPanel, xray: xray}
}

func TestCreateInheritsDoctorAndSnapshotsCosts(t *testing.T) {
	env := newTestEnv(t, "file:sad_create?mode=memory&cache=shared", decimal.NewFromInt(10))

	resp, err := env.svc.Create(context.Background(), saddomain.CreateRequest{
		AppointmentID:  env.appointment.ID,
		ServiceTypeIDs: []snowflake.ID{env.bloodPanel.ID, env.xray.ID},
		Discount:       decimal.NewFromInt(20),
		PayingAmount:   decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	// 50 + 120 = 170, less 20 discount, 10% tax on 150: grand 165.00.
	assert.Equal(t, env.appointment.DoctorID, resp.DoctorID)
	assert.True(t, resp.Billing.Subtotal.Equal(decimal.NewFromInt(170)))
	assert.True(t, resp.Billing.TaxAmount.Equal(decimal.NewFromInt(15)))
	assert.True(t, resp.Billing.GrandTotal.Equal(decimal.NewFromInt(165)))
	assert.True(t, resp.Billing.Balance.Equal(decimal.NewFromInt(65)))
	require.Len(t, resp.Details, 2)

	// Later price changes must not rewrite the stored snapshot.
	require.NoError(t, env.db.Model(&catalogdomain.ServiceType{}).
		Where("id = ?", env.bloodPanel.ID).
		Update("cost", decimal.NewFromInt(500)).Error)

	stored, err := env.svc.GetByAppointment(context.Background(), env.appointment.ID.String())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	for _, detail := range stored[0].Details {
		if detail.ServiceTypeID == env.bloodPanel.ID {
			assert.True(t, detail.Cost.Equal(decimal.NewFromInt(50)), "snapshot cost %s", detail.Cost)
		}
	}

	var payment paymentdomain.Payment
	require.NoError(t, env.db.First(&payment).Error)
	assert.Equal(t, paymentdomain.ScopeService, payment.Scope)
	assert.Equal(t, env.appointment.PatientID, payment.PatientID)
}

func TestCreateRequiresExistingAppointment(t *testing.T) {
	env := newTestEnv(t, "file:sad_noappt?mode=memory&cache=shared", decimal.Zero)

	_, err := env.svc.Create(context.Background(), saddomain.CreateRequest{
		AppointmentID:  snowflake.ID(999),
		ServiceTypeIDs: []snowflake.ID{env.bloodPanel.ID},
	})
	assert.ErrorIs(t, err, saddomain.ErrAppointmentMissing)
}

func TestCreateRejectsWhenNoServiceResolves(t *testing.T) {
	env := newTestEnv(t, "file:sad_noservices?mode=memory&cache=shared", decimal.Zero)

	_, err := env.svc.Create(context.Background(), saddomain.CreateRequest{
		AppointmentID:  env.appointment.ID,
		ServiceTypeIDs: []snowflake.ID{snowflake.ID(999)},
	})
	assert.ErrorIs(t, err, saddomain.ErrNoValidServices)

	var assignmentCount int64
	env.db.Model(&saddomain.ServiceAssignment{}).Count(&assignmentCount)
	assert.EqualValues(t, 0, assignmentCount)
}

func TestCreateRollsBackWhenPaymentInsertFails(t *testing.T) {
	env := newTestEnv(t, "file:sad_rollback?mode=memory&cache=shared", decimal.Zero)

	require.NoError(t, env.db.Migrator().DropTable(&paymentdomain.Payment{}))

	_, err := env.svc.Create(context.Background(), saddomain.CreateRequest{
		AppointmentID:  env.appointment.ID,
		ServiceTypeIDs: []snowflake.ID{env.bloodPanel.ID},
	})
	require.Error(t, err)

	var assignmentCount, detailCount int64
	env.db.Model(&saddomain.ServiceAssignment{}).Count(&assignmentCount)
	env.db.Model(&saddomain.ServiceAssignmentDetail{}).Count(&detailCount)
	assert.EqualValues(t, 0, assignmentCount)
	assert.EqualValues(t, 0, detailCount)
}

func TestDeleteRemovesAssignmentAndDetails(t *testing.T) {
	env := newTestEnv(t, "file:sad_delete?mode=memory&cache=shared", decimal.Zero)

	created, err := env.svc.Create(context.Background(), saddomain.CreateRequest{
		AppointmentID:  env.appointment.ID,
		ServiceTypeIDs: []snowflake.ID{env.bloodPanel.ID, env.xray.ID},
	})
	require.NoError(t, err)

	require.NoError(t, env.svc.Delete(context.Background(), created.ID.String()))

	var assignmentCount, detailCount int64
	env.db.Model(&saddomain.ServiceAssignment{}).Count(&assignmentCount)
	env.db.Model(&saddomain.ServiceAssignmentDetail{}).Count(&detailCount)
	assert.EqualValues(t, 0, assignmentCount)
	assert.EqualValues(t, 0, detailCount)

	err = env.svc.Delete(context.Background(), created.ID.String())
	assert.ErrorIs(t, err, saddomain.ErrNotFound)
}
