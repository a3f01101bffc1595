package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	appointmentdomain "github.com/clinica-labs/clinica/internal/appointment/domain"
	"github.com/clinica-labs/clinica/internal/config"
	patientdomain "github.com/clinica-labs/clinica/internal/patient/domain"
	patientrepo "github.com/clinica-labs/clinica/internal/patient/repository"
	paymentdomain "github.com/clinica-labs/clinica/internal/payment/domain"
	paymentrepo "github.com/clinica-labs/clinica/internal/payment/repository"
	saddomain "github.com/clinica-labs/clinica/internal/serviceassignment/domain"
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

func newTestEnv(t *testing.T, dsn string, ratio decimal.Decimal) (*gorm.DB, *snowflake.Node, paymentdomain.Service, patientdomain.Patient) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&patientdomain.Patient{},
		&appointmentdomain.Appointment{},
		&saddomain.ServiceAssignment{},
		&paymentdomain.Payment{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	patient := patientdomain.Patient{ID: node.Generate(), FullName: "Ravi Kumar", PhoneNumber: "555-0101", Gender: "male"}
	require.NoError(t, db.Create(&patient).Error)

	svc := NewService(Params{
		Log:      zap.NewNop(),
		GenID:    node,
		Repo:     paymentrepo.NewRepository(db),
		Patients: patientrepo.NewRepository(db),
		Rates:    &staticResolver{ratio: ratio},
		Billing:  config.NewStaticBillingConfigHolder(config.DefaultBillingConfig()),
	})

	return db, node, svc, patient
}

func TestProcessAppliesSharedBillingPolicy(t *testing.T) {
	_, _, svc, patient := newTestEnv(t, "file:pay_process?mode=memory&cache=shared", decimal.NewFromInt(10))

	resp, err := svc.Process(context.Background(), paymentdomain.ProcessRequest{
		PatientID:    patient.ID,
		Total:        decimal.NewFromInt(200),
		Discount:     decimal.NewFromInt(50),
		PayingAmount: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	assert.Equal(t, paymentdomain.ScopeAll, resp.Scope)
	assert.True(t, resp.Billing.TaxAmount.Equal(decimal.NewFromInt(15)))
	assert.True(t, resp.Billing.GrandTotal.Equal(decimal.NewFromInt(165)))
	assert.True(t, resp.Billing.Balance.Equal(decimal.NewFromInt(65)))
}

func TestProcessAllowsOverpayment(t *testing.T) {
	_, _, svc, patient := newTestEnv(t, "file:pay_overpay?mode=memory&cache=shared", decimal.Zero)

	resp, err := svc.Process(context.Background(), paymentdomain.ProcessRequest{
		PatientID:    patient.ID,
		Scope:        paymentdomain.ScopeAppointment,
		Total:        decimal.NewFromInt(100),
		PayingAmount: decimal.NewFromInt(150),
	})
	require.NoError(t, err)
	assert.True(t, resp.Billing.Balance.Equal(decimal.NewFromInt(-50)), "balance %s", resp.Billing.Balance)
}

func TestProcessRejectsUnknownPatient(t *testing.T) {
	_, _, svc, _ := newTestEnv(t, "file:pay_nopatient?mode=memory&cache=shared", decimal.Zero)

	_, err := svc.Process(context.Background(), paymentdomain.ProcessRequest{
		PatientID: snowflake.ID(999),
		Total:     decimal.NewFromInt(10),
	})
	assert.ErrorIs(t, err, paymentdomain.ErrInvalidPatient)
}

func TestPatientDuesCollectsOutstandingBalances(t *testing.T) {
	db, node, svc, patient := newTestEnv(t, "file:pay_dues?mode=memory&cache=shared", decimal.Zero)

	paid := appointmentdomain.Appointment{
		ID:        node.Generate(),
		PatientID: patient.ID,
		DoctorID:  node.Generate(),
		Balance:   decimal.Zero,
	}
	require.NoError(t, db.Create(&paid).Error)

	owing := appointmentdomain.Appointment{
		ID:         node.Generate(),
		PatientID:  patient.ID,
		DoctorID:   paid.DoctorID,
		GrandTotal: decimal.NewFromInt(253),
		Balance:    decimal.NewFromInt(103),
	}
	require.NoError(t, db.Create(&owing).Error)

	assignment := saddomain.ServiceAssignment{
		ID:            node.Generate(),
		AppointmentID: owing.ID,
		DoctorID:      owing.DoctorID,
		GrandTotal:    decimal.NewFromInt(165),
		Balance:       decimal.NewFromInt(65),
	}
	require.NoError(t, db.Create(&assignment).Error)

	resp, err := svc.PatientDues(context.Background(), patient.ID.String())
	require.NoError(t, err)

	require.Len(t, resp.Dues, 2)
	assert.True(t, resp.TotalDue.Equal(decimal.NewFromInt(168)), "total due %s", resp.TotalDue)
}

func TestListFiltersByScope(t *testing.T) {
	_, _, svc, patient := newTestEnv(t, "file:pay_list?mode=memory&cache=shared", decimal.Zero)

	_, err := svc.Process(context.Background(), paymentdomain.ProcessRequest{
		PatientID: patient.ID,
		Scope:     paymentdomain.ScopeAppointment,
		Total:     decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	_, err = svc.Process(context.Background(), paymentdomain.ProcessRequest{
		PatientID: patient.ID,
		Scope:     paymentdomain.ScopeAll,
		Total:     decimal.NewFromInt(40),
	})
	require.NoError(t, err)

	resp, err := svc.List(context.Background(), paymentdomain.ListRequest{
		PatientID: patient.ID.String(),
		Scope:     string(paymentdomain.ScopeAppointment),
	})
	require.NoError(t, err)
	require.Len(t, resp.Payments, 1)
	assert.EqualValues(t, 1, resp.Total)
}
