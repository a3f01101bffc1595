package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	appointmentdomain "github.com/clinica-labs/clinica/internal/appointment/domain"
	paymentdomain "github.com/clinica-labs/clinica/internal/payment/domain"
	saddomain "github.com/clinica-labs/clinica/internal/serviceassignment/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) paymentdomain.Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, payment *paymentdomain.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *repository) List(ctx context.Context, filter paymentdomain.ListFilter) ([]paymentdomain.Payment, int64, error) {
	query := r.db.WithContext(ctx).Model(&paymentdomain.Payment{})

	if filter.PatientID != nil {
		query = query.Where("patient_id = ?", *filter.PatientID)
	}
	if filter.Scope != nil {
		query = query.Where("scope = ?", *filter.Scope)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.Size
	if size < 1 || size > 100 {
		size = 20
	}

	var payments []paymentdomain.Payment
	err := query.
		Order("date DESC, id DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&payments).Error
	if err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

// DuesByPatient collects outstanding balances from the appointment and
// assignment tables. Assignments carry no patient reference, so they
// are joined through their appointment.
func (r *repository) DuesByPatient(ctx context.Context, patientID snowflake.ID) ([]paymentdomain.Due, error) {
	var appointments []appointmentdomain.Appointment
	err := r.db.WithContext(ctx).
		Where("patient_id = ? AND balance > 0", patientID).
		Order("schedule_date ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}

	var assignments []saddomain.ServiceAssignment
	err = r.db.WithContext(ctx).
		Joins("JOIN appointments ON appointments.id = service_assignments.appointment_id").
		Where("appointments.patient_id = ? AND service_assignments.balance > 0", patientID).
		Order("service_assignments.date ASC").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}

	dues := make([]paymentdomain.Due, 0, len(appointments)+len(assignments))
	for _, appointment := range appointments {
		dues = append(dues, paymentdomain.Due{
			Source:     "appointment",
			SourceID:   appointment.ID,
			Date:       appointment.ScheduleDate,
			GrandTotal: appointment.GrandTotal,
			Balance:    appointment.Balance,
		})
	}
	for _, assignment := range assignments {
		dues = append(dues, paymentdomain.Due{
			Source:     "service_assignment",
			SourceID:   assignment.ID,
			Date:       assignment.Date,
			GrandTotal: assignment.GrandTotal,
			Balance:    assignment.Balance,
		})
	}
	return dues, nil
}
