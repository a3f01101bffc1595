package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	appointmentdomain "github.com/clinica-labs/clinica/internal/appointment/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) appointmentdomain.Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*appointmentdomain.Appointment, error) {
	var appointment appointmentdomain.Appointment
	err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Doctor").
		First(&appointment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *repository) List(ctx context.Context, filter appointmentdomain.ListFilter) ([]appointmentdomain.Appointment, int64, error) {
	query := r.db.WithContext(ctx).Model(&appointmentdomain.Appointment{})

	if filter.PatientID != nil {
		query = query.Where("patient_id = ?", *filter.PatientID)
	}
	if filter.DoctorID != nil {
		query = query.Where("doctor_id = ?", *filter.DoctorID)
	}
	if filter.From != nil {
		query = query.Where("schedule_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("schedule_date < ?", *filter.To)
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

	var appointments []appointmentdomain.Appointment
	err := query.
		Preload("Patient").
		Preload("Doctor").
		Order("schedule_date DESC, schedule_time DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&appointments).Error
	if err != nil {
		return nil, 0, err
	}
	return appointments, total, nil
}
