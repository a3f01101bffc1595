package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	saddomain "github.com/clinica-labs/clinica/internal/serviceassignment/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) saddomain.Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*saddomain.ServiceAssignment, error) {
	var assignment saddomain.ServiceAssignment
	err := r.db.WithContext(ctx).
		Preload("Details").
		First(&assignment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &assignment, nil
}

func (r *repository) FindByAppointment(ctx context.Context, appointmentID snowflake.ID) ([]saddomain.ServiceAssignment, error) {
	var assignments []saddomain.ServiceAssignment
	err := r.db.WithContext(ctx).
		Preload("Details").
		Where("appointment_id = ?", appointmentID).
		Order("id ASC").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}
