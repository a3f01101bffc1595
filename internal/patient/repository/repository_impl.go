package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	patientdomain "github.com/clinica-labs/clinica/internal/patient/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) patientdomain.Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*patientdomain.Patient, error) {
	var patient patientdomain.Patient
	err := r.db.WithContext(ctx).First(&patient, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}
