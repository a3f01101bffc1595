package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	staffdomain "github.com/clinica-labs/clinica/internal/staff/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) staffdomain.Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*staffdomain.Staff, error) {
	var staff staffdomain.Staff
	err := r.db.WithContext(ctx).
		Preload("StaffType").
		Preload("Specialization").
		First(&staff, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &staff, nil
}
