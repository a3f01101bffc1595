package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/clinica-labs/clinica/internal/catalog/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) catalogdomain.Repository {
	return &repository{db: db}
}

func (r *repository) FindTypesByIDs(ctx context.Context, ids []snowflake.ID) ([]catalogdomain.ServiceType, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var types []catalogdomain.ServiceType
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}
