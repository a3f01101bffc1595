package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	taxdomain "github.com/clinica-labs/clinica/internal/tax/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) taxdomain.Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, rate *taxdomain.TaxRate) error {
	return r.db.WithContext(ctx).Create(rate).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*taxdomain.TaxRate, error) {
	var rate taxdomain.TaxRate
	err := r.db.WithContext(ctx).First(&rate, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &rate, nil
}

func (r *repository) FindActiveByCode(ctx context.Context, code string) ([]taxdomain.TaxRate, error) {
	var rates []taxdomain.TaxRate
	err := r.db.WithContext(ctx).
		Where("code = ? AND is_active = ?", strings.TrimSpace(code), true).
		Order("id ASC").
		Find(&rates).Error
	if err != nil {
		return nil, err
	}
	return rates, nil
}

func (r *repository) List(ctx context.Context, filter taxdomain.ListRequest) ([]taxdomain.TaxRate, error) {
	var rates []taxdomain.TaxRate
	stmt := r.db.WithContext(ctx).Model(&taxdomain.TaxRate{})

	if filter.Code != "" {
		stmt = stmt.Where("code = ?", filter.Code)
	}
	if filter.Name != "" {
		stmt = stmt.Where("name = ?", filter.Name)
	}
	if filter.IsActive != nil {
		stmt = stmt.Where("is_active = ?", *filter.IsActive)
	}

	if err := stmt.Order("created_at ASC").Find(&rates).Error; err != nil {
		return nil, err
	}
	return rates, nil
}

func (r *repository) Update(ctx context.Context, rate *taxdomain.TaxRate) error {
	return r.db.WithContext(ctx).
		Model(&taxdomain.TaxRate{}).
		Where("id = ?", rate.ID).
		Updates(map[string]any{
			"name":       rate.Name,
			"category":   rate.Category,
			"kind":       rate.Kind,
			"ratio":      rate.Ratio,
			"is_active":  rate.IsActive,
			"updated_at": rate.UpdatedAt,
		}).Error
}
