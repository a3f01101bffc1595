// Package seed bootstraps reference rows so a fresh install can book
// its first appointment without manual setup.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/clinica-labs/clinica/internal/catalog/domain"
	patientdomain "github.com/clinica-labs/clinica/internal/patient/domain"
	staffdomain "github.com/clinica-labs/clinica/internal/staff/domain"
	taxdomain "github.com/clinica-labs/clinica/internal/tax/domain"
	"github.com/clinica-labs/clinica/pkg/db"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	doctorTypeName       = "Doctor"
	nurseTypeName        = "Nurse"
	receptionistTypeName = "Receptionist"
	defaultTaxCode       = "VAT"
)

// EnsureDefaults seeds the staff role types and the default tax rate in
// one transaction. Existing rows are left untouched.
func EnsureDefaults(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureStaffTypes(tx, node); err != nil {
			return err
		}
		return ensureDefaultTaxRate(tx, node)
	})
}

func ensureStaffTypes(tx *gorm.DB, node *snowflake.Node) error {
	types := []struct {
		name     string
		isDoctor bool
	}{
		{doctorTypeName, true},
		{nurseTypeName, false},
		{receptionistTypeName, false},
	}

	for _, t := range types {
		var count int64
		if err := tx.Model(&staffdomain.StaffType{}).Where("name = ?", t.name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		row := staffdomain.StaffType{
			ID:       node.Generate(),
			Name:     t.name,
			IsDoctor: t.isDoctor,
		}
		// Two replicas can race the count check; the unique index on
		// name makes the loser's insert a harmless duplicate.
		if err := tx.Create(&row).Error; err != nil && !db.IsDuplicateKeyErr(err) {
			return err
		}
	}
	return nil
}

func ensureDefaultTaxRate(tx *gorm.DB, node *snowflake.Node) error {
	var count int64
	if err := tx.Model(&taxdomain.TaxRate{}).Where("code = ?", defaultTaxCode).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	rate := taxdomain.TaxRate{
		ID:        node.Generate(),
		Code:      defaultTaxCode,
		Name:      "Value Added Tax",
		Category:  "sales",
		Kind:      taxdomain.TaxKindPercentage,
		Ratio:     decimal.NewFromInt(5),
		IsDefault: true,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return tx.Create(&rate).Error
}

// EnsureDemoData seeds a doctor, a patient, and a small service catalog
// for local development. Skipped when any staff row already exists.
func EnsureDemoData(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&staffdomain.Staff{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		var doctorType staffdomain.StaffType
		if err := tx.Where("name = ?", doctorTypeName).First(&doctorType).Error; err != nil {
			return err
		}

		now := time.Now().UTC()

		specialization := staffdomain.Specialization{
			ID:               node.Generate(),
			Name:             "General Medicine",
			ConsultationCost: decimal.NewFromInt(200),
		}
		if err := tx.Create(&specialization).Error; err != nil {
			return err
		}

		doctor := staffdomain.Staff{
			ID:               node.Generate(),
			FullName:         "Dr. Asha Verma",
			Status:           staffdomain.StaffStatusActive,
			StaffTypeID:      doctorType.ID,
			SpecializationID: &specialization.ID,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := tx.Create(&doctor).Error; err != nil {
			return err
		}

		patient := patientdomain.Patient{
			ID:          node.Generate(),
			FullName:    "Ravi Kumar",
			PhoneNumber: "555-0101",
			Gender:      "male",
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.Create(&patient).Error; err != nil {
			return err
		}

		service := catalogdomain.Service{
			ID:        node.Generate(),
			Name:      "Laboratory",
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Create(&service).Error; err != nil {
			return err
		}

		serviceTypes := []catalogdomain.ServiceType{
			{ID: node.Generate(), Name: "Blood Panel", Cost: decimal.NewFromInt(50), ServiceID: service.ID, CreatedAt: now, UpdatedAt: now},
			{ID: node.Generate(), Name: "X-Ray", Cost: decimal.NewFromInt(120), ServiceID: service.ID, CreatedAt: now, UpdatedAt: now},
		}
		for i := range serviceTypes {
			if err := tx.Create(&serviceTypes[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
