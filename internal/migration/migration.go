// Package migration creates the schema on startup so the service is
// usable out of the box for local and self-hosted deployments.
package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	appointmentdomain "github.com/clinica-labs/clinica/internal/appointment/domain"
	catalogdomain "github.com/clinica-labs/clinica/internal/catalog/domain"
	patientdomain "github.com/clinica-labs/clinica/internal/patient/domain"
	paymentdomain "github.com/clinica-labs/clinica/internal/payment/domain"
	saddomain "github.com/clinica-labs/clinica/internal/serviceassignment/domain"
	staffdomain "github.com/clinica-labs/clinica/internal/staff/domain"
	taxdomain "github.com/clinica-labs/clinica/internal/tax/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"
)

// RunMigrations applies the embedded SQL migrations against postgres.
func RunMigrations(db *sql.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// Do not call migrator.Close here because it would close the shared *sql.DB.

	return nil
}

// AutoMigrate builds the schema through gorm for the dialects the SQL
// migrations do not cover (sqlite, mysql).
func AutoMigrate(conn *gorm.DB) error {
	if conn == nil {
		return errors.New("migration database handle is required")
	}

	return conn.AutoMigrate(
		&patientdomain.Patient{},
		&staffdomain.StaffType{},
		&staffdomain.Specialization{},
		&staffdomain.Staff{},
		&catalogdomain.Service{},
		&catalogdomain.ServiceType{},
		&taxdomain.TaxRate{},
		&appointmentdomain.Appointment{},
		&saddomain.ServiceAssignment{},
		&saddomain.ServiceAssignmentDetail{},
		&paymentdomain.Payment{},
	)
}
