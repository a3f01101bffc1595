package domain

import "errors"

var (
	ErrInvalidID          = errors.New("invalid_service_assignment_id")
	ErrNotFound           = errors.New("service_assignment_not_found")
	ErrAppointmentMissing = errors.New("appointment_not_found")
	ErrNoValidServices    = errors.New("no_valid_services_selected")
)
