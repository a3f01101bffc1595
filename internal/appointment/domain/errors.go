package domain

import "errors"

var (
	ErrInvalidID       = errors.New("invalid_appointment_id")
	ErrNotFound        = errors.New("appointment_not_found")
	ErrDoctorNotFound  = errors.New("doctor_not_found")
	ErrNotADoctor      = errors.New("staff_member_is_not_a_doctor")
	ErrPatientNotFound = errors.New("patient_not_found")
	ErrNoValidServices = errors.New("no_valid_services_selected")
	ErrInvalidSchedule = errors.New("invalid_schedule")
)
