package domain

import "errors"

var (
	ErrInvalidID      = errors.New("invalid_payment_id")
	ErrInvalidPatient = errors.New("invalid_patient_id")
	ErrNotFound       = errors.New("payment_not_found")
)
