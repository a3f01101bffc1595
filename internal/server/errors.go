package server

import (
	"errors"
	"net/http"
	"strings"

	appointmentdomain "github.com/clinica-labs/clinica/internal/appointment/domain"
	paymentdomain "github.com/clinica-labs/clinica/internal/payment/domain"
	saddomain "github.com/clinica-labs/clinica/internal/serviceassignment/domain"
	taxdomain "github.com/clinica-labs/clinica/internal/tax/domain"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := err.Error()
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	if isNotFoundError(err) {
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	}

	// Persistence failures surface the inner message. The API serves a
	// clinic back office, not the public internet.
	return http.StatusInternalServerError, errorPayload{
		Type:    "internal_error",
		Message: err.Error(),
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, appointmentdomain.ErrInvalidID),
		errors.Is(err, appointmentdomain.ErrDoctorNotFound),
		errors.Is(err, appointmentdomain.ErrNotADoctor),
		errors.Is(err, appointmentdomain.ErrPatientNotFound),
		errors.Is(err, appointmentdomain.ErrNoValidServices),
		errors.Is(err, appointmentdomain.ErrInvalidSchedule),
		errors.Is(err, saddomain.ErrInvalidID),
		errors.Is(err, saddomain.ErrAppointmentMissing),
		errors.Is(err, saddomain.ErrNoValidServices),
		errors.Is(err, paymentdomain.ErrInvalidID),
		errors.Is(err, paymentdomain.ErrInvalidPatient),
		errors.Is(err, taxdomain.ErrInvalidID),
		errors.Is(err, taxdomain.ErrInvalidTaxCode),
		errors.Is(err, taxdomain.ErrInvalidTaxKind),
		errors.Is(err, taxdomain.ErrInvalidTaxRatio):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, appointmentdomain.ErrNotFound),
		errors.Is(err, saddomain.ErrNotFound),
		errors.Is(err, paymentdomain.ErrNotFound),
		errors.Is(err, taxdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorField(code string) string {
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	switch code {
	case "doctor_not_found", "staff_member_is_not_a_doctor":
		return "doctor_id"
	case "patient_not_found":
		return "patient_id"
	case "no_valid_services_selected":
		return "service_type_ids"
	case "appointment_not_found":
		return "appointment_id"
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	case "doctor_not_found":
		return "doctor not found"
	case "staff_member_is_not_a_doctor":
		return "not a doctor"
	case "patient_not_found":
		return "patient not found"
	case "no_valid_services_selected":
		return "no valid services selected"
	default:
		return "invalid value"
	}
}

func classifyErrorForLog(err error) (string, string) {
	if err == nil {
		return "", ""
	}
	switch {
	case asValidationErrors(err) != nil, isValidationError(err):
		return "validation_error", err.Error()
	case isNotFoundError(err):
		return "not_found", err.Error()
	default:
		return "internal_error", err.Error()
	}
}
