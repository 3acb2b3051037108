package domain

import "github.com/ewakoroyal/booking-api/internal/platform/validation"

// ValidationError adalah alias tipe error validasi bersama supaya kode
// domain pesanan tetap ringkas.
type ValidationError = validation.Error

func NewValidationError(message string) *ValidationError {
	return validation.NewError(message)
}
