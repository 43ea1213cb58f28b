package service

import (
	"errors"
	"sort"
	"strings"

	"github.com/pickmyfruit/pickmyfruit-backend/internal/geocoding"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/signing"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrNotAllowed       = errors.New("not allowed")
	ErrRateLimited      = errors.New("you have already contacted this owner recently, please wait 24 hours before trying again")
	ErrInvalidToken     = errors.New("invalid or expired token")
	ErrInvalidSignature = signing.ErrInvalidSignature
	ErrAddressNotFound  = geocoding.ErrAddressNotFound
	ErrGeocoderDown     = geocoding.ErrUnavailable
)

// ValidationError carries per-field messages
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError for one field
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
