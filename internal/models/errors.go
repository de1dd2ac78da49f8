package models

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrNoTenant        = errors.New("tenant not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrMisconfigured   = errors.New("misconfigured")
	ErrConflict        = errors.New("conflict")
)

// UpstreamError carries a third-party provider failure through to the response.
type UpstreamError struct {
	Provider string
	Status   int
	Message  string
}

func (e *UpstreamError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s returned %d: %s", e.Provider, e.Status, e.Message)
	}
	return fmt.Sprintf("%s request failed: %s", e.Provider, e.Message)
}

// MisconfiguredError names the missing setting.
func MisconfiguredError(setting string) error {
	return fmt.Errorf("%w: %s is not configured", ErrMisconfigured, setting)
}
