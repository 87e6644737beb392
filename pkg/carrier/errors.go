package carrier

import (
	"errors"
	"fmt"
)

// Error taxonomy for the shipment workflow. Every carrier-originating failure
// is classified as exactly one of these kinds before it leaves the client.
var (
	// ErrAuth indicates authentication or token refresh failed. Fatal for
	// the current workflow run; never retried.
	ErrAuth = errors.New("carrier authentication failed")

	// ErrUnavailable indicates a transient network, transport or rate-limit
	// failure. Retried up to the bounded limit, then surfaced.
	ErrUnavailable = errors.New("carrier unavailable")

	// ErrBadRequest indicates the carrier rejected the request as malformed,
	// e.g. missing additional inputs that were actually required. Not retried.
	ErrBadRequest = errors.New("carrier rejected request")

	// ErrNoRatesAvailable indicates the quoted rate list was empty or
	// selection was impossible. Terminal.
	ErrNoRatesAvailable = errors.New("no rates available")

	// ErrMissingTracking indicates purchase succeeded but the carrier
	// returned no tracking number. Terminal, a carrier protocol violation.
	ErrMissingTracking = errors.New("purchased shipment has no tracking number")

	// ErrCarrierNotFound indicates the requested carrier is not registered.
	ErrCarrierNotFound = errors.New("carrier not found")
)

// CarrierError represents a classified error from a shipping carrier.
type CarrierError struct {
	Carrier    string
	Code       string
	Message    string
	StatusCode int
	Kind       error // one of the taxonomy sentinels above
	Cause      error
}

// Error implements the error interface.
func (e *CarrierError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s error (%s): %s: %v", e.Carrier, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s error (%s): %s", e.Carrier, e.Code, e.Message)
}

// Unwrap exposes both the taxonomy kind and the underlying cause, so
// errors.Is(err, carrier.ErrUnavailable) works on classified errors.
func (e *CarrierError) Unwrap() []error {
	var errs []error
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// Is matches two CarrierErrors by code.
func (e *CarrierError) Is(target error) bool {
	t, ok := target.(*CarrierError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewCarrierError creates a new CarrierError of the given kind.
func NewCarrierError(carrier string, kind error, code, message string) *CarrierError {
	return &CarrierError{
		Carrier: carrier,
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// WithCause adds a cause to the error.
func (e *CarrierError) WithCause(err error) *CarrierError {
	e.Cause = err
	return e
}

// WithStatusCode adds an HTTP status code to the error.
func (e *CarrierError) WithStatusCode(code int) *CarrierError {
	e.StatusCode = code
	return e
}

// IsTransient returns true if the error may succeed on retry.
func IsTransient(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
