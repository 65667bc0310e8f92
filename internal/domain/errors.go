package domain

import (
	"errors"
	"fmt"
)

// ErrUnconfigured is returned before any network call when the provider API
// key is missing or still the placeholder value.
var ErrUnconfigured = errors.New("weather provider API key is not configured")

// ErrPermissionDenied is returned by geolocation capabilities when the user
// refuses a position request.
var ErrPermissionDenied = errors.New("geolocation permission denied")

// NotFoundError reports that a query resolved to no location. Query carries
// the original human-readable input so it can be surfaced verbatim.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no weather data found for %q", e.Query)
}

// UnavailableError reports a transport-level provider failure.
type UnavailableError struct {
	Op  string
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("weather provider unavailable during %s: %v", e.Op, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// ParseError reports an unexpected provider schema. Callers treat it the
// same as an unavailable provider.
type ParseError struct {
	Provider string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unexpected %s response schema: %v", e.Provider, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// OutOfServiceAreaError reports coordinates outside the supported bounding
// box, rejected before any network call.
type OutOfServiceAreaError struct {
	Lat float64
	Lon float64
}

func (e *OutOfServiceAreaError) Error() string {
	return fmt.Sprintf("coordinates (%.2f, %.2f) are outside the supported service area", e.Lat, e.Lon)
}

// IsNotFound reports whether err is a NotFoundError anywhere in its chain.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsUnavailable reports whether err should be handled as a provider outage.
// Schema mismatches count: a provider answering gibberish is as unusable as
// one not answering at all.
func IsUnavailable(err error) bool {
	var ue *UnavailableError
	var pe *ParseError
	return errors.As(err, &ue) || errors.As(err, &pe)
}
