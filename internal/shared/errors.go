package shared

import (
	"errors"
	"fmt"
)

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed = fmt.Errorf("authentication failed")
	ErrTimeout    = fmt.Errorf("operation timed out")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrProtocol           = fmt.Errorf("unexpected response")
	ErrInvalidDate        = fmt.Errorf("invalid date")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
)

// MsgNotARun is shown when the requested activity is not a run.
const MsgNotARun = "That activity is not a run."

// AuthError reports a rejected token exchange.
type AuthError struct {
	Status int
	Body   string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%v: token endpoint returned status %d: %s", ErrAuthFailed, e.Status, e.Body)
}

func (e *AuthError) Unwrap() error { return ErrAuthFailed }

// UpstreamError reports a failed call to the activity API: a non-2xx status, or a transport failure when Status is zero.
type UpstreamError struct {
	Op     string
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%v: %s: status %d", ErrAPIRequest, e.Op, e.Status)
	}
	return fmt.Sprintf("%v: %s: %v", ErrAPIRequest, e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrAPIRequest}
	}
	return []error{ErrAPIRequest, e.Err}
}

// ProtocolError reports a response body missing the fields stride expects.
type ProtocolError struct {
	Op  string
	Err error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrProtocol, e.Op, e.Err)
}

func (e *ProtocolError) Unwrap() []error { return []error{ErrProtocol, e.Err} }

// FormatError reports a date field that is missing or cannot be parsed.
type FormatError struct {
	Field string
	Value string
	Err   error
}

func (e *FormatError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%v: %s is missing", ErrInvalidDate, e.Field)
	}
	return fmt.Sprintf("%v: %s %q: %v", ErrInvalidDate, e.Field, e.Value, e.Err)
}

func (e *FormatError) Unwrap() error { return ErrInvalidDate }

// ValidationError reports input that stride refuses to process. Message is shown to the user as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// UserMessage collapses any pipeline error into the single message shown in place of a summary.
//
// Auth failures point at re-authorization and upstream failures are marked transient.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var validation *ValidationError
	if errors.As(err, &validation) {
		return validation.Message
	}

	var auth *AuthError
	if errors.As(err, &auth) {
		return fmt.Sprintf("Something went wrong: Strava rejected the token refresh (status %d). Re-authorize with `stride auth login`.", auth.Status)
	}

	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return fmt.Sprintf("Something went wrong: Strava is unavailable (%s). Try again shortly.", upstream.Error())
	}

	return fmt.Sprintf("Something went wrong: %v", err)
}
