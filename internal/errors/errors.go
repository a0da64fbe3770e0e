package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// common errors
	ErrApiKeyMissing = errors.New("NameSilo API key is not configured")

	// domain errors
	ErrDomainNotFound = errors.New("domain record not found")
	ErrTldNotFound    = errors.New("tld not found in registrar price list")
)

// RegistrarError is a well-formed registrar response carrying a non-success
// reply code. Code and Detail are the registrar's own values, verbatim.
type RegistrarError struct {
	Code   int
	Detail string
}

func (e *RegistrarError) Error() string {
	return fmt.Sprintf("registrar error %d: %s", e.Code, e.Detail)
}

func NewRegistrarError(code int, detail string) *RegistrarError {
	return &RegistrarError{Code: code, Detail: detail}
}

func IsRegistrarError(err error) bool {
	var re *RegistrarError
	return errors.As(err, &re)
}

// TransportError is a failure below the registrar protocol: network error,
// timeout, non-200 HTTP status or an unparsable body.
type TransportError struct {
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("registrar request failed: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("registrar request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func NewTransportError(statusCode int, err error) *TransportError {
	return &TransportError{StatusCode: statusCode, Err: err}
}

func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// ValidationError is a local precondition failure raised before any network
// call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrDomainNotFound)
}
