// Package gwerrors contains all common errors used by the console.
package gwerrors

import (
	"errors"
	"fmt"
)

var ErrSessionNotFound = fmt.Errorf("cannot find the session")
var ErrSessionExpired = fmt.Errorf("the session is expired")
var ErrInvalidSession = fmt.Errorf("the session requires an access token, a refresh token and an expiry")
var ErrUnauthorized = fmt.Errorf("not authorized")
var ErrInvalidCredentials = fmt.Errorf("invalid username or password")
var ErrNetwork = fmt.Errorf("the backend cannot be reached")
var ErrValidation = fmt.Errorf("the request was rejected by the backend")
var ErrServer = fmt.Errorf("the backend failed to handle the request")
var ErrTimeout = fmt.Errorf("request timed out")
var ErrNotFound = fmt.Errorf("the requested resource cannot be found")
var ErrMissingDBResource = fmt.Errorf("the requested resource cannot be found in the DB")
var ErrEmptySelection = fmt.Errorf("no records were selected")

// Kind classifies a failed backend call.
type Kind string

const (
	KindNetwork            Kind = "network"
	KindUnauthorized       Kind = "unauthorized"
	KindSessionExpired     Kind = "session_expired"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindValidation         Kind = "validation"
	KindServer             Kind = "server"
	KindTimeout            Kind = "timeout"
)

var kindSentinels = map[Kind]error{
	KindNetwork:            ErrNetwork,
	KindUnauthorized:       ErrSessionExpired,
	KindSessionExpired:     ErrSessionExpired,
	KindInvalidCredentials: ErrInvalidCredentials,
	KindValidation:         ErrValidation,
	KindServer:             ErrServer,
	KindTimeout:            ErrTimeout,
}

// APIError is the single shape every failed backend call is reported in. Message is meant for
// display.
type APIError struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	return e.Message
}

// Unwrap exposes the sentinel matching the kind and the underlying cause, if any.
func (e *APIError) Unwrap() []error {
	errs := []error{}
	if sentinel, ok := kindSentinels[e.Kind]; ok {
		errs = append(errs, sentinel)
	}
	if e.Status == 404 {
		errs = append(errs, ErrNotFound)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func NewAPIError(kind Kind, status int, message string, cause error) *APIError {
	return &APIError{Kind: kind, Status: status, Message: message, Err: cause}
}

// KindOf returns the kind of the first APIError in the chain and false when there is none.
func KindOf(err error) (Kind, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind, true
	}
	return "", false
}

// IsAuthFailure reports whether the error means the credentials are no longer usable.
func IsAuthFailure(err error) bool {
	return errors.Is(err, ErrSessionExpired) || errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrInvalidCredentials)
}
