package inventory

import (
	"errors"
	"net/http"
)

// ErrInvalidSteamID is returned before any request when the owner identifier
// is missing or does not describe a valid account.
var ErrInvalidSteamID = errors.New("the user's SteamID is invalid or missing")

// ErrMalformedResponse matches every *MalformedResponseError via errors.Is.
var ErrMalformedResponse = errors.New("malformed response")

// Terminal fetch errors that are never retried.
var (
	ErrPrivateProfile = &FetchError{
		Code:    http.StatusForbidden,
		Message: "Profile or inventory is private.",
	}

	ErrProfileNotFound = &FetchError{
		Code:    http.StatusNotFound,
		Message: "Profile could not be found.",
	}
)

// FetchError is a classified terminal failure carrying the HTTP status it was derived from.
type FetchError struct {
	Code    int
	Message string
	Err     error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return e.Message
}

// Unwrap returns the transport error the failure was classified from.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is matches another *FetchError with the same code and message, so a wrapped
// instance still satisfies errors.Is(err, ErrPrivateProfile).
func (e *FetchError) Is(target error) bool {
	t, ok := target.(*FetchError)
	if !ok {
		return false
	}
	return t.Code == e.Code && t.Message == e.Message
}

// StatusCode returns the HTTP status code of the failure.
func (e *FetchError) StatusCode() int {
	return e.Code
}

func (e *FetchError) wrap(err error) *FetchError {
	return &FetchError{Code: e.Code, Message: e.Message, Err: err}
}

// MalformedResponseError is returned when a response claims success but lacks
// required fields. Message carries the server's error text when it sent one.
type MalformedResponseError struct {
	Message string
}

// Error implements the error interface.
func (e *MalformedResponseError) Error() string {
	if e.Message == "" {
		return "Malformed response"
	}
	return e.Message
}

// Is makes every MalformedResponseError match ErrMalformedResponse.
func (e *MalformedResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}
