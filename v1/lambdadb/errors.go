package lambdadb

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/docker/go-units"
)

// Common LambdaDB errors
var (
	// ErrTransportUnavailable is returned before any network call when the
	// client has no transport configured.
	ErrTransportUnavailable = errors.New("lambdadb: no transport configured")

	// ErrInvalidArgument is returned when request parameters fail validation.
	// No request is sent in that case.
	ErrInvalidArgument = errors.New("lambdadb: invalid argument")

	// ErrBadRequest matches APIError values with status 400.
	ErrBadRequest = errors.New("lambdadb: bad request")

	// ErrUnauthenticated matches APIError values with status 401 or 403.
	ErrUnauthenticated = errors.New("lambdadb: unauthenticated")

	// ErrResourceNotFound matches APIError values with status 404.
	ErrResourceNotFound = errors.New("lambdadb: resource not found")

	// ErrResourceAlreadyExists matches APIError values with status 409.
	ErrResourceAlreadyExists = errors.New("lambdadb: resource already exists")

	// ErrTooManyRequests matches APIError values with status 429.
	ErrTooManyRequests = errors.New("lambdadb: too many requests")

	// ErrInternalServer matches APIError values with a 5xx status.
	ErrInternalServer = errors.New("lambdadb: internal server error")
)

// APIError is returned when the LambdaDB service answers with a non-2xx status.
// It matches the status sentinels above with errors.Is.
type APIError struct {
	// Operation is the client operation that failed, e.g. "fetch_docs".
	Operation string

	// StatusCode is the HTTP status returned by the service.
	StatusCode int

	// Message is the "message" field of the error body, when present.
	Message string

	// Body is the raw response body.
	Body string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Body
	}
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("lambdadb: %s returned status %d: %s", e.Operation, e.StatusCode, msg)
}

func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusBadRequest:
		return ErrBadRequest
	case e.StatusCode == http.StatusUnauthorized, e.StatusCode == http.StatusForbidden:
		return ErrUnauthenticated
	case e.StatusCode == http.StatusNotFound:
		return ErrResourceNotFound
	case e.StatusCode == http.StatusConflict:
		return ErrResourceAlreadyExists
	case e.StatusCode == http.StatusTooManyRequests:
		return ErrTooManyRequests
	case e.StatusCode >= 500:
		return ErrInternalServer
	default:
		return nil
	}
}

// RemoteFetchError is returned when downloading an out-of-band result set
// answers with a non-2xx status.
type RemoteFetchError struct {
	StatusCode int
	Body       string
}

func (e *RemoteFetchError) Error() string {
	return fmt.Sprintf("lambdadb: fetching out-of-band docs returned status %d: %s", e.StatusCode, e.Body)
}

// MalformedPayloadError is returned when an out-of-band result set is not a
// JSON array or one of its elements cannot be decoded.
type MalformedPayloadError struct {
	// Index is the offending element, or -1 when the payload as a whole is invalid.
	Index int
	Err   error
}

func (e *MalformedPayloadError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("lambdadb: malformed out-of-band payload: %v", e.Err)
	}
	return fmt.Sprintf("lambdadb: malformed out-of-band payload at element %d: %v", e.Index, e.Err)
}

func (e *MalformedPayloadError) Unwrap() error {
	return e.Err
}

// PayloadTooLargeError is returned by bulk upserts whose encoded payload
// exceeds the upload limit. Nothing is uploaded in that case.
type PayloadTooLargeError struct {
	Size  int64
	Limit int64
}

func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("lambdadb: payload of %s (%d bytes) exceeds limit of %s (%d bytes)",
		units.BytesSize(float64(e.Size)), e.Size, units.BytesSize(float64(e.Limit)), e.Limit)
}

// UploadFailedError is returned when the presigned upload of a bulk upsert
// answers with a non-2xx status. The bulk upsert is not confirmed.
type UploadFailedError struct {
	StatusCode int
	Body       string
}

func (e *UploadFailedError) Error() string {
	return fmt.Sprintf("lambdadb: bulk upload returned status %d: %s", e.StatusCode, e.Body)
}

// IsTransportUnavailableError checks if the error is caused by a missing transport.
func IsTransportUnavailableError(err error) bool {
	return errors.Is(err, ErrTransportUnavailable)
}

// IsInvalidArgumentError checks if the error is a parameter validation error.
func IsInvalidArgumentError(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsNotFoundError checks if the error is a 404 from the service.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrResourceNotFound)
}

// IsTooManyRequestsError checks if the error is a 429 from the service.
func IsTooManyRequestsError(err error) bool {
	return errors.Is(err, ErrTooManyRequests)
}

// IsPayloadTooLargeError checks if the error is a PayloadTooLargeError.
func IsPayloadTooLargeError(err error) bool {
	var target *PayloadTooLargeError
	return errors.As(err, &target)
}

// IsUploadFailedError checks if the error is an UploadFailedError.
func IsUploadFailedError(err error) bool {
	var target *UploadFailedError
	return errors.As(err, &target)
}
