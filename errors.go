package s3async

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidOperation is returned when an operation descriptor is
	// malformed and is rejected before any network activity.
	ErrInvalidOperation = errors.New("invalid operation")
	// ErrTransport is returned when the HTTP exchange itself fails
	// (connection refused, DNS failure, TLS failure).
	ErrTransport = errors.New("transport error")
	// ErrTimeout is returned when a future is not resolved within the
	// caller-supplied deadline.
	ErrTimeout = errors.New("timeout")
	// ErrNotFound is returned when the requested key does not exist.
	ErrNotFound = errors.New("not found")
	// ErrProtocol is returned when a response body parses as neither the
	// expected success schema nor the S3 error schema.
	ErrProtocol = errors.New("protocol error")
)

// ServiceError is a decoded S3 error response. See
// https://docs.aws.amazon.com/AmazonS3/latest/API/ErrorResponses.html
// for the list of possible codes.
type ServiceError struct {
	StatusCode int
	Code       string
	Message    string
	RequestID  string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("s3: %s (status %d): %s (request id %q)",
		e.Code, e.StatusCode, e.Message, e.RequestID)
}

// Is reports whether target matches this error. A ServiceError for a
// missing key (404 or code NoSuchKey) matches ErrNotFound, so callers can
// use errors.Is(err, s3async.ErrNotFound) without inspecting codes.
func (e *ServiceError) Is(target error) bool {
	if target == ErrNotFound {
		return e.StatusCode == http.StatusNotFound || e.Code == "NoSuchKey"
	}
	t, ok := target.(*ServiceError)
	if !ok {
		return false
	}
	return t.Code == e.Code && (t.StatusCode == 0 || t.StatusCode == e.StatusCode)
}
