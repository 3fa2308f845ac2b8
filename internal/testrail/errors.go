package testrail

import (
	"errors"
	"fmt"
)

// NotFoundCode is the code of errors synthesized locally when a lookup finds
// no match or a request is rejected before being sent.
const NotFoundCode = 99

// APIError is a TestRail service error: the HTTP status code and the message
// the server returned in its "error" field, or a locally synthesized error
// carrying NotFoundCode.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("testrail: %d: %s", e.Code, e.Message)
}

// HTTPError is an HTTP failure whose body did not carry a TestRail error.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

func notFound(format string, args ...any) *APIError {
	return &APIError{Code: NotFoundCode, Message: fmt.Sprintf(format, args...)}
}

// IsNotFound reports whether err is a locally synthesized not-found error.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == NotFoundCode
}

// Describe renders err as "code: message" for service errors and as the plain
// error text otherwise.
func Describe(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("%d: %s", apiErr.Code, apiErr.Message)
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return fmt.Sprintf("%d: %s", httpErr.StatusCode, httpErr.Body)
	}
	return err.Error()
}
