package metaapi

import (
	"fmt"
	"net/http"
)

// APIError represents a MetaApi REST error with the HTTP status and the
// message body returned by the service.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"error,omitempty"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("MetaApi error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("MetaApi error %d: %s", e.Status, e.Message)
}

// IsRetryableError reports whether the error is transient and worth
// retrying: rate limiting or a server-side failure.
func IsRetryableError(err error) bool {
	apiErr, ok := err.(*APIError)
	if !ok {
		return false
	}
	switch apiErr.Status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
