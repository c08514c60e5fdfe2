package netbox

import (
	"errors"
	"fmt"
)

// APIError is a response from NetBox that did not indicate success.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("netbox: HTTP %d: %s", e.StatusCode, e.Body)
}

// IsClientError reports whether NetBox rejected the request itself (4xx),
// typically a validation failure on import.
func (e *APIError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// StatusCode extracts the HTTP status from err, or 0 if err did not come
// from a NetBox response.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
