package idish

import "errors"

// ErrAuthRequired is raised locally when a call needs a bearer token and the
// session has none. No network request is made in that case.
var ErrAuthRequired = errors.New("authentication required")

// genericErrorMessage stands in when the backend returns a non-2xx response
// without a usable error payload.
const genericErrorMessage = "something went wrong"

// APIError carries the backend's status code and its verbatim error message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// AsAPIError unwraps err into an *APIError if one is in the chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
