package hrapi

import "fmt"

const defaultAPIErrorMessage = "API request failed"

// NetworkError means no HTTP response was obtained from URL.
type NetworkError struct {
	URL     string
	Timeout bool
	Err     error
}

func (e *NetworkError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("request to %s timed out", e.URL)
	}
	return fmt.Sprintf("unable to reach %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// APIError is a terminal non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("external api returned %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) retryable() bool { return e.StatusCode >= 500 }

// AuthenticationError is a rejected login.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string { return e.Message }

// ResponseError is a 2xx response whose body lacks the expected shape.
type ResponseError struct {
	Message string
}

func (e *ResponseError) Error() string { return e.Message }
