package fetch

import "fmt"

// StatusError reports a non-2xx HTTP response. The wrapper never retries;
// callers decide whether the failure halts the run or is recorded and
// skipped.
//
// Design decision: We use a typed error rather than a sentinel so the
// HTTP status survives error wrapping and can be shown to the user.
type StatusError struct {
	// StatusCode is the HTTP response status code.
	StatusCode int

	// URL is the requested URL.
	URL string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}
