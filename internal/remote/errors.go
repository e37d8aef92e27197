package remote

import "fmt"

// NetworkError wraps a transport-level failure (timeout, refused connection,
// DNS). These are transient: the data may well be fine, we just could not
// reach it.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// APIError is an application-level rejection from the remote store, such as
// a constraint violation or an auth failure.
type APIError struct {
	Op      string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: remote store returned status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: remote store returned status %d: %s", e.Op, e.Status, e.Message)
}
