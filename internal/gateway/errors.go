package gateway

import "fmt"

// AuthError indicates that a provider client could not be constructed
// or authenticated. It is never swallowed by the aggregation layer.
type AuthError struct {
	Provider string
	Reason   string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s authentication failed: %s", e.Provider, e.Reason)
}

// ConnError indicates a transport or API failure during a provider
// call. StatusCode is the HTTP status of the failed response when one
// was received, zero otherwise.
type ConnError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *ConnError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%v (status %d)", e.Err, e.StatusCode)
	}
	return e.Err.Error()
}

func (e *ConnError) Unwrap() error {
	return e.Err
}
