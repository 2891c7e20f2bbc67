package ai

import "fmt"

// ServiceError is returned by providers when the upstream API call fails.
// The chat dispatcher maps it to a configuration error so clients can
// distinguish credential and quota problems from server faults.
type ServiceError struct {
	Provider string
	Err      error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s service error: %v", e.Provider, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
