package recommend

import (
	"errors"
	"fmt"
)

// ErrService marks every failure of a recommendation query: transport
// errors, non-2xx statuses and responses carrying an error field.
var ErrService = errors.New("recommendation service failed")

// ErrResponseTooLarge is wrapped by the ServiceError for a body over the
// client's size cap.
var ErrResponseTooLarge = errors.New("response too large")

// ServiceError carries the details of a failed query. It matches ErrService
// under errors.Is.
type ServiceError struct {
	// Status is the HTTP status code, or 0 for transport failures.
	Status  int
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	switch {
	case e.Status != 0 && e.Message != "":
		return fmt.Sprintf("recommendation service: %d: %s", e.Status, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("recommendation service: status %d", e.Status)
	case e.Message != "":
		return "recommendation service: " + e.Message
	case e.Err != nil:
		return "recommendation service: " + e.Err.Error()
	}
	return ErrService.Error()
}

// Is reports ErrService.
func (e *ServiceError) Is(target error) bool { return target == ErrService }

// Unwrap returns the underlying transport error, if any.
func (e *ServiceError) Unwrap() error { return e.Err }
