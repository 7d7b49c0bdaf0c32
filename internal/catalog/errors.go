package catalog

import (
	"errors"
	"fmt"
)

// ErrNetwork matches every failure to obtain a usable response from the catalog.
var ErrNetwork = errors.New("catalog unavailable")

// ErrNotFound indicates a lookup returned no drink for the identifier.
var ErrNotFound = errors.New("drink not found")

// NetworkError describes a failed catalog call: a transport failure, a non-2xx
// status or a body that is not JSON. errors.Is(err, ErrNetwork) reports true.
type NetworkError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("catalog %s: HTTP %d", e.Op, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("catalog %s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("catalog %s: request failed", e.Op)
	}
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}
