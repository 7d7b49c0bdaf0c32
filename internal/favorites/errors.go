package favorites

import (
	"errors"
	"fmt"
)

// ErrStorageCorrupt matches a persisted collection that cannot be parsed.
var ErrStorageCorrupt = errors.New("favorites storage is corrupt")

// ErrInvalidDrink is returned when adding a drink without an identifier.
var ErrInvalidDrink = errors.New("drink has no identifier")

// CorruptError carries the parse failure of the persisted collection.
type CorruptError struct {
	Key string
	Err error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("favorites under %q cannot be read: %v", e.Key, e.Err)
}

func (e *CorruptError) Unwrap() error {
	return e.Err
}

func (e *CorruptError) Is(target error) bool {
	return target == ErrStorageCorrupt
}
