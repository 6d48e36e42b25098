package repositories

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a document or balance does not exist.
type ErrNotFound struct {
	Key string
}

func (e *ErrNotFound) Error() string {
	if e.Key == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Key)
}

func IsNotFound(err error) bool {
	var notFound *ErrNotFound
	return errors.As(err, &notFound)
}
