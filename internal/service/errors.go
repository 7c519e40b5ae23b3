package service

import (
	"errors"
	"fmt"

	"github.com/emrgen/notes/internal/store"
)

var (
	// ErrNotFound is returned when a note or profile does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation is returned when a request is missing a required field.
	ErrValidation = errors.New("validation failed")
	// ErrCollaborator marks an extraction or summarization failure.
	// Mutations recover from it locally and never return it.
	ErrCollaborator = errors.New("collaborator failure")
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// storeError maps a store lookup failure onto the service errors.
func storeError(err error, kind, id string) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
	}
	return err
}
