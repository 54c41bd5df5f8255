package usecase

import (
	"errors"
	"fmt"

	"github.com/watter46/footics-sub000/internal/domain/persistence"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidReference   = errors.New("invalid reference")
	ErrPersistenceFailure = errors.New("persistence failure")
)

// storeError classifies an error coming back from a repository. Errors that
// already carry a use case category pass through unchanged.
func storeError(action string, err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{ErrInvalidInput, ErrNotFound, ErrInvalidReference, ErrPersistenceFailure} {
		if errors.Is(err, known) {
			return err
		}
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return fmt.Errorf("%w: %s: %w", ErrNotFound, action, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrPersistenceFailure, action, err)
}
