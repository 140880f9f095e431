package tutorial

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidInput marks a payload the core refuses to persist, such as a
// create request without a title.  Transport maps it to 400.
var ErrInvalidInput = errors.New("invalid tutorial input")

// StorageError wraps any failure reported by the storage medium.  It is
// always propagated as-is; the core never retries.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return "tutorial store " + e.Op + ": " + e.Err.Error() }
func (e *StorageError) Unwrap() error { return e.Err }

// IsStorage reports whether err originated in the storage medium.
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

var validate = validator.New()

// Validate checks the bounds of every field that is present.
func (in Input) Validate() error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// ValidateCreate is Validate plus the create-only rule that Title is set.
func (in Input) ValidateCreate() error {
	if in.Title == nil || *in.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	return in.Validate()
}
