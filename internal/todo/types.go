package todo

import (
	"errors"
	"fmt"
)

// Task represents a single to-do item.
type Task struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	IsCompleted bool   `json:"isCompleted"`
}

// List is the ordered task collection. Order is insertion order.
type List []Task

// ErrNotFound is matched by every *NotFoundError.
var ErrNotFound = errors.New("task not found")

// NotFoundError reports a mutation that targeted a missing task.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task %q not found", e.ID)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // JSON path or field name of the offending value
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ErrEmptyText is wrapped by the ValidationError returned for blank text.
var ErrEmptyText = errors.New("task cannot be empty")

// ErrInvalidText is wrapped by the ValidationError returned for text that is
// not valid UTF-8. Such text would not survive a JSON round trip.
var ErrInvalidText = errors.New("task text is not valid UTF-8")

// IsValidation reports whether err is (or wraps) a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
