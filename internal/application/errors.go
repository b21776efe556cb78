package application

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	ErrNotFound         = errors.New("not found")
	ErrWrongType        = errors.New("wrong prim type")
	ErrAttributeMissing = errors.New("attribute missing")
	ErrHostOperation    = errors.New("host operation failed")
	ErrEmptyState       = errors.New("nothing to do")
	ErrEmptyHistory     = errors.New("no deletion history")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// HostError represents a failed call into the host command surface
type HostError struct {
	Op   string
	Path string
	Err  error
}

func (e *HostError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Op, e.Path, e.Err)
}

func (e *HostError) Unwrap() error {
	return e.Err
}

func (e *HostError) Is(target error) bool {
	return target == ErrHostOperation
}

// WrongTypeError reports a prim that lacks the required type tag
type WrongTypeError struct {
	Path     string
	Got      string
	Expected string
}

func (e *WrongTypeError) Error() string {
	return fmt.Sprintf("%s is a %s, expected %s", e.Path, e.Got, e.Expected)
}

func (e *WrongTypeError) Is(target error) bool {
	return target == ErrWrongType
}

func notFound(path string) error {
	return fmt.Errorf("prim %s: %w", path, ErrNotFound)
}
