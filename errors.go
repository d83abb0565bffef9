package fixture

import (
	"errors"
	"fmt"
)

// Sentinel errors. Callers match them with errors.Is.
var (
	ErrUndefinedFactory     = errors.New("undefined factory")
	ErrInvalidDeferred      = errors.New("invalid deferred attribute")
	ErrUnknownOverrideField = errors.New("no such field")
	ErrUnresolved           = errors.New("unresolved attribute")
	ErrFieldNotFound        = errors.New("field not found")
	ErrPassLimit            = errors.New("deferred pass limit exceeded")
	ErrPendingAccess        = errors.New("read of pending attribute")
	ErrInvalidFactoryName   = errors.New("invalid factory name")
	ErrDuplicateFactory     = errors.New("factory already defined")
	ErrUnsupportedFormat    = errors.New("unsupported template format")
)

// UndefinedFactoryError reports a build request for a name with no registered producer.
type UndefinedFactoryError struct {
	Name string
}

func (e *UndefinedFactoryError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUndefinedFactory, e.Name)
}

func (e *UndefinedFactoryError) Unwrap() error { return ErrUndefinedFactory }

// UnknownFieldError reports an override of a field that a strict record does not declare.
type UnknownFieldError struct {
	Field string
	Path  string // dot path of the enclosing record, empty at top level
}

func (e *UnknownFieldError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %q", ErrUnknownOverrideField, e.Field)
	}
	return fmt.Sprintf("%s: %q in %q", ErrUnknownOverrideField, e.Field, e.Path)
}

func (e *UnknownFieldError) Unwrap() error { return ErrUnknownOverrideField }
