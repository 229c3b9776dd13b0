package types

import (
	"fmt"

	"github.com/pkg/errors"
)

// ValidationError reports input that can never be made to work
type ValidationError struct {
	Op  string
	Msg string
}

func NewValidationError(op, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return e.Op + ": " + e.Msg
}

// StateError reports an operation invoked before its prerequisite step
type StateError struct {
	Op    string
	State string
	Need  string
}

func NewStateError(op, state, need string) *StateError {
	return &StateError{Op: op, State: state, Need: need}
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: requires %s, surface is %s", e.Op, e.Need, e.State)
}

// NumericDegeneracy reports geometry that collapses a computation, such as
// a zero span length or coincident section positions
type NumericDegeneracy struct {
	Op  string
	Msg string
}

func NewNumericDegeneracy(op, format string, args ...interface{}) *NumericDegeneracy {
	return &NumericDegeneracy{Op: op, Msg: fmt.Sprintf(format, args...)}
}

func (e *NumericDegeneracy) Error() string {
	return e.Op + ": degenerate geometry: " + e.Msg
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsState(err error) bool {
	var se *StateError
	return errors.As(err, &se)
}

func IsDegenerate(err error) bool {
	var nd *NumericDegeneracy
	return errors.As(err, &nd)
}
