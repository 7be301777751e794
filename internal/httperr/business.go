package httperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindNotFound     Kind = "not_found"
	KindInvalidState Kind = "invalid_state"
	KindConflict     Kind = "conflict"
	KindValidation   Kind = "validation"
	KindInvalidRange Kind = "invalid_range"
	KindForbidden    Kind = "forbidden"
)

type BusinessError struct {
	Kind    Kind
	Code    string
	Message string
}

func (e BusinessError) Error() string {
	if e.Message != "" {
		return e.Code + ": " + e.Message
	}
	return e.Code
}

func New(kind Kind, code, message string) error {
	return BusinessError{Kind: kind, Code: code, Message: message}
}

func ErrNotFound(code, message string) error {
	return New(KindNotFound, code, message)
}

func ErrConflict(code, message string) error {
	return New(KindConflict, code, message)
}

func ErrValidation(code, message string) error {
	return New(KindValidation, code, message)
}

func ErrInvalidState(code, message string) error {
	return New(KindInvalidState, code, message)
}

func ErrForbidden(message string) error {
	return New(KindForbidden, "forbidden", message)
}

func ErrInvalidRange(code, message string) error {
	return New(KindInvalidRange, code, message)
}

// ErrTransition reports a state machine step that the current status does not allow.
func ErrTransition(entity, from, to string) error {
	return New(
		KindInvalidState,
		"invalid_state",
		fmt.Sprintf("cannot transition %s from %s to %s", entity, from, to),
	)
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func IsKind(err error, kind Kind) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind == kind
	}
	return false
}
