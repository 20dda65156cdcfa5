package smc

import (
	"errors"
	"fmt"
)

// Status is the error taxonomy shared by every operation.
type Status uint8

const (
	StatusSuccess Status = iota
	StatusInvalidArgument
	StatusKeyNotFound
	StatusControllerFault
	StatusResourceError
	StatusServiceUnavailable
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "SUCCESS"
	case StatusInvalidArgument:
		return "INVALID_ARGUMENT"
	case StatusKeyNotFound:
		return "KEY_NOT_FOUND"
	case StatusControllerFault:
		return "CONTROLLER_FAULT"
	case StatusResourceError:
		return "RESOURCE_ERROR"
	case StatusServiceUnavailable:
		return "SERVICE_UNAVAILABLE"
	default:
		return "UNKNOWN"
	}
}

// Sentinel errors, one per non-success Status. Match with errors.Is.
var (
	ErrInvalidArgument    = errors.New("smc: invalid argument")
	ErrKeyNotFound        = errors.New("smc: key not found")
	ErrControllerFault    = errors.New("smc: controller fault")
	ErrResourceError      = errors.New("smc: session could not be established")
	ErrServiceUnavailable = errors.New("smc: controller service unavailable")
)

// StatusOf maps err onto the taxonomy. Unknown errors are controller faults.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, ErrInvalidArgument):
		return StatusInvalidArgument
	case errors.Is(err, ErrKeyNotFound):
		return StatusKeyNotFound
	case errors.Is(err, ErrResourceError):
		return StatusResourceError
	case errors.Is(err, ErrServiceUnavailable):
		return StatusServiceUnavailable
	default:
		return StatusControllerFault
	}
}

// Error describes a failed operation.
type Error struct {
	Op      string // "read", "write", "info", "open", ...
	Key     Key
	Session string
	Result  uint8 // controller result byte, when one was received
	Kind    error // one of the sentinel errors
	Cause   error // transport error, if any
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Op != "" {
		msg += ": " + e.Op
	}
	if e.Key.Valid() {
		msg += " " + e.Key.String()
	}
	if e.Result != ResultSuccess {
		msg += fmt.Sprintf(" (result=0x%02x)", e.Result)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// resultError maps a non-success controller result onto the taxonomy.
func resultError(op string, key Key, session string, result uint8) error {
	kind := ErrControllerFault
	if result == ResultKeyNotFound {
		kind = ErrKeyNotFound
	}
	return &Error{Op: op, Key: key, Session: session, Result: result, Kind: kind}
}
