package domain

import (
	"errors"
	"fmt"
)

// NotFoundError marks a missing resource (city, schedule, seat, booking, wallet).
type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

// ValidationError marks malformed or inconsistent input.
type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	switch {
	case e.Msg != "" && e.Field != "":
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Field != "":
		return fmt.Sprintf("invalid %s", e.Field)
	default:
		return "validation error"
	}
}

func (e ValidationError) Unwrap() error { return e.Err }

// BusinessError marks a business-rule failure on well-formed input.
// Code is one of the Code* constants below.
type BusinessError struct {
	Code string
	Msg  string
	Err  error
}

const (
	CodeSeatUnavailable     = "seat_unavailable"
	CodeInsufficientBalance = "insufficient_balance"
	CodeScheduleNotBookable = "schedule_not_bookable"
	CodeInvalidBookingState = "invalid_booking_state"
)

func (e BusinessError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return e.Code
}

func (e BusinessError) Unwrap() error { return e.Err }

// TransientError marks storage contention that the transaction layer retries.
// It should never reach a front end.
type TransientError struct {
	Err error
}

func (e TransientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transient: %v", e.Err)
	}
	return "transient failure"
}

func (e TransientError) Unwrap() error { return e.Err }

// InternalError wraps unexpected failures (storage unavailable and the like).
type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsBusiness(err error) bool {
	var target BusinessError
	return errors.As(err, &target)
}

// BusinessCode returns the rule code when err is a BusinessError.
func BusinessCode(err error) string {
	var target BusinessError
	if errors.As(err, &target) {
		return target.Code
	}
	return ""
}

func IsTransient(err error) bool {
	var target TransientError
	return errors.As(err, &target)
}
