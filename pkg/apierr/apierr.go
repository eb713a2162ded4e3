// Package apierr defines the terminal error kinds of the org chart engine.
// Every kind fails the current call; none is retried internally. Callers
// (the CLI, or whatever transport fronts the engine) own localization and
// status mapping.
package apierr

import "errors"

type MissingParametersError struct {
	msg string
}

func (e *MissingParametersError) Error() string { return e.msg }

func NewMissingParameters(msg string) error { return &MissingParametersError{msg: msg} }

func IsMissingParameters(err error) bool {
	var target *MissingParametersError
	return errors.As(err, &target)
}

type NotFoundError struct {
	msg string
}

func (e *NotFoundError) Error() string { return e.msg }

func NewNotFound(msg string) error { return &NotFoundError{msg: msg} }

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

type InvalidPageNumberError struct {
	msg string
}

func (e *InvalidPageNumberError) Error() string { return e.msg }

func NewInvalidPageNumber(msg string) error { return &InvalidPageNumberError{msg: msg} }

func IsInvalidPageNumber(err error) bool {
	var target *InvalidPageNumberError
	return errors.As(err, &target)
}

type InvalidPageSizeError struct {
	msg string
}

func (e *InvalidPageSizeError) Error() string { return e.msg }

func NewInvalidPageSize(msg string) error { return &InvalidPageSizeError{msg: msg} }

func IsInvalidPageSize(err error) bool {
	var target *InvalidPageSizeError
	return errors.As(err, &target)
}

// ResourceExhaustedError signals that the bound counter would overflow its
// domain. It is fatal and not user-correctable.
type ResourceExhaustedError struct {
	msg string
}

func (e *ResourceExhaustedError) Error() string { return e.msg }

func NewResourceExhausted(msg string) error { return &ResourceExhaustedError{msg: msg} }

func IsResourceExhausted(err error) bool {
	var target *ResourceExhaustedError
	return errors.As(err, &target)
}
