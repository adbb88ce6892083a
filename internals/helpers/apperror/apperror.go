// Package apperror holds the typed business errors returned by services.
// Controllers turn them into HTTP responses through ToFiber.
package apperror

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

type Kind string

const (
	KindNotFound         Kind = "not_found"
	KindForbidden        Kind = "forbidden"
	KindCapacity         Kind = "capacity"
	KindConflict         Kind = "conflict"
	KindExpired          Kind = "expired"
	KindAlreadyProcessed Kind = "already_processed"
	KindQuota            Kind = "quota"
	KindExternalService  Kind = "external_service"
	KindValidation       Kind = "validation"
)

// Sentinels for errors.Is; an *Error matches the sentinel of its kind.
var (
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrForbidden        = &Error{Kind: KindForbidden}
	ErrCapacity         = &Error{Kind: KindCapacity}
	ErrConflict         = &Error{Kind: KindConflict}
	ErrExpired          = &Error{Kind: KindExpired}
	ErrAlreadyProcessed = &Error{Kind: KindAlreadyProcessed}
	ErrQuota            = &Error{Kind: KindQuota}
	ErrExternalService  = &Error{Kind: KindExternalService}
	ErrValidation       = &Error{Kind: KindValidation}
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NotFound(message string) *Error  { return New(KindNotFound, message) }
func Forbidden(message string) *Error { return New(KindForbidden, message) }
func Capacity(message string) *Error  { return New(KindCapacity, message) }
func Conflict(message string) *Error  { return New(KindConflict, message) }
func Expired(message string) *Error   { return New(KindExpired, message) }
func Quota(message string) *Error     { return New(KindQuota, message) }
func Validation(message string) *Error {
	return New(KindValidation, message)
}
func AlreadyProcessed(message string) *Error {
	return New(KindAlreadyProcessed, message)
}
func External(message string, err error) *Error {
	return Wrap(KindExternalService, message, err)
}

// KindOf returns the kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}

func StatusOf(kind Kind) int {
	switch kind {
	case KindNotFound:
		return fiber.StatusNotFound
	case KindForbidden:
		return fiber.StatusForbidden
	case KindCapacity, KindConflict, KindAlreadyProcessed:
		return fiber.StatusConflict
	case KindExpired:
		return fiber.StatusGone
	case KindQuota:
		return fiber.StatusPaymentRequired
	case KindExternalService:
		return fiber.StatusBadGateway
	case KindValidation:
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

// ToFiber converts any error into a *fiber.Error. Unknown errors become 500
// without leaking their message.
func ToFiber(err error) *fiber.Error {
	if err == nil {
		return nil
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe
	}
	var ae *Error
	if errors.As(err, &ae) {
		msg := ae.Message
		if msg == "" {
			msg = string(ae.Kind)
		}
		return fiber.NewError(StatusOf(ae.Kind), msg)
	}
	return fiber.NewError(fiber.StatusInternalServerError, fiber.ErrInternalServerError.Message)
}
