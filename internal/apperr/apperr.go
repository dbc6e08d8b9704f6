package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind clasifica fallas de dominio independientemente del transporte.
type Kind uint8

const (
	KindInternal Kind = iota
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
	KindExternalProvider
	KindConfiguration
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "UNAUTHENTICATED"
	case KindForbidden:
		return "FORBIDDEN"
	case KindNotFound:
		return "NOT_FOUND"
	case KindConflict:
		return "CONFLICT"
	case KindExternalProvider:
		return "EXTERNAL_PROVIDER"
	case KindConfiguration:
		return "CONFIGURATION"
	case KindValidation:
		return "VALIDATION"
	default:
		return "INTERNAL"
	}
}

// Error transporta el tipo de falla, un mensaje legible y la causa original.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && !strings.Contains(e.Message, e.Err.Error()) {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is permite comparar contra un *Error del mismo tipo sin mensaje.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Unauthenticated(message string) *Error { return New(KindUnauthenticated, message) }
func Forbidden(message string) *Error       { return New(KindForbidden, message) }
func NotFound(message string) *Error        { return New(KindNotFound, message) }
func Conflict(message string) *Error        { return New(KindConflict, message) }
func Validation(message string) *Error      { return New(KindValidation, message) }

// Configuration indica falta de bucket, credenciales u otra configuración externa.
func Configuration(message string) *Error { return New(KindConfiguration, message) }

// Provider envuelve una falla del proveedor de identidad o del almacenamiento.
// El mensaje conserva la causa original.
func Provider(message string, cause error) *Error {
	if cause != nil {
		message = fmt.Sprintf("%s: %v", message, cause)
	}
	return Wrap(KindExternalProvider, message, cause)
}

func Internal(message string, cause error) *Error {
	return Wrap(KindInternal, message, cause)
}

// KindOf devuelve el tipo de la primera *Error en la cadena; KindInternal en otro caso.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf devuelve el mensaje de la *Error o un texto genérico.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "error interno"
}
