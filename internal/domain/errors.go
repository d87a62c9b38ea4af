package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
// Cada uno es una clasificación: los casos de uso devuelven *Error con el mensaje
// concreto y la capa HTTP decide el código con errors.Is.
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrDuplicate              = errors.New("recurso duplicado")
	ErrUnauthorized           = errors.New("no autorizado")
	ErrConflict               = errors.New("conflicto con el estado actual")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrInvalidState           = errors.New("estado inválido para la operación")
	ErrInsufficientHistory    = errors.New("historial de compras insuficiente")
	ErrConcurrentModification = fmt.Errorf("%w: el registro fue modificado por otra operación", ErrConflict)
)

// Error es el resultado etiquetado de una regla de negocio: Kind clasifica, Message describe.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

// Unwrap permite errors.Is(err, domain.ErrNotFound) y similares.
func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NotFound referencia ausente (cliente, producto, factura).
func NotFound(format string, args ...any) error { return newError(ErrNotFound, format, args...) }

// Validation entrada mal formada (lista de líneas vacía, cantidad no positiva...).
func Validation(format string, args ...any) error {
	return newError(ErrInvalidInput, format, args...)
}

// Conflict clave única duplicada o recurso en uso.
func Conflict(format string, args ...any) error { return newError(ErrConflict, format, args...) }

// InsufficientStock cantidad solicitada mayor al stock disponible.
func InsufficientStock(format string, args ...any) error {
	return newError(ErrInsufficientStock, format, args...)
}

// InvalidState transición de estado o edición no permitida.
func InvalidState(format string, args ...any) error {
	return newError(ErrInvalidState, format, args...)
}

// InsufficientHistory no hay datos suficientes para una estimación.
func InsufficientHistory(format string, args ...any) error {
	return newError(ErrInsufficientHistory, format, args...)
}

// IsBusinessError indica si err es una falla de regla de negocio (no de infraestructura).
func IsBusinessError(err error) bool {
	for _, kind := range []error{
		ErrNotFound, ErrInvalidInput, ErrDuplicate, ErrConflict, ErrUnauthorized,
		ErrInsufficientStock, ErrInvalidState, ErrInsufficientHistory,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
