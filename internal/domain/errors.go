package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// ValidationError indica parámetros ausentes o mal formados. Coincide con ErrInvalidInput.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError crea un ValidationError para el campo indicado.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// InsufficientStockError indica que una línea de venta supera el stock disponible.
// La venta completa se rechaza; el cliente puede reintentar con otras cantidades.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %q (%s): solicitado %d, disponible %d",
		e.ProductName, e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// NotFoundError indica que la entidad referenciada no existe.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s no encontrado", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// UnauthorizedError indica un acceso a una entidad de otro tenant.
type UnauthorizedError struct {
	Entity string
	ID     string
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("%s %s no pertenece al propietario", e.Entity, e.ID)
}

func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }
