package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas salvo decimal para los montos).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInvalidQuantity   = errors.New("cantidad inválida para el tipo de transacción")
	ErrUnknownProduct    = errors.New("producto no registrado")
	ErrUnknownUnit       = errors.New("unidad no registrada para el producto")
	ErrInactiveProduct   = errors.New("producto inactivo")
	ErrBalanceExists     = errors.New("el saldo inicial ya fue cargado para esta combinación")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrUnauthorized      = errors.New("no autorizado")
)

// InsufficientStockError detalla un rechazo por stock insuficiente:
// cuánto se pidió descontar y cuánto había disponible al momento del apply.
// Envuelve ErrInsufficientStock para que el caller pueda usar errors.Is.
type InsufficientStockError struct {
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: solicitado %s, disponible %s",
		e.Requested.String(), e.Available.String())
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}
