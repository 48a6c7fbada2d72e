package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// Normalize convierte la cantidad cruda de una línea en el delta firmado que se
// aplica al saldo, según la regla de signo del tipo de transacción (servicio de
// dominio, puro):
//
//	RECEIVE / RETURN / INITIAL: cantidad > 0, delta = +cantidad
//	SALE:                       cantidad > 0, delta = -cantidad
//	ADJUSTMENT:                 cantidad != 0, delta = cantidad tal cual
//
// ADJUSTMENT es el único tipo que puede bajar el saldo fuera de SALE; el signo
// lo controla el caller. Retorna ErrInvalidQuantity si la cantidad es cero o
// viola la regla de signo, ErrInvalidInput si el tipo es desconocido.
func Normalize(txType string, rawQuantity decimal.Decimal) (decimal.Decimal, error) {
	if rawQuantity.IsZero() {
		return decimal.Zero, domain.ErrInvalidQuantity
	}
	switch txType {
	case entity.TxTypeReceive, entity.TxTypeReturn, entity.TxTypeInitial:
		if rawQuantity.LessThanOrEqual(decimal.Zero) {
			return decimal.Zero, domain.ErrInvalidQuantity
		}
		return rawQuantity, nil
	case entity.TxTypeSale:
		if rawQuantity.LessThanOrEqual(decimal.Zero) {
			return decimal.Zero, domain.ErrInvalidQuantity
		}
		return rawQuantity.Neg(), nil
	case entity.TxTypeAdjustment:
		return rawQuantity, nil
	}
	return decimal.Zero, domain.ErrInvalidInput
}

// BaseUnitsDelta deriva el delta en unidades base para reportes entre unidades.
// Nunca participa en el saldo almacenado (los saldos son por unidad declarada).
func BaseUnitsDelta(signedDelta, multiplierToBase decimal.Decimal) decimal.Decimal {
	return signedDelta.Mul(multiplierToBase)
}
