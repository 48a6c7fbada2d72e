package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción de stock.
const (
	TxTypeReceive    = "RECEIVE"    // recepción de mercancía (+)
	TxTypeSale       = "SALE"       // venta (-)
	TxTypeReturn     = "RETURN"     // devolución de cliente (+)
	TxTypeAdjustment = "ADJUSTMENT" // ajuste con signo del caller (+/-)
	TxTypeInitial    = "INITIAL"    // carga inicial (+, solo sobre clave sin historial)
)

// ValidTxType reporta si s es uno de los tipos de transacción conocidos.
func ValidTxType(s string) bool {
	switch s {
	case TxTypeReceive, TxTypeSale, TxTypeReturn, TxTypeAdjustment, TxTypeInitial:
		return true
	}
	return false
}

// StockTransaction es un asiento inmutable del libro de stock. Se crea una vez
// por apply exitoso y nunca se modifica ni se borra; las correcciones son
// transacciones nuevas de tipo ADJUSTMENT.
//
// Quantity es el delta firmado realmente aplicado, en la unidad declarada.
// BaseUnitsDelta = Quantity * multiplicador de la unidad, solo para reportes
// entre unidades; el saldo almacenado siempre es por unidad.
// BalanceAfter es el saldo resultante devuelto por el apply en la misma
// transacción de almacenamiento: se escriben juntos o ninguno.
type StockTransaction struct {
	ID             string
	EmployeeID     string
	StoreID        string
	ProductID      string
	UnitID         string
	Type           string
	Quantity       decimal.Decimal
	BaseUnitsDelta decimal.Decimal
	BalanceAfter   decimal.Decimal
	Note           string
	SaleID         string // referencia opcional a la venta que originó el movimiento
	CreatedAt      time.Time
}
