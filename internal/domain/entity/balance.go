package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceKey identifica un saldo corriente: la combinación
// (empleado, punto de venta, producto, unidad). Los saldos se llevan por unidad
// declarada, nunca fusionados entre unidades de un mismo producto.
type BalanceKey struct {
	EmployeeID string
	StoreID    string
	ProductID  string
	UnitID     string
}

// InventoryBalance es el saldo corriente de una BalanceKey.
// Invariante: Quantity >= 0 en todo momento, verificado en el borde de cada
// mutación (apply atómico), nunca como corrección posterior. Se crea perezosamente
// en 0 con la primera transacción y nunca se borra.
type InventoryBalance struct {
	EmployeeID string
	StoreID    string
	ProductID  string
	UnitID     string
	Quantity   decimal.Decimal
	UpdatedAt  time.Time
}

// Key devuelve la clave compuesta del saldo.
func (b *InventoryBalance) Key() BalanceKey {
	return BalanceKey{
		EmployeeID: b.EmployeeID,
		StoreID:    b.StoreID,
		ProductID:  b.ProductID,
		UnitID:     b.UnitID,
	}
}
