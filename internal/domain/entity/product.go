package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorías de unidad (campo explícito en el catálogo; nunca se infiere del nombre).
const (
	UnitCategoryPiece = "PIECE" // unidad suelta
	UnitCategoryPack  = "PACK"  // paquete intermedio
	UnitCategoryBox   = "BOX"   // caja / bulto
)

// Product representa un producto del catálogo referenciado por el libro de stock.
// Una vez referenciado por transacciones solo cambia IsActive; el resto es inmutable.
type Product struct {
	ID        string
	Code      string // código único del producto
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Unit representa una unidad de medida de un producto (pieza, paquete, caja).
// Cada producto tiene exactamente una unidad base (IsBase=true, multiplicador 1);
// las demás convierten a base con MultiplierToBase >= 1. Los multiplicadores nunca
// cambian después de que una transacción los referencia: cambiarlos corrompería
// los totales históricos en unidades base.
type Unit struct {
	ID               string
	ProductID        string
	Name             string
	Category         string // PIECE | PACK | BOX
	MultiplierToBase decimal.Decimal
	IsBase           bool
	CreatedAt        time.Time
}

// UnitResolution resultado de resolver (productID, unitID) en el catálogo.
type UnitResolution struct {
	MultiplierToBase decimal.Decimal
	Category         string
	IsBase           bool
}
