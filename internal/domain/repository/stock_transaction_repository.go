package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// TransactionFilter filtros del listado de transacciones. Los campos vacíos no filtran.
type TransactionFilter struct {
	EmployeeID string
	StoreID    string
	ProductID  string
	UnitID     string
	Type       string
	From       *time.Time
	To         *time.Time
}

// TransactionTotals agregados por tipo sobre el conjunto filtrado, en unidades base.
type TransactionTotals struct {
	Received  decimal.Decimal // suma de RECEIVE + INITIAL
	Sold      decimal.Decimal // suma de SALE (valor absoluto)
	Returned  decimal.Decimal // suma de RETURN
	NetChange decimal.Decimal // suma de todos los deltas (incluye ADJUSTMENT)
}

// StockTransactionRepository define el puerto del libro de transacciones.
// Solo append: los asientos nunca se modifican ni se borran.
type StockTransactionRepository interface {
	Create(tx *entity.StockTransaction) error
	GetByID(id string) (*entity.StockTransaction, error)
	// List devuelve la página pedida y el total de filas del conjunto filtrado,
	// ordenado por created_at descendente.
	List(filter TransactionFilter, limit, offset int) ([]*entity.StockTransaction, int, error)
	// Totals calcula los agregados por tipo sobre el conjunto filtrado.
	Totals(filter TransactionFilter) (*TransactionTotals, error)
}
