package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateTransactionRequest body para POST /api/ledger/transactions.
// El empleado sale del token; store_id identifica el punto de venta.
type CreateTransactionRequest struct {
	StoreID   string          `json:"store_id"`
	ProductID string          `json:"product_id"`
	UnitID    string          `json:"unit_id"`
	Type      string          `json:"type"`
	Quantity  decimal.Decimal `json:"quantity"`
	Note      string          `json:"note,omitempty"`
	SaleID    string          `json:"sale_id,omitempty"`
}

// CreateTransactionResponse respuesta 201 del alta individual.
type CreateTransactionResponse struct {
	TransactionID string          `json:"transaction_id"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
}

// CartLineRequest una línea del carrito.
type CartLineRequest struct {
	ProductID string          `json:"product_id"`
	UnitID    string          `json:"unit_id"`
	Type      string          `json:"type"`
	Quantity  decimal.Decimal `json:"quantity"`
	Note      string          `json:"note,omitempty"`
	SaleID    string          `json:"sale_id,omitempty"`
}

// SubmitCartRequest body para POST /api/ledger/carts.
type SubmitCartRequest struct {
	StoreID string            `json:"store_id"`
	Lines   []CartLineRequest `json:"lines"`
}

// LineFailureDTO ubicación y causa de la primera línea fallida de un carrito.
type LineFailureDTO struct {
	Index   int    `json:"index"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SubmitCartResponse resultado de un carrito: las transacciones ya confirmadas
// más, si el carrito quedó parcial, la primera falla. El caller debe inspeccionar
// failed_at en lugar de asumir que el carrito fue atómico.
type SubmitCartResponse struct {
	Applied  []StockTransactionDTO `json:"applied"`
	FailedAt *LineFailureDTO       `json:"failed_at,omitempty"`
}

// StockTransactionDTO un asiento del libro en respuestas HTTP.
type StockTransactionDTO struct {
	ID             string          `json:"id"`
	EmployeeID     string          `json:"employee_id"`
	StoreID        string          `json:"store_id"`
	ProductID      string          `json:"product_id"`
	UnitID         string          `json:"unit_id"`
	Type           string          `json:"type"`
	Quantity       decimal.Decimal `json:"quantity"`
	BaseUnitsDelta decimal.Decimal `json:"base_units_delta"`
	BalanceAfter   decimal.Decimal `json:"balance_after"`
	Note           string          `json:"note,omitempty"`
	SaleID         string          `json:"sale_id,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// TransactionTotalsDTO agregados por tipo sobre el conjunto filtrado (unidades base).
type TransactionTotalsDTO struct {
	Received  decimal.Decimal `json:"received"`
	Sold      decimal.Decimal `json:"sold"`
	Returned  decimal.Decimal `json:"returned"`
	NetChange decimal.Decimal `json:"net_change"`
}

// ListTransactionsResponse respuesta de GET /api/ledger/transactions.
type ListTransactionsResponse struct {
	Transactions []StockTransactionDTO `json:"transactions"`
	Totals       TransactionTotalsDTO  `json:"totals"`
	Pagination   PageResponse          `json:"pagination"`
}

// BalanceDTO un saldo corriente en respuestas HTTP.
type BalanceDTO struct {
	ProductID string          `json:"product_id"`
	UnitID    string          `json:"unit_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ListBalancesResponse respuesta de GET /api/ledger/balances.
type ListBalancesResponse struct {
	EmployeeID string       `json:"employee_id"`
	StoreID    string       `json:"store_id"`
	Balances   []BalanceDTO `json:"balances"`
}
