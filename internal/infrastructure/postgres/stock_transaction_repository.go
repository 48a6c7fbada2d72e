package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.StockTransactionRepository = (*StockTransactionRepo)(nil)

// StockTransactionRepo implementación del libro de transacciones sobre
// PostgreSQL (usable con pool o tx). Solo INSERT y SELECT: los asientos son
// inmutables, no hay UPDATE ni DELETE.
type StockTransactionRepo struct {
	q Querier
}

// NewStockTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockTransactionRepository(q Querier) *StockTransactionRepo {
	return &StockTransactionRepo{q: q}
}

const txColumns = `id, employee_id, store_id, product_id, unit_id, type, quantity,
	base_units_delta, balance_after, note, sale_id, created_at`

// Create persiste un asiento del libro.
func (r *StockTransactionRepo) Create(tx *entity.StockTransaction) error {
	query := `
		INSERT INTO stock_transactions (` + txColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	note := (*string)(nil)
	if tx.Note != "" {
		note = &tx.Note
	}
	saleID := (*string)(nil)
	if tx.SaleID != "" {
		saleID = &tx.SaleID
	}
	_, err := r.q.Exec(context.Background(), query,
		tx.ID, tx.EmployeeID, tx.StoreID, tx.ProductID, tx.UnitID, tx.Type,
		tx.Quantity, tx.BaseUnitsDelta, tx.BalanceAfter, note, saleID, tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock transaction: %w", err)
	}
	return nil
}

// GetByID obtiene un asiento por id, o (nil, nil) si no existe.
func (r *StockTransactionRepo) GetByID(id string) (*entity.StockTransaction, error) {
	query := `SELECT ` + txColumns + ` FROM stock_transactions WHERE id = $1`
	row := r.q.QueryRow(context.Background(), query, id)
	tx, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock transaction: %w", err)
	}
	return tx, nil
}

// List devuelve la página pedida (orden cronológico descendente) y el total de
// filas del conjunto filtrado.
func (r *StockTransactionRepo) List(filter repository.TransactionFilter, limit, offset int) ([]*entity.StockTransaction, int, error) {
	where, args := buildFilter(filter)

	var total int
	countQuery := `SELECT count(*) FROM stock_transactions` + where
	if err := r.q.QueryRow(context.Background(), countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count stock transactions: %w", err)
	}

	query := fmt.Sprintf(`SELECT `+txColumns+` FROM stock_transactions%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list stock transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockTransaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan stock transaction: %w", err)
		}
		list = append(list, tx)
	}
	return list, total, rows.Err()
}

// Totals agrega los deltas en unidades base por tipo sobre el conjunto filtrado.
// RECEIVE e INITIAL suman como recibido; SALE se reporta en valor absoluto.
func (r *StockTransactionRepo) Totals(filter repository.TransactionFilter) (*repository.TransactionTotals, error) {
	where, args := buildFilter(filter)
	query := `
		SELECT
			COALESCE(sum(base_units_delta) FILTER (WHERE type IN ('RECEIVE', 'INITIAL')), 0),
			COALESCE(abs(sum(base_units_delta) FILTER (WHERE type = 'SALE')), 0),
			COALESCE(sum(base_units_delta) FILTER (WHERE type = 'RETURN'), 0),
			COALESCE(sum(base_units_delta), 0)
		FROM stock_transactions` + where
	var t repository.TransactionTotals
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&t.Received, &t.Sold, &t.Returned, &t.NetChange,
	)
	if err != nil {
		return nil, fmt.Errorf("totals stock transactions: %w", err)
	}
	return &t, nil
}

// buildFilter arma el WHERE dinámico con placeholders posicionales.
func buildFilter(f repository.TransactionFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.EmployeeID != "" {
		add("employee_id = $%d", f.EmployeeID)
	}
	if f.StoreID != "" {
		add("store_id = $%d", f.StoreID)
	}
	if f.ProductID != "" {
		add("product_id = $%d", f.ProductID)
	}
	if f.UnitID != "" {
		add("unit_id = $%d", f.UnitID)
	}
	if f.Type != "" {
		add("type = $%d", f.Type)
	}
	if f.From != nil {
		add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("created_at <= $%d", *f.To)
	}
	if len(conds) == 0 {
		return "", nil
	}
	where := " WHERE " + conds[0]
	for _, c := range conds[1:] {
		where += " AND " + c
	}
	return where, args
}

// scanTransaction lee un asiento desde una fila (pgx.Row o pgx.Rows).
func scanTransaction(row pgx.Row) (*entity.StockTransaction, error) {
	var tx entity.StockTransaction
	var note, saleID *string
	err := row.Scan(
		&tx.ID, &tx.EmployeeID, &tx.StoreID, &tx.ProductID, &tx.UnitID, &tx.Type,
		&tx.Quantity, &tx.BaseUnitsDelta, &tx.BalanceAfter, &note, &saleID, &tx.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if note != nil {
		tx.Note = *note
	}
	if saleID != nil {
		tx.SaleID = *saleID
	}
	return &tx, nil
}
