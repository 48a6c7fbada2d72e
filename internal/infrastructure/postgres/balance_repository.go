package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.BalanceRepository = (*BalanceRepo)(nil)

// BalanceRepo implementación de BalanceRepository sobre PostgreSQL (usable con
// pool o tx). La fila de saldo se crea perezosamente con el primer apply y
// nunca se borra: un saldo en 0 sigue existiendo.
type BalanceRepo struct {
	q Querier
}

// NewBalanceRepository construye el adaptador de saldos. Pasar pool o tx (Querier).
func NewBalanceRepository(q Querier) *BalanceRepo {
	return &BalanceRepo{q: q}
}

const balanceColumns = `employee_id, store_id, product_id, unit_id, quantity, updated_at`

// Get obtiene el saldo de la clave o (nil, nil) si la fila no existe aún.
func (r *BalanceRepo) Get(key entity.BalanceKey) (*entity.InventoryBalance, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM balances
		WHERE employee_id = $1 AND store_id = $2 AND product_id = $3 AND unit_id = $4`
	return r.scanOne(query, key)
}

// GetForUpdate igual que Get pero bloqueando la fila (SELECT ... FOR UPDATE).
// El bloqueo es por fila: applies sobre claves distintas no contienden.
func (r *BalanceRepo) GetForUpdate(key entity.BalanceKey) (*entity.InventoryBalance, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM balances
		WHERE employee_id = $1 AND store_id = $2 AND product_id = $3 AND unit_id = $4
		FOR UPDATE`
	return r.scanOne(query, key)
}

func (r *BalanceRepo) scanOne(query string, key entity.BalanceKey) (*entity.InventoryBalance, error) {
	var b entity.InventoryBalance
	err := r.q.QueryRow(context.Background(), query,
		key.EmployeeID, key.StoreID, key.ProductID, key.UnitID,
	).Scan(&b.EmployeeID, &b.StoreID, &b.ProductID, &b.UnitID, &b.Quantity, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return &b, nil
}

// CreateIfAbsent inserta la fila del saldo en 0 si no existe. Devuelve true si
// este caller la insertó; false si otra transacción ya la había creado. FOR
// UPDATE no bloquea filas inexistentes, así que la primera escritura de una
// clave pasa por aquí antes de volver a bloquear.
func (r *BalanceRepo) CreateIfAbsent(key entity.BalanceKey) (bool, error) {
	query := `
		INSERT INTO balances (employee_id, store_id, product_id, unit_id, quantity, updated_at)
		VALUES ($1, $2, $3, $4, 0, now())
		ON CONFLICT (employee_id, store_id, product_id, unit_id) DO NOTHING`
	tag, err := r.q.Exec(context.Background(), query,
		key.EmployeeID, key.StoreID, key.ProductID, key.UnitID,
	)
	if err != nil {
		return false, fmt.Errorf("create balance: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Upsert inserta o actualiza la cantidad del saldo (por clave compuesta).
func (r *BalanceRepo) Upsert(balance *entity.InventoryBalance) error {
	query := `
		INSERT INTO balances (employee_id, store_id, product_id, unit_id, quantity, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (employee_id, store_id, product_id, unit_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		balance.EmployeeID, balance.StoreID, balance.ProductID, balance.UnitID, balance.Quantity,
	)
	if err != nil {
		return fmt.Errorf("upsert balance: %w", err)
	}
	return nil
}

// ListByEmployeeStore lista los saldos de un empleado en un punto de venta.
func (r *BalanceRepo) ListByEmployeeStore(employeeID, storeID string) ([]*entity.InventoryBalance, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM balances
		WHERE employee_id = $1 AND store_id = $2
		ORDER BY product_id, unit_id`
	rows, err := r.q.Query(context.Background(), query, employeeID, storeID)
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryBalance
	for rows.Next() {
		var b entity.InventoryBalance
		if err := rows.Scan(&b.EmployeeID, &b.StoreID, &b.ProductID, &b.UnitID, &b.Quantity, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
