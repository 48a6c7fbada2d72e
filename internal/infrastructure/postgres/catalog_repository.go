package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.UnitCatalogRepository = (*UnitCatalogRepo)(nil)

// UnitCatalogRepo lectura del catálogo de productos y unidades sobre
// PostgreSQL. El catálogo lo escribe el módulo de administración de productos;
// el libro de stock solo resuelve referencias.
type UnitCatalogRepo struct {
	q Querier
}

// NewUnitCatalogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewUnitCatalogRepository(q Querier) *UnitCatalogRepo {
	return &UnitCatalogRepo{q: q}
}

// GetProduct obtiene un producto por id, o (nil, nil) si no existe.
func (r *UnitCatalogRepo) GetProduct(productID string) (*entity.Product, error) {
	query := `
		SELECT id, code, name, is_active, created_at, updated_at
		FROM products WHERE id = $1`
	var p entity.Product
	err := r.q.QueryRow(context.Background(), query, productID).Scan(
		&p.ID, &p.Code, &p.Name, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// ResolveUnit resuelve (productID, unitID). El filtro por product_id rechaza
// unidades que existen pero pertenecen a otro producto.
func (r *UnitCatalogRepo) ResolveUnit(productID, unitID string) (*entity.UnitResolution, error) {
	query := `
		SELECT multiplier_to_base, category, is_base
		FROM units WHERE id = $1 AND product_id = $2`
	var res entity.UnitResolution
	err := r.q.QueryRow(context.Background(), query, unitID, productID).Scan(
		&res.MultiplierToBase, &res.Category, &res.IsBase,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUnknownUnit
		}
		return nil, fmt.Errorf("resolve unit: %w", err)
	}
	return &res, nil
}

// ListUnits lista las unidades registradas de un producto.
func (r *UnitCatalogRepo) ListUnits(productID string) ([]*entity.Unit, error) {
	query := `
		SELECT id, product_id, name, category, multiplier_to_base, is_base, created_at
		FROM units WHERE product_id = $1
		ORDER BY is_base DESC, multiplier_to_base`
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	defer rows.Close()
	var list []*entity.Unit
	for rows.Next() {
		var u entity.Unit
		if err := rows.Scan(&u.ID, &u.ProductID, &u.Name, &u.Category, &u.MultiplierToBase, &u.IsBase, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}
