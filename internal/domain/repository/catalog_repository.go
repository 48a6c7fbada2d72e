package repository

import "github.com/jhoicas/Kardex-api/internal/domain/entity"

// UnitCatalogRepository define el puerto de solo lectura sobre el catálogo de
// productos y unidades. El catálogo lo administra otro módulo; el libro de stock
// únicamente resuelve referencias.
type UnitCatalogRepository interface {
	// GetProduct devuelve el producto o (nil, nil) si no existe.
	GetProduct(productID string) (*entity.Product, error)
	// ResolveUnit resuelve (productID, unitID). Retorna domain.ErrUnknownUnit si
	// el par no está registrado o la unidad pertenece a otro producto.
	ResolveUnit(productID, unitID string) (*entity.UnitResolution, error)
	// ListUnits lista las unidades registradas de un producto.
	ListUnits(productID string) ([]*entity.Unit, error)
}
