package repository

import "github.com/jhoicas/Kardex-api/internal/domain/entity"

// BalanceRepository define el puerto para el saldo corriente por clave compuesta.
// La mutación solo ocurre vía el apply atómico del caso de uso: GetForUpdate +
// verificación de no-negatividad + Upsert dentro de una misma transacción de
// almacenamiento. Ningún otro camino escribe saldos.
type BalanceRepository interface {
	// Get devuelve el saldo de la clave o (nil, nil) si la fila aún no existe
	// (la creación perezosa en 0 está a cargo del apply).
	Get(key entity.BalanceKey) (*entity.InventoryBalance, error)
	// GetForUpdate igual que Get pero bloqueando la fila (SELECT ... FOR UPDATE).
	// La serialización es por clave: claves distintas no contienden.
	GetForUpdate(key entity.BalanceKey) (*entity.InventoryBalance, error)
	// CreateIfAbsent materializa la fila en 0 si no existe y reporta si este
	// caller la insertó. Sobre una fila inexistente FOR UPDATE no bloquea nada:
	// el apply crea la fila primero y vuelve a bloquear para serializar también
	// la primera escritura de una clave.
	CreateIfAbsent(key entity.BalanceKey) (bool, error)
	// Upsert inserta o actualiza la cantidad del saldo.
	Upsert(balance *entity.InventoryBalance) error
	// ListByEmployeeStore lista todos los saldos de un empleado en un punto de venta.
	ListByEmployeeStore(employeeID, storeID string) ([]*entity.InventoryBalance, error)
}
