package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	domledger "github.com/jhoicas/Kardex-api/internal/domain/ledger"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// SubmitCartUseCase aplica transacciones de stock de forma atómica por línea:
// cada línea corre en su propia transacción de BD con bloqueo de fila
// (SELECT FOR UPDATE) sobre el saldo, verificación de no-negatividad y asiento
// en el libro, todo con Commit/Rollback conjunto.
type SubmitCartUseCase struct {
	txRunner TxRunner
	catalog  repository.UnitCatalogRepository
}

// NewSubmitCartUseCase construye el caso de uso.
func NewSubmitCartUseCase(txRunner TxRunner, catalog repository.UnitCatalogRepository) *SubmitCartUseCase {
	return &SubmitCartUseCase{txRunner: txRunner, catalog: catalog}
}

// CartLine una línea pendiente del carrito: producto, unidad, tipo y cantidad
// cruda (el signo lo decide la regla del tipo, salvo ADJUSTMENT).
type CartLine struct {
	ProductID string
	UnitID    string
	Type      string
	Quantity  decimal.Decimal
	Note      string
	SaleID    string
}

// LineFailure índice y causa de la primera línea rechazada de un carrito.
type LineFailure struct {
	Index int
	Err   error
}

// BatchResult resultado de un carrito. El carrito NO es atómico: es una
// agrupación de conveniencia del cliente. Applied contiene las transacciones ya
// confirmadas (que quedan firmes aunque una línea posterior falle) y FailedAt
// la primera falla; las líneas siguientes no se intentan.
type BatchResult struct {
	Applied  []*entity.StockTransaction
	FailedAt *LineFailure
}

// Partial reporta si el carrito quedó aplicado parcialmente.
func (r *BatchResult) Partial() bool { return r.FailedAt != nil }

// SubmitCart aplica las líneas estrictamente en el orden recibido y se detiene
// en la primera falla. Si el contexto se cancela a mitad del carrito, las líneas
// ya confirmadas quedan y el resto se reporta como falla en la línea siguiente.
func (uc *SubmitCartUseCase) SubmitCart(ctx context.Context, employeeID, storeID string, lines []CartLine) *BatchResult {
	result := &BatchResult{Applied: make([]*entity.StockTransaction, 0, len(lines))}
	if len(lines) == 0 {
		result.FailedAt = &LineFailure{Index: 0, Err: domain.ErrInvalidInput}
		return result
	}
	for i, line := range lines {
		if err := ctx.Err(); err != nil {
			result.FailedAt = &LineFailure{Index: i, Err: err}
			return result
		}
		tx, err := uc.CreateTransaction(ctx, employeeID, storeID, line)
		if err != nil {
			result.FailedAt = &LineFailure{Index: i, Err: err}
			return result
		}
		result.Applied = append(result.Applied, tx)
	}
	return result
}

// CreateTransaction valida, normaliza y aplica una sola transacción de stock.
// Devuelve el asiento creado (con BalanceAfter exacto del apply) o el error de
// rechazo sin ningún efecto sobre el estado.
func (uc *SubmitCartUseCase) CreateTransaction(ctx context.Context, employeeID, storeID string, line CartLine) (*entity.StockTransaction, error) {
	if employeeID == "" || storeID == "" || line.ProductID == "" || line.UnitID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !entity.ValidTxType(line.Type) {
		return nil, domain.ErrInvalidInput
	}

	product, err := uc.catalog.GetProduct(line.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrUnknownProduct
	}
	if !product.IsActive {
		return nil, domain.ErrInactiveProduct
	}
	unit, err := uc.catalog.ResolveUnit(line.ProductID, line.UnitID)
	if err != nil {
		return nil, err
	}

	delta, err := domledger.Normalize(line.Type, line.Quantity)
	if err != nil {
		return nil, err
	}

	key := entity.BalanceKey{
		EmployeeID: employeeID,
		StoreID:    storeID,
		ProductID:  line.ProductID,
		UnitID:     line.UnitID,
	}
	now := time.Now()

	var created *entity.StockTransaction
	err = uc.txRunner.Run(ctx, func(
		balanceRepo repository.BalanceRepository,
		txRepo repository.StockTransactionRepository,
	) error {
		// Bloquea la fila del saldo; claves distintas no contienden.
		balance, err := balanceRepo.GetForUpdate(key)
		if err != nil {
			return err
		}
		// INITIAL solo sobre una clave sin historial (fila inexistente).
		if line.Type == entity.TxTypeInitial && balance != nil {
			return domain.ErrBalanceExists
		}
		if balance == nil {
			// FOR UPDATE sobre una fila inexistente no bloquea nada: la primera
			// escritura de la clave materializa la fila en 0 y vuelve a bloquear
			// para serializar también ese caso.
			inserted, err := balanceRepo.CreateIfAbsent(key)
			if err != nil {
				return err
			}
			if line.Type == entity.TxTypeInitial && !inserted {
				return domain.ErrBalanceExists
			}
			if balance, err = balanceRepo.GetForUpdate(key); err != nil {
				return err
			}
			if balance == nil {
				return fmt.Errorf("saldo inexistente tras crearlo: %v", key)
			}
		}
		candidate := balance.Quantity.Add(delta)
		if candidate.LessThan(decimal.Zero) {
			return &domain.InsufficientStockError{
				Requested: delta.Neg(),
				Available: balance.Quantity,
			}
		}
		balance.Quantity = candidate
		balance.UpdatedAt = now
		if err := balanceRepo.Upsert(balance); err != nil {
			return err
		}
		created = &entity.StockTransaction{
			ID:             uuid.New().String(),
			EmployeeID:     key.EmployeeID,
			StoreID:        key.StoreID,
			ProductID:      key.ProductID,
			UnitID:         key.UnitID,
			Type:           line.Type,
			Quantity:       delta,
			BaseUnitsDelta: domledger.BaseUnitsDelta(delta, unit.MultiplierToBase),
			BalanceAfter:   candidate,
			Note:           line.Note,
			SaleID:         line.SaleID,
			CreatedAt:      now,
		}
		return txRepo.Create(created)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
