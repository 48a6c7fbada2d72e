package ledger

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// QueryUseCase lecturas del libro: historial filtrado con agregados y saldos
// corrientes por empleado y punto de venta.
type QueryUseCase struct {
	balanceRepo repository.BalanceRepository
	txRepo      repository.StockTransactionRepository
}

// NewQueryUseCase construye el caso de uso de consulta.
func NewQueryUseCase(balanceRepo repository.BalanceRepository, txRepo repository.StockTransactionRepository) *QueryUseCase {
	return &QueryUseCase{balanceRepo: balanceRepo, txRepo: txRepo}
}

// TransactionPage página de transacciones más agregados del conjunto filtrado completo.
type TransactionPage struct {
	Transactions []*entity.StockTransaction
	Totals       repository.TransactionTotals
	Total        int
}

// ListTransactions devuelve la página pedida del historial (orden cronológico
// descendente) y los agregados por tipo sobre todo el conjunto filtrado, no solo
// la página.
func (uc *QueryUseCase) ListTransactions(ctx context.Context, filter repository.TransactionFilter, limit, offset int) (*TransactionPage, error) {
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, domain.ErrInvalidInput
	}
	txs, total, err := uc.txRepo.List(filter, limit, offset)
	if err != nil {
		return nil, err
	}
	totals, err := uc.txRepo.Totals(filter)
	if err != nil {
		return nil, err
	}
	return &TransactionPage{Transactions: txs, Totals: *totals, Total: total}, nil
}

// ListBalances devuelve todos los saldos por producto/unidad de un empleado en
// un punto de venta, con su última actualización.
func (uc *QueryUseCase) ListBalances(ctx context.Context, employeeID, storeID string) ([]*entity.InventoryBalance, error) {
	if employeeID == "" || storeID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.balanceRepo.ListByEmployeeStore(employeeID, storeID)
}
