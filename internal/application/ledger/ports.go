package ledger

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Es la frontera de atomicidad del apply: el
// bloqueo de fila, la verificación de no-negatividad, la escritura del saldo y
// el asiento del libro se confirman juntos o ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		balanceRepo repository.BalanceRepository,
		txRepo repository.StockTransactionRepository,
	) error) error
}
