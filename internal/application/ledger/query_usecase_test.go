package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/application/ledger"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// Arma un libro con movimientos mixtos y verifica página, filtros y agregados.
func seedHistory(t *testing.T) (*ledger.QueryUseCase, *ledger.SubmitCartUseCase) {
	t.Helper()
	store := newTestStore(t)
	uc := newUseCase(store)

	for _, op := range []ledger.CartLine{
		line(entity.TxTypeInitial, "40"),
		line(entity.TxTypeSale, "10"),
		line(entity.TxTypeSale, "5"),
		line(entity.TxTypeReturn, "2"),
		line(entity.TxTypeAdjustment, "-1"),
	} {
		apply(t, uc, op)
	}
	return ledger.NewQueryUseCase(store, store), uc
}

func TestListTransactions_AgregadosPorTipo(t *testing.T) {
	queryUC, _ := seedHistory(t)

	page, err := queryUC.ListTransactions(context.Background(), repository.TransactionFilter{
		EmployeeID: testEmployee, StoreID: testStore,
	}, 100, 0)
	require.NoError(t, err)

	require.Len(t, page.Transactions, 5)
	assert.Equal(t, 5, page.Total)
	// Agregados sobre el conjunto filtrado, en unidades base (pieza x1)
	assert.True(t, page.Totals.Received.Equal(dec("40")), "INITIAL suma como recibido")
	assert.True(t, page.Totals.Sold.Equal(dec("15")), "ventas en valor absoluto")
	assert.True(t, page.Totals.Returned.Equal(dec("2")))
	assert.True(t, page.Totals.NetChange.Equal(dec("26")), "40-15+2-1 = 26")
}

func TestListTransactions_FiltroPorTipo(t *testing.T) {
	queryUC, _ := seedHistory(t)

	page, err := queryUC.ListTransactions(context.Background(), repository.TransactionFilter{
		Type: entity.TxTypeSale,
	}, 100, 0)
	require.NoError(t, err)

	require.Len(t, page.Transactions, 2)
	for _, tx := range page.Transactions {
		assert.Equal(t, entity.TxTypeSale, tx.Type)
		assert.True(t, tx.Quantity.LessThan(decimal.Zero))
	}
	// Los agregados siguen al filtro: solo ventas
	assert.True(t, page.Totals.Received.Equal(decimal.Zero))
	assert.True(t, page.Totals.Sold.Equal(dec("15")))
}

// La paginación corta la lista pero los agregados y el total cubren todo el
// conjunto filtrado.
func TestListTransactions_Paginacion(t *testing.T) {
	queryUC, _ := seedHistory(t)

	page, err := queryUC.ListTransactions(context.Background(), repository.TransactionFilter{}, 2, 0)
	require.NoError(t, err)
	assert.Len(t, page.Transactions, 2)
	assert.Equal(t, 5, page.Total)
	assert.True(t, page.Totals.NetChange.Equal(dec("26")))

	last, err := queryUC.ListTransactions(context.Background(), repository.TransactionFilter{}, 2, 4)
	require.NoError(t, err)
	assert.Len(t, last.Transactions, 1)
}

func TestListTransactions_RangoDeFechasInvalido(t *testing.T) {
	queryUC, _ := seedHistory(t)

	from := time.Now()
	to := from.Add(-time.Hour)
	_, err := queryUC.ListTransactions(context.Background(), repository.TransactionFilter{
		From: &from, To: &to,
	}, 100, 0)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListBalances_Validacion(t *testing.T) {
	queryUC, _ := seedHistory(t)

	_, err := queryUC.ListBalances(context.Background(), "", testStore)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	balances, err := queryUC.ListBalances(context.Background(), testEmployee, testStore)
	require.NoError(t, err)
	require.Len(t, balances, 1)
	assert.True(t, balances[0].Quantity.Equal(dec("26")))
}
