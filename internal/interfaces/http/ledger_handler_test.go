package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/ledger"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/Kardex-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Kardex-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testEmployee  = "00000000-0000-0000-0000-000000000001"
	testCompany   = "00000000-0000-0000-0000-000000000002"
	testStore     = "store-1"
	testProduct   = "prod-1"
	testUnit      = "unit-pc"
	testIssuer    = "kardex-api-test"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// buildTestApp arma una app Fiber con el router real sobre un Store en memoria
// ya sembrado con un producto y su unidad base.
func buildTestApp(t *testing.T) (*fiber.App, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	store.SeedProduct(entity.Product{ID: testProduct, Code: "P001", Name: "Agua 600ml", IsActive: true})
	store.SeedUnit(entity.Unit{
		ID: testUnit, ProductID: testProduct, Name: "Pieza",
		Category: entity.UnitCategoryPiece, MultiplierToBase: dec("1"), IsBase: true,
	})

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		SubmitCart: ledger.NewSubmitCartUseCase(store, store),
		Query:      ledger.NewQueryUseCase(store, store),
		JWTSecret:  testJWTSecret,
	})
	return app, store
}

func bearerToken(t *testing.T) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testEmployee, testCompany, testIssuer, 60)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// doJSON lanza una petición con body JSON opcional y devuelve la respuesta.
func doJSON(t *testing.T, app *fiber.App, method, path string, body any, auth string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out T
	require.NoError(t, json.Unmarshal(raw, &out), "body: %s", raw)
	return out
}

func receiveBody(qty string) dto.CreateTransactionRequest {
	return dto.CreateTransactionRequest{
		StoreID:   testStore,
		ProductID: testProduct,
		UnitID:    testUnit,
		Type:      entity.TxTypeReceive,
		Quantity:  dec(qty),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// POST /api/ledger/transactions
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateTransaction_Creado(t *testing.T) {
	app, _ := buildTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/ledger/transactions", receiveBody("20"), bearerToken(t))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	body := decode[dto.CreateTransactionResponse](t, resp)
	assert.NotEmpty(t, body.TransactionID)
	assert.True(t, body.BalanceAfter.Equal(dec("20")))
}

func TestCreateTransaction_SinToken(t *testing.T) {
	app, _ := buildTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/ledger/transactions", receiveBody("20"), "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

// El rechazo por stock insuficiente es distinguible de la validación genérica:
// 409 con código propio y los montos en el mensaje.
func TestCreateTransaction_StockInsuficiente(t *testing.T) {
	app, _ := buildTestApp(t)
	auth := bearerToken(t)

	resp := doJSON(t, app, http.MethodPost, "/api/ledger/transactions", receiveBody("20"), auth)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	sale := receiveBody("25")
	sale.Type = entity.TxTypeSale
	resp = doJSON(t, app, http.MethodPost, "/api/ledger/transactions", sale, auth)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
	assert.Contains(t, body.Message, "25")
	assert.Contains(t, body.Message, "20")
}

func TestCreateTransaction_CantidadInvalida(t *testing.T) {
	app, _ := buildTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/ledger/transactions", receiveBody("-5"), bearerToken(t))
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "INVALID_QUANTITY", body.Code)
}

func TestCreateTransaction_ProductoDesconocido(t *testing.T) {
	app, _ := buildTestApp(t)

	req := receiveBody("5")
	req.ProductID = "prod-x"
	resp := doJSON(t, app, http.MethodPost, "/api/ledger/transactions", req, bearerToken(t))
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "UNKNOWN_PRODUCT", body.Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// POST /api/ledger/carts
// ──────────────────────────────────────────────────────────────────────────────

func cartLine(txType, qty string) dto.CartLineRequest {
	return dto.CartLineRequest{ProductID: testProduct, UnitID: testUnit, Type: txType, Quantity: dec(qty)}
}

func TestSubmitCart_Completo(t *testing.T) {
	app, _ := buildTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/ledger/carts", dto.SubmitCartRequest{
		StoreID: testStore,
		Lines: []dto.CartLineRequest{
			cartLine(entity.TxTypeReceive, "10"),
			cartLine(entity.TxTypeSale, "4"),
		},
	}, bearerToken(t))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decode[dto.SubmitCartResponse](t, resp)
	require.Nil(t, body.FailedAt)
	require.Len(t, body.Applied, 2)
	assert.True(t, body.Applied[1].BalanceAfter.Equal(dec("6")))
}

// Carrito con falla en la línea 2: lo aplicado queda, failed_at apunta al
// índice y la línea 3 no se intenta.
func TestSubmitCart_ParcialConFalla(t *testing.T) {
	app, store := buildTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/ledger/carts", dto.SubmitCartRequest{
		StoreID: testStore,
		Lines: []dto.CartLineRequest{
			cartLine(entity.TxTypeReceive, "10"),
			cartLine(entity.TxTypeSale, "0"),
			cartLine(entity.TxTypeSale, "2"),
		},
	}, bearerToken(t))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decode[dto.SubmitCartResponse](t, resp)
	require.NotNil(t, body.FailedAt)
	assert.Equal(t, 1, body.FailedAt.Index)
	assert.Equal(t, "INVALID_QUANTITY", body.FailedAt.Code)
	require.Len(t, body.Applied, 1)

	b, err := store.Get(entity.BalanceKey{
		EmployeeID: testEmployee, StoreID: testStore, ProductID: testProduct, UnitID: testUnit,
	})
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.True(t, b.Quantity.Equal(dec("10")), "la línea 3 nunca se aplicó")
}

// ──────────────────────────────────────────────────────────────────────────────
// GET /api/ledger/transactions y /api/ledger/balances
// ──────────────────────────────────────────────────────────────────────────────

func TestListTransactions_ConAgregados(t *testing.T) {
	app, _ := buildTestApp(t)
	auth := bearerToken(t)

	resp := doJSON(t, app, http.MethodPost, "/api/ledger/carts", dto.SubmitCartRequest{
		StoreID: testStore,
		Lines: []dto.CartLineRequest{
			cartLine(entity.TxTypeReceive, "30"),
			cartLine(entity.TxTypeSale, "12"),
			cartLine(entity.TxTypeReturn, "2"),
		},
	}, auth)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/ledger/transactions?store_id="+testStore+"&page=1&page_size=2", nil, auth)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decode[dto.ListTransactionsResponse](t, resp)
	assert.Len(t, body.Transactions, 2, "página de 2")
	assert.Equal(t, 3, body.Pagination.Total)
	assert.True(t, body.Totals.Received.Equal(dec("30")))
	assert.True(t, body.Totals.Sold.Equal(dec("12")))
	assert.True(t, body.Totals.Returned.Equal(dec("2")))
	assert.True(t, body.Totals.NetChange.Equal(dec("20")))
}

func TestListTransactions_TipoInvalido(t *testing.T) {
	app, _ := buildTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/ledger/transactions?type=XYZ", nil, bearerToken(t))
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestListBalances_DelEmpleado(t *testing.T) {
	app, _ := buildTestApp(t)
	auth := bearerToken(t)

	resp := doJSON(t, app, http.MethodPost, "/api/ledger/transactions", receiveBody("8"), auth)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/ledger/balances?store_id="+testStore, nil, auth)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decode[dto.ListBalancesResponse](t, resp)
	assert.Equal(t, testEmployee, body.EmployeeID)
	require.Len(t, body.Balances, 1)
	assert.Equal(t, testProduct, body.Balances[0].ProductID)
	assert.True(t, body.Balances[0].Quantity.Equal(dec("8")))
}
