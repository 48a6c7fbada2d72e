package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/ledger"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// LedgerHandler maneja las peticiones HTTP del libro de stock (protegido).
type LedgerHandler struct {
	submitUC *ledger.SubmitCartUseCase
	queryUC  *ledger.QueryUseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(submitUC *ledger.SubmitCartUseCase, queryUC *ledger.QueryUseCase) *LedgerHandler {
	return &LedgerHandler{submitUC: submitUC, queryUC: queryUC}
}

// CreateTransaction godoc
// @Summary      Registrar una transacción de stock
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransactionRequest  true  "store_id, product_id, unit_id, type (RECEIVE|SALE|RETURN|ADJUSTMENT|INITIAL), quantity, note?, sale_id?"
// @Success      201   {object}  dto.CreateTransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ledger/transactions [post]
func (h *LedgerHandler) CreateTransaction(c *fiber.Ctx) error {
	employeeID := GetEmployeeID(c)
	if employeeID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	tx, err := h.submitUC.CreateTransaction(c.Context(), employeeID, in.StoreID, ledger.CartLine{
		ProductID: in.ProductID,
		UnitID:    in.UnitID,
		Type:      in.Type,
		Quantity:  in.Quantity,
		Note:      in.Note,
		SaleID:    in.SaleID,
	})
	if err != nil {
		status, body := errorBody(err)
		return c.Status(status).JSON(body)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CreateTransactionResponse{
		TransactionID: tx.ID,
		BalanceAfter:  tx.BalanceAfter,
	})
}

// SubmitCart godoc
// @Summary      Enviar un carrito de líneas de stock
// @Description  Aplica las líneas en orden, una transacción de BD por línea; se
//               detiene en la primera falla y devuelve lo ya confirmado más la
//               ubicación de la falla. El carrito NO es atómico.
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SubmitCartRequest  true  "store_id y líneas del carrito"
// @Success      200   {object}  dto.SubmitCartResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/ledger/carts [post]
func (h *LedgerHandler) SubmitCart(c *fiber.Ctx) error {
	employeeID := GetEmployeeID(c)
	if employeeID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.SubmitCartRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	lines := make([]ledger.CartLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, ledger.CartLine{
			ProductID: l.ProductID,
			UnitID:    l.UnitID,
			Type:      l.Type,
			Quantity:  l.Quantity,
			Note:      l.Note,
			SaleID:    l.SaleID,
		})
	}
	result := h.submitUC.SubmitCart(c.Context(), employeeID, in.StoreID, lines)

	resp := dto.SubmitCartResponse{Applied: make([]dto.StockTransactionDTO, 0, len(result.Applied))}
	for _, tx := range result.Applied {
		resp.Applied = append(resp.Applied, toTransactionDTO(tx))
	}
	if result.FailedAt != nil {
		_, body := errorBody(result.FailedAt.Err)
		resp.FailedAt = &dto.LineFailureDTO{
			Index:   result.FailedAt.Index,
			Code:    body.Code,
			Message: body.Message,
		}
	}
	return c.JSON(resp)
}

// ListTransactions godoc
// @Summary      Historial de transacciones con agregados
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        employee_id  query  string  false  "Filtrar por empleado"
// @Param        store_id     query  string  false  "Filtrar por punto de venta"
// @Param        product_id   query  string  false  "Filtrar por producto"
// @Param        unit_id      query  string  false  "Filtrar por unidad"
// @Param        type         query  string  false  "RECEIVE|SALE|RETURN|ADJUSTMENT|INITIAL"
// @Param        from         query  string  false  "Fecha inicial (RFC3339 o YYYY-MM-DD)"
// @Param        to           query  string  false  "Fecha final (RFC3339 o YYYY-MM-DD)"
// @Param        page         query  int     false  "Página (desde 1)"
// @Param        page_size    query  int     false  "Filas por página (máx 100)"
// @Success      200  {object}  dto.ListTransactionsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ledger/transactions [get]
func (h *LedgerHandler) ListTransactions(c *fiber.Ctx) error {
	filter := repository.TransactionFilter{
		EmployeeID: c.Query("employee_id"),
		StoreID:    c.Query("store_id"),
		ProductID:  c.Query("product_id"),
		UnitID:     c.Query("unit_id"),
		Type:       c.Query("type"),
	}
	if filter.Type != "" && !entity.ValidTxType(filter.Type) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "tipo de transacción desconocido"})
	}
	var err error
	if filter.From, err = parseDateParam(c.Query("from"), false); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetro from inválido"})
	}
	if filter.To, err = parseDateParam(c.Query("to"), true); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetro to inválido"})
	}

	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	result, err := h.queryUC.ListTransactions(c.Context(), filter, page.PageSize, page.Offset())
	if err != nil {
		status, body := errorBody(err)
		return c.Status(status).JSON(body)
	}

	resp := dto.ListTransactionsResponse{
		Transactions: make([]dto.StockTransactionDTO, 0, len(result.Transactions)),
		Totals: dto.TransactionTotalsDTO{
			Received:  result.Totals.Received,
			Sold:      result.Totals.Sold,
			Returned:  result.Totals.Returned,
			NetChange: result.Totals.NetChange,
		},
		Pagination: dto.PageResponse{Page: page.Page, PageSize: page.PageSize, Total: result.Total},
	}
	for _, tx := range result.Transactions {
		resp.Transactions = append(resp.Transactions, toTransactionDTO(tx))
	}
	return c.JSON(resp)
}

// ListBalances godoc
// @Summary      Saldos corrientes del empleado en un punto de venta
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        store_id  query  string  true  "Punto de venta"
// @Success      200  {object}  dto.ListBalancesResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ledger/balances [get]
func (h *LedgerHandler) ListBalances(c *fiber.Ctx) error {
	employeeID := GetEmployeeID(c)
	if employeeID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	storeID := c.Query("store_id")
	balances, err := h.queryUC.ListBalances(c.Context(), employeeID, storeID)
	if err != nil {
		status, body := errorBody(err)
		return c.Status(status).JSON(body)
	}
	resp := dto.ListBalancesResponse{
		EmployeeID: employeeID,
		StoreID:    storeID,
		Balances:   make([]dto.BalanceDTO, 0, len(balances)),
	}
	for _, b := range balances {
		resp.Balances = append(resp.Balances, dto.BalanceDTO{
			ProductID: b.ProductID,
			UnitID:    b.UnitID,
			Quantity:  b.Quantity,
			UpdatedAt: b.UpdatedAt,
		})
	}
	return c.JSON(resp)
}

// toTransactionDTO mapea un asiento del dominio al DTO de respuesta.
func toTransactionDTO(tx *entity.StockTransaction) dto.StockTransactionDTO {
	return dto.StockTransactionDTO{
		ID:             tx.ID,
		EmployeeID:     tx.EmployeeID,
		StoreID:        tx.StoreID,
		ProductID:      tx.ProductID,
		UnitID:         tx.UnitID,
		Type:           tx.Type,
		Quantity:       tx.Quantity,
		BaseUnitsDelta: tx.BaseUnitsDelta,
		BalanceAfter:   tx.BalanceAfter,
		Note:           tx.Note,
		SaleID:         tx.SaleID,
		CreatedAt:      tx.CreatedAt,
	}
}

// errorBody mapea un error de dominio a status HTTP y cuerpo de error.
// InsufficientStock se distingue de la validación genérica (409 con montos)
// para que el cliente muestre un mensaje accionable.
func errorBody(err error) (int, dto.ErrorResponse) {
	var insufficient *domain.InsufficientStockError
	switch {
	case errors.As(err, &insufficient):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: insufficient.Error()}
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"}
	case errors.Is(err, domain.ErrInvalidQuantity):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "INVALID_QUANTITY", Message: "cantidad inválida para el tipo de transacción"}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"}
	case errors.Is(err, domain.ErrUnknownProduct):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "UNKNOWN_PRODUCT", Message: "producto no registrado"}
	case errors.Is(err, domain.ErrUnknownUnit):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "UNKNOWN_UNIT", Message: "unidad no registrada para el producto"}
	case errors.Is(err, domain.ErrInactiveProduct):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "INACTIVE_PRODUCT", Message: "producto inactivo"}
	case errors.Is(err, domain.ErrBalanceExists):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "BALANCE_EXISTS", Message: "la carga inicial ya existe para esta combinación"}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()}
}

// parseDateParam acepta RFC3339 o fecha simple YYYY-MM-DD. Para `to` con fecha
// simple se usa el fin del día, para incluir las transacciones de esa fecha.
func parseDateParam(s string, endOfDay bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
