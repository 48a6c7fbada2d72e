package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Kardex-api/internal/application/ledger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SubmitCart *ledger.SubmitCartUseCase
	Query      *ledger.QueryUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	ledgerGroup := protected.Group("/ledger")
	handler := NewLedgerHandler(deps.SubmitCart, deps.Query)
	ledgerGroup.Post("/transactions", handler.CreateTransaction)
	ledgerGroup.Get("/transactions", handler.ListTransactions)
	ledgerGroup.Post("/carts", handler.SubmitCart)
	ledgerGroup.Get("/balances", handler.ListBalances)
}
