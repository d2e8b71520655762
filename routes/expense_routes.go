package routes

import (
	"github.com/anjiri1684/college_crp/handlers"
	"github.com/gofiber/fiber/v2"
)

func ExpenseRoutes(api fiber.Router, h *handlers.Handler) {
	expenses := api.Group("/expenses")
	expenses.Post("", h.CreateExpense)
	expenses.Get("", h.ListExpenses)
}
