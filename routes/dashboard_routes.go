package routes

import (
	"github.com/anjiri1684/college_crp/handlers"
	"github.com/gofiber/fiber/v2"
)

func DashboardRoutes(api fiber.Router, h *handlers.Handler) {
	api.Get("/dashboard/summary", h.DashboardSummary)

	reports := api.Group("/reports")
	reports.Get("/payments.csv", h.PaymentsReport)
	reports.Get("/expenses.csv", h.ExpensesReport)
}
