package routes

import (
	"github.com/anjiri1684/college_crp/handlers"
	"github.com/anjiri1684/college_crp/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func MaintenanceRoutes(api fiber.Router, h *handlers.Handler) {
	maintenance := api.Group("/maintenance")
	maintenance.Post("/overdue-sweep", h.RunOverdueSweep)
	maintenance.Post("/reconcile", h.RunReconciliation)
}

func FeedRoutes(api fiber.Router, h *handlers.Handler) {
	api.Get("/ws/ledger", middleware.RequireUpgrade(), websocket.New(h.LedgerFeed))
}
