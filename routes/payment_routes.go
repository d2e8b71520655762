package routes

import (
	"github.com/anjiri1684/college_crp/handlers"
	"github.com/gofiber/fiber/v2"
)

func PaymentRoutes(api fiber.Router, h *handlers.Handler) {
	payments := api.Group("/payments")
	payments.Post("", h.RecordPayment)
	payments.Get("", h.ListPayments)
	payments.Get("/:id", h.GetPayment)

	if h.Receipts != nil {
		payments.Get("/:id/receipt", h.DownloadReceipt)
		payments.Post("/:id/receipt", h.ArchiveReceipt)
	}
}
