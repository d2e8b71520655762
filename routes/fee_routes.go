package routes

import (
	"github.com/anjiri1684/college_crp/handlers"
	"github.com/gofiber/fiber/v2"
)

func FeeRoutes(api fiber.Router, h *handlers.Handler) {
	structures := api.Group("/fee-structures")
	structures.Post("", h.CreateFeeStructure)
	structures.Get("", h.ListFeeStructures)
	structures.Get("/:id", h.GetFeeStructure)

	records := api.Group("/student-fee-records")
	records.Post("", h.CreateFeeRecord)
	records.Get("", h.ListFeeRecords)
	records.Get("/:id", h.GetFeeRecord)
}
