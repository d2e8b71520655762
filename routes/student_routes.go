package routes

import (
	"github.com/anjiri1684/college_crp/handlers"
	"github.com/gofiber/fiber/v2"
)

func StudentRoutes(api fiber.Router, h *handlers.Handler) {
	students := api.Group("/students")
	students.Post("", h.CreateStudent)
	students.Get("", h.ListStudents)
	students.Get("/:id", h.GetStudent)
}
