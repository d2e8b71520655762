package handlers

import (
	"github.com/anjiri1684/college_crp/models"
	"github.com/anjiri1684/college_crp/services"
	"github.com/gofiber/fiber/v2"
)

type StudentRequest struct {
	StudentID string  `json:"student_id" validate:"required"`
	Name      string  `json:"name" validate:"required"`
	Email     string  `json:"email" validate:"required,email"`
	Course    string  `json:"course" validate:"required"`
	Year      int     `json:"year" validate:"required,gte=1"`
	Phone     *string `json:"phone"`
}

func (h *Handler) CreateStudent(c *fiber.Ctx) error {
	var req StudentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	st, err := h.Students.Register(c.UserContext(), services.StudentInput{
		StudentID: req.StudentID,
		Name:      req.Name,
		Email:     req.Email,
		Course:    req.Course,
		Year:      req.Year,
		Phone:     req.Phone,
	})
	if err != nil {
		return err
	}
	return c.JSON(st)
}

func (h *Handler) ListStudents(c *fiber.Ctx) error {
	list, err := h.Students.List(c.UserContext(), models.StudentFilter{
		Search: c.Query("search"),
		Course: c.Query("course"),
	})
	if err != nil {
		return err
	}
	return c.JSON(list)
}

func (h *Handler) GetStudent(c *fiber.Ctx) error {
	st, err := h.Students.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(st)
}
