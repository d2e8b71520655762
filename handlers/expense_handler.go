package handlers

import (
	"github.com/anjiri1684/college_crp/models"
	"github.com/anjiri1684/college_crp/services"
	"github.com/gofiber/fiber/v2"
)

type ExpenseRequest struct {
	Title       string   `json:"title" validate:"required"`
	Category    string   `json:"category" validate:"required,oneof=infrastructure salaries utilities maintenance equipment miscellaneous"`
	Amount      *float64 `json:"amount" validate:"required,gte=0"`
	Description *string  `json:"description"`
	ExpenseDate string   `json:"expense_date" validate:"required"`
	Vendor      *string  `json:"vendor"`
}

func (h *Handler) CreateExpense(c *fiber.Ctx) error {
	var req ExpenseRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	spentOn, err := parseDate("expense_date", req.ExpenseDate)
	if err != nil {
		return err
	}

	e, err := h.Expenses.Create(c.UserContext(), services.ExpenseInput{
		Title:       req.Title,
		Category:    models.ExpenseCategory(req.Category),
		Amount:      *req.Amount,
		Description: req.Description,
		ExpenseDate: spentOn,
		Vendor:      req.Vendor,
	})
	if err != nil {
		return err
	}
	return c.JSON(e)
}

func (h *Handler) ListExpenses(c *fiber.Ctx) error {
	from, to, err := dateRange(c, "start_date", "end_date")
	if err != nil {
		return err
	}
	list, err := h.Expenses.List(c.UserContext(), models.ExpenseFilter{
		Category: models.ExpenseCategory(c.Query("category")),
		From:     from,
		To:       to,
	})
	if err != nil {
		return err
	}
	return c.JSON(list)
}
