package handlers

import (
	"github.com/anjiri1684/college_crp/models"
	"github.com/anjiri1684/college_crp/services"
	"github.com/gofiber/fiber/v2"
)

type FeeStructureRequest struct {
	Name         string   `json:"name" validate:"required"`
	FeeType      string   `json:"fee_type" validate:"required,oneof=tuition hostel lab library exam miscellaneous"`
	Amount       *float64 `json:"amount" validate:"required,gte=0"`
	AcademicYear string   `json:"academic_year" validate:"required"`
	Description  *string  `json:"description"`
}

type FeeRecordRequest struct {
	StudentID      string   `json:"student_id" validate:"required"`
	FeeStructureID string   `json:"fee_structure_id" validate:"required"`
	AmountDue      *float64 `json:"amount_due" validate:"required,gte=0"`
	DueDate        string   `json:"due_date" validate:"required"`
}

func (h *Handler) CreateFeeStructure(c *fiber.Ctx) error {
	var req FeeStructureRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	fs, err := h.Fees.CreateStructure(c.UserContext(), services.FeeStructureInput{
		Name:         req.Name,
		FeeType:      models.FeeType(req.FeeType),
		Amount:       *req.Amount,
		AcademicYear: req.AcademicYear,
		Description:  req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(fs)
}

func (h *Handler) ListFeeStructures(c *fiber.Ctx) error {
	list, err := h.Fees.ListStructures(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(list)
}

func (h *Handler) GetFeeStructure(c *fiber.Ctx) error {
	fs, err := h.Fees.GetStructure(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fs)
}

func (h *Handler) CreateFeeRecord(c *fiber.Ctx) error {
	var req FeeRecordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	due, err := parseDate("due_date", req.DueDate)
	if err != nil {
		return err
	}

	r, err := h.Fees.AssignFee(c.UserContext(), services.FeeRecordInput{
		StudentID:      req.StudentID,
		FeeStructureID: req.FeeStructureID,
		AmountDue:      *req.AmountDue,
		DueDate:        due,
	})
	if err != nil {
		return err
	}
	return c.JSON(r)
}

func (h *Handler) ListFeeRecords(c *fiber.Ctx) error {
	list, err := h.Fees.ListRecords(c.UserContext(), models.FeeRecordFilter{
		StudentID: c.Query("student_id"),
		Status:    models.PaymentStatus(c.Query("status")),
	})
	if err != nil {
		return err
	}
	return c.JSON(list)
}

func (h *Handler) GetFeeRecord(c *fiber.Ctx) error {
	r, err := h.Fees.GetRecord(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(r)
}
