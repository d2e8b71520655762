package handlers

import (
	"fmt"

	"github.com/anjiri1684/college_crp/models"
	"github.com/anjiri1684/college_crp/services"
	"github.com/gofiber/fiber/v2"
)

type PaymentRequest struct {
	StudentID          string   `json:"student_id" validate:"required"`
	StudentFeeRecordID string   `json:"student_fee_record_id" validate:"required"`
	Amount             *float64 `json:"amount" validate:"required,gt=0"`
	PaymentDate        string   `json:"payment_date" validate:"required"`
	PaymentMethod      string   `json:"payment_method"`
	TransactionID      *string  `json:"transaction_id"`
	Notes              *string  `json:"notes"`
}

func (h *Handler) RecordPayment(c *fiber.Ctx) error {
	var req PaymentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	paidOn, err := parseDate("payment_date", req.PaymentDate)
	if err != nil {
		return err
	}

	p, err := h.Ledger.RecordPayment(c.UserContext(), services.PaymentInput{
		StudentID:          req.StudentID,
		StudentFeeRecordID: req.StudentFeeRecordID,
		Amount:             *req.Amount,
		PaymentDate:        paidOn,
		PaymentMethod:      req.PaymentMethod,
		TransactionID:      req.TransactionID,
		Notes:              req.Notes,
	})
	if err != nil {
		return err
	}
	return c.JSON(p)
}

func (h *Handler) ListPayments(c *fiber.Ctx) error {
	from, to, err := dateRange(c, "start_date", "end_date")
	if err != nil {
		return err
	}
	list, err := h.Ledger.ListPayments(c.UserContext(), models.PaymentFilter{
		StudentID: c.Query("student_id"),
		From:      from,
		To:        to,
	})
	if err != nil {
		return err
	}
	return c.JSON(list)
}

func (h *Handler) GetPayment(c *fiber.Ctx) error {
	p, err := h.Ledger.GetPayment(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(p)
}

// DownloadReceipt returns the receipt as PDF, or as HTML with ?format=html.
func (h *Handler) DownloadReceipt(c *fiber.Ctx) error {
	if c.Query("format") == "html" {
		html, _, err := h.Receipts.RenderHTML(c.UserContext(), c.Params("id"))
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.SendString(html)
	}

	pdf, rc, err := h.Receipts.RenderPDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=\"%s.pdf\"", rc.ReceiptNumber))
	return c.Send(pdf)
}

func (h *Handler) ArchiveReceipt(c *fiber.Ctx) error {
	url, err := h.Receipts.Archive(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"receipt_url": url})
}
