package handlers

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/anjiri1684/college_crp/utils"
	"github.com/gofiber/fiber/v2"
)

func (h *Handler) DashboardSummary(c *fiber.Ctx) error {
	summary, err := h.Dashboard.ComputeSummary(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

// reportWindow defaults to the last month when no bounds are given.
func reportWindow(c *fiber.Ctx) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	startRaw := c.Query("start_date", now.AddDate(0, -1, 0).Format(utils.DateLayout))
	endRaw := c.Query("end_date", now.Format(utils.DateLayout))

	start, err := parseDate("start_date", startRaw)
	if err != nil {
		return start, start, err
	}
	end, err := parseDate("end_date", endRaw)
	if err != nil {
		return start, end, err
	}
	return start, utils.EndOfDay(endRaw, end), nil
}

func (h *Handler) sendCSV(c *fiber.Ctx, name string, write func(ctx context.Context, from, to *time.Time, b *bytes.Buffer) error) error {
	start, end, err := reportWindow(c)
	if err != nil {
		return err
	}

	b := new(bytes.Buffer)
	if err := write(c.UserContext(), &start, &end, b); err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=\"%s_%s_to_%s.csv\"",
		name, start.Format(utils.DateLayout), end.Format(utils.DateLayout)))
	return c.Send(b.Bytes())
}

func (h *Handler) PaymentsReport(c *fiber.Ctx) error {
	return h.sendCSV(c, "payments", func(ctx context.Context, from, to *time.Time, b *bytes.Buffer) error {
		return h.Reports.WritePaymentsCSV(ctx, from, to, b)
	})
}

func (h *Handler) ExpensesReport(c *fiber.Ctx) error {
	return h.sendCSV(c, "expenses", func(ctx context.Context, from, to *time.Time, b *bytes.Buffer) error {
		return h.Reports.WriteExpensesCSV(ctx, from, to, b)
	})
}
