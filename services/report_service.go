package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/anjiri1684/college_crp/models"
	"github.com/anjiri1684/college_crp/store"
	"github.com/anjiri1684/college_crp/utils"
)

type reportStore interface {
	store.Payments
	store.Expenses
	GetStudent(ctx context.Context, id string) (*models.Student, error)
}

// ReportService exports ledger rows as CSV with fixed two-decimal amounts.
type ReportService struct {
	store reportStore
}

func NewReportService(st reportStore) *ReportService {
	return &ReportService{store: st}
}

func (s *ReportService) WritePaymentsCSV(ctx context.Context, from, to *time.Time, out io.Writer) error {
	payments, err := s.store.ListPayments(ctx, models.PaymentFilter{From: from, To: to})
	if err != nil {
		return fmt.Errorf("list payments: %w", err)
	}

	names := make(map[string]string)
	studentName := func(id string) string {
		if n, ok := names[id]; ok {
			return n
		}
		n := ""
		if st, err := s.store.GetStudent(ctx, id); err == nil {
			n = st.Name
		}
		names[id] = n
		return n
	}

	w := csv.NewWriter(out)
	headers := []string{"Receipt No", "Payment ID", "Date", "Student", "Fee Record ID", "Amount", "Method", "Transaction ID", "Notes"}
	if err := w.Write(headers); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	amounts := make([]float64, 0, len(payments))
	for _, p := range payments {
		row := []string{
			utils.ReceiptNumber(p.ID, p.PaymentDate),
			p.ID,
			p.PaymentDate.Format("2006-01-02 15:04"),
			studentName(p.StudentID),
			p.StudentFeeRecordID,
			utils.FormatMoney(p.Amount),
			p.PaymentMethod,
			deref(p.TransactionID),
			deref(p.Notes),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write CSV row: %w", err)
		}
		amounts = append(amounts, p.Amount)
	}
	if err := w.Write([]string{"Total", "", "", "", "", utils.FormatMoney(utils.SumMoney(amounts...)), "", "", ""}); err != nil {
		return fmt.Errorf("write CSV total: %w", err)
	}

	w.Flush()
	return w.Error()
}

func (s *ReportService) WriteExpensesCSV(ctx context.Context, from, to *time.Time, out io.Writer) error {
	expenses, err := s.store.ListExpenses(ctx, models.ExpenseFilter{From: from, To: to})
	if err != nil {
		return fmt.Errorf("list expenses: %w", err)
	}

	w := csv.NewWriter(out)
	if err := w.Write([]string{"Expense ID", "Date", "Title", "Category", "Vendor", "Amount", "Description"}); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	amounts := make([]float64, 0, len(expenses))
	for _, e := range expenses {
		row := []string{
			e.ID,
			e.ExpenseDate.Format(utils.DateLayout),
			e.Title,
			string(e.Category),
			deref(e.Vendor),
			utils.FormatMoney(e.Amount),
			deref(e.Description),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write CSV row: %w", err)
		}
		amounts = append(amounts, e.Amount)
	}
	if err := w.Write([]string{"Total", "", "", "", "", utils.FormatMoney(utils.SumMoney(amounts...)), ""}); err != nil {
		return fmt.Errorf("write CSV total: %w", err)
	}

	w.Flush()
	return w.Error()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
