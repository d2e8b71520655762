package services

import (
	"context"
	"time"

	"github.com/anjiri1684/college_crp/models"
	"github.com/anjiri1684/college_crp/store"
	"github.com/anjiri1684/college_crp/utils"
	"github.com/google/uuid"
)

type ExpenseInput struct {
	Title       string
	Category    models.ExpenseCategory
	Amount      float64
	Description *string
	ExpenseDate time.Time
	Vendor      *string
}

type ExpenseService struct {
	store store.Expenses
}

func NewExpenseService(st store.Expenses) *ExpenseService {
	return &ExpenseService{store: st}
}

func (s *ExpenseService) Create(ctx context.Context, in ExpenseInput) (*models.Expense, error) {
	if !in.Category.Valid() {
		return nil, invalid("category", "unknown expense category "+string(in.Category))
	}
	if err := validAmount("amount", in.Amount); err != nil {
		return nil, err
	}
	if in.ExpenseDate.IsZero() {
		return nil, invalid("expense_date", "is required")
	}

	e := &models.Expense{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Category:    in.Category,
		Amount:      utils.RoundMoney(in.Amount),
		Description: in.Description,
		ExpenseDate: in.ExpenseDate.UTC(),
		Vendor:      in.Vendor,
		CreatedAt:   now(),
	}
	if err := s.store.CreateExpense(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *ExpenseService) List(ctx context.Context, f models.ExpenseFilter) ([]models.Expense, error) {
	if f.Category != "" && !f.Category.Valid() {
		return nil, invalid("category", "unknown expense category "+string(f.Category))
	}
	return s.store.ListExpenses(ctx, f)
}
