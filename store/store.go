// Package store defines the persistence contract shared by the relational
// and document backends.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/anjiri1684/college_crp/models"
)

// ListLimit caps every list query.
const ListLimit = 1000

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

type FeeStructures interface {
	CreateFeeStructure(ctx context.Context, fs *models.FeeStructure) error
	ListFeeStructures(ctx context.Context) ([]models.FeeStructure, error)
	GetFeeStructure(ctx context.Context, id string) (*models.FeeStructure, error)
}

type Students interface {
	// CreateStudent returns ErrConflict when the external student_id is taken.
	CreateStudent(ctx context.Context, s *models.Student) error
	ListStudents(ctx context.Context, f models.StudentFilter) ([]models.Student, error)
	GetStudent(ctx context.Context, id string) (*models.Student, error)
	FindStudentByExternalID(ctx context.Context, studentID string) (*models.Student, error)
}

type FeeRecords interface {
	CreateFeeRecord(ctx context.Context, r *models.StudentFeeRecord) error
	ListFeeRecords(ctx context.Context, f models.FeeRecordFilter) ([]models.StudentFeeRecord, error)
	GetFeeRecord(ctx context.Context, id string) (*models.StudentFeeRecord, error)
}

type Payments interface {
	// ApplyPayment persists p and increments the referenced fee record by
	// p.Amount in a single transaction, settling payment_status in the same
	// write. Returns ErrNotFound, without persisting p, when the record is missing.
	ApplyPayment(ctx context.Context, p *models.Payment) (*models.StudentFeeRecord, error)
	ListPayments(ctx context.Context, f models.PaymentFilter) ([]models.Payment, error)
	GetPayment(ctx context.Context, id string) (*models.Payment, error)
}

type Expenses interface {
	CreateExpense(ctx context.Context, e *models.Expense) error
	ListExpenses(ctx context.Context, f models.ExpenseFilter) ([]models.Expense, error)
}

type Aggregates interface {
	CountStudents(ctx context.Context) (int64, error)
	FeeTotals(ctx context.Context) (models.FeeTotals, error)
	CountFeeRecordsByStatus(ctx context.Context, status models.PaymentStatus) (int64, error)
	TotalExpenses(ctx context.Context) (float64, error)
}

type Maintenance interface {
	// MarkOverdue moves unpaid pending records whose due date is before now to
	// overdue and returns the records it changed.
	MarkOverdue(ctx context.Context, now time.Time) ([]models.StudentFeeRecord, error)
	// ReconcileLedger rewrites amount_paid and payment_status from the payments
	// collection for every record that has drifted and returns those records.
	ReconcileLedger(ctx context.Context) ([]models.StudentFeeRecord, error)
}

type Store interface {
	FeeStructures
	Students
	FeeRecords
	Payments
	Expenses
	Aggregates
	Maintenance

	Ping(ctx context.Context) error
	Close() error
}
