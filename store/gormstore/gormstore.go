// Package gormstore implements store.Store on a relational database via gorm.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anjiri1684/college_crp/models"
	"github.com/anjiri1684/college_crp/store"
	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return store.ErrConflict
	}
	return err
}

func (s *Store) first(ctx context.Context, dest any, id string) error {
	return translate(s.db.WithContext(ctx).Where("id = ?", id).First(dest).Error)
}

// Fee structures

func (s *Store) CreateFeeStructure(ctx context.Context, fs *models.FeeStructure) error {
	if err := s.db.WithContext(ctx).Create(fs).Error; err != nil {
		return fmt.Errorf("create fee structure: %w", translate(err))
	}
	return nil
}

func (s *Store) ListFeeStructures(ctx context.Context) ([]models.FeeStructure, error) {
	var out []models.FeeStructure
	err := s.db.WithContext(ctx).Order("created_at asc").Limit(store.ListLimit).Find(&out).Error
	return out, err
}

func (s *Store) GetFeeStructure(ctx context.Context, id string) (*models.FeeStructure, error) {
	var fs models.FeeStructure
	if err := s.first(ctx, &fs, id); err != nil {
		return nil, err
	}
	return &fs, nil
}

// Students

func (s *Store) CreateStudent(ctx context.Context, st *models.Student) error {
	if err := s.db.WithContext(ctx).Create(st).Error; err != nil {
		return fmt.Errorf("create student %s: %w", st.StudentID, translate(err))
	}
	return nil
}

func (s *Store) ListStudents(ctx context.Context, f models.StudentFilter) ([]models.Student, error) {
	q := s.db.WithContext(ctx).Model(&models.Student{})
	if f.Search != "" {
		pattern := "%" + escapeLike(strings.ToLower(f.Search)) + "%"
		q = q.Where(
			"LOWER(name) LIKE ? ESCAPE '\\' OR LOWER(student_id) LIKE ? ESCAPE '\\' OR LOWER(email) LIKE ? ESCAPE '\\'",
			pattern, pattern, pattern,
		)
	}
	if f.Course != "" {
		q = q.Where("course = ?", f.Course)
	}

	var out []models.Student
	err := q.Order("created_at asc").Limit(store.ListLimit).Find(&out).Error
	return out, err
}

func (s *Store) GetStudent(ctx context.Context, id string) (*models.Student, error) {
	var st models.Student
	if err := s.first(ctx, &st, id); err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *Store) FindStudentByExternalID(ctx context.Context, studentID string) (*models.Student, error) {
	var st models.Student
	err := s.db.WithContext(ctx).Where("student_id = ?", studentID).First(&st).Error
	if err != nil {
		return nil, translate(err)
	}
	return &st, nil
}

// Fee records

func (s *Store) CreateFeeRecord(ctx context.Context, r *models.StudentFeeRecord) error {
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return fmt.Errorf("create fee record: %w", translate(err))
	}
	return nil
}

func (s *Store) ListFeeRecords(ctx context.Context, f models.FeeRecordFilter) ([]models.StudentFeeRecord, error) {
	q := s.db.WithContext(ctx).Model(&models.StudentFeeRecord{})
	if f.StudentID != "" {
		q = q.Where("student_id = ?", f.StudentID)
	}
	if f.Status != "" {
		q = q.Where("payment_status = ?", f.Status)
	}

	var out []models.StudentFeeRecord
	err := q.Order("created_at asc").Limit(store.ListLimit).Find(&out).Error
	return out, err
}

func (s *Store) GetFeeRecord(ctx context.Context, id string) (*models.StudentFeeRecord, error) {
	var r models.StudentFeeRecord
	if err := s.first(ctx, &r, id); err != nil {
		return nil, err
	}
	return &r, nil
}

// Payments

// settleExpr recomputes payment_status from the pre-update row plus delta, so it
// must sit in the same UPDATE as the amount_paid increment.
func settleExpr(delta float64) any {
	return gorm.Expr(
		"CASE WHEN amount_paid + ? >= amount_due THEN ? WHEN payment_status = ? THEN ? ELSE ? END",
		delta, models.StatusPaid, models.StatusOverdue, models.StatusOverdue, models.StatusPending,
	)
}

func (s *Store) ApplyPayment(ctx context.Context, p *models.Payment) (*models.StudentFeeRecord, error) {
	var record models.StudentFeeRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.StudentFeeRecord{}).
			Where("id = ?", p.StudentFeeRecordID).
			Updates(map[string]any{
				"payment_status": settleExpr(p.Amount),
				"amount_paid":    gorm.Expr("amount_paid + ?", p.Amount),
				"updated_at":     time.Now().UTC(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return store.ErrNotFound
		}

		if err := tx.Create(p).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", p.StudentFeeRecordID).First(&record).Error
	})
	if err != nil {
		return nil, fmt.Errorf("apply payment to record %s: %w", p.StudentFeeRecordID, translate(err))
	}
	return &record, nil
}

func (s *Store) ListPayments(ctx context.Context, f models.PaymentFilter) ([]models.Payment, error) {
	q := s.db.WithContext(ctx).Model(&models.Payment{})
	if f.StudentID != "" {
		q = q.Where("student_id = ?", f.StudentID)
	}
	if f.From != nil {
		q = q.Where("payment_date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("payment_date <= ?", *f.To)
	}

	var out []models.Payment
	err := q.Order("created_at asc").Limit(store.ListLimit).Find(&out).Error
	return out, err
}

func (s *Store) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	var p models.Payment
	if err := s.first(ctx, &p, id); err != nil {
		return nil, err
	}
	return &p, nil
}

// Expenses

func (s *Store) CreateExpense(ctx context.Context, e *models.Expense) error {
	if err := s.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("create expense: %w", translate(err))
	}
	return nil
}

func (s *Store) ListExpenses(ctx context.Context, f models.ExpenseFilter) ([]models.Expense, error) {
	q := s.db.WithContext(ctx).Model(&models.Expense{})
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.From != nil {
		q = q.Where("expense_date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("expense_date <= ?", *f.To)
	}

	var out []models.Expense
	err := q.Order("created_at asc").Limit(store.ListLimit).Find(&out).Error
	return out, err
}

// Aggregates

func (s *Store) CountStudents(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Student{}).Count(&n).Error
	return n, err
}

func (s *Store) FeeTotals(ctx context.Context) (models.FeeTotals, error) {
	var totals models.FeeTotals
	err := s.db.WithContext(ctx).Model(&models.StudentFeeRecord{}).
		Select("COALESCE(SUM(amount_due), 0), COALESCE(SUM(amount_paid), 0)").
		Row().Scan(&totals.TotalDue, &totals.TotalPaid)
	return totals, err
}

func (s *Store) CountFeeRecordsByStatus(ctx context.Context, status models.PaymentStatus) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.StudentFeeRecord{}).
		Where("payment_status = ?", status).Count(&n).Error
	return n, err
}

func (s *Store) TotalExpenses(ctx context.Context) (float64, error) {
	var total float64
	err := s.db.WithContext(ctx).Model(&models.Expense{}).
		Select("COALESCE(SUM(amount), 0)").Row().Scan(&total)
	return total, err
}

// Maintenance

func (s *Store) MarkOverdue(ctx context.Context, now time.Time) ([]models.StudentFeeRecord, error) {
	var changed []models.StudentFeeRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		overdue := func(q *gorm.DB) *gorm.DB {
			return q.Where("payment_status = ? AND amount_paid < amount_due AND due_date < ?", models.StatusPending, now)
		}

		var ids []string
		if err := overdue(tx.Model(&models.StudentFeeRecord{})).Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		err := overdue(tx.Model(&models.StudentFeeRecord{})).
			Where("id IN ?", ids).
			Updates(map[string]any{"payment_status": models.StatusOverdue, "updated_at": now}).Error
		if err != nil {
			return err
		}
		return tx.Where("id IN ? AND payment_status = ?", ids, models.StatusOverdue).Find(&changed).Error
	})
	if err != nil {
		return nil, fmt.Errorf("mark overdue: %w", err)
	}
	return changed, nil
}

const paymentsSumSQL = "(SELECT COALESCE(SUM(payments.amount), 0) FROM payments WHERE payments.student_fee_record_id = student_fee_records.id)"

func (s *Store) ReconcileLedger(ctx context.Context) ([]models.StudentFeeRecord, error) {
	var drifted []string
	err := s.db.WithContext(ctx).Model(&models.StudentFeeRecord{}).
		Where("ABS(amount_paid - " + paymentsSumSQL + ") > 0.005").
		Pluck("id", &drifted).Error
	if err != nil {
		return nil, fmt.Errorf("find drifted records: %w", err)
	}
	if len(drifted) == 0 {
		return nil, nil
	}

	var fixed []models.StudentFeeRecord
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.StudentFeeRecord{}).
			Where("id IN ?", drifted).
			Updates(map[string]any{
				"payment_status": gorm.Expr(
					"CASE WHEN "+paymentsSumSQL+" >= amount_due THEN ? WHEN payment_status = ? THEN ? ELSE ? END",
					models.StatusPaid, models.StatusOverdue, models.StatusOverdue, models.StatusPending,
				),
				"amount_paid": gorm.Expr(paymentsSumSQL),
				"updated_at":  time.Now().UTC(),
			}).Error
		if err != nil {
			return err
		}
		return tx.Where("id IN ?", drifted).Find(&fixed).Error
	})
	if err != nil {
		return nil, fmt.Errorf("reconcile ledger: %w", err)
	}
	return fixed, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
