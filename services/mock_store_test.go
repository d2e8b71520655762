package services

import (
	"context"
	"time"

	"github.com/anjiri1684/college_crp/models"
	"github.com/anjiri1684/college_crp/store"
	"github.com/stretchr/testify/mock"
)

type mockStore struct {
	mock.Mock
}

var _ store.Store = (*mockStore)(nil)

func (m *mockStore) CreateFeeStructure(ctx context.Context, fs *models.FeeStructure) error {
	return m.Called(fs).Error(0)
}

func (m *mockStore) ListFeeStructures(ctx context.Context) ([]models.FeeStructure, error) {
	args := m.Called()
	out, _ := args.Get(0).([]models.FeeStructure)
	return out, args.Error(1)
}

func (m *mockStore) GetFeeStructure(ctx context.Context, id string) (*models.FeeStructure, error) {
	args := m.Called(id)
	out, _ := args.Get(0).(*models.FeeStructure)
	return out, args.Error(1)
}

func (m *mockStore) CreateStudent(ctx context.Context, s *models.Student) error {
	return m.Called(s).Error(0)
}

func (m *mockStore) ListStudents(ctx context.Context, f models.StudentFilter) ([]models.Student, error) {
	args := m.Called(f)
	out, _ := args.Get(0).([]models.Student)
	return out, args.Error(1)
}

func (m *mockStore) GetStudent(ctx context.Context, id string) (*models.Student, error) {
	args := m.Called(id)
	out, _ := args.Get(0).(*models.Student)
	return out, args.Error(1)
}

func (m *mockStore) FindStudentByExternalID(ctx context.Context, studentID string) (*models.Student, error) {
	args := m.Called(studentID)
	out, _ := args.Get(0).(*models.Student)
	return out, args.Error(1)
}

func (m *mockStore) CreateFeeRecord(ctx context.Context, r *models.StudentFeeRecord) error {
	return m.Called(r).Error(0)
}

func (m *mockStore) ListFeeRecords(ctx context.Context, f models.FeeRecordFilter) ([]models.StudentFeeRecord, error) {
	args := m.Called(f)
	out, _ := args.Get(0).([]models.StudentFeeRecord)
	return out, args.Error(1)
}

func (m *mockStore) GetFeeRecord(ctx context.Context, id string) (*models.StudentFeeRecord, error) {
	args := m.Called(id)
	out, _ := args.Get(0).(*models.StudentFeeRecord)
	return out, args.Error(1)
}

func (m *mockStore) ApplyPayment(ctx context.Context, p *models.Payment) (*models.StudentFeeRecord, error) {
	args := m.Called(p)
	out, _ := args.Get(0).(*models.StudentFeeRecord)
	return out, args.Error(1)
}

func (m *mockStore) ListPayments(ctx context.Context, f models.PaymentFilter) ([]models.Payment, error) {
	args := m.Called(f)
	out, _ := args.Get(0).([]models.Payment)
	return out, args.Error(1)
}

func (m *mockStore) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	args := m.Called(id)
	out, _ := args.Get(0).(*models.Payment)
	return out, args.Error(1)
}

func (m *mockStore) CreateExpense(ctx context.Context, e *models.Expense) error {
	return m.Called(e).Error(0)
}

func (m *mockStore) ListExpenses(ctx context.Context, f models.ExpenseFilter) ([]models.Expense, error) {
	args := m.Called(f)
	out, _ := args.Get(0).([]models.Expense)
	return out, args.Error(1)
}

func (m *mockStore) CountStudents(ctx context.Context) (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStore) FeeTotals(ctx context.Context) (models.FeeTotals, error) {
	args := m.Called()
	return args.Get(0).(models.FeeTotals), args.Error(1)
}

func (m *mockStore) CountFeeRecordsByStatus(ctx context.Context, status models.PaymentStatus) (int64, error) {
	args := m.Called(status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStore) TotalExpenses(ctx context.Context) (float64, error) {
	args := m.Called()
	return args.Get(0).(float64), args.Error(1)
}

func (m *mockStore) MarkOverdue(ctx context.Context, now time.Time) ([]models.StudentFeeRecord, error) {
	args := m.Called(now)
	out, _ := args.Get(0).([]models.StudentFeeRecord)
	return out, args.Error(1)
}

func (m *mockStore) ReconcileLedger(ctx context.Context) ([]models.StudentFeeRecord, error) {
	args := m.Called()
	out, _ := args.Get(0).([]models.StudentFeeRecord)
	return out, args.Error(1)
}

func (m *mockStore) Ping(ctx context.Context) error {
	return m.Called().Error(0)
}

func (m *mockStore) Close() error {
	return m.Called().Error(0)
}
