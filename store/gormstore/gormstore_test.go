package gormstore

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/anjiri1684/college_crp/database"
	"github.com/anjiri1684/college_crp/models"
	"github.com/anjiri1684/college_crp/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) (*Store, *gorm.DB) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.ConnectDB(database.DriverSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared", name), 5*time.Second)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.CloseDB(db) })
	return New(db), db
}

func seedRecord(t *testing.T, s *Store, due float64, dueDate time.Time) *models.StudentFeeRecord {
	t.Helper()
	ctx := context.Background()

	st := &models.Student{ID: uuid.NewString(), StudentID: "S-" + uuid.NewString()[:8], Name: "Jane Doe", Email: "jane@example.com", Course: "CS", Year: 1}
	require.NoError(t, s.CreateStudent(ctx, st))
	fs := &models.FeeStructure{ID: uuid.NewString(), Name: "Tuition", FeeType: models.FeeTuition, Amount: due, AcademicYear: "2024-25"}
	require.NoError(t, s.CreateFeeStructure(ctx, fs))
	rec := &models.StudentFeeRecord{
		ID:             uuid.NewString(),
		StudentID:      st.ID,
		FeeStructureID: fs.ID,
		AmountDue:      due,
		PaymentStatus:  models.StatusPending,
		DueDate:        dueDate.UTC(),
	}
	require.NoError(t, s.CreateFeeRecord(ctx, rec))
	return rec
}

func newPayment(rec *models.StudentFeeRecord, amount float64) *models.Payment {
	return &models.Payment{
		ID:                 uuid.NewString(),
		StudentID:          rec.StudentID,
		StudentFeeRecordID: rec.ID,
		Amount:             amount,
		PaymentDate:        time.Now().UTC(),
		PaymentMethod:      models.DefaultPaymentMethod,
	}
}

func TestApplyPaymentSettlesRecord(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	rec := seedRecord(t, s, 1000, time.Now().Add(24*time.Hour))

	updated, err := s.ApplyPayment(ctx, newPayment(rec, 400))
	require.NoError(t, err)
	assert.InDelta(t, 400, updated.AmountPaid, 0.001)
	assert.Equal(t, models.StatusPending, updated.PaymentStatus)

	updated, err = s.ApplyPayment(ctx, newPayment(rec, 600))
	require.NoError(t, err)
	assert.InDelta(t, 1000, updated.AmountPaid, 0.001)
	assert.Equal(t, models.StatusPaid, updated.PaymentStatus)

	payments, err := s.ListPayments(ctx, models.PaymentFilter{StudentID: rec.StudentID})
	require.NoError(t, err)
	assert.Len(t, payments, 2)
}

func TestApplyPaymentMissingRecordCreatesNothing(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	p := &models.Payment{ID: uuid.NewString(), StudentID: "x", StudentFeeRecordID: "missing", Amount: 10, PaymentDate: time.Now().UTC()}
	_, err := s.ApplyPayment(ctx, p)
	require.ErrorIs(t, err, store.ErrNotFound)

	payments, err := s.ListPayments(ctx, models.PaymentFilter{})
	require.NoError(t, err)
	assert.Empty(t, payments)
}

func TestApplyPaymentConcurrent(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	rec := seedRecord(t, s, 5000, time.Now().Add(24*time.Hour))

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.ApplyPayment(ctx, newPayment(rec, 100))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := s.GetFeeRecord(ctx, rec.ID)
	require.NoError(t, err)
	assert.InDelta(t, 2000, got.AmountPaid, 0.001)
	assert.Equal(t, models.StatusPending, got.PaymentStatus)
}

func TestCreateStudentDuplicate(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	first := &models.Student{ID: uuid.NewString(), StudentID: "CS001", Name: "A", Email: "a@x.io", Course: "CS", Year: 1}
	require.NoError(t, s.CreateStudent(ctx, first))

	dup := &models.Student{ID: uuid.NewString(), StudentID: "CS001", Name: "B", Email: "b@x.io", Course: "CS", Year: 2}
	err := s.CreateStudent(ctx, dup)
	require.ErrorIs(t, err, store.ErrConflict)

	n, err := s.CountStudents(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestListStudentsSearch(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	for _, st := range []models.Student{
		{ID: uuid.NewString(), StudentID: "CS001", Name: "Alice Smith", Email: "alice@uni.edu", Course: "CS", Year: 1},
		{ID: uuid.NewString(), StudentID: "ME002", Name: "Bob Jones", Email: "bob@uni.edu", Course: "ME", Year: 2},
		{ID: uuid.NewString(), StudentID: "CS100", Name: "Carol", Email: "smith.c@uni.edu", Course: "CS", Year: 3},
	} {
		st := st
		require.NoError(t, s.CreateStudent(ctx, &st))
	}

	got, err := s.ListStudents(ctx, models.StudentFilter{Search: "SMITH"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = s.ListStudents(ctx, models.StudentFilter{Search: "me0"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Bob Jones", got[0].Name)

	got, err = s.ListStudents(ctx, models.StudentFilter{Search: "smith", Course: "ME"})
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = s.ListStudents(ctx, models.StudentFilter{Search: "%"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetMissingEntities(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetStudent(ctx, "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.GetFeeStructure(ctx, "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.GetFeeRecord(ctx, "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.GetPayment(ctx, "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.FindStudentByExternalID(ctx, "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAggregatesEmpty(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	totals, err := s.FeeTotals(ctx)
	require.NoError(t, err)
	assert.Zero(t, totals.TotalDue)
	assert.Zero(t, totals.TotalPaid)

	expenses, err := s.TotalExpenses(ctx)
	require.NoError(t, err)
	assert.Zero(t, expenses)
}

func TestAggregates(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	rec := seedRecord(t, s, 50000, time.Now().Add(24*time.Hour))
	seedRecord(t, s, 1000, time.Now().Add(24*time.Hour))
	_, err := s.ApplyPayment(ctx, newPayment(rec, 50000))
	require.NoError(t, err)

	require.NoError(t, s.CreateExpense(ctx, &models.Expense{
		ID: uuid.NewString(), Title: "Roof", Category: models.ExpenseMaintenance, Amount: 15000, ExpenseDate: time.Now().UTC(),
	}))

	totals, err := s.FeeTotals(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 51000, totals.TotalDue, 0.001)
	assert.InDelta(t, 50000, totals.TotalPaid, 0.001)

	pending, err := s.CountFeeRecordsByStatus(ctx, models.StatusPending)
	require.NoError(t, err)
	assert.EqualValues(t, 1, pending)

	expenses, err := s.TotalExpenses(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 15000, expenses, 0.001)
}

func TestListFilters(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	rec := seedRecord(t, s, 100, time.Now().Add(24*time.Hour))
	other := seedRecord(t, s, 100, time.Now().Add(24*time.Hour))
	_, err := s.ApplyPayment(ctx, newPayment(rec, 100))
	require.NoError(t, err)

	records, err := s.ListFeeRecords(ctx, models.FeeRecordFilter{Status: models.StatusPaid})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, rec.ID, records[0].ID)

	records, err = s.ListFeeRecords(ctx, models.FeeRecordFilter{StudentID: other.StudentID})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, other.ID, records[0].ID)

	jan := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	for _, e := range []models.Expense{
		{ID: uuid.NewString(), Title: "Wages", Category: models.ExpenseSalaries, Amount: 10, ExpenseDate: jan},
		{ID: uuid.NewString(), Title: "Power", Category: models.ExpenseUtilities, Amount: 20, ExpenseDate: mar},
	} {
		e := e
		require.NoError(t, s.CreateExpense(ctx, &e))
	}

	expenses, err := s.ListExpenses(ctx, models.ExpenseFilter{Category: models.ExpenseUtilities})
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, "Power", expenses[0].Title)

	from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	expenses, err = s.ListExpenses(ctx, models.ExpenseFilter{From: &from})
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, "Power", expenses[0].Title)
}

func TestMarkOverdue(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	late := seedRecord(t, s, 100, now.Add(-48*time.Hour))
	onTime := seedRecord(t, s, 100, now.Add(48*time.Hour))
	settled := seedRecord(t, s, 100, now.Add(-48*time.Hour))
	_, err := s.ApplyPayment(ctx, newPayment(settled, 100))
	require.NoError(t, err)

	changed, err := s.MarkOverdue(ctx, now)
	require.NoError(t, err)
	require.Len(t, changed, 1)
	assert.Equal(t, late.ID, changed[0].ID)
	assert.Equal(t, models.StatusOverdue, changed[0].PaymentStatus)

	got, err := s.GetFeeRecord(ctx, onTime.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.PaymentStatus)

	// partial payment keeps it overdue, full payment settles it
	rec, err := s.ApplyPayment(ctx, newPayment(late, 40))
	require.NoError(t, err)
	assert.Equal(t, models.StatusOverdue, rec.PaymentStatus)
	rec, err = s.ApplyPayment(ctx, newPayment(late, 60))
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, rec.PaymentStatus)

	changed, err = s.MarkOverdue(ctx, now)
	require.NoError(t, err)
	assert.Empty(t, changed)
}

func TestMarkOverdueAgreesWithModel(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()
	past, future := now.Add(-72*time.Hour), now.Add(72*time.Hour)

	seedRecord(t, s, 100, past)
	seedRecord(t, s, 100, future)
	partial := seedRecord(t, s, 100, past)
	_, err := s.ApplyPayment(ctx, newPayment(partial, 30))
	require.NoError(t, err)
	settled := seedRecord(t, s, 100, past)
	_, err = s.ApplyPayment(ctx, newPayment(settled, 100))
	require.NoError(t, err)
	seedRecord(t, s, 0, past)

	before, err := s.ListFeeRecords(ctx, models.FeeRecordFilter{})
	require.NoError(t, err)
	want := map[string]bool{}
	for _, r := range before {
		if r.IsOverdue(now) {
			want[r.ID] = true
		}
	}
	require.Len(t, want, 2)

	changed, err := s.MarkOverdue(ctx, now)
	require.NoError(t, err)
	got := map[string]bool{}
	for _, r := range changed {
		got[r.ID] = true
		assert.False(t, r.IsOverdue(now))
	}
	assert.Equal(t, want, got)
}

func TestReconcileLedger(t *testing.T) {
	s, db := newTestStore(t)
	ctx := context.Background()

	rec := seedRecord(t, s, 1000, time.Now().Add(24*time.Hour))
	clean := seedRecord(t, s, 1000, time.Now().Add(24*time.Hour))
	_, err := s.ApplyPayment(ctx, newPayment(rec, 300))
	require.NoError(t, err)
	_, err = s.ApplyPayment(ctx, newPayment(clean, 200))
	require.NoError(t, err)

	// simulate a lost update from a read-modify-write writer
	require.NoError(t, db.Model(&models.StudentFeeRecord{}).Where("id = ?", rec.ID).
		Update("amount_paid", 0).Error)
	// and a payment row whose balance never got applied
	require.NoError(t, db.Create(newPayment(rec, 700)).Error)

	fixed, err := s.ReconcileLedger(ctx)
	require.NoError(t, err)
	require.Len(t, fixed, 1)
	assert.Equal(t, rec.ID, fixed[0].ID)
	assert.InDelta(t, 1000, fixed[0].AmountPaid, 0.001)
	assert.Equal(t, models.StatusPaid, fixed[0].PaymentStatus)

	fixed, err = s.ReconcileLedger(ctx)
	require.NoError(t, err)
	assert.Empty(t, fixed)
}

func TestPing(t *testing.T) {
	s, _ := newTestStore(t)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\%\_off\\`, escapeLike(`50%_off\`))
}
