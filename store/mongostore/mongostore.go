// Package mongostore implements store.Store on MongoDB. Each entity carries its
// own string "id" field; the driver-generated _id is never exposed.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/anjiri1684/college_crp/database"
	"github.com/anjiri1684/college_crp/models"
	"github.com/anjiri1684/college_crp/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	StudentsCollection      = "students"
	FeeStructuresCollection = "fee_structures"
	FeeRecordsCollection    = "student_fee_records"
	PaymentsCollection      = "payments"
	ExpensesCollection      = "expenses"
)

type Store struct {
	mc     *database.MongoClient
	client *mongo.Client
	db     *mongo.Database
}

var _ store.Store = (*Store)(nil)

func New(mc *database.MongoClient) *Store {
	return &Store{mc: mc, client: mc.Client, db: mc.Database}
}

func (s *Store) coll(name string) *mongo.Collection {
	return s.db.Collection(name)
}

// EnsureIndexes creates the unique id indexes and the lookup indexes used by
// the list filters. Safe to call on every start.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	specs := map[string][]mongo.IndexModel{
		StudentsCollection: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "student_id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "course", Value: 1}}},
		},
		FeeStructuresCollection: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
		},
		FeeRecordsCollection: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "student_id", Value: 1}}},
			{Keys: bson.D{{Key: "payment_status", Value: 1}}},
		},
		PaymentsCollection: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "student_id", Value: 1}}},
			{Keys: bson.D{{Key: "student_fee_record_id", Value: 1}}},
		},
		ExpensesCollection: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "category", Value: 1}}},
		},
	}
	for name, idx := range specs {
		if _, err := s.coll(name).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.mc.Disconnect(ctx)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return store.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return store.ErrConflict
	}
	return err
}

func listOptions() *options.FindOptions {
	return options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(store.ListLimit)
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter any) ([]T, error) {
	cur, err := coll.Find(ctx, filter, listOptions())
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", coll.Name(), err)
	}
	defer cur.Close(ctx)

	out := make([]T, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", coll.Name(), err)
	}
	return out, nil
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter any) (*T, error) {
	var out T
	if err := coll.FindOne(ctx, filter).Decode(&out); err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func insert(ctx context.Context, coll *mongo.Collection, doc any) error {
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert into %s: %w", coll.Name(), translate(err))
	}
	return nil
}

func dateRange(from, to *time.Time) bson.M {
	r := bson.M{}
	if from != nil {
		r["$gte"] = *from
	}
	if to != nil {
		r["$lte"] = *to
	}
	return r
}

// Fee structures

func (s *Store) CreateFeeStructure(ctx context.Context, fs *models.FeeStructure) error {
	return insert(ctx, s.coll(FeeStructuresCollection), fs)
}

func (s *Store) ListFeeStructures(ctx context.Context) ([]models.FeeStructure, error) {
	return findAll[models.FeeStructure](ctx, s.coll(FeeStructuresCollection), bson.M{})
}

func (s *Store) GetFeeStructure(ctx context.Context, id string) (*models.FeeStructure, error) {
	return findOne[models.FeeStructure](ctx, s.coll(FeeStructuresCollection), bson.M{"id": id})
}

// Students

func (s *Store) CreateStudent(ctx context.Context, st *models.Student) error {
	return insert(ctx, s.coll(StudentsCollection), st)
}

// StudentQuery builds the list filter; search terms are matched literally.
func StudentQuery(f models.StudentFilter) bson.M {
	q := bson.M{}
	if f.Search != "" {
		rx := bson.M{"$regex": regexp.QuoteMeta(f.Search), "$options": "i"}
		q["$or"] = bson.A{
			bson.M{"name": rx},
			bson.M{"student_id": rx},
			bson.M{"email": rx},
		}
	}
	if f.Course != "" {
		q["course"] = f.Course
	}
	return q
}

func (s *Store) ListStudents(ctx context.Context, f models.StudentFilter) ([]models.Student, error) {
	return findAll[models.Student](ctx, s.coll(StudentsCollection), StudentQuery(f))
}

func (s *Store) GetStudent(ctx context.Context, id string) (*models.Student, error) {
	return findOne[models.Student](ctx, s.coll(StudentsCollection), bson.M{"id": id})
}

func (s *Store) FindStudentByExternalID(ctx context.Context, studentID string) (*models.Student, error) {
	return findOne[models.Student](ctx, s.coll(StudentsCollection), bson.M{"student_id": studentID})
}

// Fee records

func (s *Store) CreateFeeRecord(ctx context.Context, r *models.StudentFeeRecord) error {
	return insert(ctx, s.coll(FeeRecordsCollection), r)
}

func (s *Store) ListFeeRecords(ctx context.Context, f models.FeeRecordFilter) ([]models.StudentFeeRecord, error) {
	q := bson.M{}
	if f.StudentID != "" {
		q["student_id"] = f.StudentID
	}
	if f.Status != "" {
		q["payment_status"] = f.Status
	}
	return findAll[models.StudentFeeRecord](ctx, s.coll(FeeRecordsCollection), q)
}

func (s *Store) GetFeeRecord(ctx context.Context, id string) (*models.StudentFeeRecord, error) {
	return findOne[models.StudentFeeRecord](ctx, s.coll(FeeRecordsCollection), bson.M{"id": id})
}

// Payments

// statusExpr derives payment_status from paid, an aggregation expression for
// the new amount_paid. Overdue stays overdue until the record is settled.
func statusExpr(paid any) bson.D {
	return bson.D{{Key: "$switch", Value: bson.D{
		{Key: "branches", Value: bson.A{
			bson.D{
				{Key: "case", Value: bson.D{{Key: "$gte", Value: bson.A{paid, "$amount_due"}}}},
				{Key: "then", Value: string(models.StatusPaid)},
			},
			bson.D{
				{Key: "case", Value: bson.D{{Key: "$eq", Value: bson.A{"$payment_status", string(models.StatusOverdue)}}}},
				{Key: "then", Value: string(models.StatusOverdue)},
			},
		}},
		{Key: "default", Value: string(models.StatusPending)},
	}}}
}

// ApplyPaymentPipeline increments amount_paid and settles payment_status in a
// single $set stage, so both read the pre-update document.
func ApplyPaymentPipeline(amount float64, now time.Time) mongo.Pipeline {
	paid := bson.D{{Key: "$add", Value: bson.A{"$amount_paid", amount}}}
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "amount_paid", Value: paid},
			{Key: "payment_status", Value: statusExpr(paid)},
			{Key: "updated_at", Value: now},
		}}},
	}
}

// ApplyPayment needs a replica set or sharded cluster: the balance update and
// the payment insert share one transaction.
func (s *Store) ApplyPayment(ctx context.Context, p *models.Payment) (*models.StudentFeeRecord, error) {
	sess, err := s.client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	out, err := sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		records := s.coll(FeeRecordsCollection)
		res, err := records.UpdateOne(sc, bson.M{"id": p.StudentFeeRecordID}, ApplyPaymentPipeline(p.Amount, time.Now().UTC()))
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, store.ErrNotFound
		}
		if _, err := s.coll(PaymentsCollection).InsertOne(sc, p); err != nil {
			return nil, err
		}
		return findOne[models.StudentFeeRecord](sc, records, bson.M{"id": p.StudentFeeRecordID})
	})
	if err != nil {
		return nil, fmt.Errorf("apply payment to record %s: %w", p.StudentFeeRecordID, translate(err))
	}
	return out.(*models.StudentFeeRecord), nil
}

func (s *Store) ListPayments(ctx context.Context, f models.PaymentFilter) ([]models.Payment, error) {
	q := bson.M{}
	if f.StudentID != "" {
		q["student_id"] = f.StudentID
	}
	if r := dateRange(f.From, f.To); len(r) > 0 {
		q["payment_date"] = r
	}
	return findAll[models.Payment](ctx, s.coll(PaymentsCollection), q)
}

func (s *Store) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	return findOne[models.Payment](ctx, s.coll(PaymentsCollection), bson.M{"id": id})
}

// Expenses

func (s *Store) CreateExpense(ctx context.Context, e *models.Expense) error {
	return insert(ctx, s.coll(ExpensesCollection), e)
}

func (s *Store) ListExpenses(ctx context.Context, f models.ExpenseFilter) ([]models.Expense, error) {
	q := bson.M{}
	if f.Category != "" {
		q["category"] = f.Category
	}
	if r := dateRange(f.From, f.To); len(r) > 0 {
		q["expense_date"] = r
	}
	return findAll[models.Expense](ctx, s.coll(ExpensesCollection), q)
}

// Aggregates

func (s *Store) CountStudents(ctx context.Context) (int64, error) {
	return s.coll(StudentsCollection).CountDocuments(ctx, bson.M{})
}

// sumPipeline totals each field over the whole collection into one document.
func sumPipeline(fields ...string) mongo.Pipeline {
	group := bson.D{{Key: "_id", Value: nil}}
	for _, f := range fields {
		group = append(group, bson.E{Key: f, Value: bson.D{{Key: "$sum", Value: "$" + f}}})
	}
	return mongo.Pipeline{{{Key: "$group", Value: group}}}
}

func (s *Store) FeeTotals(ctx context.Context) (models.FeeTotals, error) {
	var totals models.FeeTotals
	cur, err := s.coll(FeeRecordsCollection).Aggregate(ctx, sumPipeline("amount_due", "amount_paid"))
	if err != nil {
		return totals, fmt.Errorf("aggregate fee totals: %w", err)
	}
	defer cur.Close(ctx)

	var row struct {
		Due  float64 `bson:"amount_due"`
		Paid float64 `bson:"amount_paid"`
	}
	if cur.Next(ctx) {
		if err := cur.Decode(&row); err != nil {
			return totals, fmt.Errorf("decode fee totals: %w", err)
		}
	}
	totals.TotalDue, totals.TotalPaid = row.Due, row.Paid
	return totals, cur.Err()
}

func (s *Store) CountFeeRecordsByStatus(ctx context.Context, status models.PaymentStatus) (int64, error) {
	return s.coll(FeeRecordsCollection).CountDocuments(ctx, bson.M{"payment_status": status})
}

func (s *Store) TotalExpenses(ctx context.Context) (float64, error) {
	cur, err := s.coll(ExpensesCollection).Aggregate(ctx, sumPipeline("amount"))
	if err != nil {
		return 0, fmt.Errorf("aggregate expenses: %w", err)
	}
	defer cur.Close(ctx)

	var row struct {
		Amount float64 `bson:"amount"`
	}
	if cur.Next(ctx) {
		if err := cur.Decode(&row); err != nil {
			return 0, fmt.Errorf("decode expense total: %w", err)
		}
	}
	return row.Amount, cur.Err()
}

// Maintenance

// OverdueQuery matches unsettled pending records whose due date is before now.
func OverdueQuery(now time.Time) bson.M {
	return bson.M{
		"payment_status": models.StatusPending,
		"due_date":       bson.M{"$lt": now},
		"$expr":          bson.M{"$lt": bson.A{"$amount_paid", "$amount_due"}},
	}
}

func (s *Store) MarkOverdue(ctx context.Context, now time.Time) ([]models.StudentFeeRecord, error) {
	records := s.coll(FeeRecordsCollection)
	candidates, err := findAll[models.StudentFeeRecord](ctx, records, OverdueQuery(now))
	if err != nil {
		return nil, fmt.Errorf("mark overdue: %w", err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(candidates))
	for _, r := range candidates {
		ids = append(ids, r.ID)
	}
	filter := OverdueQuery(now)
	filter["id"] = bson.M{"$in": ids}
	update := bson.M{"$set": bson.M{"payment_status": models.StatusOverdue, "updated_at": now}}
	if _, err := records.UpdateMany(ctx, filter, update); err != nil {
		return nil, fmt.Errorf("mark overdue: %w", err)
	}

	return findAll[models.StudentFeeRecord](ctx, records, bson.M{
		"id":             bson.M{"$in": ids},
		"payment_status": models.StatusOverdue,
	})
}

func (s *Store) paymentSums(ctx context.Context) (map[string]float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$student_fee_record_id"},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
		}}},
	}
	cur, err := s.coll(PaymentsCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	sums := make(map[string]float64)
	for cur.Next(ctx) {
		var row struct {
			RecordID string  `bson:"_id"`
			Total    float64 `bson:"total"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		sums[row.RecordID] = row.Total
	}
	return sums, cur.Err()
}

// ReconcileLedger reads the records before summing payments; a record that
// moves in between fails the amount_paid guard and is left for the next run.
func (s *Store) ReconcileLedger(ctx context.Context) ([]models.StudentFeeRecord, error) {
	records := s.coll(FeeRecordsCollection)
	cur, err := records.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("reconcile ledger: %w", err)
	}
	var all []models.StudentFeeRecord
	if err := cur.All(ctx, &all); err != nil {
		return nil, fmt.Errorf("reconcile ledger: %w", err)
	}

	sums, err := s.paymentSums(ctx)
	if err != nil {
		return nil, fmt.Errorf("sum payments: %w", err)
	}

	var fixed []models.StudentFeeRecord
	now := time.Now().UTC()
	for _, r := range all {
		total := sums[r.ID]
		if !Drifted(r.AmountPaid, total) {
			continue
		}
		status := models.SettleStatus(total, r.AmountDue, r.PaymentStatus)
		res, err := records.UpdateOne(ctx,
			bson.M{"id": r.ID, "amount_paid": r.AmountPaid},
			bson.M{"$set": bson.M{"amount_paid": total, "payment_status": status, "updated_at": now}},
		)
		if err != nil {
			return fixed, fmt.Errorf("repair record %s: %w", r.ID, err)
		}
		if res.ModifiedCount == 0 {
			continue
		}
		r.AmountPaid, r.PaymentStatus, r.UpdatedAt = total, status, now
		fixed = append(fixed, r)
	}
	return fixed, nil
}

// Drifted reports whether a stored balance disagrees with its payments by
// more than half a cent.
func Drifted(stored, actual float64) bool {
	d := stored - actual
	if d < 0 {
		d = -d
	}
	return d > 0.005
}
