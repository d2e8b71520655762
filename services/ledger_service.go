package services

import (
	"context"
	"log"
	"math"
	"strings"
	"time"

	"github.com/anjiri1684/college_crp/events"
	"github.com/anjiri1684/college_crp/models"
	"github.com/anjiri1684/college_crp/store"
	"github.com/anjiri1684/college_crp/utils"
	"github.com/google/uuid"
)

type PaymentInput struct {
	StudentID          string
	StudentFeeRecordID string
	Amount             float64
	PaymentDate        time.Time
	PaymentMethod      string
	TransactionID      *string
	Notes              *string
}

// LedgerService is the only writer of fee record balances.
type LedgerService struct {
	store  store.Payments
	events events.Publisher
}

func NewLedgerService(st store.Payments, pub events.Publisher) *LedgerService {
	if pub == nil {
		pub = events.Nop
	}
	return &LedgerService{store: st, events: pub}
}

// RecordPayment appends a payment and applies it to its fee record in one
// store transaction. The student id is stored as supplied.
func (s *LedgerService) RecordPayment(ctx context.Context, in PaymentInput) (*models.Payment, error) {
	if strings.TrimSpace(in.StudentFeeRecordID) == "" {
		return nil, invalid("student_fee_record_id", "is required")
	}
	if math.IsNaN(in.Amount) || math.IsInf(in.Amount, 0) {
		return nil, invalid("amount", "must be a number")
	}
	amount := utils.RoundMoney(in.Amount)
	if amount <= 0 {
		return nil, invalid("amount", "must be greater than zero")
	}

	method := strings.TrimSpace(in.PaymentMethod)
	if method == "" {
		method = models.DefaultPaymentMethod
	}
	ts := now()
	paidOn := in.PaymentDate.UTC()
	if in.PaymentDate.IsZero() {
		paidOn = ts
	}

	p := &models.Payment{
		ID:                 uuid.NewString(),
		StudentID:          in.StudentID,
		StudentFeeRecordID: in.StudentFeeRecordID,
		Amount:             amount,
		PaymentDate:        paidOn,
		PaymentMethod:      method,
		TransactionID:      in.TransactionID,
		Notes:              in.Notes,
		CreatedAt:          ts,
	}
	record, err := s.store.ApplyPayment(ctx, p)
	if err != nil {
		return nil, notFound("Student fee record", err)
	}

	log.Printf("✅ Payment %s of %s applied to fee record %s (%s)", p.ID, utils.FormatMoney(p.Amount), record.ID, record.PaymentStatus)
	events.Emit(ctx, s.events, events.NewPaymentRecorded(p, record))
	return p, nil
}

func (s *LedgerService) ListPayments(ctx context.Context, f models.PaymentFilter) ([]models.Payment, error) {
	return s.store.ListPayments(ctx, f)
}

func (s *LedgerService) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	p, err := s.store.GetPayment(ctx, id)
	if err != nil {
		return nil, notFound("Payment", err)
	}
	return p, nil
}
