package services

import (
	"context"
	"math"
	"time"

	"github.com/anjiri1684/college_crp/models"
	"github.com/anjiri1684/college_crp/store"
	"github.com/anjiri1684/college_crp/utils"
	"github.com/google/uuid"
)

type FeeStructureInput struct {
	Name         string
	FeeType      models.FeeType
	Amount       float64
	AcademicYear string
	Description  *string
}

type FeeRecordInput struct {
	StudentID      string
	FeeStructureID string
	AmountDue      float64
	DueDate        time.Time
}

type feeStore interface {
	store.FeeStructures
	store.FeeRecords
	GetStudent(ctx context.Context, id string) (*models.Student, error)
}

// FeeService manages fee structures and the per-student records charged against them.
type FeeService struct {
	store feeStore
}

func NewFeeService(st feeStore) *FeeService {
	return &FeeService{store: st}
}

func validAmount(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return invalid(field, "must be a non-negative number")
	}
	return nil
}

func (s *FeeService) CreateStructure(ctx context.Context, in FeeStructureInput) (*models.FeeStructure, error) {
	if !in.FeeType.Valid() {
		return nil, invalid("fee_type", "unknown fee type "+string(in.FeeType))
	}
	if err := validAmount("amount", in.Amount); err != nil {
		return nil, err
	}

	fs := &models.FeeStructure{
		ID:           uuid.NewString(),
		Name:         in.Name,
		FeeType:      in.FeeType,
		Amount:       utils.RoundMoney(in.Amount),
		AcademicYear: in.AcademicYear,
		Description:  in.Description,
		CreatedAt:    now(),
	}
	if err := s.store.CreateFeeStructure(ctx, fs); err != nil {
		return nil, err
	}
	return fs, nil
}

func (s *FeeService) ListStructures(ctx context.Context) ([]models.FeeStructure, error) {
	return s.store.ListFeeStructures(ctx)
}

func (s *FeeService) GetStructure(ctx context.Context, id string) (*models.FeeStructure, error) {
	fs, err := s.store.GetFeeStructure(ctx, id)
	if err != nil {
		return nil, notFound("Fee structure", err)
	}
	return fs, nil
}

// AssignFee charges a student against an existing fee structure. The record
// starts pending with nothing paid.
func (s *FeeService) AssignFee(ctx context.Context, in FeeRecordInput) (*models.StudentFeeRecord, error) {
	if err := validAmount("amount_due", in.AmountDue); err != nil {
		return nil, err
	}
	if in.DueDate.IsZero() {
		return nil, invalid("due_date", "is required")
	}
	if _, err := s.store.GetStudent(ctx, in.StudentID); err != nil {
		return nil, notFound("Student", err)
	}
	if _, err := s.store.GetFeeStructure(ctx, in.FeeStructureID); err != nil {
		return nil, notFound("Fee structure", err)
	}

	ts := now()
	r := &models.StudentFeeRecord{
		ID:             uuid.NewString(),
		StudentID:      in.StudentID,
		FeeStructureID: in.FeeStructureID,
		AmountDue:      utils.RoundMoney(in.AmountDue),
		AmountPaid:     0,
		PaymentStatus:  models.StatusPending,
		DueDate:        in.DueDate.UTC(),
		CreatedAt:      ts,
		UpdatedAt:      ts,
	}
	if err := s.store.CreateFeeRecord(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *FeeService) ListRecords(ctx context.Context, f models.FeeRecordFilter) ([]models.StudentFeeRecord, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, invalid("status", "unknown payment status "+string(f.Status))
	}
	return s.store.ListFeeRecords(ctx, f)
}

func (s *FeeService) GetRecord(ctx context.Context, id string) (*models.StudentFeeRecord, error) {
	r, err := s.store.GetFeeRecord(ctx, id)
	if err != nil {
		return nil, notFound("Student fee record", err)
	}
	return r, nil
}
