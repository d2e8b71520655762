package services

import (
	"context"
	"log"

	"github.com/anjiri1684/college_crp/events"
	"github.com/anjiri1684/college_crp/models"
	"github.com/anjiri1684/college_crp/store"
)

type MaintenanceService struct {
	store  store.Maintenance
	events events.Publisher
}

func NewMaintenanceService(st store.Maintenance, pub events.Publisher) *MaintenanceService {
	if pub == nil {
		pub = events.Nop
	}
	return &MaintenanceService{store: st, events: pub}
}

// SweepOverdue marks pending records past their due date as overdue.
func (s *MaintenanceService) SweepOverdue(ctx context.Context) ([]models.StudentFeeRecord, error) {
	changed, err := s.store.MarkOverdue(ctx, now())
	if err != nil {
		return nil, err
	}
	for _, r := range changed {
		events.Emit(ctx, s.events, events.NewFeeRecordOverdue(r))
	}
	if len(changed) > 0 {
		log.Printf("✅ Marked %d fee records overdue", len(changed))
	}
	return nonNil(changed), nil
}

// Reconcile rebuilds drifted balances from their payments.
func (s *MaintenanceService) Reconcile(ctx context.Context) ([]models.StudentFeeRecord, error) {
	fixed, err := s.store.ReconcileLedger(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range fixed {
		log.Printf("⚠️ Repaired fee record %s: amount_paid now %.2f (%s)", r.ID, r.AmountPaid, r.PaymentStatus)
		events.Emit(ctx, s.events, events.NewLedgerReconciled(r))
	}
	return nonNil(fixed), nil
}

func nonNil(rs []models.StudentFeeRecord) []models.StudentFeeRecord {
	if rs == nil {
		return []models.StudentFeeRecord{}
	}
	return rs
}
