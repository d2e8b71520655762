package jobs

import (
	"context"
	"log"

	"github.com/anjiri1684/college_crp/models"
)

type LedgerReconciler interface {
	Reconcile(ctx context.Context) ([]models.StudentFeeRecord, error)
}

func ReconcileLedger(ctx context.Context, r LedgerReconciler) {
	log.Println("Running job: ReconcileLedger...")

	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	fixed, err := r.Reconcile(ctx)
	if err != nil {
		log.Printf("🔥 Error reconciling ledger: %v", err)
		return
	}
	if len(fixed) == 0 {
		log.Println("✅ Ledger is consistent")
		return
	}
	log.Printf("⚠️ Ledger reconciliation repaired %d fee records", len(fixed))
}
