package jobs

import (
	"context"
	"log"
	"time"

	"github.com/anjiri1684/college_crp/models"
)

const jobTimeout = 2 * time.Minute

type OverdueSweeper interface {
	SweepOverdue(ctx context.Context) ([]models.StudentFeeRecord, error)
}

func SweepOverdueFees(ctx context.Context, s OverdueSweeper) {
	log.Println("Running job: SweepOverdueFees...")

	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	changed, err := s.SweepOverdue(ctx)
	if err != nil {
		log.Printf("🔥 Error sweeping overdue fee records: %v", err)
		return
	}
	if len(changed) == 0 {
		return
	}
	log.Printf("✅ Overdue sweep flagged %d fee records", len(changed))
}
