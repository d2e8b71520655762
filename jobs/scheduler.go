package jobs

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

type Maintenance interface {
	OverdueSweeper
	LedgerReconciler
}

// NewScheduler registers the maintenance jobs whose schedule is non-empty.
// Overlapping runs of the same job are skipped.
func NewScheduler(ctx context.Context, m Maintenance, overdueSpec, reconcileSpec string) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(
		cron.Recover(cron.DefaultLogger),
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))

	if overdueSpec != "" {
		if _, err := c.AddFunc(overdueSpec, func() { SweepOverdueFees(ctx, m) }); err != nil {
			return nil, fmt.Errorf("schedule overdue sweep %q: %w", overdueSpec, err)
		}
		log.Printf("✅ Overdue sweep scheduled (%s)", overdueSpec)
	}
	if reconcileSpec != "" {
		if _, err := c.AddFunc(reconcileSpec, func() { ReconcileLedger(ctx, m) }); err != nil {
			return nil, fmt.Errorf("schedule ledger reconciliation %q: %w", reconcileSpec, err)
		}
		log.Printf("✅ Ledger reconciliation scheduled (%s)", reconcileSpec)
	}
	return c, nil
}
