package services

import (
	"context"
	"fmt"

	"github.com/anjiri1684/college_crp/models"
	"github.com/anjiri1684/college_crp/store"
	"github.com/anjiri1684/college_crp/utils"
	"golang.org/x/sync/errgroup"
)

type DashboardService struct {
	store store.Aggregates
}

func NewDashboardService(st store.Aggregates) *DashboardService {
	return &DashboardService{store: st}
}

// ComputeSummary reads each aggregate independently; the result is a
// best-effort snapshot, not a consistent cut across collections.
func (s *DashboardService) ComputeSummary(ctx context.Context) (models.DashboardSummary, error) {
	var (
		students int64
		totals   models.FeeTotals
		pending  int64
		expenses float64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		students, err = s.store.CountStudents(gctx)
		return err
	})
	g.Go(func() (err error) {
		totals, err = s.store.FeeTotals(gctx)
		return err
	})
	g.Go(func() (err error) {
		pending, err = s.store.CountFeeRecordsByStatus(gctx, models.StatusPending)
		return err
	})
	g.Go(func() (err error) {
		expenses, err = s.store.TotalExpenses(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.DashboardSummary{}, fmt.Errorf("compute summary: %w", err)
	}

	due, paid := utils.RoundMoney(totals.TotalDue), utils.RoundMoney(totals.TotalPaid)
	expenses = utils.RoundMoney(expenses)
	return models.DashboardSummary{
		TotalStudents:        students,
		TotalFeesDue:         due,
		TotalFeesCollected:   paid,
		PendingFees:          utils.SubMoney(due, paid),
		PendingPaymentsCount: pending,
		TotalExpenses:        expenses,
		NetRevenue:           utils.SubMoney(paid, expenses),
	}, nil
}
