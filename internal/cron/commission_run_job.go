package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/newsroute/newsroute-backend/internal/commissions"
	"github.com/newsroute/newsroute-backend/internal/identity"
	"github.com/newsroute/newsroute-backend/pkg/logger"
)

type commissionRunner interface {
	Process(ctx context.Context, input commissions.ProcessInput) (*commissions.RunResult, error)
}

// CommissionRunJobParams configures the monthly commission payout job.
type CommissionRunJobParams struct {
	Logger      *logger.Logger
	Areas       areaLister
	Commissions commissionRunner
	Now         func() time.Time
}

// NewCommissionRunJob builds the job that pays out the previous month's
// deliveries. Deliverers already paid for the period are skipped, so the job
// is safe on a daily cadence.
func NewCommissionRunJob(params CommissionRunJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Areas == nil {
		return nil, fmt.Errorf("area lister required")
	}
	if params.Commissions == nil {
		return nil, fmt.Errorf("commission service required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &commissionRunJob{
		logg:        params.Logger,
		areas:       params.Areas,
		commissions: params.Commissions,
		now:         now,
	}, nil
}

type commissionRunJob struct {
	logg        *logger.Logger
	areas       areaLister
	commissions commissionRunner
	now         func() time.Time
}

func (j *commissionRunJob) Name() string { return "commission-run" }

func (j *commissionRunJob) Run(ctx context.Context) error {
	areaIDs, err := j.areas.ListActiveAreaIDs(ctx)
	if err != nil {
		return fmt.Errorf("list active areas: %w", err)
	}
	if len(areaIDs) == 0 {
		j.logg.Info(ctx, "no active areas; skipping commission run")
		return nil
	}

	now := j.now().UTC()
	period := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)

	result, err := j.commissions.Process(ctx, commissions.ProcessInput{
		Actor: identity.SystemActor(areaIDs),
		Month: int(period.Month()),
		Year:  period.Year(),
	})
	if err != nil {
		return fmt.Errorf("commission run: %w", err)
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"month":            int(period.Month()),
		"year":             period.Year(),
		"payments":         result.PaymentCount,
		"skipped_existing": result.SkippedExisting,
		"skipped_zero":     result.SkippedZero,
		"total_paid":       result.TotalPaid,
	})
	j.logg.Info(logCtx, "commission run complete")
	return nil
}
