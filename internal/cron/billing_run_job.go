package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/newsroute/newsroute-backend/internal/billing"
	"github.com/newsroute/newsroute-backend/internal/identity"
	pkgerrors "github.com/newsroute/newsroute-backend/pkg/errors"
	"github.com/newsroute/newsroute-backend/pkg/logger"
)

type billingRunner interface {
	Generate(ctx context.Context, input billing.GenerateInput) (*billing.RunResult, error)
}

// BillingRunJobParams configures the monthly bill generation job.
type BillingRunJobParams struct {
	Logger  *logger.Logger
	Areas   areaLister
	Billing billingRunner
	Now     func() time.Time
}

// NewBillingRunJob builds the job that generates the current month's bills.
// Re-runs inside an already generated period are reported as a skip, so the
// job is safe on a daily cadence.
func NewBillingRunJob(params BillingRunJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Areas == nil {
		return nil, fmt.Errorf("area lister required")
	}
	if params.Billing == nil {
		return nil, fmt.Errorf("billing service required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &billingRunJob{
		logg:    params.Logger,
		areas:   params.Areas,
		billing: params.Billing,
		now:     now,
	}, nil
}

type billingRunJob struct {
	logg    *logger.Logger
	areas   areaLister
	billing billingRunner
	now     func() time.Time
}

func (j *billingRunJob) Name() string { return "billing-run" }

func (j *billingRunJob) Run(ctx context.Context) error {
	areaIDs, err := j.areas.ListActiveAreaIDs(ctx)
	if err != nil {
		return fmt.Errorf("list active areas: %w", err)
	}
	if len(areaIDs) == 0 {
		j.logg.Info(ctx, "no active areas; skipping billing run")
		return nil
	}

	now := j.now().UTC()
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"month": int(now.Month()),
		"year":  now.Year(),
		"areas": len(areaIDs),
	})

	result, err := j.billing.Generate(ctx, billing.GenerateInput{
		Actor: identity.SystemActor(areaIDs),
		Month: int(now.Month()),
		Year:  now.Year(),
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeConflict {
			j.logg.Info(logCtx, "bills already generated for period; skipping")
			return nil
		}
		return fmt.Errorf("billing run: %w", err)
	}

	logCtx = j.logg.WithFields(logCtx, map[string]any{
		"bills":        result.BillCount,
		"items":        result.ItemCount,
		"total_billed": result.TotalBilled,
	})
	j.logg.Info(logCtx, "billing run complete")
	return nil
}
