package cron

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/newsroute/newsroute-backend/internal/identity"
	"github.com/newsroute/newsroute-backend/internal/reminders"
	"github.com/newsroute/newsroute-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// areaLister resolves the full set of active areas for unattended sweeps.
type areaLister interface {
	ListActiveAreaIDs(ctx context.Context) ([]uuid.UUID, error)
}

type reminderSender interface {
	Send(ctx context.Context, input reminders.SendInput) (*reminders.RunResult, error)
}

// ReminderSweepJobParams configures the daily overdue reminder sweep.
type ReminderSweepJobParams struct {
	Logger    *logger.Logger
	Areas     areaLister
	Reminders reminderSender
}

// NewReminderSweepJob builds the job that raises overdue payment reminders
// across every active area.
func NewReminderSweepJob(params ReminderSweepJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Areas == nil {
		return nil, fmt.Errorf("area lister required")
	}
	if params.Reminders == nil {
		return nil, fmt.Errorf("reminder service required")
	}
	return &reminderSweepJob{
		logg:      params.Logger,
		areas:     params.Areas,
		reminders: params.Reminders,
	}, nil
}

type reminderSweepJob struct {
	logg      *logger.Logger
	areas     areaLister
	reminders reminderSender
}

func (j *reminderSweepJob) Name() string { return "reminder-sweep" }

func (j *reminderSweepJob) Run(ctx context.Context) error {
	areaIDs, err := j.areas.ListActiveAreaIDs(ctx)
	if err != nil {
		return fmt.Errorf("list active areas: %w", err)
	}
	if len(areaIDs) == 0 {
		j.logg.Info(ctx, "no active areas; skipping reminder sweep")
		return nil
	}

	result, err := j.reminders.Send(ctx, reminders.SendInput{
		Actor: identity.SystemActor(areaIDs),
	})
	if err != nil {
		return fmt.Errorf("reminder sweep: %w", err)
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"areas":            len(areaIDs),
		"reminders":        result.ReminderCount,
		"skipped_cooldown": result.SkippedCooldown,
		"email":            result.EmailCount,
		"print":            result.PrintCount,
	})
	j.logg.Info(logCtx, "reminder sweep complete")
	return nil
}
