// Package engage enforces outreach budgets over the recorded action log.
package engage

import (
	"context"
	"time"

	"bombardier/internal/config"
)

// ActionLog is the part of the store the budget reads and writes.
type ActionLog interface {
	CountActionsWithin(ctx context.Context, start, end time.Time, typ string) (int, error)
	PutAction(ctx context.Context, ts time.Time, typ, target string) error
}

// Allow checks the global hourly/daily budgets, counted over every action
// type, and then the per-type budget for typ if one is configured.
func Allow(ctx context.Context, log ActionLog, cfg config.EngagementConfig, typ string, now time.Time) (bool, error) {
	ok, err := withinBudget(ctx, log, config.Budget{MaxPerHour: cfg.MaxPerHour, MaxPerDay: cfg.MaxPerDay}, "", now)
	if err != nil || !ok {
		return false, err
	}
	b, found := cfg.PerType[typ]
	if !found {
		return true, nil
	}
	return withinBudget(ctx, log, b, typ, now)
}

// Record logs one action of type typ against target.
func Record(ctx context.Context, log ActionLog, typ, target string, now time.Time) error {
	return log.PutAction(ctx, now, typ, target)
}

func withinBudget(ctx context.Context, log ActionLog, b config.Budget, typ string, now time.Time) (bool, error) {
	now = now.UTC()
	startHour := now.Truncate(time.Hour)
	startDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if b.MaxPerHour > 0 {
		n, err := log.CountActionsWithin(ctx, startHour, startHour.Add(time.Hour), typ)
		if err != nil {
			return false, err
		}
		if n >= b.MaxPerHour {
			return false, nil
		}
	}
	if b.MaxPerDay > 0 {
		n, err := log.CountActionsWithin(ctx, startDay, startDay.Add(24*time.Hour), typ)
		if err != nil {
			return false, err
		}
		if n >= b.MaxPerDay {
			return false, nil
		}
	}
	return true, nil
}
