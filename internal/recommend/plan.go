// Package recommend turns ranked profiles into an outreach plan that
// respects campaign rules, contact cooldowns, budgets and quiet hours.
package recommend

import (
	"context"
	"fmt"
	"time"

	"bombardier/internal/config"
	"bombardier/internal/engage"
	"bombardier/internal/logging"
	"bombardier/internal/quality"
	"bombardier/internal/rules"
	"bombardier/internal/schedule"
)

// Skip reasons.
const (
	SkipRule     = "rule"
	SkipCooldown = "cooldown"
	SkipBudget   = "budget"
)

// Store is the slice of the store the planner needs.
type Store interface {
	engage.ActionLog
	ContactedSince(ctx context.Context, target string, since time.Time) (bool, error)
}

// Planner holds the campaign policy. Rule may be nil; Now defaults to time.Now.
type Planner struct {
	Store      Store
	Rule       *rules.Rule
	Engagement config.EngagementConfig
	Action     string
	Cooldown   time.Duration
	Now        func() time.Time
}

// Target is one accepted profile and when to contact it.
type Target struct {
	Profile     quality.RankedProfile `json:"profile"`
	Action      string                `json:"action"`
	ScheduledAt time.Time             `json:"scheduled_at"`
}

// Skipped is a candidate left out of the plan and why.
type Skipped struct {
	Username string `json:"username"`
	Reason   string `json:"reason"`
}

// Plan is the planner output. BudgetExhausted is set when planning stopped
// early because the engagement budget ran out.
type Plan struct {
	Targets         []Target  `json:"targets"`
	Skipped         []Skipped `json:"skipped"`
	BudgetExhausted bool      `json:"budget_exhausted"`
}

// TargetKey identifies a profile in the action log.
func TargetKey(platform, username string) string {
	return platform + "/" + username
}

// Plan walks ranked in order and records an action for every accepted
// target. Budgets are checked and actions recorded at the scheduled time.
func (p *Planner) Plan(ctx context.Context, ranked []quality.RankedProfile) (Plan, error) {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	start := now().UTC()
	plan := Plan{Targets: []Target{}, Skipped: []Skipped{}}

	for i, rp := range ranked {
		if err := ctx.Err(); err != nil {
			return plan, err
		}
		ok, err := p.Rule.Match(rp)
		if err != nil {
			return plan, fmt.Errorf("rule on %s: %w", rp.Username, err)
		}
		if !ok {
			plan.Skipped = append(plan.Skipped, Skipped{Username: rp.Username, Reason: SkipRule})
			continue
		}

		key := TargetKey(rp.Platform, rp.Username)
		if p.Cooldown > 0 {
			recent, err := p.Store.ContactedSince(ctx, key, start.Add(-p.Cooldown))
			if err != nil {
				return plan, fmt.Errorf("cooldown lookup: %w", err)
			}
			if recent {
				plan.Skipped = append(plan.Skipped, Skipped{Username: rp.Username, Reason: SkipCooldown})
				continue
			}
		}

		at := schedule.NextWindow(start, p.Engagement.QuietHours)
		allowed, err := engage.Allow(ctx, p.Store, p.Engagement, p.Action, at)
		if err != nil {
			return plan, fmt.Errorf("budget check: %w", err)
		}
		if !allowed {
			plan.BudgetExhausted = true
			for _, rest := range ranked[i:] {
				plan.Skipped = append(plan.Skipped, Skipped{Username: rest.Username, Reason: SkipBudget})
			}
			break
		}
		if err := engage.Record(ctx, p.Store, p.Action, key, at); err != nil {
			return plan, fmt.Errorf("record action: %w", err)
		}
		plan.Targets = append(plan.Targets, Target{Profile: rp, Action: p.Action, ScheduledAt: at})
	}

	logging.Info("campaign_planned", logging.Fields{
		"candidates": len(ranked),
		"targets":    len(plan.Targets),
		"skipped":    len(plan.Skipped),
		"exhausted":  plan.BudgetExhausted,
	})
	return plan, nil
}
