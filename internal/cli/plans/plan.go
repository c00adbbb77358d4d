// Package plans holds the subscription plan commands.
package plans

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/tyamagishi/kaizen/internal/cli"
	"github.com/tyamagishi/kaizen/internal/models"
	"github.com/tyamagishi/kaizen/internal/subscription"
)

type PlanShowCmd struct{}

func (c *PlanShowCmd) Run(appCtx *cli.Context) error {
	ctx := context.Background()
	user, err := appCtx.RequireUser(ctx)
	if err != nil {
		return err
	}

	sub, err := appCtx.Services.Subscriptions.Fetch(ctx, user.ID)
	if err != nil {
		return err
	}

	fmt.Printf("Plan: %s\n", sub.Plan)
	if days := subscription.TrialDaysRemaining(sub, time.Now()); days > 0 {
		fmt.Printf("Trial: %d day(s) remaining\n", days)
	}
	if credits := subscription.MeetingCredits(sub); credits > 0 {
		fmt.Printf("Coach meeting credits: %d\n", credits)
	}

	features := make([]string, 0, len(sub.Features))
	for feature := range sub.Features {
		features = append(features, string(feature))
	}
	sort.Strings(features)

	fmt.Println("Features:")
	for _, feature := range features {
		fmt.Printf("  %-14s %s\n", feature, sub.Features[models.Feature(feature)])
	}
	return nil
}

type PlanUpgradeCmd struct {
	Tier string `arg:"" help:"Target tier (free|standard|premium)."`
}

func (c *PlanUpgradeCmd) Run(appCtx *cli.Context) error {
	ctx := context.Background()
	user, err := appCtx.RequireUser(ctx)
	if err != nil {
		return err
	}

	sub, err := appCtx.Services.Subscriptions.Upgrade(ctx, user.ID, models.PlanTier(c.Tier))
	if err != nil {
		return err
	}

	fmt.Printf("Now on the %s plan.\n", sub.Plan)
	return nil
}
