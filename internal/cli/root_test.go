package cli

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/tyamagishi/kaizen/internal/config"
	"github.com/tyamagishi/kaizen/internal/goals"
	"github.com/tyamagishi/kaizen/internal/journal"
	"github.com/tyamagishi/kaizen/internal/models"
	"github.com/tyamagishi/kaizen/internal/profile"
	"github.com/tyamagishi/kaizen/internal/session"
	"github.com/tyamagishi/kaizen/internal/store"
	"github.com/tyamagishi/kaizen/internal/subscription"
)

func newContext(t *testing.T) *Context {
	t.Helper()

	provider := store.NewJSONStore(filepath.Join(t.TempDir(), "kaizen.json"))
	if err := provider.Init(); err != nil {
		t.Fatalf("store Init failed: %v", err)
	}

	logger := zap.NewNop()
	return &Context{
		Store:  provider,
		Config: config.Default(),
		Logger: logger,
		Services: session.Services{
			Profiles:      profile.NewService(provider, logger),
			Goals:         goals.NewService(provider, logger),
			Journal:       journal.NewService(provider, logger),
			Subscriptions: subscription.NewService(provider, logger),
		},
	}
}

func TestCheckEntryAllowance_FreeTierDailyLimit(t *testing.T) {
	appCtx := newContext(t)
	ctx := context.Background()

	// No stored subscription means the free tier, one entry per day.
	if err := appCtx.CheckEntryAllowance(ctx, "u1", "2024-03-01"); err != nil {
		t.Fatalf("first entry should be allowed: %v", err)
	}

	if _, err := appCtx.Services.Journal.Add(ctx, "u1", journal.Input{Date: "2024-03-01", Plan: "write"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if err := appCtx.CheckEntryAllowance(ctx, "u1", "2024-03-01"); err == nil {
		t.Error("second entry on the same day should exceed the free allowance")
	}
	// Another day is a fresh allowance.
	if err := appCtx.CheckEntryAllowance(ctx, "u1", "2024-03-02"); err != nil {
		t.Errorf("next day should be allowed: %v", err)
	}
}

func TestCheckEntryAllowance_ConfigOverridesFreeLimit(t *testing.T) {
	appCtx := newContext(t)
	appCtx.Config.FreeEntryLimit = 2
	ctx := context.Background()

	if _, err := appCtx.Services.Journal.Add(ctx, "u1", journal.Input{Date: "2024-03-01", Plan: "write"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if err := appCtx.CheckEntryAllowance(ctx, "u1", "2024-03-01"); err != nil {
		t.Errorf("raised limit should allow a second entry: %v", err)
	}
}

func TestCheckEntryAllowance_PaidTierUnlimited(t *testing.T) {
	appCtx := newContext(t)
	ctx := context.Background()

	if _, err := appCtx.Services.Subscriptions.Upgrade(ctx, "u1", models.PlanStandard); err != nil {
		t.Fatalf("Upgrade failed: %v", err)
	}
	for _, plan := range []string{"one", "two", "three"} {
		if _, err := appCtx.Services.Journal.Add(ctx, "u1", journal.Input{Date: "2024-03-01", Plan: plan}); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	if err := appCtx.CheckEntryAllowance(ctx, "u1", "2024-03-01"); err != nil {
		t.Errorf("standard tier should be unlimited: %v", err)
	}
}

func TestFormatEntry_SkipsBlankFields(t *testing.T) {
	out := FormatEntry(models.JournalEntry{
		ID:   "e1",
		Date: "2024-03-01",
		Plan: "write tests",
		Act:  "refactor",
	})

	if !strings.Contains(out, "Plan:") || !strings.Contains(out, "Act:") {
		t.Errorf("expected populated fields in output:\n%s", out)
	}
	if strings.Contains(out, "Do:") || strings.Contains(out, "Check:") {
		t.Errorf("blank fields should be omitted:\n%s", out)
	}
}
