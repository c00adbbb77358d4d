package cli

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/tyamagishi/kaizen/internal/auth"
	"github.com/tyamagishi/kaizen/internal/config"
	"github.com/tyamagishi/kaizen/internal/models"
	"github.com/tyamagishi/kaizen/internal/session"
	"github.com/tyamagishi/kaizen/internal/store"
	"github.com/tyamagishi/kaizen/internal/subscription"
)

// Context is the shared state handed to every command's Run.
type Context struct {
	Store    store.Provider
	Auth     *auth.Service
	Config   config.Config
	Logger   *zap.Logger
	Services session.Services
}

// RequireUser returns the signed-in user or ErrNotAuthenticated.
func (c *Context) RequireUser(ctx context.Context) (*models.User, error) {
	return c.Auth.CurrentUser(ctx)
}

// CheckEntryAllowance enforces the plan's PDCA entry gate for one more
// entry on the given day. The gate itself only reports levels;
// quantitative enforcement happens here.
func (c *Context) CheckEntryAllowance(ctx context.Context, userID, dayKey string) error {
	sub, err := c.Services.Subscriptions.Fetch(ctx, userID)
	if err != nil {
		// Fetch falls back to the free tier; gate on the fallback.
		c.Logger.Warn("gating on fallback subscription", zap.Error(err))
	}
	if !subscription.CanUse(sub, models.FeaturePDCAEntry) {
		return fmt.Errorf("your plan does not include PDCA entries")
	}

	limit := subscription.EntryLimitPerDay(sub.Plan)
	if c.Config.FreeEntryLimit > 0 && sub.Plan == models.PlanFree {
		limit = c.Config.FreeEntryLimit
	}
	if limit == 0 {
		return nil
	}

	existing, err := c.Services.Journal.ForDate(ctx, userID, dayKey)
	if err != nil {
		return err
	}
	if len(existing) >= limit {
		return fmt.Errorf("the %s plan allows %d entry(ies) per day; %s already has %d",
			sub.Plan, limit, dayKey, len(existing))
	}
	return nil
}

// FormatEntry renders one entry for command output.
func FormatEntry(entry models.JournalEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  (ID: %s)\n", entry.Date, entry.ID)
	for _, part := range []struct {
		label, text string
	}{
		{"Plan", entry.Plan},
		{"Do", entry.Do},
		{"Check", entry.Check},
		{"Act", entry.Act},
	} {
		if strings.TrimSpace(part.text) != "" {
			fmt.Fprintf(&b, "  %-5s %s\n", part.label+":", part.text)
		}
	}
	if strings.TrimSpace(entry.AIComment) != "" {
		fmt.Fprintf(&b, "  Coach: %s\n", entry.AIComment)
	}
	return b.String()
}
