// Package entries holds the PDCA entry and month-view commands.
package entries

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tyamagishi/kaizen/internal/calendar"
	"github.com/tyamagishi/kaizen/internal/cli"
	"github.com/tyamagishi/kaizen/internal/dateutil"
	"github.com/tyamagishi/kaizen/internal/journal"
	"github.com/tyamagishi/kaizen/internal/models"
)

type EntryAddCmd struct {
	Date  string `short:"d" help:"Entry date (YYYY-MM-DD). Defaults to today."`
	Plan  string `short:"p" help:"What you intend to do."`
	Do    string `short:"D" help:"What you actually did."`
	Check string `short:"c" help:"What you observed."`
	Act   string `short:"a" help:"What you will change."`
}

func (c *EntryAddCmd) Run(appCtx *cli.Context) error {
	ctx := context.Background()
	user, err := appCtx.RequireUser(ctx)
	if err != nil {
		return err
	}

	day := c.Date
	if day == "" {
		day = dateutil.Today()
	}
	if err := appCtx.CheckEntryAllowance(ctx, user.ID, day); err != nil {
		return err
	}

	entry, err := appCtx.Services.Journal.Add(ctx, user.ID, journal.Input{
		Date:  day,
		Plan:  c.Plan,
		Do:    c.Do,
		Check: c.Check,
		Act:   c.Act,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Added entry for %s (ID: %s)\n", entry.Date, entry.ID)
	return nil
}

type EntryListCmd struct {
	Date string `arg:"" optional:"" help:"Day to list (YYYY-MM-DD). Defaults to today."`
}

func (c *EntryListCmd) Run(appCtx *cli.Context) error {
	ctx := context.Background()
	user, err := appCtx.RequireUser(ctx)
	if err != nil {
		return err
	}

	day := c.Date
	if day == "" {
		day = dateutil.Today()
	}
	if _, err := dateutil.ParseDayKey(day); err != nil {
		return err
	}

	entries, err := appCtx.Services.Journal.ForDate(ctx, user.ID, day)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Printf("No entries for %s.\n", day)
		return nil
	}

	for _, entry := range entries {
		fmt.Print(cli.FormatEntry(entry))
	}
	return nil
}

type EntryShowCmd struct {
	ID string `arg:"" help:"Entry ID."`
}

func (c *EntryShowCmd) Run(appCtx *cli.Context) error {
	ctx := context.Background()
	user, err := appCtx.RequireUser(ctx)
	if err != nil {
		return err
	}

	entry, err := appCtx.Services.Journal.Get(ctx, user.ID, c.ID)
	if err != nil {
		return err
	}
	fmt.Print(cli.FormatEntry(*entry))
	return nil
}

type MonthCmd struct {
	Month string `arg:"" optional:"" help:"Month to show (YYYY-MM). Defaults to the current month."`
}

func (c *MonthCmd) Run(appCtx *cli.Context) error {
	ctx := context.Background()
	user, err := appCtx.RequireUser(ctx)
	if err != nil {
		return err
	}

	anchor := dateutil.MustParseDayKey(dateutil.Today())
	if c.Month != "" {
		anchor, err = dateutil.ParseMonthKey(c.Month)
		if err != nil {
			return err
		}
	}

	entries, err := appCtx.Services.Journal.ForMonth(ctx, user.ID, anchor.Year(), int(anchor.Month()))
	if err != nil {
		return err
	}
	statuses := calendar.BucketEntriesByDate(entries)
	grid := calendar.MonthGrid(anchor.Year(), anchor.Month())

	fmt.Println(renderMonth(anchor, grid, statuses))
	return nil
}

// renderMonth lays the 42-day grid out as 6 rows of 7 cells. A cell is
// the day number plus the day's entry count; today is bracketed and
// out-of-month days are shown dimly as plain numbers.
func renderMonth(anchor time.Time, grid []time.Time, statuses map[string]models.DateStatus) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d\n", anchor.Month(), anchor.Year())
	b.WriteString("  Mon    Tue    Wed    Thu    Fri    Sat    Sun\n")

	for i, day := range grid {
		key := dateutil.DayKey(day)
		cell := fmt.Sprintf("%2d", day.Day())

		if day.Month() == anchor.Month() {
			if status, ok := statuses[key]; ok && status.HasEntries {
				cell = fmt.Sprintf("%s:%d", cell, status.EntryCount)
			}
			if dateutil.IsToday(key) {
				cell = "[" + cell + "]"
			}
		}

		fmt.Fprintf(&b, "%-7s", cell)
		if (i+1)%7 == 0 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
