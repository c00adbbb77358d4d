// Package goalcmds holds the goal and theme commands.
package goalcmds

import (
	"context"
	"fmt"

	"github.com/tyamagishi/kaizen/internal/cli"
	"github.com/tyamagishi/kaizen/internal/goals"
	"github.com/tyamagishi/kaizen/internal/models"
)

type GoalAddCmd struct {
	Title       string `arg:"" help:"Goal title."`
	Theme       string `short:"t" help:"Theme ID the goal belongs to."`
	Description string `short:"d" help:"Longer description."`
	Start       string `short:"s" help:"Start date (YYYY-MM-DD)."`
	Due         string `short:"e" help:"Due date (YYYY-MM-DD)."`
	Active      bool   `help:"Create the goal as active instead of draft."`
}

func (c *GoalAddCmd) Run(appCtx *cli.Context) error {
	ctx := context.Background()
	user, err := appCtx.RequireUser(ctx)
	if err != nil {
		return err
	}

	status := models.GoalStatusDraft
	if c.Active {
		status = models.GoalStatusActive
	}

	goal, err := appCtx.Services.Goals.Create(ctx, user.ID, goals.Input{
		ThemeID:     c.Theme,
		Title:       c.Title,
		Description: c.Description,
		Status:      status,
		StartDate:   c.Start,
		DueDate:     c.Due,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Added goal: %s (ID: %s, status: %s)\n", goal.Title, goal.ID, goal.Status)
	return nil
}

type GoalListCmd struct {
	Theme string `short:"t" help:"Only draft and active goals of this theme."`
	All   bool   `short:"a" help:"Include completed, paused and cancelled goals."`
}

func (c *GoalListCmd) Run(appCtx *cli.Context) error {
	ctx := context.Background()
	user, err := appCtx.RequireUser(ctx)
	if err != nil {
		return err
	}

	var list []models.Goal
	if c.Theme != "" {
		list, err = appCtx.Services.Goals.LoadByTheme(ctx, user.ID, c.Theme)
	} else {
		list, err = appCtx.Services.Goals.LoadAll(ctx, user.ID)
	}
	if err != nil {
		return err
	}

	if !c.All && c.Theme == "" {
		filtered := list[:0]
		for _, g := range list {
			if g.Status == models.GoalStatusDraft || g.Status == models.GoalStatusActive {
				filtered = append(filtered, g)
			}
		}
		list = filtered
	}

	if len(list) == 0 {
		fmt.Println("No goals found.")
		return nil
	}
	for _, g := range list {
		line := fmt.Sprintf("[%s] %s (ID: %s)", g.Status, g.Title, g.ID)
		if g.DueDate != "" {
			line += fmt.Sprintf(" due %s", g.DueDate)
		}
		fmt.Println(line)
	}
	return nil
}

type ThemeAddCmd struct {
	Name string `arg:"" help:"Theme name."`
}

func (c *ThemeAddCmd) Run(appCtx *cli.Context) error {
	ctx := context.Background()
	user, err := appCtx.RequireUser(ctx)
	if err != nil {
		return err
	}

	theme, err := appCtx.Services.Goals.CreateTheme(ctx, user.ID, c.Name)
	if err != nil {
		return err
	}
	fmt.Printf("Added theme: %s (ID: %s)\n", theme.Name, theme.ID)
	return nil
}

type ThemeListCmd struct{}

func (c *ThemeListCmd) Run(appCtx *cli.Context) error {
	ctx := context.Background()
	user, err := appCtx.RequireUser(ctx)
	if err != nil {
		return err
	}

	themes, err := appCtx.Services.Goals.ListThemes(ctx, user.ID)
	if err != nil {
		return err
	}
	if len(themes) == 0 {
		fmt.Println("No themes found.")
		return nil
	}
	for _, theme := range themes {
		fmt.Printf("%s (ID: %s)\n", theme.Name, theme.ID)
	}
	return nil
}
