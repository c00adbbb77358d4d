// Package profiles holds the profile commands.
package profiles

import (
	"context"
	"fmt"

	"github.com/tyamagishi/kaizen/internal/cli"
	"github.com/tyamagishi/kaizen/internal/profile"
)

type ProfileShowCmd struct{}

func (c *ProfileShowCmd) Run(appCtx *cli.Context) error {
	ctx := context.Background()
	user, err := appCtx.RequireUser(ctx)
	if err != nil {
		return err
	}

	p, err := appCtx.Services.Profiles.Fetch(ctx, user.ID)
	if err != nil {
		return err
	}
	if p == nil {
		fmt.Println("No profile yet. Run 'kaizen profile set --name <name>' to create one.")
		return nil
	}

	fmt.Printf("Name:  %s\n", p.DisplayName)
	if p.Bio != "" {
		fmt.Printf("Bio:   %s\n", p.Bio)
	}
	if p.ThemeID != "" {
		fmt.Printf("Theme: %s\n", p.ThemeID)
	}
	return nil
}

type ProfileSetCmd struct {
	Name  *string `help:"Display name."`
	Bio   *string `help:"Short bio."`
	Theme *string `help:"Current focus theme ID."`
}

func (c *ProfileSetCmd) Run(appCtx *cli.Context) error {
	if c.Name == nil && c.Bio == nil && c.Theme == nil {
		return fmt.Errorf("nothing to set, pass --name, --bio or --theme")
	}

	ctx := context.Background()
	user, err := appCtx.RequireUser(ctx)
	if err != nil {
		return err
	}

	existing, err := appCtx.Services.Profiles.Fetch(ctx, user.ID)
	if err != nil {
		return err
	}

	if existing == nil {
		if c.Name == nil {
			return fmt.Errorf("no profile yet, --name is required the first time")
		}
		input := profile.Input{DisplayName: *c.Name}
		if c.Bio != nil {
			input.Bio = *c.Bio
		}
		if c.Theme != nil {
			input.ThemeID = *c.Theme
		}
		p, err := appCtx.Services.Profiles.Create(ctx, user.ID, input)
		if err != nil {
			return err
		}
		fmt.Printf("Created profile for %s.\n", p.DisplayName)
		return nil
	}

	p, err := appCtx.Services.Profiles.Update(ctx, user.ID, profile.Patch{
		DisplayName: c.Name,
		Bio:         c.Bio,
		ThemeID:     c.Theme,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Updated profile for %s.\n", p.DisplayName)
	return nil
}
