// Package account holds the sign-up and sign-in commands.
package account

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/tyamagishi/kaizen/internal/cli"
)

type SignupCmd struct {
	Email string `arg:"" optional:"" help:"Account email address."`
}

func (c *SignupCmd) Run(appCtx *cli.Context) error {
	email := c.Email
	var password, confirm string

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Email").Value(&email),
		huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&password),
		huh.NewInput().Title("Confirm password").EchoMode(huh.EchoModePassword).Value(&confirm),
	))
	if err := form.Run(); err != nil {
		return err
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	user, err := appCtx.Auth.SignUp(context.Background(), email, password)
	if err != nil {
		return err
	}

	fmt.Printf("Account created for %s. Run 'kaizen signin' to sign in.\n", user.Email)
	return nil
}

type SigninCmd struct {
	Email string `arg:"" optional:"" help:"Account email address."`
}

func (c *SigninCmd) Run(appCtx *cli.Context) error {
	email := c.Email
	var password string

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Email").Value(&email),
		huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&password),
	))
	if err := form.Run(); err != nil {
		return err
	}

	user, err := appCtx.Auth.SignIn(context.Background(), email, password)
	if err != nil {
		return err
	}

	fmt.Printf("Signed in as %s.\n", user.Email)
	return nil
}

type SignoutCmd struct{}

func (c *SignoutCmd) Run(appCtx *cli.Context) error {
	if err := appCtx.Auth.SignOut(); err != nil {
		return err
	}
	fmt.Println("Signed out.")
	return nil
}

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(appCtx *cli.Context) error {
	user, err := appCtx.RequireUser(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("%s (ID: %s)\n", user.Email, user.ID)
	return nil
}
