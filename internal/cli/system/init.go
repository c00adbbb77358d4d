// Package system holds storage lifecycle and TUI launch commands.
package system

import (
	"fmt"
	"os"

	"github.com/tyamagishi/kaizen/internal/cli"
)

type InitCmd struct {
	Force bool `help:"Delete the existing database before initializing."`
}

func (c *InitCmd) Run(appCtx *cli.Context) error {
	if c.Force {
		dbPath := appCtx.Store.GetConfigPath()
		if _, err := os.Stat(dbPath); err == nil {
			if err := appCtx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			fmt.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := appCtx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized kaizen storage at: %s\n", appCtx.Store.GetConfigPath())
	return nil
}
