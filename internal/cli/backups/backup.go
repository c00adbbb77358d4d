// Package backups holds the snapshot commands.
package backups

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tyamagishi/kaizen/internal/backup"
	"github.com/tyamagishi/kaizen/internal/cli"
)

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(appCtx *cli.Context) error {
	ctx := context.Background()
	user, err := appCtx.RequireUser(ctx)
	if err != nil {
		return err
	}

	mgr := backup.NewManager(appCtx.Store)
	path, err := mgr.Create(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	fmt.Printf("Backup created: %s\n", filepath.Base(path))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(appCtx *cli.Context) error {
	mgr := backup.NewManager(appCtx.Store)
	backups, err := mgr.List()
	if err != nil {
		return err
	}

	if len(backups) == 0 {
		fmt.Println("No backups found.")
		fmt.Printf("Backups are stored in: %s\n", mgr.BackupDir())
		return nil
	}

	fmt.Printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), backup.MaxBackups)
	for _, b := range backups {
		sizeKB := float64(b.Size) / 1024.0
		fmt.Printf("  %s  %s  (%.1f KB)\n",
			b.Timestamp.Format("2006-01-02 15:04:05"), filepath.Base(b.Path), sizeKB)
	}
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the snapshot to restore."`
	Yes        bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *BackupRestoreCmd) Run(appCtx *cli.Context) error {
	ctx := context.Background()
	user, err := appCtx.RequireUser(ctx)
	if err != nil {
		return err
	}

	mgr := backup.NewManager(appCtx.Store)

	path := c.BackupFile
	if !filepath.IsAbs(path) {
		if _, err := os.Stat(path); err != nil {
			candidate := filepath.Join(mgr.BackupDir(), c.BackupFile)
			if _, err := os.Stat(candidate); err != nil {
				return fmt.Errorf("backup file not found: tried current directory and %s", mgr.BackupDir())
			}
			path = candidate
		}
	}

	if !c.Yes {
		fmt.Println("WARNING: restoring will overwrite documents that share IDs with the snapshot.")
		fmt.Printf("Restore from: %s\n", path)
		fmt.Print("Continue? [y/N]: ")

		reader := bufio.NewReader(os.Stdin)
		response, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Println("Restore cancelled.")
			return nil
		}
	}

	restored, err := mgr.Restore(ctx, user.ID, path)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	fmt.Printf("Restored %d document(s).\n", restored)
	return nil
}
