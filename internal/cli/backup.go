package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var errBackupUnsupported = errors.New("backups are only available for SQLite databases")

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *Context) error {
	mgr := ctx.BackupManager()
	if mgr == nil {
		return errBackupUnsupported
	}

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	fmt.Fprintf(ctx.out(), "✓ Backup created: %s\n", filepath.Base(backupPath))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *Context) error {
	mgr := ctx.BackupManager()
	if mgr == nil {
		return errBackupUnsupported
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		fmt.Fprintln(ctx.out(), "No backups found.")
		fmt.Fprintf(ctx.out(), "Backups are stored in: %s\n", mgr.GetBackupDir())
		return nil
	}

	fmt.Fprintf(ctx.out(), "Available backups (%d total):\n\n", len(backups))
	for _, b := range backups {
		sizeKB := float64(b.Size) / 1024.0
		timestamp := b.Timestamp.Format("2006-01-02 15:04:05")
		fmt.Fprintf(ctx.out(), "  %s  %s  (%.1f KB)\n", timestamp, filepath.Base(b.Path), sizeKB)
	}
	fmt.Fprintf(ctx.out(), "\nBackup directory: %s\n", mgr.GetBackupDir())

	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `short:"y" help:"Do not ask for confirmation."`

	In io.Reader `kong:"-"`
}

func (c *BackupRestoreCmd) Run(ctx *Context) error {
	mgr := ctx.BackupManager()
	if mgr == nil {
		return errBackupUnsupported
	}

	backupPath := c.BackupFile
	if !filepath.IsAbs(backupPath) {
		possiblePath := filepath.Join(mgr.GetBackupDir(), c.BackupFile)
		if _, err := os.Stat(possiblePath); err == nil {
			backupPath = possiblePath
		}
	}

	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return fmt.Errorf("backup file not found: %s", backupPath)
	}

	if !c.Yes {
		fmt.Fprintln(ctx.out(), "⚠️  WARNING: This will replace your current database with the backup.")
		fmt.Fprintln(ctx.out(), "A backup of your current database will be created before restoring.")
		fmt.Fprintf(ctx.out(), "\nRestore from: %s\n", filepath.Base(backupPath))
		fmt.Fprint(ctx.out(), "Continue? [y/N]: ")

		in := c.In
		if in == nil {
			in = os.Stdin
		}
		response, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Fprintln(ctx.out(), "Restore cancelled.")
			return nil
		}
	}

	if err := ctx.Store.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close database connection: %v\n", err)
	}

	preRestore, err := mgr.RestoreBackup(backupPath)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	if preRestore != "" {
		fmt.Fprintf(ctx.out(), "Previous database saved as: %s\n", filepath.Base(preRestore))
	}
	fmt.Fprintln(ctx.out(), "✓ Database restored successfully!")
	return nil
}
