package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/macroplan/internal/keyring"
	"github.com/julianstephens/macroplan/internal/storage/postgres"
)

// KeyringSetCmd stores the PostgreSQL connection string in the OS keyring.
// Unlike --config, the stored string may carry a password.
type KeyringSetCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string to store in keyring."`
}

func (cmd *KeyringSetCmd) Run(ctx *Context) error {
	if !postgres.IsConnString(cmd.ConnectionString) && !strings.Contains(cmd.ConnectionString, "host=") {
		return errors.New("connection string must be a valid PostgreSQL connection string")
	}

	if err := postgres.ValidateConnString(cmd.ConnectionString); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		fmt.Fprintln(ctx.out(), "⚠️  Warning: Connection string contains embedded credentials.")
		fmt.Fprintln(ctx.out(), "   It will be stored as-is in the encrypted OS keyring.")
	}

	if err := keyring.SetConnectionString(cmd.ConnectionString); err != nil {
		return fmt.Errorf("failed to store connection string in keyring: %w", err)
	}

	fmt.Fprintln(ctx.out(), "✓ Connection string stored successfully in OS keyring")
	fmt.Fprintln(ctx.out(), "  Use --config=postgres to connect with it")
	return nil
}

type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return fmt.Errorf("failed to delete connection string from keyring: %w", err)
	}

	fmt.Fprintln(ctx.out(), "✓ Connection string deleted from OS keyring")
	return nil
}

type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *Context) error {
	if !keyring.IsAvailable() {
		fmt.Fprintln(ctx.out(), "❌ OS keyring is not available on this system")
		return keyring.ErrKeyringUnavailable
	}

	fmt.Fprintln(ctx.out(), "✓ OS keyring is available")
	connStr, err := keyring.GetConnectionString()
	switch {
	case err == nil:
		fmt.Fprintf(ctx.out(), "✓ Connection string is stored in keyring: %s\n", maskPassword(connStr))
	case errors.Is(err, keyring.ErrNotFound):
		fmt.Fprintln(ctx.out(), "ℹ No connection string stored in keyring")
	default:
		return err
	}
	return nil
}

// maskPassword masks passwords in connection strings for display
func maskPassword(connStr string) string {
	if postgres.IsConnString(connStr) {
		if idx := strings.Index(connStr, "://"); idx != -1 {
			remaining := connStr[idx+3:]
			if atIdx := strings.LastIndex(remaining, "@"); atIdx != -1 {
				userInfo := remaining[:atIdx]
				if colonIdx := strings.Index(userInfo, ":"); colonIdx != -1 {
					return connStr[:idx+3] + userInfo[:colonIdx] + ":****" + connStr[idx+3+atIdx:]
				}
			}
		}
	}

	if strings.Contains(connStr, "password=") {
		parts := strings.Fields(connStr)
		for i, part := range parts {
			if strings.HasPrefix(part, "password=") {
				parts[i] = "password=****"
			}
		}
		return strings.Join(parts, " ")
	}

	return connStr
}
