package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/macroplan/internal/constants"
	"github.com/julianstephens/macroplan/internal/keyring"
	"github.com/julianstephens/macroplan/internal/storage"
	"github.com/julianstephens/macroplan/internal/storage/postgres"
	"github.com/julianstephens/macroplan/internal/storage/sqlite"
)

// PostgresTarget selects PostgreSQL with the connection string taken from
// the environment or the OS keyring.
const PostgresTarget = "postgres"

// OpenRepository picks the repository for a --config value: a PostgreSQL
// URL or PostgresTarget, a *.json file, or a SQLite database file.
// envConn is the value of MACROPLAN_DB_CONNECTION.
func OpenRepository(target, envConn string) (storage.Repository, error) {
	switch {
	case target == PostgresTarget || target == "postgresql":
		connStr, err := storedConnString(envConn)
		if err != nil {
			return nil, err
		}
		return postgres.New(connStr), nil
	case postgres.IsConnString(target):
		if err := postgres.ValidateConnString(target); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("%w: store it with '%s keyring set' or export %s and pass --config=%s",
					err, constants.AppName, constants.EnvDBConnection, PostgresTarget)
			}
			return nil, err
		}
		return postgres.New(target), nil
	case strings.HasSuffix(strings.ToLower(target), ".json"):
		return storage.NewJSONStore(kong.ExpandPath(target)), nil
	default:
		return sqlite.NewStore(kong.ExpandPath(target)), nil
	}
}

// LogDir is the directory that holds the logs directory for a --config
// target: next to the database file, or the default config directory for
// PostgreSQL targets.
func LogDir(target string) string {
	if target == PostgresTarget || target == "postgresql" || postgres.IsConnString(target) {
		return filepath.Dir(kong.ExpandPath(constants.DefaultConfigPath))
	}
	return filepath.Dir(kong.ExpandPath(target))
}

func storedConnString(envConn string) (string, error) {
	if envConn != "" {
		return envConn, nil
	}

	connStr, err := keyring.GetConnectionString()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("no PostgreSQL connection string: set %s or run '%s keyring set'",
				constants.EnvDBConnection, constants.AppName)
		}
		return "", err
	}
	return connStr, nil
}
