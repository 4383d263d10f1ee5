// Package cli implements the baseline CLI commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/continuauth/baseline/internal/config"
	"github.com/continuauth/baseline/internal/report"
	"github.com/continuauth/baseline/internal/store"
)

var (
	backendFlag string
	dbPathFlag  string
	verbose     bool
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Behavioral baseline profile builder",
	Long: "Builds per-user behavioral baseline profiles from recent interaction-telemetry\n" +
		"sessions (keystroke timing, mouse movement, scrolling, idle ratio) and persists\n" +
		"the statistical summary for continuous-authentication scoring.",
}

func init() {
	RootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "Store backend: postgres or sqlite (default: $BASELINE_BACKEND)")
	RootCmd.PersistentFlags().StringVarP(&dbPathFlag, "db", "d", "", "SQLite database path (default: $BASELINE_SQLITE_PATH or ~/.baseline/baseline.db)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// loadConfig layers file/env configuration with command-line overrides and
// validates the result.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if backendFlag != "" {
		cfg.Backend = backendFlag
	}
	if dbPathFlag != "" {
		cfg.SQLitePath = dbPathFlag
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadLocalConfig is loadConfig pinned to the sqlite backend, for commands
// that only touch the local database and need no store credentials.
func loadLocalConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	cfg.Backend = config.BackendSQLite
	if dbPathFlag != "" {
		cfg.SQLitePath = dbPathFlag
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func sqlitePath(cfg *config.Config) string {
	if cfg.SQLitePath != "" {
		return cfg.SQLitePath
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".baseline", "baseline.db")
}

// openStore opens the configured backend.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	if cfg.Backend == config.BackendSQLite {
		return store.NewSQLiteStore(sqlitePath(cfg))
	}
	return store.NewPostgresStore(ctx, cfg.DSN())
}

// openLocalStore opens the SQLite store regardless of the configured
// backend, for commands that manage local data only.
func openLocalStore(cfg *config.Config) (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(sqlitePath(cfg))
}

func newReporter(cfg *config.Config) *report.Reporter {
	return report.New(report.NewLogger(cfg.LogLevel), os.Stderr)
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
