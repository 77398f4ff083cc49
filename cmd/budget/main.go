package main

import (
	"fmt"
	"log/slog"
	"os"

	"budget/internal/config"
	"budget/internal/observability/logging"
	"budget/internal/store"
	"budget/pkg/db"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfg config.Config

	root := &cobra.Command{
		Use:           "budget",
		Short:         "Household budgeting API with per-request change tracking",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cfg = config.Load()
			logger := logging.NewLogger(logging.Config{
				ServiceName: "budget",
				Environment: cfg.Environment,
				Level:       cfg.LogLevel,
			})
			slog.SetDefault(logger)
		},
	}
	conf := func() config.Config { return cfg }

	root.AddCommand(newServeCmd(conf), newMigrateCmd(conf), newChangesCmd(conf))
	return root
}

// openStore connects to Postgres and applies the configured isolation level
// to every transaction.
func openStore(cfg config.Config) (*store.Store, error) {
	gdb, err := db.OpenGorm(db.Config{DSN: cfg.DatabaseURL, LogSQL: cfg.LogSQL})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	st := store.New(gdb)
	st.TxOptions = cfg.TxOptions()
	return st, nil
}
