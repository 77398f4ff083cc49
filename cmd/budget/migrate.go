package main

import (
	"budget/internal/config"
	"budget/pkg/db"

	"github.com/spf13/cobra"
)

func newMigrateCmd(conf func() config.Config) *cobra.Command {
	var status bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := openStore(conf())
			if err != nil {
				return err
			}
			sqlDB, err := st.DB.DB()
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			if status {
				return db.MigrationStatus(cmd.Context(), sqlDB)
			}
			return db.RunMigrations(cmd.Context(), sqlDB)
		},
	}
	cmd.Flags().BoolVar(&status, "status", false, "print migration status instead of applying")
	return cmd
}
