package main

import (
	"encoding/json"
	"errors"
	"os"

	"budget/internal/audit"
	"budget/internal/config"
	"budget/internal/domain"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newChangesCmd(conf func() config.Config) *cobra.Command {
	var (
		callID string
		table  string
		key    string
	)

	cmd := &cobra.Command{
		Use:   "changes",
		Short: "Print recorded changes for an audit call or an entity",
		Example: "  budget changes --call 6f1c...\n" +
			"  budget changes --table budgets --key 9a2e...",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (callID == "") == (table == "" || key == "") {
				return errors.New("pass either --call or both --table and --key")
			}
			st, err := openStore(conf())
			if err != nil {
				return err
			}
			log := audit.Changes(st)

			var out []domain.Change
			if callID != "" {
				id, err := uuid.Parse(callID)
				if err != nil {
					return err
				}
				out, err = log.FindByAuditCall(cmd.Context(), id)
				if err != nil {
					return err
				}
			} else {
				out, err = log.FindByEntityKey(cmd.Context(), table, key)
				if err != nil {
					return err
				}
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	cmd.Flags().StringVar(&callID, "call", "", "audit call id")
	cmd.Flags().StringVar(&table, "table", "", "entity table name")
	cmd.Flags().StringVar(&key, "key", "", "entity key")
	return cmd
}
