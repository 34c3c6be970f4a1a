package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tbourn/headache-tracker/internal/repo"
)

func migrateCmd() *cobra.Command {
	var purge bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			if !purge {
				return nil
			}
			n, err := repo.PurgeExpiredIdempotency(cmd.Context(), a.db, time.Now().UTC())
			if err != nil {
				return fmt.Errorf("purge idempotency keys: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "purged %d expired idempotency keys\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&purge, "purge-idempotency", true, "delete expired Idempotency-Key records")
	return cmd
}
