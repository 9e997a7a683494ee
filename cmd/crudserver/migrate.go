package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply store schema migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log, err := cfg.Logger()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		b, err := openBackend(ctx, cfg.Store, log)
		if err != nil {
			return err
		}
		defer func() { _ = b.close(ctx) }()

		err = b.migrate(ctx)
		if errors.Is(err, ErrNoMigrations) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s store has no migrations\n", b.driver)
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s store migrated\n", b.driver)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
