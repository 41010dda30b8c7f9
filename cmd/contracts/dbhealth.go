package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/contracts-extractor/internal/repository"
)

var dbhealthCmd = &cobra.Command{
	Use:   "dbhealth",
	Short: "Open the task store, apply its schema and ping it",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		tasks, err := repository.Open(cmd.Context(), cfg.Database, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := tasks.Close(); err != nil {
				logger.Error("close database", "error", err)
			}
		}()

		if err := repository.HealthCheck(cmd.Context(), tasks, time.Second, logger); err != nil {
			return fmt.Errorf("DB health: FAIL (%w)", err)
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "DB health: OK (%s)\n", cfg.Database.Driver)
		return err
	},
}
