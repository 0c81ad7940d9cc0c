package main

import (
	"context"
	"fmt"
	"time"

	"lead-intake/internal/common/config"

	"github.com/spf13/cobra"
)

var ensureTableCmd = &cobra.Command{
	Use:   "ensure-table",
	Short: "Create the record table if it does not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.close()

		timeout := config.GetDuration(a.cfg.Storage.Timeout)
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		if _, err := a.store.EnsureTable(ctx); err != nil {
			return fmt.Errorf("ensure table %q on %s: %w", a.cfg.Storage.TableName, a.store.Driver(), err)
		}

		a.log.Info("Record table ready", map[string]interface{}{
			"driver": a.store.Driver(),
			"table":  a.cfg.Storage.TableName,
		})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ensureTableCmd)
}
