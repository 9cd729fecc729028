package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCommand(cmdCtx *commandContext) *cobra.Command {
	var checkHealth bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show staging state and configuration summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := cmdCtx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			count, err := store.Count(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			rows := [][]string{
				{"Tenant", cfg.Catalog.Tenant},
				{"Staged proposals", fmt.Sprintf("%d", count)},
				{"Staging TTL", cfg.StagingTTL().String()},
				{"Staging database", store.Path()},
				{"Enrichment model", cfg.Enrichment.Model},
				{"Notifications", yesNo(cfg.Notifications.NtfyTopic != "")},
			}
			fmt.Fprintln(out, renderTable([]string{"FIELD", "VALUE"}, rows, nil))

			if checkHealth {
				enricher, err := cmdCtx.enrichmentClient()
				if err != nil {
					return err
				}
				if err := enricher.HealthCheck(cmd.Context()); err != nil {
					return fmt.Errorf("enrichment service check failed: %w", err)
				}
				fmt.Fprintln(out, "Enrichment service reachable")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&checkHealth, "check", false, "Ping the enrichment service to verify credentials")
	return cmd
}
