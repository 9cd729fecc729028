package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"burnish/internal/enrichment"
	"burnish/internal/orchestrator"
)

func newRunCommand(cmdCtx *commandContext) *cobra.Command {
	var (
		briefPath    string
		keywords     []string
		brand        string
		audience     string
		instructions string
	)

	cmd := &cobra.Command{
		Use:   "run <item-id> [item-id...]",
		Short: "Enhance catalog items and stage the results for review",
		Long: `Submits each item to the enrichment service one at a time, in the order
given. Successful rewrites are staged for review; use 'burnish staged' to
inspect them and 'burnish publish' to commit them to the catalog.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			brief, err := buildBrief(briefPath, keywords, brand, audience, instructions)
			if err != nil {
				return err
			}

			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := cmdCtx.newLogger()
			if err != nil {
				return err
			}
			store, err := cmdCtx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()
			client, err := cmdCtx.catalogClient()
			if err != nil {
				return err
			}
			enricher, err := cmdCtx.enrichmentClient()
			if err != nil {
				return err
			}
			notifier, err := cmdCtx.notifier()
			if err != nil {
				return err
			}

			orch, err := orchestrator.New(cfg, enricher, client, store, notifier, logger)
			if err != nil {
				return err
			}

			accepted, skipped, err := orch.Enqueue(args, brief)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(skipped) > 0 {
				fmt.Fprintf(out, "Skipped already-queued items: %s\n", strings.Join(skipped, ", "))
			}
			if len(accepted) == 0 {
				return fmt.Errorf("nothing to do: all %d items are already queued", len(skipped))
			}
			fmt.Fprintf(out, "Enhancing %d items (one at a time)...\n", len(accepted))

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			summary, runErr := orch.Run(ctx)
			printSummary(cmd, summary)
			if runErr != nil && !summary.Cancelled {
				return runErr
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&briefPath, "brief", "", "YAML file with batch guidance (keywords, brand, audience, instructions)")
	cmd.Flags().StringSliceVar(&keywords, "keywords", nil, "Target keywords applied to every item")
	cmd.Flags().StringVar(&brand, "brand", "", "Brand voice guidance")
	cmd.Flags().StringVar(&audience, "audience", "", "Target audience guidance")
	cmd.Flags().StringVar(&instructions, "instructions", "", "Free-text instructions for the batch")
	return cmd
}

func buildBrief(briefPath string, keywords []string, brand, audience, instructions string) (enrichment.EnhancementContext, error) {
	var brief enrichment.EnhancementContext
	if path := strings.TrimSpace(briefPath); path != "" {
		loaded, err := enrichment.LoadContextFile(path)
		if err != nil {
			return brief, err
		}
		brief = loaded
	}
	flags := enrichment.EnhancementContext{
		Keywords:     keywords,
		Brand:        brand,
		Audience:     audience,
		Instructions: instructions,
	}
	return brief.Merge(flags.Normalize()), nil
}

func printSummary(cmd *cobra.Command, summary orchestrator.Summary) {
	out := cmd.OutOrStdout()

	if summary.Cancelled {
		fmt.Fprintln(out, "Batch cancelled.")
	}

	headers := []string{"ITEM", "RESULT", "DETAIL"}
	rows := make([][]string, 0, len(summary.Items))
	for _, item := range summary.Items {
		switch {
		case item.Staged:
			rows = append(rows, []string{item.ItemID, "staged", "ready for review"})
		case item.Err != nil:
			rows = append(rows, []string{item.ItemID, string(item.Kind), item.Kind.Hint()})
		}
	}
	if len(rows) > 0 {
		fmt.Fprintln(out, renderTable(headers, rows, nil))
	}

	fmt.Fprintf(out, "Done: %d staged, %d failed in %s\n",
		summary.Completed, summary.Failed, summary.Duration.Round(summaryRound))
	if summary.Failed > 0 {
		fmt.Fprintln(out, "Failed items remain unstaged; re-run them once the cause is resolved.")
	}
}
