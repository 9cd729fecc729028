package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"burnish/internal/publish"
)

func newPublishCommand(cmdCtx *commandContext) *cobra.Command {
	var (
		all        bool
		keepHandle bool
		keepSEO    bool
	)

	cmd := &cobra.Command{
		Use:   "publish [item-id...]",
		Short: "Commit staged proposals to the catalog",
		Long: `Writes staged proposals back to the catalog. Each item is published
independently: a failure leaves that item staged and does not stop the rest.
Pass --all to publish everything currently staged.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !all {
				return fmt.Errorf("specify item ids or --all")
			}
			if len(args) > 0 && all {
				return fmt.Errorf("--all cannot be combined with item ids")
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
			notifier, err := cmdCtx.notifier()
			if err != nil {
				return err
			}

			coord := publish.NewCoordinator(store, client, notifier, logger)
			directive := publish.Directive{
				KeepOriginalHandle: keepHandle,
				KeepOriginalSEO:    keepSEO,
			}

			result, err := coord.PublishBulk(cmd.Context(), args, directive)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, itemID := range result.Published {
				fmt.Fprintf(out, "Published %s\n", itemID)
			}
			if len(result.Errors) > 0 {
				headers := []string{"ITEM", "KIND", "REASON"}
				rows := make([][]string, 0, len(result.Errors))
				for _, itemErr := range result.Errors {
					rows = append(rows, []string{itemErr.ItemID, string(itemErr.Kind), itemErr.Reason})
				}
				fmt.Fprintln(out, renderTable(headers, rows, nil))
			}
			fmt.Fprintf(out, "Published %d items, %d failed\n", result.PublishedCount, len(result.Errors))
			if len(result.Errors) > 0 {
				fmt.Fprintln(out, "Failed items remain staged; fix the cause and publish again.")
				return fmt.Errorf("%d of %d publishes failed", len(result.Errors), result.PublishedCount+len(result.Errors))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Publish every staged proposal")
	cmd.Flags().BoolVar(&keepHandle, "keep-handle", false, "Keep the original URL handle instead of the proposed one")
	cmd.Flags().BoolVar(&keepSEO, "keep-seo", false, "Keep the original SEO title and description")
	return cmd
}
