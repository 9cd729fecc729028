package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"burnish/internal/catalog"
	"burnish/internal/staging"
)

func newStagedCommand(cmdCtx *commandContext) *cobra.Command {
	stagedCmd := &cobra.Command{
		Use:   "staged",
		Short: "Review proposals staged for publish",
	}

	stagedCmd.AddCommand(newStagedListCommand(cmdCtx))
	stagedCmd.AddCommand(newStagedShowCommand(cmdCtx))
	stagedCmd.AddCommand(newStagedDiscardCommand(cmdCtx))
	return stagedCmd
}

func newStagedListCommand(cmdCtx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List staged proposals",
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

			entries, err := store.List(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOut {
				type listEntry struct {
					ItemID        string    `json:"item_id"`
					ProposedTitle string    `json:"proposed_title"`
					CreatedAt     time.Time `json:"created_at"`
					ExpiresAt     time.Time `json:"expires_at"`
				}
				payload := make([]listEntry, 0, len(entries))
				for _, entry := range entries {
					payload = append(payload, listEntry{
						ItemID:        entry.ItemID,
						ProposedTitle: entry.Proposed.Title,
						CreatedAt:     entry.CreatedAt,
						ExpiresAt:     entry.CreatedAt.Add(cfg.StagingTTL()),
					})
				}
				return writeJSON(cmd, payload)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No staged proposals. Run 'burnish run <item-id>...' to create some.")
				return nil
			}

			now := time.Now()
			headers := []string{"ITEM", "PROPOSED TITLE", "AGE", "EXPIRES IN"}
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				expiresIn := cfg.StagingTTL() - entry.Age(now)
				if expiresIn < 0 {
					expiresIn = 0
				}
				rows = append(rows, []string{
					entry.ItemID,
					entry.Proposed.Title,
					formatAge(entry.Age(now)),
					formatAge(expiresIn),
				})
			}
			fmt.Fprintln(out, renderTable(headers, rows, nil))
			fmt.Fprintf(out, "%d staged proposals (tenant %s)\n", len(entries), cfg.Catalog.Tenant)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newStagedShowCommand(cmdCtx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <item-id>",
		Short: "Show the before/after diff for one staged proposal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := cmdCtx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			entry, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, map[string]any{
					"item_id":    entry.ItemID,
					"original":   entry.Original,
					"proposed":   entry.Proposed,
					"created_at": entry.CreatedAt,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Item %s, staged %s ago\n", entry.ItemID, formatAge(entry.Age(time.Now())))
			fmt.Fprintln(out, renderTable(
				[]string{"FIELD", "ORIGINAL", "PROPOSED"},
				diffRows(entry),
				nil,
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newStagedDiscardCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "discard <item-id> [item-id...]",
		Short: "Discard staged proposals without publishing",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := cmdCtx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			for _, itemID := range args {
				removed, err := store.Remove(cmd.Context(), itemID)
				if err != nil {
					return err
				}
				if removed {
					fmt.Fprintf(out, "Discarded %s\n", itemID)
				} else {
					fmt.Fprintf(out, "Nothing staged for %s\n", itemID)
				}
			}
			return nil
		},
	}
}

var fieldTitler = cases.Title(language.Und)

// diffRows flattens both snapshots into label/original/proposed rows, showing
// only the fields the proposal actually changes plus title and description.
func diffRows(entry *staging.StagedResult) [][]string {
	original := snapshotFields(entry.Original)
	proposed := snapshotFields(entry.Proposed)

	rows := make([][]string, 0, len(original))
	for i, field := range original {
		before := field.value
		after := proposed[i].value
		always := field.name == "title" || field.name == "description"
		if !always && before == after {
			continue
		}
		rows = append(rows, []string{fieldLabel(field.name), before, after})
	}
	return rows
}

func fieldLabel(name string) string {
	return fieldTitler.String(strings.ReplaceAll(name, "_", " "))
}

type snapshotField struct {
	name  string
	value string
}

func snapshotFields(s catalog.Snapshot) []snapshotField {
	return []snapshotField{
		{"title", s.Title},
		{"description", s.Description},
		{"handle", s.Handle},
		{"product_type", s.ProductType},
		{"vendor", s.Vendor},
		{"tags", strings.Join(s.Tags, ", ")},
		{"seo_title", s.SEOTitle},
		{"seo_description", s.SEODescription},
	}
}
