// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citeverify/internal/history"
	"github.com/pdiddy/citeverify/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history [text]",
	Short: "List recent verifications",
	Long: `History lists recorded verifications, newest first. Filter by user email,
status, or a substring of the citation. Use --export to write the matching
entries as YAML or JSON instead of a table, and --stats for counts per status.`,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.History.Path == "" {
		return fmt.Errorf("history is disabled: set history.path in the config")
	}
	store, err := history.Open(cfg.History)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	email, _ := cmd.Flags().GetString("email")

	if stats, _ := cmd.Flags().GetBool("stats"); stats {
		counts, err := store.Stats(ctx, email)
		if err != nil {
			return err
		}
		for _, st := range types.Statuses {
			if n := counts[st]; n > 0 {
				fmt.Printf("%-12s  %d\n", st, n)
			}
		}
		return nil
	}

	status, _ := cmd.Flags().GetString("status")
	limit, _ := cmd.Flags().GetInt("limit")
	q := history.Query{
		Email:    email,
		AllUsers: email == "",
		Status:   types.Status(status),
		Contains: strings.Join(args, " "),
		Limit:    limit,
	}

	if format, _ := cmd.Flags().GetString("export"); format != "" {
		return store.Export(ctx, os.Stdout, format, q)
	}

	entries, err := store.Recent(ctx, q)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No verifications recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-16s  %-12s  %5s  %s\n", "When", "Status", "Score", "Citation")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
	for _, e := range entries {
		citation := e.Citation
		if r := []rune(citation); len(r) > 60 {
			citation = string(r[:57]) + "..."
		}
		fmt.Fprintf(os.Stdout, "%-16s  %-12s  %5d  %s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Status, e.Score, citation)
	}
	fmt.Fprintf(os.Stdout, "\n%d entries\n", len(entries))
	return nil
}

func init() {
	historyCmd.Flags().String("email", "", "only entries recorded for this email")
	historyCmd.Flags().String("status", "", "only entries with this status")
	historyCmd.Flags().Int("limit", history.DefaultLimit, "maximum number of entries")
	historyCmd.Flags().String("export", "", "write entries as yaml or json")
	historyCmd.Flags().Bool("stats", false, "print counts per status")

	rootCmd.AddCommand(historyCmd)
}
