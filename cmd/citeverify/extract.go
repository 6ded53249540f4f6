// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citeverify/internal/parse"
	"github.com/pdiddy/citeverify/internal/pdf"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file.pdf>",
	Short: "Extract citation-shaped spans from a PDF",
	Long: `Extract reads the text of a PDF and finds citation-shaped spans: DOIs,
"Author (Year) ..." references, and reference-list lines. Spans are
deduplicated and capped at 50. When no pattern matches, lines following a
References or Bibliography heading are returned instead.

The output is one citation per line, suitable for verify --file.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	maxPages, _ := cmd.Flags().GetInt("max-pages")
	text, err := pdf.ExtractFile(args[0], maxPages)
	if err != nil {
		return err
	}

	citations := parse.ExtractCitations(text)
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		if citations == nil {
			citations = []string{}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(citations)
	}

	for _, c := range citations {
		fmt.Println(c)
	}
	fmt.Fprintf(os.Stderr, "Found %d potential citations\n", len(citations))
	return nil
}

func init() {
	extractCmd.Flags().Int("max-pages", 0, "read at most this many pages (0 = all)")
	extractCmd.Flags().Bool("json", false, "output citations as a JSON array")

	rootCmd.AddCommand(extractCmd)
}
