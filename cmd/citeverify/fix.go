// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citeverify/internal/fix"
	"github.com/pdiddy/citeverify/internal/search"
	"github.com/pdiddy/citeverify/pkg/types"
)

var fixCmd = &cobra.Command{
	Use:   "fix [citation]",
	Short: "Propose a corrected, fully formatted citation",
	Long: `Fix looks the citation up in the bibliographic sources and, when a match
is close enough, renders it in APA, MLA, Chicago and Harvard styles. When no
database match is found and an LLM provider is configured, the model is
asked for an APA rendering, which is then enriched with a DOI if OpenAlex
knows the title.

--csl prints the matched work as CSL-YAML for Pandoc and reference managers.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFix,
}

func runFix(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	app, err := build(ctx, buildOptions{fixer: true})
	if err != nil {
		return err
	}
	defer app.Close()

	result, err := app.fixer.Fix(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	if csl, _ := cmd.Flags().GetBool("csl"); csl {
		if result.Metadata == nil {
			return fmt.Errorf("no metadata for CSL output")
		}
		return search.FormatCSL([]types.CandidateWork{fix.MetadataWork(result.Metadata)}, os.Stdout)
	}

	if result.AlreadyCorrect {
		fmt.Println(result.Message)
		return nil
	}

	styleName, _ := cmd.Flags().GetString("style")
	if styleName == "" {
		printSuggestions(result)
		return nil
	}
	style, err := fix.ParseStyle(styleName)
	if err != nil {
		return err
	}
	text := suggestion(result.Suggestions, style)
	if text == "" {
		return fmt.Errorf("no %s rendering available from %s", style, result.Source)
	}
	fmt.Println(text)
	return nil
}

func printSuggestions(r types.FixResult) {
	fmt.Printf("Source: %s (confidence %d%%)\n\n", r.Source, r.Confidence)
	for _, style := range fix.Styles {
		if text := suggestion(r.Suggestions, style); text != "" {
			fmt.Printf("%-8s %s\n", style+":", text)
		}
	}
}

func suggestion(s *types.Suggestions, style fix.Style) string {
	if s == nil {
		return ""
	}
	switch style {
	case fix.StyleAPA:
		return s.APA
	case fix.StyleMLA:
		return s.MLA
	case fix.StyleChicago:
		return s.Chicago
	case fix.StyleHarvard:
		return s.Harvard
	}
	return ""
}

func init() {
	fixCmd.Flags().String("style", "", "print only this style: APA, MLA, Chicago, or Harvard")
	fixCmd.Flags().Bool("csl", false, "print the matched work as CSL-YAML")
	fixCmd.Flags().Bool("json", false, "print the full fix result as JSON")

	rootCmd.AddCommand(fixCmd)
}
