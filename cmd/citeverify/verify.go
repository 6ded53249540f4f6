// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citeverify/internal/verify"
	"github.com/pdiddy/citeverify/pkg/types"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [citation]",
	Short: "Check whether a citation refers to a real published work",
	Long: `Verify parses a free-text citation, rejects it early when it is incomplete
or implausible, and otherwise searches the bibliographic sources and scores
the best match. The result is one of verified, likely, uncertain,
not_verified, incomplete, fake, or not_found.

With --file, each non-blank line of the file is verified and a report is
printed; --out writes the full report as YAML or JSON.`,
	RunE: runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	if file == "" && len(args) == 0 {
		return fmt.Errorf("citation text or --file required")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	app, err := build(ctx, buildOptions{history: true})
	if err != nil {
		return err
	}
	defer app.Close()

	email, _ := cmd.Flags().GetString("email")
	format, _ := cmd.Flags().GetString("format")

	if file != "" {
		return runVerifyBatch(ctx, cmd, app.verifier, file, email)
	}

	result, err := app.verifier.Verify(ctx, strings.Join(args, " "), email)
	if err != nil {
		return err
	}
	return printResult(os.Stdout, result, format)
}

func runVerifyBatch(ctx context.Context, cmd *cobra.Command, v *verify.Verifier, file, email string) error {
	var r io.Reader = os.Stdin
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return fmt.Errorf("opening citation file: %w", err)
		}
		defer f.Close()
		r = f
	}

	citations, lines, err := verify.ReadCitations(r)
	if err != nil {
		return err
	}
	if len(citations) == 0 {
		return fmt.Errorf("no citations in %s", file)
	}

	concurrency, _ := cmd.Flags().GetInt("concurrency")
	rep := v.VerifyBatch(ctx, citations, lines, email, concurrency)

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "json", "yaml":
		if err := verify.WriteReport(os.Stdout, rep, format); err != nil {
			return err
		}
	default:
		verify.PrintReport(os.Stdout, rep)
	}

	if out, _ := cmd.Flags().GetString("out"); out != "" {
		if err := verify.WriteReportFile(out, rep); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Report written to %s\n", out)
	}
	return nil
}

// printResult writes one verification result as text, JSON or YAML.
func printResult(w io.Writer, r types.VerificationResult, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(r)
	case "", "text":
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
	}

	fmt.Fprintf(w, "Status:  %s\n", r.Status)
	fmt.Fprintf(w, "Score:   %d\n", r.Score)
	fmt.Fprintf(w, "Message: %s\n", r.Message)
	d := r.Details
	if d.Title != "" {
		fmt.Fprintf(w, "Title:   %s\n", d.Title)
	}
	if d.Author != "" {
		fmt.Fprintf(w, "Author:  %s\n", d.Author)
	}
	if d.Year != 0 {
		fmt.Fprintf(w, "Year:    %d\n", d.Year)
	}
	if d.Journal != "" {
		fmt.Fprintf(w, "Journal: %s\n", d.Journal)
	}
	if d.DOI != "" {
		fmt.Fprintf(w, "DOI:     %s\n", d.DOI)
	}
	if d.Reason != "" {
		fmt.Fprintf(w, "Reason:  %s\n", d.Reason)
	}
	if len(d.Checks) > 0 {
		fmt.Fprintln(w, "Checks:")
		for _, c := range d.Checks {
			fmt.Fprintf(w, "  - %s\n", c)
		}
	}
	return nil
}

func init() {
	verifyCmd.Flags().String("file", "", "file with one citation per line (- for stdin)")
	verifyCmd.Flags().String("email", "", "user email recorded in history")
	verifyCmd.Flags().String("format", "text", "output format: text, json, or yaml")
	verifyCmd.Flags().String("out", "", "write the batch report to this file (.yaml or .json)")
	verifyCmd.Flags().Int("concurrency", verify.DefaultConcurrency, "citations verified at once with --file")

	rootCmd.AddCommand(verifyCmd)
}
