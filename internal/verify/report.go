// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package verify

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/citeverify/pkg/types"
)

// DefaultConcurrency is the number of citations verified at once by
// VerifyBatch when the caller does not say.
const DefaultConcurrency = 4

// Report is the on-disk representation of a batch verification run. A
// report can be written and re-read later without re-querying the sources.
type Report struct {
	Entries []ReportEntry `json:"entries" yaml:"entries"`
	Summary ReportSummary `json:"summary" yaml:"summary"`
}

// ReportEntry is one citation and its verdict. Error is set instead of
// Result when the citation was rejected as invalid input.
type ReportEntry struct {
	Line     int                       `json:"line" yaml:"line"`
	Citation string                    `json:"citation" yaml:"citation"`
	Result   *types.VerificationResult `json:"result,omitempty" yaml:"result,omitempty"`
	Error    string                    `json:"error,omitempty" yaml:"error,omitempty"`
}

// ReportSummary stores status counts and a timestamp.
type ReportSummary struct {
	Total     int                  `json:"total" yaml:"total"`
	ByStatus  map[types.Status]int `json:"by_status" yaml:"by_status"`
	Errors    int                  `json:"errors" yaml:"errors"`
	Timestamp time.Time            `json:"timestamp" yaml:"timestamp"`
}

// ReadCitations reads one citation per line from r. Blank lines and lines
// starting with # are skipped; the returned line numbers are 1-based.
func ReadCitations(r io.Reader) (citations []string, lines []int, err error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		citations = append(citations, line)
		lines = append(lines, n)
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading citations: %w", err)
	}
	return citations, lines, nil
}

// VerifyBatch verifies citations with at most concurrency in flight and
// returns one entry per citation in input order. lines gives each
// citation's source line number; nil numbers them from 1.
func (v *Verifier) VerifyBatch(ctx context.Context, citations []string, lines []int, email string, concurrency int) Report {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	entries := make([]ReportEntry, len(citations))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, c := range citations {
		entries[i] = ReportEntry{Line: i + 1, Citation: c}
		if i < len(lines) {
			entries[i].Line = lines[i]
		}
		g.Go(func() error {
			result, err := v.Verify(gctx, c, email)
			if err != nil {
				entries[i].Error = err.Error()
				return nil
			}
			entries[i].Result = &result
			return nil
		})
	}
	g.Wait()

	return Report{Entries: entries, Summary: summarize(entries, v.now())}
}

func summarize(entries []ReportEntry, now time.Time) ReportSummary {
	s := ReportSummary{
		Total:     len(entries),
		ByStatus:  make(map[types.Status]int),
		Timestamp: now,
	}
	for _, e := range entries {
		if e.Result == nil {
			s.Errors++
			continue
		}
		s.ByStatus[e.Result.Status]++
	}
	return s
}

// WriteReport encodes the report to w as "yaml" or "json".
func WriteReport(w io.Writer, rep Report, format string) error {
	switch strings.ToLower(format) {
	case "", "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(&rep); err != nil {
			return fmt.Errorf("marshaling report: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(&rep); err != nil {
			return fmt.Errorf("marshaling report: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown report format %q (want yaml or json)", format)
	}
}

// WriteReportFile saves the report to path. The format follows the file
// extension: .json writes JSON, anything else YAML.
func WriteReportFile(path string, rep Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	if err := WriteReport(f, rep, formatFromPath(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadReport loads a previously saved report written by WriteReportFile.
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	unmarshal := yaml.Unmarshal
	if formatFromPath(path) == "json" {
		unmarshal = json.Unmarshal
	}
	var rep Report
	if err := unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("parsing report: %w", err)
	}
	return &rep, nil
}

func formatFromPath(path string) string {
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return "json"
	}
	return "yaml"
}

// PrintReport writes a one-line-per-citation summary to w.
func PrintReport(w io.Writer, rep Report) {
	for _, e := range rep.Entries {
		if e.Result == nil {
			fmt.Fprintf(w, "%4d  %-12s  %3s  %s (%s)\n", e.Line, "error", "-", truncate(e.Citation, 70), e.Error)
			continue
		}
		fmt.Fprintf(w, "%4d  %-12s  %3d  %s\n", e.Line, e.Result.Status, e.Result.Score, truncate(e.Citation, 70))
	}
	fmt.Fprintf(w, "\n%d citations", rep.Summary.Total)
	for _, st := range types.Statuses {
		if n := rep.Summary.ByStatus[st]; n > 0 {
			fmt.Fprintf(w, ", %d %s", n, st)
		}
	}
	if rep.Summary.Errors > 0 {
		fmt.Fprintf(w, ", %d invalid", rep.Summary.Errors)
	}
	fmt.Fprintln(w)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
