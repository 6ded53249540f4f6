// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package verify

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/citeverify/pkg/types"
)

func TestReadCitations(t *testing.T) {
	in := "# references\n\nSmith, J. (2020). A title.\n   \nHello\n"
	citations, lines, err := ReadCitations(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"Smith, J. (2020). A title.", "Hello"}, citations)
	assert.Equal(t, []int{3, 5}, lines)
}

func TestVerifyBatch(t *testing.T) {
	s := newStack()
	s.crossref.works = []types.CandidateWork{withSource(attentionWork, types.SourceCrossRef)}
	v := New(s.set(), WithClock(fixedClock))

	citations := []string{vaswani, "Hello", "x", "Jones, A. (2099). Time Travel Basics."}
	rep := v.VerifyBatch(context.Background(), citations, []int{2, 4, 6, 8}, "", 2)

	require.Len(t, rep.Entries, 4)
	assert.Equal(t, types.StatusVerified, rep.Entries[0].Result.Status)
	assert.Equal(t, types.StatusIncomplete, rep.Entries[1].Result.Status)
	assert.Nil(t, rep.Entries[2].Result)
	assert.Equal(t, ErrCitationTooShort.Error(), rep.Entries[2].Error)
	assert.Equal(t, types.StatusFake, rep.Entries[3].Result.Status)
	assert.Equal(t, 8, rep.Entries[3].Line)

	assert.Equal(t, 4, rep.Summary.Total)
	assert.Equal(t, 1, rep.Summary.Errors)
	assert.Equal(t, 1, rep.Summary.ByStatus[types.StatusVerified])
	assert.Equal(t, fixedClock(), rep.Summary.Timestamp)
}

func TestReportFileRoundTrip(t *testing.T) {
	s := newStack()
	v := New(s.set(), WithClock(fixedClock))
	rep := v.VerifyBatch(context.Background(), []string{"Hello", "ab"}, nil, "", 0)

	for _, name := range []string{"report.yaml", "report.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, WriteReportFile(path, rep))

			got, err := ReadReport(path)
			require.NoError(t, err)
			require.Len(t, got.Entries, 2)
			assert.Equal(t, 1, got.Entries[0].Line)
			assert.Equal(t, types.StatusIncomplete, got.Entries[0].Result.Status)
			assert.Equal(t, ErrCitationTooShort.Error(), got.Entries[1].Error)
			assert.Equal(t, 1, got.Summary.ByStatus[types.StatusIncomplete])
			assert.True(t, got.Summary.Timestamp.Equal(fixedClock()))
		})
	}
}

func TestWriteReportUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteReport(&buf, Report{}, "xml"))
}

func TestPrintReport(t *testing.T) {
	rep := Report{
		Entries: []ReportEntry{
			{Line: 1, Citation: "Hello", Result: &types.VerificationResult{Status: types.StatusIncomplete}},
			{Line: 2, Citation: "ab", Error: "too short"},
		},
		Summary: ReportSummary{Total: 2, Errors: 1, ByStatus: map[types.Status]int{types.StatusIncomplete: 1}},
	}
	var buf bytes.Buffer
	PrintReport(&buf, rep)
	out := buf.String()
	assert.Contains(t, out, "incomplete")
	assert.Contains(t, out, "too short")
	assert.Contains(t, out, "2 citations, 1 incomplete, 1 invalid")
}
