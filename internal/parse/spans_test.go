// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCitations(t *testing.T) {
	text := `Introduction

Prior work (see below) shaped this field.

Smith, J. (2020). Deep learning in medicine. Journal of AI, 3(1), 1-10.
Jones, K. (2019). Graph methods for proteins. Bioinformatics, 35(2), 200-210.
Smith, J. (2020). Deep learning in medicine. Journal of AI, 3(1), 1-10.
Available online at https://doi.org/10.1016/j.cell.2019.05.031
`
	spans := ExtractCitations(text)
	require.NotEmpty(t, spans)

	assert.Contains(t, spans, "10.1016/j.cell.2019.05.031")
	assert.Contains(t, spans, "Smith, J. (2020). Deep learning in medicine. Journal of AI, 3(1), 1-10.")
	assert.Contains(t, spans, "Jones, K. (2019). Graph methods for proteins. Bioinformatics, 35(2), 200-210.")

	seen := make(map[string]bool)
	for _, s := range spans {
		assert.False(t, seen[s], "duplicate span %q", s)
		seen[s] = true
		assert.Greater(t, len(s), minSpanLen)
		assert.Less(t, len(s), maxSpanLen)
	}
}

func TestExtractCitationsDropsCopyright(t *testing.T) {
	text := "Copyright, A. (2021) all rights reserved by the publisher of this volume.\n" +
		"Lee, H. (2018). Sparse coding of natural images. Vision Research, 4(1), 1-9.\n"
	for _, s := range ExtractCitations(text) {
		assert.NotContains(t, strings.ToLower(s), "copyright")
	}
}

func TestExtractCitationsCap(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 80; i++ {
		fmt.Fprintf(&b, "Author, A. (%d). Paper number %d on topic. Journal of Things, 1(1), 1-2.\n", 1950+i, i)
	}
	assert.Len(t, ExtractCitations(b.String()), maxSpans)
}

func TestExtractCitationsFallsBackToReferenceSection(t *testing.T) {
	var b strings.Builder
	b.WriteString("Body text without any recognizable citation shapes.\n\nReferences\n")
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&b, "%d. ACME internal report on widget tolerances, published %d\n", i+1, 1990+i)
	}
	lines := ExtractCitations(b.String())
	require.Len(t, lines, maxFallbackLines)
	assert.Equal(t, "1. ACME internal report on widget tolerances, published 1990", lines[0])
}

func TestExtractCitationsNothing(t *testing.T) {
	assert.Empty(t, ExtractCitations("short text with no references"))
}
