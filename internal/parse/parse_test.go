// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/citeverify/pkg/types"
)

func TestParseAPAArticle(t *testing.T) {
	p := Parse("Smith, J. (2023). The Future of AI. Journal of Technology, 15(3), 245-267. https://doi.org/10.1234/example")

	assert.Equal(t, "Smith", p.Author)
	assert.Equal(t, 2023, p.Year)
	assert.Equal(t, "The Future of AI", p.Title)
	assert.Equal(t, "10.1234/example", p.DOI)
	assert.Equal(t, "Journal of Technology", p.Journal)
	assert.Equal(t, "15", p.Volume)
	assert.Equal(t, "3", p.Issue)
	assert.Equal(t, "245-267", p.Pages)
	assert.Equal(t, types.FormatArticle, p.Format)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		author  string
		year    int
		title   string
		journal string
		format  types.CitationFormat
	}{
		{
			name:    "conference paper",
			input:   "Vaswani, A., et al. (2017). Attention is all you need. Advances in Neural Information Processing Systems, 30.",
			author:  "Vaswani",
			year:    2017,
			title:   "Attention is all you need",
			journal: "Advances in Neural Information Processing Systems",
			format:  types.FormatArticle,
		},
		{
			name:    "MLA quoted title",
			input:   `Hinton, Geoffrey. "Deep Learning." Nature, 2015.`,
			author:  "Hinton",
			year:    2015,
			title:   "Deep Learning",
			journal: "Nature",
			format:  types.FormatArticle,
		},
		{
			name:    "book with edition and publisher",
			input:   "Knuth, D. E. (1997). The Art of Computer Programming (3rd ed.). Addison-Wesley.",
			author:  "Knuth",
			year:    1997,
			title:   "The Art of Computer Programming",
			journal: "Addison-Wesley",
			format:  types.FormatBook,
		},
		{
			name:   "corporate author",
			input:  "World Health Organization. (2020). Global tuberculosis report 2020. Geneva: WHO.",
			author: "World Health Organization",
			year:   2020,
			title:  "Global tuberculosis report 2020",
			format: types.FormatArticle,
		},
		{
			name:   "informal comma separated",
			input:  "Smith, 2020, Machine learning basics, unpublished notes",
			author: "Smith",
			year:   2020,
			title:  "Machine learning basics",
			format: types.FormatArticle,
		},
		{
			name:   "title only with year",
			input:  "The Great Gatsby (1925)",
			year:   1925,
			title:  "The Great Gatsby",
			format: types.FormatArticle,
		},
		{
			name:   "single word",
			input:  "Hello",
			format: types.FormatUnknown,
		},
		{
			name:   "empty",
			input:  "   ",
			format: types.FormatUnknown,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Parse(tt.input)
			assert.Equal(t, tt.author, p.Author, "author")
			assert.Equal(t, tt.year, p.Year, "year")
			assert.Equal(t, tt.title, p.Title, "title")
			assert.Equal(t, tt.journal, p.Journal, "journal")
			assert.Equal(t, tt.format, p.Format, "format")
		})
	}
}

func TestParseAuthorShapes(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"van der Berg, H. (2019). Soil carbon dynamics. Journal of Soil Science, 4(2), 1-10.", "van der Berg"},
		{"Garcia-Lopez, M. (2018). Urban heat islands revisited.", "Garcia-Lopez"},
		{"O'Brien, K. (2015). Irish famine demography.", "O'Brien"},
		{"Smith J, Jones K. Statins in older adults. Lancet. 2019;393:100-10.", "Smith"},
		{"WHO. (2021). Guidelines on physical activity.", "WHO"},
		{"Darwin (1859) On the Origin of Species", "Darwin"},
		{"Newton 1687 Principia Mathematica", "Newton"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.input).Author)
		})
	}
}

func TestParseIdentifiers(t *testing.T) {
	t.Run("bare DOI", func(t *testing.T) {
		p := Parse("https://doi.org/10.1038/nature14539")
		assert.Equal(t, "10.1038/nature14539", p.DOI)
		assert.Empty(t, p.Title)
		assert.Equal(t, types.FormatArticle, p.Format)
	})
	t.Run("DOI with trailing punctuation", func(t *testing.T) {
		p := Parse("LeCun, Y. (2015). Deep learning. Nature, 521, 436-444. doi:10.1038/nature14539.")
		assert.Equal(t, "10.1038/nature14539", p.DOI)
		assert.Equal(t, "521", p.Volume)
		assert.Equal(t, "436-444", p.Pages)
	})
	t.Run("arXiv id strips version", func(t *testing.T) {
		p := Parse("Brown, T. et al. (2020). Language Models are Few-Shot Learners. arXiv:2005.14165v2")
		assert.Equal(t, "2005.14165", p.ArxivID)
		assert.Equal(t, "Brown", p.Author)
	})
	t.Run("arXiv DOI", func(t *testing.T) {
		p := Parse("Ouyang, L. (2022). Training language models to follow instructions. https://doi.org/10.48550/arXiv.2203.02155")
		assert.Equal(t, "2203.02155", p.ArxivID)
	})
	t.Run("ISBN makes a book", func(t *testing.T) {
		p := Parse("Orwell, George. Nineteen Eighty-Four. Secker and Warburg, 1949. ISBN 978-0-452-28423-4")
		assert.Equal(t, "9780452284234", p.ISBN)
		assert.Equal(t, types.FormatBook, p.Format)
		assert.Equal(t, "Orwell", p.Author)
		assert.Equal(t, "Nineteen Eighty-Four", p.Title)
	})
}

func TestParseTitleLengthCap(t *testing.T) {
	long := strings.Repeat("word ", 80)
	p := Parse(`Smith, J. (2020). "` + long + `". Nature.`)
	assert.LessOrEqual(t, len([]rune(p.Title)), maxTitleLen)
	assert.NotEmpty(t, p.Title)
}

func TestParseBibTeX(t *testing.T) {
	entry := `@article{vaswani2017,
  title = {Attention Is All You Need},
  author = {Vaswani, Ashish and Shazeer, Noam},
  journal = {Advances in Neural Information Processing Systems},
  volume = {30},
  pages = {5998--6008},
  year = {2017}
}`
	p := Parse(entry)

	assert.Equal(t, types.FormatBibTeX, p.Format)
	assert.Equal(t, "Attention Is All You Need", p.Title)
	assert.Equal(t, "Vaswani", p.Author)
	assert.Equal(t, 2017, p.Year)
	assert.Equal(t, "Advances in Neural Information Processing Systems", p.Journal)
	assert.Equal(t, "30", p.Volume)
	assert.Equal(t, "5998-6008", p.Pages)
}

func TestBibtexFirstSurname(t *testing.T) {
	tests := map[string]string{
		"Vaswani, Ashish and Shazeer, Noam": "Vaswani",
		"Ashish Vaswani and Noam Shazeer":   "Vaswani",
		"Knuth":                             "Knuth",
		"":                                  "",
	}
	for in, want := range tests {
		if got := bibtexFirstSurname(in); got != want {
			t.Errorf("bibtexFirstSurname(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidDOI(t *testing.T) {
	assert.True(t, ValidDOI("10.1038/nature14539"))
	assert.True(t, ValidDOI("10.48550/arXiv.2203.02155"))
	assert.False(t, ValidDOI("doi:10.1038/nature14539"))
	assert.False(t, ValidDOI("10.12/short"))
	assert.False(t, ValidDOI(""))
}

func TestParseDeterministic(t *testing.T) {
	in := "Smith, J. (2023). The Future of AI. Journal of Technology, 15(3), 245-267."
	assert.Equal(t, Parse(in), Parse(in))
}
