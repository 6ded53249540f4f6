// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citeverify/pkg/types"
)

// CSLItem represents a bibliographic entry in CSL (Citation Style Language)
// format. The field names and structure follow the CSL-JSON/CSL-YAML schema
// so that output is consumable by Pandoc and reference managers.
type CSLItem struct {
	ID             string    `yaml:"id" json:"id"`
	Type           string    `yaml:"type" json:"type"`
	Title          string    `yaml:"title" json:"title"`
	Author         []CSLName `yaml:"author,omitempty" json:"author,omitempty"`
	Issued         *CSLDate  `yaml:"issued,omitempty" json:"issued,omitempty"`
	ContainerTitle string    `yaml:"container-title,omitempty" json:"container-title,omitempty"`
	Publisher      string    `yaml:"publisher,omitempty" json:"publisher,omitempty"`
	Volume         string    `yaml:"volume,omitempty" json:"volume,omitempty"`
	Issue          string    `yaml:"issue,omitempty" json:"issue,omitempty"`
	Page           string    `yaml:"page,omitempty" json:"page,omitempty"`
	DOI            string    `yaml:"DOI,omitempty" json:"DOI,omitempty"`
	ISBN           string    `yaml:"ISBN,omitempty" json:"ISBN,omitempty"`
	URL            string    `yaml:"URL,omitempty" json:"URL,omitempty"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty" json:"family,omitempty"`
	Given   string `yaml:"given,omitempty" json:"given,omitempty"`
	Literal string `yaml:"literal,omitempty" json:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts" json:"date-parts"`
}

// FormatCSL writes works as a CSL-YAML list to w.
func FormatCSL(works []types.CandidateWork, w io.Writer) error {
	items := make([]CSLItem, len(works))
	for i, work := range works {
		items[i] = ToCSLItem(work)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

// ToCSLItem converts a CandidateWork to a CSLItem. Works with an ISBN or
// from Google Books are books; their venue is the publisher.
func ToCSLItem(work types.CandidateWork) CSLItem {
	item := CSLItem{
		ID:     cslID(work),
		Type:   "article-journal",
		Title:  work.Title,
		Volume: work.Volume,
		Issue:  work.Issue,
		Page:   work.Pages,
		DOI:    work.DOI,
		ISBN:   work.ISBN,
		URL:    work.URL,
	}
	if IsBook(work) {
		item.Type = "book"
		item.Publisher = work.Journal
	} else {
		item.ContainerTitle = work.Journal
	}
	for _, a := range work.Authors {
		item.Author = append(item.Author, ParseAuthorName(a))
	}
	if work.Year > 0 {
		item.Issued = &CSLDate{DateParts: [][]int{{work.Year}}}
	}
	return item
}

// IsBook reports whether the work is a book rather than an article.
func IsBook(work types.CandidateWork) bool {
	return work.ISBN != "" || work.Source == types.SourceGoogleBooks
}

func cslID(work types.CandidateWork) string {
	switch {
	case work.DOI != "":
		return work.DOI
	case work.ArxivID != "":
		return "arXiv:" + work.ArxivID
	case work.ISBN != "":
		return "isbn:" + work.ISBN
	default:
		return normalizeTitle(work.Title)
	}
}

// ParseAuthorName splits a full name string into CSL family/given parts.
// "Family, Given" is honored; otherwise it splits on the last space:
// everything before is given, the last token is family. Single-token names
// use the literal field.
func ParseAuthorName(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}
	if family, given, ok := strings.Cut(name, ","); ok {
		return CSLName{Family: strings.TrimSpace(family), Given: strings.TrimSpace(given)}
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{
		Given:  name[:idx],
		Family: name[idx+1:],
	}
}
