// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Status is the outcome tier of a verification.
type Status string

const (
	StatusVerified    Status = "verified"
	StatusLikely      Status = "likely"
	StatusUncertain   Status = "uncertain"
	StatusNotVerified Status = "not_verified"
	StatusIncomplete  Status = "incomplete"
	StatusFake        Status = "fake"
	StatusNotFound    Status = "not_found"
	StatusError       Status = "error"
)

// Statuses lists every status in reporting order.
var Statuses = []Status{
	StatusVerified, StatusLikely, StatusUncertain, StatusNotVerified,
	StatusIncomplete, StatusFake, StatusNotFound, StatusError,
}

// VerificationResult is the response for one citation. It is never mutated
// after construction, so cached copies can be returned as-is.
type VerificationResult struct {
	Verified bool   `json:"verified" yaml:"verified"`
	Score    int    `json:"score" yaml:"score"`
	Status   Status `json:"status" yaml:"status"`
	Message  string `json:"message" yaml:"message"`

	Details ResultDetails `json:"details" yaml:"details"`
}

// ResultDetails carries the metadata behind a verdict. Fields come from the
// best candidate when one matched, otherwise from the parsed input.
type ResultDetails struct {
	Format  CitationFormat `json:"format" yaml:"format"`
	Author  string         `json:"author,omitempty" yaml:"author,omitempty"`
	Year    int            `json:"year,omitempty" yaml:"year,omitempty"`
	Title   string         `json:"title,omitempty" yaml:"title,omitempty"`
	Journal string         `json:"journal,omitempty" yaml:"journal,omitempty"`
	DOI     string         `json:"doi,omitempty" yaml:"doi,omitempty"`
	Source  Source         `json:"source,omitempty" yaml:"source,omitempty"`

	// Reason explains an incomplete or fake verdict.
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`

	// Checks records, per source, whether it was queried, whether it
	// matched, and at what score.
	Checks []string `json:"checks" yaml:"checks"`
}

// Suggestions holds a corrected citation rendered in each output style.
type Suggestions struct {
	APA     string `json:"APA,omitempty" yaml:"APA,omitempty"`
	MLA     string `json:"MLA,omitempty" yaml:"MLA,omitempty"`
	Chicago string `json:"Chicago,omitempty" yaml:"Chicago,omitempty"`
	Harvard string `json:"Harvard,omitempty" yaml:"Harvard,omitempty"`
}

// FixMetadata describes the work a fix was reconciled against.
type FixMetadata struct {
	Title   string   `json:"title,omitempty" yaml:"title,omitempty"`
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`
	Year    int      `json:"year,omitempty" yaml:"year,omitempty"`
	Journal string   `json:"journal,omitempty" yaml:"journal,omitempty"`
	DOI     string   `json:"doi,omitempty" yaml:"doi,omitempty"`
	URL     string   `json:"url,omitempty" yaml:"url,omitempty"`
}

// FixResult is the outcome of a citation fix attempt.
type FixResult struct {
	Success bool `json:"success" yaml:"success"`

	// AlreadyCorrect is set when the proposed fix is textually
	// near-identical to the input.
	AlreadyCorrect bool `json:"is_already_correct,omitempty" yaml:"is_already_correct,omitempty"`

	Suggestions *Suggestions `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
	Metadata    *FixMetadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	// Source names where the fix came from ("OpenAlex", "LLM").
	Source     string `json:"source,omitempty" yaml:"source,omitempty"`
	Confidence int    `json:"confidence,omitempty" yaml:"confidence,omitempty"`

	Message string `json:"message,omitempty" yaml:"message,omitempty"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}
