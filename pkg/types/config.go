// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by every outbound source.
type HTTPConfig struct {
	// Timeout is the default per-request timeout when a source sets none.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the descriptive client identifier sent with requests
	// (e.g. "citeverify/0.1 (mailto:ops@example.org)").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// SourceConfig holds the settings for one bibliographic source.
type SourceConfig struct {
	// Enabled controls whether the source is queried at all.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// Timeout bounds a single request to the source.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// MaxResults caps the number of candidates requested.
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// RatePerSecond limits outbound requests to the source (0 = unlimited).
	RatePerSecond float64 `json:"rate_per_second" yaml:"rate_per_second" mapstructure:"rate_per_second"`
}

// SourcesConfig groups the source adapters' settings.
type SourcesConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// ContactEmail is sent as mailto to CrossRef and OpenAlex for polite pool access.
	ContactEmail string `json:"contact_email,omitempty" yaml:"contact_email,omitempty" mapstructure:"contact_email"`

	// MaxRetries is the number of HTTP 429 retries per request (default 0:
	// a failed source is excluded from the request, not retried).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	DOI             SourceConfig `json:"doi" yaml:"doi" mapstructure:"doi"`
	CrossRef        SourceConfig `json:"crossref" yaml:"crossref" mapstructure:"crossref"`
	OpenAlex        SourceConfig `json:"openalex" yaml:"openalex" mapstructure:"openalex"`
	Arxiv           SourceConfig `json:"arxiv" yaml:"arxiv" mapstructure:"arxiv"`
	GoogleBooks     SourceConfig `json:"google_books" yaml:"google_books" mapstructure:"google_books"`
	SemanticScholar SourceConfig `json:"semantic_scholar" yaml:"semantic_scholar" mapstructure:"semantic_scholar"`

	// GoogleBooksAPIKey is optional; anonymous quota applies without it.
	GoogleBooksAPIKey string `json:"google_books_api_key,omitempty" yaml:"google_books_api_key,omitempty" mapstructure:"google_books_api_key"`

	// SemanticScholarAPIKey is an optional API key for higher rate limits.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty" mapstructure:"semantic_scholar_api_key"`
}

// ScoringConfig holds the status tier cutoffs applied to the best score.
type ScoringConfig struct {
	VerifiedThreshold  int `json:"verified_threshold" yaml:"verified_threshold" mapstructure:"verified_threshold"`
	LikelyThreshold    int `json:"likely_threshold" yaml:"likely_threshold" mapstructure:"likely_threshold"`
	UncertainThreshold int `json:"uncertain_threshold" yaml:"uncertain_threshold" mapstructure:"uncertain_threshold"`

	// HistoricalBoost is added to pre-1950 matches in the uncertain and
	// likely bands, capped at HistoricalCap.
	HistoricalBoost int `json:"historical_boost" yaml:"historical_boost" mapstructure:"historical_boost"`
	HistoricalCap   int `json:"historical_cap" yaml:"historical_cap" mapstructure:"historical_cap"`
}

// CacheConfig bounds the in-memory verification cache.
type CacheConfig struct {
	TTL        time.Duration `json:"ttl" yaml:"ttl" mapstructure:"ttl"`
	MaxEntries int           `json:"max_entries" yaml:"max_entries" mapstructure:"max_entries"`
}

// LLMConfig holds settings for the language model used by the fixer.
type LLMConfig struct {
	// Provider is one of openai, groq, claude, gemini. Empty disables the LLM fallback.
	Provider    string  `json:"provider" yaml:"provider" mapstructure:"provider"`
	Model       string  `json:"model" yaml:"model" mapstructure:"model"`
	APIKey      string  `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL     string  `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`
	Temperature float32 `json:"temperature" yaml:"temperature" mapstructure:"temperature"`
	MaxTokens   int     `json:"max_tokens" yaml:"max_tokens" mapstructure:"max_tokens"`
}

// FixConfig holds settings for the citation fixer.
type FixConfig struct {
	// Threshold is the minimum database match score accepted as a fix
	// (default 45, relaxed from the verification cutoff).
	Threshold int `json:"threshold" yaml:"threshold" mapstructure:"threshold"`

	// Timeout bounds the LLM call.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	LLM LLMConfig `json:"llm" yaml:"llm" mapstructure:"llm"`
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// MaxUploadBytes caps PDF uploads (default 10 MiB).
	MaxUploadBytes int64 `json:"max_upload_bytes" yaml:"max_upload_bytes" mapstructure:"max_upload_bytes"`
}

// HistoryConfig holds settings for the verification history store.
type HistoryConfig struct {
	// Path is the SQLite database file. Empty disables history.
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// Config groups every component's configuration.
type Config struct {
	Sources SourcesConfig `json:"sources" yaml:"sources" mapstructure:"sources"`
	Scoring ScoringConfig `json:"scoring" yaml:"scoring" mapstructure:"scoring"`
	Cache   CacheConfig   `json:"cache" yaml:"cache" mapstructure:"cache"`
	Fix     FixConfig     `json:"fix" yaml:"fix" mapstructure:"fix"`
	Server  ServerConfig  `json:"server" yaml:"server" mapstructure:"server"`
	History HistoryConfig `json:"history" yaml:"history" mapstructure:"history"`
}

// DefaultUserAgent identifies the verifier to bibliographic APIs.
const DefaultUserAgent = "citeverify/0.1"

// DefaultConfig returns the configuration used when no file or flag
// overrides a value.
func DefaultConfig() Config {
	return Config{
		Sources: SourcesConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   8 * time.Second,
				UserAgent: DefaultUserAgent,
			},
			DOI:             SourceConfig{Enabled: true, Timeout: 5 * time.Second, MaxResults: 1},
			CrossRef:        SourceConfig{Enabled: true, Timeout: 8 * time.Second, MaxResults: 5, RatePerSecond: 10},
			OpenAlex:        SourceConfig{Enabled: true, Timeout: 5 * time.Second, MaxResults: 10, RatePerSecond: 10},
			Arxiv:           SourceConfig{Enabled: true, Timeout: 12 * time.Second, MaxResults: 5, RatePerSecond: 1},
			GoogleBooks:     SourceConfig{Enabled: true, Timeout: 5 * time.Second, MaxResults: 5},
			SemanticScholar: SourceConfig{Enabled: false, Timeout: 5 * time.Second, MaxResults: 5, RatePerSecond: 1},
		},
		Scoring: ScoringConfig{
			VerifiedThreshold:  70,
			LikelyThreshold:    50,
			UncertainThreshold: 30,
			HistoricalBoost:    40,
			HistoricalCap:      85,
		},
		Cache: CacheConfig{
			TTL:        24 * time.Hour,
			MaxEntries: 10000,
		},
		Fix: FixConfig{
			Threshold: 45,
			Timeout:   20 * time.Second,
			LLM: LLMConfig{
				Temperature: 0.1,
				MaxTokens:   200,
			},
		},
		Server: ServerConfig{
			Addr:           ":8080",
			MaxUploadBytes: 10 << 20,
		},
	}
}
