// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Supported key files: groq-api-key, openai-api-key, anthropic-api-key,
// gemini-api-key, semantic-scholar-api-key, google-books-api-key, contact-email.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/citeverify/pkg/types"
)

// Key file names recognized by Apply.
const (
	GroqAPIKey            = "groq-api-key"
	OpenAIAPIKey          = "openai-api-key"
	AnthropicAPIKey       = "anthropic-api-key"
	GeminiAPIKey          = "gemini-api-key"
	SemanticScholarAPIKey = "semantic-scholar-api-key"
	GoogleBooksAPIKey     = "google-books-api-key"
	ContactEmail          = "contact-email"
)

// providerKeys maps each LLM provider to its key file, in the order tried
// when no provider is configured.
var providerKeys = []struct {
	provider string
	key      string
}{
	{"groq", GroqAPIKey},
	{"openai", OpenAIAPIKey},
	{"claude", AnthropicAPIKey},
	{"gemini", GeminiAPIKey},
}

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Apply copies secrets into cfg wherever the config leaves a value empty.
// Values already set by the config file or environment win.
//
// When no LLM provider is configured, the first provider with a key file
// is selected, so dropping a single key into the directory enables the
// fixer's model fallback.
func Apply(cfg *types.Config, secrets map[string]string) {
	setIfEmpty(&cfg.Sources.ContactEmail, secrets[ContactEmail])
	setIfEmpty(&cfg.Sources.SemanticScholarAPIKey, secrets[SemanticScholarAPIKey])
	setIfEmpty(&cfg.Sources.GoogleBooksAPIKey, secrets[GoogleBooksAPIKey])

	llm := &cfg.Fix.LLM
	if llm.Provider == "" {
		for _, pk := range providerKeys {
			if secrets[pk.key] != "" {
				llm.Provider = pk.provider
				break
			}
		}
	}
	for _, pk := range providerKeys {
		if strings.EqualFold(llm.Provider, pk.provider) {
			setIfEmpty(&llm.APIKey, secrets[pk.key])
		}
	}
}

func setIfEmpty(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}
