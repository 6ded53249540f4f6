// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/citeverify/pkg/types"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(t *testing.T) string
		want   map[string]string
		errMsg string
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "groq-api-key", "  gsk_abc123  \n")
				writeFile(t, dir, "semantic-scholar-api-key", "sk_xyz789")
				writeFile(t, dir, "contact-email", "user@example.com\n")
				return dir
			},
			want: map[string]string{
				"groq-api-key":             "gsk_abc123",
				"semantic-scholar-api-key": "sk_xyz789",
				"contact-email":            "user@example.com",
			},
		},
		{
			name: "returns empty map for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: map[string]string{},
		},
		{
			name: "skips empty files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "anthropic-api-key", "valid-key")
				writeFile(t, dir, "empty-key", "")
				writeFile(t, dir, "whitespace-only", "   \n\t  ")
				return dir
			},
			want: map[string]string{
				"anthropic-api-key": "valid-key",
			},
		},
		{
			name: "skips dotfiles",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden-key", "secret")
				writeFile(t, dir, "openai-api-key", "sk_real")
				return dir
			},
			want: map[string]string{
				"openai-api-key": "sk_real",
			},
		},
		{
			name: "skips subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "anthropic-api-key", "ak_123")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: map[string]string{
				"anthropic-api-key": "ak_123",
			},
		},
		{
			name: "returns empty map for empty directory",
			setup: func(t *testing.T) string {
				return t.TempDir()
			},
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := tt.setup(t)
			got, err := Load(dir)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read files without permission bits")
	}
	dir := t.TempDir()
	writeFile(t, dir, "good-key", "value123")

	// Create a file then remove read permission.
	badPath := filepath.Join(dir, "bad-key")
	require.NoError(t, os.WriteFile(badPath, []byte("secret"), 0o000))
	t.Cleanup(func() { os.Chmod(badPath, 0o644) })

	got, err := Load(dir)
	require.NoError(t, err)
	// The good file should still be returned; the bad file is skipped with a warning.
	assert.Equal(t, "value123", got["good-key"])
	_, hasBad := got["bad-key"]
	assert.False(t, hasBad, "unreadable file should not appear in result")
}

func TestApply(t *testing.T) {
	tests := []struct {
		name     string
		cfg      func(*types.Config)
		secrets  map[string]string
		provider string
		apiKey   string
	}{
		{
			name:     "picks first provider with a key",
			secrets:  map[string]string{AnthropicAPIKey: "ak", GeminiAPIKey: "gk"},
			provider: "claude",
			apiKey:   "ak",
		},
		{
			name:     "groq preferred when several keys exist",
			secrets:  map[string]string{GroqAPIKey: "gsk", OpenAIAPIKey: "sk"},
			provider: "groq",
			apiKey:   "gsk",
		},
		{
			name:     "configured provider takes its own key",
			cfg:      func(c *types.Config) { c.Fix.LLM.Provider = "openai" },
			secrets:  map[string]string{GroqAPIKey: "gsk", OpenAIAPIKey: "sk"},
			provider: "openai",
			apiKey:   "sk",
		},
		{
			name: "configured key is not overwritten",
			cfg: func(c *types.Config) {
				c.Fix.LLM.Provider = "groq"
				c.Fix.LLM.APIKey = "from-config"
			},
			secrets:  map[string]string{GroqAPIKey: "gsk"},
			provider: "groq",
			apiKey:   "from-config",
		},
		{
			name:    "no keys leaves the model disabled",
			secrets: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := types.DefaultConfig()
			if tt.cfg != nil {
				tt.cfg(&cfg)
			}
			Apply(&cfg, tt.secrets)
			assert.Equal(t, tt.provider, cfg.Fix.LLM.Provider)
			assert.Equal(t, tt.apiKey, cfg.Fix.LLM.APIKey)
		})
	}
}

func TestApplySourceKeys(t *testing.T) {
	cfg := types.DefaultConfig()
	cfg.Sources.ContactEmail = "ops@example.org"
	Apply(&cfg, map[string]string{
		ContactEmail:          "user@example.com",
		SemanticScholarAPIKey: "s2",
		GoogleBooksAPIKey:     "gb",
	})
	assert.Equal(t, "ops@example.org", cfg.Sources.ContactEmail)
	assert.Equal(t, "s2", cfg.Sources.SemanticScholarAPIKey)
	assert.Equal(t, "gb", cfg.Sources.GoogleBooksAPIKey)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
