// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/citeverify/internal/fix"
	"github.com/pdiddy/citeverify/internal/history"
	"github.com/pdiddy/citeverify/internal/llm"
	"github.com/pdiddy/citeverify/internal/search"
	"github.com/pdiddy/citeverify/internal/secrets"
	"github.com/pdiddy/citeverify/internal/verify"
	"github.com/pdiddy/citeverify/pkg/types"
)

// loadConfig resolves the configuration: defaults, then the config file and
// environment through viper, then .secrets/ for values still empty.
func loadConfig() (types.Config, error) {
	cfg := types.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	secrets.Apply(&cfg, loadedSecrets)
	if cfg.Sources.ContactEmail != "" && cfg.Sources.UserAgent == types.DefaultUserAgent {
		cfg.Sources.UserAgent = fmt.Sprintf("%s (mailto:%s)", types.DefaultUserAgent, cfg.Sources.ContactEmail)
	}
	return cfg, nil
}

// components holds everything built from the configuration. Close releases
// the history database and any model client that holds a connection.
type components struct {
	cfg      types.Config
	sources  search.Set
	verifier *verify.Verifier
	fixer    *fix.Fixer
	history  *history.Store
	closers  []io.Closer
}

// buildOptions selects which optional components to construct.
type buildOptions struct {
	history bool
	fixer   bool
}

func build(ctx context.Context, opts buildOptions) (*components, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	c := &components{cfg: cfg, sources: search.FromConfig(cfg.Sources, nil)}

	verifyOpts := []verify.Option{
		verify.WithThresholds(cfg.Scoring),
		verify.WithCache(verify.NewCache(cfg.Cache)),
		verify.WithLogger(logger),
	}
	if opts.history && cfg.History.Path != "" {
		store, err := history.Open(cfg.History)
		if err != nil {
			return nil, err
		}
		c.history = store
		c.closers = append(c.closers, store)
		verifyOpts = append(verifyOpts, verify.WithRecorder(store))
	}
	c.verifier = verify.New(c.sources, verifyOpts...)

	if opts.fixer {
		client := newLLMClient(ctx, cfg.Fix.LLM)
		if closer, ok := client.(io.Closer); ok {
			c.closers = append(c.closers, closer)
		}
		c.fixer = fix.New(c.sources.Sources, client, cfg.Fix, fix.WithLogger(logger))
	}
	return c, nil
}

// newLLMClient returns nil when no provider is configured, which leaves the
// fixer with database matches only.
func newLLMClient(ctx context.Context, cfg types.LLMConfig) llm.Client {
	if cfg.Provider == "" {
		logger.Debug("no LLM provider configured")
		return nil
	}
	client, err := llm.NewClient(ctx, cfg)
	if err != nil {
		if errors.Is(err, llm.ErrNoAPIKey) {
			logger.Warn("LLM provider has no API key; model fallback disabled", zap.String("provider", cfg.Provider))
		} else {
			logger.Warn("LLM client unavailable", zap.Error(err))
		}
		return nil
	}
	return client
}

func (c *components) Close() {
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil {
			logger.Warn("closing component", zap.Error(err))
		}
	}
}
