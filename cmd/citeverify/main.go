// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the citeverify CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/citeverify/internal/logging"
	"github.com/pdiddy/citeverify/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// loadedSecrets holds API keys loaded from .secrets/ at startup.
	loadedSecrets map[string]string

	// logger is built from --debug before any subcommand runs.
	logger = zap.NewNop()
)

// rootCmd is the base command for the citeverify CLI.
var rootCmd = &cobra.Command{
	Use:   "citeverify",
	Short: "Verify and fix bibliographic citations",
	Long: `citeverify checks whether a free-text citation refers to a real
published work. It parses the citation, rejects incomplete or implausible
input, searches DOI, CrossRef, OpenAlex, arXiv and Google Books in parallel,
and scores the best candidate into a status tier.

Use verify for single citations or reference files, fix to propose a
corrected citation, extract to pull citation spans from a PDF, and serve to
expose the same operations over HTTP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		debug, _ := cmd.Flags().GetBool("debug")
		l, err := logging.New(debug)
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		logger = l

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug("loaded secrets", zap.Strings("keys", keys))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", fmt.Sprintf("config file (default: ./%s.yaml or ~/%s/%s.yaml)",
		configName, filepath.ToSlash(userConfigDir), configName))
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
}

// envKeys are config keys that can be set through CITEVERIFY_* variables,
// e.g. CITEVERIFY_FIX_LLM_PROVIDER.
var envKeys = []string{
	"sources.contact_email",
	"sources.user_agent",
	"sources.google_books_api_key",
	"sources.semantic_scholar_api_key",
	"sources.semantic_scholar.enabled",
	"fix.llm.provider",
	"fix.llm.model",
	"fix.llm.api_key",
	"fix.llm.base_url",
	"server.addr",
	"history.path",
}

// configName is the base name viper searches for in "." and userConfigDir.
const configName = "citeverify"

// userConfigDir is relative to the home directory.
var userConfigDir = filepath.Join(".config", "citeverify")

func initConfig() {
	// A missing .env file is normal.
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(configName)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	home, err := os.UserHomeDir()
	if err == nil {
		if cfgFile == "" {
			viper.AddConfigPath(filepath.Join(home, userConfigDir))
		}
		viper.SetDefault("history.path", filepath.Join(home, userConfigDir, "history.db"))
	}

	viper.SetEnvPrefix("CITEVERIFY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	for _, key := range envKeys {
		_ = viper.BindEnv(key)
	}

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
