// Package cmd implements the franq CLI command tree.
// This file defines the root command and registers all global persistent flags.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/derickschaefer/franq/internal/app"
	"github.com/derickschaefer/franq/internal/config"
)

// globalFlags holds the parsed values of all persistent (global) flags.
// Commands read from this struct via the deps they receive.
var globalFlags struct {
	ConfigFile  string
	Format      string
	Out         string
	Timeout     string
	Concurrency int
	LogFile     string
	DBPath      string
	Quiet       bool
	Verbose     bool
	Debug       bool
}

// rootCmd is the base command. Running `franq` with no subcommand prints help.
var rootCmd = &cobra.Command{
	Use:   "franq",
	Short: "franq — multi-franchisee LiveIQ report viewer",
	Long: `franq pulls operational reports (sales, labor, transactions) for a set of
stores across multiple LiveIQ franchisee accounts and prints the combined
results as structured or flattened text.

Credentials live in config.json, one entry per franchisee account. Stores
are auto-discovered per account at startup; stores visible under more than
one account are fetched once.

Quick start:
  franq config init                       # create config.json, add credentials
  franq stores                            # discover stores per account
  franq view sales-summary --range today  # fetch and print a report`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// buildDeps resolves config and constructs the dependency container.
// Called at the start of each command's RunE.
func buildDeps() (*app.Deps, error) {
	cfg, err := config.Load(globalFlags.ConfigFile)
	if err != nil {
		return nil, err
	}

	// Apply CLI flag overrides
	cfg.Quiet = globalFlags.Quiet
	cfg.Verbose = globalFlags.Verbose
	cfg.Debug = globalFlags.Debug

	if globalFlags.Format != "" {
		cfg.Format = globalFlags.Format
	}
	if globalFlags.Timeout != "" {
		if d, err2 := time.ParseDuration(globalFlags.Timeout); err2 == nil {
			cfg.Timeout = d
		}
	}
	if globalFlags.Concurrency > 0 {
		cfg.Concurrency = globalFlags.Concurrency
	}
	if globalFlags.LogFile != "" {
		cfg.LogFile = globalFlags.LogFile
	}
	if globalFlags.DBPath != "" {
		cfg.DBPath = globalFlags.DBPath
	}

	return app.New(cfg), nil
}

func init() {
	pf := rootCmd.PersistentFlags()

	pf.StringVar(&globalFlags.ConfigFile, "config", "",
		"path to config.json (default: ./config.json)")
	pf.StringVar(&globalFlags.Format, "format", "",
		"output format: text|json (default: text)")
	pf.StringVar(&globalFlags.Out, "out", "",
		"write output to file instead of stdout")
	pf.StringVar(&globalFlags.Timeout, "timeout", "",
		"HTTP request timeout (e.g. 10s, 1m)")
	pf.IntVar(&globalFlags.Concurrency, "concurrency", 0,
		"max parallel requests per batch (default: 10)")
	pf.StringVar(&globalFlags.LogFile, "log-file", "",
		"diagnostic log path (default: error.log)")
	pf.StringVar(&globalFlags.DBPath, "db-path", "",
		"local store path (default: ~/.franq/franq.db)")
	pf.BoolVar(&globalFlags.Quiet, "quiet", false,
		"suppress all non-error output")
	pf.BoolVar(&globalFlags.Verbose, "verbose", false,
		"show timing stats after output")
	pf.BoolVar(&globalFlags.Debug, "debug", false,
		"log HTTP requests and responses")
}
