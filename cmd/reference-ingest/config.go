// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/reference-ingest/pkg/types"
)

// addIngestFlags registers the flags that override the ingest section of
// the config file.
func addIngestFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "", "input format: auto, ris or bibtex (default from config, auto)")
	cmd.Flags().String("dialect", "", "force a line-format dialect: ris, ris-loose or wok")
	cmd.Flags().StringSlice("encodings", nil, "candidate text encodings, tried in order")
	cmd.Flags().Int("workers", 0, "files parsed concurrently")
	cmd.Flags().Int("wrap-threshold", 0, "previous-line length above which an untagged line continues it")
}

// ingestConfig reads the ingest section from viper and applies any flags
// set on cmd.
func ingestConfig(cmd *cobra.Command) types.IngestConfig {
	cfg := types.IngestConfig{
		Encodings:     viper.GetStringSlice("ingest.encodings"),
		Workers:       viper.GetInt("ingest.workers"),
		WrapThreshold: viper.GetInt("ingest.wrap_threshold"),
		Format:        types.InputFormat(viper.GetString("ingest.format")),
		Dialect:       viper.GetString("ingest.dialect"),
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		v, _ := flags.GetString("format")
		cfg.Format = types.InputFormat(v)
	}
	if flags.Changed("dialect") {
		cfg.Dialect, _ = flags.GetString("dialect")
	}
	if flags.Changed("encodings") {
		cfg.Encodings, _ = flags.GetStringSlice("encodings")
	}
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("wrap-threshold") {
		cfg.WrapThreshold, _ = flags.GetInt("wrap-threshold")
	}
	return cfg.WithDefaults()
}

// storeConfig reads the store section from viper and applies --db-dir and
// --max-results when set.
func storeConfig(cmd *cobra.Command) types.StoreConfig {
	cfg := types.StoreConfig{
		DBDir:      viper.GetString("store.db_dir"),
		MaxResults: viper.GetInt("store.max_results"),
	}
	flags := cmd.Flags()
	if flags.Changed("db-dir") {
		cfg.DBDir, _ = flags.GetString("db-dir")
	}
	if flags.Changed("max-results") {
		cfg.MaxResults, _ = flags.GetInt("max-results")
	}
	return cfg
}
