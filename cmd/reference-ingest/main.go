// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the reference-ingest CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/reference-ingest/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// appName names the config file, the XDG directories and the env prefix.
const appName = "reference-ingest"

// logger is built from --verbose before any command runs.
var logger = zap.NewNop()

// rootCmd is the base command for the reference-ingest CLI.
var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Parse RIS, Web of Science and BibTeX citation exports",
	Long: `reference-ingest reads bibliographic export files (RIS, Web of Science
field-tagged text, BibTeX) and turns every entry into a normalized citation
record with canonical field names and typed values.

Use parse to convert files to JSON Lines, YAML or CSL-YAML, detect to inspect
how a file would be read, and store, query and export to keep imported
citations in a local SQLite database.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		l, err := newLogger(verbose)
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./reference-ingest.yaml or $XDG_CONFIG_HOME/reference-ingest/reference-ingest.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log every diagnostic as it is found")
}

// newLogger returns a development logger when verbose is set. Otherwise only
// errors are logged; diagnostics are reported through --diagnostics.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	return cfg.Build()
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(appName)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath(filepath.Join(xdg.ConfigHome, appName))
	}

	viper.SetDefault("ingest.encodings", types.DefaultEncodings)
	viper.SetDefault("ingest.workers", 4)
	viper.SetDefault("ingest.wrap_threshold", types.DefaultWrapThreshold)
	viper.SetDefault("ingest.format", string(types.FormatAuto))
	viper.SetDefault("store.db_dir", filepath.Join(xdg.DataHome, appName))
	viper.SetDefault("store.max_results", 20)

	viper.SetEnvPrefix("REFERENCE_INGEST")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
