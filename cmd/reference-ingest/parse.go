// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/reference-ingest/internal/ingest"
	"github.com/pdiddy/reference-ingest/internal/output"
	"github.com/pdiddy/reference-ingest/pkg/types"
)

var parseCmd = &cobra.Command{
	Use:   "parse FILE...",
	Short: "Parse citation files and print normalized records",
	Long: `Parse reads each file, detects its format, encoding and dialect, and
writes every record to stdout as JSON Lines (default), YAML or CSL-YAML.

Files are parsed concurrently. A fatal format error stops only the file it
occurs in; records read before the error are still written. Per-file status
and a summary go to stderr, followed by diagnostics when --diagnostics is set.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	outFormat, _ := cmd.Flags().GetString("output")
	format, err := output.ParseFormat(outFormat)
	if err != nil {
		return err
	}
	showDiags, _ := cmd.Flags().GetBool("diagnostics")

	cfg := ingestConfig(cmd)
	results, err := ingest.ParseFiles(cmd.Context(), args, cfg, logger)
	if err != nil {
		return err
	}

	var records []types.Record
	for _, r := range results {
		records = append(records, r.Records...)
	}
	if err := output.Write(cmd.OutOrStdout(), format, records); err != nil {
		return fmt.Errorf("writing records: %w", err)
	}

	stderr := cmd.ErrOrStderr()
	summary := ingest.Report(stderr, results)
	if showDiags {
		for _, r := range results {
			if err := output.WriteDiagnostics(stderr, r.Diagnostics); err != nil {
				return err
			}
		}
	}

	if summary.HasFailures() {
		return fmt.Errorf("%d file(s) failed to parse", summary.Failed)
	}
	return nil
}

func init() {
	addIngestFlags(parseCmd)
	parseCmd.Flags().StringP("output", "o", "jsonl", "output format: jsonl, yaml or csl")
	parseCmd.Flags().Bool("diagnostics", false, "print recoverable problems to stderr")

	rootCmd.AddCommand(parseCmd)
}
