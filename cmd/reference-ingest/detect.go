// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/reference-ingest/internal/ingest"
)

var detectCmd = &cobra.Command{
	Use:   "detect FILE...",
	Short: "Show the format, dialect and encoding chosen for each file",
	Long: `Detect opens each file the way parse would and reads its first record to
report the input format, line-format dialect and text encoding. Nothing is
written except the report.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDetect,
}

func runDetect(cmd *cobra.Command, args []string) error {
	cfg := ingestConfig(cmd)
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "%-30s  %-8s  %-10s  %s\n", "File", "Format", "Dialect", "Encoding")
	failed := 0
	for _, path := range args {
		base := filepath.Base(path)
		r, err := ingest.Open(path, cfg, logger)
		if err != nil {
			fmt.Fprintf(w, "%-30s  error: %v\n", base, err)
			failed++
			continue
		}
		if _, err := r.Next(); err != nil && !errors.Is(err, io.EOF) {
			fmt.Fprintf(w, "%-30s  error: %v\n", base, err)
			failed++
			continue
		}
		dialect := r.Dialect()
		if dialect == "" {
			dialect = "-"
		}
		fmt.Fprintf(w, "%-30s  %-8s  %-10s  %s\n", base, r.Format(), dialect, r.Encoding())
	}

	if failed > 0 {
		return fmt.Errorf("%d file(s) could not be read", failed)
	}
	return nil
}

func init() {
	addIngestFlags(detectCmd)
	rootCmd.AddCommand(detectCmd)
}
