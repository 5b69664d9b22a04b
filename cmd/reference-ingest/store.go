// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/segmentio/encoding/json"
	"github.com/spf13/cobra"

	"github.com/pdiddy/reference-ingest/internal/ingest"
	"github.com/pdiddy/reference-ingest/internal/output"
	"github.com/pdiddy/reference-ingest/internal/store"
	"github.com/pdiddy/reference-ingest/pkg/types"
)

// --- store command ---

var storeCmd = &cobra.Command{
	Use:   "store FILE...",
	Short: "Parse citation files and save their records in the local database",
	Long: `Store parses each file like parse does and saves every file that parsed
without a fatal error as one import in the SQLite citation database, together
with its diagnostics. Files that fail are reported and left out.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runStore,
}

func runStore(cmd *cobra.Command, args []string) error {
	results, err := ingest.ParseFiles(cmd.Context(), args, ingestConfig(cmd), logger)
	if err != nil {
		return err
	}

	s, err := store.NewStore(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer s.Close()

	summary, err := s.Ingest(cmd.Context(), results, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d file(s) were not stored", summary.Failed)
	}
	return nil
}

// --- query command ---

var queryCmd = &cobra.Command{
	Use:   "query [title words]",
	Short: "Search stored citations by title, type, year, author or DOI",
	Long: `Query searches the citation database. Positional words match a substring
of the title, ignoring case and accents. Filters combine with AND.

Results print as a table by default, or as records with --output.`,
	RunE: runQuery,
}

func runQuery(cmd *cobra.Command, args []string) error {
	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide title words, --type, --year, --author, --doi or --import")
	}

	outFormat, _ := cmd.Flags().GetString("output")
	diagsOnly, _ := cmd.Flags().GetBool("diagnostics")

	s, err := store.NewStore(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer s.Close()

	if diagsOnly {
		if opts.ImportID == "" {
			return fmt.Errorf("--diagnostics requires --import")
		}
		diags, err := s.Diagnostics(cmd.Context(), opts.ImportID)
		if err != nil {
			return err
		}
		return output.WriteDiagnostics(cmd.OutOrStdout(), diags)
	}

	results, err := s.Retrieve(cmd.Context(), opts)
	if err != nil {
		return err
	}
	return formatQueryOutput(results, outFormat)
}

func formatQueryOutput(results []store.QueryResult, outFormat string) error {
	switch outFormat {
	case "table", "":
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	default:
		f, err := output.ParseFormat(outFormat)
		if err != nil {
			return err
		}
		records := make([]types.Record, len(results))
		for i, r := range results {
			records[i] = r.Record
		}
		return output.Write(os.Stdout, f, records)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-18s  %-4s  %-50s  %-20s  %s\n",
		"Rank", "Type", "Year", "Title", "First author", "Import")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 120))

	for i, r := range results {
		year := "-"
		if y, ok := r.Record.Int(types.FieldPubYear); ok {
			year = fmt.Sprint(y)
		}
		author := ""
		if names := r.Record.List(types.FieldAuthors); len(names) > 0 {
			author = names[0]
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-18s  %-4s  %-50s  %-20s  %s\n",
			i+1,
			truncate(r.Record.Text(types.FieldTypeOfReference), 18),
			year,
			truncate(r.Record.Text(types.FieldTitle), 50),
			truncate(author, 20),
			r.ImportID[:8])
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// --- export command ---

var exportCmd = &cobra.Command{
	Use:   "export [title words]",
	Short: "Export stored citations to YAML or JSON",
	Long: `Export writes every stored citation (or a filtered subset) to export.yaml
or export.json in the database directory. Accepts the same filters as query.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	s, err := store.NewStore(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer s.Close()

	opts := queryOptsFromFlags(cmd, args)

	var path string
	switch format {
	case "yaml", "":
		path, err = s.ExportYAML(cmd.Context(), opts)
	case "json":
		path, err = s.ExportJSON(cmd.Context(), opts)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Println("Exported to", path)
	return nil
}

// --- imports command ---

var importsCmd = &cobra.Command{
	Use:   "imports",
	Short: "List stored imports, or delete one with --delete",
	RunE:  runImports,
}

func runImports(cmd *cobra.Command, args []string) error {
	s, err := store.NewStore(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer s.Close()

	if id, _ := cmd.Flags().GetString("delete"); id != "" {
		if err := s.Delete(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Println("Deleted import", id)
		return nil
	}

	imports, err := s.Imports(cmd.Context())
	if err != nil {
		return err
	}
	if len(imports) == 0 {
		fmt.Println("No imports stored.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-20s  %-8s  %-8s  %-7s  %-5s  %s\n",
		"ID", "Imported", "Format", "Dialect", "Records", "Diags", "File")
	for _, imp := range imports {
		dialect := imp.Dialect
		if dialect == "" {
			dialect = "-"
		}
		fmt.Fprintf(os.Stdout, "%-36s  %-20s  %-8s  %-8s  %-7d  %-5d  %s\n",
			imp.ID, imp.ImportedAt.Format("2006-01-02 15:04:05"), imp.Format, dialect,
			imp.Records, imp.Diagnostics, imp.File)
	}
	return nil
}

// --- shared helpers ---

func queryOptsFromFlags(cmd *cobra.Command, args []string) store.QueryOptions {
	title, _ := cmd.Flags().GetString("title")
	if title == "" && len(args) > 0 {
		title = strings.Join(args, " ")
	}
	typ, _ := cmd.Flags().GetString("type")
	year, _ := cmd.Flags().GetInt("year")
	author, _ := cmd.Flags().GetString("author")
	doi, _ := cmd.Flags().GetString("doi")
	importID, _ := cmd.Flags().GetString("import")
	limit, _ := cmd.Flags().GetInt("limit")

	return store.QueryOptions{
		Title:      title,
		Type:       typ,
		Year:       year,
		Author:     author,
		DOI:        doi,
		ImportID:   importID,
		MaxResults: limit,
	}
}

func addStoreFlags(cmd *cobra.Command) {
	cmd.Flags().String("db-dir", "", "directory holding citations.db (default from config)")
	cmd.Flags().Int("max-results", 0, "default maximum number of query results")
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("title", "", "title substring, ignoring case and accents")
	cmd.Flags().String("type", "", "reference type label, e.g. journal")
	cmd.Flags().Int("year", 0, "publication year")
	cmd.Flags().String("author", "", "author name substring")
	cmd.Flags().String("doi", "", "exact DOI")
	cmd.Flags().String("import", "", "import ID")
	cmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
}

func init() {
	addIngestFlags(storeCmd)
	addStoreFlags(storeCmd)

	addStoreFlags(queryCmd)
	addFilterFlags(queryCmd)
	queryCmd.Flags().StringP("output", "o", "table", "output format: table, json, jsonl, yaml or csl")
	queryCmd.Flags().Bool("diagnostics", false, "print the stored diagnostics of --import instead of records")

	addStoreFlags(exportCmd)
	addFilterFlags(exportCmd)
	exportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	addStoreFlags(importsCmd)
	importsCmd.Flags().String("delete", "", "delete the import with this ID and its citations")

	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importsCmd)
}
