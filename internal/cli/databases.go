package cli

import (
	"fmt"

	"github.com/caetanosauer/notion-exporter/internal/config"
	"github.com/caetanosauer/notion-exporter/internal/export"
	"github.com/caetanosauer/notion-exporter/internal/notion"
	"github.com/spf13/cobra"
)

var (
	databasesExportOutput  string
	databasesExportMaxRows int
)

var databasesCmd = &cobra.Command{
	Use:   "databases",
	Short: "List and export Notion databases",
	Long: `List the databases shared with the integration and export single
databases as Markdown tables.

Examples:
  notion-exporter databases list
  notion-exporter databases list Tasks
  notion-exporter databases export 123e4567-e89b-12d3-a456-426614174000`,
}

var databasesListCmd = &cobra.Command{
	Use:   "list [query]",
	Short: "List accessible databases",
	Long: `List the databases the integration can see, optionally filtered
by a search query.

Examples:
  notion-exporter databases list
  notion-exporter databases list Tasks`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDatabasesList,
}

var databasesExportCmd = &cobra.Command{
	Use:   "export <database-id>",
	Short: "Export one database as a Markdown table",
	Long: `Export a single database to a Markdown file.

The file is named after the database title unless --output names a path.

Examples:
  notion-exporter databases export 123e4567-e89b-12d3-a456-426614174000
  notion-exporter databases export 123e4567-e89b-12d3-a456-426614174000 --output tasks.md
  notion-exporter databases export 123e4567-e89b-12d3-a456-426614174000 --max-rows 500`,
	Args: cobra.ExactArgs(1),
	RunE: runDatabasesExport,
}

func init() {
	databasesCmd.AddCommand(databasesListCmd)
	databasesCmd.AddCommand(databasesExportCmd)

	rootCmd.AddCommand(databasesCmd)

	databasesExportCmd.Flags().StringVarP(&databasesExportOutput, "output", "o", "", "Output file (defaults to the database title)")
	databasesExportCmd.Flags().IntVar(&databasesExportMaxRows, "max-rows", config.DefaultMaxRows, "Maximum rows to export")
}

func runDatabasesList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	client, err := newClient()
	if err != nil {
		return err
	}

	query := ""
	if len(args) > 0 {
		query = args[0]
	}

	fmt.Fprintln(out, "Searching for databases...")

	databases, err := client.SearchDatabases(ctx, query)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Found %d database(s)\n", len(databases))

	if len(databases) == 0 {
		return nil
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Databases:")
	for i, db := range databases {
		fmt.Fprintf(out, "  %d. %s (ID: %s)\n", i+1, db.Title, db.ID)
	}

	return nil
}

func runDatabasesExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	databaseID, err := notion.NormalizePageID(args[0])
	if err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	maxRows := databasesExportMaxRows
	if fileConfig != nil && fileConfig.MaxRows > 0 && !cmd.Flags().Changed("max-rows") {
		maxRows = fileConfig.MaxRows
	}

	path, err := export.WriteDatabaseFile(ctx, client, databaseID, databasesExportOutput, maxRows)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "✓ Database exported to: %s\n", path)

	return nil
}
