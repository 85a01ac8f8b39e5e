package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/caetanosauer/notion-exporter/internal/config"
	"github.com/caetanosauer/notion-exporter/internal/export"
	"github.com/caetanosauer/notion-exporter/internal/hierarchy"
	"github.com/caetanosauer/notion-exporter/internal/logger"
	"github.com/caetanosauer/notion-exporter/internal/notion"
	"github.com/caetanosauer/notion-exporter/internal/report"
	"github.com/spf13/cobra"
)

// maxErrorsShown caps the per-page error listing in the summary.
const maxErrorsShown = 10

var (
	exportOutput           string
	exportPageID           string
	exportDryRun           bool
	exportIncludeDatabases bool
	exportFrontMatter      bool
	exportMaxDepth         int
	exportMaxRows          int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export pages to Markdown files",
	Long: `Export Notion pages to a local Markdown tree.

Pages with children become folders holding an index.md, childless pages
become single .md files. Unsupported block types are collected into an
export report written next to the files.

Examples:
  notion-exporter export
  notion-exporter export --dry-run
  notion-exporter export --output ~/Documents/notes
  notion-exporter export --page-id 123e4567-e89b-12d3-a456-426614174000
  notion-exporter export --include-databases --frontmatter`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", config.DefaultOutputDir, "Output directory for exported files")
	exportCmd.Flags().StringVarP(&exportPageID, "page-id", "p", "", "Export a specific page instead of the whole workspace")
	exportCmd.Flags().BoolVarP(&exportDryRun, "dry-run", "d", false, "Show what would be exported without creating files")
	exportCmd.Flags().BoolVar(&exportIncludeDatabases, "include-databases", false, "Export databases as Markdown tables")
	exportCmd.Flags().BoolVar(&exportFrontMatter, "frontmatter", false, "Prepend YAML front matter to every exported file")
	exportCmd.Flags().IntVar(&exportMaxDepth, "max-depth", hierarchy.DefaultMaxDepth, "Maximum page hierarchy depth")
	exportCmd.Flags().IntVar(&exportMaxRows, "max-rows", config.DefaultMaxRows, "Maximum rows per exported database table")
}

// exportSettings merges command-line flags with the config file. A flag
// given explicitly always wins over the file.
func exportSettings(cmd *cobra.Command) config.Config {
	cfg := config.Config{
		OutputDir:        exportOutput,
		PageID:           exportPageID,
		DryRun:           exportDryRun,
		Verbose:          flagVerbose,
		IncludeDatabases: exportIncludeDatabases,
		MaxDepth:         exportMaxDepth,
		MaxRows:          exportMaxRows,
	}
	if fileConfig == nil {
		return cfg
	}

	flags := cmd.Flags()
	if fileConfig.OutputDir != "" && !flags.Changed("output") {
		cfg.OutputDir = fileConfig.OutputDir
	}
	if fileConfig.MaxDepth > 0 && !flags.Changed("max-depth") {
		cfg.MaxDepth = fileConfig.MaxDepth
	}
	if fileConfig.MaxRows > 0 && !flags.Changed("max-rows") {
		cfg.MaxRows = fileConfig.MaxRows
	}
	if fileConfig.IncludeDatabases && !flags.Changed("include-databases") {
		cfg.IncludeDatabases = true
	}
	return cfg
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	cfg := exportSettings(cmd)

	printBanner(out)

	if cfg.Verbose {
		fmt.Fprintln(out, "Initializing Notion client...")
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	if _, err := client.Me(ctx); err != nil {
		return fmt.Errorf("failed to initialize client: %w", err)
	}

	if cfg.Verbose {
		fmt.Fprintln(out, "✓ Client initialized")
		fmt.Fprintln(out, "✓ Authentication successful")
		fmt.Fprintln(out)
	}

	if cfg.DryRun {
		fmt.Fprintln(out, "DRY RUN MODE - No files will be created")
		fmt.Fprintln(out)
	}

	if cfg.PageID != "" {
		normalized, err := notion.NormalizePageID(cfg.PageID)
		if err != nil {
			return err
		}
		cfg.PageID = normalized
		fmt.Fprintf(out, "Exporting page: %s\n", cfg.PageID)
	} else {
		fmt.Fprintln(out, "Exporting all accessible pages")
	}

	if cfg.Verbose || cfg.DryRun {
		fmt.Fprintf(out, "Output directory: %s\n", cfg.OutputDir)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Building page hierarchy...")
	}

	builder := hierarchy.NewBuilder(client, hierarchy.Options{
		MaxDepth:         cfg.MaxDepth,
		IncludeDatabases: cfg.IncludeDatabases,
	})
	roots := builder.BuildForest(ctx, cfg.PageID)
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(roots) == 0 {
		fmt.Fprintln(out, "No pages found to export.")
		return nil
	}

	exporter := export.New(client, export.Options{
		OutputDir:        cfg.OutputDir,
		DryRun:           cfg.DryRun,
		IncludeDatabases: cfg.IncludeDatabases,
		MaxDatabaseRows:  cfg.MaxRows,
		Out:              out,
	})

	if cfg.DryRun {
		exporter.DryRunTree(roots)
		fmt.Fprintln(out, "\nRun without --dry-run to actually create these files.")
		return nil
	}

	if cfg.Verbose {
		fmt.Fprintf(out, "\nExporting to: %s\n", cfg.OutputDir)
		fmt.Fprintln(out, strings.Repeat("=", 60))
	}

	stats := exporter.ExportHierarchy(ctx, roots)
	if err := ctx.Err(); err != nil {
		return err
	}

	printStats(out, stats, cfg.Verbose)

	if cfg.Verbose {
		fmt.Fprintln(out, "Generating export report...")
	}
	reportPath, err := report.Save(cfg.OutputDir, stats.Unsupported)
	if err != nil {
		logger.Warn("Failed to write export report", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		fmt.Fprintf(out, "✓ Export report saved to: %s\n", reportPath)
	}

	if exportFrontMatter {
		if cfg.Verbose {
			fmt.Fprintln(out, "Adding front matter...")
		}
		if _, err := export.AddFrontMatter(ctx, client, roots, cfg.OutputDir, false); err != nil {
			logger.Warn("Failed to add front matter", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	if stats.PagesExported > 0 {
		fmt.Fprintf(out, "✓ Files saved to: %s/\n", cfg.OutputDir)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Done!")

	return nil
}

func printBanner(out io.Writer) {
	fmt.Fprintln(out, strings.Repeat("=", 60))
	fmt.Fprintln(out, "Notion to Markdown Exporter")
	fmt.Fprintln(out, strings.Repeat("=", 60))
	fmt.Fprintln(out)
}

func printStats(out io.Writer, stats *export.Stats, verbose bool) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Repeat("=", 60))
	fmt.Fprintln(out, "Export Complete!")
	fmt.Fprintln(out, strings.Repeat("=", 60))
	fmt.Fprintf(out, "Pages exported:    %d\n", stats.PagesExported)
	fmt.Fprintf(out, "Pages failed:      %d\n", stats.PagesFailed)
	fmt.Fprintf(out, "Files created:     %d\n", stats.FilesCreated)
	fmt.Fprintf(out, "Folders created:   %d\n", stats.FoldersCreated)
	fmt.Fprintln(out)

	if len(stats.Errors) > 0 && verbose {
		fmt.Fprintln(out, "Errors encountered:")
		for i, pageErr := range stats.Errors {
			if i == maxErrorsShown {
				fmt.Fprintf(out, "  ... and %d more\n", len(stats.Errors)-maxErrorsShown)
				break
			}
			fmt.Fprintf(out, "  - Page %s: %s\n", pageErr.PageID, pageErr.Message)
		}
		fmt.Fprintln(out)
	}
}
