package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/caetanosauer/notion-exporter/internal/config"
	"github.com/caetanosauer/notion-exporter/internal/export"
	"github.com/caetanosauer/notion-exporter/internal/hierarchy"
	"github.com/spf13/cobra"
)

var frontmatterDryRun bool

var frontmatterCmd = &cobra.Command{
	Use:   "frontmatter [dir]",
	Short: "Add YAML front matter to exported files",
	Long: `Add YAML front matter to the Markdown files of an earlier export.

The page hierarchy is rebuilt from Notion to match files back to their
pages. Files that already start with a front matter block are left
alone, and the export report is never touched.

Examples:
  notion-exporter frontmatter
  notion-exporter frontmatter ~/Documents/notes
  notion-exporter frontmatter --dry-run`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFrontmatter,
}

func init() {
	rootCmd.AddCommand(frontmatterCmd)

	frontmatterCmd.Flags().BoolVarP(&frontmatterDryRun, "dry-run", "d", false, "Show what would be done without modifying files")
}

func runFrontmatter(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	dir := config.DefaultOutputDir
	if fileConfig != nil && fileConfig.OutputDir != "" {
		dir = fileConfig.OutputDir
	}
	if len(args) > 0 {
		dir = args[0]
	}

	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("directory not found: %s", dir)
	}

	fmt.Fprintln(out, "Connecting to Notion API...")

	client, err := newClient()
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Building page hierarchy from Notion...")

	builder := hierarchy.NewBuilder(client, hierarchy.Options{})
	roots := builder.BuildForest(ctx, "")
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(roots) == 0 {
		fmt.Fprintln(out, "No pages found in Notion.")
		return nil
	}

	fmt.Fprintln(out, "Fetching page metadata...")
	fmt.Fprintf(out, "\nProcessing files in %s...\n", dir)

	stats, err := export.AddFrontMatter(ctx, client, roots, dir, frontmatterDryRun)
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Repeat("=", 50))
	fmt.Fprintln(out, "Summary:")
	fmt.Fprintf(out, "  Files found: %d\n", stats.FilesFound)
	fmt.Fprintf(out, "  Files updated: %d\n", stats.FilesUpdated)
	fmt.Fprintf(out, "  Files skipped (already have frontmatter): %d\n", stats.FilesSkipped)
	fmt.Fprintf(out, "  Files not matched to Notion pages: %d\n", stats.FilesNotMatched)

	return nil
}
