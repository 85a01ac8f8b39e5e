package cli

import (
	"fmt"
	"strings"

	"github.com/caetanosauer/notion-exporter/internal/hierarchy"
	"github.com/caetanosauer/notion-exporter/internal/notion"
	"github.com/spf13/cobra"
)

var (
	treePageID           string
	treeIncludeDatabases bool
	treeMaxDepth         int
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the page hierarchy without exporting",
	Long: `Discover the accessible pages and print them as a tree.

Nothing is written to disk. Use this to check what an export would
pick up and how the folder structure would nest.

Examples:
  notion-exporter tree
  notion-exporter tree --page-id 123e4567-e89b-12d3-a456-426614174000
  notion-exporter tree --include-databases`,
	Args: cobra.NoArgs,
	RunE: runTree,
}

func init() {
	rootCmd.AddCommand(treeCmd)

	treeCmd.Flags().StringVarP(&treePageID, "page-id", "p", "", "Start from a specific page instead of the whole workspace")
	treeCmd.Flags().BoolVar(&treeIncludeDatabases, "include-databases", false, "Include child databases in the tree")
	treeCmd.Flags().IntVar(&treeMaxDepth, "max-depth", hierarchy.DefaultMaxDepth, "Maximum page hierarchy depth")
}

func runTree(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	client, err := newClient()
	if err != nil {
		return err
	}

	pageID := treePageID
	if pageID != "" {
		pageID, err = notion.NormalizePageID(pageID)
		if err != nil {
			return err
		}
	}

	fmt.Fprintln(out, "Building page hierarchy...")
	fmt.Fprintln(out)

	maxDepth := treeMaxDepth
	if fileConfig != nil && fileConfig.MaxDepth > 0 && !cmd.Flags().Changed("max-depth") {
		maxDepth = fileConfig.MaxDepth
	}

	builder := hierarchy.NewBuilder(client, hierarchy.Options{
		MaxDepth:         maxDepth,
		IncludeDatabases: treeIncludeDatabases,
	})
	roots := builder.BuildForest(ctx, pageID)
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(roots) == 0 {
		fmt.Fprintln(out, "No pages found.")
		return nil
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Page Hierarchy:")
	fmt.Fprintln(out, strings.Repeat("=", 50))
	for _, root := range roots {
		fmt.Fprintln(out, root.TreeString())
	}

	total := 0
	for _, root := range roots {
		total += root.CountPages()
	}
	fmt.Fprintf(out, "\nTotal pages: %d\n", total)

	return nil
}
