package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/caetanosauer/notion-exporter/internal/notion"
	"github.com/itchyny/gojq"
	"github.com/spf13/cobra"
)

var (
	inspectBlocks bool
	inspectQuery  string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <page-id>",
	Short: "Print the raw API representation of a page",
	Long: `Print a page as the Notion API returns it, as pretty-printed JSON.

Useful for finding out why a block renders the way it does, or which
property names a database row carries. With --blocks the page's block
children are included. The output can be filtered with a jq expression.

Examples:
  notion-exporter inspect 123e4567-e89b-12d3-a456-426614174000
  notion-exporter inspect 123e4567-e89b-12d3-a456-426614174000 --blocks
  notion-exporter inspect 123e4567-e89b-12d3-a456-426614174000 --query '.properties | keys'
  notion-exporter inspect 123e4567-e89b-12d3-a456-426614174000 --blocks --query '.blocks[].type'`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().BoolVarP(&inspectBlocks, "blocks", "b", false, "Include the page's block children")
	inspectCmd.Flags().StringVarP(&inspectQuery, "query", "q", "", "Filter the output with a jq expression")
}

func runInspect(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	pageID, err := notion.NormalizePageID(args[0])
	if err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	page, err := client.PageJSON(ctx, pageID)
	if err != nil {
		return err
	}

	doc := page
	if inspectBlocks {
		blocks, err := client.BlockChildrenJSON(ctx, pageID)
		if err != nil {
			return err
		}
		doc = map[string]interface{}{
			"page":   page,
			"blocks": blocks,
		}
	}

	return printJSON(cmd.OutOrStdout(), doc, inspectQuery)
}

// printJSON writes data as indented JSON, optionally filtered through a
// jq expression first.
func printJSON(w io.Writer, data interface{}, query string) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if query == "" {
		return enc.Encode(data)
	}

	parsed, err := gojq.Parse(query)
	if err != nil {
		return fmt.Errorf("invalid --query: %w", err)
	}
	code, err := gojq.Compile(parsed)
	if err != nil {
		return fmt.Errorf("invalid --query: %w", err)
	}

	iter := code.Run(data)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			return fmt.Errorf("query error: %w", err)
		}
		if err := enc.Encode(v); err != nil {
			return err
		}
	}

	return nil
}
