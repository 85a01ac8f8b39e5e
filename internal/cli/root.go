// Package cli implements the notion-exporter command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/caetanosauer/notion-exporter/internal/config"
	"github.com/caetanosauer/notion-exporter/internal/logger"
	"github.com/caetanosauer/notion-exporter/internal/notion"
	"github.com/spf13/cobra"
)

var (
	flagVerbose bool
	flagToken   string

	// fileConfig holds ~/.config/notion-exporter/config.yaml, loaded once
	// before any command runs. Flags set on the command line win over it.
	fileConfig *config.File
)

var rootCmd = &cobra.Command{
	Use:   "notion-exporter",
	Short: "Export Notion pages to Markdown files",
	Long: `notion-exporter mirrors a Notion workspace as a local Markdown tree.

Pages with children become folders with an index.md, childless pages
become single .md files. The folder layout follows the page hierarchy
reported by the Notion API.

The API token is resolved from --token, the NOTION_TOKEN environment
variable, the system keyring (see "notion-exporter auth"), or
~/.ssh/secret.env, in that order.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceErrors = true

		fileCfg, loadErr := config.LoadFile()
		if loadErr != nil {
			fileCfg = &config.File{}
		}
		fileConfig = fileCfg

		if fileCfg.Verbose && !cmd.Flags().Changed("verbose") {
			flagVerbose = true
		}

		level := os.Getenv("LOG_LEVEL")
		if level == "" {
			level = "info"
		}
		if flagVerbose {
			level = "debug"
		}
		if err := logger.Init(level); err != nil {
			return err
		}

		if loadErr != nil {
			logger.Warn("Ignoring config file", map[string]interface{}{
				"error": loadErr.Error(),
			})
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "Notion API token (overrides environment and keyring)")
}

// ExecuteContext runs the root command with ctx. Errors are printed here
// so that configuration problems keep their multi-line help text.
func ExecuteContext(ctx context.Context) error {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		printCommandError(rootCmd.ErrOrStderr(), err)
		return err
	}
	return nil
}

func printCommandError(w io.Writer, err error) {
	switch {
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Export cancelled by user.")
	case errors.Is(err, config.ErrTokenNotFound), errors.Is(err, config.ErrTokenInvalid):
		fmt.Fprintf(w, "Configuration Error:\n%s\n", err)
	default:
		fmt.Fprintf(w, "Error: %s\n", err)
	}
}

// newClient resolves the API token and returns a ready client.
func newClient() (*notion.Client, error) {
	token, err := config.Token(flagToken)
	if err != nil {
		return nil, err
	}
	return notion.New(token), nil
}
