package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caetanosauer/notion-exporter/internal/config"
	"github.com/caetanosauer/notion-exporter/internal/notion"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the stored API token",
	Long: `Manage the Notion API token used by the exporter.

The token is stored in your system keyring (macOS Keychain, Windows
Credential Manager, or Secret Service on Linux). A stored token is
picked up automatically by every command, after the --token flag and
the NOTION_TOKEN environment variable.

Examples:
  notion-exporter auth login
  notion-exporter auth login --token secret_xxxxxxxx
  notion-exporter auth status
  notion-exporter auth logout`,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store an API token in the system keyring",
	Long: `Store a Notion API token in the system keyring.

The token is taken from the --token flag or the NOTION_TOKEN environment
variable. When neither is set, you are prompted for it without echo.

To obtain a token:
  1. Go to https://www.notion.com/my-integrations
  2. Create a new integration
  3. Copy the "Internal Integration Secret"
  4. Share your pages with the integration

Examples:
  notion-exporter auth login
  notion-exporter auth login --token secret_xxxxxxxx`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored API token",
	Long: `Remove the Notion API token from the system keyring.

Examples:
  notion-exporter auth logout`,
	Args: cobra.NoArgs,
	RunE: runLogout,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a token is stored",
	Long: `Show whether an API token is stored in the system keyring.

Can optionally verify the token against the Notion API.

Examples:
  notion-exporter auth status
  notion-exporter auth status --verify`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

var verifyAuth bool

func init() {
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(statusCmd)

	rootCmd.AddCommand(authCmd)

	statusCmd.Flags().BoolVar(&verifyAuth, "verify", false, "Verify the token with the Notion API")
}

func runLogin(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	token := flagToken
	if token == "" {
		token = os.Getenv("NOTION_TOKEN")
	}
	if token == "" {
		var promptErr error
		token, promptErr = promptSecret(cmd, "Enter Notion API token: ")
		if promptErr != nil {
			return fmt.Errorf("failed to read token: %w", promptErr)
		}
	}
	if token == "" {
		return fmt.Errorf("API token is required")
	}
	if !config.Validate(token) {
		return config.ErrTokenInvalid
	}

	fmt.Fprintln(out, "Verifying token...")

	user, err := notion.New(token).Me(cmd.Context())
	if err != nil {
		var authErr *notion.AuthenticationError
		if errors.As(err, &authErr) {
			return fmt.Errorf("authentication failed: invalid API token")
		}
		fmt.Fprintf(out, "Warning: Could not verify token: %v\n", err)
		fmt.Fprintln(out, "Proceeding with token storage...")
	} else {
		fmt.Fprintln(out, "Token verified successfully!")
	}

	if err := config.StoreToken(token); err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Logged in successfully!")
	if user != nil && user.Name != "" {
		fmt.Fprintf(out, "Integration: %s\n", user.Name)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "You can now run notion-exporter commands without specifying --token.")

	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	if err := config.DeleteToken(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Logged out successfully.")
	fmt.Fprintln(out, "The token has been removed from the system keyring.")

	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if !config.HasStoredToken() {
		fmt.Fprintln(out, "Status: Not authenticated")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Run 'notion-exporter auth login' to store a token.")
		return nil
	}

	fmt.Fprintln(out, "Status: Authenticated")

	token, err := config.StoredToken()
	if err == nil && token != "" {
		fmt.Fprintf(out, "Token: %s\n", maskToken(token))
	}

	if !verifyAuth {
		return nil
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Verifying token with the Notion API...")

	user, err := notion.New(token).Me(cmd.Context())
	if err != nil {
		var authErr *notion.AuthenticationError
		if errors.As(err, &authErr) {
			fmt.Fprintln(out, "Verification: FAILED - Invalid or expired token")
			return nil
		}
		fmt.Fprintf(out, "Verification: FAILED - %v\n", err)
		return nil
	}

	fmt.Fprintln(out, "Verification: OK - Token is valid")
	if user.Name != "" {
		fmt.Fprintf(out, "Integration: %s\n", user.Name)
	}

	return nil
}

// promptSecret reads a secret from the terminal without echo. Piped input
// falls back to a plain line read.
func promptSecret(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)

	in := cmd.InOrStdin()
	if file, ok := in.(*os.File); ok {
		if term.IsTerminal(int(file.Fd())) {
			password, err := term.ReadPassword(int(file.Fd()))
			fmt.Fprintln(cmd.ErrOrStderr())
			if err != nil {
				return "", err
			}
			return strings.TrimSpace(string(password)), nil
		}
	}

	reader := bufio.NewReader(in)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// maskToken shows only the first and last four characters of a token
func maskToken(token string) string {
	if len(token) <= 12 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
