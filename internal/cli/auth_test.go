package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestMaskToken(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{"", "****"},
		{"short", "****"},
		{"secret_12345", "****"},
		{"secret_abcdefghijklmnop", "secr...mnop"},
		{"ntn_abcdefghijklmnopqrstuvwx", "ntn_...uvwx"},
	}

	for _, tt := range tests {
		if got := maskToken(tt.token); got != tt.want {
			t.Errorf("maskToken(%q) = %q, want %q", tt.token, got, tt.want)
		}
	}
}

func TestPromptSecretPiped(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader("  secret_from_pipe  \n"))

	var errOut bytes.Buffer
	cmd.SetErr(&errOut)

	got, err := promptSecret(cmd, "Enter token: ")
	if err != nil {
		t.Fatalf("promptSecret() error = %v", err)
	}
	if got != "secret_from_pipe" {
		t.Errorf("promptSecret() = %q, want trimmed pipe input", got)
	}
	if !strings.Contains(errOut.String(), "Enter token: ") {
		t.Errorf("prompt %q not written to stderr", "Enter token: ")
	}
}

func TestPromptSecretEmptyInput(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader(""))
	cmd.SetErr(&bytes.Buffer{})

	if _, err := promptSecret(cmd, "Enter token: "); err == nil {
		t.Error("promptSecret() expected error on closed input")
	}
}
