package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"Secret prefix", "secret_abcdefghijklmnop", true},
		{"New prefix", "ntn_abcdefghijklmnopqrs", true},
		{"Wrong prefix", "token_abcdefghijklmnop", false},
		{"Too short", "secret_abc", false},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Validate(tt.token); got != tt.want {
				t.Errorf("Validate(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestResolveToken(t *testing.T) {
	valid := "secret_abcdefghijklmnop"
	noKeyring := func() (string, error) { return "", errors.New("no keyring") }

	t.Run("Explicit wins over environment", func(t *testing.T) {
		t.Setenv("NOTION_TOKEN", "secret_fromenvironment")
		got, err := resolveToken(valid, noKeyring, "")
		if err != nil {
			t.Fatalf("resolveToken() error = %v", err)
		}
		if got != valid {
			t.Errorf("resolveToken() = %q, want %q", got, valid)
		}
	})

	t.Run("Environment variable", func(t *testing.T) {
		t.Setenv("NOTION_TOKEN", valid)
		got, err := resolveToken("", noKeyring, "")
		if err != nil {
			t.Fatalf("resolveToken() error = %v", err)
		}
		if got != valid {
			t.Errorf("resolveToken() = %q, want %q", got, valid)
		}
	})

	t.Run("Keyring", func(t *testing.T) {
		t.Setenv("NOTION_TOKEN", "")
		got, err := resolveToken("", func() (string, error) { return valid, nil }, "")
		if err != nil {
			t.Fatalf("resolveToken() error = %v", err)
		}
		if got != valid {
			t.Errorf("resolveToken() = %q, want %q", got, valid)
		}
	})

	t.Run("Secret file", func(t *testing.T) {
		t.Setenv("NOTION_TOKEN", "")
		path := filepath.Join(t.TempDir(), "secret.env")
		if err := os.WriteFile(path, []byte("NOTION_TOKEN="+valid+"\n"), 0o600); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		got, err := resolveToken("", noKeyring, path)
		if err != nil {
			t.Fatalf("resolveToken() error = %v", err)
		}
		if got != valid {
			t.Errorf("resolveToken() = %q, want %q", got, valid)
		}
	})

	t.Run("Not found", func(t *testing.T) {
		t.Setenv("NOTION_TOKEN", "")
		_, err := resolveToken("", noKeyring, "")
		if !errors.Is(err, ErrTokenNotFound) {
			t.Errorf("resolveToken() error = %v, want ErrTokenNotFound", err)
		}
	})

	t.Run("Invalid explicit token", func(t *testing.T) {
		_, err := resolveToken("bogus", noKeyring, "")
		if !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("resolveToken() error = %v, want ErrTokenInvalid", err)
		}
	})
}

func TestFileToken(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "secret.env")
	content := "# credentials\nNOTION_TOKEN=\"secret_abcdefghijklmnop\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if got := fileToken(path); got != "secret_abcdefghijklmnop" {
		t.Errorf("fileToken() = %q, want token without quotes", got)
	}
	if got := fileToken(filepath.Join(dir, "missing.env")); got != "" {
		t.Errorf("fileToken() = %q, want empty for missing file", got)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "output: vault\nmax_depth: 4\nmax_rows: 25\ninclude_databases: true\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	f, err := loadFile(path)
	if err != nil {
		t.Fatalf("loadFile() error = %v", err)
	}
	if f.OutputDir != "vault" || f.MaxDepth != 4 || f.MaxRows != 25 || !f.IncludeDatabases {
		t.Errorf("loadFile() = %+v", f)
	}
}

func TestLoadFileMissing(t *testing.T) {
	f, err := loadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("loadFile() error = %v", err)
	}
	if f.OutputDir != "" || f.MaxDepth != 0 {
		t.Errorf("loadFile() = %+v, want zero values", f)
	}
}

func TestLoadFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("{ not yaml"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := loadFile(path); err == nil {
		t.Fatal("loadFile() expected error for malformed YAML")
	}
}
