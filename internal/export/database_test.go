package export

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/caetanosauer/notion-exporter/internal/models"
)

func TestRenderDatabaseTable(t *testing.T) {
	tests := []struct {
		name     string
		table    *models.DatabaseTable
		expected string
	}{
		{
			name: "basic table",
			table: &models.DatabaseTable{
				Columns: []string{"Name", "Status"},
				Rows: [][]string{
					{"Write draft", "Done"},
					{"Review", "In progress"},
				},
			},
			expected: "| Name | Status |\n" +
				"|---|---|\n" +
				"| Write draft | Done |\n" +
				"| Review | In progress |",
		},
		{
			name:     "no columns",
			table:    &models.DatabaseTable{},
			expected: "_Empty database_",
		},
		{
			name: "no rows",
			table: &models.DatabaseTable{
				Columns: []string{"Name"},
			},
			expected: "| Name |\n|---|",
		},
		{
			name: "pipes escaped in values",
			table: &models.DatabaseTable{
				Columns: []string{"Name"},
				Rows:    [][]string{{"a|b"}},
			},
			expected: "| Name |\n|---|\n| a\\|b |",
		},
		{
			name: "truncated table carries a note",
			table: &models.DatabaseTable{
				Columns:   []string{"Name"},
				Rows:      [][]string{{"a"}, {"b"}},
				Truncated: true,
				MaxRows:   2,
			},
			expected: "| Name |\n|---|\n| a |\n| b |\n\n_Table truncated to 2 rows_",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RenderDatabaseTable(tt.table)
			if result != tt.expected {
				t.Errorf("RenderDatabaseTable() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestDatabaseDocument(t *testing.T) {
	table := &models.DatabaseTable{
		Title:   "Tasks",
		Columns: []string{"Name"},
		Rows:    [][]string{{"Alice"}},
	}

	expected := "# Tasks\n\n| Name |\n|---|\n| Alice |\n"
	if got := DatabaseDocument(table); got != expected {
		t.Errorf("DatabaseDocument() = %q, want %q", got, expected)
	}
}

func TestDatabaseDocumentUntitled(t *testing.T) {
	table := &models.DatabaseTable{Columns: []string{"X"}}

	if got := DatabaseDocument(table); !strings.HasPrefix(got, "# Untitled Database\n") {
		t.Errorf("DatabaseDocument() = %q, want Untitled Database heading", got)
	}
}

func TestWriteDatabaseFile(t *testing.T) {
	fetcher := &fakeFetcher{
		tables: map[string]*models.DatabaseTable{
			"db1": {
				ID:      "db1",
				Title:   "Tasks",
				Columns: []string{"Name"},
			},
		},
	}

	path := filepath.Join(t.TempDir(), "tasks.md")
	written, err := WriteDatabaseFile(context.Background(), fetcher, "db1", path, 0)
	if err != nil {
		t.Fatalf("WriteDatabaseFile() error = %v", err)
	}
	if written != path {
		t.Errorf("WriteDatabaseFile() path = %q, want %q", written, path)
	}

	content := readFile(t, path)
	if !strings.HasPrefix(content, "# Tasks\n") {
		t.Errorf("Written database document = %q, want Tasks heading", content)
	}
}

func TestWriteDatabaseFileDerivedPath(t *testing.T) {
	fetcher := &fakeFetcher{
		tables: map[string]*models.DatabaseTable{
			"db1": {
				ID:      "db1",
				Title:   "Team: Tasks",
				Columns: []string{"Name"},
			},
		},
	}

	dir := t.TempDir()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(cwd)

	written, err := WriteDatabaseFile(context.Background(), fetcher, "db1", "", 0)
	if err != nil {
		t.Fatalf("WriteDatabaseFile() error = %v", err)
	}
	if written != "Team_ Tasks.md" {
		t.Errorf("WriteDatabaseFile() derived path = %q, want %q", written, "Team_ Tasks.md")
	}
	if _, err := os.Stat(filepath.Join(dir, written)); err != nil {
		t.Errorf("expected derived file to exist: %v", err)
	}
}

func TestWriteDatabaseFileFetchError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.md")
	_, err := WriteDatabaseFile(context.Background(), &fakeFetcher{}, "missing", path, 0)
	if err == nil {
		t.Fatal("WriteDatabaseFile() expected error for unknown database")
	}
	if !strings.Contains(err.Error(), "failed to fetch database") {
		t.Errorf("WriteDatabaseFile() error = %v, want fetch failure", err)
	}
}
