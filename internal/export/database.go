package export

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/caetanosauer/notion-exporter/internal/models"
)

// RenderDatabaseTable renders a fetched database as a markdown table.
// Pipes inside cell values are escaped so they don't break the table.
func RenderDatabaseTable(table *models.DatabaseTable) string {
	if len(table.Columns) == 0 {
		return "_Empty database_"
	}

	lines := []string{
		"| " + strings.Join(table.Columns, " | ") + " |",
		"|" + strings.Repeat("---|", len(table.Columns)),
	}

	for _, row := range table.Rows {
		escaped := make([]string, len(row))
		for i, value := range row {
			escaped[i] = strings.ReplaceAll(value, "|", `\|`)
		}
		lines = append(lines, "| "+strings.Join(escaped, " | ")+" |")
	}

	if table.Truncated {
		lines = append(lines, "", fmt.Sprintf("_Table truncated to %d rows_", table.MaxRows))
	}

	return strings.Join(lines, "\n")
}

// DatabaseDocument renders a database as a standalone markdown document
// with the database title as heading
func DatabaseDocument(table *models.DatabaseTable) string {
	title := table.Title
	if title == "" {
		title = "Untitled Database"
	}

	return fmt.Sprintf("# %s\n\n%s\n", title, RenderDatabaseTable(table))
}

// WriteDatabaseFile fetches a single database and writes it to path as a
// markdown document. An empty path derives the filename from the database
// title. The written path is returned.
func WriteDatabaseFile(ctx context.Context, fetcher Fetcher, databaseID, path string, maxRows int) (string, error) {
	table, err := fetcher.GetDatabaseTable(ctx, databaseID, maxRows)
	if err != nil {
		return "", fmt.Errorf("failed to fetch database: %w", err)
	}

	if path == "" {
		title := table.Title
		if title == "" {
			title = "Untitled Database"
		}
		path = SanitizeFilename(title) + ".md"
	}

	if err := os.WriteFile(path, []byte(DatabaseDocument(table)), 0o644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return path, nil
}
