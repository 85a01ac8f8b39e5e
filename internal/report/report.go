// Package report generates the unsupported features report written at the
// end of an export so users can review what did not survive the conversion.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/caetanosauer/notion-exporter/internal/models"
)

// Filename is the name of the report file inside the output directory
const Filename = "export_report.md"

// detailLimit caps how many block IDs are listed per feature type
const detailLimit = 5

// Generate builds the markdown report for the given features. An empty
// feature list produces a short success report instead.
func Generate(features []models.UnsupportedFeature) string {
	if len(features) == 0 {
		return successReport()
	}

	byType := make(map[string][]models.UnsupportedFeature)
	for _, feature := range features {
		key := feature.BlockType + "." + feature.Feature
		byType[key] = append(byType[key], feature)
	}

	keys := make([]string, 0, len(byType))
	for key := range byType {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	lines := []string{
		"# Unsupported Features Report",
		"",
		"This report lists Notion features that could not be fully exported to Markdown.",
		"",
		fmt.Sprintf("**Total unsupported features:** %d", len(features)),
		"",
		"---",
		"",
		"## Summary by Feature Type",
		"",
	}

	for _, key := range keys {
		lines = append(lines, fmt.Sprintf("- **%s**: %d occurrence(s)", key, len(byType[key])))
	}

	lines = append(lines, "", "---", "", "## Detailed Breakdown", "")

	for _, key := range keys {
		group := byType[key]
		lines = append(lines,
			fmt.Sprintf("### %s", key),
			"",
			fmt.Sprintf("**Occurrences:** %d", len(group)),
			"",
		)

		for i, feature := range group {
			if i == detailLimit {
				lines = append(lines, fmt.Sprintf("- ... and %d more", len(group)-detailLimit))
				break
			}
			lines = append(lines, fmt.Sprintf("- Block ID: `%s`", feature.BlockID))
		}

		lines = append(lines, "")
	}

	lines = append(lines, "---", "", "## Recommendations", "", recommendations)

	return strings.Join(lines, "\n")
}

// Save writes the report into dir and returns the path it was written to
func Save(dir string, features []models.UnsupportedFeature) (string, error) {
	path := filepath.Join(dir, Filename)

	if err := os.WriteFile(path, []byte(Generate(features)), 0o644); err != nil {
		return "", fmt.Errorf("failed to save report: %w", err)
	}

	return path, nil
}

func successReport() string {
	return strings.Join([]string{
		"# Export Report",
		"",
		"All pages were exported successfully!",
		"",
		"No unsupported features were encountered during the export process.",
	}, "\n")
}

const recommendations = `### How to Handle Unsupported Features

Notion has many rich features that don't have direct Markdown equivalents. Here's how to handle them:

#### Unsupported Block Types

- **Databases (advanced views)**: Databases are exported as simple Markdown tables. Board, calendar, gallery, and timeline views cannot be represented in Markdown. Consider exporting these separately from the Notion UI.

- **Embedded Content**: Videos, maps, and other embedded content appear as links. Download these manually if needed.

- **Synced Blocks**: Content from synced blocks is duplicated in each location. You may want to manually deduplicate this content.

- **Equations**: LaTeX equations are preserved with ` + "`$equation$` or `$$equation$$`" + ` syntax. Ensure your Markdown renderer supports LaTeX.

#### Rich Formatting

- **Colors and Highlights**: Text colors and background highlights are not supported in standard Markdown and are lost during export.

- **Page Icons and Covers**: These are not exported. Consider adding them manually if they're important.

- **Comments**: Comments and discussions are not included in the export. Review important comments in Notion before exporting.

#### Mentions

- **User Mentions**: Converted to ` + "`@username`" + ` format
- **Page Links**: Converted to plain text page names
- **Date Mentions**: Converted to plain text dates

#### What to Do

1. Review the blocks listed above in your original Notion pages
2. Manually export or copy content that's critical
3. For databases, consider using Notion's CSV export for data preservation
4. Test your Markdown files in your target renderer (e.g., static site generator)

### Need More Features?

If you need better support for specific block types, please open an issue on the project repository.
`
