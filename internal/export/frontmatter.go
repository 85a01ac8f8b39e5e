package export

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caetanosauer/notion-exporter/internal/hierarchy"
	"github.com/caetanosauer/notion-exporter/internal/logger"
	"github.com/caetanosauer/notion-exporter/internal/models"
	"github.com/caetanosauer/notion-exporter/internal/report"
)

// FrontMatterStats counts the outcome of a front matter pass
type FrontMatterStats struct {
	FilesFound      int
	FilesUpdated    int
	FilesSkipped    int
	FilesNotMatched int
}

// HasFrontMatter reports whether content already starts with a YAML
// front matter block
func HasFrontMatter(content string) bool {
	return strings.HasPrefix(content, "---\n")
}

// GenerateFrontMatter builds the YAML front matter block for a page.
// The block ends with a blank line so it can be prepended directly.
func GenerateFrontMatter(meta *models.PageMeta, exportDate time.Time) string {
	safeTitle := strings.ReplaceAll(meta.Title, `"`, `\"`)

	return fmt.Sprintf(`---
title: "%s"
source: "Exported from Notion, %s"
export_date: %s
notion_id: %s
created: %s
last_edited: %s
---

`,
		safeTitle,
		exportDate.Format("January 2006"),
		exportDate.Format("2006-01-02"),
		meta.ID,
		formatTimestamp(meta.CreatedTime),
		formatTimestamp(meta.LastEditedTime))
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.UTC().Format(time.RFC3339)
}

// AddFrontMatter prepends YAML front matter to every exported markdown file
// under dir that can be matched back to a page in roots. Files that already
// carry front matter are left alone.
func AddFrontMatter(ctx context.Context, fetcher Fetcher, roots []*hierarchy.PageNode, dir string, dryRun bool) (*FrontMatterStats, error) {
	dir = filepath.Clean(dir)

	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("directory not found: %s", dir)
	}

	mapping := make(map[string]*models.PageMeta)
	for _, root := range roots {
		buildPathMetadata(ctx, fetcher, root, dir, mapping)
	}

	logger.Info("Fetched page metadata", map[string]interface{}{
		"pages_count": len(mapping),
	})

	stats := &FrontMatterStats{}
	exportDate := time.Now()

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".md" {
			return nil
		}
		if filepath.Base(path) == report.Filename {
			return nil
		}

		stats.FilesFound++

		meta, ok := mapping[path]
		if !ok {
			logger.Debug("File not matched to a page", map[string]interface{}{
				"path": path,
			})
			stats.FilesNotMatched++
			return nil
		}

		if addFrontMatterToFile(path, meta, exportDate, dryRun) {
			stats.FilesUpdated++
		} else {
			stats.FilesSkipped++
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	return stats, nil
}

// buildPathMetadata mirrors the exporter's layout rules to map the file each
// node was written to back to its page metadata. Pages whose metadata cannot
// be fetched are dropped along with their subtree.
func buildPathMetadata(ctx context.Context, fetcher Fetcher, node *hierarchy.PageNode, baseDir string, mapping map[string]*models.PageMeta) {
	meta, err := fetcher.GetPage(ctx, node.PageID)
	if err != nil {
		logger.Warn("Could not fetch metadata for page", map[string]interface{}{
			"page_id": node.PageID,
			"error":   err.Error(),
		})
		return
	}

	if len(node.Children) > 0 {
		folderPath := filepath.Join(baseDir, SanitizeFilename(node.Title))
		mapping[filepath.Join(folderPath, "index.md")] = meta

		for _, child := range node.Children {
			buildPathMetadata(ctx, fetcher, child, folderPath, mapping)
		}
	} else {
		mapping[filepath.Join(baseDir, SanitizeFilename(node.Title)+".md")] = meta
	}
}

func addFrontMatterToFile(path string, meta *models.PageMeta, exportDate time.Time, dryRun bool) bool {
	content, err := os.ReadFile(path)
	if err != nil {
		logger.Error("Failed to read file", err, map[string]interface{}{
			"path": path,
		})
		return false
	}

	if HasFrontMatter(string(content)) {
		logger.Debug("File already has front matter", map[string]interface{}{
			"path": path,
		})
		return false
	}

	if dryRun {
		logger.Info("Would add front matter", map[string]interface{}{
			"path": path,
		})
		return true
	}

	updated := GenerateFrontMatter(meta, exportDate) + string(content)
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		logger.Error("Failed to write file", err, map[string]interface{}{
			"path": path,
		})
		return false
	}

	logger.Info("Added front matter", map[string]interface{}{
		"path": path,
	})

	return true
}
