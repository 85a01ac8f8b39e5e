package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/caetanosauer/notion-exporter/internal/hierarchy"
	"github.com/caetanosauer/notion-exporter/internal/logger"
	"github.com/caetanosauer/notion-exporter/internal/markdown"
	"github.com/caetanosauer/notion-exporter/internal/models"
)

// Fetcher provides the remote page data the exporter writes to disk
type Fetcher interface {
	GetPage(ctx context.Context, pageID string) (*models.PageMeta, error)
	GetBlockChildren(ctx context.Context, blockID string) ([]models.Block, error)
	GetDatabaseTable(ctx context.Context, databaseID string, maxRows int) (*models.DatabaseTable, error)
}

// PageError records a per-page failure during export
type PageError struct {
	PageID  string
	Message string
}

// Stats collects counters and errors for a single export run
type Stats struct {
	PagesExported  int
	PagesFailed    int
	FilesCreated   int
	FoldersCreated int
	Errors         []PageError
	Unsupported    []models.UnsupportedFeature
}

// AddError records a failed page
func (s *Stats) AddError(pageID, message string) {
	s.Errors = append(s.Errors, PageError{PageID: pageID, Message: message})
	s.PagesFailed++
}

func (s *Stats) String() string {
	return fmt.Sprintf("exported=%d failed=%d files=%d folders=%d",
		s.PagesExported, s.PagesFailed, s.FilesCreated, s.FoldersCreated)
}

// Options configures an export run
type Options struct {
	OutputDir        string
	DryRun           bool
	IncludeDatabases bool
	MaxDatabaseRows  int
	Out              io.Writer
}

// Exporter writes a page hierarchy to a local directory tree
type Exporter struct {
	fetcher   Fetcher
	opts      Options
	converter *markdown.Converter
	stats     *Stats
	usedPaths map[string]struct{}
	out       io.Writer
}

// New creates an Exporter. Skipped databases are tracked for the report
// only when databases are not being exported themselves.
func New(fetcher Fetcher, opts Options) *Exporter {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	return &Exporter{
		fetcher:   fetcher,
		opts:      opts,
		converter: markdown.New(!opts.IncludeDatabases),
		stats:     &Stats{},
		usedPaths: make(map[string]struct{}),
		out:       out,
	}
}

// Stats returns the counters collected so far
func (e *Exporter) Stats() *Stats {
	return e.stats
}

// ExportHierarchy writes every tree in roots under the output directory
// and returns the collected statistics
func (e *Exporter) ExportHierarchy(ctx context.Context, roots []*hierarchy.PageNode) *Stats {
	if !e.createDirectory(e.opts.OutputDir) {
		return e.stats
	}

	for _, root := range roots {
		if ctx.Err() != nil {
			break
		}
		e.exportNode(ctx, root, e.opts.OutputDir)
	}

	e.stats.Unsupported = e.converter.Unsupported()

	return e.stats
}

// exportNode writes one node and recurses into its children. A node with
// children becomes a folder holding index.md, a leaf becomes a single file.
func (e *Exporter) exportNode(ctx context.Context, node *hierarchy.PageNode, parentDir string) bool {
	logger.Debug("Exporting page", map[string]interface{}{
		"title":   node.Title,
		"page_id": node.PageID,
	})

	var content string
	var ok bool
	if node.IsDatabase {
		content, ok = e.databaseContent(ctx, node.PageID)
	} else {
		content, ok = e.pageContent(ctx, node.PageID)
	}
	if !ok {
		return false
	}

	if len(node.Children) > 0 {
		folderPath := filepath.Join(parentDir, SanitizeFilename(node.Title))

		if !e.createDirectory(folderPath) {
			e.stats.AddError(node.PageID, "Failed to create directory")
			return false
		}

		if !e.writeFile(filepath.Join(folderPath, "index.md"), content) {
			e.stats.AddError(node.PageID, "Failed to write index.md")
			return false
		}

		e.stats.PagesExported++

		for _, child := range node.Children {
			if ctx.Err() != nil {
				break
			}
			e.exportNode(ctx, child, folderPath)
		}
	} else {
		path := MakeUniqueFilename(parentDir, node.Title, ".md")

		if !e.writeFile(path, content) {
			e.stats.AddError(node.PageID, "Failed to write file")
			return false
		}

		e.stats.PagesExported++
	}

	return true
}

// pageContent fetches a page's blocks and converts them to markdown
func (e *Exporter) pageContent(ctx context.Context, pageID string) (string, bool) {
	blocks, err := e.fetcher.GetBlockChildren(ctx, pageID)
	if err != nil {
		e.stats.AddError(pageID, err.Error())
		logger.Error("Failed to export page content", err, map[string]interface{}{
			"page_id": pageID,
		})
		return "", false
	}

	return e.converter.ConvertBlocks(blocks), true
}

// databaseContent fetches a database and renders it as a markdown document
func (e *Exporter) databaseContent(ctx context.Context, databaseID string) (string, bool) {
	table, err := e.fetcher.GetDatabaseTable(ctx, databaseID, e.opts.MaxDatabaseRows)
	if err != nil {
		e.stats.AddError(databaseID, err.Error())
		logger.Error("Failed to export database", err, map[string]interface{}{
			"database_id": databaseID,
		})
		return "", false
	}

	return DatabaseDocument(table), true
}

// createDirectory makes path (and parents) and counts it once
func (e *Exporter) createDirectory(path string) bool {
	if e.opts.DryRun {
		fmt.Fprintf(e.out, "[DRY RUN] Would create directory: %s\n", path)
		return true
	}

	if err := os.MkdirAll(path, 0o755); err != nil {
		logger.Error("Failed to create directory", err, map[string]interface{}{
			"path": path,
		})
		return false
	}

	if _, seen := e.usedPaths[path]; !seen {
		e.stats.FoldersCreated++
		e.usedPaths[path] = struct{}{}
	}

	return true
}

func (e *Exporter) writeFile(path, content string) bool {
	if e.opts.DryRun {
		fmt.Fprintf(e.out, "[DRY RUN] Would write file: %s\n", path)
		return true
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		logger.Error("Failed to write file", err, map[string]interface{}{
			"path": path,
		})
		return false
	}

	e.stats.FilesCreated++

	return true
}

// DryRunTree prints the folders and files an export would create without
// touching the filesystem or fetching page content
func (e *Exporter) DryRunTree(roots []*hierarchy.PageNode) {
	fmt.Fprintln(e.out)
	fmt.Fprintln(e.out, "[DRY RUN] Files and folders that would be created:")
	fmt.Fprintln(e.out, strings.Repeat("=", 60))

	for _, root := range roots {
		e.printNodeStructure(root, 0)
	}
}

func (e *Exporter) printNodeStructure(node *hierarchy.PageNode, indent int) {
	prefix := strings.Repeat("  ", indent)

	if len(node.Children) > 0 {
		fmt.Fprintf(e.out, "%s📁 %s/\n", prefix, SanitizeFilename(node.Title))
		fmt.Fprintf(e.out, "%s  📄 index.md\n", prefix)

		for _, child := range node.Children {
			e.printNodeStructure(child, indent+1)
		}
	} else {
		fmt.Fprintf(e.out, "%s📄 %s.md\n", prefix, SanitizeFilename(node.Title))
	}
}
