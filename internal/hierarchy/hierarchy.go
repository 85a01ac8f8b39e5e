package hierarchy

import (
	"context"

	"github.com/caetanosauer/notion-exporter/internal/logger"
	"github.com/caetanosauer/notion-exporter/internal/models"
)

// DefaultMaxDepth bounds tree discovery recursion
const DefaultMaxDepth = 10

// Fetcher is the slice of the Notion client that hierarchy discovery needs
type Fetcher interface {
	GetPage(ctx context.Context, pageID string) (*models.PageMeta, error)
	GetBlockChildren(ctx context.Context, blockID string) ([]models.Block, error)
	ListRootPages(ctx context.Context) ([]*models.PageMeta, error)
}

// Options configures hierarchy discovery
type Options struct {
	// MaxDepth bounds recursion depth; zero means DefaultMaxDepth.
	MaxDepth int
	// IncludeDatabases descends into child database blocks so databases
	// become nodes of the tree.
	IncludeDatabases bool
}

// Builder discovers page trees through a Fetcher. Each BuildTree call owns
// its visited set, so independent discovery passes never share state.
type Builder struct {
	fetcher Fetcher
	opts    Options
}

// NewBuilder creates a new Builder instance
func NewBuilder(fetcher Fetcher, opts Options) *Builder {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	return &Builder{fetcher: fetcher, opts: opts}
}

// BuildForest builds a tree per discoverable root page, or a single tree
// when rootPageID is given. Roots that fail to build are dropped.
func (b *Builder) BuildForest(ctx context.Context, rootPageID string) []*PageNode {
	var roots []*PageNode

	if rootPageID != "" {
		if node := b.BuildTree(ctx, rootPageID); node != nil {
			roots = append(roots, node)
		}
		return roots
	}

	rootPages, err := b.fetcher.ListRootPages(ctx)
	if err != nil {
		logger.Error("Failed to discover root pages", err)
		return nil
	}

	logger.Info("Discovered root pages", map[string]interface{}{
		"count": len(rootPages),
	})

	for _, page := range rootPages {
		if node := b.BuildTree(ctx, page.ID); node != nil {
			roots = append(roots, node)
		}
	}
	return roots
}

// BuildTree builds the subtree rooted at pageID. A branch that cannot be
// fetched, revisits a page, or exceeds the depth bound is dropped without
// affecting its siblings; the root itself may come back nil.
func (b *Builder) BuildTree(ctx context.Context, pageID string) *PageNode {
	visited := make(map[string]bool)
	return b.buildNode(ctx, pageID, "", visited, 0)
}

func (b *Builder) buildNode(ctx context.Context, pageID, parentID string, visited map[string]bool, depth int) *PageNode {
	if visited[pageID] {
		logger.Warn("Circular reference detected", map[string]interface{}{
			"page_id": pageID,
		})
		return nil
	}

	if depth >= b.opts.MaxDepth {
		logger.Warn("Maximum depth reached", map[string]interface{}{
			"page_id":   pageID,
			"max_depth": b.opts.MaxDepth,
		})
		return nil
	}

	visited[pageID] = true

	meta, err := b.fetcher.GetPage(ctx, pageID)
	if err != nil {
		logger.Error("Failed to process page", err, map[string]interface{}{
			"page_id": pageID,
		})
		return nil
	}

	title := meta.Title
	if title == "" {
		title = "Untitled"
	}

	node := &PageNode{
		PageID:     pageID,
		Title:      title,
		ParentID:   parentID,
		IsDatabase: meta.ObjectKind == models.ObjectDatabase,
		HasContent: true,
	}

	for _, child := range b.childPageBlocks(ctx, pageID) {
		childNode := b.buildNode(ctx, child.ID, pageID, visited, depth+1)
		if childNode != nil {
			node.Children = append(node.Children, childNode)
		}
	}

	return node
}

// childPageBlocks lists the direct child page blocks of a page, plus child
// database blocks when databases are included. A fetch failure yields no
// children but leaves the page itself intact.
func (b *Builder) childPageBlocks(ctx context.Context, pageID string) []models.Block {
	blocks, err := b.fetcher.GetBlockChildren(ctx, pageID)
	if err != nil {
		logger.Warn("Could not fetch children of page", map[string]interface{}{
			"page_id": pageID,
			"error":   err.Error(),
		})
		return nil
	}

	var children []models.Block
	for _, block := range blocks {
		switch block.Type {
		case models.BlockChildPage:
			children = append(children, block)
		case models.BlockChildDatabase:
			if b.opts.IncludeDatabases {
				children = append(children, block)
			}
		}
	}
	return children
}
