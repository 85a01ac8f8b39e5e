package hierarchy

import (
	"context"
	"fmt"
	"testing"

	"github.com/caetanosauer/notion-exporter/internal/models"
)

// fakeFetcher serves pages and child blocks from maps. Pages absent from
// the map fail to fetch.
type fakeFetcher struct {
	pages       map[string]*models.PageMeta
	children    map[string][]models.Block
	childrenErr map[string]error
	rootIDs     []string
	listedRoots bool
}

func (f *fakeFetcher) GetPage(_ context.Context, pageID string) (*models.PageMeta, error) {
	meta, ok := f.pages[pageID]
	if !ok {
		return nil, fmt.Errorf("page not found: %s", pageID)
	}
	return meta, nil
}

func (f *fakeFetcher) GetBlockChildren(_ context.Context, blockID string) ([]models.Block, error) {
	if err, ok := f.childrenErr[blockID]; ok {
		return nil, err
	}
	return f.children[blockID], nil
}

func (f *fakeFetcher) ListRootPages(_ context.Context) ([]*models.PageMeta, error) {
	f.listedRoots = true
	var roots []*models.PageMeta
	for _, id := range f.rootIDs {
		if meta, ok := f.pages[id]; ok {
			roots = append(roots, meta)
		}
	}
	return roots, nil
}

func pageMeta(id, title string) *models.PageMeta {
	return &models.PageMeta{ID: id, Title: title, ObjectKind: models.ObjectPage}
}

func childPageBlock(id string) models.Block {
	return models.Block{ID: id, Type: models.BlockChildPage, ChildPage: &models.ChildPage{}}
}

func childDatabaseBlock(id string) models.Block {
	return models.Block{ID: id, Type: models.BlockChildDatabase, ChildDatabase: &models.ChildDatabase{}}
}

func TestBuildTree(t *testing.T) {
	fetcher := &fakeFetcher{
		pages: map[string]*models.PageMeta{
			"root": pageMeta("root", "Root"),
			"a":    pageMeta("a", "A"),
			"a1":   pageMeta("a1", "A1"),
			"b":    pageMeta("b", ""),
		},
		children: map[string][]models.Block{
			"root": {childPageBlock("a"), childPageBlock("b")},
			"a":    {childPageBlock("a1")},
		},
	}

	b := NewBuilder(fetcher, Options{})
	node := b.BuildTree(context.Background(), "root")

	if node == nil {
		t.Fatal("BuildTree() returned nil")
	}
	if node.Title != "Root" {
		t.Errorf("Root title = %q, want %q", node.Title, "Root")
	}
	if len(node.Children) != 2 {
		t.Fatalf("Expected 2 children, got %d", len(node.Children))
	}
	if node.Children[0].Title != "A" {
		t.Errorf("First child title = %q, want %q", node.Children[0].Title, "A")
	}
	if node.Children[0].ParentID != "root" {
		t.Errorf("First child parent = %q, want %q", node.Children[0].ParentID, "root")
	}
	if node.Children[1].Title != "Untitled" {
		t.Errorf("Empty title should fall back to Untitled, got %q", node.Children[1].Title)
	}
	if len(node.Children[0].Children) != 1 || node.Children[0].Children[0].Title != "A1" {
		t.Errorf("Grandchild missing or wrong: %+v", node.Children[0].Children)
	}
	if !node.HasContent {
		t.Error("Expected HasContent to be set")
	}
	if node.CountPages() != 4 {
		t.Errorf("CountPages() = %d, want 4", node.CountPages())
	}
}

func TestBuildTreeCycleDetection(t *testing.T) {
	fetcher := &fakeFetcher{
		pages: map[string]*models.PageMeta{
			"a": pageMeta("a", "A"),
			"b": pageMeta("b", "B"),
		},
		children: map[string][]models.Block{
			"a": {childPageBlock("b")},
			"b": {childPageBlock("a")},
		},
	}

	b := NewBuilder(fetcher, Options{})
	node := b.BuildTree(context.Background(), "a")

	if node == nil {
		t.Fatal("BuildTree() returned nil")
	}
	if node.CountPages() != 2 {
		t.Errorf("CountPages() = %d, want 2", node.CountPages())
	}
	if len(node.Children) != 1 {
		t.Fatalf("Expected 1 child, got %d", len(node.Children))
	}
	if len(node.Children[0].Children) != 0 {
		t.Errorf("Cyclic repeat should be excluded, got %+v", node.Children[0].Children)
	}
}

func chainFetcher(length int) *fakeFetcher {
	fetcher := &fakeFetcher{
		pages:    map[string]*models.PageMeta{},
		children: map[string][]models.Block{},
	}
	for i := 0; i < length; i++ {
		id := fmt.Sprintf("p%d", i)
		fetcher.pages[id] = pageMeta(id, id)
		if i+1 < length {
			fetcher.children[id] = []models.Block{childPageBlock(fmt.Sprintf("p%d", i+1))}
		}
	}
	return fetcher
}

func TestBuildTreeDepthBound(t *testing.T) {
	b := NewBuilder(chainFetcher(6), Options{MaxDepth: 3})
	node := b.BuildTree(context.Background(), "p0")

	if node == nil {
		t.Fatal("BuildTree() returned nil")
	}
	if node.CountPages() != 3 {
		t.Errorf("CountPages() = %d, want 3", node.CountPages())
	}
}

func TestBuildTreeDefaultDepthBound(t *testing.T) {
	b := NewBuilder(chainFetcher(12), Options{})
	node := b.BuildTree(context.Background(), "p0")

	if node == nil {
		t.Fatal("BuildTree() returned nil")
	}
	if node.CountPages() != DefaultMaxDepth {
		t.Errorf("CountPages() = %d, want %d", node.CountPages(), DefaultMaxDepth)
	}
}

func TestBuildTreeSkipsFailedBranch(t *testing.T) {
	fetcher := &fakeFetcher{
		pages: map[string]*models.PageMeta{
			"root": pageMeta("root", "Root"),
			"ok":   pageMeta("ok", "OK"),
		},
		children: map[string][]models.Block{
			"root": {childPageBlock("missing"), childPageBlock("ok")},
		},
	}

	b := NewBuilder(fetcher, Options{})
	node := b.BuildTree(context.Background(), "root")

	if node == nil {
		t.Fatal("BuildTree() returned nil")
	}
	if len(node.Children) != 1 {
		t.Fatalf("Expected 1 child, got %d", len(node.Children))
	}
	if node.Children[0].Title != "OK" {
		t.Errorf("Surviving child = %q, want %q", node.Children[0].Title, "OK")
	}
}

func TestBuildTreeChildrenFetchFailure(t *testing.T) {
	fetcher := &fakeFetcher{
		pages: map[string]*models.PageMeta{
			"root": pageMeta("root", "Root"),
		},
		childrenErr: map[string]error{
			"root": fmt.Errorf("boom"),
		},
	}

	b := NewBuilder(fetcher, Options{})
	node := b.BuildTree(context.Background(), "root")

	if node == nil {
		t.Fatal("Node should survive a children fetch failure")
	}
	if len(node.Children) != 0 {
		t.Errorf("Expected no children, got %d", len(node.Children))
	}
}

func TestBuildForestDiscoversRoots(t *testing.T) {
	fetcher := &fakeFetcher{
		pages: map[string]*models.PageMeta{
			"r1": pageMeta("r1", "First"),
			"r2": pageMeta("r2", "Second"),
		},
		rootIDs: []string{"r1", "r2"},
	}

	b := NewBuilder(fetcher, Options{})
	roots := b.BuildForest(context.Background(), "")

	if len(roots) != 2 {
		t.Fatalf("Expected 2 roots, got %d", len(roots))
	}
	if roots[0].Title != "First" || roots[1].Title != "Second" {
		t.Errorf("Unexpected root titles: %q, %q", roots[0].Title, roots[1].Title)
	}
}

func TestBuildForestSingleRoot(t *testing.T) {
	fetcher := &fakeFetcher{
		pages: map[string]*models.PageMeta{
			"r1": pageMeta("r1", "First"),
		},
		rootIDs: []string{"r1"},
	}

	b := NewBuilder(fetcher, Options{})
	roots := b.BuildForest(context.Background(), "r1")

	if len(roots) != 1 {
		t.Fatalf("Expected 1 root, got %d", len(roots))
	}
	if fetcher.listedRoots {
		t.Error("Root discovery should be skipped when a page ID is given")
	}
}

func TestBuildTreeIncludeDatabases(t *testing.T) {
	newFetcher := func() *fakeFetcher {
		return &fakeFetcher{
			pages: map[string]*models.PageMeta{
				"root": pageMeta("root", "Root"),
				"p1":   pageMeta("p1", "Page"),
				"d1":   {ID: "d1", Title: "Tasks", ObjectKind: models.ObjectDatabase},
			},
			children: map[string][]models.Block{
				"root": {childPageBlock("p1"), childDatabaseBlock("d1")},
			},
		}
	}

	b := NewBuilder(newFetcher(), Options{})
	node := b.BuildTree(context.Background(), "root")
	if len(node.Children) != 1 {
		t.Errorf("Databases excluded: expected 1 child, got %d", len(node.Children))
	}

	b = NewBuilder(newFetcher(), Options{IncludeDatabases: true})
	node = b.BuildTree(context.Background(), "root")
	if len(node.Children) != 2 {
		t.Fatalf("Databases included: expected 2 children, got %d", len(node.Children))
	}
	if !node.Children[1].IsDatabase {
		t.Error("Database child should be marked IsDatabase")
	}
}

func TestTreeString(t *testing.T) {
	root := &PageNode{
		Title: "Root",
		Children: []*PageNode{
			{
				Title:    "A",
				Children: []*PageNode{{Title: "A1"}},
			},
			{Title: "B", IsDatabase: true},
		},
	}

	expected := "Root\n" +
		"  ├─ A\n" +
		"    └─ A1\n" +
		"  └─ B [Database]\n"

	if got := root.TreeString(); got != expected {
		t.Errorf("TreeString() = %q, want %q", got, expected)
	}
}
