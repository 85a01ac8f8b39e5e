package notion

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jomei/notionapi"
	"golang.org/x/time/rate"

	"github.com/caetanosauer/notion-exporter/internal/logger"
	"github.com/caetanosauer/notion-exporter/internal/models"
)

// pageSize is the maximum page size the API accepts
const pageSize = 100

// requestsPerSecond matches the documented API rate limit
const requestsPerSecond = 3

// Client wraps the Notion API client with pagination, rate limiting and
// conversion into the exporter's own types
type Client struct {
	api     NotionClient
	limiter *rate.Limiter
}

// New creates a new Notion client authenticated with the given token
func New(token string) *Client {
	return &Client{
		api:     newNotionClientAdapter(notionapi.NewClient(notionapi.Token(token))),
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

// Me verifies the token by fetching the integration's bot user
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	user, err := c.api.User().Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to verify token: %w", typedError(err, ""))
	}

	return &models.User{
		Name: user.Name,
		Type: string(user.Type),
	}, nil
}

// GetPage fetches metadata for a page. IDs that belong to databases are not
// retrievable through the page endpoint, so those are retried as databases
// before giving up.
func (c *Client) GetPage(ctx context.Context, pageID string) (*models.PageMeta, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	page, err := c.api.Page().Get(ctx, notionapi.PageID(pageID))
	if err == nil {
		return pageMeta(page), nil
	}

	typed := typedError(err, pageID)
	switch typed.(type) {
	case *AuthenticationError, *RateLimitError:
		return nil, fmt.Errorf("failed to get page %s: %w", pageID, typed)
	}

	if db, dbErr := c.getDatabase(ctx, pageID); dbErr == nil {
		return databaseMeta(db), nil
	}

	return nil, fmt.Errorf("failed to get page %s: %w", pageID, typed)
}

// GetBlockChildren fetches every child of a block, following pagination.
// Table rows live one level down in the API, so they are fetched eagerly and
// spliced in after their table block to keep table handling in one place.
func (c *Client) GetBlockChildren(ctx context.Context, blockID string) ([]models.Block, error) {
	raw, err := c.fetchChildren(ctx, blockID)
	if err != nil {
		return nil, fmt.Errorf("failed to get blocks for %s: %w", blockID, typedError(err, blockID))
	}

	blocks := make([]models.Block, 0, len(raw))
	for _, rb := range raw {
		block := mapBlock(rb)
		blocks = append(blocks, block)

		if block.Type != models.BlockTable {
			continue
		}
		rows, err := c.fetchChildren(ctx, block.ID)
		if err != nil {
			logger.Warn("Failed to fetch table rows", map[string]interface{}{
				"block_id": block.ID,
				"error":    err.Error(),
			})
			continue
		}
		for _, row := range rows {
			mapped := mapBlock(row)
			if mapped.Type == models.BlockTableRow {
				blocks = append(blocks, mapped)
			}
		}
	}

	return blocks, nil
}

// SearchPages returns every page matching query that is shared with the
// integration. An empty query lists all accessible pages.
func (c *Client) SearchPages(ctx context.Context, query string) ([]*models.PageMeta, error) {
	var pages []*models.PageMeta
	cursor := notionapi.Cursor("")

	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		resp, err := c.api.Search().Do(ctx, &notionapi.SearchRequest{
			Query:       query,
			Filter:      notionapi.SearchFilter{Property: "object", Value: "page"},
			StartCursor: cursor,
			PageSize:    pageSize,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to search pages: %w", typedError(err, ""))
		}

		for _, obj := range resp.Results {
			if page, ok := obj.(*notionapi.Page); ok {
				pages = append(pages, pageMeta(page))
			}
		}

		if !resp.HasMore {
			return pages, nil
		}
		cursor = resp.NextCursor
	}
}

// ListRootPages finds workspace level pages, the roots of the export tree
func (c *Client) ListRootPages(ctx context.Context) ([]*models.PageMeta, error) {
	pages, err := c.SearchPages(ctx, "")
	if err != nil {
		return nil, err
	}

	var roots []*models.PageMeta
	for _, page := range pages {
		if page.ParentType == "workspace" {
			roots = append(roots, page)
		}
	}
	return roots, nil
}

// SearchDatabases returns every database matching query that is shared with
// the integration
func (c *Client) SearchDatabases(ctx context.Context, query string) ([]*models.PageMeta, error) {
	var databases []*models.PageMeta
	cursor := notionapi.Cursor("")

	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		resp, err := c.api.Search().Do(ctx, &notionapi.SearchRequest{
			Query:       query,
			Filter:      notionapi.SearchFilter{Property: "object", Value: "database"},
			StartCursor: cursor,
			PageSize:    pageSize,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to search databases: %w", typedError(err, ""))
		}

		for _, obj := range resp.Results {
			if db, ok := obj.(*notionapi.Database); ok {
				databases = append(databases, databaseMeta(db))
			}
		}

		if !resp.HasMore {
			return databases, nil
		}
		cursor = resp.NextCursor
	}
}

// GetDatabaseTable fetches a database schema and its rows. A maxRows of zero
// means unbounded.
func (c *Client) GetDatabaseTable(ctx context.Context, databaseID string, maxRows int) (*models.DatabaseTable, error) {
	db, err := c.getDatabase(ctx, databaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get database %s: %w", databaseID, typedError(err, databaseID))
	}

	var rows []notionapi.Page
	cursor := notionapi.Cursor("")

	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		resp, err := c.api.Database().Query(ctx, notionapi.DatabaseID(databaseID), &notionapi.DatabaseQueryRequest{
			StartCursor: cursor,
			PageSize:    pageSize,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to query database %s: %w", databaseID, typedError(err, databaseID))
		}

		rows = append(rows, resp.Results...)

		if maxRows > 0 && len(rows) >= maxRows {
			break
		}
		if !resp.HasMore {
			break
		}
		cursor = resp.NextCursor
	}

	return databaseTable(db, rows, maxRows), nil
}

// PageJSON returns the raw page object as generic JSON data for ad hoc
// queries
func (c *Client) PageJSON(ctx context.Context, pageID string) (interface{}, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	page, err := c.api.Page().Get(ctx, notionapi.PageID(pageID))
	if err != nil {
		return nil, fmt.Errorf("failed to get page %s: %w", pageID, typedError(err, pageID))
	}
	return toJSONValue(page)
}

// BlockChildrenJSON returns a block's children as generic JSON data
func (c *Client) BlockChildrenJSON(ctx context.Context, blockID string) (interface{}, error) {
	raw, err := c.fetchChildren(ctx, blockID)
	if err != nil {
		return nil, fmt.Errorf("failed to get blocks for %s: %w", blockID, typedError(err, blockID))
	}
	return toJSONValue(raw)
}

func (c *Client) fetchChildren(ctx context.Context, blockID string) ([]notionapi.Block, error) {
	var out []notionapi.Block
	cursor := ""

	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		pagination := &notionapi.Pagination{PageSize: pageSize}
		if cursor != "" {
			pagination.StartCursor = notionapi.Cursor(cursor)
		}

		resp, err := c.api.Block().GetChildren(ctx, notionapi.BlockID(blockID), pagination)
		if err != nil {
			return nil, err
		}

		out = append(out, resp.Results...)

		if !resp.HasMore {
			return out, nil
		}
		cursor = resp.NextCursor
	}
}

func (c *Client) getDatabase(ctx context.Context, databaseID string) (*notionapi.Database, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.api.Database().Get(ctx, notionapi.DatabaseID(databaseID))
}

func toJSONValue(v interface{}) (interface{}, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode object: %w", err)
	}

	var out interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode object: %w", err)
	}
	return out, nil
}

// NormalizePageID converts user supplied page identifiers into the dashed
// UUID form. It accepts dashed UUIDs, the bare 32 character hex form, and
// page URLs ending in either.
func NormalizePageID(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	if i := strings.LastIndex(s, "/"); i >= 0 {
		s = s[i+1:]
	}
	// URL slugs carry the undashed ID after the final hyphen
	if i := strings.LastIndex(s, "-"); i >= 0 && len(s)-i-1 == 32 {
		s = s[i+1:]
	}

	id, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid page ID %q: %w", raw, err)
	}
	return id.String(), nil
}
