package models

// BlockType identifies the structural kind of a block
type BlockType string

const (
	BlockParagraph        BlockType = "paragraph"
	BlockHeading1         BlockType = "heading_1"
	BlockHeading2         BlockType = "heading_2"
	BlockHeading3         BlockType = "heading_3"
	BlockBulletedListItem BlockType = "bulleted_list_item"
	BlockNumberedListItem BlockType = "numbered_list_item"
	BlockToDo             BlockType = "to_do"
	BlockToggle           BlockType = "toggle"
	BlockCode             BlockType = "code"
	BlockQuote            BlockType = "quote"
	BlockCallout          BlockType = "callout"
	BlockDivider          BlockType = "divider"
	BlockChildPage        BlockType = "child_page"
	BlockChildDatabase    BlockType = "child_database"
	BlockTable            BlockType = "table"
	BlockTableRow         BlockType = "table_row"
	BlockImage            BlockType = "image"
	BlockFile             BlockType = "file"
	BlockBookmark         BlockType = "bookmark"
	BlockEquation         BlockType = "equation"
	BlockUnsupported      BlockType = "unsupported"
	BlockUnknown          BlockType = "unknown"
)

// Block represents one structural unit of page content. Type selects which
// payload pointer is set; all others are nil. Blocks are immutable once
// fetched and sibling order is significant.
type Block struct {
	ID   string
	Type BlockType

	Paragraph        *Paragraph
	Heading1         *Heading
	Heading2         *Heading
	Heading3         *Heading
	BulletedListItem *ListItem
	NumberedListItem *ListItem
	ToDo             *ToDo
	Toggle           *Toggle
	Code             *Code
	Quote            *Quote
	Callout          *Callout
	ChildPage        *ChildPage
	ChildDatabase    *ChildDatabase
	Table            *Table
	TableRow         *TableRow
	Image            *Image
	File             *File
	Bookmark         *Bookmark
	Equation         *EquationBlock

	// RawType carries the source type string for blocks mapped to
	// BlockUnknown, so placeholders and records can name it.
	RawType string
}

// Paragraph block payload
type Paragraph struct {
	RichText []RichSpan
}

// Heading block payload, shared by all three levels
type Heading struct {
	RichText []RichSpan
}

// ListItem block payload, shared by bulleted and numbered items
type ListItem struct {
	RichText []RichSpan
}

// ToDo block payload
type ToDo struct {
	RichText []RichSpan
	Checked  bool
}

// Toggle block payload
type Toggle struct {
	RichText []RichSpan
}

// Code block payload
type Code struct {
	RichText []RichSpan
	Language string
}

// Quote block payload
type Quote struct {
	RichText []RichSpan
}

// Callout block payload. Icon holds the emoji when the callout icon is an
// emoji, empty otherwise.
type Callout struct {
	RichText []RichSpan
	Icon     string
}

// ChildPage block payload
type ChildPage struct {
	Title string
}

// ChildDatabase block payload
type ChildDatabase struct {
	Title string
}

// Table block payload. HasRowHeader is parsed from the source but does not
// affect rendering.
type Table struct {
	HasColumnHeader bool
	HasRowHeader    bool
}

// TableRow block payload
type TableRow struct {
	Cells [][]RichSpan
}

// Image block payload. FileURL is set for workspace-hosted images,
// ExternalURL for linked ones; at most one is populated.
type Image struct {
	FileURL     string
	ExternalURL string
	Caption     []RichSpan
}

// File block payload
type File struct {
	FileURL     string
	ExternalURL string
	Caption     []RichSpan
}

// Bookmark block payload
type Bookmark struct {
	URL     string
	Caption []RichSpan
}

// EquationBlock is the payload of a block-level equation
type EquationBlock struct {
	Expression string
}
