package notion

import (
	"reflect"
	"testing"
	"time"

	"github.com/jomei/notionapi"

	"github.com/caetanosauer/notion-exporter/internal/models"
)

func TestMapBlockTypes(t *testing.T) {
	tests := []struct {
		name  string
		block notionapi.Block
		want  models.BlockType
	}{
		{"Paragraph", &notionapi.ParagraphBlock{}, models.BlockParagraph},
		{"Heading 1", &notionapi.Heading1Block{}, models.BlockHeading1},
		{"Heading 2", &notionapi.Heading2Block{}, models.BlockHeading2},
		{"Heading 3", &notionapi.Heading3Block{}, models.BlockHeading3},
		{"Bulleted item", &notionapi.BulletedListItemBlock{}, models.BlockBulletedListItem},
		{"Numbered item", &notionapi.NumberedListItemBlock{}, models.BlockNumberedListItem},
		{"To do", &notionapi.ToDoBlock{}, models.BlockToDo},
		{"Toggle", &notionapi.ToggleBlock{}, models.BlockToggle},
		{"Code", &notionapi.CodeBlock{}, models.BlockCode},
		{"Quote", &notionapi.QuoteBlock{}, models.BlockQuote},
		{"Callout", &notionapi.CalloutBlock{}, models.BlockCallout},
		{"Divider", &notionapi.DividerBlock{}, models.BlockDivider},
		{"Child page", &notionapi.ChildPageBlock{}, models.BlockChildPage},
		{"Child database", &notionapi.ChildDatabaseBlock{}, models.BlockChildDatabase},
		{"Table", &notionapi.TableBlock{}, models.BlockTable},
		{"Table row", &notionapi.TableRowBlock{}, models.BlockTableRow},
		{"Image", &notionapi.ImageBlock{}, models.BlockImage},
		{"File", &notionapi.FileBlock{}, models.BlockFile},
		{"Bookmark", &notionapi.BookmarkBlock{}, models.BlockBookmark},
		{"Equation", &notionapi.EquationBlock{}, models.BlockEquation},
		{"Unsupported", &notionapi.UnsupportedBlock{}, models.BlockUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapBlock(tt.block).Type; got != tt.want {
				t.Errorf("mapBlock() type = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMapBlockUnknown(t *testing.T) {
	block := mapBlock(notionapi.BasicBlock{Object: "block", ID: "b1", Type: "embed"})
	if block.Type != models.BlockUnknown {
		t.Errorf("mapBlock() type = %v, want %v", block.Type, models.BlockUnknown)
	}
	if block.RawType != "embed" {
		t.Errorf("mapBlock() raw type = %q, want %q", block.RawType, "embed")
	}
	if block.ID != "b1" {
		t.Errorf("mapBlock() id = %q, want %q", block.ID, "b1")
	}
}

func TestMapBlockPayloads(t *testing.T) {
	todo := mapBlock(&notionapi.ToDoBlock{
		BasicBlock: notionapi.BasicBlock{Object: "block", ID: "b1", Type: "to_do"},
		ToDo: notionapi.ToDo{
			RichText: []notionapi.RichText{{PlainText: "task", Text: &notionapi.Text{Content: "task"}}},
			Checked:  true,
		},
	})
	if todo.ToDo == nil || !todo.ToDo.Checked {
		t.Error("mapBlock() to_do lost checked state")
	}

	emoji := notionapi.Emoji("💡")
	callout := mapBlock(&notionapi.CalloutBlock{
		BasicBlock: notionapi.BasicBlock{Object: "block", ID: "b2", Type: "callout"},
		Callout: notionapi.Callout{
			RichText: []notionapi.RichText{{PlainText: "note", Text: &notionapi.Text{Content: "note"}}},
			Icon:     &notionapi.Icon{Type: "emoji", Emoji: &emoji},
		},
	})
	if callout.Callout == nil || callout.Callout.Icon != "💡" {
		t.Errorf("mapBlock() callout icon = %q, want 💡", callout.Callout.Icon)
	}

	image := mapBlock(&notionapi.ImageBlock{
		BasicBlock: notionapi.BasicBlock{Object: "block", ID: "b3", Type: "image"},
		Image: notionapi.Image{
			Caption:  []notionapi.RichText{{PlainText: "diagram"}},
			External: &notionapi.FileObject{URL: "https://example.com/a.png"},
		},
	})
	if image.Image == nil || image.Image.ExternalURL != "https://example.com/a.png" {
		t.Error("mapBlock() image lost external URL")
	}
	if len(image.Image.Caption) != 1 || image.Image.Caption[0].PlainText != "diagram" {
		t.Error("mapBlock() image lost caption")
	}

	code := mapBlock(&notionapi.CodeBlock{
		BasicBlock: notionapi.BasicBlock{Object: "block", ID: "b4", Type: "code"},
		Code: notionapi.Code{
			RichText: []notionapi.RichText{{PlainText: "fmt.Println()", Text: &notionapi.Text{Content: "fmt.Println()"}}},
			Language: "go",
		},
	})
	if code.Code == nil || code.Code.Language != "go" {
		t.Error("mapBlock() code lost language")
	}
}

func TestMapSpan(t *testing.T) {
	tests := []struct {
		name string
		in   notionapi.RichText
		want models.RichSpan
	}{
		{
			name: "Text with annotations and link",
			in: notionapi.RichText{
				Type:        "text",
				PlainText:   "hello",
				Href:        "https://example.com",
				Text:        &notionapi.Text{Content: "hello", Link: &notionapi.Link{Url: "https://example.com"}},
				Annotations: &notionapi.Annotations{Bold: true, Code: true},
			},
			want: models.RichSpan{
				Type:        models.SpanText,
				PlainText:   "hello",
				Href:        "https://example.com",
				Text:        &models.TextSpan{Content: "hello", Link: "https://example.com"},
				Annotations: models.Annotations{Bold: true, Code: true},
			},
		},
		{
			name: "Equation",
			in: notionapi.RichText{
				Type:      "equation",
				PlainText: "E = mc^2",
				Equation:  &notionapi.Equation{Expression: "E = mc^2"},
			},
			want: models.RichSpan{
				Type:      models.SpanEquation,
				PlainText: "E = mc^2",
				Equation:  &models.EquationSpan{Expression: "E = mc^2"},
			},
		},
		{
			name: "User mention",
			in: notionapi.RichText{
				Type:      "mention",
				PlainText: "@Alice",
				Mention:   &notionapi.Mention{Type: "user"},
			},
			want: models.RichSpan{
				Type:      models.SpanMention,
				PlainText: "@Alice",
				Mention:   &models.Mention{Type: models.MentionUser},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapSpan(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("mapSpan() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPropertyValue(t *testing.T) {
	created := time.Date(2025, 11, 3, 9, 30, 0, 0, time.UTC)
	start := notionapi.Date(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	end := notionapi.Date(time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		name string
		prop notionapi.Property
		want string
	}{
		{"Title", &notionapi.TitleProperty{Title: []notionapi.RichText{{PlainText: "Task"}}}, "Task"},
		{"Rich text", &notionapi.RichTextProperty{RichText: []notionapi.RichText{{PlainText: "one"}, {PlainText: "two"}}}, "one two"},
		{"Number", &notionapi.NumberProperty{Number: 3.5}, "3.5"},
		{"Whole number", &notionapi.NumberProperty{Number: 42}, "42"},
		{"Select", &notionapi.SelectProperty{Select: notionapi.Option{Name: "Open"}}, "Open"},
		{"Multi select", &notionapi.MultiSelectProperty{MultiSelect: []notionapi.Option{{Name: "a"}, {Name: "b"}}}, "a, b"},
		{"Date", &notionapi.DateProperty{Date: &notionapi.DateObject{Start: &start}}, "2025-03-01"},
		{"Date range", &notionapi.DateProperty{Date: &notionapi.DateObject{Start: &start, End: &end}}, "2025-03-01 → 2025-03-14"},
		{"People", &notionapi.PeopleProperty{People: []notionapi.User{{Name: "Alice"}, {Name: ""}, {Name: "Bob"}}}, "Alice, Bob"},
		{"Checked checkbox", &notionapi.CheckboxProperty{Checkbox: true}, "✓"},
		{"Unchecked checkbox", &notionapi.CheckboxProperty{Checkbox: false}, ""},
		{"URL", &notionapi.URLProperty{URL: "https://example.com"}, "https://example.com"},
		{"Email", &notionapi.EmailProperty{Email: "a@example.com"}, "a@example.com"},
		{"Phone", &notionapi.PhoneNumberProperty{PhoneNumber: "555-0100"}, "555-0100"},
		{"Status", &notionapi.StatusProperty{Status: notionapi.Status{Name: "In progress"}}, "In progress"},
		{"String formula", &notionapi.FormulaProperty{Formula: notionapi.Formula{Type: "string", String: "calc"}}, "calc"},
		{"Number formula", &notionapi.FormulaProperty{Formula: notionapi.Formula{Type: "number", Number: 2.5}}, "2.5"},
		{"Boolean formula", &notionapi.FormulaProperty{Formula: notionapi.Formula{Type: "boolean", Boolean: true}}, "Yes"},
		{"Relation", &notionapi.RelationProperty{Relation: []notionapi.Relation{{ID: "a"}, {ID: "b"}}}, "2 item(s)"},
		{"Number rollup", &notionapi.RollupProperty{Rollup: notionapi.Rollup{Type: "number", Number: 7}}, "7"},
		{"Created time", &notionapi.CreatedTimeProperty{CreatedTime: created}, "2025-11-03T09:30:00Z"},
		{"Created by", &notionapi.CreatedByProperty{CreatedBy: notionapi.User{Name: "Alice"}}, "Alice"},
		{"Files", &notionapi.FilesProperty{Files: []notionapi.File{{Name: "a.pdf"}, {Name: ""}}}, "a.pdf, file"},
		{"Missing", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := propertyValue(tt.prop); got != tt.want {
				t.Errorf("propertyValue() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDatabaseColumns(t *testing.T) {
	db := &notionapi.Database{
		Properties: notionapi.PropertyConfigs{
			"Zeta":  notionapi.SelectPropertyConfig{Type: "select"},
			"Alpha": notionapi.RichTextPropertyConfig{Type: "rich_text"},
			"Name":  notionapi.TitlePropertyConfig{Type: "title"},
		},
	}

	want := []string{"Name", "Alpha", "Zeta"}
	if got := databaseColumns(db); !reflect.DeepEqual(got, want) {
		t.Errorf("databaseColumns() = %v, want %v", got, want)
	}
}

func TestDatabaseTableExactMaxRows(t *testing.T) {
	db := &notionapi.Database{
		ID:    "db-1",
		Title: []notionapi.RichText{{PlainText: "Tasks"}},
		Properties: notionapi.PropertyConfigs{
			"Name": notionapi.TitlePropertyConfig{Type: "title"},
		},
	}
	rows := []notionapi.Page{
		{ID: "r1", Properties: notionapi.Properties{
			"Name": &notionapi.TitleProperty{Title: []notionapi.RichText{{PlainText: "only"}}},
		}},
	}

	table := databaseTable(db, rows, 1)
	if len(table.Rows) != 1 || table.Rows[0][0] != "only" {
		t.Fatalf("databaseTable() rows = %v", table.Rows)
	}
	if !table.Truncated {
		t.Error("databaseTable() truncated = false, want true")
	}
}

func TestExtractTitle(t *testing.T) {
	props := notionapi.Properties{
		"Notes": &notionapi.RichTextProperty{},
		"Name":  &notionapi.TitleProperty{Title: []notionapi.RichText{{PlainText: "Home"}}},
	}
	if got := extractTitle(props); got != "Home" {
		t.Errorf("extractTitle() = %q, want %q", got, "Home")
	}

	if got := extractTitle(notionapi.Properties{}); got != "Untitled" {
		t.Errorf("extractTitle() = %q, want %q", got, "Untitled")
	}

	empty := notionapi.Properties{"Name": &notionapi.TitleProperty{}}
	if got := extractTitle(empty); got != "Untitled" {
		t.Errorf("extractTitle() = %q, want %q", got, "Untitled")
	}
}

func TestPageMetaParent(t *testing.T) {
	tests := []struct {
		name   string
		parent notionapi.Parent
		want   string
	}{
		{"Page parent", notionapi.Parent{Type: "page_id", PageID: "p1"}, "p1"},
		{"Database parent", notionapi.Parent{Type: "database_id", DatabaseID: "d1"}, "d1"},
		{"Block parent", notionapi.Parent{Type: "block_id", BlockID: "b1"}, "b1"},
		{"Workspace", notionapi.Parent{Type: "workspace", Workspace: true}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := pageMeta(&notionapi.Page{ID: "x", Parent: tt.parent})
			if meta.ParentID != tt.want {
				t.Errorf("pageMeta() parent = %q, want %q", meta.ParentID, tt.want)
			}
			if meta.ParentType != string(tt.parent.Type) {
				t.Errorf("pageMeta() parent type = %q, want %q", meta.ParentType, tt.parent.Type)
			}
		})
	}
}

func TestDatabaseMetaUntitled(t *testing.T) {
	meta := databaseMeta(&notionapi.Database{ID: "db-1"})
	if meta.Title != "Untitled Database" {
		t.Errorf("databaseMeta() title = %q, want %q", meta.Title, "Untitled Database")
	}
	if meta.ObjectKind != models.ObjectDatabase {
		t.Errorf("databaseMeta() kind = %v, want %v", meta.ObjectKind, models.ObjectDatabase)
	}
}

func TestFormatDate(t *testing.T) {
	dateOnly := notionapi.Date(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	if got := formatDate(dateOnly); got != "2025-03-01" {
		t.Errorf("formatDate() = %q, want %q", got, "2025-03-01")
	}

	stamp := notionapi.Date(time.Date(2025, 3, 1, 14, 30, 0, 0, time.UTC))
	if got := formatDate(stamp); got != "2025-03-01T14:30:00Z" {
		t.Errorf("formatDate() = %q, want %q", got, "2025-03-01T14:30:00Z")
	}
}
