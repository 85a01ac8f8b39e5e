package notion

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jomei/notionapi"

	"github.com/caetanosauer/notion-exporter/internal/models"
)

// pageMeta converts an API page object into page metadata
func pageMeta(page *notionapi.Page) *models.PageMeta {
	return &models.PageMeta{
		ID:             string(page.ID),
		Title:          extractTitle(page.Properties),
		ObjectKind:     models.ObjectPage,
		ParentType:     string(page.Parent.Type),
		ParentID:       parentID(page.Parent),
		CreatedTime:    page.CreatedTime,
		LastEditedTime: page.LastEditedTime,
		URL:            page.URL,
	}
}

// databaseMeta converts an API database object into page metadata so
// databases can take part in the hierarchy like pages do
func databaseMeta(db *notionapi.Database) *models.PageMeta {
	title := firstPlainText(db.Title)
	if title == "" {
		title = "Untitled Database"
	}

	return &models.PageMeta{
		ID:             string(db.ID),
		Title:          title,
		ObjectKind:     models.ObjectDatabase,
		ParentType:     string(db.Parent.Type),
		ParentID:       parentID(db.Parent),
		CreatedTime:    db.CreatedTime,
		LastEditedTime: db.LastEditedTime,
		URL:            db.URL,
	}
}

// extractTitle finds the title property of a page. Pages always have exactly
// one, but its name varies, so every property is checked.
func extractTitle(props notionapi.Properties) string {
	for _, prop := range props {
		title, ok := prop.(*notionapi.TitleProperty)
		if !ok {
			continue
		}
		if text := firstPlainText(title.Title); text != "" {
			return text
		}
		break
	}
	return "Untitled"
}

func parentID(parent notionapi.Parent) string {
	switch string(parent.Type) {
	case "page_id":
		return string(parent.PageID)
	case "database_id":
		return string(parent.DatabaseID)
	case "block_id":
		return string(parent.BlockID)
	default:
		return ""
	}
}

// mapBlock converts one API block into the exporter's block representation.
// Types the converter has no rendering for map to BlockUnknown with the
// source type preserved in RawType.
func mapBlock(raw notionapi.Block) models.Block {
	block := models.Block{ID: string(raw.GetID())}

	switch b := raw.(type) {
	case *notionapi.ParagraphBlock:
		block.Type = models.BlockParagraph
		block.Paragraph = &models.Paragraph{RichText: mapRichText(b.Paragraph.RichText)}
	case *notionapi.Heading1Block:
		block.Type = models.BlockHeading1
		block.Heading1 = &models.Heading{RichText: mapRichText(b.Heading1.RichText)}
	case *notionapi.Heading2Block:
		block.Type = models.BlockHeading2
		block.Heading2 = &models.Heading{RichText: mapRichText(b.Heading2.RichText)}
	case *notionapi.Heading3Block:
		block.Type = models.BlockHeading3
		block.Heading3 = &models.Heading{RichText: mapRichText(b.Heading3.RichText)}
	case *notionapi.BulletedListItemBlock:
		block.Type = models.BlockBulletedListItem
		block.BulletedListItem = &models.ListItem{RichText: mapRichText(b.BulletedListItem.RichText)}
	case *notionapi.NumberedListItemBlock:
		block.Type = models.BlockNumberedListItem
		block.NumberedListItem = &models.ListItem{RichText: mapRichText(b.NumberedListItem.RichText)}
	case *notionapi.ToDoBlock:
		block.Type = models.BlockToDo
		block.ToDo = &models.ToDo{
			RichText: mapRichText(b.ToDo.RichText),
			Checked:  b.ToDo.Checked,
		}
	case *notionapi.ToggleBlock:
		block.Type = models.BlockToggle
		block.Toggle = &models.Toggle{RichText: mapRichText(b.Toggle.RichText)}
	case *notionapi.CodeBlock:
		block.Type = models.BlockCode
		block.Code = &models.Code{
			RichText: mapRichText(b.Code.RichText),
			Language: b.Code.Language,
		}
	case *notionapi.QuoteBlock:
		block.Type = models.BlockQuote
		block.Quote = &models.Quote{RichText: mapRichText(b.Quote.RichText)}
	case *notionapi.CalloutBlock:
		block.Type = models.BlockCallout
		block.Callout = &models.Callout{
			RichText: mapRichText(b.Callout.RichText),
			Icon:     calloutIcon(b.Callout.Icon),
		}
	case *notionapi.DividerBlock:
		block.Type = models.BlockDivider
	case *notionapi.ChildPageBlock:
		block.Type = models.BlockChildPage
		block.ChildPage = &models.ChildPage{Title: b.ChildPage.Title}
	case *notionapi.ChildDatabaseBlock:
		block.Type = models.BlockChildDatabase
		block.ChildDatabase = &models.ChildDatabase{Title: b.ChildDatabase.Title}
	case *notionapi.TableBlock:
		block.Type = models.BlockTable
		block.Table = &models.Table{
			HasColumnHeader: b.Table.HasColumnHeader,
			HasRowHeader:    b.Table.HasRowHeader,
		}
	case *notionapi.TableRowBlock:
		block.Type = models.BlockTableRow
		cells := make([][]models.RichSpan, 0, len(b.TableRow.Cells))
		for _, cell := range b.TableRow.Cells {
			cells = append(cells, mapRichText(cell))
		}
		block.TableRow = &models.TableRow{Cells: cells}
	case *notionapi.ImageBlock:
		block.Type = models.BlockImage
		image := &models.Image{Caption: mapRichText(b.Image.Caption)}
		if b.Image.External != nil {
			image.ExternalURL = b.Image.External.URL
		}
		if b.Image.File != nil {
			image.FileURL = b.Image.File.URL
		}
		block.Image = image
	case *notionapi.FileBlock:
		block.Type = models.BlockFile
		file := &models.File{Caption: mapRichText(b.File.Caption)}
		if b.File.External != nil {
			file.ExternalURL = b.File.External.URL
		}
		if b.File.File != nil {
			file.FileURL = b.File.File.URL
		}
		block.File = file
	case *notionapi.BookmarkBlock:
		block.Type = models.BlockBookmark
		block.Bookmark = &models.Bookmark{
			URL:     b.Bookmark.URL,
			Caption: mapRichText(b.Bookmark.Caption),
		}
	case *notionapi.EquationBlock:
		block.Type = models.BlockEquation
		block.Equation = &models.EquationBlock{Expression: b.Equation.Expression}
	case *notionapi.UnsupportedBlock:
		block.Type = models.BlockUnsupported
	default:
		block.Type = models.BlockUnknown
		block.RawType = string(raw.GetType())
	}

	return block
}

func mapRichText(spans []notionapi.RichText) []models.RichSpan {
	out := make([]models.RichSpan, 0, len(spans))
	for _, span := range spans {
		out = append(out, mapSpan(span))
	}
	return out
}

func mapSpan(rt notionapi.RichText) models.RichSpan {
	span := models.RichSpan{
		Type:      models.SpanType(rt.Type),
		PlainText: rt.PlainText,
		Href:      rt.Href,
	}

	if rt.Annotations != nil {
		span.Annotations = models.Annotations{
			Bold:          rt.Annotations.Bold,
			Italic:        rt.Annotations.Italic,
			Strikethrough: rt.Annotations.Strikethrough,
			Code:          rt.Annotations.Code,
		}
	}

	switch {
	case rt.Text != nil:
		text := &models.TextSpan{Content: rt.Text.Content}
		if rt.Text.Link != nil {
			text.Link = rt.Text.Link.Url
		}
		span.Text = text
	case rt.Mention != nil:
		span.Mention = &models.Mention{Type: models.MentionType(rt.Mention.Type)}
	case rt.Equation != nil:
		span.Equation = &models.EquationSpan{Expression: rt.Equation.Expression}
	}

	return span
}

func calloutIcon(icon *notionapi.Icon) string {
	if icon == nil || icon.Emoji == nil {
		return ""
	}
	return string(*icon.Emoji)
}

// databaseTable flattens a database schema and its query results into a
// renderable table. The title column comes first, the rest follow in name
// order since the API does not preserve schema order.
func databaseTable(db *notionapi.Database, rows []notionapi.Page, maxRows int) *models.DatabaseTable {
	table := &models.DatabaseTable{
		ID:      string(db.ID),
		Title:   firstPlainText(db.Title),
		Columns: databaseColumns(db),
		MaxRows: maxRows,
	}

	if maxRows > 0 && len(rows) > maxRows {
		rows = rows[:maxRows]
	}
	if maxRows > 0 && len(rows) == maxRows {
		table.Truncated = true
	}

	for _, row := range rows {
		cells := make([]string, len(table.Columns))
		for i, name := range table.Columns {
			if prop, ok := row.Properties[name]; ok {
				cells[i] = propertyValue(prop)
			}
		}
		table.Rows = append(table.Rows, cells)
	}

	return table
}

func databaseColumns(db *notionapi.Database) []string {
	var title string
	var names []string

	for name, config := range db.Properties {
		if config != nil && string(config.GetType()) == "title" {
			title = name
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	if title != "" {
		return append([]string{title}, names...)
	}
	return names
}

// propertyValue reduces a page property to a single display string
func propertyValue(prop notionapi.Property) string {
	switch p := prop.(type) {
	case *notionapi.TitleProperty:
		return firstPlainText(p.Title)
	case *notionapi.RichTextProperty:
		return joinedPlainText(p.RichText)
	case *notionapi.NumberProperty:
		return formatNumber(p.Number)
	case *notionapi.SelectProperty:
		return p.Select.Name
	case *notionapi.MultiSelectProperty:
		names := make([]string, 0, len(p.MultiSelect))
		for _, option := range p.MultiSelect {
			names = append(names, option.Name)
		}
		return strings.Join(names, ", ")
	case *notionapi.DateProperty:
		return dateRange(p.Date)
	case *notionapi.PeopleProperty:
		var names []string
		for _, person := range p.People {
			if person.Name != "" {
				names = append(names, person.Name)
			}
		}
		return strings.Join(names, ", ")
	case *notionapi.CheckboxProperty:
		if p.Checkbox {
			return "✓"
		}
		return ""
	case *notionapi.URLProperty:
		return p.URL
	case *notionapi.EmailProperty:
		return p.Email
	case *notionapi.PhoneNumberProperty:
		return p.PhoneNumber
	case *notionapi.StatusProperty:
		return p.Status.Name
	case *notionapi.FormulaProperty:
		return formulaValue(p.Formula)
	case *notionapi.RelationProperty:
		return fmt.Sprintf("%d item(s)", len(p.Relation))
	case *notionapi.RollupProperty:
		return rollupValue(p.Rollup)
	case *notionapi.CreatedTimeProperty:
		return p.CreatedTime.UTC().Format(time.RFC3339)
	case *notionapi.CreatedByProperty:
		return p.CreatedBy.Name
	case *notionapi.LastEditedTimeProperty:
		return p.LastEditedTime.UTC().Format(time.RFC3339)
	case *notionapi.LastEditedByProperty:
		return p.LastEditedBy.Name
	case *notionapi.FilesProperty:
		names := make([]string, 0, len(p.Files))
		for _, file := range p.Files {
			name := file.Name
			if name == "" {
				name = "file"
			}
			names = append(names, name)
		}
		return strings.Join(names, ", ")
	default:
		if prop == nil {
			return ""
		}
		return fmt.Sprintf("[%s]", prop.GetType())
	}
}

func formulaValue(f notionapi.Formula) string {
	switch string(f.Type) {
	case "string":
		return f.String
	case "number":
		return formatNumber(f.Number)
	case "boolean":
		if f.Boolean {
			return "Yes"
		}
		return "No"
	case "date":
		if f.Date != nil && f.Date.Start != nil {
			return formatDate(*f.Date.Start)
		}
		return ""
	default:
		return ""
	}
}

func rollupValue(r notionapi.Rollup) string {
	switch string(r.Type) {
	case "number":
		return formatNumber(r.Number)
	case "array":
		return fmt.Sprintf("%d item(s)", len(r.Array))
	default:
		return ""
	}
}

func dateRange(obj *notionapi.DateObject) string {
	if obj == nil || obj.Start == nil {
		return ""
	}

	start := formatDate(*obj.Start)
	if obj.End != nil {
		return fmt.Sprintf("%s → %s", start, formatDate(*obj.End))
	}
	return start
}

// formatDate keeps date-only values compact and renders timestamps as RFC3339
func formatDate(d notionapi.Date) string {
	t := time.Time(d)
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format(time.RFC3339)
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func firstPlainText(spans []notionapi.RichText) string {
	if len(spans) == 0 {
		return ""
	}
	return spans[0].PlainText
}

func joinedPlainText(spans []notionapi.RichText) string {
	parts := make([]string, 0, len(spans))
	for _, span := range spans {
		parts = append(parts, span.PlainText)
	}
	return strings.Join(parts, " ")
}
