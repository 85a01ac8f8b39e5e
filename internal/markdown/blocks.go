package markdown

import (
	"fmt"
	"strings"

	"github.com/caetanosauer/notion-exporter/internal/models"
)

// numberedKey is the ListCounters key tracking numbered list position
const numberedKey = "numbered"

// ListCounters tracks list numbering state across a run of sibling blocks,
// keyed by list kind. The caller threads one instance through consecutive
// ConvertBlock calls and clears it at run boundaries.
type ListCounters map[string]int

// Converter handles the conversion from Notion blocks to markdown
type Converter struct {
	trackSkippedDatabases bool
	unsupported           []models.UnsupportedFeature
}

// New creates a new Converter instance. When trackSkippedDatabases is set,
// child database blocks are recorded as not exported.
func New(trackSkippedDatabases bool) *Converter {
	return &Converter{trackSkippedDatabases: trackSkippedDatabases}
}

// Unsupported returns the fidelity loss records accumulated so far, in
// discovery order.
func (c *Converter) Unsupported() []models.UnsupportedFeature {
	return c.unsupported
}

func (c *Converter) record(blockType, feature, blockID string) {
	c.unsupported = append(c.unsupported, models.UnsupportedFeature{
		BlockType: blockType,
		Feature:   feature,
		BlockID:   blockID,
	})
}

// ConvertBlock renders a single block as a markdown fragment and reports
// whether the block was fully supported. counters is advanced for numbered
// list items; missing or malformed payload fields degrade to empty output,
// never to an error.
func (c *Converter) ConvertBlock(block models.Block, counters ListCounters) (string, bool) {
	if counters == nil {
		counters = ListCounters{}
	}

	switch block.Type {
	case models.BlockParagraph:
		return c.convertParagraph(block), true
	case models.BlockHeading1:
		return c.convertHeading(block, 1), true
	case models.BlockHeading2:
		return c.convertHeading(block, 2), true
	case models.BlockHeading3:
		return c.convertHeading(block, 3), true
	case models.BlockBulletedListItem:
		return c.convertBulletedListItem(block), true
	case models.BlockNumberedListItem:
		counters[numberedKey]++
		return c.convertNumberedListItem(block, counters[numberedKey]), true
	case models.BlockToDo:
		return c.convertToDo(block), true
	case models.BlockToggle:
		return c.convertToggle(block), true
	case models.BlockCode:
		return c.convertCode(block), true
	case models.BlockQuote:
		return c.convertQuote(block), true
	case models.BlockCallout:
		return c.convertCallout(block), true
	case models.BlockDivider:
		return "---", true
	case models.BlockChildPage:
		// Child pages become tree nodes, not inline content
		return "", true
	case models.BlockChildDatabase:
		if c.trackSkippedDatabases {
			c.record("child_database", "not_exported", block.ID)
		}
		return "", true
	case models.BlockTable:
		// Tables are assembled at the sequence level with their rows
		return "", true
	case models.BlockTableRow:
		return "", true
	case models.BlockImage:
		return c.convertImage(block)
	case models.BlockFile:
		return c.convertFile(block)
	case models.BlockBookmark:
		return c.convertBookmark(block)
	case models.BlockEquation:
		return c.convertEquation(block), true
	case models.BlockUnsupported:
		c.record("unsupported", "unknown", block.ID)
		return "[Unsupported block]", false
	default:
		rawType := block.RawType
		if rawType == "" {
			rawType = string(block.Type)
		}
		c.record(rawType, "unknown_type", block.ID)
		return fmt.Sprintf("[Unsupported: %s]", rawType), false
	}
}

func (c *Converter) convertParagraph(block models.Block) string {
	if block.Paragraph == nil {
		return ""
	}
	return c.ConvertRichText(block.Paragraph.RichText)
}

func (c *Converter) convertHeading(block models.Block, level int) string {
	var heading *models.Heading
	switch level {
	case 1:
		heading = block.Heading1
	case 2:
		heading = block.Heading2
	case 3:
		heading = block.Heading3
	}

	var text string
	if heading != nil {
		text = c.ConvertRichText(heading.RichText)
	}
	return strings.Repeat("#", level) + " " + text
}

func (c *Converter) convertBulletedListItem(block models.Block) string {
	var text string
	if block.BulletedListItem != nil {
		text = c.ConvertRichText(block.BulletedListItem.RichText)
	}
	return "- " + text
}

func (c *Converter) convertNumberedListItem(block models.Block, number int) string {
	var text string
	if block.NumberedListItem != nil {
		text = c.ConvertRichText(block.NumberedListItem.RichText)
	}
	return fmt.Sprintf("%d. %s", number, text)
}

func (c *Converter) convertToDo(block models.Block) string {
	var text string
	checkbox := "[ ]"
	if block.ToDo != nil {
		text = c.ConvertRichText(block.ToDo.RichText)
		if block.ToDo.Checked {
			checkbox = "[x]"
		}
	}
	return fmt.Sprintf("- %s %s", checkbox, text)
}

// convertToggle renders a toggle as bold text. Markdown has no collapsible
// construct, so the heading line is kept and the collapsed state dropped.
func (c *Converter) convertToggle(block models.Block) string {
	var text string
	if block.Toggle != nil {
		text = c.ConvertRichText(block.Toggle.RichText)
	}
	return fmt.Sprintf("**%s**", text)
}

func (c *Converter) convertCode(block models.Block) string {
	var language string
	var code strings.Builder
	if block.Code != nil {
		language = block.Code.Language
		// Code content is the raw text, spans are not styled individually
		for _, span := range block.Code.RichText {
			code.WriteString(span.PlainText)
		}
	}
	return fmt.Sprintf("```%s\n%s\n```", language, code.String())
}

func (c *Converter) convertQuote(block models.Block) string {
	var text string
	if block.Quote != nil {
		text = c.ConvertRichText(block.Quote.RichText)
	}
	return "> " + text
}

func (c *Converter) convertCallout(block models.Block) string {
	var icon, text string
	if block.Callout != nil {
		icon = block.Callout.Icon
		text = c.ConvertRichText(block.Callout.RichText)
	}
	return strings.TrimSpace(fmt.Sprintf("> %s %s", icon, text))
}

func (c *Converter) convertImage(block models.Block) (string, bool) {
	var url string
	var caption []models.RichSpan
	if block.Image != nil {
		url = block.Image.ExternalURL
		if url == "" {
			url = block.Image.FileURL
		}
		caption = block.Image.Caption
	}

	captionText := "image"
	if len(caption) > 0 {
		captionText = c.ConvertRichText(caption)
	}

	if url != "" {
		return fmt.Sprintf("![%s](%s)", captionText, url), true
	}
	c.record("image", "no_url", block.ID)
	return fmt.Sprintf("[Image: %s]", captionText), false
}

func (c *Converter) convertFile(block models.Block) (string, bool) {
	var url string
	var caption []models.RichSpan
	if block.File != nil {
		url = block.File.ExternalURL
		if url == "" {
			url = block.File.FileURL
		}
		caption = block.File.Caption
	}

	captionText := "file"
	if len(caption) > 0 {
		captionText = c.ConvertRichText(caption)
	}

	if url != "" {
		return fmt.Sprintf("[%s](%s)", captionText, url), true
	}
	return fmt.Sprintf("[File: %s]", captionText), false
}

func (c *Converter) convertBookmark(block models.Block) (string, bool) {
	var url string
	var caption []models.RichSpan
	if block.Bookmark != nil {
		url = block.Bookmark.URL
		caption = block.Bookmark.Caption
	}

	captionText := url
	if len(caption) > 0 {
		captionText = c.ConvertRichText(caption)
	}

	if url != "" {
		return fmt.Sprintf("[%s](%s)", captionText, url), true
	}
	return "[Bookmark]", false
}

func (c *Converter) convertEquation(block models.Block) string {
	var expression string
	if block.Equation != nil {
		expression = block.Equation.Expression
	}
	return fmt.Sprintf("$$\n%s\n$$", expression)
}
