package markdown

import (
	"fmt"
	"strings"

	"github.com/caetanosauer/notion-exporter/internal/models"
)

// ConvertRichText renders a sequence of rich text spans as markdown.
// Spans are concatenated without separators, so adjacent formatted runs
// stay adjacent in the output.
func (c *Converter) ConvertRichText(spans []models.RichSpan) string {
	if len(spans) == 0 {
		return ""
	}

	var md strings.Builder
	for _, span := range spans {
		md.WriteString(renderSpan(span))
	}
	return md.String()
}

// renderSpan renders one span: content by kind, then style wrapping in
// fixed order (code, bold, italic, strikethrough), then the link wrap.
func renderSpan(span models.RichSpan) string {
	content, link := spanContent(span)

	if span.Annotations.Code {
		content = "`" + content + "`"
	}
	if span.Annotations.Bold {
		content = "**" + content + "**"
	}
	if span.Annotations.Italic {
		content = "*" + content + "*"
	}
	if span.Annotations.Strikethrough {
		content = "~~" + content + "~~"
	}

	href := span.Href
	if href == "" {
		href = link
	}
	if href != "" {
		content = fmt.Sprintf("[%s](%s)", content, href)
	}

	return content
}

// spanContent resolves the display text of a span and the link carried by
// its text payload, if any.
func spanContent(span models.RichSpan) (string, string) {
	switch span.Type {
	case models.SpanText:
		if span.Text == nil {
			return "", ""
		}
		return span.Text.Content, span.Text.Link
	case models.SpanMention:
		return mentionContent(span), ""
	case models.SpanEquation:
		var expression string
		if span.Equation != nil {
			expression = span.Equation.Expression
		}
		return "$" + expression + "$", ""
	default:
		return span.PlainText, ""
	}
}

// mentionContent renders a mention span's display text with a per-kind
// fallback when the resolved text is missing.
func mentionContent(span models.RichSpan) string {
	var mentionType models.MentionType
	if span.Mention != nil {
		mentionType = span.Mention.Type
	}

	switch mentionType {
	case models.MentionUser:
		name := span.PlainText
		if name == "" {
			name = "user"
		}
		return "@" + name
	case models.MentionPage:
		return fallbackText(span.PlainText, "[page]")
	case models.MentionDatabase:
		return fallbackText(span.PlainText, "[database]")
	case models.MentionDate:
		return fallbackText(span.PlainText, "[date]")
	default:
		return fallbackText(span.PlainText, "[mention]")
	}
}

func fallbackText(text, fallback string) string {
	if text == "" {
		return fallback
	}
	return text
}
