package models

// SpanType identifies the kind of an inline rich text span
type SpanType string

const (
	SpanText     SpanType = "text"
	SpanMention  SpanType = "mention"
	SpanEquation SpanType = "equation"
)

// MentionType identifies what a mention span points at
type MentionType string

const (
	MentionUser     MentionType = "user"
	MentionPage     MentionType = "page"
	MentionDatabase MentionType = "database"
	MentionDate     MentionType = "date"
)

// Annotations holds the independent style flags of a span.
// Multiple flags may be set at once.
type Annotations struct {
	Bold          bool
	Italic        bool
	Strikethrough bool
	Code          bool
}

// RichSpan represents one run of inline text within a block's rich text
// field. Exactly one of Text, Mention, or Equation is set, matching Type.
type RichSpan struct {
	Type        SpanType
	Text        *TextSpan
	Mention     *Mention
	Equation    *EquationSpan
	PlainText   string
	Href        string
	Annotations Annotations
}

// TextSpan is the payload of a plain text span
type TextSpan struct {
	Content string
	Link    string
}

// Mention is the payload of a mention span
type Mention struct {
	Type MentionType
}

// EquationSpan is the payload of an inline equation span
type EquationSpan struct {
	Expression string
}

// NewTextSpan builds an unstyled text span. Used by tests and by callers
// that synthesize content.
func NewTextSpan(content string) RichSpan {
	return RichSpan{
		Type:      SpanText,
		Text:      &TextSpan{Content: content},
		PlainText: content,
	}
}
