package commerce

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// markdownEngine is stateless and safe for concurrent use. Without the
// unsafe renderer option goldmark drops raw HTML from the output, so
// merchant-supplied content cannot inject markup.
var markdownEngine = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

func renderMarkdown(value any) (template.HTML, error) {
	source, _ := value.(string)
	if source == "" {
		return "", nil
	}

	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("commerce: render markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}
