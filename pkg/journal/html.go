package journal

import (
	"bytes"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/odvcencio/tradelog/pkg/errors"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// RenderHTML converts an entry page to an HTML fragment. The front matter
// title becomes the page heading.
func RenderHTML(page []byte) ([]byte, error) {
	fm, body, err := SplitFrontMatter(page)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if fm.Title != "" {
		buf.WriteString("<article>\n<header><h1>" + html.EscapeString(fm.Title) + "</h1>")
		if !fm.Date.IsZero() {
			buf.WriteString(`<time datetime="` + fm.Date.Format("2006-01-02T15:04:05Z07:00") + `">` +
				fm.Date.Format("Jan 2, 2006") + "</time>")
		}
		buf.WriteString("</header>\n")
	}
	if err := markdown.Convert(body, &buf); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "render html")
	}
	if fm.Title != "" {
		buf.WriteString("</article>\n")
	}
	return buf.Bytes(), nil
}
