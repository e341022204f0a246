package journal

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/odvcencio/tradelog/pkg/errors"
	"github.com/odvcencio/tradelog/pkg/ui/runtime"
)

const frontMatterDelim = "---"

// FrontMatter is the YAML header of an entry file.
type FrontMatter struct {
	Title string    `yaml:"title"`
	Date  time.Time `yaml:"date"`
	Draft bool      `yaml:"draft"`
}

// RenderMarkdown renders doc as a front-mattered page with an Entry
// section listing the fields and a Log section dated by doc.Date.
func RenderMarkdown(doc runtime.Document) ([]byte, error) {
	fm, err := yaml.Marshal(FrontMatter{
		Title: doc.Title(),
		Date:  doc.Date.Truncate(time.Second),
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "encode front matter")
	}

	var buf bytes.Buffer
	buf.WriteString(frontMatterDelim + "\n")
	buf.Write(fm)
	buf.WriteString(frontMatterDelim + "\n")
	buf.WriteString("# Entry\n")
	for _, f := range doc.Fields {
		line := strings.TrimRight(fmt.Sprintf("* %s: %s", f.Label, strings.TrimSpace(f.Value)), " ")
		buf.WriteString(line + "\n")
	}
	fmt.Fprintf(&buf, "\n# Log\n* %d/%d/%d\n", int(doc.Date.Month()), doc.Date.Day(), doc.Date.Year())
	return buf.Bytes(), nil
}

// SplitFrontMatter separates the YAML header from the page body. Pages
// without a header return a zero FrontMatter and the input unchanged.
func SplitFrontMatter(page []byte) (FrontMatter, []byte, error) {
	var fm FrontMatter
	rest, ok := bytes.CutPrefix(page, []byte(frontMatterDelim+"\n"))
	if !ok {
		return fm, page, nil
	}
	header, body, ok := bytes.Cut(rest, []byte("\n"+frontMatterDelim+"\n"))
	if !ok {
		return fm, page, errors.New(errors.ErrCodeInvalidInput, "unterminated front matter")
	}
	if err := yaml.Unmarshal(header, &fm); err != nil {
		return fm, page, errors.Wrap(err, errors.ErrCodeInvalidInput, "decode front matter")
	}
	return fm, body, nil
}

// MarkdownPath is <dir>/<portfolio>/<symbol>.md with both names made safe
// for the filesystem.
func MarkdownPath(dir string, doc runtime.Document) string {
	return filepath.Join(dir, safeName(doc.Portfolio, "unfiled"), safeName(doc.Symbol, "untitled")+".md")
}

// WriteMarkdownFile renders doc under dir, replacing any previous file
// for the same portfolio and symbol, and returns the path written.
func WriteMarkdownFile(dir string, doc runtime.Document) (string, error) {
	page, err := RenderMarkdown(doc)
	if err != nil {
		return "", err
	}
	path := MarkdownPath(dir, doc)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeStorageWrite, "create markdown directory").
			WithContext("path", filepath.Dir(path))
	}
	if err := os.WriteFile(path, page, 0o644); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeStorageWrite, "write markdown").
			WithContext("path", path)
	}
	return path, nil
}

func safeName(name, fallback string) string {
	name = strings.TrimSpace(name)
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, name)
	if name == "" || name == "." || name == ".." {
		return fallback
	}
	return name
}
