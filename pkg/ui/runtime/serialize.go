package runtime

import (
	"strings"
	"time"
)

// Tag marks how a node contributes to a serialized Document.
type Tag int

const (
	// TagBody nodes contribute to the field list.
	TagBody Tag = iota
	TagSymbol
	TagStrategy
	TagPortfolio
	// TagSkip removes the node and its subtree from serialization.
	TagSkip
)

func (t Tag) String() string {
	switch t {
	case TagSymbol:
		return "symbol"
	case TagStrategy:
		return "strategy"
	case TagPortfolio:
		return "portfolio"
	case TagSkip:
		return "skip"
	default:
		return "body"
	}
}

// ParseTag maps a tag name to a Tag. Empty and unknown names are TagBody.
func ParseTag(name string) (Tag, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "body":
		return TagBody, true
	case "symbol":
		return TagSymbol, true
	case "strategy":
		return TagStrategy, true
	case "portfolio":
		return TagPortfolio, true
	case "skip":
		return TagSkip, true
	default:
		return TagBody, false
	}
}

// Field is one label/value line of a form.
type Field struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// Document is the structured text extracted from a form.
type Document struct {
	Symbol    string    `json:"symbol" yaml:"symbol"`
	Strategy  string    `json:"strategy" yaml:"strategy"`
	Portfolio string    `json:"portfolio" yaml:"portfolio"`
	Date      time.Time `json:"date" yaml:"date"`
	Fields    []Field   `json:"fields" yaml:"fields"`
}

// Title is "<symbol> - <strategy>".
func (d *Document) Title() string {
	return d.Symbol + " - " + d.Strategy
}

// WithTag sets the node's serialization tag.
func (n *Node) WithTag(t Tag) *Node {
	n.tag = t
	return n
}

func (n *Node) Tag() Tag { return n.tag }

// Text returns the rendered text of the subtree. Leaves with text stop the
// walk; containers join their children's text with spaces.
func (n *Node) Text() string {
	if n.tag == TagSkip {
		return ""
	}
	if s, ok := n.behavior.text(); ok {
		return s
	}
	var parts []string
	for _, c := range n.children {
		if s := c.Text(); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// Serialize extracts the subtree into doc. Tagged nodes fill the document
// header; each grid row becomes a field whose label is the first cell.
func (n *Node) Serialize(doc *Document) {
	switch n.tag {
	case TagSkip:
		return
	case TagSymbol:
		doc.Symbol = n.Text()
	case TagStrategy:
		doc.Strategy = n.Text()
	case TagPortfolio:
		doc.Portfolio = n.Text()
	}

	if g, ok := n.layout.(*Grid); ok {
		n.serializeRows(g, doc)
		return
	}
	if _, ok := n.behavior.text(); ok {
		return
	}
	for _, c := range n.children {
		c.Serialize(doc)
	}
}

func (n *Node) serializeRows(g *Grid, doc *Document) {
	cols := max(g.Columns, 1)
	for start := 0; start < len(n.children); start += cols {
		row := n.children[start:min(start+cols, len(n.children))]
		var cells []string
		for _, c := range row {
			c.serializeHeader(doc)
			if c.tag == TagSkip {
				continue
			}
			cells = append(cells, c.Text())
		}
		if len(cells) == 0 {
			continue
		}
		doc.Fields = append(doc.Fields, Field{
			Label: strings.TrimSuffix(strings.TrimSpace(cells[0]), ":"),
			Value: strings.Join(nonEmpty(cells[1:]), " "),
		})
	}
}

// serializeHeader fills the document header from tagged nodes in the
// subtree without adding fields.
func (n *Node) serializeHeader(doc *Document) {
	switch n.tag {
	case TagSkip:
		return
	case TagSymbol:
		doc.Symbol = n.Text()
	case TagStrategy:
		doc.Strategy = n.Text()
	case TagPortfolio:
		doc.Portfolio = n.Text()
	}
	for _, c := range n.children {
		c.serializeHeader(doc)
	}
}

func nonEmpty(ss []string) []string {
	out := ss[:0:0]
	for _, s := range ss {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
