// Package dom provides a small typed query layer over parsed HTML.
//
// Selectors are compiled once with cascadia and evaluated through goquery,
// so callers never pass raw selector strings around at query time.
package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Query is a compiled CSS selector.
type Query struct {
	raw string
	sel cascadia.Selector
}

// Compile compiles a CSS selector into a Query.
func Compile(selector string) (Query, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return Query{}, fmt.Errorf("compile selector %q: %w", selector, err)
	}
	return Query{raw: selector, sel: sel}, nil
}

// ByID builds a query for a tag with the given id. An empty tag matches any element.
func ByID(tag, id string) (Query, error) {
	return Compile(fmt.Sprintf("%s[id=%q]", tag, id))
}

// ByClass builds a query for a tag carrying the given class token.
func ByClass(tag, class string) (Query, error) {
	return Compile(fmt.Sprintf("%s[class~=%q]", tag, class))
}

// String returns the selector source.
func (q Query) String() string {
	return q.raw
}

// Document is a parsed HTML document.
type Document struct {
	doc *goquery.Document
}

// Parse parses an HTML document from r.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{doc: goquery.NewDocumentFromNode(root)}, nil
}

// ParseString parses an HTML document held in memory.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Root returns the document root as a Node.
func (d *Document) Root() Node {
	return Node{sel: d.doc.Selection}
}

// FindByID returns the first element with the given tag and id.
func (d *Document) FindByID(tag, id string) (Node, bool) {
	q, err := ByID(tag, id)
	if err != nil {
		return Node{}, false
	}
	return d.Root().First(q)
}

// Title returns the document title text.
func (d *Document) Title() string {
	return normalizeSpace(d.doc.Find("title").First().Text())
}

// Node is a single element inside a Document. The zero Node is empty.
type Node struct {
	sel *goquery.Selection
}

// Exists reports whether the node refers to an element.
func (n Node) Exists() bool {
	return n.sel != nil && n.sel.Length() > 0
}

// First returns the first descendant matching q.
func (n Node) First(q Query) (Node, bool) {
	if !n.Exists() || q.sel == nil {
		return Node{}, false
	}
	found := n.sel.FindMatcher(q.sel).First()
	if found.Length() == 0 {
		return Node{}, false
	}
	return Node{sel: found}, true
}

// All returns every descendant matching q in document order.
func (n Node) All(q Query) []Node {
	if !n.Exists() || q.sel == nil {
		return nil
	}
	found := n.sel.FindMatcher(q.sel)
	nodes := make([]Node, 0, found.Length())
	found.Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, Node{sel: s})
	})
	return nodes
}

// Text returns the element's text with runs of whitespace collapsed and
// leading and trailing whitespace removed. An empty node yields "".
func (n Node) Text() string {
	if !n.Exists() {
		return ""
	}
	return normalizeSpace(n.sel.Text())
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
