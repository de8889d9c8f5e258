// Package htmldom implements dom.Document over golang.org/x/net/html trees.
package htmldom

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"contentsearch/internal/dom"
)

// Document is a parsed HTML document.
type Document struct {
	root     *html.Node
	url      string
	scrolled *html.Node
}

// Parse reads an HTML document. pageURL is reported by URL and may be empty.
func Parse(r io.Reader, pageURL string) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("htmldom: parse: %w", err)
	}
	return &Document{root: root, url: pageURL}, nil
}

// ParseString is Parse over a string.
func ParseString(s, pageURL string) (*Document, error) {
	return Parse(strings.NewReader(s), pageURL)
}

// Root returns the underlying document node.
func (d *Document) Root() *html.Node { return d.root }

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// String renders the document, or returns "" if rendering fails.
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// Scrolled returns the node last scrolled into view, if any.
func (d *Document) Scrolled() dom.Node {
	return d.wrap(d.scrolled)
}

func (d *Document) URL() string { return d.url }

func (d *Document) Body() dom.Node {
	var body *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if body != nil {
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Body {
			body = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.root)
	return d.wrap(body)
}

func (d *Document) CreateText(data string) dom.Node {
	return d.wrap(&html.Node{Type: html.TextNode, Data: data})
}

func (d *Document) CreateElement(tag string) dom.Node {
	tag = strings.ToLower(tag)
	return d.wrap(&html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))})
}

func (d *Document) QuerySelector(sel string) dom.Node {
	return d.wrap(querySelector(d.root, sel))
}

// Wrap exposes an existing node of this document.
func (d *Document) Wrap(n *html.Node) dom.Node { return d.wrap(n) }

func (d *Document) wrap(n *html.Node) dom.Node {
	if n == nil {
		return nil
	}
	return &node{n: n, doc: d}
}

type node struct {
	n   *html.Node
	doc *Document
}

// Unwrap returns the html.Node behind a node created by this package.
func Unwrap(n dom.Node) (*html.Node, bool) {
	hn, ok := n.(*node)
	if !ok || hn == nil {
		return nil, false
	}
	return hn.n, true
}

func mustUnwrap(n dom.Node) *html.Node {
	hn, ok := Unwrap(n)
	if !ok {
		panic(fmt.Sprintf("htmldom: foreign node %T", n))
	}
	return hn
}

func (x *node) Kind() dom.Kind {
	switch x.n.Type {
	case html.ElementNode:
		return dom.Element
	case html.TextNode:
		return dom.Text
	default:
		return dom.Other
	}
}

func (x *node) Tag() string {
	if x.n.Type != html.ElementNode {
		return ""
	}
	return strings.ToLower(x.n.Data)
}

func (x *node) Text() string {
	if x.n.Type == html.TextNode {
		return x.n.Data
	}
	var sb strings.Builder
	collectText(x.n, &sb)
	return sb.String()
}

func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}

func (x *node) SetText(s string) {
	if x.n.Type == html.TextNode {
		x.n.Data = s
		return
	}
	for c := x.n.FirstChild; c != nil; {
		next := c.NextSibling
		x.n.RemoveChild(c)
		c = next
	}
	if s != "" {
		x.n.AppendChild(&html.Node{Type: html.TextNode, Data: s})
	}
}

func (x *node) Parent() dom.Node      { return x.doc.wrap(x.n.Parent) }
func (x *node) FirstChild() dom.Node  { return x.doc.wrap(x.n.FirstChild) }
func (x *node) NextSibling() dom.Node { return x.doc.wrap(x.n.NextSibling) }

func (x *node) HasClass(name string) bool {
	return hasClass(x.n, name)
}

func hasClass(n *html.Node, name string) bool {
	for _, c := range strings.Fields(getAttr(n, "class")) {
		if c == name {
			return true
		}
	}
	return false
}

func (x *node) AddClass(name string) {
	if x.n.Type != html.ElementNode || hasClass(x.n, name) {
		return
	}
	classes := append(strings.Fields(getAttr(x.n, "class")), name)
	setAttr(x.n, "class", strings.Join(classes, " "))
}

func (x *node) RemoveClass(name string) {
	if !hasClass(x.n, name) {
		return
	}
	var kept []string
	for _, c := range strings.Fields(getAttr(x.n, "class")) {
		if c != name {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		removeAttr(x.n, "class")
		return
	}
	setAttr(x.n, "class", strings.Join(kept, " "))
}

func (x *node) Attr(key string) string { return getAttr(x.n, key) }

func (x *node) SetAttr(key, val string) {
	if x.n.Type == html.ElementNode {
		setAttr(x.n, key, val)
	}
}

// SetStyle sets one inline declaration, replacing an existing one for prop.
func (x *node) SetStyle(prop, val string) {
	if x.n.Type != html.ElementNode {
		return
	}
	var decls []string
	for _, d := range strings.Split(getAttr(x.n, "style"), ";") {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		name, _, _ := strings.Cut(d, ":")
		if strings.TrimSpace(name) == prop {
			continue
		}
		decls = append(decls, d)
	}
	decls = append(decls, prop+": "+val)
	setAttr(x.n, "style", strings.Join(decls, "; "))
}

func (x *node) ReplaceWith(nodes ...dom.Node) error {
	parent := x.n.Parent
	if parent == nil {
		return dom.ErrDetached
	}
	repl := make([]*html.Node, 0, len(nodes))
	for _, n := range nodes {
		hn, ok := Unwrap(n)
		if !ok {
			return fmt.Errorf("htmldom: replace with foreign node %T", n)
		}
		repl = append(repl, hn)
	}
	for _, hn := range repl {
		detach(hn)
		parent.InsertBefore(hn, x.n)
	}
	parent.RemoveChild(x.n)
	return nil
}

func (x *node) AppendChild(child dom.Node) {
	hn := mustUnwrap(child)
	detach(hn)
	x.n.AppendChild(hn)
}

func (x *node) Remove() { detach(x.n) }

func (x *node) Normalize() { normalize(x.n) }

func normalize(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		switch c.Type {
		case html.TextNode:
			if c.Data == "" {
				n.RemoveChild(c)
			} else if prev := c.PrevSibling; prev != nil && prev.Type == html.TextNode {
				prev.Data += c.Data
				n.RemoveChild(c)
			}
		case html.ElementNode:
			normalize(c)
		}
		c = next
	}
}

func (x *node) ScrollIntoView() { x.doc.scrolled = x.n }

func detach(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}
