// Package dom is the slice of the DOM API the highlighter is written
// against. It is implemented over a live page (jsdom) and over documents
// parsed with golang.org/x/net/html (htmldom), so the same search and
// restore logic runs in the browser and offline.
package dom

import "errors"

// ErrDetached is returned when an operation needs a parent and the node
// has none.
var ErrDetached = errors.New("dom: node is not attached")

// Kind classifies a node.
type Kind int

const (
	Other Kind = iota
	Element
	Text
)

// Node is a single DOM node. Methods returning Node return a nil
// interface (never a typed nil) when there is nothing to return.
type Node interface {
	Kind() Kind
	// Tag is the lowercase element name, "" for non-elements.
	Tag() string
	// Text is nodeValue for text nodes and textContent for elements.
	Text() string
	SetText(s string)

	Parent() Node
	FirstChild() Node
	NextSibling() Node

	HasClass(name string) bool
	AddClass(name string)
	RemoveClass(name string)
	Attr(key string) string
	SetAttr(key, val string)
	SetStyle(prop, val string)

	// ReplaceWith swaps the node for nodes, in order, in one step.
	ReplaceWith(nodes ...Node) error
	AppendChild(child Node)
	Remove()
	// Normalize merges adjacent text nodes and drops empty ones in the
	// node's subtree.
	Normalize()
	ScrollIntoView()
}

// Document creates nodes and exposes the content root.
type Document interface {
	// Body is the content root, nil if the document has none.
	Body() Node
	CreateText(data string) Node
	CreateElement(tag string) Node
	// QuerySelector returns the first element matching sel, or nil.
	QuerySelector(sel string) Node
	URL() string
}

// Walk visits root and its descendants in document order. Children of a
// node are skipped when visit returns false for it.
func Walk(root Node, visit func(Node) bool) {
	if root == nil {
		return
	}
	if !visit(root) {
		return
	}
	for c := root.FirstChild(); c != nil; c = c.NextSibling() {
		Walk(c, visit)
	}
}

// ParentElement returns the nearest ancestor that is an element.
func ParentElement(n Node) Node {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.Kind() == Element {
			return p
		}
	}
	return nil
}
