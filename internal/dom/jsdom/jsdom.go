// Package jsdom implements dom over the live page through GopherJS.
package jsdom

import (
	"strings"

	"github.com/gopherjs/gopherjs/js"

	"contentsearch/internal/dom"
)

// DOM nodeType values.
const (
	elementNode = 1
	textNode    = 3
)

// Document wraps a browser document.
type Document struct {
	o *js.Object
}

// New wraps doc, normally js.Global.Get("document").
func New(doc *js.Object) *Document {
	return &Document{o: doc}
}

func (d *Document) Body() dom.Node { return wrap(d.o.Get("body")) }

func (d *Document) CreateText(data string) dom.Node {
	return wrap(d.o.Call("createTextNode", data))
}

func (d *Document) CreateElement(tag string) dom.Node {
	return wrap(d.o.Call("createElement", tag))
}

func (d *Document) QuerySelector(sel string) dom.Node {
	return wrap(d.o.Call("querySelector", sel))
}

func (d *Document) URL() string {
	return d.o.Get("location").Get("href").String()
}

// Head returns the document head, nil if there is none.
func (d *Document) Head() dom.Node { return wrap(d.o.Get("head")) }

// ElementByID returns the element with id, nil if there is none.
func (d *Document) ElementByID(id string) dom.Node {
	return wrap(d.o.Call("getElementById", id))
}

type node struct {
	o *js.Object
}

func wrap(o *js.Object) dom.Node {
	if o == nil || o == js.Undefined {
		return nil
	}
	return &node{o: o}
}

// Unwrap returns the JS object behind n, nil if n is not from this package.
func Unwrap(n dom.Node) *js.Object {
	if x, ok := n.(*node); ok {
		return x.o
	}
	return nil
}

func (x *node) Kind() dom.Kind {
	switch x.o.Get("nodeType").Int() {
	case elementNode:
		return dom.Element
	case textNode:
		return dom.Text
	default:
		return dom.Other
	}
}

func (x *node) Tag() string {
	if x.Kind() != dom.Element {
		return ""
	}
	return strings.ToLower(x.o.Get("nodeName").String())
}

func (x *node) Text() string {
	if x.Kind() == dom.Text {
		return x.o.Get("nodeValue").String()
	}
	return x.o.Get("textContent").String()
}

func (x *node) SetText(s string) {
	if x.Kind() == dom.Text {
		x.o.Set("nodeValue", s)
		return
	}
	x.o.Set("textContent", s)
}

func (x *node) Parent() dom.Node      { return wrap(x.o.Get("parentNode")) }
func (x *node) FirstChild() dom.Node  { return wrap(x.o.Get("firstChild")) }
func (x *node) NextSibling() dom.Node { return wrap(x.o.Get("nextSibling")) }

func (x *node) classList() *js.Object {
	cl := x.o.Get("classList")
	if cl == js.Undefined {
		return nil
	}
	return cl
}

func (x *node) HasClass(name string) bool {
	cl := x.classList()
	return cl != nil && cl.Call("contains", name).Bool()
}

func (x *node) AddClass(name string) {
	if cl := x.classList(); cl != nil {
		cl.Call("add", name)
	}
}

func (x *node) RemoveClass(name string) {
	if cl := x.classList(); cl != nil {
		cl.Call("remove", name)
	}
}

func (x *node) Attr(key string) string {
	if x.Kind() != dom.Element {
		return ""
	}
	v := x.o.Call("getAttribute", key)
	if v == nil {
		return ""
	}
	return v.String()
}

func (x *node) SetAttr(key, val string) {
	if x.Kind() == dom.Element {
		x.o.Call("setAttribute", key, val)
	}
}

func (x *node) SetStyle(prop, val string) {
	if x.Kind() == dom.Element {
		x.o.Get("style").Call("setProperty", prop, val)
	}
}

// ReplaceWith builds the replacement in a fragment so the page sees a
// single replaceChild.
func (x *node) ReplaceWith(nodes ...dom.Node) error {
	parent := x.o.Get("parentNode")
	if parent == nil || parent == js.Undefined {
		return dom.ErrDetached
	}
	frag := x.o.Get("ownerDocument").Call("createDocumentFragment")
	for _, n := range nodes {
		if o := Unwrap(n); o != nil {
			frag.Call("appendChild", o)
		}
	}
	parent.Call("replaceChild", frag, x.o)
	return nil
}

func (x *node) AppendChild(child dom.Node) {
	if o := Unwrap(child); o != nil {
		x.o.Call("appendChild", o)
	}
}

func (x *node) Remove() {
	parent := x.o.Get("parentNode")
	if parent != nil && parent != js.Undefined {
		parent.Call("removeChild", x.o)
	}
}

func (x *node) Normalize() { x.o.Call("normalize") }

func (x *node) ScrollIntoView() {
	if x.o.Get("scrollIntoView") == js.Undefined {
		return
	}
	x.o.Call("scrollIntoView", map[string]interface{}{
		"behavior": "smooth",
		"block":    "center",
	})
}
