package htmldom

import (
	"strings"

	"golang.org/x/net/html"
)

// Supported selector subset:
//   - tag: "span"
//   - classes: ".p-nickname", ".vcard-username.d-block"
//   - id: "#main"
//   - attributes: "[itemprop]", `[data-hovercard-type="user"]`
//   - compounds of the above: "span.p-nickname[itemprop]"
//   - descendant combinator: `[data-hovercard-type="user"] .p-nickname`

type compound struct {
	tag     string
	id      string
	classes []string
	attrs   []attrSel
}

type attrSel struct {
	key    string
	val    string
	hasVal bool
}

func parseCompound(sel string) compound {
	var c compound
	for {
		open := strings.IndexByte(sel, '[')
		if open < 0 {
			break
		}
		end := strings.IndexByte(sel[open:], ']')
		if end < 0 {
			break
		}
		body := sel[open+1 : open+end]
		sel = sel[:open] + sel[open+end+1:]
		if k, v, ok := strings.Cut(body, "="); ok {
			c.attrs = append(c.attrs, attrSel{key: k, val: strings.Trim(v, `"'`), hasVal: true})
		} else {
			c.attrs = append(c.attrs, attrSel{key: body})
		}
	}

	// Remaining form: tag, then any mix of .class and #id.
	i := strings.IndexAny(sel, ".#")
	if i < 0 {
		c.tag = strings.ToLower(sel)
		return c
	}
	c.tag = strings.ToLower(sel[:i])
	rest := sel[i:]
	for rest != "" {
		marker := rest[0]
		rest = rest[1:]
		j := strings.IndexAny(rest, ".#")
		if j < 0 {
			j = len(rest)
		}
		name := rest[:j]
		rest = rest[j:]
		if name == "" {
			continue
		}
		if marker == '.' {
			c.classes = append(c.classes, name)
		} else {
			c.id = name
		}
	}
	return c
}

func (c compound) matches(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if c.tag != "" && c.tag != "*" && n.Data != c.tag {
		return false
	}
	if c.id != "" && getAttr(n, "id") != c.id {
		return false
	}
	for _, cls := range c.classes {
		if !hasClass(n, cls) {
			return false
		}
	}
	for _, a := range c.attrs {
		if a.hasVal {
			if getAttr(n, a.key) != a.val {
				return false
			}
		} else if !hasAttr(n, a.key) {
			return false
		}
	}
	return true
}

// matchesChain reports whether n matches the last compound and its
// ancestors match the preceding ones, in order.
func matchesChain(n *html.Node, chain []compound) bool {
	last := len(chain) - 1
	if !chain[last].matches(n) {
		return false
	}
	i := last - 1
	for p := n.Parent; p != nil && i >= 0; p = p.Parent {
		if chain[i].matches(p) {
			i--
		}
	}
	return i < 0
}

func querySelector(root *html.Node, sel string) *html.Node {
	parts := strings.Fields(sel)
	if len(parts) == 0 {
		return nil
	}
	chain := make([]compound, len(parts))
	for i, p := range parts {
		chain[i] = parseCompound(p)
	}

	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if matchesChain(n, chain) {
			found = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return found
}
