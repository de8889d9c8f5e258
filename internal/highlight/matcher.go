package highlight

import "contentsearch/internal/dom"

// excludedTags hold no rendered page text.
var excludedTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"iframe":   true,
}

// Collect returns, in document order, the text nodes under root that
// contain the pattern. Subtrees of excluded tags and of elements carrying
// any of artifactClasses (the engine's own markers and status element)
// are not entered. The tree is not modified.
func Collect(root dom.Node, p *Pattern, artifactClasses ...string) []dom.Node {
	var nodes []dom.Node
	dom.Walk(root, func(n dom.Node) bool {
		switch n.Kind() {
		case dom.Text:
			if accept(n, p, artifactClasses) {
				nodes = append(nodes, n)
			}
			return false
		case dom.Element:
			return !isExcluded(n, artifactClasses)
		default:
			return true
		}
	})
	return nodes
}

func accept(n dom.Node, p *Pattern, artifactClasses []string) bool {
	parent := dom.ParentElement(n)
	if parent == nil || isExcluded(parent, artifactClasses) {
		return false
	}
	return p.Match(n.Text())
}

func isExcluded(el dom.Node, artifactClasses []string) bool {
	if excludedTags[el.Tag()] {
		return true
	}
	for _, cls := range artifactClasses {
		if el.HasClass(cls) {
			return true
		}
	}
	return false
}
