// Package golden derives a page's golden identifier, a string a user can
// feed back as a search term, and talks to the golden-call API.
package golden

import (
	"net/url"
	"regexp"
	"strings"

	"contentsearch/internal/dom"
)

// Selectors are tried in order; the first element with non-blank text wins.
var Selectors = []string{
	".p-nickname.vcard-username.d-block",
	`[data-hovercard-type="user"] .p-nickname`,
	".vcard-username",
	".p-nickname",
	`[itemprop="additionalName"]`,
}

var urlPattern = regexp.MustCompile(`github\.com/([^/?#]+)`)

// FromPage looks up the identifier in the document, falling back to the
// page URL.
func FromPage(doc dom.Document) (string, bool) {
	for _, sel := range Selectors {
		el := doc.QuerySelector(sel)
		if el == nil {
			continue
		}
		if id := strings.TrimSpace(el.Text()); id != "" {
			return id, true
		}
	}
	return FromURL(doc.URL())
}

// FromURL extracts the first path segment of a github.com address.
func FromURL(raw string) (string, bool) {
	if u, err := url.Parse(raw); err == nil && strings.HasSuffix(u.Hostname(), "github.com") {
		seg, _, _ := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
		if seg != "" {
			return seg, true
		}
		return "", false
	}
	m := urlPattern.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	return m[1], true
}
