package config

import (
	"net/url"
	"strings"
)

// IsGoldenDomain reports whether pageURL's host belongs to a golden-call domain.
func (c *Config) IsGoldenDomain(pageURL string) bool {
	return matchDomain(pageURL, c.GoldenDomains)
}

// IsSearchDomain reports whether pageURL's host belongs to a search domain.
func (c *Config) IsSearchDomain(pageURL string) bool {
	return matchDomain(pageURL, c.SearchDomains)
}

// TabFor picks the popup tab for a page: golden-call domains first, then
// search domains, then the default tab. With auto-switching off it is
// always the default tab.
func (c *Config) TabFor(pageURL string) Tab {
	if !c.TabConfig.AutoSwitchTabs || pageURL == "" {
		return c.TabConfig.DefaultTab
	}
	switch {
	case c.IsGoldenDomain(pageURL):
		return TabGoldenCall
	case c.IsSearchDomain(pageURL):
		return TabSearch
	default:
		return c.TabConfig.DefaultTab
	}
}

// matchDomain tests the host, or the raw string when it does not parse as
// an absolute URL.
func matchDomain(pageURL string, domains []string) bool {
	target := pageURL
	if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
		target = u.Hostname()
	}
	for _, d := range domains {
		if d != "" && strings.Contains(target, d) {
			return true
		}
	}
	return false
}
