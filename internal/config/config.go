// Package config holds the search option list, popup tab routing and
// engine settings, loaded from YAML or from the option store.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"contentsearch/internal/highlight"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Tab is a popup tab.
type Tab string

const (
	TabSearch        Tab = "search"
	TabGoldenCall    Tab = "goldencall"
	TabConfiguration Tab = "configuration"
)

// SearchOption is a pre-configured search term offered by the popup.
type SearchOption struct {
	Label       string `yaml:"label" json:"label"`
	SearchValue string `yaml:"search_value" json:"searchValue"`
}

// TabConfig picks the popup tab shown on open.
type TabConfig struct {
	DefaultTab     Tab  `yaml:"default_tab" json:"defaultTab"`
	AutoSwitchTabs bool `yaml:"auto_switch_tabs" json:"autoSwitchTabs"`
}

// EngineConfig tunes the highlight engine.
type EngineConfig struct {
	StatusDelay    time.Duration `yaml:"status_delay" json:"statusDelay"`
	HighlightClass string        `yaml:"highlight_class" json:"highlightClass"`
	CounterClass   string        `yaml:"counter_class" json:"counterClass"`
}

// Options maps the settings onto engine options. Zero fields keep the
// engine's own defaults.
func (c EngineConfig) Options() highlight.Options {
	return highlight.Options{
		HighlightClass: c.HighlightClass,
		CounterClass:   c.CounterClass,
		StatusDelay:    c.StatusDelay,
	}
}

// APIConfig points at the golden-call API.
type APIConfig struct {
	URL         string `yaml:"url" json:"url"`
	Token       string `yaml:"token" json:"token"`
	Environment string `yaml:"environment" json:"environment"`
}

// Config is the full configuration.
type Config struct {
	Options       []SearchOption `yaml:"options" json:"options"`
	Version       string         `yaml:"version" json:"version,omitempty"`
	TabConfig     TabConfig      `yaml:"tab_config" json:"tabConfig"`
	GoldenDomains []string       `yaml:"golden_domains" json:"goldenDomains,omitempty"`
	SearchDomains []string       `yaml:"search_domains" json:"searchDomains,omitempty"`
	Engine        EngineConfig   `yaml:"engine" json:"engine"`
	API           APIConfig      `yaml:"api" json:"api"`
}

// LogOptions are the quick log-level searches.
var LogOptions = []SearchOption{
	{Label: "Error", SearchValue: "Error"},
	{Label: "Warning", SearchValue: "Warning"},
	{Label: "Info", SearchValue: "Info"},
	{Label: "Debug", SearchValue: "Debug"},
	{Label: "Exception", SearchValue: "Exception"},
	{Label: "Failed", SearchValue: "Failed"},
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Options: []SearchOption{
			{Label: "envMode", SearchValue: "envMode"},
			{Label: "featureFlags - Output field params parsed", SearchValue: "Output field params parsed"},
			{Label: "keyValuePairs", SearchValue: "New KVP log"},
			{Label: "ws-request", SearchValue: "Api Request builder"},
			{Label: "ws-response-fields", SearchValue: "Output field params parsed"},
			{Label: "ws-response-WsResponseDto", SearchValue: "WsResponseDto"},
		},
		Version:       "1.0.0",
		TabConfig:     TabConfig{DefaultTab: TabGoldenCall, AutoSwitchTabs: true},
		GoldenDomains: []string{"github.com"},
		SearchDomains: []string{".emol.com"},
		Engine: EngineConfig{
			StatusDelay:    highlight.DefaultStatusDelay,
			HighlightClass: highlight.HighlightClass,
			CounterClass:   highlight.CounterClass,
		},
		API: APIConfig{
			URL:         "https://api.example.com",
			Environment: "production",
		},
	}
}

// LoadFile reads a YAML configuration file. Keys absent from the file keep
// their defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyDefaults fills zero-valued settings.
func (c *Config) ApplyDefaults() {
	def := Default()
	if c.Options == nil {
		c.Options = def.Options
	}
	if c.TabConfig.DefaultTab == "" {
		c.TabConfig.DefaultTab = def.TabConfig.DefaultTab
	}
	if c.Engine.StatusDelay <= 0 {
		c.Engine.StatusDelay = def.Engine.StatusDelay
	}
	if c.Engine.HighlightClass == "" {
		c.Engine.HighlightClass = def.Engine.HighlightClass
	}
	if c.Engine.CounterClass == "" {
		c.Engine.CounterClass = def.Engine.CounterClass
	}
}

// Validate checks that every option has a label and a search value and
// that the default tab is known.
func (c *Config) Validate() error {
	if c.Options == nil {
		return fmt.Errorf("%w: options missing", ErrInvalid)
	}
	for i, o := range c.Options {
		if strings.TrimSpace(o.Label) == "" {
			return fmt.Errorf("%w: option %d has no label", ErrInvalid, i)
		}
		if strings.TrimSpace(o.SearchValue) == "" {
			return fmt.Errorf("%w: option %q has no search value", ErrInvalid, o.Label)
		}
	}
	switch c.TabConfig.DefaultTab {
	case TabSearch, TabGoldenCall, TabConfiguration:
	default:
		return fmt.Errorf("%w: unknown default tab %q", ErrInvalid, c.TabConfig.DefaultTab)
	}
	return nil
}

// Filter returns the options whose label or search value contains query,
// ignoring case. An empty query returns every option.
func (c *Config) Filter(query string) []SearchOption {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return append([]SearchOption(nil), c.Options...)
	}
	var out []SearchOption
	for _, o := range c.Options {
		if strings.Contains(strings.ToLower(o.Label), q) || strings.Contains(strings.ToLower(o.SearchValue), q) {
			out = append(out, o)
		}
	}
	return out
}

// Lookup returns the option with the given label.
func (c *Config) Lookup(label string) (SearchOption, bool) {
	for _, o := range c.Options {
		if o.Label == label {
			return o, true
		}
	}
	return SearchOption{}, false
}
