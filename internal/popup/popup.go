// Package popup drives a page's content script the way the extension
// popup does: make sure the script is loaded, then send one request.
package popup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"contentsearch/internal/config"
	"contentsearch/internal/message"
)

var (
	// ErrNotReachable means the content script did not answer even after
	// injection.
	ErrNotReachable = errors.New("popup: content script not reachable")
	// ErrNotGoldenDomain means the page is not on a golden-call domain.
	ErrNotGoldenDomain = errors.New("popup: page is not on a golden-call domain")
)

// Tab is a browser tab that can host the content script.
type Tab interface {
	URL(ctx context.Context) (string, error)
	// Send delivers req to the content script. It fails when no script
	// is listening.
	Send(ctx context.Context, req message.Request) (message.Response, error)
	// Inject loads the content script into the page.
	Inject(ctx context.Context) error
}

// Controller issues popup actions against one tab.
type Controller struct {
	tab Tab
	cfg *config.Config
	log *slog.Logger
}

// New creates a controller. A nil cfg uses config.Default.
func New(tab Tab, cfg *config.Config, logger *slog.Logger) *Controller {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{tab: tab, cfg: cfg, log: logger}
}

// ensureLoaded pings the content script, injecting it when the ping fails.
func (c *Controller) ensureLoaded(ctx context.Context) error {
	if resp, err := c.tab.Send(ctx, message.Request{Action: message.ActionPing}); err == nil && resp.Success {
		return nil
	}
	c.log.Debug("popup: content script not loaded, injecting")
	if err := c.tab.Inject(ctx); err != nil {
		return fmt.Errorf("popup: inject: %w", err)
	}
	resp, err := c.tab.Send(ctx, message.Request{Action: message.ActionPing})
	if err != nil || !resp.Success {
		return ErrNotReachable
	}
	return nil
}

func (c *Controller) send(ctx context.Context, req message.Request) (message.Response, error) {
	if err := c.ensureLoaded(ctx); err != nil {
		return message.Response{}, err
	}
	resp, err := c.tab.Send(ctx, req)
	if err != nil {
		return message.Response{}, fmt.Errorf("popup: send %s: %w", req.Action, err)
	}
	return resp, nil
}

// Search highlights term in the tab and returns the match count.
func (c *Controller) Search(ctx context.Context, term string) (int, error) {
	resp, err := c.send(ctx, message.Request{Action: message.ActionSearch, SearchTerm: term})
	if err != nil {
		return 0, err
	}
	if !resp.Success {
		return 0, fmt.Errorf("popup: search: %s", resp.Error)
	}
	c.log.Info("popup: search done", "term", term, "matches", resp.MatchCount)
	return resp.MatchCount, nil
}

// SearchOption searches for the value of the option with the given label.
func (c *Controller) SearchOption(ctx context.Context, label string) (int, error) {
	opt, ok := c.cfg.Lookup(label)
	if !ok {
		return 0, fmt.Errorf("popup: no search option %q", label)
	}
	return c.Search(ctx, opt.SearchValue)
}

// Clear removes the tab's highlights.
func (c *Controller) Clear(ctx context.Context) error {
	resp, err := c.send(ctx, message.Request{Action: message.ActionClear})
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("popup: clear: %s", resp.Error)
	}
	return nil
}

// Golden reads the golden identifier from a page on a golden-call domain.
func (c *Controller) Golden(ctx context.Context) (string, error) {
	u, err := c.tab.URL(ctx)
	if err != nil {
		return "", fmt.Errorf("popup: tab url: %w", err)
	}
	if !c.cfg.IsGoldenDomain(u) {
		return "", ErrNotGoldenDomain
	}
	resp, err := c.send(ctx, message.Request{Action: message.ActionGetGolden})
	if err != nil {
		return "", err
	}
	if !resp.Success {
		return "", fmt.Errorf("popup: golden: %s", resp.Error)
	}
	return resp.GoldenID, nil
}

// ActiveTab picks the popup tab for the page. URL lookup failures fall
// back to the default tab.
func (c *Controller) ActiveTab(ctx context.Context) config.Tab {
	u, err := c.tab.URL(ctx)
	if err != nil {
		c.log.Warn("popup: tab url lookup failed", "error", err)
		return c.cfg.TabConfig.DefaultTab
	}
	return c.cfg.TabFor(u)
}
