// Package browser runs the content script in real Chrome pages through
// go-rod. A Tab satisfies popup.Tab.
package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"contentsearch/internal/message"
)

// ErrNoListener means the page has no content script to answer.
var ErrNoListener = errors.New("browser: no content script in page")

// Config controls how Chrome is obtained.
type Config struct {
	// RemoteURL connects to a running browser's DevTools endpoint.
	// Empty launches a local Chrome.
	RemoteURL string
	Headless  bool
	Stealth   bool
	// Bundle is the compiled content script.
	Bundle     []byte
	NavTimeout time.Duration
	Logger     *slog.Logger
}

// Browser is a connected Chrome instance.
type Browser struct {
	b    *rod.Browser
	lnch *launcher.Launcher
	cfg  Config
}

// Launch starts or connects to Chrome.
func Launch(ctx context.Context, cfg Config) (*Browser, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.NavTimeout <= 0 {
		cfg.NavTimeout = 30 * time.Second
	}
	log := cfg.Logger

	var lnch *launcher.Launcher
	wsURL := cfg.RemoteURL
	if wsURL == "" {
		lnch = launcher.New().Context(ctx).Headless(cfg.Headless)
		u, err := lnch.Launch()
		if err != nil {
			return nil, fmt.Errorf("browser: launch: %w", err)
		}
		wsURL = u
		log.Info("browser: launched local chrome", "url", wsURL, "headless", cfg.Headless)
	} else {
		log.Info("browser: connecting to remote", "url", wsURL)
	}

	b := rod.New().Context(ctx).ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		if lnch != nil {
			lnch.Kill()
		}
		return nil, fmt.Errorf("browser: connect: %w", err)
	}
	return &Browser{b: b, lnch: lnch, cfg: cfg}, nil
}

// Close shuts the browser down.
func (br *Browser) Close() error {
	err := br.b.Close()
	if br.lnch != nil {
		br.lnch.Kill()
	}
	return err
}

// Open navigates a new tab to pageURL and waits for it to load.
func (br *Browser) Open(ctx context.Context, pageURL string) (*Tab, error) {
	var page *rod.Page
	var err error
	if br.cfg.Stealth {
		page, err = stealth.Page(br.b)
	} else {
		page, err = br.b.Page(proto.TargetCreateTarget{URL: ""})
	}
	if err != nil {
		return nil, fmt.Errorf("browser: create tab: %w", err)
	}

	navCtx, cancel := context.WithTimeout(ctx, br.cfg.NavTimeout)
	defer cancel()
	if err := page.Context(navCtx).Navigate(pageURL); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("browser: navigate %s: %w", pageURL, err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		br.cfg.Logger.Warn("browser: wait load timeout", "url", pageURL, "error", err)
	}
	return &Tab{page: page, bundle: string(br.cfg.Bundle)}, nil
}

// Tab is one page that can host the content script.
type Tab struct {
	page   *rod.Page
	bundle string
}

func (t *Tab) URL(ctx context.Context) (string, error) {
	info, err := t.page.Context(ctx).Info()
	if err != nil {
		return "", fmt.Errorf("browser: page info: %w", err)
	}
	return info.URL, nil
}

// Inject evaluates the bundle in the page's main world.
func (t *Tab) Inject(ctx context.Context) error {
	if t.bundle == "" {
		return errors.New("browser: no content script bundle configured")
	}
	res, err := proto.RuntimeEvaluate{Expression: t.bundle}.Call(t.page.Context(ctx))
	if err != nil {
		return fmt.Errorf("browser: inject: %w", err)
	}
	if res.ExceptionDetails != nil {
		return fmt.Errorf("browser: inject: %s", res.ExceptionDetails.Text)
	}
	return nil
}

const dispatchJS = `(msg) => window.contentSearch ? window.contentSearch.dispatch(msg) : null`

func (t *Tab) Send(ctx context.Context, req message.Request) (message.Response, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return message.Response{}, fmt.Errorf("browser: encode request: %w", err)
	}
	res, err := t.page.Context(ctx).Eval(dispatchJS, string(data))
	if err != nil {
		return message.Response{}, fmt.Errorf("browser: dispatch: %w", err)
	}
	if res.Value.Nil() {
		return message.Response{}, ErrNoListener
	}
	var resp message.Response
	if err := json.Unmarshal([]byte(res.Value.Str()), &resp); err != nil {
		return message.Response{}, fmt.Errorf("browser: decode response: %w", err)
	}
	return resp, nil
}

// HTML returns the page's current markup.
func (t *Tab) HTML(ctx context.Context) (string, error) {
	res, err := t.page.Context(ctx).Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return "", fmt.Errorf("browser: get DOM: %w", err)
	}
	return res.Value.Str(), nil
}

// Close closes the tab.
func (t *Tab) Close() error {
	return t.page.Close()
}
