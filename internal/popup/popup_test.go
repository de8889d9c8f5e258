package popup

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentsearch/internal/config"
	"contentsearch/internal/dom/htmldom"
	"contentsearch/internal/golden"
	"contentsearch/internal/highlight"
	"contentsearch/internal/message"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

var errNoListener = errors.New("no listener")

// fakeTab hosts a content script over a parsed page once injected.
type fakeTab struct {
	url       string
	html      string
	injectErr error

	handler *message.Handler
	engine  *highlight.Engine
	injects int
	sent    []message.Action
}

func (f *fakeTab) URL(context.Context) (string, error) { return f.url, nil }

func (f *fakeTab) Send(_ context.Context, req message.Request) (message.Response, error) {
	f.sent = append(f.sent, req.Action)
	if f.handler == nil {
		return message.Response{}, errNoListener
	}
	return f.handler.Handle(req), nil
}

func (f *fakeTab) Inject(context.Context) error {
	f.injects++
	if f.injectErr != nil {
		return f.injectErr
	}
	doc, err := htmldom.ParseString(f.html, f.url)
	if err != nil {
		return err
	}
	f.engine = highlight.New(doc, highlight.Options{
		Scheduler: highlight.SchedulerFunc(func(time.Duration, func()) {}),
		Logger:    quiet,
	})
	f.handler = message.NewHandler(f.engine, func() (string, bool) { return golden.FromPage(doc) }, quiet)
	return nil
}

func TestSearchInjectsThenRetries(t *testing.T) {
	tab := &fakeTab{url: "https://www.emol.com/", html: `<body><p>Error here, error there</p></body>`}
	c := New(tab, nil, quiet)
	ctx := context.Background()

	n, err := c.Search(ctx, "error")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, tab.injects)
	assert.Equal(t, []message.Action{message.ActionPing, message.ActionPing, message.ActionSearch}, tab.sent)

	require.NoError(t, c.Clear(ctx))
	assert.Equal(t, 1, tab.injects, "loaded script is reused")
	assert.Equal(t, 0, tab.engine.Len())
}

func TestSearchNotReachable(t *testing.T) {
	tab := &fakeTab{url: "https://example.com/", injectErr: errors.New("csp")}
	c := New(tab, nil, quiet)

	_, err := c.Search(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "csp")
}

type deafTab struct{ fakeTab }

func (d *deafTab) Inject(context.Context) error { d.injects++; return nil }

func TestSearchStillDeafAfterInject(t *testing.T) {
	tab := &deafTab{}
	_, err := New(tab, nil, quiet).Search(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNotReachable)
	assert.Equal(t, 1, tab.injects)
}

func TestSearchOption(t *testing.T) {
	tab := &fakeTab{html: `<body><p>New KVP log: a=1</p><p>new kvp LOG</p></body>`}
	c := New(tab, nil, quiet)

	n, err := c.SearchOption(context.Background(), "keyValuePairs")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = c.SearchOption(context.Background(), "missing")
	assert.Error(t, err)
}

func TestGolden(t *testing.T) {
	ctx := context.Background()

	tab := &fakeTab{url: "https://github.com/octocat", html: `<body><span class="vcard-username">octo</span></body>`}
	id, err := New(tab, nil, quiet).Golden(ctx)
	require.NoError(t, err)
	assert.Equal(t, "octo", id)

	tab = &fakeTab{url: "https://example.com/", html: `<body></body>`}
	_, err = New(tab, nil, quiet).Golden(ctx)
	assert.ErrorIs(t, err, ErrNotGoldenDomain)
	assert.Zero(t, tab.injects)
}

func TestActiveTab(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()

	assert.Equal(t, config.TabGoldenCall, New(&fakeTab{url: "https://github.com/x"}, cfg, quiet).ActiveTab(ctx))
	assert.Equal(t, config.TabSearch, New(&fakeTab{url: "https://www.emol.com/"}, cfg, quiet).ActiveTab(ctx))
	assert.Equal(t, config.TabGoldenCall, New(&fakeTab{url: "https://example.com/"}, cfg, quiet).ActiveTab(ctx))
}
