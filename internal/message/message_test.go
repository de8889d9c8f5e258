package message

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentsearch/internal/dom/htmldom"
	"contentsearch/internal/golden"
	"contentsearch/internal/highlight"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func newPageHandler(t *testing.T, src, url string) (*Handler, *highlight.Engine) {
	t.Helper()
	doc, err := htmldom.ParseString(src, url)
	require.NoError(t, err)
	e := highlight.New(doc, highlight.Options{
		Scheduler: highlight.SchedulerFunc(func(time.Duration, func()) {}),
		Logger:    quiet,
	})
	return NewHandler(e, func() (string, bool) { return golden.FromPage(doc) }, quiet), e
}

func TestHandleActions(t *testing.T) {
	h, e := newPageHandler(t, `<body><p>fox Fox</p></body>`, "https://github.com/octocat")

	assert.Equal(t, Response{Success: true, Status: "ready"}, h.Handle(Request{Action: ActionPing}))

	resp := h.Handle(Request{Action: ActionSearch, SearchTerm: "fox"})
	assert.Equal(t, Response{Success: true, MatchCount: 2}, resp)
	assert.Equal(t, 2, e.Len())

	assert.Equal(t, Response{Success: true}, h.Handle(Request{Action: ActionClear}))
	assert.Equal(t, 0, e.Len())

	assert.Equal(t, Response{Success: true, GoldenID: "octocat"}, h.Handle(Request{Action: ActionGetGolden}))
	assert.Equal(t, Response{Success: true, Message: "Golden ID received"},
		h.Handle(Request{Action: ActionGetGolden, GoldenID: "given"}))
}

func TestHandleEmptySearchIsSuccess(t *testing.T) {
	h, e := newPageHandler(t, `<body><p>fox</p></body>`, "")
	h.Handle(Request{Action: ActionSearch, SearchTerm: "fox"})

	resp := h.Handle(Request{Action: ActionSearch, SearchTerm: "  "})
	assert.Equal(t, Response{Success: true}, resp)
	assert.Equal(t, 0, e.Len())
}

func TestHandleGoldenNotFound(t *testing.T) {
	h, _ := newPageHandler(t, `<body><p>x</p></body>`, "https://example.com/")
	assert.Equal(t, Response{Error: ErrGoldenNotFound}, h.Handle(Request{Action: ActionGetGolden}))

	h = NewHandler(&panicEngine{}, nil, quiet)
	assert.Equal(t, Response{Error: ErrGoldenNotFound}, h.Handle(Request{Action: ActionGetGolden}))
}

func TestHandleUnknownAction(t *testing.T) {
	h, _ := newPageHandler(t, `<body></body>`, "")
	assert.Equal(t, Response{Error: ErrUnknownAction}, h.Handle(Request{Action: "reload"}))
	assert.Equal(t, Response{Error: ErrUnknownAction}, h.Handle(Request{}))
}

type panicEngine struct{}

func (*panicEngine) Search(string) highlight.Result { panic("dom exploded") }
func (*panicEngine) Clear()                          { panic("dom exploded") }

func TestHandleRecoversPanics(t *testing.T) {
	h := NewHandler(&panicEngine{}, nil, quiet)
	assert.Equal(t, Response{Error: ErrContentScript}, h.Handle(Request{Action: ActionSearch, SearchTerm: "x"}))
	assert.Equal(t, Response{Error: ErrContentScript}, h.Handle(Request{Action: ActionClear}))
}

func TestHandleJSON(t *testing.T) {
	h, _ := newPageHandler(t, `<body><p>a.b*c</p></body>`, "")

	out := h.HandleJSON([]byte(`{"action":"search","searchTerm":"a.b*c"}`))
	assert.JSONEq(t, `{"success":true,"matchCount":1}`, string(out))

	out = h.HandleJSON([]byte(`{"action":"clear"}`))
	assert.JSONEq(t, `{"success":true}`, string(out))

	out = h.HandleJSON([]byte(`not json`))
	var resp Response
	require.NoError(t, json.Unmarshal(out, &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, ErrUnknownAction, resp.Error)
}

type mapScope struct {
	active Dispatcher
}

func (s *mapScope) Active() (Dispatcher, bool) { return s.active, s.active != nil }
func (s *mapScope) Activate(d Dispatcher)      { s.active = d }

func TestInstallIsIdempotent(t *testing.T) {
	scope := &mapScope{}
	builds := 0
	build := func() Dispatcher {
		builds++
		h, _ := newPageHandler(t, `<body><p>fox</p></body>`, "")
		return h
	}

	first, created := Install(scope, build)
	require.True(t, created)

	second, created := Install(scope, build)
	assert.False(t, created)
	assert.Same(t, first, second)
	assert.Equal(t, 1, builds)

	assert.Equal(t, Response{Success: true, MatchCount: 1},
		second.Handle(Request{Action: ActionSearch, SearchTerm: "fox"}))
}

// wireScope keeps only the JSON entry point of the active instance, the
// way a page keeps window.contentSearch for later copies of the script.
type wireScope struct {
	dispatch func([]byte) []byte
}

type wireDispatcher struct {
	dispatch func([]byte) []byte
}

func (w wireDispatcher) Handle(req Request) Response {
	data, _ := json.Marshal(req)
	var resp Response
	if err := json.Unmarshal(w.dispatch(data), &resp); err != nil {
		return Response{Error: ErrContentScript}
	}
	return resp
}

func (s *wireScope) Active() (Dispatcher, bool) {
	if s.dispatch == nil {
		return nil, false
	}
	return wireDispatcher{s.dispatch}, true
}

func (s *wireScope) Activate(d Dispatcher) { s.dispatch = d.(*Handler).HandleJSON }

func TestInstallReturnsActiveInstanceOverWire(t *testing.T) {
	scope := &wireScope{}
	h, e := newPageHandler(t, `<body><p>fox and fox</p></body>`, "")

	_, created := Install(scope, func() Dispatcher { return h })
	require.True(t, created)

	again, created := Install(scope, func() Dispatcher {
		t.Fatal("second copy must not build an engine")
		return nil
	})
	require.False(t, created)

	assert.Equal(t, Response{Success: true, Status: "ready"}, again.Handle(Request{Action: ActionPing}))
	assert.Equal(t, Response{Success: true, MatchCount: 2},
		again.Handle(Request{Action: ActionSearch, SearchTerm: "FOX"}))
	assert.Equal(t, 2, e.Len())
}
