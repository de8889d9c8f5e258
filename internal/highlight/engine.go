// Package highlight finds a search term in a page's rendered text, wraps
// each occurrence in a marker element and restores the page on clear.
//
// A search is collect-then-mutate: Collect walks the content root
// read-only, then Wrap rewrites each collected text node. Every marker is
// recorded in the session registry so Clear can put plain text back.
package highlight

import (
	"log/slog"
	"sync"
	"time"

	"contentsearch/internal/dom"
)

const (
	HighlightClass = "content-search-highlight"
	CounterClass   = "content-search-counter"
	ActiveClass    = "active"

	DefaultStatusDelay = 3 * time.Second
)

// Scheduler runs f once after d. Implementations need not support
// cancellation.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(d time.Duration, f func())

func (s SchedulerFunc) AfterFunc(d time.Duration, f func()) { s(d, f) }

var timerScheduler = SchedulerFunc(func(d time.Duration, f func()) { time.AfterFunc(d, f) })

// Options configures an Engine. Zero values select the defaults.
type Options struct {
	HighlightClass string
	CounterClass   string
	ActiveClass    string
	StatusDelay    time.Duration
	Scheduler      Scheduler
	// DisableFeedback suppresses the floating status element. Offline
	// callers rendering the document set it.
	DisableFeedback bool
	Logger          *slog.Logger
}

func (o *Options) applyDefaults() {
	if o.HighlightClass == "" {
		o.HighlightClass = HighlightClass
	}
	if o.CounterClass == "" {
		o.CounterClass = CounterClass
	}
	if o.ActiveClass == "" {
		o.ActiveClass = ActiveClass
	}
	if o.StatusDelay <= 0 {
		o.StatusDelay = DefaultStatusDelay
	}
	if o.Scheduler == nil {
		o.Scheduler = timerScheduler
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Result is the outcome of a search.
type Result struct {
	Term    string
	Matches int
}

// Engine owns the highlight session of one document: the registry, the
// current highlight and the status element. Create one per page.
type Engine struct {
	doc  dom.Document
	opts Options
	log  *slog.Logger

	mu      sync.Mutex
	reg     Registry
	current int
	status  dom.Node
}

// New creates an idle engine over doc.
func New(doc dom.Document, opts Options) *Engine {
	opts.applyDefaults()
	return &Engine{doc: doc, opts: opts, log: opts.Logger}
}

// Search clears the previous session, then highlights every occurrence
// of term. An empty or whitespace-only term leaves the engine idle.
func (e *Engine) Search(term string) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.clearLocked()

	p, ok := Compile(term)
	if !ok {
		return Result{}
	}
	root := e.doc.Body()
	if root == nil {
		e.log.Warn("highlight: no content root, search skipped", "term", p.Term())
		return Result{Term: p.Term()}
	}

	for _, n := range Collect(root, p, e.opts.HighlightClass, e.opts.CounterClass) {
		if _, err := Wrap(e.doc, n, p, &e.reg, e.opts.HighlightClass); err != nil {
			e.log.Warn("highlight: wrap text node failed", "error", err)
		}
	}

	n := e.reg.Len()
	if n > 0 {
		e.current = 0
		e.focusLocked()
	}
	e.showStatusLocked(n)

	e.log.Debug("highlight: search done", "term", p.Term(), "matches", n)
	return Result{Term: p.Term(), Matches: n}
}

// Clear restores every marker to plain text and removes the status
// element. Clearing an idle engine does nothing.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clearLocked()
}

func (e *Engine) clearLocked() {
	for _, r := range e.reg.records {
		parent := r.Element.Parent()
		if parent == nil {
			e.log.Debug("highlight: marker detached, skipping restore", "index", r.Index)
			continue
		}
		if err := r.Element.ReplaceWith(e.doc.CreateText(r.Element.Text())); err != nil {
			e.log.Warn("highlight: restore marker failed", "index", r.Index, "error", err)
			continue
		}
		parent.Normalize()
	}
	e.reg.reset()
	e.current = 0
	e.removeStatusLocked()
}

// Len returns the number of live markers.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reg.Len()
}

// Records returns the live markers in document order.
func (e *Engine) Records() []Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reg.Records()
}

// Current returns the emphasised marker. ok is false when idle.
func (e *Engine) Current() (r Record, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.reg.Len() == 0 {
		return Record{}, false
	}
	return e.reg.at(e.current), true
}

// Next moves emphasis to the following marker, wrapping to the first.
// Next and Prev are for embedders that step through matches; the message
// protocol only ever emphasises the first marker.
func (e *Engine) Next() (Record, bool) { return e.step(1) }

// Prev moves emphasis to the preceding marker, wrapping to the last.
func (e *Engine) Prev() (Record, bool) { return e.step(-1) }

func (e *Engine) step(delta int) (Record, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := e.reg.Len()
	if n == 0 {
		return Record{}, false
	}
	e.current = ((e.current+delta)%n + n) % n
	e.focusLocked()
	return e.reg.at(e.current), true
}

// focusLocked marks the current marker active, unmarks the rest and
// scrolls the current one into view.
func (e *Engine) focusLocked() {
	for i, r := range e.reg.records {
		if i == e.current {
			r.Element.AddClass(e.opts.ActiveClass)
		} else {
			r.Element.RemoveClass(e.opts.ActiveClass)
		}
	}
	e.reg.at(e.current).Element.ScrollIntoView()
}
