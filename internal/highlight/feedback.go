package highlight

import (
	"strconv"

	"contentsearch/internal/dom"
)

// errorTone is the status background when nothing matched.
const errorTone = "#d32f2f"

// StatusText is the status line for n matches.
func StatusText(n int) string {
	switch n {
	case 0:
		return "No matches found"
	case 1:
		return "1 match found"
	default:
		return strconv.Itoa(n) + " matches found"
	}
}

// Status returns the text of the status element on display, if any.
func (e *Engine) Status() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status == nil {
		return "", false
	}
	return e.status.Text(), true
}

func (e *Engine) showStatusLocked(n int) {
	if e.opts.DisableFeedback {
		return
	}
	e.removeStatusLocked()

	root := e.doc.Body()
	if root == nil {
		return
	}
	el := e.doc.CreateElement("div")
	el.AddClass(e.opts.CounterClass)
	el.SetText(StatusText(n))
	if n == 0 {
		el.SetStyle("background-color", errorTone)
	}
	root.AppendChild(el)
	e.status = el

	e.opts.Scheduler.AfterFunc(e.opts.StatusDelay, func() { e.dismiss(el) })
}

// dismiss removes el if it is still the status on display. A timer that
// outlives its element finds a different status, or none, and does nothing.
func (e *Engine) dismiss(el dom.Node) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status != el {
		return
	}
	e.removeStatusLocked()
}

func (e *Engine) removeStatusLocked() {
	if e.status == nil {
		return
	}
	e.status.Remove()
	e.status = nil
}
