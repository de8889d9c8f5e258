package main

import (
	"time"

	"github.com/gopherjs/gopherjs/js"

	"contentsearch/internal/config"
	"contentsearch/internal/highlight"
)

// Config is read from window.contentSearchConfig when the page or the
// extension sets it before injection.
type Config struct {
	Engine config.EngineConfig
	Debug  bool
}

func (cfg *Config) Load() {
	cfg.Engine = config.Default().Engine

	o := window.Get("contentSearchConfig")
	if !defined(o) {
		return
	}
	if v := o.Get("highlightClass"); defined(v) && v.String() != "" {
		cfg.Engine.HighlightClass = v.String()
	}
	if v := o.Get("counterClass"); defined(v) && v.String() != "" {
		cfg.Engine.CounterClass = v.String()
	}
	// statusDelay is in milliseconds.
	if v := o.Get("statusDelay"); defined(v) && v.Int() > 0 {
		cfg.Engine.StatusDelay = time.Duration(v.Int()) * time.Millisecond
	}
	if v := o.Get("debug"); defined(v) {
		cfg.Debug = v.Bool()
	}
}

func (cfg *Config) engineOptions() highlight.Options {
	opts := cfg.Engine.Options()
	opts.Scheduler = highlight.SchedulerFunc(setTimeout)
	return opts
}

// setTimeout runs f on its own goroutine so it may block on the engine lock.
func setTimeout(d time.Duration, f func()) {
	js.Global.Call("setTimeout", func() { go f() }, int(d/time.Millisecond))
}
