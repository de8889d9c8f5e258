package main

import (
	"encoding/json"
	"log/slog"

	"github.com/gopherjs/gopherjs/js"

	"contentsearch/internal/dom/jsdom"
	"contentsearch/internal/golden"
	"contentsearch/internal/highlight"
	"contentsearch/internal/message"
)

const styleID = "content-search-style"

func main() {
	var cfg Config
	cfg.Load()

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(consoleWriter{}, &slog.HandlerOptions{Level: level}))

	d, started := message.Install(pageScope{}, func() message.Dispatcher {
		doc := jsdom.New(document)
		opts := cfg.engineOptions()
		opts.Logger = logger
		engine := highlight.New(doc, opts)
		goldenID := func() (string, bool) { return golden.FromPage(doc) }
		return message.NewHandler(engine, goldenID, logger)
	})
	if !started {
		resp := d.Handle(message.Request{Action: message.ActionPing})
		logger.Debug("contentscript: already active in page", "status", resp.Status, "error", resp.Error)
		return
	}
	addDefaultCSS(cfg)
	listen()
	logger.Info("contentscript: ready", "url", document.Get("location").Get("href").String())
}

// consoleWriter sends log lines to the page console.
type consoleWriter struct{}

func (consoleWriter) Write(p []byte) (int, error) {
	consoleLog(string(p))
	return len(p), nil
}

// pageScope keeps the active instance on window, where every injected copy
// of the script can see it.
type pageScope struct{}

func (pageScope) Active() (message.Dispatcher, bool) {
	if !defined(window.Get("contentSearchInstance")) || !defined(window.Get("contentSearch")) {
		return nil, false
	}
	return remoteDispatcher{window.Get("contentSearch")}, true
}

func (pageScope) Activate(d message.Dispatcher) {
	window.Set("contentSearch", map[string]interface{}{
		"dispatch": func(data string) string { return string(dispatchJSON(d, []byte(data))) },
	})
	window.Set("contentSearchInstance", true)
}

// remoteDispatcher forwards to an instance installed by an earlier copy.
type remoteDispatcher struct {
	o *js.Object
}

func (r remoteDispatcher) Handle(req message.Request) message.Response {
	data, _ := json.Marshal(req)
	var resp message.Response
	if err := json.Unmarshal([]byte(r.o.Call("dispatch", string(data)).String()), &resp); err != nil {
		return message.Response{Error: message.ErrContentScript}
	}
	return resp
}

func dispatchJSON(d message.Dispatcher, data []byte) []byte {
	if h, ok := d.(*message.Handler); ok {
		return h.HandleJSON(data)
	}
	var req message.Request
	if err := json.Unmarshal(data, &req); err != nil {
		req = message.Request{}
	}
	out, _ := json.Marshal(d.Handle(req))
	return out
}

// listen answers extension messages synchronously. Returning false tells
// Chrome the response channel can be closed once the listener returns.
func listen() {
	if !defined(chrome) || !defined(chrome.Get("runtime")) || !defined(chrome.Get("runtime").Get("onMessage")) {
		return
	}
	jsonNS := js.Global.Get("JSON")
	chrome.Get("runtime").Get("onMessage").Call("addListener", func(msg, sender, sendResponse *js.Object) bool {
		in := jsonNS.Call("stringify", msg).String()
		out := window.Get("contentSearch").Call("dispatch", in).String()
		sendResponse.Invoke(jsonNS.Call("parse", out))
		return false
	})
}

func addDefaultCSS(cfg Config) {
	if defined(document.Call("getElementById", styleID)) {
		return
	}
	hl, counter := "."+cfg.Engine.HighlightClass, "."+cfg.Engine.CounterClass
	style := document.Call("createElement", "style")
	style.Set("id", styleID)
	style.Set("textContent", hl+` { background-color: #ffeb3b; color: inherit; border-radius: 2px; }
`+hl+`.`+highlight.ActiveClass+` { background-color: #ff9800; outline: 2px solid #e65100; }
`+counter+` { position: fixed; top: 16px; right: 16px; z-index: 2147483647; padding: 8px 14px;
  background-color: #323232; color: #fff; border-radius: 4px; font: 14px/1.4 sans-serif;
  box-shadow: 0 2px 6px rgba(0, 0, 0, .3); }`)
	parent := document.Get("head")
	if !defined(parent) {
		parent = document.Get("documentElement")
	}
	parent.Call("appendChild", style)
}
