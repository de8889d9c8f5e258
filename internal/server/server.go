// Package server exposes the highlighter over HTTP for pages that are not
// open in a browser: POST a document, get it back with markers applied.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/microcosm-cc/bluemonday"

	"contentsearch/internal/config"
	"contentsearch/internal/dom/htmldom"
	"contentsearch/internal/golden"
	"contentsearch/internal/highlight"
	"contentsearch/internal/message"
	"contentsearch/internal/store"
)

const maxBody = 8 << 20

// Server holds the HTTP handlers' dependencies.
type Server struct {
	store  store.Store
	log    *slog.Logger
	policy *bluemonday.Policy
}

// New creates a server reading options from st.
func New(st store.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{store: st, log: logger, policy: bluemonday.UGCPolicy()}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Route("/api", func(r chi.Router) {
		r.Post("/highlight", s.highlightHandler)
		r.Post("/golden", s.goldenHandler)
		r.Get("/options", s.optionsHandler)
	})
	return r
}

type highlightRequest struct {
	HTML       string `json:"html"`
	URL        string `json:"url"`
	SearchTerm string `json:"searchTerm"`
	Sanitize   bool   `json:"sanitize"`
}

type highlightResponse struct {
	HTML       string `json:"html"`
	MatchCount int    `json:"matchCount"`
}

func (s *Server) highlightHandler(w http.ResponseWriter, r *http.Request) {
	var req highlightRequest
	if !decode(w, r, &req) {
		return
	}
	src := req.HTML
	if req.Sanitize {
		src = s.policy.Sanitize(src)
	}
	opts, ok := s.engineOptions(w, r)
	if !ok {
		return
	}
	h, doc, err := s.page(src, req.URL, opts)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	resp := h.Handle(message.Request{Action: message.ActionSearch, SearchTerm: req.SearchTerm})
	if !resp.Success {
		writeError(w, http.StatusInternalServerError, resp.Error)
		return
	}
	writeJSON(w, http.StatusOK, highlightResponse{HTML: doc.String(), MatchCount: resp.MatchCount})
}

type goldenRequest struct {
	HTML string `json:"html"`
	URL  string `json:"url"`
}

func (s *Server) goldenHandler(w http.ResponseWriter, r *http.Request) {
	var req goldenRequest
	if !decode(w, r, &req) {
		return
	}
	opts, ok := s.engineOptions(w, r)
	if !ok {
		return
	}
	h, _, err := s.page(req.HTML, req.URL, opts)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.Handle(message.Request{Action: message.ActionGetGolden}))
}

func (s *Server) optionsHandler(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.store.Load(r.Context())
	if err != nil {
		s.log.Error("server: load options", "error", err)
		writeError(w, http.StatusInternalServerError, "options unavailable")
		return
	}
	opts := cfg.Filter(r.URL.Query().Get("q"))
	if opts == nil {
		opts = []config.SearchOption{}
	}
	writeJSON(w, http.StatusOK, opts)
}

// engineOptions reads the stored engine settings. On failure it writes the
// error response and returns false.
func (s *Server) engineOptions(w http.ResponseWriter, r *http.Request) (highlight.Options, bool) {
	cfg, err := s.store.Load(r.Context())
	if err != nil {
		s.log.Error("server: load config", "error", err)
		writeError(w, http.StatusInternalServerError, "configuration unavailable")
		return highlight.Options{}, false
	}
	opts := cfg.Engine.Options()
	opts.DisableFeedback = true
	opts.Logger = s.log
	return opts, true
}

// page parses src and wires a message handler over it, the same way the
// content script does in a live tab.
func (s *Server) page(src, pageURL string, opts highlight.Options) (*message.Handler, *htmldom.Document, error) {
	doc, err := htmldom.Parse(strings.NewReader(src), pageURL)
	if err != nil {
		return nil, nil, err
	}
	e := highlight.New(doc, opts)
	h := message.NewHandler(e, func() (string, bool) { return golden.FromPage(doc) }, s.log)
	return h, doc, nil
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
