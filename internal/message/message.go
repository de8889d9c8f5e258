// Package message is the request/response protocol between the popup and
// the page. Every request gets exactly one response, including unknown
// actions and requests whose handling panicked.
package message

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"contentsearch/internal/highlight"
)

// Action names a request.
type Action string

const (
	ActionPing      Action = "ping"
	ActionSearch    Action = "search"
	ActionClear     Action = "clear"
	ActionGetGolden Action = "getGolden"
)

// Error strings reported to callers.
const (
	ErrUnknownAction  = "Unknown action"
	ErrGoldenNotFound = "Golden ID not found"
	ErrContentScript  = "Content script error"
)

// Request is an inbound message.
type Request struct {
	Action     Action `json:"action"`
	SearchTerm string `json:"searchTerm,omitempty"`
	GoldenID   string `json:"goldenId,omitempty"`
}

// Response answers a Request.
type Response struct {
	Success    bool   `json:"success"`
	Status     string `json:"status,omitempty"`
	MatchCount int    `json:"matchCount,omitempty"`
	GoldenID   string `json:"goldenId,omitempty"`
	Message    string `json:"message,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Engine is the highlight session the handler drives.
type Engine interface {
	Search(term string) highlight.Result
	Clear()
}

// GoldenFunc looks up the page's golden identifier.
type GoldenFunc func() (string, bool)

// Handler dispatches requests to an engine.
type Handler struct {
	engine Engine
	golden GoldenFunc
	log    *slog.Logger
}

// NewHandler creates a handler. golden may be nil, in which case every
// lookup reports not found.
func NewHandler(engine Engine, golden GoldenFunc, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if golden == nil {
		golden = func() (string, bool) { return "", false }
	}
	return &Handler{engine: engine, golden: golden, log: logger}
}

// Handle answers req. A panic while handling becomes a failure response.
func (h *Handler) Handle(req Request) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error("message: handler panicked", "action", req.Action, "panic", fmt.Sprint(r))
			resp = Response{Error: ErrContentScript}
		}
	}()

	switch req.Action {
	case ActionPing:
		return Response{Success: true, Status: "ready"}
	case ActionSearch:
		res := h.engine.Search(req.SearchTerm)
		return Response{Success: true, MatchCount: res.Matches}
	case ActionClear:
		h.engine.Clear()
		return Response{Success: true}
	case ActionGetGolden:
		if req.GoldenID != "" {
			return Response{Success: true, Message: "Golden ID received"}
		}
		if id, ok := h.golden(); ok {
			return Response{Success: true, GoldenID: id}
		}
		return Response{Error: ErrGoldenNotFound}
	default:
		h.log.Warn("message: unknown action", "action", req.Action)
		return Response{Error: ErrUnknownAction}
	}
}

// HandleJSON decodes a request, handles it and encodes the response.
// Undecodable input gets an unknown-action response.
func (h *Handler) HandleJSON(data []byte) []byte {
	var req Request
	var resp Response
	if err := json.Unmarshal(data, &req); err != nil {
		h.log.Warn("message: undecodable request", "error", err)
		resp = Response{Error: ErrUnknownAction}
	} else {
		resp = h.Handle(req)
	}
	out, err := json.Marshal(resp)
	if err != nil {
		return []byte(`{"success":false,"error":"` + ErrContentScript + `"}`)
	}
	return out
}
