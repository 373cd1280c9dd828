package main

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/ughe/tigereval/evaluate"
	"github.com/ughe/tigereval/metrics"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// liveHandler rescores a reference/hypothesis pair on every text frame, for
// editors that update ground truth while the user types.
type liveHandler struct {
	sem      chan struct{}
	maxChars int
}

type liveError struct {
	Error string `json:"error"`
}

func newLiveHandler(maxSessions, maxChars int) *liveHandler {
	if maxSessions <= 0 {
		maxSessions = 64
	}
	return &liveHandler{sem: make(chan struct{}, maxSessions), maxChars: maxChars}
}

// ServeHTTP upgrades the connection and runs the session.
// Returns 503 if at max concurrent session capacity.
func (h *liveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	select {
	case h.sem <- struct{}{}:
		defer func() { <-h.sem }()
	default:
		http.Error(w, "at capacity", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	if h.maxChars > 0 {
		conn.SetReadLimit(compareBodyLimit(h.maxChars))
	}

	metrics.LiveSessions.Inc()
	defer metrics.LiveSessions.Dec()
	slog.Debug("live session opened", "remote", r.RemoteAddr)

	for {
		var req compareRequest
		if err := conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Debug("live session read", "remote", r.RemoteAddr, "error", err)
			}
			return
		}
		var reply any = liveError{Error: "text too long"}
		if !tooLong(h.maxChars, req.Reference, req.Hypothesis) {
			reply = evaluate.Compare(req.Reference, req.Hypothesis)
		}
		if err := conn.WriteJSON(reply); err != nil {
			slog.Debug("live session write", "remote", r.RemoteAddr, "error", err)
			return
		}
	}
}
