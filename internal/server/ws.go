package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/NullMeDev/mediabias/internal/analyzer"
	"github.com/NullMeDev/mediabias/internal/apperrors"
	"github.com/NullMeDev/mediabias/internal/model"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsMaxMessage   = 64 * 1024
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// wsRequest is a client message: a URL to analyze, or action "cancel"
type wsRequest struct {
	URL    string `json:"url"`
	Action string `json:"action,omitempty"`
}

// wsEvent is a server message. Seq identifies the analysis it belongs to.
type wsEvent struct {
	Type   string                `json:"type"`
	Seq    int                   `json:"seq"`
	URL    string                `json:"url,omitempty"`
	Stage  analyzer.Stage        `json:"stage,omitempty"`
	Result *model.AnalysisResult `json:"result,omitempty"`
	Error  string                `json:"error,omitempty"`
	Code   string                `json:"code,omitempty"`
}

// wsConn serializes writes; gorilla connections allow one writer at a time
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) send(ev wsEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return c.conn.WriteJSON(ev)
}

// handleWebsocket streams stage progress for each submitted URL. A new URL
// cancels the analysis still running on the same socket.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warning("Error upgrading to websocket: %v", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(wsMaxMessage)

	ws := &wsConn{conn: conn}
	ctx, cancelAll := context.WithCancel(context.Background())
	defer cancelAll()

	var (
		wg            sync.WaitGroup
		cancelCurrent context.CancelFunc
		seq           int
	)

	for {
		var req wsRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warning("Websocket read failed: %v", err)
			}
			break
		}

		if cancelCurrent != nil {
			cancelCurrent()
			cancelCurrent = nil
		}
		if req.Action == "cancel" {
			continue
		}

		seq++
		if s.limiter != nil && !s.limiter.allow(clientIP(r)) {
			ws.send(wsEvent{Type: "error", Seq: seq, URL: req.URL, Error: "Too many requests. Please wait a moment and try again."})
			continue
		}

		actx, cancel := context.WithTimeout(ctx, s.opts.AnalyzeTimeout)
		cancelCurrent = cancel
		wg.Add(1)
		go func(seq int, target string) {
			defer wg.Done()
			defer cancel()
			s.streamAnalysis(actx, ws, seq, target)
		}(seq, req.URL)
	}

	cancelAll()
	wg.Wait()
}

func (s *Server) streamAnalysis(ctx context.Context, ws *wsConn, seq int, target string) {
	defer func() {
		if rec := recover(); rec != nil {
			err := apperrors.FromPanic("websocket analysis", rec)
			s.log.Error("PANIC in websocket analysis of %s: %v", target, err)
			ws.send(wsEvent{Type: "error", Seq: seq, URL: target, Error: apperrors.UserMessage(err), Code: apperrors.Code(err)})
		}
	}()

	progress := func(st analyzer.Stage) {
		if st == analyzer.StageError || ctx.Err() != nil {
			return
		}
		ws.send(wsEvent{Type: "stage", Seq: seq, URL: target, Stage: st})
	}

	result, err := s.deps.Analyzer.Analyze(ctx, target, progress)
	switch {
	case err == nil:
		ws.send(wsEvent{Type: "result", Seq: seq, URL: target, Result: result})
	case errors.Is(err, context.Canceled):
		ws.send(wsEvent{Type: "cancelled", Seq: seq, URL: target})
	default:
		ws.send(wsEvent{
			Type:  "error",
			Seq:   seq,
			URL:   target,
			Error: apperrors.UserMessage(err),
			Code:  apperrors.Code(err),
		})
	}
}
