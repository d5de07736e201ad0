package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NullMeDev/mediabias/internal/analyzer"
	"github.com/NullMeDev/mediabias/internal/apperrors"
	"github.com/NullMeDev/mediabias/internal/history"
	"github.com/NullMeDev/mediabias/internal/logger"
	"github.com/NullMeDev/mediabias/internal/model"
	"github.com/NullMeDev/mediabias/internal/ratings"
	"github.com/NullMeDev/mediabias/internal/speech"
)

type fakeAnalyzer struct {
	started chan string
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, rawURL string, progress analyzer.ProgressFunc) (*model.AnalysisResult, error) {
	if progress == nil {
		progress = func(analyzer.Stage) {}
	}
	target, err := analyzer.ValidateURL(rawURL)
	if err != nil {
		return nil, err
	}
	progress(analyzer.StageFetching)
	if f.started != nil {
		f.started <- target
	}

	switch {
	case strings.Contains(target, "slow"):
		<-ctx.Done()
		return nil, ctx.Err()
	case strings.Contains(target, "panic"):
		panic("boom")
	case strings.Contains(target, "broken"):
		return nil, apperrors.NewInternalError("scoring blew up", errors.New("nil map"))
	}

	for _, st := range []analyzer.Stage{analyzer.StageExtracting, analyzer.StageScoring, analyzer.StageComparing, analyzer.StageDone} {
		progress(st)
	}
	return &model.AnalysisResult{
		RequestID: "req-1",
		Article:   model.ArticleSummary{Title: "Budget passes", URL: target, Bias: model.BiasCenter},
		BiasScore: model.BiasScore{Political: 0.4, Factual: 8.9, Emotional: 2.1},
	}, nil
}

type fakeSpeech struct {
	err error
}

func (f *fakeSpeech) Synthesize(ctx context.Context, text, voice string) (*speech.Audio, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &speech.Audio{Provider: "fake", ContentType: "audio/mpeg", Voice: voice, Chunks: [][]byte{[]byte(text)}}, nil
}

type fakeDashboard struct{}

func (fakeDashboard) Dashboard(ctx context.Context) (*history.Dashboard, error) {
	return &history.Dashboard{Last24Hours: history.Rollup{Count: 4}}, nil
}

func newTestServer(deps Deps, opts Options) *Server {
	if deps.Analyzer == nil {
		deps.Analyzer = &fakeAnalyzer{}
	}
	if deps.Registry == nil {
		deps.Registry = ratings.Default()
	}
	return New(deps, opts, logger.Discard())
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAnalyzeEndpoint(t *testing.T) {
	s := newTestServer(Deps{}, Options{})

	tests := []struct {
		name   string
		body   string
		status int
		check  func(t *testing.T, body map[string]interface{})
	}{
		{
			name:   "success",
			body:   `{"url":"https://www.reuters.com/story"}`,
			status: http.StatusOK,
			check: func(t *testing.T, body map[string]interface{}) {
				article := body["article"].(map[string]interface{})
				assert.Equal(t, "Budget passes", article["title"])
			},
		},
		{
			name:   "empty url",
			body:   `{"url":""}`,
			status: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, apperrors.ErrEmptyURL, body["code"])
				assert.Equal(t, "Please enter a URL to analyze.", body["error"])
			},
		},
		{
			name:   "malformed url",
			body:   `{"url":"not a url"}`,
			status: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, apperrors.ErrMalformedURL, body["code"])
			},
		},
		{
			name:   "bad json",
			body:   `{"url":`,
			status: http.StatusBadRequest,
		},
		{
			name:   "internal failure is generic",
			body:   `{"url":"https://broken.example.net/a"}`,
			status: http.StatusInternalServerError,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "Failed to analyze article. Please check the URL and try again.", body["error"])
				assert.NotEmpty(t, body["requestId"])
			},
		},
		{
			name:   "panic is recovered",
			body:   `{"url":"https://panic.example.net/a"}`,
			status: http.StatusInternalServerError,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, apperrors.ErrUnexpected, body["code"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/api/analyze", tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
			if tt.check != nil {
				var body map[string]interface{}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				tt.check(t, body)
			}
		})
	}
}

func TestAnalyzeRateLimit(t *testing.T) {
	s := newTestServer(Deps{}, Options{RatePerMinute: 2})

	for i := 0; i < 2; i++ {
		rec := do(t, s, http.MethodPost, "/api/analyze", `{"url":"https://www.reuters.com/story"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := do(t, s, http.MethodPost, "/api/analyze", `{"url":"https://www.reuters.com/story"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestSourcesEndpoints(t *testing.T) {
	s := newTestServer(Deps{}, Options{})

	rec := do(t, s, http.MethodGet, "/api/sources", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listing struct {
		Count  int                 `json:"count"`
		Groups []ratings.BiasGroup `json:"groups"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	assert.Greater(t, listing.Count, 10)
	assert.Len(t, listing.Groups, len(model.BiasLabels))

	rec = do(t, s, http.MethodGet, "/api/sources/The%20New%20York%20Times", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var rating model.SourceRating
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rating))
	assert.Equal(t, "New York Times", rating.Name)

	rec = do(t, s, http.MethodGet, "/api/sources/Totally%20Unknown%20Outlet", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSpeechEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		speech   Speech
		body     string
		status   int
		contains string
	}{
		{"synthesized", &fakeSpeech{}, `{"text":"Read this.","voice":"Bella"}`, http.StatusOK, `"provider":"fake"`},
		{"browser fallback", &fakeSpeech{err: speech.ErrUseBrowserSpeech}, `{"text":"Read this!"}`, http.StatusOK, `"fallback":"browser"`},
		{"provider failure falls back", &fakeSpeech{err: errors.New("quota")}, `{"text":"Read this."}`, http.StatusOK, `"fallback":"browser"`},
		{"no service", nil, `{"headings":[{"text":"Top story","level":1}]}`, http.StatusOK, "Main heading: Top story"},
		{"no text", &fakeSpeech{err: speech.ErrNoText}, `{"text":"***"}`, http.StatusBadRequest, "No text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := Deps{}
			if tt.speech != nil {
				deps.Speech = tt.speech
			}
			s := newTestServer(deps, Options{})
			rec := do(t, s, http.MethodPost, "/api/speech", tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.contains)
		})
	}
}

func TestVoicesEndpoint(t *testing.T) {
	rec := do(t, newTestServer(Deps{}, Options{}), http.MethodGet, "/api/voices", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"default":"EXAVITQu4vr4xnSDxMaL"`)
	assert.Contains(t, rec.Body.String(), "Laura")
}

func TestDashboardEndpoint(t *testing.T) {
	rec := do(t, newTestServer(Deps{}, Options{}), http.MethodGet, "/api/dashboard", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = do(t, newTestServer(Deps{Dashboard: fakeDashboard{}}, Options{}), http.MethodGet, "/api/dashboard", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":4`)
}

func TestHealthEndpoint(t *testing.T) {
	rec := do(t, newTestServer(Deps{}, Options{}), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var report healthReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "ok", report.Status)
	assert.Greater(t, report.Goroutines, 0)
}

func TestNotFound(t *testing.T) {
	rec := do(t, newTestServer(Deps{}, Options{}), http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func dialWS(t *testing.T, s *Server) (*websocket.Conn, func()) {
	t.Helper()
	ts := httptest.NewServer(s)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn, func() {
		conn.Close()
		ts.Close()
	}
}

func readEvent(t *testing.T, conn *websocket.Conn) wsEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var ev wsEvent
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

func TestWebsocketStreamsStages(t *testing.T) {
	conn, done := dialWS(t, newTestServer(Deps{}, Options{}))
	defer done()

	require.NoError(t, conn.WriteJSON(wsRequest{URL: "https://www.reuters.com/story"}))

	var stages []analyzer.Stage
	for {
		ev := readEvent(t, conn)
		assert.Equal(t, 1, ev.Seq)
		if ev.Type == "result" {
			require.NotNil(t, ev.Result)
			assert.Equal(t, "Budget passes", ev.Result.Article.Title)
			break
		}
		require.Equal(t, "stage", ev.Type)
		stages = append(stages, ev.Stage)
	}
	assert.Equal(t, []analyzer.Stage{
		analyzer.StageFetching, analyzer.StageExtracting, analyzer.StageScoring,
		analyzer.StageComparing, analyzer.StageDone,
	}, stages)
}

func TestWebsocketReportsInputErrors(t *testing.T) {
	conn, done := dialWS(t, newTestServer(Deps{}, Options{}))
	defer done()

	require.NoError(t, conn.WriteJSON(wsRequest{URL: ""}))
	ev := readEvent(t, conn)
	assert.Equal(t, "error", ev.Type)
	assert.Equal(t, apperrors.ErrEmptyURL, ev.Code)
}

func TestWebsocketNewURLSupersedesInFlight(t *testing.T) {
	fa := &fakeAnalyzer{started: make(chan string, 4)}
	conn, done := dialWS(t, newTestServer(Deps{Analyzer: fa}, Options{}))
	defer done()

	require.NoError(t, conn.WriteJSON(wsRequest{URL: "https://slow.example.net/a"}))
	select {
	case <-fa.started:
	case <-time.After(5 * time.Second):
		t.Fatal("first analysis never started")
	}

	require.NoError(t, conn.WriteJSON(wsRequest{URL: "https://www.reuters.com/story"}))

	var cancelled, finished bool
	for !(cancelled && finished) {
		ev := readEvent(t, conn)
		switch {
		case ev.Type == "cancelled":
			assert.Equal(t, 1, ev.Seq)
			cancelled = true
		case ev.Type == "result":
			assert.Equal(t, 2, ev.Seq)
			finished = true
		}
	}
}
