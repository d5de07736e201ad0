package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/NullMeDev/mediabias/internal/speech"
)

const maxRequestBody = 1 << 20

type analyzeRequest struct {
	URL string `json:"url"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.opts.AnalyzeTimeout)
	defer cancel()

	result, err := s.deps.Analyzer.Analyze(ctx, req.URL, nil)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

func (s *Server) handleSources(w http.ResponseWriter, r *http.Request) {
	all := s.deps.Registry.All()
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(all),
		"sources": all,
		"groups":  s.deps.Registry.Directory(),
	})
}

func (s *Server) handleSource(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	rating := s.deps.Registry.Lookup(name)
	if rating == nil {
		respondWithError(w, http.StatusNotFound, "No rating found for "+name)
		return
	}
	respondWithJSON(w, http.StatusOK, rating)
}

type speechRequest struct {
	Text     string           `json:"text"`
	Voice    string           `json:"voice"`
	Headings []speech.Heading `json:"headings"`
}

type browserSpeechResponse struct {
	Fallback string `json:"fallback"`
	Text     string `json:"text"`
	Voice    string `json:"voice,omitempty"`
}

func (s *Server) handleSpeech(w http.ResponseWriter, r *http.Request) {
	var req speechRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	text := req.Text
	if strings.TrimSpace(text) == "" && len(req.Headings) > 0 {
		text = speech.Narrative(req.Headings)
	}

	if s.deps.Speech == nil {
		s.respondBrowserSpeech(w, text, req.Voice)
		return
	}

	audio, err := s.deps.Speech.Synthesize(r.Context(), text, req.Voice)
	switch {
	case err == nil:
		respondWithJSON(w, http.StatusOK, audio)
	case errors.Is(err, speech.ErrNoText):
		respondWithError(w, http.StatusBadRequest, "No text to synthesize")
	case errors.Is(err, speech.ErrUseBrowserSpeech):
		s.respondBrowserSpeech(w, text, req.Voice)
	default:
		s.log.Error("Speech synthesis failed (request %s): %v", requestIDFrom(r.Context()), err)
		s.respondBrowserSpeech(w, text, req.Voice)
	}
}

// respondBrowserSpeech tells the client to read the cleaned text locally
func (s *Server) respondBrowserSpeech(w http.ResponseWriter, text, voice string) {
	cleaned := speech.Clean(text)
	if cleaned == "" {
		respondWithError(w, http.StatusBadRequest, "No text to synthesize")
		return
	}
	respondWithJSON(w, http.StatusOK, browserSpeechResponse{Fallback: "browser", Text: cleaned, Voice: voice})
}

func (s *Server) handleVoices(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"default": speech.DefaultVoice.ID,
		"voices":  speech.Voices,
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if s.deps.Dashboard == nil {
		respondWithError(w, http.StatusServiceUnavailable, "History is disabled")
		return
	}
	d, err := s.deps.Dashboard.Dashboard(r.Context())
	if err != nil {
		s.log.Error("Dashboard failed (request %s): %v", requestIDFrom(r.Context()), err)
		respondWithError(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}
	respondWithJSON(w, http.StatusOK, d)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	return dec.Decode(v)
}
