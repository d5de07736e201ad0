// Package speech turns article text into audio for the read-aloud feature.
package speech

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/NullMeDev/mediabias/internal/config"
	"github.com/NullMeDev/mediabias/internal/logger"
)

// MaxChunkChars is the largest piece of text sent in one synthesis call
const MaxChunkChars = 2500

// ErrUseBrowserSpeech tells the client to fall back to local speech synthesis
var ErrUseBrowserSpeech = errors.New("no speech provider configured, use browser speech synthesis")

// ErrNoText is returned when nothing speakable remains after cleaning
var ErrNoText = errors.New("no text to synthesize")

// Voice is a selectable narrator
type Voice struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Gender string `json:"gender"`
	Accent string `json:"accent"`
}

// Voices lists the narrators offered to clients; the first is the default
var Voices = []Voice{
	{ID: "EXAVITQu4vr4xnSDxMaL", Name: "Bella", Gender: "female", Accent: "american"},
	{ID: "ErXwobaYiN019PkySvjV", Name: "Antoni", Gender: "male", Accent: "american"},
	{ID: "VR6AewLTigWG4xSOukaG", Name: "Arnold", Gender: "male", Accent: "american"},
	{ID: "pNInz6obpgDQGcFmaJgB", Name: "Adam", Gender: "male", Accent: "american"},
	{ID: "yoZ06aMxZJJ28mfd3POQ", Name: "Sam", Gender: "male", Accent: "american"},
	{ID: "AZnzlk1XvdvUeBnXmlld", Name: "Domi", Gender: "female", Accent: "american"},
	{ID: "CYw3kZ02Hs0563khs1Fj", Name: "Dave", Gender: "male", Accent: "british"},
	{ID: "FGY2WhTYpPnrIDTdsKH5", Name: "Laura", Gender: "female", Accent: "american"},
}

// DefaultVoice is Bella
var DefaultVoice = Voices[0]

// FindVoice resolves an id or a case-insensitive name
func FindVoice(idOrName string) (Voice, bool) {
	for _, v := range Voices {
		if v.ID == idOrName || strings.EqualFold(v.Name, idOrName) {
			return v, true
		}
	}
	return Voice{}, false
}

// Provider synthesizes a single chunk of text
type Provider interface {
	Name() string
	Synthesize(ctx context.Context, text string, voice Voice) ([]byte, error)
}

// Audio is the synthesized result, one clip per chunk in reading order
type Audio struct {
	Provider    string   `json:"provider"`
	ContentType string   `json:"contentType"`
	Voice       string   `json:"voice"`
	Chunks      [][]byte `json:"chunks"`
}

// Service tries providers in order for the whole text
type Service struct {
	providers    []Provider
	defaultVoice Voice
	log          *logger.Logger
}

// NewService creates a Service. With no providers every call returns ErrUseBrowserSpeech.
func NewService(log *logger.Logger, defaultVoice string, providers ...Provider) *Service {
	voice, ok := FindVoice(defaultVoice)
	if !ok {
		voice = DefaultVoice
	}
	return &Service{providers: providers, defaultVoice: voice, log: log}
}

// FromConfig enables ElevenLabs and then OpenAI when their keys are set
func FromConfig(cfg *config.Config, log *logger.Logger) *Service {
	var providers []Provider
	if cfg.ElevenLabsAPIKey != "" {
		providers = append(providers, NewElevenLabs(cfg.ElevenLabsAPIKey, ""))
	}
	if cfg.OpenAIAPIKey != "" {
		providers = append(providers, NewOpenAI(cfg.OpenAIAPIKey, ""))
	}
	return NewService(log, cfg.TTSVoice, providers...)
}

// Enabled reports whether server-side synthesis is available
func (s *Service) Enabled() bool {
	return len(s.providers) > 0
}

// Synthesize cleans and chunks text and returns audio from the first
// provider that manages every chunk.
func (s *Service) Synthesize(ctx context.Context, text, voiceID string) (*Audio, error) {
	cleaned := Clean(text)
	if cleaned == "" {
		return nil, ErrNoText
	}
	if !s.Enabled() {
		return nil, ErrUseBrowserSpeech
	}

	voice, ok := FindVoice(voiceID)
	if !ok {
		voice = s.defaultVoice
	}
	chunks := SplitChunks(cleaned, MaxChunkChars)

	var errs []string
	for _, p := range s.providers {
		clips, err := s.synthesizeAll(ctx, p, chunks, voice)
		if err == nil {
			return &Audio{Provider: p.Name(), ContentType: "audio/mpeg", Voice: voice.ID, Chunks: clips}, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.log.Warning("Speech provider %s failed: %v", p.Name(), err)
		errs = append(errs, fmt.Sprintf("%s: %v", p.Name(), err))
	}
	return nil, fmt.Errorf("all speech providers failed: %s", strings.Join(errs, "; "))
}

func (s *Service) synthesizeAll(ctx context.Context, p Provider, chunks []string, voice Voice) ([][]byte, error) {
	clips := make([][]byte, 0, len(chunks))
	for i, chunk := range chunks {
		clip, err := p.Synthesize(ctx, chunk, voice)
		if err != nil {
			return nil, fmt.Errorf("chunk %d: %w", i+1, err)
		}
		clips = append(clips, clip)
	}
	return clips, nil
}

var (
	unspeakable    = regexp.MustCompile(`[^\w\s.,!?;:\-()]`)
	runsOfSpace    = regexp.MustCompile(`\s+`)
	sentenceJoin   = regexp.MustCompile(`([.!?])\s*([A-Z])`)
	sentenceBreaks = regexp.MustCompile(`[.!?]+`)
)

// Clean drops characters a narrator would stumble on
func Clean(text string) string {
	text = unspeakable.ReplaceAllString(text, "")
	text = runsOfSpace.ReplaceAllString(text, " ")
	text = sentenceJoin.ReplaceAllString(text, "$1 $2")
	return strings.TrimSpace(text)
}

// SplitChunks packs sentences into chunks of at most maxLen characters.
// Text already short enough is returned as is.
func SplitChunks(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}

	var chunks []string
	current := ""
	for _, sentence := range sentenceBreaks.Split(text, -1) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		if len(current)+len(sentence)+1 <= maxLen {
			if current != "" {
				current += ". "
			}
			current += sentence
			continue
		}
		if current != "" {
			chunks = append(chunks, current+".")
		}
		current = sentence
	}
	if current != "" {
		chunks = append(chunks, current+".")
	}
	return chunks
}
