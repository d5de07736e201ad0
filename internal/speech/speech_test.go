package speech

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NullMeDev/mediabias/internal/logger"
)

type fakeProvider struct {
	name   string
	err    error
	chunks []string
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Synthesize(ctx context.Context, text string, voice Voice) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.chunks = append(f.chunks, text)
	return []byte("mp3:" + voice.ID), nil
}

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"strips symbols", "Price: $5 & rising #news", "Price: 5 rising news"},
		{"collapses whitespace", "one\n\n  two\tthree", "one two three"},
		{"spaces sentences", "First.Second!Third", "First. Second! Third"},
		{"empty", "  ***  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

func TestSplitChunks(t *testing.T) {
	assert.Equal(t, []string{"Short text."}, SplitChunks("Short text.", 100))

	sentence := strings.Repeat("a", 40)
	text := strings.Repeat(sentence+". ", 5)
	chunks := SplitChunks(text, 100)

	require.Len(t, chunks, 3)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 101)
		assert.True(t, strings.HasSuffix(c, "."))
	}
	assert.Equal(t, sentence+". "+sentence+".", chunks[0])
}

func TestFindVoice(t *testing.T) {
	v, ok := FindVoice("laura")
	require.True(t, ok)
	assert.Equal(t, "FGY2WhTYpPnrIDTdsKH5", v.ID)

	v, ok = FindVoice("ErXwobaYiN019PkySvjV")
	require.True(t, ok)
	assert.Equal(t, "Antoni", v.Name)

	_, ok = FindVoice("nobody")
	assert.False(t, ok)
}

func TestServiceWithoutProviders(t *testing.T) {
	svc := NewService(logger.Discard(), "")

	_, err := svc.Synthesize(context.Background(), "Read this aloud.", "")
	assert.ErrorIs(t, err, ErrUseBrowserSpeech)

	_, err = svc.Synthesize(context.Background(), "   ", "")
	assert.ErrorIs(t, err, ErrNoText)
}

func TestServiceFallsBackToNextProvider(t *testing.T) {
	broken := &fakeProvider{name: "broken", err: errors.New("quota exceeded")}
	working := &fakeProvider{name: "working"}
	svc := NewService(logger.Discard(), "Dave", broken, working)

	audio, err := svc.Synthesize(context.Background(), "Hello there. General news.", "")
	require.NoError(t, err)
	assert.Equal(t, "working", audio.Provider)
	assert.Equal(t, "CYw3kZ02Hs0563khs1Fj", audio.Voice)
	require.Len(t, audio.Chunks, 1)
	assert.Equal(t, "mp3:CYw3kZ02Hs0563khs1Fj", string(audio.Chunks[0]))
}

func TestServiceAllProvidersFail(t *testing.T) {
	svc := NewService(logger.Discard(), "", &fakeProvider{name: "a", err: errors.New("down")})
	_, err := svc.Synthesize(context.Background(), "Some text.", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a: chunk 1: down")
}

func TestElevenLabsSynthesize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/text-to-speech/EXAVITQu4vr4xnSDxMaL", r.URL.Path)
		assert.Equal(t, "xi-key", r.Header.Get("xi-api-key"))
		assert.Equal(t, "audio/mpeg", r.Header.Get("Accept"))

		var req elevenLabsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "eleven_monolingual_v1", req.ModelID)
		assert.InDelta(t, 0.75, req.VoiceSettings.SimilarityBoost, 0.001)
		assert.True(t, req.VoiceSettings.UseSpeakerBoost)

		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("ID3audio"))
	}))
	defer server.Close()

	el := NewElevenLabs("xi-key", server.URL)
	clip, err := el.Synthesize(context.Background(), "Hello.", DefaultVoice)
	require.NoError(t, err)
	assert.Equal(t, "ID3audio", string(clip))
}

func TestElevenLabsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := NewElevenLabs("bad", server.URL).Synthesize(context.Background(), "Hello.", DefaultVoice)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestNarrative(t *testing.T) {
	assert.Equal(t, "No headings found on this page.", Narrative(nil))

	got := Narrative([]Heading{
		{Text: "Budget passes", Level: 1},
		{Text: "Reaction", Level: 2},
		{Text: "Details", Level: 4},
	})
	assert.Equal(t, "Here are the main headings on this page. Main heading: Budget passes. "+
		"Next, Section heading: Reaction. And finally, Level 4 heading: Details.", got)
}

func TestOpenAIVoiceMapping(t *testing.T) {
	dave, _ := FindVoice("Dave")
	bella, _ := FindVoice("Bella")
	adam, _ := FindVoice("Adam")

	assert.EqualValues(t, "fable", openAIVoice(dave))
	assert.EqualValues(t, "nova", openAIVoice(bella))
	assert.EqualValues(t, "onyx", openAIVoice(adam))
}
