package handlers

import (
	"context"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"voxguide/internal/ai"
	"voxguide/internal/modules/dialogue"
	"voxguide/internal/retrieval"
	"voxguide/internal/service"
	"voxguide/internal/voice"
)

// captureSynth records which voice every synthesis request used.
type captureSynth struct {
	mu  sync.Mutex
	ids []string
}

func (s *captureSynth) Synthesize(_ context.Context, text, voiceID string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = append(s.ids, voiceID)
	return []byte("mp3:" + text), nil
}

func (s *captureSynth) Voices(_ context.Context) ([]voice.Voice, error) {
	return []voice.Voice{{ID: "v1", Name: "Antoni"}, {ID: "v2", Name: "Bella"}}, nil
}

type silentComposer struct{}

func (silentComposer) Compose(_ context.Context, p ai.Prompt) (string, error) {
	return "Here are a few places you might enjoy on your visit.", nil
}

func postCall(t *testing.T, r *gin.Engine, path string, form url.Values) {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != 200 {
		t.Fatalf("POST %s: status %d, body %s", path, w.Code, w.Body.String())
	}
}

// A farewell must speak in the voice picked at call start, and ending
// the call must leave nothing behind in the per-call voice registry.
func TestTurnFarewellKeepsVoiceAndClearsRegistry(t *testing.T) {
	gin.SetMode(gin.TestMode)

	synth := &captureSynth{}
	gen, err := voice.NewGenerator(synth, t.TempDir())
	if err != nil {
		t.Fatalf("generator: %v", err)
	}
	ctrl := service.NewController(dialogue.NewManager(10, time.Hour), nil, retrieval.NewInMemoryIndex(), silentComposer{}, nil, nil, 5)
	h := NewVoiceHandler(ctrl, gen)

	r := gin.New()
	r.POST("/voice", h.Start)
	r.POST("/voice/process", h.Process)

	postCall(t, r, "/voice", url.Values{"CallSid": {"CA1"}})
	postCall(t, r, "/voice/process", url.Values{
		"CallSid":      {"CA1"},
		"SpeechResult": {"goodbye"},
	})

	h.mu.Lock()
	remaining := len(h.voices)
	h.mu.Unlock()
	if remaining != 0 {
		t.Errorf("voices registry holds %d entries after call end, want 0", remaining)
	}

	synth.mu.Lock()
	ids := append([]string(nil), synth.ids...)
	synth.mu.Unlock()
	if len(ids) == 0 {
		t.Fatal("nothing was synthesized")
	}
	for i, id := range ids {
		if id != ids[0] {
			t.Fatalf("voice changed mid-call: request %d used %q, call started with %q", i, id, ids[0])
		}
	}
}
