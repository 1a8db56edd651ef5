// README: Webhook handler tests over a wired Gin engine with stub collaborators.
package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"voxguide/internal/ai"
	"voxguide/internal/http/handlers"
	"voxguide/internal/modules/dialogue"
	"voxguide/internal/modules/ranking"
	"voxguide/internal/retrieval"
	"voxguide/internal/service"
	"voxguide/internal/voice"
)

// stubSynth returns fixed bytes for any synthesis request.
type stubSynth struct{}

func (stubSynth) Synthesize(_ context.Context, text, _ string) ([]byte, error) {
	return []byte("mp3:" + text), nil
}

func (stubSynth) Voices(_ context.Context) ([]voice.Voice, error) {
	return []voice.Voice{{ID: "v1", Name: "Antoni"}}, nil
}

type stubComposer struct{}

func (stubComposer) Compose(_ context.Context, p ai.Prompt) (string, error) {
	return "Here are some wonderful places I think you will really enjoy visiting soon.", nil
}

// buildTestRouter wires a Gin engine with an in-memory retrieval index
// and stub synthesis, mirroring production wiring without the network.
func buildTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	index := retrieval.NewInMemoryIndex()
	index.Add(ranking.Candidate{
		ID: "p1",
		Metadata: ranking.Metadata{
			Title:       "Torchy's Tacos",
			Category:    "restaurant",
			Rating:      4.8,
			ReviewCount: 1200,
			PriceLevel:  ranking.TierCheap,
			Address:     "1311 S 1st St, Austin, TX",
		},
	})

	sessions := dialogue.NewManager(10, time.Hour)
	controller := service.NewController(sessions, nil, index, stubComposer{}, nil, nil, 10)

	gen, err := voice.NewGenerator(stubSynth{}, t.TempDir())
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	r := gin.New()
	h := handlers.NewVoiceHandler(controller, gen)
	r.POST("/voice", h.Start)
	r.POST("/voice/process", h.Process)
	r.POST("/voice/follow_up", h.FollowUp)
	return r
}

func postForm(r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type instructionBody struct {
	Say      string   `json:"say"`
	AudioURL []string `json:"audio_urls"`
	Gather   bool     `json:"gather"`
	EndCall  bool     `json:"end_call"`
}

func decodeInstruction(t *testing.T, w *httptest.ResponseRecorder) instructionBody {
	t.Helper()
	var body instructionBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v (%s)", err, w.Body.String())
	}
	return body
}

// TestStart_MissingCallSid verifies the call-start webhook rejects requests without a call id.
func TestStart_MissingCallSid(t *testing.T) {
	r := buildTestRouter(t)
	w := postForm(r, "/voice", url.Values{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

// TestStart_GreetsWithPickedVoice verifies call start returns a greeting naming the picked voice.
func TestStart_GreetsWithPickedVoice(t *testing.T) {
	r := buildTestRouter(t)
	w := postForm(r, "/voice", url.Values{"CallSid": {"CA1"}})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := decodeInstruction(t, w)
	if !strings.Contains(body.Say, "Antoni") {
		t.Errorf("greeting = %q, want voice name", body.Say)
	}
	if !body.Gather || body.EndCall {
		t.Errorf("call start must keep gathering: %+v", body)
	}
}

// TestProcess_FullTurn verifies a search utterance yields narration and audio segment URLs.
func TestProcess_FullTurn(t *testing.T) {
	r := buildTestRouter(t)
	postForm(r, "/voice", url.Values{"CallSid": {"CA1"}})

	w := postForm(r, "/voice/process", url.Values{
		"CallSid":      {"CA1"},
		"SpeechResult": {"find me cheap tacos in austin"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := decodeInstruction(t, w)
	if body.Say == "" {
		t.Fatal("empty narration")
	}
	if len(body.AudioURL) == 0 {
		t.Fatal("no audio segments returned")
	}
	for _, u := range body.AudioURL {
		if !strings.HasPrefix(u, "/audio/audio_") || !strings.HasSuffix(u, ".mp3") {
			t.Errorf("unexpected audio url %q", u)
		}
	}
}

// TestFollowUp_EmptySpeech verifies a silent turn asks the caller to repeat.
func TestFollowUp_EmptySpeech(t *testing.T) {
	r := buildTestRouter(t)
	postForm(r, "/voice", url.Values{"CallSid": {"CA1"}})

	w := postForm(r, "/voice/follow_up", url.Values{"CallSid": {"CA1"}})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := decodeInstruction(t, w)
	if !strings.Contains(body.Say, "didn't catch") {
		t.Errorf("expected repeat prompt, got %q", body.Say)
	}
}

// TestFollowUp_FarewellEndsCall verifies a goodbye stops gathering and ends the call.
func TestFollowUp_FarewellEndsCall(t *testing.T) {
	r := buildTestRouter(t)
	postForm(r, "/voice", url.Values{"CallSid": {"CA1"}})

	w := postForm(r, "/voice/follow_up", url.Values{
		"CallSid":      {"CA1"},
		"SpeechResult": {"goodbye"},
	})
	body := decodeInstruction(t, w)
	if !body.EndCall || body.Gather {
		t.Fatalf("farewell must end the call: %+v", body)
	}
}
