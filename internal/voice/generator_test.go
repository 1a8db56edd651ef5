package voice

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
)

// fakeSynth records synthesis calls and tracks peak concurrency.
type fakeSynth struct {
	mu         sync.Mutex
	inFlight   int
	peak       int
	calls      []string
	failOn     string
	failAlways bool
	voices     []Voice
	voicesErr  error
}

func (f *fakeSynth) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.peak {
		f.peak = f.inFlight
	}
	f.calls = append(f.calls, text)
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if f.failAlways || (f.failOn != "" && strings.Contains(text, f.failOn)) {
		return nil, errors.New("synth down")
	}
	return []byte("mp3-bytes:" + text), nil
}

func (f *fakeSynth) Voices(ctx context.Context) ([]Voice, error) {
	return f.voices, f.voicesErr
}

const longNarration = "Torchy's Tacos is a local favorite with a four point eight rating. " +
	"It sits right on South First Street near the river. " +
	"Prices are on the cheap side and the queso is famous. " +
	"Most evenings there is a line but it moves quickly enough."

func TestGenerate_WritesFilesInOrder(t *testing.T) {
	synth := &fakeSynth{}
	gen, err := NewGenerator(synth, t.TempDir())
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	paths := gen.Generate(context.Background(), longNarration, "v1")
	if len(paths) != len(Chunk(longNarration)) {
		t.Fatalf("expected %d files, got %d", len(Chunk(longNarration)), len(paths))
	}

	// File i must hold chunk i: playback order is narration order.
	for i, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("read %s: %v", p, err)
		}
		want := "mp3-bytes:" + Chunk(longNarration)[i]
		if string(data) != want {
			t.Errorf("file %d holds %q, want %q", i, data, want)
		}
	}
}

func TestGenerate_ConcurrencyBounded(t *testing.T) {
	synth := &fakeSynth{}
	gen, err := NewGenerator(synth, t.TempDir())
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	gen.Generate(context.Background(), longNarration, "v1")
	if synth.peak > ttsBatchSize {
		t.Fatalf("peak concurrency %d exceeds batch size %d", synth.peak, ttsBatchSize)
	}
}

func TestGenerate_PartialFailureSkipsChunk(t *testing.T) {
	synth := &fakeSynth{failOn: "queso"}
	gen, err := NewGenerator(synth, t.TempDir())
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	paths := gen.Generate(context.Background(), longNarration, "v1")
	total := len(Chunk(longNarration))
	if len(paths) != total-1 {
		t.Fatalf("expected %d files after one failed chunk, got %d", total-1, len(paths))
	}
	for _, p := range paths {
		data, _ := os.ReadFile(p)
		if strings.Contains(string(data), "queso") {
			t.Error("failed chunk leaked into output")
		}
	}
}

func TestGenerate_TotalFailureFallsBackToErrorAudio(t *testing.T) {
	// Fail everything except the error narration itself.
	synth := &fakeSynth{failOn: "Torchy"}
	gen, err := NewGenerator(synth, t.TempDir())
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	paths := gen.Generate(context.Background(), "Torchy failure one here okay. Torchy failure two here okay.", "v1")
	if len(paths) != 1 {
		t.Fatalf("expected single error-audio file, got %d", len(paths))
	}
	data, _ := os.ReadFile(paths[0])
	if !strings.Contains(string(data), "trouble speaking") {
		t.Errorf("fallback file holds %q, want error narration", data)
	}
}

func TestPickVoice_FallbackWhenListingFails(t *testing.T) {
	synth := &fakeSynth{voicesErr: errors.New("api down")}
	gen, err := NewGenerator(synth, t.TempDir())
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	v := gen.PickVoice(context.Background())
	if v.ID != fallbackVoiceID {
		t.Fatalf("voice = %s, want fallback %s", v.ID, fallbackVoiceID)
	}
}

func TestPickVoice_FromList(t *testing.T) {
	synth := &fakeSynth{voices: []Voice{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}}
	gen, err := NewGenerator(synth, t.TempDir())
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	v := gen.PickVoice(context.Background())
	if v.ID != "a" && v.ID != "b" {
		t.Fatalf("voice %s not from configured list", v.ID)
	}
}

func TestCleanup(t *testing.T) {
	synth := &fakeSynth{}
	dir := t.TempDir()
	gen, err := NewGenerator(synth, dir)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	paths := gen.Generate(context.Background(), longNarration, "v1")
	gen.Cleanup(paths[0])
	if _, err := os.Stat(paths[0]); !os.IsNotExist(err) {
		t.Fatalf("file still present after cleanup")
	}
	// Second cleanup of the same path must be a no-op.
	gen.Cleanup(paths[0])
}
