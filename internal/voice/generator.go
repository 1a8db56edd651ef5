// README: Chunked audio generation with bounded synthesis concurrency.
package voice

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	mrand "math/rand"
	"os"
	"path/filepath"
	"sync"
)

const (
	// ttsBatchSize bounds concurrent synthesis requests per reply; the
	// provider caps concurrent connections per account.
	ttsBatchSize = 2
	// minSynthLen skips fragments too short to be worth a round trip.
	minSynthLen = 10
)

// fallbackVoiceID is used when no voice list is available and for error
// audio, where reliability matters more than variety.
const fallbackVoiceID = "ErXwobaYiN019PkySvjV"

const errorNarration = "I apologize, but I'm having trouble speaking. Let me try again with a simpler response."

// Generator turns narration text into a sequence of audio files on disk.
type Generator struct {
	synth    Synthesizer
	audioDir string

	mu     sync.Mutex
	voices []Voice
}

// NewGenerator creates a Generator writing MP3 files under audioDir.
func NewGenerator(synth Synthesizer, audioDir string) (*Generator, error) {
	if err := os.MkdirAll(audioDir, 0o755); err != nil {
		return nil, fmt.Errorf("create audio dir: %w", err)
	}
	return &Generator{synth: synth, audioDir: audioDir}, nil
}

// PickVoice selects a random voice for a new call, falling back to the
// known-good default when the voice list cannot be fetched.
func (g *Generator) PickVoice(ctx context.Context) Voice {
	g.mu.Lock()
	cached := g.voices
	g.mu.Unlock()

	if cached == nil {
		voices, err := g.synth.Voices(ctx)
		if err != nil || len(voices) == 0 {
			log.Printf("voice: listing voices failed, using fallback: %v", err)
			return Voice{ID: fallbackVoiceID, Name: "Antoni"}
		}
		g.mu.Lock()
		g.voices = voices
		cached = voices
		g.mu.Unlock()
	}
	return cached[mrand.Intn(len(cached))]
}

// Generate chunks text and synthesizes the chunks in order-preserving
// batches of ttsBatchSize. Returns the audio file paths in narration
// order. When every chunk fails, a single error-audio file is returned
// so the caller never goes silent.
func (g *Generator) Generate(ctx context.Context, text, voiceID string) []string {
	chunks := Chunk(text)
	log.Printf("voice: generating %d audio chunks", len(chunks))

	paths := make([]string, len(chunks))
	for start := 0; start < len(chunks); start += ttsBatchSize {
		end := start + ttsBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			if len(chunks[i]) < minSynthLen {
				continue
			}
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				path, err := g.synthesizeToFile(ctx, chunks[i], voiceID)
				if err != nil {
					log.Printf("voice: chunk %d/%d failed: %v", i+1, len(chunks), err)
					return
				}
				paths[i] = path
			}(i)
		}
		wg.Wait()
	}

	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		log.Printf("voice: no audio generated, falling back to error audio")
		if p, err := g.synthesizeToFile(ctx, errorNarration, fallbackVoiceID); err == nil {
			out = append(out, p)
		}
	}
	return out
}

func (g *Generator) synthesizeToFile(ctx context.Context, text, voiceID string) (string, error) {
	audio, err := g.synth.Synthesize(ctx, text, voiceID)
	if err != nil {
		return "", err
	}

	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("random filename: %w", err)
	}
	path := filepath.Join(g.audioDir, fmt.Sprintf("audio_%s.mp3", hex.EncodeToString(buf)))

	if err := os.WriteFile(path, audio, 0o644); err != nil {
		return "", fmt.Errorf("write audio file: %w", err)
	}
	return path, nil
}

// Cleanup removes a served audio file. Missing files are not an error.
func (g *Generator) Cleanup(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("voice: cleanup %s: %v", path, err)
	}
}
