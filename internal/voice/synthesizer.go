package voice

import "context"

// Voice is one synthesizer voice the assistant can speak with.
type Voice struct {
	ID   string `json:"voice_id"`
	Name string `json:"name"`
}

// Synthesizer renders one piece of text to audio bytes (MP3).
// Implementations must honour context cancellation; synthesis happens
// mid-call and a hung request stalls the whole reply.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voiceID string) ([]byte, error)
	Voices(ctx context.Context) ([]Voice, error)
}
