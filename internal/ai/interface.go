package ai

import (
	"context"
)

// Composer defines the contract for turning structured place facts into
// spoken-style narration. This interface allows for swapping different
// providers (Gemini, OpenAI, etc.) in the future; the dialogue core only
// ever sees the returned text.
type Composer interface {
	// Compose renders one reply for the given task and facts. The returned
	// string is plain prose ready for speech synthesis.
	Compose(ctx context.Context, p Prompt) (string, error)
}
