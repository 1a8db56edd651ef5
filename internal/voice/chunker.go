// README: Sentence-bounded chunking of narration text for low-latency synthesis.
package voice

import "strings"

const (
	// chunkTarget is the length a chunk grows toward before it is cut.
	chunkTarget = 75
	// minChunkLen / maxChunkLen bound what is worth synthesizing: tiny
	// fragments sound clipped, oversized ones delay the first audio.
	minChunkLen = 15
	maxChunkLen = 100
)

// Chunk splits narration into sentence-bounded pieces sized for fast,
// interruptible synthesis. Sentences accumulate until the target length
// would be exceeded, then the chunk is cut; pieces outside the length
// bounds are dropped rather than stitched.
func Chunk(text string) []string {
	sentences := strings.Split(text, ". ")

	var chunks []string
	var current []string
	length := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		joined := strings.Join(current, ". ")
		if !strings.HasSuffix(joined, "?") && !strings.HasSuffix(joined, "!") {
			joined += "."
		}
		chunks = append(chunks, joined)
		current = nil
		length = 0
	}

	for _, sentence := range sentences {
		sentence = strings.TrimSpace(strings.TrimSuffix(sentence, "."))
		if sentence == "" {
			continue
		}
		if length+len(sentence) > chunkTarget && len(current) > 0 {
			flush()
		}
		current = append(current, sentence)
		length += len(sentence)
	}
	flush()

	out := chunks[:0]
	for _, c := range chunks {
		if n := len(c); n >= minChunkLen && n <= maxChunkLen {
			out = append(out, c)
		}
	}
	return out
}
