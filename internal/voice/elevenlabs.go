package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultTTSBase = "https://api.elevenlabs.io"
	ttsModel       = "eleven_monolingual_v1"
)

// httpClient is used for all synthesis requests; the 30s timeout guards
// against stalled connections while context cancellation is still honoured
// via NewRequestWithContext.
var httpClient = &http.Client{Timeout: 30 * time.Second}

// ElevenLabs is a Synthesizer backed by the ElevenLabs HTTP API.
type ElevenLabs struct {
	apiKey string
	base   string
}

// NewElevenLabs creates the adapter. base overrides the API host for
// tests; pass "" for production.
func NewElevenLabs(apiKey, base string) *ElevenLabs {
	if base == "" {
		base = defaultTTSBase
	}
	return &ElevenLabs{apiKey: apiKey, base: base}
}

type ttsRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

// Synthesize renders text with the given voice and returns MP3 bytes.
func (e *ElevenLabs) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	reqBody, err := json.Marshal(ttsRequest{Text: text, ModelID: ttsModel})
	if err != nil {
		return nil, fmt.Errorf("tts: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", e.base, voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("tts: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", e.apiKey)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("tts: api status %d: %s", resp.StatusCode, body)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tts: read response: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("tts: empty audio for voice %s", voiceID)
	}
	return audio, nil
}

type voicesResponse struct {
	Voices []Voice `json:"voices"`
}

// Voices lists the voices available to the account.
func (e *ElevenLabs) Voices(ctx context.Context) ([]Voice, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.base+"/v1/voices", nil)
	if err != nil {
		return nil, fmt.Errorf("tts: build request: %w", err)
	}
	req.Header.Set("xi-api-key", e.apiKey)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts: do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tts: read response: %w", err)
	}

	var vr voicesResponse
	if err := json.Unmarshal(body, &vr); err != nil {
		return nil, fmt.Errorf("tts: unmarshal voices: %w", err)
	}
	return vr.Voices, nil
}
