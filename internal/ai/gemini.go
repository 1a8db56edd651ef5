package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiComposer implements Composer using Google's Gemini models.
type GeminiComposer struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiComposer initializes a new Gemini client.
// apiKey should be provided from environment variables.
func NewGeminiComposer(ctx context.Context, apiKey string) (*GeminiComposer, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	// Gemini 2.0 Flash keeps per-turn latency low enough for a phone call.
	model := client.GenerativeModel("gemini-2.0-flash")

	// Narration should sound warm but stay anchored to the supplied facts.
	model.SetTemperature(0.6)

	return &GeminiComposer{
		client: client,
		model:  model,
	}, nil
}

// Close cleans up the Gemini client resources.
func (c *GeminiComposer) Close() {
	c.client.Close()
}

// Compose renders spoken narration for the given prompt.
func (c *GeminiComposer) Compose(ctx context.Context, p Prompt) (string, error) {
	facts, err := json.Marshal(p.Places)
	if err != nil {
		return "", fmt.Errorf("marshal place facts: %w", err)
	}

	fullPrompt := fmt.Sprintf("%s\n\nCaller said: %s\nPlace facts (JSON): %s",
		buildSystemPrompt(p), p.Query, facts)

	resp, err := c.model.GenerateContent(ctx, genai.Text(fullPrompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation error: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response candidates from Gemini")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}

	out := strings.TrimSpace(text.String())
	if out == "" {
		return "", fmt.Errorf("empty narration from Gemini")
	}
	return out, nil
}

// buildSystemPrompt constructs the instructions for the model.
func buildSystemPrompt(p Prompt) string {
	city := p.City
	if city == "" {
		city = "the caller's city"
	}
	prefs := "none stated"
	if len(p.Preferences) > 0 {
		prefs = strings.Join(p.Preferences, ", ")
	}

	var task string
	switch p.Task {
	case TaskResults:
		task = "Introduce each place in one short sentence, in the order given. Lead with the first place's name."
	case TaskPlaceOverview:
		task = "Give a friendly two-sentence overview of the place."
	case TaskPlaceDeep:
		task = "The caller already heard the basics. Go deeper: mention rating context, price, and anything distinctive from the description."
	case TaskAspect:
		task = fmt.Sprintf("Answer only about the place's %s, in one or two sentences.", p.Aspect)
	default:
		task = "Reply helpfully in one or two sentences."
	}

	return fmt.Sprintf(`Role: You are a friendly local guide speaking on a phone call about places in %s.
Caller preferences: %s

RULES:
- Spoken prose only: no lists, no markdown, no emoji.
- Use ONLY the supplied facts; never invent hours, prices, or addresses.
- Keep it under 80 words. It will be read aloud.

Task: %s`, city, prefs, task)
}
