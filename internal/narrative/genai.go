// Package narrative optionally rephrases an already-computed
// StrategyRecommendation's situation/mechanism text into plainer
// language using a genai.Client. It never touches a dollar figure: the
// rephrasing runs strictly after estimated_savings is computed by the
// strategy engine, so it cannot affect correctness, only readability.
package narrative

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"taxrecon/internal/domain"
)

// Rephraser wraps a genai.Client scoped to one API key.
type Rephraser struct {
	client *genai.Client
	model  string
}

// New constructs a Rephraser against the Gemini API.
func New(ctx context.Context, apiKey, model string) (*Rephraser, error) {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("narrative: create genai client: %w", err)
	}
	return &Rephraser{client: client, model: model}, nil
}

const systemInstruction = `You rephrase an already-computed tax strategy recommendation into
plain, friendly language for a non-expert reader. Do not invent, alter, round, or
recompute any dollar figure, date, or percentage present in the input; repeat them
verbatim. Only change sentence structure and word choice.`

// Rephrase returns a plain-language rewrite of r's Situation and
// Mechanism text. On any failure it returns the original recommendation
// unchanged with the error. Callers should treat this as best-effort
// and fall back to the computed text rather than abort reporting.
func (n *Rephraser) Rephrase(ctx context.Context, r domain.StrategyRecommendation) (domain.StrategyRecommendation, error) {
	prompt := fmt.Sprintf(
		"Situation: %s\nMechanism: %s\nEstimated savings: %s\n\nRewrite the Situation and Mechanism in plain language, one paragraph each, in this exact format:\nSITUATION: <text>\nMECHANISM: <text>",
		r.Situation, r.Mechanism, r.EstimatedSavings.StringFixed(2),
	)

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
	}

	result, err := n.client.Models.GenerateContent(ctx, n.model, genai.Text(prompt), config)
	if err != nil {
		return r, fmt.Errorf("narrative: generate content: %w", err)
	}

	situation, mechanism, ok := parseRewrite(result.Text())
	if !ok {
		return r, fmt.Errorf("narrative: unexpected rewrite format")
	}

	out := r
	out.Situation = situation
	out.Mechanism = mechanism
	return out, nil
}

func parseRewrite(text string) (situation, mechanism string, ok bool) {
	const situationPrefix = "SITUATION:"
	const mechanismPrefix = "MECHANISM:"

	situationIdx := strings.Index(text, situationPrefix)
	mechanismIdx := strings.Index(text, mechanismPrefix)
	if situationIdx < 0 || mechanismIdx < 0 || mechanismIdx < situationIdx {
		return "", "", false
	}
	situation = strings.TrimSpace(text[situationIdx+len(situationPrefix) : mechanismIdx])
	mechanism = strings.TrimSpace(text[mechanismIdx+len(mechanismPrefix):])
	return situation, mechanism, situation != "" && mechanism != ""
}
