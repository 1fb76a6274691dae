package reasoner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/reactrun/reactor/internal/templates"
)

// maxGenerateAttempts bounds the retry loop around one LLM call + parse.
const maxGenerateAttempts = 3

// Reasoner drives a Provider to turn the current WorkingMemory context
// into a Thought/Code Action, retrying on malformed or empty responses.
type Reasoner struct {
	provider Provider
	engine   *templates.VariableEngine
	model    string
	temp     float64
}

// New creates a Reasoner driving provider with the given model and
// sampling temperature.
func New(provider Provider, model string, temperature float64) *Reasoner {
	return &Reasoner{provider: provider, engine: NewEngine(), model: model, temp: temperature}
}

// GenerateAction renders the step prompt, calls the provider, and parses
// its response into a Thought/Code pair. It retries up to
// maxGenerateAttempts times when the response is malformed XML or yields
// empty code, mirroring generate_action's retry loop.
func (r *Reasoner) GenerateAction(ctx context.Context, in PromptInputs) (ParsedAction, error) {
	prompt, err := ActionProgramPrompt(r.engine, in)
	if err != nil {
		return ParsedAction{}, fmt.Errorf("render action prompt: %w", err)
	}
	responseFormat, err := ResponseFormatPrompt(r.engine)
	if err != nil {
		return ParsedAction{}, fmt.Errorf("render response format: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= maxGenerateAttempts; attempt++ {
		text, err := r.complete(ctx, responseFormat, prompt)
		if err != nil {
			lastErr = err
			continue
		}

		parsed, err := ParseActionResponse(text)
		if err != nil {
			lastErr = err
			continue
		}
		parsed.Code = CleanCode(parsed.Code)

		if strings.TrimSpace(parsed.Code) == "" {
			lastErr = errors.New("reasoner: generated action has empty code")
			continue
		}

		return parsed, nil
	}

	return ParsedAction{}, fmt.Errorf("reasoner: failed to generate a valid action after %d attempts: %w", maxGenerateAttempts, lastErr)
}

// complete drains the provider's streaming response into a single string.
func (r *Reasoner) complete(ctx context.Context, system, prompt string) (string, error) {
	chunks, err := r.provider.Complete(ctx, &CompletionRequest{
		Model:       r.model,
		System:      system,
		Messages:    []CompletionMessage{{Role: "user", Content: prompt}},
		Temperature: r.temp,
	})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for chunk := range chunks {
		if chunk.Error != nil {
			return "", chunk.Error
		}
		b.WriteString(chunk.Text)
		if chunk.Done {
			break
		}
	}
	return b.String(), nil
}
