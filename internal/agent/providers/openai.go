package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/reactrun/reactor/internal/agent/reasoner"
	"github.com/reactrun/reactor/internal/retry"
)

// OpenAIProvider implements reasoner.Provider for OpenAI's chat completion
// API.
type OpenAIProvider struct {
	client     *openai.Client
	apiKey     string
	maxRetries int
	retryDelay time.Duration
}

// NewOpenAIProvider creates a provider for the given API key. An empty key
// yields a provider whose Complete always fails, so callers can register
// every provider up front and only fail at use time.
func NewOpenAIProvider(apiKey string) *OpenAIProvider {
	if apiKey == "" {
		return &OpenAIProvider{maxRetries: 3, retryDelay: time.Second}
	}
	return &OpenAIProvider{
		client:     openai.NewClient(apiKey),
		apiKey:     apiKey,
		maxRetries: 3,
		retryDelay: time.Second,
	}
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) Models() []reasoner.Model {
	return []reasoner.Model{
		{ID: "gpt-4o", Name: "GPT-4o", ContextSize: 128000},
		{ID: "gpt-4-turbo", Name: "GPT-4 Turbo", ContextSize: 128000},
		{ID: "gpt-3.5-turbo", Name: "GPT-3.5 Turbo", ContextSize: 16385},
		{ID: "gpt-4", Name: "GPT-4", ContextSize: 8192},
	}
}

// Complete sends a streaming chat completion request, retrying the
// initial stream setup on transient failures via retry.DoWithValue
// (bounded exponential backoff off retryDelay), the same shared retry
// package anthropic.go uses, here with maxRetries total attempts.
func (p *OpenAIProvider) Complete(ctx context.Context, req *reasoner.CompletionRequest) (<-chan *reasoner.CompletionChunk, error) {
	if p.client == nil {
		return nil, errors.New("openai: API key not configured")
	}

	chatReq := openai.ChatCompletionRequest{
		Model:    req.Model,
		Messages: p.convertMessages(req.Messages, req.System),
		Stream:   true,
	}
	if req.MaxTokens > 0 {
		chatReq.MaxTokens = req.MaxTokens
	}
	if req.Temperature > 0 {
		chatReq.Temperature = float32(req.Temperature)
	}

	cfg := retry.Config{
		MaxAttempts:  p.maxRetries,
		InitialDelay: p.retryDelay,
		MaxDelay:     p.retryDelay * 32,
		Factor:       2,
	}

	stream, result := retry.DoWithValue(ctx, cfg, func() (*openai.ChatCompletionStream, error) {
		s, err := p.client.CreateChatCompletionStream(ctx, chatReq)
		if err != nil {
			if !p.isRetryableError(err) {
				return nil, retry.Permanent(p.wrapError(err, req.Model))
			}
			return nil, err
		}
		return s, nil
	})

	if result.Err != nil {
		if errors.Is(result.Err, context.Canceled) || errors.Is(result.Err, context.DeadlineExceeded) {
			return nil, result.Err
		}
		return nil, fmt.Errorf("openai: max retries exceeded: %w", p.wrapError(result.Err, req.Model))
	}

	chunks := make(chan *reasoner.CompletionChunk)
	go p.processStream(ctx, stream, chunks, req.Model)
	return chunks, nil
}

func (p *OpenAIProvider) processStream(ctx context.Context, stream *openai.ChatCompletionStream, chunks chan<- *reasoner.CompletionChunk, model string) {
	defer close(chunks)
	defer stream.Close()

	for {
		select {
		case <-ctx.Done():
			chunks <- &reasoner.CompletionChunk{Error: ctx.Err(), Done: true}
			return
		default:
		}

		response, err := stream.Recv()
		if err != nil {
			if err == io.EOF {
				chunks <- &reasoner.CompletionChunk{Done: true}
				return
			}
			chunks <- &reasoner.CompletionChunk{Error: p.wrapError(err, model), Done: true}
			return
		}

		if len(response.Choices) == 0 {
			continue
		}
		if usage := response.Usage; usage != nil {
			chunks <- &reasoner.CompletionChunk{InputTokens: usage.PromptTokens, OutputTokens: usage.CompletionTokens}
		}
		if delta := response.Choices[0].Delta.Content; delta != "" {
			chunks <- &reasoner.CompletionChunk{Text: delta}
		}
	}
}

// convertMessages builds an OpenAI message list from a plain-text
// system+turn history. CodeAct's LLM never receives tool-call or
// tool-result turns — the generated program calls tools from inside the
// sandbox, not via the chat API — so this has no
// ToolCalls/ToolResults/Attachments handling to do.
func (p *OpenAIProvider) convertMessages(messages []reasoner.CompletionMessage, system string) []openai.ChatCompletionMessage {
	result := make([]openai.ChatCompletionMessage, 0, len(messages)+1)
	if system != "" {
		result = append(result, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	}
	for _, msg := range messages {
		result = append(result, openai.ChatCompletionMessage{Role: msg.Role, Content: msg.Content})
	}
	return result
}

func (p *OpenAIProvider) isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	return ClassifyError(err).IsRetryable()
}

func (p *OpenAIProvider) wrapError(err error, model string) error {
	if err == nil {
		return nil
	}
	if IsProviderError(err) {
		return err
	}
	return NewProviderError("openai", model, err)
}
