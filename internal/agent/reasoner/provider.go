// Package reasoner assembles prompts from Jinja-delimited templates,
// drives an LLM Provider to generate an Action, and parses its XML
// response back into a Thought/Code pair.
package reasoner

import "context"

// CompletionMessage is one turn in a chat-style completion request. Role
// is one of "system", "user", or "assistant".
type CompletionMessage struct {
	Role    string
	Content string
}

// CompletionRequest is a single LLM call. CodeAct never needs the LLM's
// own function-calling feature — the generated program calls tools
// directly inside the sandbox — so this carries no
// Tools/Attachments/ToolResults fields.
type CompletionRequest struct {
	Model       string
	System      string
	Messages    []CompletionMessage
	MaxTokens   int
	Temperature float64
}

// CompletionChunk is one piece of a streaming completion. A chunk with
// Done set is always the last one sent on the channel; a chunk with Error
// set may or may not also have Done set.
type CompletionChunk struct {
	Text         string
	Done         bool
	Error        error
	InputTokens  int
	OutputTokens int
}

// Model describes one model a Provider can serve.
type Model struct {
	ID          string
	Name        string
	ContextSize int
}

// Provider is the LLM backend abstraction the Reasoner drives, trimmed
// to the subset CodeAct's code-generation loop actually exercises.
type Provider interface {
	Name() string
	Models() []Model
	// Complete streams a completion. The returned channel is closed after
	// the terminal chunk (Done or Error) is sent.
	Complete(ctx context.Context, req *CompletionRequest) (<-chan *CompletionChunk, error)
}
