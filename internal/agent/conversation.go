package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"

	rcontext "github.com/reactrun/reactor/internal/agent/context"
	"github.com/reactrun/reactor/internal/agent/reasoner"
	"github.com/reactrun/reactor/internal/models"
)

// DefaultConversationMaxChars bounds the packed window Prepare hands an
// LLM request; NewConversationHistory uses it in place of
// rcontext.DefaultPackOptions' 30000-char MaxChars.
const DefaultConversationMaxChars = 64 * 1024

// ConversationHistory stores every Message exchanged with an Agent across
// Chat calls, keyed by a nanoid-style ID so generated code can retrieve a
// message verbatim.
//
// The store itself never evicts — RetrieveMessage must keep working
// against the full transcript. Bounding what actually reaches the model
// happens at request time, in Prepare, via a Packer and (if enabled) a
// rolling Summarizer.
type ConversationHistory struct {
	mu       sync.RWMutex
	messages []models.Message
	byID     map[string]int // message ID -> index into messages

	packer     *rcontext.Packer
	summarizer *rcontext.Summarizer
	summary    *models.Message
}

// NewConversationHistory creates an empty history whose Prepare window is
// bounded at maxChars. A non-positive maxChars falls back to
// DefaultConversationMaxChars.
func NewConversationHistory(maxChars int) *ConversationHistory {
	if maxChars <= 0 {
		maxChars = DefaultConversationMaxChars
	}
	opts := rcontext.DefaultPackOptions()
	opts.MaxChars = maxChars
	return &ConversationHistory{
		byID:   make(map[string]int),
		packer: rcontext.NewPacker(opts),
	}
}

// EnableSummarization attaches a rolling summarizer backed by provider, so
// Prepare compresses old turns into a single summary message instead of
// ever growing the window it sends the model without bound.
func (h *ConversationHistory) EnableSummarization(provider rcontext.SummaryProvider, cfg rcontext.SummarizationConfig) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.summarizer = rcontext.NewSummarizer(provider, cfg)
}

// AddMessage appends a message with a freshly generated ID and returns it.
func (h *ConversationHistory) AddMessage(role models.Role, content string) models.Message {
	h.mu.Lock()
	defer h.mu.Unlock()

	msg := models.Message{ID: models.NewID(), Role: role, Content: content}
	h.messages = append(h.messages, msg)
	h.byID[msg.ID] = len(h.messages) - 1
	return msg
}

// GetHistory returns a snapshot of the full message list in insertion
// order.
func (h *ConversationHistory) GetHistory() []models.Message {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]models.Message, len(h.messages))
	copy(out, h.messages)
	return out
}

// ClearHistory discards all stored messages.
func (h *ConversationHistory) ClearHistory() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = nil
	h.byID = make(map[string]int)
	h.summary = nil
}

// RetrieveMessage resolves a message by nanoid, grounded on
// RetrieveMessageTool.async_execute's layered lookup: exact ID match
// first, then a case-insensitive ID match. Unlike the Python original we
// do not additionally grep message content for an embedded ID — that
// branch in the original only existed to compensate for IDs never being
// indexed, which this store indexes from the start.
func (h *ConversationHistory) RetrieveMessage(id string) (models.Message, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if idx, ok := h.byID[id]; ok {
		return h.messages[idx], true
	}
	lower := strings.ToLower(id)
	for msgID, idx := range h.byID {
		if strings.ToLower(msgID) == lower {
			return h.messages[idx], true
		}
	}
	return models.Message{}, false
}

// Prepare returns the message window the next LLM request should send: if
// summarization is enabled and due, it first folds everything older than
// the summarizer's keep-recent window into a rolling summary message
// (appended to the store like any other message), then packs a
// recency-ordered window within the Packer's budget.
func (h *ConversationHistory) Prepare(ctx context.Context) ([]models.Message, error) {
	h.mu.Lock()
	history := make([]models.Message, len(h.messages))
	copy(history, h.messages)
	summarizer := h.summarizer
	summary := h.summary
	packer := h.packer
	h.mu.Unlock()

	if summarizer != nil {
		newSummary, err := summarizer.Summarize(ctx, history, summary)
		if err != nil {
			return nil, fmt.Errorf("summarize conversation: %w", err)
		}
		if newSummary != nil {
			h.mu.Lock()
			h.summary = newSummary
			h.messages = append(h.messages, *newSummary)
			h.byID[newSummary.ID] = len(h.messages) - 1
			h.mu.Unlock()
			summary = newSummary
		}
	}

	return packer.Pack(history, nil, summary), nil
}

// reasonerSummaryProvider adapts a reasoner.Provider into
// rcontext.SummaryProvider, the same single-shot prompt-and-collect
// pattern DefaultCompletionEvaluator.verify uses for its judge call.
type reasonerSummaryProvider struct {
	provider    reasoner.Provider
	model       string
	temperature float64
}

func (p *reasonerSummaryProvider) Summarize(ctx context.Context, messages []models.Message, maxLength int) (string, error) {
	prompt := rcontext.BuildSummarizationPrompt(messages, maxLength)

	chunks, err := p.provider.Complete(ctx, &reasoner.CompletionRequest{
		Model:       p.model,
		Messages:    []reasoner.CompletionMessage{{Role: "user", Content: prompt}},
		Temperature: p.temperature,
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
	return strings.TrimSpace(b.String()), nil
}
