package context

import (
	"context"
	"fmt"
	"strings"

	"github.com/reactrun/reactor/internal/models"
)

// SummarizationConfig configures the summarization behavior.
type SummarizationConfig struct {
	// MaxMsgsBeforeSummary is the threshold for triggering summarization.
	MaxMsgsBeforeSummary int

	// KeepRecentMessages is how many recent messages to keep
	// un-summarized.
	KeepRecentMessages int

	// MaxSummaryLength is the target length for summaries in characters.
	MaxSummaryLength int
}

// DefaultSummarizationConfig returns sensible defaults.
func DefaultSummarizationConfig() SummarizationConfig {
	return SummarizationConfig{
		MaxMsgsBeforeSummary: 30,
		KeepRecentMessages:   10,
		MaxSummaryLength:     2000,
	}
}

// SummaryProvider generates a summary of the given messages. Satisfied by
// a reasoner.Provider-backed adapter in production, and fakeable in
// tests.
type SummaryProvider interface {
	Summarize(ctx context.Context, messages []models.Message, maxLength int) (string, error)
}

// Summarizer periodically compresses old conversation turns into a
// single rolling summary message, so a long-running Chat session's
// history stays within Packer's char budget without ConversationHistory
// having to evict real turns.
type Summarizer struct {
	provider SummaryProvider
	config   SummarizationConfig
}

// NewSummarizer creates a summarizer driving provider per config.
func NewSummarizer(provider SummaryProvider, config SummarizationConfig) *Summarizer {
	if config.MaxMsgsBeforeSummary <= 0 {
		config.MaxMsgsBeforeSummary = 30
	}
	if config.KeepRecentMessages <= 0 {
		config.KeepRecentMessages = 10
	}
	if config.MaxSummaryLength <= 0 {
		config.MaxSummaryLength = 2000
	}
	return &Summarizer{provider: provider, config: config}
}

// ShouldSummarize checks if summarization is needed based on history
// state.
func (s *Summarizer) ShouldSummarize(history []models.Message, currentSummary *models.Message) bool {
	return NeedsSummarization(history, currentSummary, s.config.MaxMsgsBeforeSummary)
}

// Summarize generates a new summary message if needed. Returns nil, nil
// if no summarization was needed.
func (s *Summarizer) Summarize(ctx context.Context, history []models.Message, currentSummary *models.Message) (*models.Message, error) {
	if !s.ShouldSummarize(history, currentSummary) {
		return nil, nil
	}

	toSummarize := GetMessagesToSummarize(history, currentSummary, s.config.KeepRecentMessages)
	if len(toSummarize) == 0 {
		return nil, nil
	}

	summaryContent, err := s.provider.Summarize(ctx, toSummarize, s.config.MaxSummaryLength)
	if err != nil {
		return nil, fmt.Errorf("summarize history: %w", err)
	}

	coversUntilMsgID := toSummarize[len(toSummarize)-1].ID
	summaryMsg := CreateSummaryMessage(models.NewID(), summaryContent, coversUntilMsgID)
	return &summaryMsg, nil
}

// BuildSummarizationPrompt creates the prompt for summarizing messages,
// for use by an LLM-based SummaryProvider.
func BuildSummarizationPrompt(messages []models.Message, maxLength int) string {
	var sb strings.Builder

	sb.WriteString("Please summarize the following conversation concisely. ")
	fmt.Fprintf(&sb, "Keep the summary under %d characters. ", maxLength)
	sb.WriteString("Focus on:\n")
	sb.WriteString("- Key topics discussed\n")
	sb.WriteString("- Important decisions or conclusions\n")
	sb.WriteString("- Any pending tasks or questions\n\n")
	sb.WriteString("Conversation:\n\n")

	for _, m := range messages {
		fmt.Fprintf(&sb, "[%s]: %s\n\n", m.Role, m.Content)
	}

	sb.WriteString("---\nProvide a concise summary:")
	return sb.String()
}
