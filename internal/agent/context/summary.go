package context

import "github.com/reactrun/reactor/internal/models"

// SummaryMetadataKey marks a Message as a rolling summary rather than a
// real conversation turn.
const SummaryMetadataKey = "reactor_summary"

// CoversUntilKey is the metadata key indicating which message ID the
// summary covers up to.
const CoversUntilKey = "covers_until"

func isSummaryMessage(m models.Message) bool {
	if m.Metadata == nil {
		return false
	}
	b, _ := m.Metadata[SummaryMetadataKey].(bool)
	return b
}

// FindLatestSummary finds the most recent summary message in history.
// Returns nil if no summary exists.
func FindLatestSummary(history []models.Message) *models.Message {
	for i := len(history) - 1; i >= 0; i-- {
		if isSummaryMessage(history[i]) {
			m := history[i]
			return &m
		}
	}
	return nil
}

// MessagesSinceSummary returns messages that came after the given
// summary. If summary is nil, returns all messages.
func MessagesSinceSummary(history []models.Message, summary *models.Message) []models.Message {
	if summary == nil {
		return history
	}
	for i, m := range history {
		if m.ID == summary.ID {
			if i+1 >= len(history) {
				return nil
			}
			return history[i+1:]
		}
	}
	return history
}

// NeedsSummarization checks if the history needs summarization based on
// threshold.
func NeedsSummarization(history []models.Message, summary *models.Message, maxMsgsBeforeSummary int) bool {
	return len(MessagesSinceSummary(history, summary)) > maxMsgsBeforeSummary
}

// CreateSummaryMessage creates a new summary message with proper
// metadata.
func CreateSummaryMessage(id, summaryContent, coversUntilMsgID string) models.Message {
	return models.Message{
		ID:      id,
		Role:    models.RoleSystem,
		Content: summaryContent,
		Metadata: map[string]any{
			SummaryMetadataKey: true,
			CoversUntilKey:     coversUntilMsgID,
		},
	}
}

// GetMessagesToSummarize returns older messages that should be
// summarized, keeping the most recent keepRecent messages aside.
func GetMessagesToSummarize(history []models.Message, summary *models.Message, keepRecent int) []models.Message {
	messages := MessagesSinceSummary(history, summary)

	filtered := make([]models.Message, 0, len(messages))
	for _, m := range messages {
		if isSummaryMessage(m) {
			continue
		}
		filtered = append(filtered, m)
	}

	if len(filtered) <= keepRecent {
		return nil
	}
	return filtered[:len(filtered)-keepRecent]
}
