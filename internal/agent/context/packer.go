// Package context selects and summarizes conversation history for LLM
// requests: packing chooses a recency-ordered window within a char
// budget, and the rolling summarizer compresses whatever packing would
// otherwise drop.
package context

import (
	"github.com/reactrun/reactor/internal/models"
)

// PackOptions configures how messages are packed into context.
type PackOptions struct {
	// MaxMessages is the hard cap on number of messages to include.
	MaxMessages int

	// MaxChars is the approximate character budget (cheap proxy for
	// tokens, counted in characters of message content rather than with
	// a real tokenizer).
	MaxChars int

	// IncludeSummary controls whether to include the rolling summary.
	IncludeSummary bool
}

// DefaultPackOptions returns sensible defaults for context packing.
func DefaultPackOptions() PackOptions {
	return PackOptions{
		MaxMessages:    60,
		MaxChars:       30000,
		IncludeSummary: true,
	}
}

// Packer selects and prepares messages for LLM context.
type Packer struct {
	opts PackOptions
}

// NewPacker creates a new context packer with the given options.
func NewPacker(opts PackOptions) *Packer {
	if opts.MaxMessages <= 0 {
		opts.MaxMessages = 60
	}
	if opts.MaxChars <= 0 {
		opts.MaxChars = 30000
	}
	return &Packer{opts: opts}
}

// Pack selects messages from history to fit within budget.
//
// The packed result includes (in order):
//  1. Summary message (if IncludeSummary and summary exists)
//  2. Recent messages from history (chronological order, up to budget)
//  3. The incoming message
//
// Messages are selected from the end (most recent) backwards until
// either MaxMessages or MaxChars is reached.
func (p *Packer) Pack(history []models.Message, incoming *models.Message, summary *models.Message) []models.Message {
	var result []models.Message

	totalChars := 0
	totalMsgs := 0

	if incoming != nil {
		totalChars += len(incoming.Content)
		totalMsgs++
	}
	if p.opts.IncludeSummary && summary != nil {
		totalChars += len(summary.Content)
		totalMsgs++
	}

	filtered := make([]models.Message, 0, len(history))
	for _, m := range history {
		if isSummaryMessage(m) {
			continue
		}
		filtered = append(filtered, m)
	}

	selectedReverse := make([]models.Message, 0)
	for i := len(filtered) - 1; i >= 0; i-- {
		m := filtered[i]
		msgChars := len(m.Content)

		if totalMsgs+1 > p.opts.MaxMessages {
			break
		}
		if totalChars+msgChars > p.opts.MaxChars {
			break
		}

		selectedReverse = append(selectedReverse, m)
		totalMsgs++
		totalChars += msgChars
	}

	selected := make([]models.Message, len(selectedReverse))
	for i, m := range selectedReverse {
		selected[len(selectedReverse)-1-i] = m
	}

	if p.opts.IncludeSummary && summary != nil {
		result = append(result, *summary)
	}
	result = append(result, selected...)
	if incoming != nil {
		result = append(result, *incoming)
	}

	return result
}
