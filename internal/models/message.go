// Package models provides the shared data types for the ReAct agent
// runtime: conversation messages, tool metadata, execution results, and
// the typed event stream.
package models

import (
	"strings"
	"time"
)

// Role indicates the author of a Message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single entry in a conversation history.
//
// ID is an opaque, collision-resistant identifier assigned once at
// creation and never changed; see NewID.
type Message struct {
	ID        string         `json:"id"`
	Role      Role           `json:"role"`
	Content   string         `json:"content"`
	CreatedAt time.Time      `json:"created_at,omitempty"`
	// Metadata carries ambient bookkeeping that never reaches the LLM
	// prompt directly — currently only the rolling-summary markers
	// internal/agent/context attaches.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// nanoidPrefix is the convention used when a message is serialized for the
// Reasoner: the id is prepended as the first line so the model can later
// cite the message for retrieval.
const nanoidPrefix = "nanoid:"

// WithNanoidPrefix returns the message content prefixed with its id in the
// "nanoid:<id>\n<content>" form the Reasoner sends to the LLM.
func (m Message) WithNanoidPrefix() string {
	return nanoidPrefix + m.ID + "\n" + m.Content
}

// StripNanoidPrefix removes a leading "nanoid:<id>\n" line from content, if
// present, returning the remainder unchanged otherwise.
func StripNanoidPrefix(content string) string {
	if !strings.HasPrefix(content, nanoidPrefix) {
		return content
	}
	rest := content[len(nanoidPrefix):]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		return rest[nl+1:]
	}
	return content
}
