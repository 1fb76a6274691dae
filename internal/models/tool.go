package models

import (
	"context"
	"fmt"
)

// ToolArgument describes one keyword argument a Tool accepts. Arguments are
// rendered into the Reasoner's prompt as a docstring; the sandbox passes
// call-time arguments through to Execute without validating them.
type ToolArgument struct {
	Name        string `json:"name"`
	ArgType     string `json:"arg_type"` // "string", "int", "float", "bool", "list", ...
	Description string `json:"description"`
	Required    bool   `json:"required"`
	Default     any    `json:"default,omitempty"`
	Example     any    `json:"example,omitempty"`
}

// DefaultToolboxName is used when a Tool does not declare one explicitly.
const DefaultToolboxName = "default"

// ConfirmationMessager produces a confirmation prompt at call time, for
// tools whose confirmation text depends on the arguments being passed.
type ConfirmationMessager func() string

// Tool is a named, argument-typed, callable capability exposed to the
// sandbox.
//
// Within a toolbox tool names are unique; (ToolboxName, Name) is globally
// unique — the ToolRegistry enforces this.
type Tool struct {
	Name        string
	ToolboxName string
	Description string
	Arguments   []ToolArgument

	RequiresConfirmation bool
	// ConfirmationMessage is either a plain string or, when ConfirmationFunc
	// is set, a zero-arg function producing the message.
	ConfirmationMessage string
	ConfirmationFunc     ConfirmationMessager

	// Execute runs the tool. Implementations should honor ctx cancellation.
	// The returned value is rendered with fmt.Sprint for event summaries.
	Execute func(ctx context.Context, args map[string]any) (any, error)
}

// Confirmation resolves the confirmation message to show the user,
// preferring the dynamic function over the static string when both are set.
func (t Tool) Confirmation() string {
	if t.ConfirmationFunc != nil {
		return t.ConfirmationFunc()
	}
	return t.ConfirmationMessage
}

// QualifiedName returns "toolbox.name", the identity used by events and by
// the sandbox namespace (toolbox object attribute access).
func (t Tool) QualifiedName() string {
	toolbox := t.ToolboxName
	if toolbox == "" {
		toolbox = DefaultToolboxName
	}
	return fmt.Sprintf("%s.%s", toolbox, t.Name)
}

// SummarizeArg renders a single argument value for event payloads,
// truncated to 100 characters.
func SummarizeArg(v any) string {
	s := fmt.Sprint(v)
	if len(s) > 100 {
		return s[:100] + "..."
	}
	return s
}

// SummarizeArgs renders a full keyword-argument map for event payloads.
func SummarizeArgs(args map[string]any) map[string]string {
	out := make(map[string]string, len(args))
	for k, v := range args {
		out[k] = SummarizeArg(v)
	}
	return out
}
