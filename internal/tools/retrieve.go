// Package tools provides the built-in retrieval tools that cmd/reactor's
// agent factory registers on every agent it builds (agent.New itself
// registers none), plus example domain tools exercised by the sandbox's
// tool namespace.
package tools

import (
	"context"
	"fmt"

	"github.com/reactrun/reactor/internal/agent"
	"github.com/reactrun/reactor/internal/models"
)

// RetrieveMessagesToolbox names the toolbox under which the conversation
// and step retrieval tools are registered — the same "default" toolbox
// domain tools use, since generated code calls retrieve_message directly
// rather than through a dedicated namespace.
const RetrieveMessagesToolbox = models.DefaultToolboxName

// NewRetrieveMessageTool builds the "retrieve_message" tool: a lookup by
// nanoid into the conversation history. Message IDs are indexed from the
// moment a message is added, so there is no need for a fallback scan of
// message content for an embedded ID.
func NewRetrieveMessageTool(history *agent.ConversationHistory) models.Tool {
	return models.Tool{
		Name:        "retrieve_message",
		ToolboxName: RetrieveMessagesToolbox,
		Description: "Retrieve a past message's content from the conversation history by its ID. Returns only the content, without the ID.",
		Arguments: []models.ToolArgument{
			{Name: "nanoid", ArgType: "string", Description: "The ID of the message to retrieve", Required: true},
		},
		Execute: func(_ context.Context, args map[string]any) (any, error) {
			id, _ := args["nanoid"].(string)
			if id == "" {
				return nil, fmt.Errorf("retrieve_message: nanoid is required")
			}
			msg, ok := history.RetrieveMessage(id)
			if !ok {
				return fmt.Sprintf("Message with nanoid '%s' not found", id), nil
			}
			return msg.Content, nil
		},
	}
}

// NewRetrieveStepTool builds the "retrieve_step" tool: a 1-based indexed
// lookup into the current task's Steps.
//
// getMemory is called at invocation time, not at registration time,
// because the WorkingMemory for a task is created fresh by Solve() —
// it does not exist yet when tools are registered on a new Agent.
func NewRetrieveStepTool(getMemory func() *agent.WorkingMemory) models.Tool {
	return models.Tool{
		Name:        "retrieve_step",
		ToolboxName: RetrieveMessagesToolbox,
		Description: "Retrieve the thought, action, and result from a specific step of the current task.",
		Arguments: []models.ToolArgument{
			{Name: "step_number", ArgType: "int", Description: "The step number to retrieve (1-based)", Required: true},
		},
		Execute: func(_ context.Context, args map[string]any) (any, error) {
			n, err := toInt(args["step_number"])
			if err != nil {
				return nil, fmt.Errorf("retrieve_step: %w", err)
			}
			memory := getMemory()
			if memory == nil {
				return nil, fmt.Errorf("retrieve_step: no task is in progress")
			}
			steps := memory.Steps()
			if n < 1 || n > len(steps) {
				return nil, fmt.Errorf("step %d is out of range (1-%d)", n, len(steps))
			}
			step := steps[n-1]
			return fmt.Sprintf(
				"Step %d:\nThought: %s\nAction: %s\nResult: %s",
				n, step.Thought, step.Action, step.Result.Result,
			), nil
		},
	}
}

// toInt accepts the numeric shapes a sandboxed call might pass a kwarg
// as (an int from Go-side tests, or a float64 the way goja/JSON-decoded
// numbers arrive).
func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("expected a number, got %T", v)
	}
}
