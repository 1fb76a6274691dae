package tools

import (
	"testing"

	"github.com/reactrun/reactor/internal/agent"
	"github.com/reactrun/reactor/internal/models"
)

func TestRetrieveMessageToolFindsByID(t *testing.T) {
	history := agent.NewConversationHistory(0)
	msg := history.AddMessage(models.RoleAssistant, "the answer is 42")

	tool := NewRetrieveMessageTool(history)
	got, err := tool.Execute(t.Context(), map[string]any{"nanoid": msg.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "the answer is 42" {
		t.Errorf("got %q, want original content", got)
	}
}

func TestRetrieveMessageToolNotFound(t *testing.T) {
	history := agent.NewConversationHistory(0)
	tool := NewRetrieveMessageTool(history)

	got, err := tool.Execute(t.Context(), map[string]any{"nanoid": "missing"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Message with nanoid 'missing' not found" {
		t.Errorf("got %q", got)
	}
}

func TestRetrieveStepToolReturnsStepSummary(t *testing.T) {
	memory := agent.NewWorkingMemory("", "task", 0)
	memory.AddStep(models.Step{
		StepNumber: 1,
		Thought:    "thinking",
		Action:     "print(1)",
		Result:     models.ExecutionResult{ExecutionStatus: models.ExecutionSuccess, Result: "1"},
	})

	tool := NewRetrieveStepTool(func() *agent.WorkingMemory { return memory })
	got, err := tool.Execute(t.Context(), map[string]any{"step_number": 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	gotStr, _ := got.(string)
	if gotStr == "" {
		t.Fatalf("expected non-empty step summary")
	}
}

func TestRetrieveStepToolOutOfRange(t *testing.T) {
	memory := agent.NewWorkingMemory("", "task", 0)
	tool := NewRetrieveStepTool(func() *agent.WorkingMemory { return memory })

	if _, err := tool.Execute(t.Context(), map[string]any{"step_number": 5}); err == nil {
		t.Fatal("expected out-of-range error")
	}
}
