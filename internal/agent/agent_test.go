package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/reactrun/reactor/internal/agent/reasoner"
	"github.com/reactrun/reactor/internal/agent/sandbox"
	"github.com/reactrun/reactor/internal/models"
)

// scriptedProvider returns one canned action per GenerateAction call and,
// for the completion-evaluator's judge call (a short MaxTokens request),
// a fixed verdict.
type scriptedProvider struct {
	actions []string
	verdict string
	calls   int
}

func (p *scriptedProvider) Name() string             { return "scripted" }
func (p *scriptedProvider) Models() []reasoner.Model { return nil }
func (p *scriptedProvider) Complete(ctx context.Context, req *reasoner.CompletionRequest) (<-chan *reasoner.CompletionChunk, error) {
	ch := make(chan *reasoner.CompletionChunk, 2)
	if req.MaxTokens > 0 && req.MaxTokens <= 20 {
		ch <- &reasoner.CompletionChunk{Text: p.verdict}
	} else {
		text := p.actions[p.calls]
		p.calls++
		ch <- &reasoner.CompletionChunk{Text: text}
	}
	ch <- &reasoner.CompletionChunk{Done: true}
	close(ch)
	return ch, nil
}

func TestAgentSolveCompletesOnFirstStep(t *testing.T) {
	provider := &scriptedProvider{
		actions: []string{
			`<Action><Thought>answer directly</Thought><Code>function main() { result = "the answer is 42"; task_status = "completed"; }</Code></Action>`,
		},
		verdict: "yes",
	}

	a := New(Config{Provider: provider, Model: "scripted-model"})

	var events []models.Event
	a.AddObserver(func(e models.Event) { events = append(events, e) })

	answer, err := a.Solve(t.Context(), "what is the answer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer != "the answer is 42" {
		t.Errorf("answer = %q", answer)
	}

	sawTaskCompleted := false
	for _, e := range events {
		if e.EventBase().Type == models.EventTaskCompleted {
			sawTaskCompleted = true
		}
	}
	if !sawTaskCompleted {
		t.Errorf("expected a task_completed event to have been emitted")
	}
}

func TestAgentSolveMaxIterations(t *testing.T) {
	provider := &scriptedProvider{
		actions: []string{
			`<Action><Thought>still working</Thought><Code>function main() { result = "partial"; task_status = "inprogress"; }</Code></Action>`,
			`<Action><Thought>still working</Thought><Code>function main() { result = "partial"; task_status = "inprogress"; }</Code></Action>`,
		},
	}

	a := New(Config{Provider: provider, Model: "scripted-model", MaxIterations: 2})

	_, err := a.Solve(t.Context(), "an unsolvable task")
	if err == nil {
		t.Fatalf("expected an error when max iterations is reached")
	}
}

func TestAgentSolveAbortsOnDeclinedConfirmation(t *testing.T) {
	provider := &scriptedProvider{
		actions: []string{
			`<Action><Thought>try it</Thought><Code>function main() { tools.delete_file({}); }</Code></Action>`,
		},
	}

	a := New(Config{Provider: provider, Model: "scripted-model"})
	a.RegisterTool(models.Tool{
		Name:                 "delete_file",
		ToolboxName:          "tools",
		RequiresConfirmation: true,
		ConfirmationMessage:  "delete the file?",
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			return "deleted", nil
		},
	})

	var events []models.Event
	a.AddObserver(func(e models.Event) {
		events = append(events, e)
		if req, ok := e.(models.ToolConfirmationRequestEvent); ok {
			req.Respond <- models.ConfirmationResponse{Approved: false}
		}
	})

	_, err := a.Solve(t.Context(), "delete a file")
	if err == nil || !errors.Is(err, sandbox.ErrAbortConfirmationDeclined) {
		t.Fatalf("expected an abort error, got %v", err)
	}

	for _, e := range events {
		switch e.EventBase().Type {
		case models.EventTaskCompleted:
			t.Errorf("expected no task_completed event when aborted")
		case models.EventToolExecutionStarted:
			t.Errorf("expected no tool_execution_started event when confirmation is declined")
		}
	}

	steps := a.Memory().Steps()
	if len(steps) == 0 || !steps[len(steps)-1].Result.Aborted {
		t.Fatalf("expected a trailing aborted step in memory, got %+v", steps)
	}
	if steps[len(steps)-1].Result.Error != sandbox.ErrAbortConfirmationDeclined.Error() {
		t.Errorf("trailing step error = %q", steps[len(steps)-1].Result.Error)
	}
}

func TestAgentSolveAbortsWithNoObserverToConfirm(t *testing.T) {
	provider := &scriptedProvider{
		actions: []string{
			`<Action><Thought>try it</Thought><Code>function main() { tools.delete_file({}); }</Code></Action>`,
		},
	}

	a := New(Config{Provider: provider, Model: "scripted-model"})
	a.RegisterTool(models.Tool{
		Name:                 "delete_file",
		ToolboxName:          "tools",
		RequiresConfirmation: true,
		ConfirmationMessage:  "delete the file?",
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			return "deleted", nil
		},
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := a.Solve(t.Context(), "delete a file")
		if err == nil || !errors.Is(err, sandbox.ErrAbortConfirmationDeclined) {
			t.Errorf("expected an abort error, got %v", err)
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Solve deadlocked with no observer to answer the confirmation request")
	}
}

func TestAgentChatRecordsHistory(t *testing.T) {
	a := New(Config{Provider: &scriptedProvider{}})
	a.Chat(models.RoleUser, "hello")
	history := a.History()
	if len(history) != 1 || history[0].Content != "hello" {
		t.Fatalf("unexpected history: %+v", history)
	}
}

func TestAgentRegisterAndListTools(t *testing.T) {
	a := New(Config{Provider: &scriptedProvider{}})
	a.RegisterTool(models.Tool{Name: "search", ToolboxName: "web"})
	tools := a.ListTools()
	if len(tools) != 1 || tools[0].Name != "search" {
		t.Fatalf("unexpected tools: %+v", tools)
	}
}
