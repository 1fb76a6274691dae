package agent

import (
	"context"
	"testing"

	"github.com/reactrun/reactor/internal/agent/reasoner"
	"github.com/reactrun/reactor/internal/models"
)

type fakeJudge struct{ verdict string }

func (f *fakeJudge) Name() string              { return "fake" }
func (f *fakeJudge) Models() []reasoner.Model  { return nil }
func (f *fakeJudge) Complete(ctx context.Context, req *reasoner.CompletionRequest) (<-chan *reasoner.CompletionChunk, error) {
	ch := make(chan *reasoner.CompletionChunk, 2)
	ch <- &reasoner.CompletionChunk{Text: f.verdict}
	ch <- &reasoner.CompletionChunk{Done: true}
	close(ch)
	return ch, nil
}

func TestEvaluateCompletionExecutionFailureIsIncomplete(t *testing.T) {
	e := NewCompletionEvaluator(&fakeJudge{verdict: "yes"}, "fake-model", 0)
	complete, _ := e.EvaluateCompletion(t.Context(), "task", "history", models.ExecutionResult{ExecutionStatus: models.ExecutionError}, "")
	if complete {
		t.Errorf("expected incomplete on execution error")
	}
}

func TestEvaluateCompletionLLMJudgeYes(t *testing.T) {
	e := NewCompletionEvaluator(&fakeJudge{verdict: "yes"}, "fake-model", 0)
	complete, answer := e.EvaluateCompletion(t.Context(), "task", "history", models.ExecutionResult{
		ExecutionStatus: models.ExecutionSuccess,
		TaskStatus:      models.TaskCompleted,
		Result:          "42",
	}, "")
	if !complete || answer != "42" {
		t.Errorf("got complete=%v answer=%q, want true/42", complete, answer)
	}
}

func TestEvaluateCompletionLLMJudgeNotSolvable(t *testing.T) {
	e := NewCompletionEvaluator(&fakeJudge{verdict: "not_solvable"}, "fake-model", 0)
	complete, answer := e.EvaluateCompletion(t.Context(), "task", "history", models.ExecutionResult{
		ExecutionStatus: models.ExecutionSuccess,
		TaskStatus:      models.TaskCompleted,
		Result:          "can't do it",
	}, "")
	if !complete {
		t.Errorf("expected complete=true for not_solvable verdict")
	}
	if answer != "Task is unsolvable: can't do it" {
		t.Errorf("answer = %q", answer)
	}
}

func TestEvaluateCompletionLLMJudgeNo(t *testing.T) {
	e := NewCompletionEvaluator(&fakeJudge{verdict: "no"}, "fake-model", 0)
	complete, _ := e.EvaluateCompletion(t.Context(), "task", "history", models.ExecutionResult{
		ExecutionStatus: models.ExecutionSuccess,
		TaskStatus:      models.TaskCompleted,
		Result:          "partial",
	}, "")
	if complete {
		t.Errorf("expected incomplete for 'no' verdict")
	}
}

func TestEvaluateCompletionSuccessCriteriaFallback(t *testing.T) {
	e := NewCompletionEvaluator(&fakeJudge{verdict: "yes"}, "fake-model", 0)
	complete, answer := e.EvaluateCompletion(t.Context(), "task", "history", models.ExecutionResult{
		ExecutionStatus: models.ExecutionSuccess,
		TaskStatus:      models.TaskInProgress,
		Result:          "the answer contains DONE marker",
	}, "DONE")
	if !complete || answer == "" {
		t.Errorf("expected success-criteria match to complete the task, got complete=%v answer=%q", complete, answer)
	}
}

func TestEvaluateCompletionInProgressNoCriteria(t *testing.T) {
	e := NewCompletionEvaluator(&fakeJudge{verdict: "yes"}, "fake-model", 0)
	complete, _ := e.EvaluateCompletion(t.Context(), "task", "history", models.ExecutionResult{
		ExecutionStatus: models.ExecutionSuccess,
		TaskStatus:      models.TaskInProgress,
		Result:          "still working",
	}, "")
	if complete {
		t.Errorf("expected incomplete with no success criteria met")
	}
}
