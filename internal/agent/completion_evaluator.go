package agent

import (
	"context"
	"strings"

	"github.com/reactrun/reactor/internal/agent/reasoner"
	"github.com/reactrun/reactor/internal/models"
	"github.com/reactrun/reactor/internal/templates"
)

// CompletionEvaluator decides whether a Step's ExecutionResult actually
// finishes the task.
type CompletionEvaluator interface {
	EvaluateCompletion(ctx context.Context, task, formattedHistory string, result models.ExecutionResult, successCriteria string) (complete bool, finalAnswer string)
}

// DefaultCompletionEvaluator implements CompletionEvaluator with an
// execution-status gate, an LLM-judge verification pass when the
// sandboxed code itself reports task_status=="completed", and a
// substring success-criteria fallback otherwise.
type DefaultCompletionEvaluator struct {
	provider    reasoner.Provider
	model       string
	temperature float64
	engine      *templates.VariableEngine
}

// NewCompletionEvaluator creates an evaluator that verifies completions
// via provider using model at temperature.
func NewCompletionEvaluator(provider reasoner.Provider, model string, temperature float64) *DefaultCompletionEvaluator {
	return &DefaultCompletionEvaluator{
		provider:    provider,
		model:       model,
		temperature: temperature,
		engine:      reasoner.NewEngine(),
	}
}

func (e *DefaultCompletionEvaluator) EvaluateCompletion(ctx context.Context, task, formattedHistory string, result models.ExecutionResult, successCriteria string) (bool, string) {
	if result.ExecutionStatus != models.ExecutionSuccess {
		return false, ""
	}

	finalAnswer := result.Result

	if result.TaskStatus == models.TaskCompleted {
		verdict, err := e.verify(ctx, task, finalAnswer, formattedHistory)
		if err != nil {
			return false, ""
		}
		switch verdict {
		case "yes":
			return true, finalAnswer
		case "not_solvable":
			return true, "Task is unsolvable: " + finalAnswer
		default:
			return false, ""
		}
	}

	if successCriteria != "" && finalAnswer != "" && strings.Contains(finalAnswer, successCriteria) {
		return true, finalAnswer
	}

	return false, ""
}

func (e *DefaultCompletionEvaluator) verify(ctx context.Context, task, finalAnswer, history string) (string, error) {
	prompt, err := reasoner.IsTaskCompletePrompt(e.engine, reasoner.IsTaskCompleteInputs{
		Task:        task,
		FinalAnswer: finalAnswer,
		TaskStatus:  string(models.TaskCompleted),
		Reason:      "Task marked as completed by execution result",
		History:     history,
	})
	if err != nil {
		return "", err
	}

	chunks, err := e.provider.Complete(ctx, &reasoner.CompletionRequest{
		Model:       e.model,
		Messages:    []reasoner.CompletionMessage{{Role: "user", Content: prompt}},
		MaxTokens:   20,
		Temperature: e.temperature,
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
	return strings.ToLower(strings.TrimSpace(b.String())), nil
}
