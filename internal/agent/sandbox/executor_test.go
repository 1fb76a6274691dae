package sandbox

import (
	"context"
	"testing"
	"time"

	"github.com/reactrun/reactor/internal/models"
)

type noopCaller struct{}

func (noopCaller) ToolCallStarted(stepNumber int, toolName string, args map[string]any)   {}
func (noopCaller) ToolCallCompleted(stepNumber int, toolName string, result any)           {}
func (noopCaller) ToolCallError(stepNumber int, toolName string, err error)                {}
func (noopCaller) Confirm(stepNumber int, toolName, message string, args map[string]any) bool {
	return true
}

// decliningCaller always refuses confirmation, exercising the abort path.
type decliningCaller struct{ noopCaller }

func (decliningCaller) Confirm(stepNumber int, toolName, message string, args map[string]any) bool {
	return false
}

func TestExecuteSimpleSuccess(t *testing.T) {
	e := New(nil, time.Second)
	result := e.Execute(t.Context(), `
function main() {
    result = "42";
    task_status = "completed";
}
`, nil, 1, noopCaller{})

	if result.ExecutionStatus != models.ExecutionSuccess {
		t.Fatalf("expected success, got %+v", result)
	}
	if result.Result != "42" {
		t.Errorf("Result = %q, want %q", result.Result, "42")
	}
	if result.TaskStatus != models.TaskCompleted {
		t.Errorf("TaskStatus = %q", result.TaskStatus)
	}
}

func TestExecuteRuntimeError(t *testing.T) {
	e := New(nil, time.Second)
	result := e.Execute(t.Context(), `
function main() {
    throw new Error("boom");
}
`, nil, 1, noopCaller{})

	if result.ExecutionStatus != models.ExecutionError {
		t.Fatalf("expected error status, got %+v", result)
	}
}

func TestExecuteTimeout(t *testing.T) {
	e := New(nil, 50*time.Millisecond)
	result := e.Execute(t.Context(), `
function main() {
    while (true) {}
}
`, nil, 1, noopCaller{})

	if result.ExecutionStatus != models.ExecutionError {
		t.Fatalf("expected timeout to surface as an error, got %+v", result)
	}
}

func TestExecuteDisallowedRequire(t *testing.T) {
	e := New(nil, time.Second)
	result := e.Execute(t.Context(), `
function main() {
    require("os");
}
`, nil, 1, noopCaller{})

	if result.ExecutionStatus != models.ExecutionError {
		t.Fatalf("expected disallowed require to error, got %+v", result)
	}
}

func TestExecuteCallsTool(t *testing.T) {
	calc := models.Tool{
		Name:        "add",
		ToolboxName: "math",
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			a, _ := args["a"].(int64)
			b, _ := args["b"].(int64)
			return a + b, nil
		},
	}

	e := New([]models.Tool{calc}, time.Second)
	result := e.Execute(t.Context(), `
function main() {
    sum = math.add({a: 2, b: 3});
    result = String(sum);
    task_status = "completed";
}
`, nil, 1, noopCaller{})

	if result.ExecutionStatus != models.ExecutionSuccess {
		t.Fatalf("expected success, got %+v", result)
	}
	if result.Result != "5" {
		t.Errorf("Result = %q, want %q", result.Result, "5")
	}
}

func TestExecuteDeclinedConfirmationAborts(t *testing.T) {
	deleteFile := models.Tool{
		Name:                 "delete_file",
		ToolboxName:          "files",
		RequiresConfirmation: true,
		ConfirmationMessage:  "delete the file?",
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			return "deleted", nil
		},
	}

	e := New([]models.Tool{deleteFile}, time.Second)
	result := e.Execute(t.Context(), `
function main() {
    files.delete_file({});
}
`, nil, 1, decliningCaller{})

	if !result.Aborted {
		t.Fatalf("expected Aborted=true, got %+v", result)
	}
	if result.ExecutionStatus != models.ExecutionError {
		t.Errorf("ExecutionStatus = %q, want error", result.ExecutionStatus)
	}
	if result.Error != ErrAbortConfirmationDeclined.Error() {
		t.Errorf("Error = %q, want %q", result.Error, ErrAbortConfirmationDeclined.Error())
	}
	if result.TaskStatus != models.TaskAborted {
		t.Errorf("TaskStatus = %q, want %q", result.TaskStatus, models.TaskAborted)
	}
}
