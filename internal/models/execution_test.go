package models

import "testing"

func TestExecutionTimeLabel(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "0.00 seconds"},
		{1.5, "1.50 seconds"},
		{12.345, "12.35 seconds"},
	}
	for _, tc := range cases {
		r := ExecutionResult{ExecutionTime: tc.seconds}
		if got := r.ExecutionTimeLabel(); got != tc.want {
			t.Errorf("ExecutionTimeLabel(%v) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestStepConstruction(t *testing.T) {
	s := Step{
		StepNumber: 1,
		Thought:    "thinking",
		Action:     "print('hi')",
		Result: ExecutionResult{
			ExecutionStatus: ExecutionSuccess,
			TaskStatus:      TaskCompleted,
			Result:          "hi",
		},
	}
	if s.Result.ExecutionStatus != ExecutionSuccess {
		t.Fatalf("expected success status")
	}
	if s.Result.TaskStatus != TaskCompleted {
		t.Fatalf("expected completed task status")
	}
}
