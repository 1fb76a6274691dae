package tools

import "testing"

func TestAddTool(t *testing.T) {
	tool := NewAddTool()
	got, err := tool.Execute(t.Context(), map[string]any{"x": 2.0, "y": 3.0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 5.0 {
		t.Errorf("got %v, want 5", got)
	}
}

func TestMultiplyTool(t *testing.T) {
	tool := NewMultiplyTool()
	got, err := tool.Execute(t.Context(), map[string]any{"x": 6.0, "y": 7.0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42.0 {
		t.Errorf("got %v, want 42", got)
	}
}

func TestMultiplyToolRejectsNonNumeric(t *testing.T) {
	tool := NewMultiplyTool()
	if _, err := tool.Execute(t.Context(), map[string]any{"x": "nope", "y": 1.0}); err == nil {
		t.Fatal("expected type error")
	}
}
