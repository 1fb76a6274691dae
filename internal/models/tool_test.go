package models

import "testing"

func TestToolQualifiedName(t *testing.T) {
	cases := []struct {
		name string
		tool Tool
		want string
	}{
		{"explicit toolbox", Tool{Name: "multiply", ToolboxName: "math"}, "math.multiply"},
		{"default toolbox", Tool{Name: "search"}, "default.search"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.tool.QualifiedName(); got != tc.want {
				t.Errorf("QualifiedName() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestToolConfirmationPrefersFunc(t *testing.T) {
	tool := Tool{
		ConfirmationMessage: "static",
		ConfirmationFunc:    func() string { return "dynamic" },
	}
	if got := tool.Confirmation(); got != "dynamic" {
		t.Errorf("Confirmation() = %q, want %q", got, "dynamic")
	}

	tool2 := Tool{ConfirmationMessage: "static only"}
	if got := tool2.Confirmation(); got != "static only" {
		t.Errorf("Confirmation() = %q, want %q", got, "static only")
	}
}

func TestSummarizeArgTruncates(t *testing.T) {
	long := ""
	for i := 0; i < 150; i++ {
		long += "x"
	}
	got := SummarizeArg(long)
	if len(got) != 103 {
		t.Fatalf("len(SummarizeArg(long)) = %d, want 103", len(got))
	}
	if got[100:] != "..." {
		t.Errorf("SummarizeArg did not append ellipsis: %q", got[100:])
	}
}

func TestSummarizeArgsShort(t *testing.T) {
	out := SummarizeArgs(map[string]any{"x": 6, "y": 7})
	if out["x"] != "6" || out["y"] != "7" {
		t.Errorf("SummarizeArgs = %#v", out)
	}
}
