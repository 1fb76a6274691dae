package models

import "testing"

func TestWithNanoidPrefix(t *testing.T) {
	m := Message{ID: "abc123", Role: RoleUser, Content: "hello"}
	got := m.WithNanoidPrefix()
	want := "nanoid:abc123\nhello"
	if got != want {
		t.Fatalf("WithNanoidPrefix() = %q, want %q", got, want)
	}
}

func TestStripNanoidPrefix(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"prefixed", "nanoid:abc123\nhello world", "hello world"},
		{"prefixed multiline", "nanoid:xyz\nline1\nline2", "line1\nline2"},
		{"no prefix", "hello world", "hello world"},
		{"prefix without newline", "nanoid:abc123", "nanoid:abc123"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StripNanoidPrefix(tc.content); got != tc.want {
				t.Errorf("StripNanoidPrefix(%q) = %q, want %q", tc.content, got, tc.want)
			}
		})
	}
}

func TestStripNanoidPrefixRoundTrip(t *testing.T) {
	m := Message{ID: "n21charslong00000000x", Role: RoleAssistant, Content: "the answer is 42"}
	prefixed := m.WithNanoidPrefix()
	if got := StripNanoidPrefix(prefixed); got != m.Content {
		t.Fatalf("round trip = %q, want %q", got, m.Content)
	}
}
