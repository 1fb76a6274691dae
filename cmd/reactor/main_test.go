package main

import "testing"

func TestBuildRootCmdIncludesSubcommands(t *testing.T) {
	cmd := buildRootCmd()
	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}

	for _, name := range []string{"solve", "chat"} {
		if !names[name] {
			t.Fatalf("expected subcommand %q to be registered", name)
		}
	}
}

func TestBuildProviderUnknownName(t *testing.T) {
	_, err := buildProvider(cliOptions{provider: "bogus"})
	if err == nil {
		t.Fatal("expected an error for an unknown provider")
	}
}

func TestBuildProviderOpenAIAllowsEmptyKey(t *testing.T) {
	p, err := buildProvider(cliOptions{provider: "openai"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name() == "" {
		t.Fatal("expected a non-empty provider name")
	}
}

func TestEnvOrFallsBack(t *testing.T) {
	if got := envOr("REACTOR_TEST_UNSET_VAR", "fallback"); got != "fallback" {
		t.Errorf("got %q, want fallback", got)
	}
}
