// Package main provides the CLI entry point for the reactor agent runtime.
//
// reactor drives a ReAct-style CodeAct agent: the model reasons in
// <Action><Thought/><Code/></Action> XML, the Code is executed inside a
// sandboxed interpreter with a curated tool namespace, and the result
// feeds back into the next reasoning step.
//
// # Basic Usage
//
// Run a single task to completion:
//
//	reactor solve "What is 6 * 7?"
//
// Start an interactive chat session:
//
//	reactor chat
//
// # Environment Variables
//
//   - ANTHROPIC_API_KEY: Anthropic API key for Claude models
//   - OPENAI_API_KEY: OpenAI API key for GPT models
//   - REACTOR_PROVIDER: "anthropic" (default) or "openai"
//   - REACTOR_MODEL: model id override
package main

import (
	"fmt"
	"log/slog"
	"os"
)

// Build information, populated by ldflags during build.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	rootCmd := buildRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
