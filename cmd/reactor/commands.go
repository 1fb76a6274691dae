package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/reactrun/reactor/internal/agent"
	"github.com/reactrun/reactor/internal/agent/providers"
	"github.com/reactrun/reactor/internal/agent/reasoner"
	"github.com/reactrun/reactor/internal/models"
	"github.com/reactrun/reactor/internal/tools"
)

// buildRootCmd creates the root command with all subcommands attached.
// Separated from main() to facilitate testing.
func buildRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "reactor",
		Short: "reactor - a ReAct/CodeAct agent runtime",
		Long: `reactor drives an LLM through a reason -> sandboxed-execute -> judge loop.

Each step, the model emits an <Action><Thought/><Code/></Action> response;
the Code runs inside a sandboxed interpreter with a curated tool namespace,
and the structured result feeds back into the next reasoning step.

Supported providers: Anthropic (Claude), OpenAI (GPT)`,
		Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		buildSolveCmd(),
		buildChatCmd(),
	)

	return rootCmd
}

// cliOptions are the flags shared by solve and chat.
type cliOptions struct {
	provider        string
	model           string
	temperature     float64
	maxIterations   int
	toolTimeout     time.Duration
	systemPrompt    string
	successCriteria string
}

func addCommonFlags(cmd *cobra.Command, opts *cliOptions) {
	cmd.Flags().StringVar(&opts.provider, "provider", envOr("REACTOR_PROVIDER", "anthropic"), "LLM provider: anthropic or openai")
	cmd.Flags().StringVar(&opts.model, "model", os.Getenv("REACTOR_MODEL"), "model id override (provider default if empty)")
	cmd.Flags().Float64Var(&opts.temperature, "temperature", 0.2, "sampling temperature")
	cmd.Flags().IntVar(&opts.maxIterations, "max-iterations", agent.DefaultMaxIterations, "maximum ReAct steps before giving up")
	cmd.Flags().DurationVar(&opts.toolTimeout, "tool-timeout", 300*time.Second, "per-step sandbox execution timeout")
	cmd.Flags().StringVar(&opts.systemPrompt, "system-prompt", "", "system prompt prefixed onto every step")
	cmd.Flags().StringVar(&opts.successCriteria, "success-criteria", "", "substring that, if present in the final answer, counts as success")
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// buildProvider constructs the reasoner.Provider named by opts.provider,
// reading API keys from the environment — no credential ever comes from
// a flag.
func buildProvider(opts cliOptions) (reasoner.Provider, error) {
	switch strings.ToLower(opts.provider) {
	case "", "anthropic":
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		cfg := providers.AnthropicConfig{APIKey: apiKey}
		if opts.model != "" {
			cfg.DefaultModel = opts.model
		}
		return providers.NewAnthropicProvider(cfg)
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		return providers.NewOpenAIProvider(apiKey), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (want anthropic or openai)", opts.provider)
	}
}

// newConfiguredAgent builds an Agent wired with the requested provider
// and the built-in tools every reactor agent carries: history retrieval
// plus the small example toolbox.
func newConfiguredAgent(opts cliOptions) (*agent.Agent, error) {
	provider, err := buildProvider(opts)
	if err != nil {
		return nil, fmt.Errorf("build provider: %w", err)
	}

	a := agent.New(agent.Config{
		Provider:        provider,
		Model:           opts.model,
		Temperature:     opts.temperature,
		MaxIterations:   opts.maxIterations,
		ToolTimeout:     opts.toolTimeout,
		SystemPrompt:    opts.systemPrompt,
		SuccessCriteria: opts.successCriteria,
	})

	a.RegisterTool(tools.NewRetrieveMessageTool(a.ConversationHistory()))
	a.RegisterTool(tools.NewRetrieveStepTool(a.Memory))
	a.RegisterTool(tools.NewAddTool())
	a.RegisterTool(tools.NewMultiplyTool())

	return a, nil
}

// printEvent renders one agent event to stdout in a compact, greppable
// form, for solve's --verbose observer.
func printEvent(e models.Event) {
	fmt.Printf("[%s]\n", e.EventBase().Type)
}
