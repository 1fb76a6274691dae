package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reactrun/reactor/internal/agent"
	"github.com/reactrun/reactor/internal/agent/reasoner"
	"github.com/reactrun/reactor/internal/models"
)

// buildChatCmd creates the "chat" command: a plain, non-ReAct
// conversation loop over stdin/stdout, sending each turn the packed (and,
// when due, summarized) window ConversationHistory.Prepare returns,
// distinct from solve()'s loop.
func buildChatCmd() *cobra.Command {
	opts := cliOptions{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session (no ReAct loop, no tools)",
		Long: `chat sends each line you type straight to the configured LLM provider,
sending a bounded, recency-ordered window of the conversation (older
turns folded into a rolling summary when due) each turn, and streams the reply
back to the terminal as it arrives.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newConfiguredAgent(opts)
			if err != nil {
				return err
			}

			provider := a.Provider()
			scanner := bufio.NewScanner(os.Stdin)
			fmt.Println("Type a message and press Enter. Ctrl-D to exit.")

			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					break
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}

				a.Chat(models.RoleUser, line)

				reply, err := completeChat(cmd.Context(), provider, a)
				if err != nil {
					fmt.Fprintf(os.Stderr, "error: %v\n", err)
					continue
				}

				a.Chat(models.RoleAssistant, reply)
			}

			return scanner.Err()
		},
	}

	addCommonFlags(cmd, &opts)
	return cmd
}

func completeChat(ctx context.Context, provider reasoner.Provider, a *agent.Agent) (string, error) {
	history, err := a.ConversationHistory().Prepare(ctx)
	if err != nil {
		return "", err
	}
	messages := make([]reasoner.CompletionMessage, 0, len(history))
	for _, m := range history {
		messages = append(messages, reasoner.CompletionMessage{Role: string(m.Role), Content: m.Content})
	}

	req := &reasoner.CompletionRequest{
		Model:       a.Model(),
		System:      a.SystemPrompt(),
		Messages:    messages,
		Temperature: a.Temperature(),
	}

	chunks, err := provider.Complete(ctx, req)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for chunk := range chunks {
		if chunk.Error != nil {
			return b.String(), chunk.Error
		}
		fmt.Print(chunk.Text)
		b.WriteString(chunk.Text)
	}
	fmt.Println()
	return b.String(), nil
}
