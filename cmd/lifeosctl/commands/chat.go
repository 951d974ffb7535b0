package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lifeosapp/lifeos-api/internal/agent"
	"github.com/lifeosapp/lifeos-api/internal/client"
)

// NewChatCmd creates the chat command
func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Chat with the coach",
		Long:  "Send one message with `chat \"...\"` or start an interactive session with no arguments",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiURL, _ := cmd.Flags().GetString("api-url")
			c := client.New(apiURL, nil)

			if len(args) > 0 {
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
				defer cancel()

				history := []agent.ChatMessage{{Role: "user", Content: strings.Join(args, " ")}}
				reply, err := c.RunChat(ctx, history)
				if err != nil {
					return fmt.Errorf("chat request failed: %w", err)
				}
				fmt.Println(reply)
				return nil
			}

			return interactiveChat(c)
		},
	}

	return cmd
}

// interactiveChat keeps the full conversation in memory and resends it on
// every turn. The server is stateless; history lives on the client side.
func interactiveChat(c *client.Client) error {
	fmt.Println("Chatting with the coach. Empty line or Ctrl-D to quit.")

	var history []agent.ChatMessage
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			break
		}

		history = append(history, agent.ChatMessage{Role: "user", Content: line})

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		reply, err := c.RunChat(ctx, history)
		cancel()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			// Drop the failed turn so a transient error does not poison history
			history = history[:len(history)-1]
			continue
		}

		history = append(history, agent.ChatMessage{Role: "assistant", Content: reply})
		fmt.Println(reply)
	}

	return scanner.Err()
}
