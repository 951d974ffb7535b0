package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lifeosapp/lifeos-api/cmd/lifeosctl/commands"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "lifeosctl",
		Short: "Command-line client for the LifeOS API",
		Long:  "CLI for running coach sessions, chatting and inspecting stored data over the LifeOS HTTP API",
	}

	rootCmd.PersistentFlags().String("api-url", defaultAPIURL(), "Base URL of the LifeOS API")

	rootCmd.AddCommand(commands.NewCoachCmd())
	rootCmd.AddCommand(commands.NewChatCmd())
	rootCmd.AddCommand(commands.NewGoalsCmd())
	rootCmd.AddCommand(commands.NewDigestsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func defaultAPIURL() string {
	if url := os.Getenv("LIFEOS_API_URL"); url != "" {
		return url
	}
	return "http://localhost:8080"
}
