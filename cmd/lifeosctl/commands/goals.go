package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lifeosapp/lifeos-api/internal/client"
)

// NewGoalsCmd creates the goals command
func NewGoalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goals",
		Short: "List goals",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiURL, _ := cmd.Flags().GetString("api-url")
			c := client.New(apiURL, nil)

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			goals, err := c.ListGoals(ctx)
			if err != nil {
				return fmt.Errorf("failed to list goals: %w", err)
			}

			if len(goals) == 0 {
				fmt.Println("No goals")
				return nil
			}

			for _, g := range goals {
				fmt.Printf("%s  [%s]  %s\n", g.ID, g.Horizon, g.Title)
				if g.TargetDate != nil {
					fmt.Printf("    target: %s\n", g.TargetDate.Format("2006-01-02"))
				}
			}
			return nil
		},
	}

	return cmd
}
