package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/lifeosapp/lifeos-api/internal/agent"
	"github.com/lifeosapp/lifeos-api/internal/client"
)

// NewCoachCmd creates the coach command
func NewCoachCmd() *cobra.Command {
	var mode string
	var goalID string

	cmd := &cobra.Command{
		Use:   "coach",
		Short: "Run a coach session",
		Long:  "Fetch the current goals, tasks, habits and notes, send them to the coach and print the response",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiURL, _ := cmd.Flags().GetString("api-url")
			c := client.New(apiURL, nil)

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()

			var focusGoalID *uuid.UUID
			if goalID != "" {
				id, err := uuid.Parse(goalID)
				if err != nil {
					return fmt.Errorf("invalid goal id: %w", err)
				}
				focusGoalID = &id
			}

			goals, err := c.ListGoals(ctx)
			if err != nil {
				return fmt.Errorf("failed to list goals: %w", err)
			}
			tasks, err := c.ListTasks(ctx)
			if err != nil {
				return fmt.Errorf("failed to list tasks: %w", err)
			}
			habits, err := c.ListHabits(ctx)
			if err != nil {
				return fmt.Errorf("failed to list habits: %w", err)
			}
			notes, err := c.ListNotes(ctx)
			if err != nil {
				return fmt.Errorf("failed to list notes: %w", err)
			}

			req := agent.BuildContext(agent.Mode(mode), goals, tasks, habits, notes, focusGoalID)
			resp, err := c.RunCoach(ctx, req)
			if err != nil {
				return fmt.Errorf("coach request failed: %w", err)
			}

			printResponse(resp)
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "daily", "Coach mode: daily, goal_deep_dive or retro")
	cmd.Flags().StringVar(&goalID, "goal", "", "Goal ID to focus on (goal_deep_dive mode)")

	return cmd
}

func printResponse(resp *agent.Response) {
	if len(resp.Insights) > 0 {
		fmt.Println("Insights:")
		for _, s := range resp.Insights {
			fmt.Printf("  - %s\n", s)
		}
	}
	if len(resp.TodayActions) > 0 {
		fmt.Println("Today's actions:")
		for _, a := range resp.TodayActions {
			fmt.Printf("  - %s\n", a.Title)
			if a.Reason != nil {
				fmt.Printf("    %s\n", *a.Reason)
			}
		}
	}
	if len(resp.Milestones) > 0 {
		fmt.Println("Milestones:")
		for _, m := range resp.Milestones {
			fmt.Printf("  - %s\n", m.Title)
			for _, step := range m.Steps {
				fmt.Printf("    * %s\n", step)
			}
		}
	}
	if len(resp.HabitSuggestions) > 0 {
		fmt.Println("Habit suggestions:")
		for _, s := range resp.HabitSuggestions {
			fmt.Printf("  - %s\n", s)
		}
	}
	if len(resp.Questions) > 0 {
		fmt.Println("Questions:")
		for _, q := range resp.Questions {
			fmt.Printf("  - %s\n", q)
		}
	}
	if len(resp.Ops) > 0 {
		fmt.Println("Suggested creations:")
		for _, op := range resp.Ops {
			fmt.Printf("  - [%s] %s\n", op.Type, op.Title)
		}
	}
}
